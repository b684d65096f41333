package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	zonesFormat string
	zonesAll    bool
)

var zonesCmd = &cobra.Command{
	Use:   "zones [file]",
	Short: "List zones and encounters",
	Long: `Segment a log into zone sessions and encounters.

An encounter starts with an enemy action, ends after 30s without one or at
a wipe or clear, and is kept only if it lasted at least 10s. The index is
cached per file, so later runs on an unchanged log are instant.

The zone numbers and encounter ids shown here select windows for
'actlog extract' and 'actlog convert'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runZones,
}

func init() {
	zonesCmd.Flags().StringVarP(&zonesFormat, "format", "f", "pretty", "Output format: pretty, json")
	zonesCmd.Flags().BoolVar(&zonesAll, "all", false, "Also list zones without encounters")
	rootCmd.AddCommand(zonesCmd)
}

func runZones(cmd *cobra.Command, args []string) error {
	if zonesFormat != "pretty" && zonesFormat != "json" {
		return fmt.Errorf("unknown format: %s (valid: pretty, json)", zonesFormat)
	}

	ctx, stop := signalContext()
	defer stop()

	in, err := readLog(args)
	if err != nil {
		return err
	}
	zones, err := loadZones(ctx, in, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if zonesFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(zones)
	}
	if len(zones) == 0 {
		_, err := fmt.Fprintln(out, "  no zone changes found in log")
		return err
	}
	_, err = fmt.Fprint(out, renderZones(zones, zonesAll))
	return err
}
