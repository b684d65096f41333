package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/actlog/actlog-go/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := configPath
		if path == "" {
			path = config.Path()
		}
		if config.Exists(path) && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.Save(config.DefaultConfig(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	path := configPath
	if path == "" {
		path = config.Path()
	}

	fmt.Fprintf(out, "  Config file: %s\n", path)
	if config.Exists(path) {
		fmt.Fprintln(out, "  Status: loaded")
	} else {
		fmt.Fprintln(out, "  Status: using defaults (no config file)")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [General]")
	fmt.Fprintf(out, "    Log glob:       %s\n", cfg.General.LogGlob)
	if cfg.General.LogDir != "" {
		fmt.Fprintf(out, "    Log directory:  %s\n", cfg.General.LogDir)
	}
	if cfg.General.Profile != "" {
		fmt.Fprintf(out, "    Profile:        %s\n", cfg.General.Profile)
	}
	fmt.Fprintf(out, "    Max file size:  %d MB\n", cfg.General.MaxFileMB)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [Scan]")
	fmt.Fprintf(out, "    Max events:     %d\n", cfg.Scan.MaxEvents)
	fmt.Fprintf(out, "    Max statuses:   %d\n", cfg.Scan.MaxStatusEvents)
	fmt.Fprintf(out, "    Include status: %v\n", cfg.Scan.IncludeStatus)
	fmt.Fprintf(out, "    Window:         %d KB\n", cfg.Scan.WindowKB)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [Timeline]")
	fmt.Fprintf(out, "    FPS:            %d\n", cfg.Timeline.FPS)
	fmt.Fprintf(out, "    Field size:     %d\n", cfg.Timeline.FieldSize)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [Cache]")
	fmt.Fprintf(out, "    Enabled:        %v\n", cfg.Cache.Enabled)
	fmt.Fprintf(out, "    Path:           %s\n", cfg.CachePath())
	return nil
}
