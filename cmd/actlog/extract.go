package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/actlog/actlog-go/pkg/actlog"
)

var (
	extractFlags outputFlags
	extractWin   windowFlags
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Decode the events of one encounter or time window",
	Long: `Re-scan the lines of a log that fall inside a window.

The window is either an encounter from 'actlog zones', optionally padded,
or an explicit --since/--until range. Scanning stops at the first line
after the window, so the log is assumed to be in timestamp order.

Examples:
  actlog extract --zone 2 --encounter 3 --format pretty
  actlog extract --encounter 3 --pad-before 5s --types status_add
  actlog extract --since 2024-01-15T20:00:00+09:00 --until 2024-01-15T20:10:00+09:00`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractFlags.register(extractCmd)
	extractWin.register(extractCmd)
	rootCmd.AddCommand(extractCmd)
}

// resolveWindow turns the window flags into a time range, indexing the log
// when an encounter is selected.
func resolveWindow(ctx context.Context, w *windowFlags, in *logInput, stderr io.Writer) (window, error) {
	if !w.byEncounter() {
		return w.parseTimeRange()
	}
	zones, err := loadZones(ctx, in, stderr)
	if err != nil {
		return window{}, err
	}
	return selectEncounter(zones, w.zone, w.encounter, w.padBefore, w.padAfter)
}

// extractWindow runs Extract over win, passing the zone roster when the
// window came from an encounter.
func extractWindow(ctx context.Context, in *logInput, win window, opts []actlog.Option) (*actlog.ParseResult, error) {
	if win.zone != nil {
		opts = append(opts, actlog.WithZonePlayers(win.players))
		logger.Debug("extracting encounter", "encounter", win.encounter.ID, "boss", win.encounter.BossName,
			"start", win.start, "end", win.end)
	}
	return actlog.Extract(ctx, in.text, win.start, win.end, opts...)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if err := checkFormat(extractFlags.format); err != nil {
		return err
	}
	if _, err := parseTypeFilter(extractFlags.eventTypes); err != nil {
		return err
	}
	if !extractWin.byEncounter() && (extractWin.since == "" || extractWin.until == "") {
		return errNoWindow
	}

	ctx, stop := signalContext()
	defer stop()

	in, err := readLog(args)
	if err != nil {
		return err
	}
	win, err := resolveWindow(ctx, &extractWin, in, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	res, err := extractWindow(ctx, in, win, extractFlags.options(baseOptions(cmd.ErrOrStderr(), "extracting")))
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	return extractFlags.write(cmd, res)
}
