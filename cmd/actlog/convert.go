package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/actlog/actlog-go/pkg/actlog/timeline"
)

var (
	convertWin     windowFlags
	convertName    string
	convertFPS     int
	convertStartMs int64
	convertEndMs   int64
	convertCompact bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert an encounter to a mechanic timeline",
	Long: `Extract a window and convert it to the normalized timeline JSON:
player roster with role labels, named enemies, field markers and
debuff entries placed on frames.

--start-ms and --end-ms trim the timeline, in milliseconds from the start
of the extracted window. Timeline defaults come from the [timeline]
config section and the heuristics profile.

Examples:
  actlog convert --zone 2 --encounter 3 --name "P1 Program Loop"
  actlog convert --encounter 3 --start-ms 12000 --end-ms 45000 --fps 60`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertWin.register(convertCmd)
	f := convertCmd.Flags()
	f.StringVar(&convertName, "name", "", "Mechanic name (default: boss name)")
	f.IntVar(&convertFPS, "fps", 0, "Frame rate (default from config)")
	f.Int64Var(&convertStartMs, "start-ms", 0, "Timeline start, ms from window start")
	f.Int64Var(&convertEndMs, "end-ms", 0, "Timeline end, ms from window start (0 = window end)")
	f.BoolVar(&convertCompact, "compact", false, "Print JSON on one line")
	rootCmd.AddCommand(convertCmd)
}

// timelineOptions merges flags, profile and config, in that priority.
func timelineOptions(name string) timeline.Options {
	opts := timeline.Options{
		Name:    name,
		FPS:     convertFPS,
		StartMs: convertStartMs,
		EndMs:   convertEndMs,
	}
	opts = prof.Apply(opts)
	if opts.FPS <= 0 {
		opts.FPS = cfg.Timeline.FPS
	}
	if opts.Background == "" {
		opts.Background = cfg.Timeline.Background
	}
	opts.FieldWidth = cfg.Timeline.FieldSize
	opts.FieldHeight = cfg.Timeline.FieldSize
	return opts
}

func runConvert(cmd *cobra.Command, args []string) error {
	if !convertWin.byEncounter() && (convertWin.since == "" || convertWin.until == "") {
		return errNoWindow
	}
	if convertStartMs < 0 {
		return fmt.Errorf("--start-ms must not be negative")
	}
	if convertEndMs > 0 && convertEndMs <= convertStartMs {
		return fmt.Errorf("--end-ms must be after --start-ms")
	}

	ctx, stop := signalContext()
	defer stop()

	in, err := readLog(args)
	if err != nil {
		return err
	}
	win, err := resolveWindow(ctx, &convertWin, in, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	res, err := extractWindow(ctx, in, win, baseOptions(cmd.ErrOrStderr(), "extracting"))
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	name := convertName
	if name == "" && win.encounter != nil {
		name = win.encounter.BossName
	}
	tl := timeline.Convert(res, timelineOptions(name))
	if len(tl.Players) == 0 {
		logger.Warn("timeline has no players", "start", win.start, "end", win.end)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if !convertCompact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(tl)
}
