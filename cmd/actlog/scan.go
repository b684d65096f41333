package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/actlog/actlog-go/pkg/actlog"
)

// output flags shared by scan and extract
type outputFlags struct {
	format     string
	eventTypes []string
	maxEvents  int
	maxStatus  int
	noStatus   bool
	includeRaw bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.format, "format", "f", "jsonl", "Output format: jsonl, pretty")
	f.StringSliceVarP(&o.eventTypes, "types", "t", nil,
		"Event types to show (comma-separated, e.g. starts_casting,status_add)")
	f.IntVar(&o.maxEvents, "max-events", 0, "Maximum events to decode (default from config)")
	f.IntVar(&o.maxStatus, "max-status", -1, "Maximum status events to decode (default from config)")
	f.BoolVar(&o.noStatus, "no-status", false, "Skip status add/remove lines")
	f.BoolVar(&o.includeRaw, "raw", false, "Include raw log lines in output")

	_ = cmd.RegisterFlagCompletionFunc("types", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return ValidEventTypeNames(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{"jsonl", "pretty"}, cobra.ShellCompDirectiveNoFileComp))
}

// options appends the flag overrides to base. Later options win.
func (o *outputFlags) options(base []actlog.Option) []actlog.Option {
	opts := append([]actlog.Option{}, base...)
	if o.maxEvents > 0 {
		opts = append(opts, actlog.WithMaxEvents(o.maxEvents))
	}
	if o.maxStatus >= 0 {
		opts = append(opts, actlog.WithMaxStatusEvents(o.maxStatus))
	}
	if o.noStatus {
		opts = append(opts, actlog.WithIncludeStatus(false))
	}
	if o.includeRaw {
		opts = append(opts, actlog.WithIncludeRawLine(true))
	}
	return opts
}

// write prints the events of res that pass the type filter, then the
// summary: inline for pretty output, on stderr for jsonl unless quiet.
func (o *outputFlags) write(cmd *cobra.Command, res *actlog.ParseResult) error {
	filter, err := parseTypeFilter(o.eventTypes)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, ev := range res.Events {
		if filter != nil && !filter[ev.EventCode()] {
			continue
		}
		if err := OutputEvent(o.format, ev, out); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
	switch {
	case o.format == "pretty":
		return writeSummary(out, res)
	case !quiet:
		return writeSummary(cmd.ErrOrStderr(), res)
	}
	return nil
}

// signalContext cancels on SIGINT and SIGTERM so long scans stop at the next
// window.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

var scanFlags outputFlags

var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Decode every supported event of a log",
	Long: `Decode a whole network log and print its events.

Events are output as JSON Lines by default (one JSON object per line),
which makes it easy to process with tools like jq.

Examples:
  # Newest log in the ACT directory
  actlog scan

  # Casts and status effects only, human readable
  actlog scan Network_26101_20240115.log --types starts_casting,status_add --format pretty

  # Pipe to jq
  actlog scan | jq 'select(.type == "actor_control")'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanFlags.register(scanCmd)
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := checkFormat(scanFlags.format); err != nil {
		return err
	}
	if _, err := parseTypeFilter(scanFlags.eventTypes); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	in, err := readLog(args)
	if err != nil {
		return err
	}
	res, err := actlog.Scan(ctx, in.text, scanFlags.options(baseOptions(cmd.ErrOrStderr(), "scanning"))...)
	if err != nil {
		return err
	}
	return scanFlags.write(cmd, res)
}
