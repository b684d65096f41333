package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/actlog/actlog-go/pkg/actlog"
)

// windowFlags select the part of a log extract and convert work on.
type windowFlags struct {
	zone      int
	encounter int
	since     string
	until     string
	padBefore time.Duration
	padAfter  time.Duration
}

func (w *windowFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&w.zone, "zone", 0, "Zone number as listed by 'actlog zones' (1-based)")
	f.IntVar(&w.encounter, "encounter", 0, "Encounter id as listed by 'actlog zones'")
	f.StringVar(&w.since, "since", "", "Window start (RFC3339)")
	f.StringVar(&w.until, "until", "", "Window end (RFC3339)")
	f.DurationVar(&w.padBefore, "pad-before", 0, "Extend the window before the encounter start")
	f.DurationVar(&w.padAfter, "pad-after", 0, "Extend the window after the encounter end")
	cmd.MarkFlagsMutuallyExclusive("encounter", "since")
	cmd.MarkFlagsMutuallyExclusive("encounter", "until")
}

func (w *windowFlags) byEncounter() bool {
	return w.encounter > 0
}

// window is a resolved time range plus the roster to attach to it.
type window struct {
	start, end time.Time
	players    []actlog.Combatant
	zone       *actlog.ZoneSession
	encounter  *actlog.Encounter
}

var errNoWindow = errors.New("select a window with --encounter or --since/--until")

// parseTimeRange reads --since and --until.
func (w *windowFlags) parseTimeRange() (window, error) {
	if w.since == "" || w.until == "" {
		return window{}, errNoWindow
	}
	start, err := time.Parse(time.RFC3339, w.since)
	if err != nil {
		return window{}, fmt.Errorf("invalid --since format: %w", err)
	}
	end, err := time.Parse(time.RFC3339, w.until)
	if err != nil {
		return window{}, fmt.Errorf("invalid --until format: %w", err)
	}
	return window{start: start.Add(-w.padBefore), end: end.Add(w.padAfter)}, nil
}

// selectEncounter finds encounter id in zones. If zone is non-zero the
// encounter must belong to that (1-based) zone.
func selectEncounter(zones []actlog.ZoneSession, zone, id int, padBefore, padAfter time.Duration) (window, error) {
	if zone < 0 || zone > len(zones) {
		return window{}, fmt.Errorf("zone %d out of range (log has %d zones)", zone, len(zones))
	}
	for zi := range zones {
		if zone != 0 && zi != zone-1 {
			continue
		}
		z := &zones[zi]
		for ei := range z.Encounters {
			e := &z.Encounters[ei]
			if e.ID != id {
				continue
			}
			return window{
				start:     e.Start.Add(-padBefore),
				end:       e.End.Add(padAfter),
				players:   z.Players,
				zone:      z,
				encounter: e,
			}, nil
		}
	}
	if zone != 0 {
		return window{}, fmt.Errorf("encounter %d not found in zone %d", id, zone)
	}
	return window{}, fmt.Errorf("encounter %d not found", id)
}
