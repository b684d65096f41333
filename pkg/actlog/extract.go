package actlog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/actlog/actlog-go/internal/parser"
	"github.com/actlog/actlog-go/pkg/actlog/classify"
	"github.com/actlog/actlog-go/pkg/actlog/event"
)

// filterCheckEvery is how many lines the window filter reads between
// cancellation checks.
const filterCheckEvery = 4096

// Extract re-scans the part of text whose timestamps fall in [start, end].
//
// Note: filtering assumes timestamps in the log are monotonically increasing.
// Scanning stops at the first line after end, so in-window lines that appear
// after it are never seen. Lines without a parseable timestamp are skipped.
//
// The player roster comes from WithZonePlayers when supplied. Otherwise it is
// re-derived from combat lines inside the window by CollectPlayersFromCombat,
// falling back to AddCombatant declarations in the window when none are found.
func Extract(ctx context.Context, text string, start, end time.Time, opts ...Option) (*ParseResult, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	cfg := applyOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	filtered, err := FilterWindow(ctx, text, start, end)
	if err != nil {
		return nil, err
	}
	cfg.logger.Debug("window filtered", "start", start, "end", end,
		"bytes_in", len(text), "bytes_out", len(filtered))

	res, err := Scan(ctx, filtered, opts...)
	if err != nil {
		return nil, err
	}

	if cfg.zonePlayersSet {
		res.Players = append([]Combatant{}, cfg.zonePlayers...)
	} else if players := CollectPlayersFromCombat(filtered, cfg.classifier); len(players) > 0 {
		res.Players = players
	}
	return res, nil
}

// FilterWindow returns the lines of text with start <= timestamp <= end,
// stopping at the first line past end.
func FilterWindow(ctx context.Context, text string, start, end time.Time) (string, error) {
	var b strings.Builder
	pos := 0
	for n := 0; pos < len(text); n++ {
		if n%filterCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return "", &ScanError{Op: OpExtract, Offset: pos, Err: err}
			}
		}
		i := strings.IndexByte(text[pos:], '\n')
		next := len(text)
		if i >= 0 {
			next = pos + i + 1
		}
		line := strings.TrimRight(text[pos:next], "\n")
		pos = next

		ts, ok := parser.LineTime(line)
		if !ok {
			continue
		}
		if ts.After(end) {
			break
		}
		if ts.Before(start) {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// combatIDFields lists the (id, name) field pairs inspected per code.
var combatIDFields = map[event.Code][][2]int{
	event.UpdateHP:      {{2, 3}},
	event.StartsCasting: {{2, 3}, {6, 7}},
	event.ActionEffect:  {{2, 3}, {6, 7}},
	event.AoEEffect:     {{2, 3}, {6, 7}},
	event.StatusAdd:     {{5, 6}, {7, 8}},
}

// CollectPlayersFromCombat returns up to MaxPartySize distinct players, in
// first-seen order, that appear as source or target of combat lines in text.
// Pets are excluded. The returned players have no job.
func CollectPlayersFromCombat(text string, cls *classify.Classifier) []Combatant {
	if cls == nil {
		cls = classify.Default
	}
	var players []Combatant
	seen := make(map[string]struct{})

	for len(text) > 0 && len(players) < MaxPartySize {
		line := text
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			line, text = text[:i], text[i+1:]
		} else {
			text = ""
		}

		n, ok := parser.LeadingCode(line)
		if !ok {
			continue
		}
		pairs, ok := combatIDFields[event.Code(n)]
		if !ok {
			continue
		}
		fields := parser.Split(line)
		for _, p := range pairs {
			if p[1] >= len(fields) {
				continue
			}
			id, name := fields[p[0]], fields[p[1]]
			if !cls.IsPlayer(id, name) {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			players = append(players, Combatant{ID: id, Name: name, IsPlayer: true})
			if len(players) == MaxPartySize {
				break
			}
		}
	}
	return players
}
