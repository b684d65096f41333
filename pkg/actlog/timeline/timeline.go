// Package timeline converts a parse result into the normalized timeline
// consumed by rendering and editing tools.
package timeline

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/actlog/actlog-go/pkg/actlog"
	"github.com/actlog/actlog-go/pkg/actlog/event"
)

// MaxEnemies bounds the enemy roster.
const MaxEnemies = 5

// EntryDebuffAdd is the type tag of status application entries.
const EntryDebuffAdd = "debuff_add"

// markerLabels names the eight waymark slots.
var markerLabels = [8]string{"A", "B", "C", "D", "1", "2", "3", "4"}

// Point is a field position relative to the arena center.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Field is the drawing area.
type Field struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Background string `json:"background"`
}

// Player is a party member, referred to everywhere else by Role.
type Player struct {
	Role     string `json:"role"`
	Label    string `json:"label"`
	Name     string `json:"name"`
	Job      int    `json:"job"`
	SourceID string `json:"source_id"`
	Position Point  `json:"position"`
}

// Enemy is a named non-player combatant.
type Enemy struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SourceID string `json:"source_id"`
	Position Point  `json:"position"`
}

// Marker is a placed waymark.
type Marker struct {
	Type     string `json:"type"`
	Position Point  `json:"position"`
}

// Entry is a tagged point on the timeline.
type Entry struct {
	Type       string  `json:"type"`
	Frame      int     `json:"frame"`
	Target     string  `json:"target"`
	StatusID   uint32  `json:"status_id"`
	StatusName string  `json:"status_name"`
	Duration   float64 `json:"duration"`
	Color      string  `json:"color"`
}

// Timeline is the normalized description of one mechanic.
type Timeline struct {
	Name           string   `json:"name"`
	FPS            int      `json:"fps"`
	DurationFrames int      `json:"duration_frames"`
	Field          Field    `json:"field"`
	Markers        []Marker `json:"markers"`
	Players        []Player `json:"players"`
	Enemies        []Enemy  `json:"enemies"`
	Entries        []Entry  `json:"entries"`
}

// Convert maps res to a Timeline. It never fails: a nil or empty result,
// or one whose window has no duration, yields a Timeline with empty rosters
// and zero frames.
func Convert(res *actlog.ParseResult, opts Options) *Timeline {
	opts = opts.withDefaults()
	if res == nil {
		res = &actlog.ParseResult{}
	}
	center := *opts.ArenaCenter

	tl := &Timeline{
		Name: opts.Name,
		FPS:  opts.FPS,
		Field: Field{
			Width:      opts.FieldWidth,
			Height:     opts.FieldHeight,
			Background: opts.Background,
		},
		Markers: []Marker{},
		Players: []Player{},
		Enemies: []Enemy{},
		Entries: []Entry{},
	}

	endMs := opts.EndMs
	if endMs <= 0 {
		endMs = res.Duration().Milliseconds()
	}
	if d := endMs - opts.StartMs; d > 0 {
		tl.DurationFrames = toFrame(d, opts.FPS)
	}

	roles := make(map[string]string)
	for _, c := range res.Players {
		if len(tl.Players) == actlog.MaxPartySize {
			break
		}
		if _, dup := roles[c.ID]; dup {
			continue
		}
		role := roleLabel(opts.RoleLabels, len(tl.Players))
		roles[c.ID] = role
		tl.Players = append(tl.Players, Player{
			Role:     role,
			Label:    DisplayLabel(c.Name, role),
			Name:     c.Name,
			Job:      c.Job,
			SourceID: c.ID,
			Position: Normalize(c.Position, center),
		})
	}

	for _, c := range res.Enemies {
		if len(tl.Enemies) == MaxEnemies {
			break
		}
		if isPlaceholderName(c.Name) {
			continue
		}
		tl.Enemies = append(tl.Enemies, Enemy{
			ID:       fmt.Sprintf("E%d", len(tl.Enemies)+1),
			Name:     c.Name,
			SourceID: c.ID,
			Position: Normalize(c.Position, center),
		})
	}

	tl.Entries = debuffEntries(res, roles, opts)
	tl.Markers = markers(res.Waymarks, center)
	return tl
}

type debuffKey struct {
	status uint32
	target string
	second int64
}

func debuffEntries(res *actlog.ParseResult, roles map[string]string, opts Options) []Entry {
	entries := []Entry{}
	seen := make(map[debuffKey]struct{})
	for _, s := range res.StatusAdds {
		role, ok := roles[s.TargetID]
		if !ok {
			continue
		}
		elapsed := s.Timestamp.Sub(res.Start)
		key := debuffKey{s.StatusID, s.TargetID, s.Timestamp.Round(time.Second).Unix()}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		frame := toFrame(elapsed.Milliseconds()-opts.StartMs, opts.FPS)
		if frame < 0 {
			continue
		}
		entries = append(entries, Entry{
			Type:       EntryDebuffAdd,
			Frame:      frame,
			Target:     role,
			StatusID:   s.StatusID,
			StatusName: s.StatusName,
			Duration:   s.Duration,
			Color:      StatusColor(opts.ColorRules, s.StatusName),
		})
	}
	return entries
}

// markers keeps the last state of each waymark slot and returns the placed
// ones in slot order.
func markers(waymarks []*event.WaymarkEvent, center Point) []Marker {
	var slots [len(markerLabels)]*event.WaymarkEvent
	for _, w := range waymarks {
		if w.Marker < 0 || w.Marker >= len(slots) {
			continue
		}
		if w.Operation == event.WaymarkRemove {
			slots[w.Marker] = nil
			continue
		}
		slots[w.Marker] = w
	}
	out := []Marker{}
	for i, w := range slots {
		if w == nil {
			continue
		}
		out = append(out, Marker{Type: markerLabels[i], Position: Normalize(w.Position, center)})
	}
	return out
}

// toFrame converts milliseconds to a frame index at fps, rounding to the
// nearest frame.
func toFrame(ms int64, fps int) int {
	return int(math.Round(float64(ms) / 1000 * float64(fps)))
}

// Normalize translates p so that center is the origin and rounds each axis
// to one decimal place.
func Normalize(p event.Position, center Point) Point {
	return Point{X: round1(p.X - center.X), Y: round1(p.Y - center.Y)}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func roleLabel(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return fmt.Sprintf("P%d", i+1)
}

// DisplayLabel derives a two character label from name: the initials of
// its first two words, or its first two characters for a single word.
// An empty name yields fallback.
func DisplayLabel(name, fallback string) string {
	words := strings.Fields(name)
	switch {
	case len(words) == 0:
		return fallback
	case len(words) >= 2:
		a, _ := utf8.DecodeRuneInString(words[0])
		b, _ := utf8.DecodeRuneInString(words[1])
		return string([]rune{unicode.ToUpper(a), unicode.ToUpper(b)})
	}
	r := []rune(words[0])
	if len(r) > 2 {
		r = r[:2]
	}
	return string(r)
}

// isPlaceholderName reports names the game uses for unnamed helper actors.
func isPlaceholderName(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || strings.EqualFold(name, "unknown")
}

// FrameAt returns the frame index of ts relative to start, for callers that
// place their own entries.
func FrameAt(start, ts time.Time, fps int) int {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return toFrame(ts.Sub(start).Milliseconds(), fps)
}
