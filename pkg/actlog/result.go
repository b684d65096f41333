package actlog

import (
	"time"

	"github.com/actlog/actlog-go/pkg/actlog/classify"
	"github.com/actlog/actlog-go/pkg/actlog/event"
)

// MaxPartySize is the largest roster derived from combat activity.
const MaxPartySize = 8

// Combatant is a deduplicated entity seen in the log.
type Combatant struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Job      int            `json:"job"`
	IsPlayer bool           `json:"is_player"`
	Position event.Position `json:"position"`
}

// ParseResult is the aggregate output of a scan.
type ParseResult struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	Players []Combatant `json:"players"`
	Enemies []Combatant `json:"enemies"`

	StatusAdds    []*event.StatusAddEvent     `json:"status_adds"`
	StatusRemoves []*event.StatusRemoveEvent  `json:"status_removes"`
	Casts         []*event.StartsCastingEvent `json:"casts"`
	Actions       []*event.ActionEffectEvent  `json:"actions"`
	Waymarks      []*event.WaymarkEvent       `json:"waymarks"`
	Tethers       []*event.TetherEvent        `json:"tethers"`
	Events        []event.Event               `json:"events"`

	// Truncated is set when a cap dropped at least one supported line.
	Truncated bool `json:"truncated"`

	// MalformedLines counts lines with a supported code that failed to decode.
	MalformedLines int `json:"malformed_lines"`
}

// Duration returns End - Start, or 0 for an empty result.
func (r *ParseResult) Duration() time.Duration {
	if r.Start.IsZero() || r.End.Before(r.Start) {
		return 0
	}
	return r.End.Sub(r.Start)
}

// accumulator collects decoded events for one scan. It is owned by a single
// Scanner and never shared.
type accumulator struct {
	res         ParseResult
	statusCount int
	seen        map[string]*Combatant
	order       []string
	cls         *classify.Classifier
}

func newAccumulator(cls *classify.Classifier) *accumulator {
	return &accumulator{
		seen: make(map[string]*Combatant),
		cls:  cls,
	}
}

func (a *accumulator) add(ev event.Event) {
	r := &a.res
	ts := ev.Time()
	if r.Start.IsZero() || ts.Before(r.Start) {
		r.Start = ts
	}
	if r.End.IsZero() || ts.After(r.End) {
		r.End = ts
	}
	r.Events = append(r.Events, ev)

	switch e := ev.(type) {
	case *event.AddCombatantEvent:
		a.addCombatant(e)
	case *event.StartsCastingEvent:
		r.Casts = append(r.Casts, e)
		if c, ok := a.seen[e.SourceID]; ok && e.Position != (event.Position{}) {
			c.Position = e.Position
		}
	case *event.ActionEffectEvent:
		r.Actions = append(r.Actions, e)
	case *event.StatusAddEvent:
		a.statusCount++
		r.StatusAdds = append(r.StatusAdds, e)
	case *event.StatusRemoveEvent:
		a.statusCount++
		r.StatusRemoves = append(r.StatusRemoves, e)
	case *event.WaymarkEvent:
		r.Waymarks = append(r.Waymarks, e)
	case *event.TetherEvent:
		r.Tethers = append(r.Tethers, e)
	}
}

// addCombatant records the first declaration of an id. Later declarations of
// the same id are ignored; pet-named player ids are never recorded.
func (a *accumulator) addCombatant(e *event.AddCombatantEvent) {
	if _, ok := a.seen[e.ID]; ok {
		return
	}
	kind := classify.Classify(e.ID)
	if kind == classify.Player && a.cls.IsPet(e.Name) {
		return
	}
	a.seen[e.ID] = &Combatant{
		ID:       e.ID,
		Name:     e.Name,
		Job:      e.Job,
		IsPlayer: kind == classify.Player,
		Position: e.Position,
	}
	a.order = append(a.order, e.ID)
}

// result splits the combatants into players and enemies in first-seen order.
func (a *accumulator) result() *ParseResult {
	r := a.res
	r.Players = []Combatant{}
	r.Enemies = []Combatant{}
	for _, id := range a.order {
		c := a.seen[id]
		switch classify.Classify(id) {
		case classify.Player:
			r.Players = append(r.Players, *c)
		case classify.Enemy:
			r.Enemies = append(r.Enemies, *c)
		}
	}
	return &r
}
