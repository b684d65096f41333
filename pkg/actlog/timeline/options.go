package timeline

import "strings"

// Defaults applied by Convert to zero-valued Options fields.
const (
	DefaultFPS         = 30
	DefaultFieldSize   = 512
	DefaultBackground  = "#1a1a2e"
	DefaultStatusColor = "#ff6b6b"
)

// DefaultArenaCenter is the assumed arena center in game coordinates. The
// true center depends on the instance and cannot be recovered from the log.
var DefaultArenaCenter = Point{X: 100, Y: 100}

// DefaultRoleLabels are assigned to players in first-seen order.
var DefaultRoleLabels = []string{"MT", "ST", "H1", "H2", "D1", "D2", "D3", "D4"}

// ColorRule colors a status whose name contains any of Keywords
// (case-insensitive).
type ColorRule struct {
	Keywords []string `json:"keywords" yaml:"keywords"`
	Color    string   `json:"color" yaml:"color"`
}

// Matches reports whether name contains one of the rule's keywords.
func (r ColorRule) Matches(name string) bool {
	name = strings.ToLower(name)
	for _, kw := range r.Keywords {
		if kw != "" && strings.Contains(name, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// DefaultColorRules is a best-effort palette keyed on common status names.
// It is a heuristic, not a classification of the game's statuses.
var DefaultColorRules = []ColorRule{
	{Keywords: []string{"doom", "death"}, Color: "#8e44ad"},
	{Keywords: []string{"vulnerability", "vuln"}, Color: "#e67e22"},
	{Keywords: []string{"fire", "burn", "flame"}, Color: "#e74c3c"},
	{Keywords: []string{"ice", "frost", "freez"}, Color: "#74b9ff"},
	{Keywords: []string{"lightning", "thunder", "electr"}, Color: "#f1c40f"},
	{Keywords: []string{"water", "aqua", "bubble"}, Color: "#0984e3"},
	{Keywords: []string{"wind", "aero"}, Color: "#2ecc71"},
	{Keywords: []string{"earth", "stone", "quake"}, Color: "#a0522d"},
	{Keywords: []string{"stack", "share"}, Color: "#00cec9"},
	{Keywords: []string{"spread", "prey", "target"}, Color: "#fd79a8"},
}

// Options controls Convert. Zero values select the defaults.
type Options struct {
	Name string

	// FPS is the frame rate frame indices are computed at.
	FPS int

	// StartMs and EndMs bound the timeline in milliseconds from the start of
	// the parse result. EndMs <= 0 means the end of the result.
	StartMs int64
	EndMs   int64

	FieldWidth  int
	FieldHeight int
	Background  string

	ArenaCenter *Point
	ColorRules  []ColorRule
	RoleLabels  []string
}

func (o Options) withDefaults() Options {
	if o.FPS <= 0 {
		o.FPS = DefaultFPS
	}
	if o.FieldWidth <= 0 {
		o.FieldWidth = DefaultFieldSize
	}
	if o.FieldHeight <= 0 {
		o.FieldHeight = DefaultFieldSize
	}
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	if o.ArenaCenter == nil {
		c := DefaultArenaCenter
		o.ArenaCenter = &c
	}
	if o.ColorRules == nil {
		o.ColorRules = DefaultColorRules
	}
	if len(o.RoleLabels) == 0 {
		o.RoleLabels = DefaultRoleLabels
	}
	return o
}

// StatusColor returns the color of the first rule matching name, or
// DefaultStatusColor.
func StatusColor(rules []ColorRule, name string) string {
	for _, r := range rules {
		if r.Matches(name) {
			return r.Color
		}
	}
	return DefaultStatusColor
}
