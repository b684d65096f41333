// Package event defines the decoded event types of an ACT network log.
//
// This package is separated from the main actlog package to avoid import cycles
// between pkg/actlog and internal/parser.
package event

import (
	"sort"
	"strings"
	"time"
)

// Code is the integer tag in the first field of a log line.
type Code int

const (
	ChangeZone    Code = 1
	AddCombatant  Code = 3
	StartsCasting Code = 20
	ActionEffect  Code = 21
	AoEEffect     Code = 22
	StatusAdd     Code = 26
	StatusRemove  Code = 27
	WaymarkMarker Code = 29
	ActorControl  Code = 33
	UpdateHP      Code = 39
	Tether        Code = 40
)

// codeNames is the canonical list of decoded codes.
// UpdateHP is recognised by the raw-field scanners only and has no event type.
var codeNames = map[Code]string{
	ChangeZone:    "change_zone",
	AddCombatant:  "add_combatant",
	StartsCasting: "starts_casting",
	ActionEffect:  "action_effect",
	AoEEffect:     "aoe_effect",
	StatusAdd:     "status_add",
	StatusRemove:  "status_remove",
	WaymarkMarker: "waymark",
	ActorControl:  "actor_control",
	Tether:        "tether",
}

// String returns the snake_case name of the code.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "unknown"
}

// Supported reports whether lines with this code are decoded.
func (c Code) Supported() bool {
	_, ok := codeNames[c]
	return ok
}

// IsStatus reports whether the code is subject to the status-event cap.
func (c Code) IsStatus() bool {
	return c == StatusAdd || c == StatusRemove
}

// CodeNames returns a sorted list of all decoded code names.
func CodeNames() []string {
	names := make([]string, 0, len(codeNames))
	for _, name := range codeNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var codeByName = func() map[string]Code {
	m := make(map[string]Code, len(codeNames))
	for c, name := range codeNames {
		m[name] = c
	}
	return m
}()

// ParseCode converts a code name to a Code.
// It is case-insensitive and trims leading/trailing whitespace.
func ParseCode(name string) (Code, bool) {
	c, ok := codeByName[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Event is implemented by every decoded event variant.
type Event interface {
	EventCode() Code
	Time() time.Time
	Raw() string
	header() *Header
}

// Header carries the fields shared by all variants.
type Header struct {
	Code      Code      `json:"code"`
	Timestamp time.Time `json:"timestamp"`

	// RawLine is the original log line (diagnostics only).
	RawLine string `json:"raw_line,omitempty"`
}

func (h *Header) EventCode() Code { return h.Code }
func (h *Header) Time() time.Time { return h.Timestamp }
func (h *Header) Raw() string { return h.RawLine }
func (h *Header) header() *Header { return h }

// ClearRaw drops the raw line from ev.
func ClearRaw(ev Event) {
	ev.header().RawLine = ""
}

// Position is a world-space position.
type Position struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Heading float64 `json:"heading,omitempty"`
}

// ChangeZoneEvent is emitted when the player enters a new zone.
type ChangeZoneEvent struct {
	Header
	ZoneID   uint32 `json:"zone_id"`
	ZoneName string `json:"zone_name"`
}

// AddCombatantEvent declares an entity.
type AddCombatantEvent struct {
	Header
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Job       int      `json:"job"`
	Level     int      `json:"level"`
	OwnerID   string   `json:"owner_id,omitempty"`
	WorldID   int      `json:"world_id,omitempty"`
	WorldName string   `json:"world_name,omitempty"`
	NPCNameID int      `json:"npc_name_id,omitempty"`
	NPCBaseID int      `json:"npc_base_id,omitempty"`
	CurrentHP int64    `json:"current_hp"`
	MaxHP     int64    `json:"max_hp"`
	CurrentMP int64    `json:"current_mp"`
	MaxMP     int64    `json:"max_mp"`
	Position  Position `json:"position"`
}

// StartsCastingEvent marks the start of a cast bar.
type StartsCastingEvent struct {
	Header
	SourceID   string   `json:"source_id"`
	SourceName string   `json:"source_name"`
	ActionID   uint32   `json:"action_id"`
	ActionName string   `json:"action_name"`
	TargetID   string   `json:"target_id"`
	TargetName string   `json:"target_name"`
	CastTime   float64  `json:"cast_time"`
	Position   Position `json:"position"`
}

// ActionEffectEvent is a resolved ability, single-target or AoE.
type ActionEffectEvent struct {
	Header
	SourceID   string   `json:"source_id"`
	SourceName string   `json:"source_name"`
	ActionID   uint32   `json:"action_id"`
	ActionName string   `json:"action_name"`
	TargetID   string   `json:"target_id"`
	TargetName string   `json:"target_name"`
	Effects    []uint32 `json:"effects,omitempty"`
	AoE        bool     `json:"aoe"`
}

// StatusAddEvent applies a status effect.
type StatusAddEvent struct {
	Header
	StatusID    uint32  `json:"status_id"`
	StatusName  string  `json:"status_name"`
	Duration    float64 `json:"duration"`
	SourceID    string  `json:"source_id"`
	SourceName  string  `json:"source_name"`
	TargetID    string  `json:"target_id"`
	TargetName  string  `json:"target_name"`
	Stacks      int     `json:"stacks"`
	TargetMaxHP int64   `json:"target_max_hp"`
}

// StatusRemoveEvent removes a status effect.
type StatusRemoveEvent struct {
	Header
	StatusID   uint32 `json:"status_id"`
	StatusName string `json:"status_name"`
	SourceID   string `json:"source_id"`
	SourceName string `json:"source_name"`
	TargetID   string `json:"target_id"`
	TargetName string `json:"target_name"`
	Stacks     int    `json:"stacks"`
}

// WaymarkOp is the operation of a waymark line.
type WaymarkOp string

const (
	WaymarkAdd    WaymarkOp = "Add"
	WaymarkRemove WaymarkOp = "Remove"
)

// WaymarkEvent places or clears one of the eight field markers.
type WaymarkEvent struct {
	Header
	Operation WaymarkOp `json:"operation"`
	Marker    int       `json:"marker"`
	Position  Position  `json:"position"`
}

// TetherEvent links two entities.
type TetherEvent struct {
	Header
	SourceID   string `json:"source_id"`
	SourceName string `json:"source_name"`
	TargetID   string `json:"target_id"`
	TargetName string `json:"target_name"`
	TetherID   uint32 `json:"tether_id"`
}

// Director commands carried by ActorControl lines.
const (
	CommandVictory uint32 = 0x40000003
	CommandWipe    uint32 = 0x40000010
)

// ActorControlEvent is a director/instance control command.
type ActorControlEvent struct {
	Header
	InstanceID string    `json:"instance_id"`
	Command    uint32    `json:"command"`
	Data       [4]uint32 `json:"data"`
}

// IsWipe reports whether the command signals a raid wipe.
func (e *ActorControlEvent) IsWipe() bool { return e.Command == CommandWipe }

// IsVictory reports whether the command signals a clear.
func (e *ActorControlEvent) IsVictory() bool { return e.Command == CommandVictory }
