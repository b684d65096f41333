package actlog

import (
	"context"
	"fmt"
	"time"

	"github.com/actlog/actlog-go/internal/parser"
	"github.com/actlog/actlog-go/pkg/actlog/classify"
	"github.com/actlog/actlog-go/pkg/actlog/event"
)

// Segmentation thresholds.
const (
	// CombatGap is the inactivity after which the next enemy action opens a
	// new encounter. A gap must exceed it, not merely equal it.
	CombatGap = 30 * time.Second

	// MinEncounterDuration is the shortest encounter kept in a zone.
	MinEncounterDuration = 10 * time.Second
)

// Result is the outcome of an encounter.
type Result string

const (
	ResultUnknown Result = "unknown"
	ResultWipe    Result = "wipe"
	ResultClear   Result = "clear"
)

// Encounter is a window of combat activity inside a zone.
type Encounter struct {
	ID          int           `json:"id"`
	Start       time.Time     `json:"start"`
	End         time.Time     `json:"end"`
	Duration    time.Duration `json:"duration"`
	Result      Result        `json:"result"`
	BossName    string        `json:"boss_name"`
	PlayerCount int           `json:"player_count"`
}

// ZoneSession is the interval between two zone changes.
type ZoneSession struct {
	ZoneID     uint32      `json:"zone_id"`
	ZoneName   string      `json:"zone_name"`
	Start      time.Time   `json:"start"`
	End        time.Time   `json:"end"`
	Encounters []Encounter `json:"encounters"`
	Players    []Combatant `json:"players"`
}

// StructureScanner segments a log into zones and encounters in one forward
// pass. It reads raw fields only and never builds the decoded event list.
//
// Like Scanner it is a step function; ScanStructure drives it.
type StructureScanner struct {
	window
	cls *classify.Classifier
	cfg *config

	zones []ZoneSession

	zone       *ZoneSession
	zoneSeen   map[string]struct{}
	enc        *Encounter
	encPlayers map[string]struct{}
	lastCombat time.Time
	lastSeen   time.Time
	nextID     int
	done       bool
}

// NewStructureScanner validates opts and prepares a structure pass over text.
func NewStructureScanner(text string, opts ...Option) (*StructureScanner, error) {
	cfg := applyOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return &StructureScanner{
		window: window{text: text, size: cfg.windowSize},
		cls:    cfg.classifier,
		cfg:    cfg,
	}, nil
}

// Step processes one window. At the end of input it closes the open
// encounter and zone and returns false.
func (s *StructureScanner) Step() bool {
	if s.done {
		return false
	}
	if chunk, ok := s.next(); ok {
		eachLine(chunk, s.line)
	}
	if s.pos >= len(s.text) {
		s.finish()
		s.done = true
		return false
	}
	return true
}

// Zones returns the zone sessions closed so far.
func (s *StructureScanner) Zones() []ZoneSession {
	return s.zones
}

func (s *StructureScanner) line(line string) {
	n, ok := parser.LeadingCode(line)
	if !ok {
		return
	}
	code := event.Code(n)
	switch code {
	case event.ChangeZone, event.AddCombatant, event.StartsCasting,
		event.ActionEffect, event.AoEEffect, event.ActorControl:
	default:
		return
	}

	fields := parser.Split(line)
	if len(fields) < parser.MinFields(code) {
		return
	}
	ts, err := parser.ParseTimestamp(fields[1])
	if err != nil {
		return
	}
	if ts.After(s.lastSeen) {
		s.lastSeen = ts
	}

	switch code {
	case event.ChangeZone:
		s.changeZone(ts, parser.Hex(fields[2]), fields[3])
	case event.AddCombatant:
		s.addCombatant(fields)
	case event.StartsCasting, event.ActionEffect, event.AoEEffect:
		if classify.IsEnemyID(fields[2]) {
			s.enemyAction(ts, fields[3])
		}
	case event.ActorControl:
		switch parser.Hex(fields[3]) {
		case event.CommandWipe:
			s.endEncounter(ts, ResultWipe)
		case event.CommandVictory:
			s.endEncounter(ts, ResultClear)
		}
	}
}

func (s *StructureScanner) changeZone(ts time.Time, id uint32, name string) {
	if s.enc != nil {
		end := s.lastCombat
		if end.IsZero() {
			end = ts
		}
		s.closeEncounter(end)
	}
	if s.zone != nil {
		s.zone.End = ts
		s.closeZone()
	}
	s.cfg.logger.Debug("zone opened", "zone_id", fmt.Sprintf("%X", id), "name", name, "at", ts)
	s.zone = &ZoneSession{
		ZoneID:     id,
		ZoneName:   name,
		Start:      ts,
		Encounters: []Encounter{},
		Players:    []Combatant{},
	}
	s.zoneSeen = make(map[string]struct{})
	s.encPlayers = nil
	s.lastCombat = time.Time{}
}

func (s *StructureScanner) addCombatant(fields []string) {
	if s.zone == nil {
		return
	}
	id, name := fields[2], fields[3]
	if !s.cls.IsPlayer(id, name) {
		return
	}
	if _, ok := s.zoneSeen[id]; ok {
		return
	}
	s.zoneSeen[id] = struct{}{}
	var job int
	if len(fields) > 4 {
		job = int(parser.Hex(fields[4]))
	}
	s.zone.Players = append(s.zone.Players, Combatant{ID: id, Name: name, Job: job, IsPlayer: true})
	if s.enc != nil {
		s.encPlayers[id] = struct{}{}
	}
}

func (s *StructureScanner) enemyAction(ts time.Time, source string) {
	if s.zone == nil {
		return
	}
	if s.enc != nil && ts.Sub(s.lastCombat) <= CombatGap {
		s.lastCombat = ts
		if s.enc.BossName == "" {
			s.enc.BossName = source
		}
		return
	}
	if s.enc != nil {
		s.closeEncounter(s.lastCombat)
	}
	s.enc = &Encounter{Start: ts, BossName: source, Result: ResultUnknown}
	s.encPlayers = make(map[string]struct{})
	s.lastCombat = ts
}

// endEncounter closes the open encounter at ts with the given result. Enemy
// actions after it open a fresh encounter.
func (s *StructureScanner) endEncounter(ts time.Time, result Result) {
	if s.enc == nil {
		return
	}
	s.enc.Result = result
	s.closeEncounter(ts)
}

// closeEncounter fixes the end of the open encounter and keeps it only if it
// lasted at least MinEncounterDuration.
func (s *StructureScanner) closeEncounter(end time.Time) {
	enc := s.enc
	s.enc = nil
	if end.Before(enc.Start) {
		end = enc.Start
	}
	enc.End = end
	enc.Duration = end.Sub(enc.Start)

	enc.PlayerCount = len(s.encPlayers)
	if enc.PlayerCount == 0 && s.zone != nil {
		enc.PlayerCount = len(s.zone.Players)
	}
	s.encPlayers = nil

	if enc.Duration < MinEncounterDuration || s.zone == nil {
		s.cfg.logger.Debug("encounter dropped", "boss", enc.BossName, "duration", enc.Duration)
		return
	}
	s.nextID++
	enc.ID = s.nextID
	s.zone.Encounters = append(s.zone.Encounters, *enc)
}

func (s *StructureScanner) closeZone() {
	s.zones = append(s.zones, *s.zone)
	s.zone = nil
	s.zoneSeen = nil
}

// finish closes whatever is still open at the end of input. The last combat
// instant ends the encounter; the zone ends at the last timestamp seen.
func (s *StructureScanner) finish() {
	if s.enc != nil {
		s.closeEncounter(s.lastCombat)
	}
	if s.zone != nil {
		end := s.lastSeen
		if end.IsZero() {
			end = s.lastCombat
		}
		if end.Before(s.zone.Start) {
			end = s.zone.Start
		}
		s.zone.End = end
		s.closeZone()
	}
	s.cfg.logger.Debug("structure complete", "zones", len(s.zones), "encounters", s.nextID)
}

// ScanStructure segments text into zone sessions and encounters.
// A log without any ChangeZone line yields no zones.
func ScanStructure(ctx context.Context, text string, opts ...Option) ([]ZoneSession, error) {
	s, err := NewStructureScanner(text, opts...)
	if err != nil {
		return nil, err
	}
	if err := drive(ctx, OpStructure, s, s.cfg.progress, true); err != nil {
		return nil, err
	}
	return s.Zones(), nil
}
