package main

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/actlog/actlog-go/pkg/actlog"
)

var base = time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

func testZones() []actlog.ZoneSession {
	return []actlog.ZoneSession{
		{
			ZoneID:   0x84,
			ZoneName: "Limsa Lominsa",
			Start:    base,
			End:      base.Add(5 * time.Minute),
		},
		{
			ZoneID:   0x4D9,
			ZoneName: "The Omega Protocol",
			Start:    base.Add(5 * time.Minute),
			End:      base.Add(30 * time.Minute),
			Players:  []actlog.Combatant{{ID: "10AAAAAA", Name: "Alice", IsPlayer: true}},
			Encounters: []actlog.Encounter{
				{ID: 1, Start: base.Add(6 * time.Minute), End: base.Add(8 * time.Minute), Duration: 2 * time.Minute, Result: actlog.ResultWipe, BossName: "Omega"},
				{ID: 2, Start: base.Add(10 * time.Minute), End: base.Add(20 * time.Minute), Duration: 10 * time.Minute, Result: actlog.ResultClear, BossName: "Omega"},
			},
		},
	}
}

func TestSelectEncounter(t *testing.T) {
	zones := testZones()

	tests := []struct {
		name      string
		zone, id  int
		pad       time.Duration
		wantStart time.Time
		wantEnd   time.Time
		wantErr   string
	}{
		{name: "any zone", id: 2, wantStart: base.Add(10 * time.Minute), wantEnd: base.Add(20 * time.Minute)},
		{name: "explicit zone", zone: 2, id: 1, wantStart: base.Add(6 * time.Minute), wantEnd: base.Add(8 * time.Minute)},
		{name: "padded", id: 1, pad: 5 * time.Second,
			wantStart: base.Add(6*time.Minute - 5*time.Second), wantEnd: base.Add(8*time.Minute + 5*time.Second)},
		{name: "wrong zone", zone: 1, id: 1, wantErr: "not found in zone 1"},
		{name: "unknown id", id: 9, wantErr: "encounter 9 not found"},
		{name: "zone out of range", zone: 3, id: 1, wantErr: "out of range"},
		{name: "negative zone", zone: -1, id: 1, wantErr: "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := selectEncounter(zones, tt.zone, tt.id, tt.pad, tt.pad)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("selectEncounter() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("selectEncounter() error = %v", err)
			}
			if !w.start.Equal(tt.wantStart) || !w.end.Equal(tt.wantEnd) {
				t.Errorf("window = [%v, %v], want [%v, %v]", w.start, w.end, tt.wantStart, tt.wantEnd)
			}
			if w.encounter == nil || w.encounter.ID != tt.id {
				t.Errorf("encounter = %+v, want id %d", w.encounter, tt.id)
			}
			if w.zone == nil || w.zone.ZoneName != "The Omega Protocol" {
				t.Errorf("zone = %+v", w.zone)
			}
			if len(w.players) != 1 || w.players[0].Name != "Alice" {
				t.Errorf("players = %+v, want zone roster", w.players)
			}
		})
	}
}

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		name         string
		since, until string
		pad          time.Duration
		wantErr      bool
		wantNoWindow bool
	}{
		{name: "valid", since: "2024-03-01T20:00:00Z", until: "2024-03-01T20:10:00Z"},
		{name: "padded", since: "2024-03-01T20:00:00Z", until: "2024-03-01T20:10:00Z", pad: time.Second},
		{name: "missing until", since: "2024-03-01T20:00:00Z", wantErr: true, wantNoWindow: true},
		{name: "missing both", wantErr: true, wantNoWindow: true},
		{name: "bad since", since: "yesterday", until: "2024-03-01T20:10:00Z", wantErr: true},
		{name: "bad until", since: "2024-03-01T20:00:00Z", until: "20:10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := windowFlags{since: tt.since, until: tt.until, padBefore: tt.pad, padAfter: tt.pad}
			w, err := f.parseTimeRange()
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTimeRange() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantNoWindow && !errors.Is(err, errNoWindow) {
				t.Errorf("parseTimeRange() error = %v, want errNoWindow", err)
			}
			if tt.wantErr {
				return
			}
			if want := base.Add(-tt.pad); !w.start.Equal(want) {
				t.Errorf("start = %v, want %v", w.start, want)
			}
			if want := base.Add(10*time.Minute + tt.pad); !w.end.Equal(want) {
				t.Errorf("end = %v, want %v", w.end, want)
			}
		})
	}
}

func TestWindowFlags_ByEncounter(t *testing.T) {
	if (&windowFlags{}).byEncounter() {
		t.Error("byEncounter() = true for zero flags")
	}
	if !(&windowFlags{encounter: 3}).byEncounter() {
		t.Error("byEncounter() = false with --encounter 3")
	}
}
