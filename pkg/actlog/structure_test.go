package actlog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sec(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}

func scanZones(t *testing.T, text string, opts ...Option) []ZoneSession {
	t.Helper()
	zones, err := ScanStructure(context.Background(), text, opts...)
	require.NoError(t, err)
	return zones
}

func TestScanStructure_MinimumDuration(t *testing.T) {
	tests := []struct {
		name     string
		last     time.Duration
		wantKept bool
	}{
		{"9.9s dropped", sec(9.9), false},
		{"10.0s kept", sec(10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := newLog().
				zone(-time.Second, "4D9", "Arena").
				enemy(0).
				enemy(tt.last).
				String()

			zones := scanZones(t, text)
			require.Len(t, zones, 1)
			if tt.wantKept {
				require.Len(t, zones[0].Encounters, 1)
				assert.Equal(t, tt.last, zones[0].Encounters[0].Duration)
			} else {
				assert.Empty(t, zones[0].Encounters)
			}
		})
	}
}

func TestScanStructure_CombatGap(t *testing.T) {
	burst := func(b *logBuilder, at time.Duration) {
		b.enemy(at).enemy(at + 6*time.Second).enemy(at + 12*time.Second)
	}

	tests := []struct {
		name string
		gap  time.Duration
		want int
	}{
		{"31s gap splits", 31 * time.Second, 2},
		{"29s gap merges", 29 * time.Second, 1},
		{"exactly 30s merges", 30 * time.Second, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newLog().zone(-time.Second, "4D9", "Arena")
			burst(b, 0)
			second := 12*time.Second + tt.gap
			burst(b, second)

			zones := scanZones(t, b.String())
			require.Len(t, zones, 1)
			encs := zones[0].Encounters
			require.Len(t, encs, tt.want)

			if tt.want == 2 {
				assertTime(t, base, encs[0].Start)
				assertTime(t, base.Add(12*time.Second), encs[0].End)
				assertTime(t, base.Add(second), encs[1].Start)
				assertTime(t, base.Add(second+12*time.Second), encs[1].End)
				assert.True(t, encs[0].End.Before(encs[1].Start))
				assert.Equal(t, []int{1, 2}, []int{encs[0].ID, encs[1].ID})
			} else {
				assertTime(t, base, encs[0].Start)
				assertTime(t, base.Add(second+12*time.Second), encs[0].End)
			}
			for _, e := range encs {
				assert.Equal(t, ResultUnknown, e.Result)
				assert.Equal(t, "Boss", e.BossName)
			}
		})
	}
}

func TestScanStructure_WipeClosesEncounter(t *testing.T) {
	text := newLog().
		zone(-time.Second, "4D9", "Arena").
		enemy(0).
		enemy(15*time.Second).
		wipe(20*time.Second).
		enemy(21*time.Second).
		enemy(35*time.Second).
		String()

	zones := scanZones(t, text)
	require.Len(t, zones, 1)
	encs := zones[0].Encounters
	require.Len(t, encs, 2)

	assert.Equal(t, ResultWipe, encs[0].Result)
	assertTime(t, base.Add(20*time.Second), encs[0].End)
	assert.Equal(t, 20*time.Second, encs[0].Duration)

	assert.Equal(t, ResultUnknown, encs[1].Result)
	assertTime(t, base.Add(21*time.Second), encs[1].Start)
	assertTime(t, base.Add(35*time.Second), encs[1].End)
}

func TestScanStructure_VictoryMarksClear(t *testing.T) {
	text := newLog().
		zone(-time.Second, "4D9", "Arena").
		enemy(0).
		enemy(30*time.Second).
		victory(45*time.Second).
		String()

	zones := scanZones(t, text)
	require.Len(t, zones[0].Encounters, 1)
	enc := zones[0].Encounters[0]
	assert.Equal(t, ResultClear, enc.Result)
	assert.Equal(t, 45*time.Second, enc.Duration)
}

func TestScanStructure_WipeWithoutEncounterIgnored(t *testing.T) {
	text := newLog().
		zone(-time.Second, "4D9", "Arena").
		wipe(0).
		enemy(time.Second).
		enemy(20 * time.Second).
		String()

	zones := scanZones(t, text)
	require.Len(t, zones[0].Encounters, 1)
	assert.Equal(t, ResultUnknown, zones[0].Encounters[0].Result)
}

func TestScanStructure_ZeroDurationDropped(t *testing.T) {
	text := newLog().
		zone(-time.Second, "4D9", "Arena").
		enemy(0).
		wipe(0).
		String()

	zones := scanZones(t, text)
	require.Len(t, zones, 1)
	assert.Empty(t, zones[0].Encounters)
}

func TestScanStructure_NoZoneChange(t *testing.T) {
	b := newLog().
		add(0, "10AAAAAA", "Alice", "19").
		add(0, "40CCCCCC", "Boss", "0")
	for i := 0; i < 30; i++ {
		b.enemy(time.Duration(i) * time.Second)
	}
	b.wipe(40 * time.Second)

	zones := scanZones(t, b.String())
	assert.Empty(t, zones)
}

func TestScanStructure_ZoneChangeClosesEncounter(t *testing.T) {
	text := newLog().
		zone(-time.Second, "4D9", "Arena").
		add(0, "10AAAAAA", "Alice", "19").
		enemy(0).
		enemy(12*time.Second).
		zone(50*time.Second, "84", "Town").
		add(51*time.Second, "10AAAAAA", "Alice", "19").
		String()

	zones := scanZones(t, text)
	require.Len(t, zones, 2)

	arena := zones[0]
	assert.Equal(t, uint32(0x4D9), arena.ZoneID)
	assert.Equal(t, "Arena", arena.ZoneName)
	assertTime(t, base.Add(-time.Second), arena.Start)
	assertTime(t, base.Add(50*time.Second), arena.End)
	require.Len(t, arena.Encounters, 1)
	assertTime(t, base.Add(12*time.Second), arena.Encounters[0].End)

	town := zones[1]
	assert.Equal(t, "Town", town.ZoneName)
	assert.Empty(t, town.Encounters)
	assertTime(t, base.Add(51*time.Second), town.End)
	require.Len(t, town.Players, 1, "roster is per zone")
}

func TestScanStructure_ZoneRoster(t *testing.T) {
	text := newLog().
		zone(-time.Second, "4D9", "Arena").
		add(0, "10AAAAAA", "Alice", "19").
		add(0, "10AAAAAA", "Alice", "19").
		add(0, "10BBBBBB", "Bob", "21").
		add(0, "10DDDDDD", "Eos", "0").
		add(0, "40CCCCCC", "Boss", "0").
		enemy(0).
		add(time.Second, "10EEEEEE", "Late Joiner", "22").
		enemy(15 * time.Second).
		String()

	zones := scanZones(t, text)
	require.Len(t, zones, 1)

	var ids []string
	for _, p := range zones[0].Players {
		ids = append(ids, p.ID)
		assert.True(t, p.IsPlayer)
	}
	assert.Equal(t, []string{"10AAAAAA", "10BBBBBB", "10EEEEEE"}, ids)
	assert.Equal(t, 0x19, zones[0].Players[0].Job)

	require.Len(t, zones[0].Encounters, 1)
	assert.Equal(t, 1, zones[0].Encounters[0].PlayerCount, "players declared during the encounter")
}

func TestScanStructure_PlayerCountFallsBackToZoneRoster(t *testing.T) {
	text := newLog().
		zone(-time.Second, "4D9", "Arena").
		add(0, "10AAAAAA", "Alice", "19").
		add(0, "10BBBBBB", "Bob", "21").
		enemy(time.Second).
		enemy(20 * time.Second).
		String()

	zones := scanZones(t, text)
	require.Len(t, zones[0].Encounters, 1)
	assert.Equal(t, 2, zones[0].Encounters[0].PlayerCount)
}

func TestScanStructure_BossNameBackfill(t *testing.T) {
	text := newLog().
		zone(-time.Second, "4D9", "Arena").
		action(0, "40CCCCCC", "", "10AAAAAA", "Alice").
		aoe(5*time.Second, "40CCCCCC", "Boss", "10AAAAAA", "Alice").
		cast(12*time.Second, "40CCCCCC", "Other", "Spin", 100, 100).
		String()

	zones := scanZones(t, text)
	require.Len(t, zones[0].Encounters, 1)
	assert.Equal(t, "Boss", zones[0].Encounters[0].BossName)
}

func TestScanStructure_PlayerActionsDoNotOpenEncounters(t *testing.T) {
	text := newLog().
		zone(-time.Second, "4D9", "Arena").
		action(0, "10AAAAAA", "Alice", "40CCCCCC", "Boss").
		action(30*time.Second, "10AAAAAA", "Alice", "40CCCCCC", "Boss").
		String()

	zones := scanZones(t, text)
	require.Len(t, zones, 1)
	assert.Empty(t, zones[0].Encounters)
}

// Two players and a boss, a gap-split first pull and a second pull that
// ends in a wipe.
func TestScanStructure_EndToEnd(t *testing.T) {
	text := newLog().
		zone(-time.Second, "4D9", "Arena").
		add(0, "10AAAAAA", "Alice", "19").
		add(0, "10BBBBBB", "Bob", "21").
		add(0, "40CCCCCC", "Boss", "0").
		enemy(0).
		enemy(12*time.Second).
		enemy(52*time.Second).
		enemy(60*time.Second).
		wipe(64*time.Second).
		String()

	zones := scanZones(t, text)
	require.Len(t, zones, 1)
	encs := zones[0].Encounters
	require.Len(t, encs, 2)

	assertTime(t, base, encs[0].Start)
	assertTime(t, base.Add(12*time.Second), encs[0].End)
	assert.Equal(t, ResultUnknown, encs[0].Result)

	assertTime(t, base.Add(52*time.Second), encs[1].Start)
	assertTime(t, base.Add(64*time.Second), encs[1].End)
	assert.Equal(t, ResultWipe, encs[1].Result)
	assert.Equal(t, "Boss", encs[1].BossName)
	assert.Equal(t, 2, encs[1].PlayerCount)

	assert.Len(t, zones[0].Players, 2)
}

func TestScanStructure_EndToEndShortPullsDropped(t *testing.T) {
	// ActionEffect at 0s, another at 40s, wipe at 41s: both pulls are under
	// the minimum duration.
	text := newLog().
		zone(-time.Second, "4D9", "Arena").
		add(0, "10AAAAAA", "Alice", "19").
		add(0, "10BBBBBB", "Bob", "21").
		add(0, "40CCCCCC", "Boss", "0").
		enemy(0).
		enemy(40*time.Second).
		wipe(41*time.Second).
		String()

	zones := scanZones(t, text)
	require.Len(t, zones, 1)
	assert.Empty(t, zones[0].Encounters)
}

func TestScanStructure_WindowSizeInvariant(t *testing.T) {
	text := newLog().
		zone(-time.Second, "4D9", "Arena").
		add(0, "10AAAAAA", "Alice", "19").
		enemy(0).
		enemy(15*time.Second).
		wipe(16*time.Second).
		zone(30*time.Second, "84", "Town").
		String()

	assert.Equal(t, scanZones(t, text), scanZones(t, text, WithWindowSize(3)))
}

func TestScanStructure_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ScanStructure(ctx, sampleLog())
	require.ErrorIs(t, err, context.Canceled)
	var scanErr *ScanError
	require.ErrorAs(t, err, &scanErr)
	assert.Equal(t, OpStructure, scanErr.Op)
}

func TestScanStructure_Progress(t *testing.T) {
	var got []float64
	_, err := ScanStructure(context.Background(), sampleLog(), WithWindowSize(128), WithProgress(func(f float64) error {
		got = append(got, f)
		return nil
	}))
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, 1.0, got[len(got)-1])
	assert.IsIncreasing(t, got)
}
