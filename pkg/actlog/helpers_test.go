package actlog

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// base is t=0 for synthetic logs.
var base = time.Date(2024, 1, 15, 20, 0, 0, 0, time.FixedZone("JST", 9*60*60))

// logBuilder writes synthetic network log lines at offsets from base.
type logBuilder struct {
	lines []string
}

func newLog() *logBuilder { return &logBuilder{} }

func stamp(d time.Duration) string {
	return base.Add(d).Format(time.RFC3339Nano)
}

func (b *logBuilder) raw(line string) *logBuilder {
	b.lines = append(b.lines, line)
	return b
}

func (b *logBuilder) linef(code string, d time.Duration, format string, args ...any) *logBuilder {
	return b.raw(code + "|" + stamp(d) + "|" + fmt.Sprintf(format, args...))
}

func (b *logBuilder) zone(d time.Duration, id, name string) *logBuilder {
	return b.linef("01", d, "%s|%s|hash", id, name)
}

func (b *logBuilder) add(d time.Duration, id, name, job string) *logBuilder {
	return b.linef("03", d, "%s|%s|%s|5A|0000|28|Tonberry|0|0|100|100|0|10000|||100|100|0|0|hash", id, name, job)
}

func (b *logBuilder) addAt(d time.Duration, id, name string, x, y float64) *logBuilder {
	return b.linef("03", d, "%s|%s|0|5A|0000|0||0|0|100|100|0|10000|||%g|%g|0|0|hash", id, name, x, y)
}

func (b *logBuilder) cast(d time.Duration, srcID, srcName, action string, x, y float64) *logBuilder {
	return b.linef("20", d, "%s|%s|7D10|%s|10AAAAAA|Alice|3.700|%g|%g|0|0", srcID, srcName, action, x, y)
}

func (b *logBuilder) action(d time.Duration, srcID, srcName, tgtID, tgtName string) *logBuilder {
	return b.linef("21", d, "%s|%s|7D11|Attack|%s|%s|3|1F40000|0|0", srcID, srcName, tgtID, tgtName)
}

func (b *logBuilder) aoe(d time.Duration, srcID, srcName, tgtID, tgtName string) *logBuilder {
	return b.linef("22", d, "%s|%s|7D12|Flare|%s|%s|3|1F40000", srcID, srcName, tgtID, tgtName)
}

func (b *logBuilder) enemy(d time.Duration) *logBuilder {
	return b.action(d, "40CCCCCC", "Boss", "10AAAAAA", "Alice")
}

func (b *logBuilder) wipe(d time.Duration) *logBuilder {
	return b.linef("33", d, "8003759A|40000010|00|00|00|00")
}

func (b *logBuilder) victory(d time.Duration) *logBuilder {
	return b.linef("33", d, "8003759A|40000003|00|00|00|00")
}

func (b *logBuilder) status(d time.Duration, statusID, name, tgtID, tgtName string) *logBuilder {
	return b.linef("26", d, "%s|%s|15.00|40CCCCCC|Boss|%s|%s|00|150000|", statusID, name, tgtID, tgtName)
}

func (b *logBuilder) statusRemove(d time.Duration, statusID, name, tgtID, tgtName string) *logBuilder {
	return b.linef("27", d, "%s|%s|40CCCCCC|Boss|%s|%s|00", statusID, name, tgtID, tgtName)
}

func (b *logBuilder) waymark(d time.Duration, op string, marker int, x, y float64) *logBuilder {
	return b.linef("29", d, "%s|%d|%d|%d|0", op, marker, int(x*1000), int(y*1000))
}

func (b *logBuilder) tether(d time.Duration) *logBuilder {
	return b.linef("40", d, "40CCCCCC|Boss|10AAAAAA|Alice|0054")
}

func (b *logBuilder) hp(d time.Duration, id, name string) *logBuilder {
	return b.linef("39", d, "%s|%s|100|100|0|10000|||100|100|0|0", id, name)
}

func (b *logBuilder) String() string {
	return strings.Join(b.lines, "\n") + "\n"
}

// sampleLog mixes every supported code with noise and malformed lines.
func sampleLog() string {
	b := newLog().
		raw("00|" + stamp(-2*time.Second) + "|0039||chat line").
		zone(-time.Second, "4D9", "The Omega Protocol (Ultimate)").
		add(0, "10AAAAAA", "Alice Smith", "19").
		add(0, "10BBBBBB", "Bob", "21").
		add(0, "10DDDDDD", "Eos", "0").
		add(0, "40CCCCCC", "Boss", "0").
		add(0, "E0000000", "", "0").
		cast(time.Second, "40CCCCCC", "Boss", "Program Loop", 100, 90).
		raw("21|not-a-time|40CCCCCC|Boss|1|A|10AAAAAA|Alice").
		raw("26|" + stamp(2*time.Second) + "|too|short").
		raw("garbage without delimiter")
	for i := 0; i < 40; i++ {
		d := time.Duration(i) * 500 * time.Millisecond
		b.enemy(d)
		if i%5 == 0 {
			b.status(d, "D3D", "Doom", "10AAAAAA", "Alice Smith")
		}
		if i%7 == 0 {
			b.statusRemove(d, "D3D", "Doom", "10AAAAAA", "Alice Smith")
		}
	}
	return b.waymark(3*time.Second, "Add", 0, 100, 88).
		tether(4 * time.Second).
		wipe(25 * time.Second).
		String()
}

// assertTime compares instants, ignoring the location.
func assertTime(t *testing.T, want, got time.Time) {
	t.Helper()
	assert.True(t, want.Equal(got), "want %s, got %s", want, got)
}
