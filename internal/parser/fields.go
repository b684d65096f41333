package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/actlog/actlog-go/pkg/actlog/event"
)

// Separator is the field delimiter of the network log format.
const Separator = '|'

// TimestampLayout parses "2024-01-15T20:00:00.1230000+09:00".
// RFC3339Nano accepts any fractional precision, including none.
const TimestampLayout = time.RFC3339Nano

// LeadingCode extracts the integer event code without splitting the line.
// It is the cheap pre-check used before a full decode.
func LeadingCode(line string) (int, bool) {
	n := 0
	i := 0
	for ; i < len(line) && line[i] != Separator; i++ {
		c := line[i]
		if c < '0' || c > '9' || i >= 4 {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if i == 0 || i == len(line) {
		return 0, false
	}
	return n, true
}

// TimestampField returns the second field of line without splitting it.
func TimestampField(line string) (string, bool) {
	first := strings.IndexByte(line, Separator)
	if first < 0 {
		return "", false
	}
	rest := line[first+1:]
	if second := strings.IndexByte(rest, Separator); second >= 0 {
		return rest[:second], true
	}
	return strings.TrimRight(rest, "\r"), true
}

// ParseTimestamp parses an offset-aware log timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}

// LineTime extracts and parses the timestamp of line.
func LineTime(line string) (time.Time, bool) {
	s, ok := TimestampField(line)
	if !ok {
		return time.Time{}, false
	}
	ts, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// Split splits a line into its fields, dropping a trailing CR.
func Split(line string) []string {
	return strings.Split(strings.TrimRight(line, "\r"), string(Separator))
}

// field returns fields[i] or "" when the line is short.
func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

// Numeric helpers are lenient: an unparsable value decodes as 0.

func hexUint(s string) uint32 {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 16, 32)
	if err != nil {
		return 0
	}
	return uint32(v)
}

func hexInt(s string) int {
	return int(hexUint(s))
}

func decInt64(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func decInt(s string) int {
	return int(decInt64(s))
}

func float(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// Hex parses a hex field leniently, as the decoder does.
func Hex(s string) uint32 {
	return hexUint(s)
}

// MinFields returns the minimum field count for a supported code, or 0.
func MinFields(code event.Code) int {
	return minFields[code]
}
