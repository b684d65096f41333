package actlog

import (
	"github.com/actlog/actlog-go/internal/parser"
	"github.com/actlog/actlog-go/pkg/actlog/event"
)

// DecodeLine decodes a single network log line.
//
// Return values:
//   - (Event, nil): Successfully decoded event
//   - (nil, nil): Line carries a code outside the supported set (not an error)
//   - (nil, error): Supported code, but bad timestamp or too few fields
//
// Example:
//
//	ev, err := actlog.DecodeLine(line)
//	if err != nil {
//	    log.Printf("malformed line: %v", err)
//	} else if ev != nil {
//	    fmt.Printf("%s at %s\n", ev.EventCode(), ev.Time())
//	}
func DecodeLine(line string) (event.Event, error) {
	return parser.Parse(line)
}
