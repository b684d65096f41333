package main

import (
	"fmt"
	"strings"

	"github.com/actlog/actlog-go/pkg/actlog/event"
)

// ValidEventTypes maps the names accepted by --types to event codes.
var ValidEventTypes = func() map[string]event.Code {
	m := make(map[string]event.Code)
	for _, name := range event.CodeNames() {
		code, _ := event.ParseCode(name)
		m[name] = code
	}
	return m
}()

// ValidEventTypeNames returns the sorted names accepted by --types.
func ValidEventTypeNames() []string {
	return event.CodeNames()
}

// parseTypeFilter turns --types values into a set. An empty list yields a
// nil set, which admits every event.
func parseTypeFilter(names []string) (map[event.Code]bool, error) {
	if len(names) == 0 {
		return nil, nil
	}
	filter := make(map[event.Code]bool, len(names))
	for _, name := range names {
		code, ok := event.ParseCode(name)
		if !ok {
			return nil, fmt.Errorf("unknown event type %q (valid: %s)", name, strings.Join(ValidEventTypeNames(), ", "))
		}
		filter[code] = true
	}
	return filter, nil
}
