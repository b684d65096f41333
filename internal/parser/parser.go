// Package parser decodes ACT network log lines.
package parser

import (
	"fmt"
	"strings"

	"github.com/actlog/actlog-go/pkg/actlog/event"
)

// minFields is the minimum field count (code and timestamp included) per code.
var minFields = map[event.Code]int{
	event.ChangeZone:    4,
	event.AddCombatant:  4,
	event.StartsCasting: 8,
	event.ActionEffect:  8,
	event.AoEEffect:     8,
	event.StatusAdd:     9,
	event.StatusRemove:  8,
	event.WaymarkMarker: 4,
	event.ActorControl:  4,
	event.Tether:        7,
}

// LineError describes a line that carries a supported code but cannot be decoded.
type LineError struct {
	Code   event.Code
	Reason string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s line: %s", e.Code, e.Reason)
}

// Parse decodes a network log line into an event.
//
// Returns:
//   - (Event, nil): Successfully decoded
//   - (nil, nil): Code not in the supported set
//   - (nil, *LineError): Bad timestamp or too few fields
func Parse(line string) (event.Event, error) {
	n, ok := LeadingCode(line)
	if !ok {
		return nil, nil
	}
	code := event.Code(n)
	if !code.Supported() {
		return nil, nil
	}

	fields := Split(line)
	ts, err := ParseTimestamp(fields[1])
	if err != nil {
		return nil, &LineError{Code: code, Reason: "invalid timestamp"}
	}
	if len(fields) < minFields[code] {
		return nil, &LineError{
			Code:   code,
			Reason: fmt.Sprintf("%d fields, want at least %d", len(fields), minFields[code]),
		}
	}

	h := event.Header{Code: code, Timestamp: ts, RawLine: line}

	switch code {
	case event.ChangeZone:
		return &event.ChangeZoneEvent{
			Header:   h,
			ZoneID:   hexUint(fields[2]),
			ZoneName: fields[3],
		}, nil
	case event.AddCombatant:
		return parseAddCombatant(h, fields), nil
	case event.StartsCasting:
		return &event.StartsCastingEvent{
			Header:     h,
			SourceID:   fields[2],
			SourceName: fields[3],
			ActionID:   hexUint(fields[4]),
			ActionName: fields[5],
			TargetID:   fields[6],
			TargetName: fields[7],
			CastTime:   float(field(fields, 8)),
			Position:   position(fields, 9, 1),
		}, nil
	case event.ActionEffect, event.AoEEffect:
		return parseActionEffect(h, fields), nil
	case event.StatusAdd:
		return &event.StatusAddEvent{
			Header:      h,
			StatusID:    hexUint(fields[2]),
			StatusName:  fields[3],
			Duration:    float(fields[4]),
			SourceID:    fields[5],
			SourceName:  fields[6],
			TargetID:    fields[7],
			TargetName:  fields[8],
			Stacks:      hexInt(field(fields, 9)),
			TargetMaxHP: decInt64(field(fields, 10)),
		}, nil
	case event.StatusRemove:
		return &event.StatusRemoveEvent{
			Header:     h,
			StatusID:   hexUint(fields[2]),
			StatusName: fields[3],
			SourceID:   fields[4],
			SourceName: fields[5],
			TargetID:   fields[6],
			TargetName: fields[7],
			Stacks:     hexInt(field(fields, 8)),
		}, nil
	case event.WaymarkMarker:
		return &event.WaymarkEvent{
			Header:    h,
			Operation: event.WaymarkOp(strings.TrimSpace(fields[2])),
			Marker:    decInt(fields[3]),
			Position:  position(fields, 4, 1000),
		}, nil
	case event.ActorControl:
		ev := &event.ActorControlEvent{
			Header:     h,
			InstanceID: fields[2],
			Command:    hexUint(fields[3]),
		}
		for i := range ev.Data {
			ev.Data[i] = hexUint(field(fields, 4+i))
		}
		return ev, nil
	case event.Tether:
		return &event.TetherEvent{
			Header:     h,
			SourceID:   fields[2],
			SourceName: fields[3],
			TargetID:   fields[4],
			TargetName: fields[5],
			TetherID:   hexUint(fields[6]),
		}, nil
	}

	return nil, nil
}

func parseAddCombatant(h event.Header, fields []string) *event.AddCombatantEvent {
	return &event.AddCombatantEvent{
		Header:    h,
		ID:        fields[2],
		Name:      fields[3],
		Job:       hexInt(field(fields, 4)),
		Level:     hexInt(field(fields, 5)),
		OwnerID:   field(fields, 6),
		WorldID:   hexInt(field(fields, 7)),
		WorldName: field(fields, 8),
		NPCNameID: decInt(field(fields, 9)),
		NPCBaseID: decInt(field(fields, 10)),
		CurrentHP: decInt64(field(fields, 11)),
		MaxHP:     decInt64(field(fields, 12)),
		CurrentMP: decInt64(field(fields, 13)),
		MaxMP:     decInt64(field(fields, 14)),
		Position:  position(fields, 17, 1),
	}
}

// effectFields is the number of effect words after the target name.
const effectFields = 16

func parseActionEffect(h event.Header, fields []string) *event.ActionEffectEvent {
	ev := &event.ActionEffectEvent{
		Header:     h,
		SourceID:   fields[2],
		SourceName: fields[3],
		ActionID:   hexUint(fields[4]),
		ActionName: fields[5],
		TargetID:   fields[6],
		TargetName: fields[7],
		AoE:        h.Code == event.AoEEffect,
	}
	for i := 8; i < 8+effectFields && i < len(fields); i++ {
		ev.Effects = append(ev.Effects, hexUint(fields[i]))
	}
	return ev
}

// position reads x, y, z, heading starting at fields[at], dividing by scale.
func position(fields []string, at int, scale float64) event.Position {
	return event.Position{
		X:       float(field(fields, at)) / scale,
		Y:       float(field(fields, at+1)) / scale,
		Z:       float(field(fields, at+2)) / scale,
		Heading: float(field(fields, at+3)) / scale,
	}
}
