package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/actlog/actlog-go/pkg/actlog"
	"github.com/actlog/actlog-go/pkg/actlog/event"
)

// ValidFormats lists all valid output formats.
var ValidFormats = map[string]bool{
	"jsonl":  true,
	"pretty": true,
}

func checkFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("unknown format: %s (valid: jsonl, pretty)", format)
	}
	return nil
}

var (
	colorText   = lipgloss.Color("#FFFCF0")
	colorMuted  = lipgloss.Color("#6F6E69")
	colorDim    = lipgloss.Color("#575653")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorRed    = lipgloss.Color("#D14D41")
	colorOrange = lipgloss.Color("#DA702C")
	colorPurple = lipgloss.Color("#8B7EC8")

	timeStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	tagStyle    = lipgloss.NewStyle().Bold(true).Width(8)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	valueStyle  = lipgloss.NewStyle().Foreground(colorText)
	dimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	wipeStyle   = lipgloss.NewStyle().Foreground(colorRed)
	clearStyle  = lipgloss.NewStyle().Foreground(colorGreen)
)

// tagColors colors the event tag column in pretty output.
var tagColors = map[event.Code]lipgloss.Color{
	event.ChangeZone:    colorAccent,
	event.AddCombatant:  colorText,
	event.StartsCasting: colorOrange,
	event.ActionEffect:  colorRed,
	event.AoEEffect:     colorRed,
	event.StatusAdd:     colorPurple,
	event.StatusRemove:  colorPurple,
	event.WaymarkMarker: colorGreen,
	event.ActorControl:  colorAccent,
	event.Tether:        colorOrange,
}

// OutputEvent writes an event in the specified format to the writer.
func OutputEvent(format string, ev event.Event, out io.Writer) error {
	switch format {
	case "jsonl":
		return OutputJSON(ev, out)
	case "pretty":
		return OutputPretty(ev, out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// OutputJSON writes an event as one JSON line with a "type" field.
func OutputJSON(ev event.Event, out io.Writer) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	typ, err := json.Marshal(ev.EventCode().String())
	if err != nil {
		return err
	}
	// Splice "type" in front of the event's own fields.
	line := make([]byte, 0, len(data)+len(typ)+9)
	line = append(line, `{"type":`...)
	line = append(line, typ...)
	if len(data) > 2 {
		line = append(line, ',')
	}
	line = append(line, data[1:]...)
	_, err = fmt.Fprintln(out, string(line))
	return err
}

// OutputPretty writes an event as one human-readable line.
func OutputPretty(ev event.Event, out io.Writer) error {
	ts := timeStyle.Render(ev.Time().Format("15:04:05.000"))
	tag := tagStyle.Foreground(tagColors[ev.EventCode()]).Render(prettyTag(ev))
	_, err := fmt.Fprintf(out, "%s %s %s\n", ts, tag, describe(ev))
	return err
}

func prettyTag(ev event.Event) string {
	switch ev.EventCode() {
	case event.ChangeZone:
		return "zone"
	case event.AddCombatant:
		return "add"
	case event.StartsCasting:
		return "cast"
	case event.ActionEffect:
		return "hit"
	case event.AoEEffect:
		return "aoe"
	case event.StatusAdd:
		return "+status"
	case event.StatusRemove:
		return "-status"
	case event.WaymarkMarker:
		return "marker"
	case event.ActorControl:
		return "control"
	case event.Tether:
		return "tether"
	}
	return "?"
}

func describe(ev event.Event) string {
	switch e := ev.(type) {
	case *event.ChangeZoneEvent:
		return fmt.Sprintf("%s (%X)", e.ZoneName, e.ZoneID)
	case *event.AddCombatantEvent:
		return fmt.Sprintf("%s %s job=%X lv=%d", quoteIfNeeded(e.Name), e.ID, e.Job, e.Level)
	case *event.StartsCastingEvent:
		return fmt.Sprintf("%s -> %s: %s (%.2fs)",
			quoteIfNeeded(e.SourceName), quoteIfNeeded(e.TargetName), e.ActionName, e.CastTime)
	case *event.ActionEffectEvent:
		return fmt.Sprintf("%s -> %s: %s",
			quoteIfNeeded(e.SourceName), quoteIfNeeded(e.TargetName), e.ActionName)
	case *event.StatusAddEvent:
		return fmt.Sprintf("%s on %s from %s (%.1fs)",
			e.StatusName, quoteIfNeeded(e.TargetName), quoteIfNeeded(e.SourceName), e.Duration)
	case *event.StatusRemoveEvent:
		return fmt.Sprintf("%s off %s", e.StatusName, quoteIfNeeded(e.TargetName))
	case *event.WaymarkEvent:
		return fmt.Sprintf("%s slot=%d x=%.2f y=%.2f", strings.ToLower(string(e.Operation)), e.Marker, e.Position.X, e.Position.Y)
	case *event.ActorControlEvent:
		switch {
		case e.IsWipe():
			return wipeStyle.Render("wipe")
		case e.IsVictory():
			return clearStyle.Render("clear")
		}
		return fmt.Sprintf("%08X %X %X %X %X", e.Command, e.Data[0], e.Data[1], e.Data[2], e.Data[3])
	case *event.TetherEvent:
		return fmt.Sprintf("%s -> %s #%X", quoteIfNeeded(e.SourceName), quoteIfNeeded(e.TargetName), e.TetherID)
	}
	return ""
}

// quoteIfNeeded quotes names that contain spaces, quotes or control
// characters so pretty output stays splittable.
func quoteIfNeeded(v string) string {
	if v == "" {
		return `""`
	}
	needsQuote := false
	for _, c := range v {
		if c == ' ' || c == '"' || c == '\\' || c < 0x20 || c == 0x7F {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return v
	}

	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range v {
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '"':
			sb.WriteString(`\"`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c < 0x20 || c == 0x7F:
			sb.WriteString(fmt.Sprintf(`\x%02x`, c))
		default:
			sb.WriteRune(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// writeSummary writes the counters of res, used after pretty output and on
// stderr after jsonl output.
func writeSummary(out io.Writer, res *actlog.ParseResult) error {
	var b strings.Builder
	b.WriteString(headerStyle.Render("summary"))
	b.WriteString("\n")
	row := func(k, v string) {
		fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render(fmt.Sprintf("%-10s", k)), valueStyle.Render(v))
	}
	if !res.Start.IsZero() {
		row("span", fmt.Sprintf("%s - %s (%s)",
			res.Start.Format("15:04:05"), res.End.Format("15:04:05"), formatDuration(res.Duration().Milliseconds())))
	}
	row("events", humanize.Comma(int64(len(res.Events))))
	row("players", fmt.Sprintf("%d", len(res.Players)))
	row("enemies", fmt.Sprintf("%d", len(res.Enemies)))
	row("statuses", humanize.Comma(int64(len(res.StatusAdds)+len(res.StatusRemoves))))
	if res.MalformedLines > 0 {
		row("malformed", humanize.Comma(int64(res.MalformedLines)))
	}
	if res.Truncated {
		row("truncated", wipeStyle.Render("yes, raise --max-events or --max-status"))
	}
	_, err := io.WriteString(out, b.String())
	return err
}

// formatDuration renders milliseconds as m:ss.t, or h:mm:ss past an hour.
func formatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	secs := ms / 1000
	if secs >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
	}
	return fmt.Sprintf("%d:%02d.%d", secs/60, secs%60, ms%1000/100)
}
