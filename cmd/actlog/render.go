package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/actlog/actlog-go/pkg/actlog"
)

// table is a bordered text table.
type table struct {
	title   string
	headers []string
	rows    [][]string
}

// render draws t with rounded borders. The first column is left-aligned and
// the rest right-aligned.
func (t table) render() string {
	cols := len(t.headers)
	widths := make([]int, cols)
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i := 0; i < cols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	if t.title != "" {
		b.WriteString("  " + headerStyle.Render(t.title) + "\n")
	}
	rule := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < cols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right) + "\n")
	}
	line := func(cells []string, style lipgloss.Style) {
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			if i == 0 {
				b.WriteString(" " + style.Render(cell) + pad + " ")
			} else {
				b.WriteString(" " + pad + style.Render(cell) + " ")
			}
			if i < cols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│") + "\n")
	}

	rule("╭", "┬", "╮")
	line(t.headers, headerStyle)
	rule("├", "┼", "┤")
	for _, row := range t.rows {
		line(row, valueStyle)
	}
	rule("╰", "┴", "╯")
	return b.String()
}

func renderResult(r actlog.Result) string {
	switch r {
	case actlog.ResultWipe:
		return wipeStyle.Render(string(r))
	case actlog.ResultClear:
		return clearStyle.Render(string(r))
	}
	return dimStyle.Render(string(r))
}

// renderZones draws one table per zone. Zones without encounters are listed
// on one line unless all is set.
func renderZones(zones []actlog.ZoneSession, all bool) string {
	var b strings.Builder
	skipped := 0
	for i, z := range zones {
		title := fmt.Sprintf("zone %d  %s (%X)  %s - %s  %d players",
			i+1, z.ZoneName, z.ZoneID,
			z.Start.Format("2006-01-02 15:04:05"), z.End.Format("15:04:05"), len(z.Players))
		if len(z.Encounters) == 0 {
			if all {
				b.WriteString("  " + dimStyle.Render(title) + "\n")
			} else {
				skipped++
			}
			continue
		}
		t := table{
			title:   title,
			headers: []string{"encounter", "start", "duration", "result", "players"},
		}
		for _, e := range z.Encounters {
			t.rows = append(t.rows, []string{
				fmt.Sprintf("#%d %s", e.ID, e.BossName),
				e.Start.Format("15:04:05"),
				formatDuration(e.Duration.Milliseconds()),
				renderResult(e.Result),
				fmt.Sprintf("%d", e.PlayerCount),
			})
		}
		b.WriteString(t.render())
		b.WriteString("\n")
	}
	if skipped > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %s zones without encounters hidden (--all to show)", humanize.Comma(int64(skipped)))) + "\n")
	}
	return b.String()
}
