package cli

import (
	"fmt"
	"strings"

	"github.com/nconklindev/capview/internal/types"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF8C42"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFB84D"))

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

// RenderSummary renders a summary table as a bordered text grid. Key
// columns are left aligned, period columns right aligned.
func RenderSummary(t *types.SummaryTable, decimals int) string {
	headers := t.Headers()
	records := DisplayRecords(t, decimals)
	keyCols := len(t.KeyColumns)

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, record := range records {
		for i, c := range record {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(t.Name))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d rows × %d periods", t.Len(), len(t.Periods))))
	b.WriteString("\n")

	b.WriteString(border("╭", "┬", "╮", widths))

	b.WriteString(borderStyle.Render("│"))
	for i, h := range headers {
		b.WriteString(headerStyle.Render(pad(h, widths[i], i >= keyCols)))
		b.WriteString(borderStyle.Render("│"))
	}
	b.WriteString("\n")
	b.WriteString(border("├", "┼", "┤", widths))

	if len(records) == 0 {
		total := len(widths)*3 - 1
		for _, w := range widths {
			total += w
		}
		b.WriteString(borderStyle.Render("│"))
		b.WriteString(mutedStyle.Render(pad("no rows", total-2, false)))
		b.WriteString(borderStyle.Render("│"))
		b.WriteString("\n")
	}

	for _, record := range records {
		b.WriteString(borderStyle.Render("│"))
		for i, c := range record {
			b.WriteString(pad(c, widths[i], i >= keyCols))
			b.WriteString(borderStyle.Render("│"))
		}
		b.WriteString("\n")
	}

	b.WriteString(border("╰", "┴", "╯", widths))
	return b.String()
}

// RenderResult renders every table in display order, separated by a blank line.
func RenderResult(result types.Result, decimals int) string {
	var parts []string
	for _, t := range result.Tables() {
		parts = append(parts, RenderSummary(t, decimals))
	}
	return strings.Join(parts, "\n")
}

func pad(s string, width int, right bool) string {
	gap := strings.Repeat(" ", max(width-lipgloss.Width(s), 0))
	if right {
		return " " + gap + s + " "
	}
	return " " + s + gap + " "
}

func border(left, mid, right string, widths []int) string {
	segments := make([]string, len(widths))
	for i, w := range widths {
		segments[i] = strings.Repeat("─", w+2)
	}
	return borderStyle.Render(left+strings.Join(segments, mid)+right) + "\n"
}
