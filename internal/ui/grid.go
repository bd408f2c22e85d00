package ui

import (
	"strings"

	"github.com/nconklindev/capview/internal/cli"
	"github.com/nconklindev/capview/internal/types"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	minKeyColWidth    = 10
	maxKeyColWidth    = 28
	minPeriodColWidth = 12
	minTableHeight    = 5
)

// rowStyleFunc picks the style of data row i.
type rowStyleFunc func(i int, selected bool) lipgloss.Style

type column struct {
	title string
	width int
	right bool
}

// grid is a scrolling table with a row cursor. Only height rows are drawn,
// starting at offset.
type grid struct {
	columns []column
	rows    [][]string
	cursor  int
	offset  int
	height  int
	style   rowStyleFunc
}

func newGrid(summary *types.SummaryTable, decimals, height int) grid {
	records := cli.DisplayRecords(summary, decimals)
	headers := summary.Headers()

	columns := make([]column, len(headers))
	for i, h := range headers {
		width := lipgloss.Width(h)
		for _, record := range records {
			width = max(width, lipgloss.Width(record[i]))
		}
		isKey := i < len(summary.KeyColumns)
		if isKey {
			width = min(max(width, minKeyColWidth), maxKeyColWidth)
		} else {
			width = max(width, minPeriodColWidth)
		}
		columns[i] = column{title: h, width: width, right: !isKey}
	}

	g := grid{columns: columns, rows: records, style: stripedRow}
	g.SetHeight(height)
	return g
}

func (g *grid) SetHeight(height int) {
	g.height = max(height, minTableHeight)
	g.scroll()
}

func (g grid) Cursor() int {
	return g.cursor
}

func (g *grid) moveTo(i int) {
	if len(g.rows) == 0 {
		return
	}
	g.cursor = min(max(i, 0), len(g.rows)-1)
	g.scroll()
}

// scroll keeps the cursor row inside the drawn window.
func (g *grid) scroll() {
	if g.cursor < g.offset {
		g.offset = g.cursor
	}
	if g.cursor >= g.offset+g.height {
		g.offset = g.cursor - g.height + 1
	}
	g.offset = max(min(g.offset, len(g.rows)-g.height), 0)
}

func (g *grid) update(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, keys.Up):
		g.moveTo(g.cursor - 1)
	case key.Matches(msg, keys.Down):
		g.moveTo(g.cursor + 1)
	case key.Matches(msg, keys.PageUp):
		g.moveTo(g.cursor - g.height)
	case key.Matches(msg, keys.PageDown):
		g.moveTo(g.cursor + g.height)
	case key.Matches(msg, keys.Top):
		g.moveTo(0)
	case key.Matches(msg, keys.Bottom):
		g.moveTo(len(g.rows) - 1)
	}
}

func (g grid) View() string {
	titles := make([]string, len(g.columns))
	for i, col := range g.columns {
		titles[i] = col.title
	}

	var s strings.Builder
	s.WriteString(GridHeaderStyle.Render(g.renderRow(titles)))

	end := min(g.offset+g.height, len(g.rows))
	for i := g.offset; i < end; i++ {
		s.WriteString("\n")
		s.WriteString(g.style(i, i == g.cursor).Render(g.renderRow(g.rows[i])))
	}
	return s.String()
}

func (g grid) renderRow(values []string) string {
	cells := make([]string, len(g.columns))
	for i, col := range g.columns {
		var v string
		if i < len(values) {
			v = values[i]
		}
		cells[i] = fit(v, col.width, col.right)
	}
	return strings.Join(cells, " ")
}

// fit truncates or pads s to exactly width cells.
func fit(s string, width int, right bool) string {
	if lipgloss.Width(s) > width {
		r := []rune(s)
		for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
			r = r[:len(r)-1]
		}
		s = string(r) + "…"
	}

	pad := strings.Repeat(" ", max(width-lipgloss.Width(s), 0))
	if right {
		return pad + s
	}
	return s + pad
}
