package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nconklindev/capview/internal/types"

	"github.com/charmbracelet/lipgloss"
)

type tab struct {
	name    string
	summary *types.SummaryTable
	grid    grid
}

// viewer holds the tabs built from one loaded workbook. It is replaced on
// every load. Tables without rows get no tab.
type viewer struct {
	file   string
	result types.Result
	tabs   []tab
	active int
}

func newViewer(file string, result types.Result, decimals, height int) *viewer {
	v := &viewer{file: file, result: result}
	for _, summary := range result.Tables() {
		if summary.Len() == 0 {
			continue
		}
		v.tabs = append(v.tabs, tab{
			name:    summary.Name,
			summary: summary,
			grid:    newGrid(summary, decimals, height),
		})
	}
	return v
}

func (v *viewer) next() {
	v.active = (v.active + 1) % len(v.tabs)
}

func (v *viewer) prev() {
	v.active = (v.active - 1 + len(v.tabs)) % len(v.tabs)
}

// selectTab activates the 1-based tab n if it exists.
func (v *viewer) selectTab(n int) bool {
	if n < 1 || n > len(v.tabs) {
		return false
	}
	v.active = n - 1
	return true
}

func (v *viewer) current() *tab {
	return &v.tabs[v.active]
}

func (v *viewer) setHeight(height int) {
	for i := range v.tabs {
		v.tabs[i].grid.SetHeight(height)
	}
}

func (v *viewer) renderTabBar() string {
	parts := make([]string, len(v.tabs))
	for i, t := range v.tabs {
		label := fmt.Sprintf("%d %s", i+1, t.name)
		if i == v.active {
			parts[i] = ActiveTabStyle.Render(label)
		} else {
			parts[i] = InactiveTabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (v *viewer) renderStatus(width int, message string) string {
	left := StatusOKStyle.Render(fmt.Sprintf("✓ Successfully loaded %d data analysis tabs", len(v.tabs)))
	t := v.current()
	info := fmt.Sprintf("%s • %d rows • %d periods", filepath.Base(v.file), t.summary.Len(), len(t.summary.Periods))
	if message != "" {
		info = message + " • " + info
	}
	right := StatusStyle.Render(info)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left + "\n" + right
	}
	return left + StatusStyle.Render(strings.Repeat(" ", max(gap-2, 0))) + right
}
