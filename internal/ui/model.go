package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/capview/internal/log"
	"github.com/nconklindev/capview/internal/reshape"
	"github.com/nconklindev/capview/internal/types"
	"github.com/nconklindev/capview/internal/workbook"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateFilePicker state = iota
	stateLoading
	stateViewer
	stateError
)

// Options configures the viewer.
type Options struct {
	// Path is loaded immediately when set.
	Path     string
	StartDir string
	Decimals int
	Reshape  []reshape.Option
	Logger   *log.Logger
}

type Model struct {
	state        state
	filepicker   filepicker.Model
	spinner      spinner.Model
	help         help.Model
	selectedFile string
	viewer       *viewer
	status       string
	err          error
	width        int
	height       int
	opts         Options
	logger       *log.Logger
}

type fileLoadedMsg struct {
	path   string
	result types.Result
}

type exportDoneMsg struct {
	path string
	err  error
}

func InitialModel(opts Options) Model {
	fp := filepicker.New()
	fp.AllowedTypes = workbook.AllowedTypes
	fp.CurrentDirectory = opts.StartDir
	if fp.CurrentDirectory == "" {
		fp.CurrentDirectory, _ = os.Getwd()
	}

	// Set filepicker colors to match theme
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(accent)
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(highlight)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(highlight)
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(muted)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(accent).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(muted)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accent)

	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}

	m := Model{
		state:      stateFilePicker,
		filepicker: fp,
		spinner:    sp,
		help:       help.New(),
		opts:       opts,
		logger:     logger.WithComponent("ui"),
	}
	if opts.Path != "" {
		m.state = stateLoading
		m.selectedFile = opts.Path
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.state == stateLoading {
		return tea.Batch(m.filepicker.Init(), m.spinner.Tick, m.loadFile(m.selectedFile))
	}
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Leave room for title, subtitle and help text
		m.filepicker.SetHeight(max(msg.Height-14, 5))
		m.help.Width = msg.Width
		if m.viewer != nil {
			m.viewer.setHeight(m.gridHeight())
		}
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilePicker:
			switch {
			case msg.String() == "ctrl+c", msg.String() == "q":
				return m, tea.Quit
			case key.Matches(msg, keys.Back) && m.viewer != nil:
				m.state = stateViewer
				return m, nil
			}

		case stateLoading:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil

		case stateViewer:
			return m.updateViewer(msg)

		case stateError:
			switch {
			case key.Matches(msg, keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, keys.Back), key.Matches(msg, keys.Open), msg.String() == "enter":
				m.err = nil
				m.state = stateFilePicker
				return m, m.filepicker.Init()
			}
			return m, nil
		}

	case fileLoadedMsg:
		if len(msg.result) == 0 {
			m.logger.Warn("no tables derived", "path", msg.path)
			m.err = workbook.ErrEmptyResult
			m.state = stateError
			return m, nil
		}
		v := newViewer(msg.path, msg.result, m.opts.Decimals, m.gridHeight())
		if len(v.tabs) == 0 {
			m.logger.Warn("all tables are empty", "path", msg.path)
			m.err = workbook.ErrEmptyResult
			m.state = stateError
			return m, nil
		}
		m.viewer = v
		m.status = ""
		m.state = stateViewer
		m.logger.Info("workbook loaded", "path", msg.path, "tabs", len(m.viewer.tabs))
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.logger.Error("export failed", "path", msg.path, "error", msg.err)
			m.status = fmt.Sprintf("Export failed: %v", msg.err)
		} else {
			m.status = "Exported to " + filepath.Base(msg.path)
		}
		return m, nil

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Handle filepicker updates
	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = stateLoading
			return m, tea.Batch(m.spinner.Tick, m.loadFile(path))
		}

		return m, cmd
	}

	return m, nil
}

func (m Model) updateViewer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.NextTab):
		m.viewer.next()
		return m, nil
	case key.Matches(msg, keys.PrevTab):
		m.viewer.prev()
		return m, nil
	case key.Matches(msg, keys.Open):
		m.state = stateFilePicker
		return m, m.filepicker.Init()
	case key.Matches(msg, keys.Export):
		m.status = "Exporting..."
		return m, m.exportFile()
	}

	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		if m.viewer.selectTab(int(s[0] - '0')) {
			return m, nil
		}
	}

	m.viewer.current().grid.update(msg)
	return m, nil
}

func (m Model) loadFile(path string) tea.Cmd {
	opts := append([]reshape.Option{reshape.WithLogger(m.logger)}, m.opts.Reshape...)
	return func() tea.Msg {
		return fileLoadedMsg{path: path, result: reshape.ProcessFile(path, opts...)}
	}
}

func (m Model) exportFile() tea.Cmd {
	result := m.viewer.result
	out := workbook.OutputPath(m.viewer.file)
	return func() tea.Msg {
		return exportDoneMsg{path: out, err: workbook.Export(result, out)}
	}
}

// gridHeight is the table height left after title, tabs, status and help.
func (m Model) gridHeight() int {
	return m.height - 10
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case stateLoading:
		return m.viewLoading()
	case stateViewer:
		return m.viewViewer()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📊 Capview - Capital Activity Viewer"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select an Excel workbook to analyze"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	if m.viewer != nil {
		s.WriteString(HelpStyle.Render("esc: back to tables • q: quit"))
	} else {
		s.WriteString(HelpStyle.Render("Press q to quit"))
	}

	return s.String()
}

func (m Model) viewLoading() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📊 Processing..."))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Reading %s", m.spinner.View(), filepath.Base(m.selectedFile)))

	return BoxStyle.Render(s.String())
}

func (m Model) viewViewer() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📊 " + filepath.Base(m.viewer.file)))
	s.WriteString("\n\n")
	s.WriteString(m.viewer.renderTabBar())
	s.WriteString("\n\n")
	s.WriteString(m.viewer.current().grid.View())
	s.WriteString("\n\n")
	s.WriteString(m.viewer.renderStatus(m.width, m.status))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render(m.help.View(keys)))

	return s.String()
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("enter: choose another file • q: quit"))

	return BoxStyle.Render(s.String())
}
