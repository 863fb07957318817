// Package tui provides a terminal user interface for browsing Live sets
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/james-see/alsd/pkg/liveset"
)

// Session-view inspired color scheme
var (
	liveOrange = lipgloss.Color("#FF764D")
	liveYellow = lipgloss.Color("#FFD84D")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(liveOrange).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(liveOrange).
			Bold(true).
			PaddingLeft(2)

	detailStyle = lipgloss.NewStyle().
			Foreground(liveYellow).
			PaddingLeft(4)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(liveOrange).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateFilePicker State = iota
	StateLoading
	StateTracks
	StateTrack
	StateError
)

// Model represents the TUI model
type Model struct {
	state      State
	filePicker filepicker.Model
	spinner    spinner.Model
	path       string
	set        *liveset.LiveSet
	trackIndex int // 0-based cursor into set.Tracks
	err        error
	width      int
	height     int
}

// loadDoneMsg signals that a set finished loading
type loadDoneMsg struct {
	set *liveset.LiveSet
	err error
}

// New creates a new TUI model. A non-empty path is loaded straight away
// instead of showing the file picker.
func New(path string) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".als"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(liveOrange)

	m := Model{
		state:      StateFilePicker,
		filePicker: fp,
		spinner:    s,
		path:       path,
	}
	if path != "" {
		m.state = StateLoading
	}
	return m
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	if m.state == StateLoading {
		return tea.Batch(m.spinner.Tick, loadSet(m.path))
	}
	return m.filePicker.Init()
}

func loadSet(path string) tea.Cmd {
	return func() tea.Msg {
		set, err := liveset.Load(path)
		return loadDoneMsg{set: set, err: err}
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "q", "ctrl+c", "esc":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.path = path
			m.state = StateLoading
			return m, tea.Batch(m.spinner.Tick, loadSet(path))
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateTracks:
			return m.updateTracks(msg)
		case StateTrack:
			return m.updateTrack(msg)
		case StateError:
			return m.updateError(msg)
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadDoneMsg:
		if msg.err != nil {
			m.state = StateError
			m.err = msg.err
			return m, nil
		}
		m.set = msg.set
		m.trackIndex = 0
		m.state = StateTracks
		return m, nil
	}

	return m, nil
}

func (m Model) updateTracks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.trackIndex > 0 {
			m.trackIndex--
		}
	case "down", "j":
		if m.trackIndex < len(m.set.Tracks)-1 {
			m.trackIndex++
		}
	case "enter", "right", "l":
		if len(m.set.Tracks) > 0 {
			m.state = StateTrack
		}
	case "o":
		m.state = StateFilePicker
		m.set = nil
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateTrack(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "left", "h", "backspace":
		m.state = StateTracks
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateError(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateFilePicker
		m.err = nil
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(lipgloss.NewStyle().Foreground(liveOrange).Bold(true).Render("alsd"))
	s.WriteString("\n\n")

	switch m.state {
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateLoading:
		s.WriteString(m.viewLoading())
	case StateTracks:
		s.WriteString(m.viewTracks())
	case StateTrack:
		s.WriteString(m.viewTrack())
	case StateError:
		s.WriteString(m.viewError())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help()))

	return s.String()
}

func (m Model) help() string {
	switch m.state {
	case StateTracks:
		return "↑/↓: navigate • enter: open track • o: open another set • q: quit"
	case StateTrack:
		return "esc: back to tracks • q: quit"
	case StateError:
		return "enter: pick another file • q: quit"
	default:
		return "enter: select • esc/q: quit"
	}
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT LIVE SET "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())

	return s.String()
}

func (m Model) viewLoading() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" LOADING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Reading %s...", m.spinner.View(), filepath.Base(m.path)))

	return boxStyle.Render(s.String())
}

func (m Model) viewTracks() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf(" %s ", filepath.Base(m.path))))
	s.WriteString("\n")
	if m.set.Tempo != nil {
		s.WriteString(menuStyle.Render(fmt.Sprintf("%.2f BPM", *m.set.Tempo)))
		s.WriteString("\n")
	}
	s.WriteString("\n")

	if len(m.set.Tracks) == 0 {
		s.WriteString(menuStyle.Render("(no tracks)"))
	}
	for i := range m.set.Tracks {
		line := trackLine(i+1, &m.set.Tracks[i])
		if i == m.trackIndex {
			s.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			s.WriteString(menuStyle.Render("  " + line))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewTrack() string {
	var s strings.Builder
	t := &m.set.Tracks[m.trackIndex]

	s.WriteString(titleStyle.Render(" " + trackLine(m.trackIndex+1, t) + " "))
	s.WriteString("\n\n")

	s.WriteString(selectedStyle.Render("Devices"))
	s.WriteString("\n")
	if len(t.Devices) == 0 {
		s.WriteString(detailStyle.Render("(none)"))
		s.WriteString("\n")
	}
	for _, d := range t.Devices {
		s.WriteString(detailStyle.Render(d.Name))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(selectedStyle.Render(fmt.Sprintf("Clips (%d slots)", t.ClipSlotCount)))
	s.WriteString("\n")
	if len(t.Clips) == 0 {
		s.WriteString(detailStyle.Render("(none)"))
		s.WriteString("\n")
	}
	for i := range t.Clips {
		s.WriteString(detailStyle.Render(clipLine(&t.Clips[i])))
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" ERROR "))
	s.WriteString("\n\n")
	s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Could not read set: %s", m.err.Error())))

	return boxStyle.Render(s.String())
}

func trackLine(number int, t *liveset.Track) string {
	return fmt.Sprintf("%d: %s (%s)", number, t.DisplayName(), t.Kind)
}

func clipLine(c *liveset.Clip) string {
	line := fmt.Sprintf("%q", c.DisplayName())
	if c.LoopLength != nil {
		line += fmt.Sprintf(" loop %g beats", *c.LoopLength)
	}
	line += fmt.Sprintf(", %d notes", len(c.Notes))
	if c.LoopOn {
		line += " ↻"
	}
	return line
}

// Run starts the TUI application
func Run(path string) error {
	p := tea.NewProgram(New(path), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
