package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/recera/visgraph/pkg/graph"
)

// KeyMap defines the watch view's keyboard shortcuts
type KeyMap struct {
	Quit  key.Binding
	Clear key.Binding
	Up    key.Binding
	Down  key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
	Clear: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "scroll up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "scroll down"),
	),
}

// ReloadMsg carries a freshly loaded graph, or the error loading it.
type ReloadMsg struct {
	Data graph.Data
	Err  error
	At   time.Time
}

// WatchModel shows every reconciliation pass a file change would cause.
type WatchModel struct {
	path    string
	current graph.Data
	entries []string
	passes  int

	spinner  spinner.Model
	viewport viewport.Model
	ready    bool
	quitting bool
}

// NewWatchModel starts from the initial graph at path.
func NewWatchModel(path string, initial graph.Data) WatchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = titleStyle
	return WatchModel{path: path, current: initial, spinner: s}
}

// Init initializes the model
func (m WatchModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h := msg.Height - 6
		if h < 3 {
			h = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, h)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = h
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, DefaultKeyMap.Clear):
			m.entries = nil
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case ReloadMsg:
		m.apply(msg)
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *WatchModel) apply(msg ReloadMsg) {
	stamp := mutedStyle.Render(msg.At.Format("15:04:05"))
	if msg.Err != nil {
		m.entries = append(m.entries, fmt.Sprintf("%s %s", stamp, errorStyle.Render(msg.Err.Error())))
		return
	}
	d := Diff(m.current, msg.Data)
	m.current = msg.Data
	m.passes++
	if d.Empty() {
		m.entries = append(m.entries, fmt.Sprintf("%s %s", stamp, mutedStyle.Render("no changes")))
		return
	}
	m.entries = append(m.entries, fmt.Sprintf("%s pass %d\n%s", stamp, m.passes, d.Render()))
}

func (m *WatchModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.entries, "\n\n"))
	m.viewport.GotoBottom()
}

// Passes returns how many reloads produced a reconciliation pass.
func (m WatchModel) Passes() int { return m.passes }

// Entries returns the rendered log.
func (m WatchModel) Entries() []string { return m.entries }

// View renders the model
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}
	header := fmt.Sprintf("%s watching %s  %s",
		m.spinner.View(),
		titleStyle.Render(m.path),
		mutedStyle.Render(fmt.Sprintf("%d nodes, %d edges", len(m.current.Nodes), len(m.current.Edges))))
	body := strings.Join(m.entries, "\n\n")
	if m.ready {
		body = m.viewport.View()
	}
	help := helpStyle.Render(fmt.Sprintf("%s %s • %s %s • %s %s",
		DefaultKeyMap.Up.Help().Key, DefaultKeyMap.Up.Help().Desc,
		DefaultKeyMap.Clear.Help().Key, DefaultKeyMap.Clear.Help().Desc,
		DefaultKeyMap.Quit.Help().Key, DefaultKeyMap.Quit.Help().Desc))
	return header + "\n" + boxStyle.Render(body) + "\n" + help
}
