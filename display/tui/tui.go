// Package tui implements the live preview: a Bubbletea program that polls
// the collector on the configured cadence and draws both panels as
// half-block bitmaps in the terminal instead of posting them to the
// display server.
package tui

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/matrix-pulse/collect"
	"gitlab.com/tinyland/lab/matrix-pulse/display/preview"
	"gitlab.com/tinyland/lab/matrix-pulse/internal/format"
	"gitlab.com/tinyland/lab/matrix-pulse/render"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// keyMap holds the preview key bindings.
type keyMap struct {
	Pause key.Binding
	Quit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Pause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "pause"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// tickMsg drives the poll cadence.
type tickMsg time.Time

// Model is the root Bubbletea model for the live preview.
type Model struct {
	interval   time.Duration
	collector  *collect.Collector
	history    *collect.History
	left       []render.Directive
	right      []render.Directive
	brightness uint8

	keys   keyMap
	frame  string
	status string
	err    error
	paused bool
	ready  bool
}

// New creates the preview model. The collector and history are owned by
// the model for the program's lifetime; nothing else touches them.
func New(interval time.Duration, collector *collect.Collector, history *collect.History, left, right []render.Directive, brightness uint8) Model {
	return Model{
		interval:   interval,
		collector:  collector,
		history:    history,
		left:       left,
		right:      right,
		brightness: brightness,
		keys:       defaultKeyMap(),
	}
}

// Init implements tea.Model. It starts the poll ticker.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		return m, nil

	case tickMsg:
		if !m.paused {
			m = m.sample()
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			return m, nil
		}
	}
	return m, nil
}

// sample runs one poll-render cycle and refreshes the frame and status
// line. Render errors are shown instead of the frame; the next tick
// re-attempts.
func (m Model) sample() Model {
	snap := m.collector.Collect(context.Background())
	m.history.Push(snap)
	view := m.history.View()

	left, err := renderPanelImage(m.left, view, m.brightness)
	if err != nil {
		m.err = err
		return m
	}
	right, err := renderPanelImage(m.right, view, m.brightness)
	if err != nil {
		m.err = err
		return m
	}
	m.err = nil
	m.frame = preview.Panels(left, right)

	// Status line uses the instantaneous last-two-snapshots rates, not the
	// plotted series.
	netRate := view.NetworkRate()
	diskRate := view.DiskRate()
	m.status = fmt.Sprintf("mem %d%%  temp %d°  bat %d%%  net ↓%s ↑%s  disk r:%s w:%s",
		view.MemUsage(), view.Temp(), view.BatteryLevel(),
		format.Rate(netRate.In), format.Rate(netRate.Out),
		format.Count(diskRate.In), format.Count(diskRate.Out))
	return m
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	title := "matrix-pulse preview"
	if m.paused {
		title += " (paused)"
	}

	body := m.frame
	if m.err != nil {
		body = errorStyle.Render(fmt.Sprintf("render failed: %v", m.err))
	} else if body == "" {
		body = statusStyle.Render("waiting for first sample...")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		body,
		statusStyle.Render(m.status),
		helpStyle.Render("space pause · q quit"),
	)
}

// renderPanelImage runs a directive list against a fresh pass and returns
// the pixel buffer for terminal preview instead of PNG bytes.
func renderPanelImage(directives []render.Directive, view collect.View, brightness uint8) (*image.Gray, error) {
	r := render.New()
	r.SetMaxBrightness(brightness)
	for i, d := range directives {
		if err := render.Apply(r, d, view); err != nil {
			return nil, fmt.Errorf("directive %d (%s): %w", i, d.Kind, err)
		}
	}
	return r.Image(), nil
}

// Run starts the preview program in the alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
