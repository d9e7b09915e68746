// Package tui is a terminal front end: the LED bar drawn with lipgloss and
// keyboard bindings from the keymap.
package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mid1lights/internal/core/model"
	"mid1lights/internal/events"
	"mid1lights/internal/storage"
	"mid1lights/internal/ui/input"
	"mid1lights/internal/ui/status"
)

// FrameMsg carries a new LED frame into the update loop.
type FrameMsg struct {
	LEDs []model.HSV
}

// StatusMsg carries a runtime snapshot into the update loop.
type StatusMsg events.StatusEvent

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6A00"))
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
	timerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#E8BE42"))
	barStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6B7280")).
			Padding(0, 1)
)

// Model is the bubbletea model.
type Model struct {
	bus        *events.Bus
	keymap     storage.Keymap
	leds       []model.HSV
	snapshot   events.StatusEvent
	lastAction string
	width      int
	showHelp   bool
}

// New creates a model with count dark LEDs.
func New(bus *events.Bus, keymap storage.Keymap, count int) Model {
	return Model{
		bus:      bus,
		keymap:   keymap,
		leds:     make([]model.HSV, count),
		snapshot: events.StatusEvent{State: "off", Layers: model.Layers(0)},
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case FrameMsg:
		m.leds = append(m.leds[:0:0], msg.LEDs...)
	case StatusMsg:
		m.snapshot = events.StatusEvent(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	}

	action, ok := m.keymap.Keys[key]
	if !ok {
		return m, nil
	}
	input.Publish(m.bus, action, input.State{Layers: m.snapshot.Layers, CapsLock: m.snapshot.CapsLock})
	m.lastAction = action.String()

	// The driver answers with a status event; flip locally so a second
	// press before then still toggles.
	switch action.Kind {
	case storage.ActionLayer:
		if m.snapshot.Layers.Has(action.Layer) {
			m.snapshot.Layers = m.snapshot.Layers.Without(action.Layer)
		} else {
			m.snapshot.Layers = m.snapshot.Layers.With(action.Layer)
		}
	case storage.ActionCapsLock:
		m.snapshot.CapsLock = !m.snapshot.CapsLock
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("MID.1 Lights"))
	b.WriteString("\n")
	b.WriteString(barStyle.Render(RenderBar(m.leds)))
	b.WriteString("\n")
	b.WriteString(timerStyle.Render(status.Timer(m.snapshot)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(status.Detail(m.snapshot)))
	b.WriteString("\n")
	if m.lastAction != "" {
		b.WriteString(dimStyle.Render("last: " + m.lastAction))
		b.WriteString("\n")
	}
	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.help())
	} else {
		b.WriteString(dimStyle.Render("? bindings · q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

// RenderBar draws one colored dot per LED.
func RenderBar(leds []model.HSV) string {
	dots := make([]string, len(leds))
	for i, led := range leds {
		dot := "●"
		if led.V == 0 {
			dot = "○"
		}
		dots[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(led.Hex())).Render(dot)
	}
	return strings.Join(dots, " ")
}

func (m Model) help() string {
	keys := make([]string, 0, len(m.keymap.Keys))
	for key := range m.keymap.Keys {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("%-3s %s", key, m.keymap.Keys[key]))
	}
	return dimStyle.Render(strings.Join(lines, "\n"))
}
