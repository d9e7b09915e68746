package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mid1lights/internal/core/model"
	"mid1lights/internal/events"
	"mid1lights/internal/storage"
)

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestQuitKeys(t *testing.T) {
	m := New(events.New(), storage.DefaultKeymap(), 8)
	if _, cmd := update(m, runeKey('q')); cmd == nil {
		t.Fatal("q should quit")
	}
	if _, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlC}); cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
}

func TestBoundKeyPublishes(t *testing.T) {
	bus := events.New()
	received := make(chan events.KeyEvent, 2)
	unsub := bus.Subscribe(func(e events.KeyEvent) { received <- e })
	defer unsub()

	m := New(bus, storage.DefaultKeymap(), 8)
	m, _ = update(m, runeKey('t'))

	select {
	case got := <-received:
		if got.Keycode != model.PomoToggle || !got.Pressed {
			t.Fatalf("got %+v, want POMO_TOGGLE press", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no key event published")
	}
	if m.lastAction != "POMO_TOGGLE" {
		t.Errorf("last action = %q", m.lastAction)
	}
}

func TestLayerKeyTogglesLocally(t *testing.T) {
	bus := events.New()
	received := make(chan events.LayerEvent, 2)
	unsub := bus.Subscribe(func(e events.LayerEvent) { received <- e })
	defer unsub()

	m := New(bus, storage.DefaultKeymap(), 8)
	m, _ = update(m, runeKey('8'))
	m, _ = update(m, runeKey('8'))

	first, second := <-received, <-received
	if !first.Active || second.Active {
		t.Fatalf("expected on then off, got %+v then %+v", first, second)
	}
	if m.snapshot.Layers.Has(8) {
		t.Fatal("layer 8 should be off locally")
	}
}

func TestFrameAndStatusMessages(t *testing.T) {
	m := New(events.New(), storage.DefaultKeymap(), 2)
	m, _ = update(m, FrameMsg{LEDs: []model.HSV{model.Orange, model.Black}})
	m, _ = update(m, StatusMsg{State: "work", Remaining: 90 * time.Second, Layers: model.Layers(0)})

	view := m.View()
	if !strings.Contains(view, "work 01:30") {
		t.Errorf("view missing timer:\n%s", view)
	}
	if !strings.Contains(view, "●") || !strings.Contains(view, "○") {
		t.Errorf("view missing LEDs:\n%s", view)
	}
}

func TestUnboundKeyIgnored(t *testing.T) {
	m := New(events.New(), storage.DefaultKeymap(), 8)
	m, cmd := update(m, runeKey('z'))
	if cmd != nil || m.lastAction != "" {
		t.Fatal("unbound key should do nothing")
	}
}

func TestHelpToggle(t *testing.T) {
	m := New(events.New(), storage.DefaultKeymap(), 8)
	m, _ = update(m, runeKey('?'))
	if !strings.Contains(m.View(), "POMO_TOGGLE") {
		t.Fatal("help should list bindings")
	}
}
