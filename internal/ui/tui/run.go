package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"mid1lights/internal/events"
	"mid1lights/internal/storage"
)

// Run shows the terminal UI until the user quits or ctx is cancelled.
func Run(ctx context.Context, bus *events.Bus, keymap storage.Keymap, count int) error {
	program := tea.NewProgram(New(bus, keymap, count), tea.WithAltScreen(), tea.WithContext(ctx))

	unsubFrames := bus.Subscribe(func(event events.FrameEvent) {
		program.Send(FrameMsg{LEDs: event.LEDs})
	})
	defer unsubFrames()
	unsubStatus := bus.Subscribe(func(event events.StatusEvent) {
		program.Send(StatusMsg(event))
	})
	defer unsubStatus()

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
