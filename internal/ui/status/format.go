// Package status formats runtime snapshots for the front ends.
package status

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"mid1lights/internal/core/model"
	"mid1lights/internal/events"
)

// FormatRemaining renders a duration as MM:SS. Negative values read 00:00.
func FormatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// Timer summarises the Pomodoro state in one line.
func Timer(snapshot events.StatusEvent) string {
	switch snapshot.State {
	case "work", "break":
		line := fmt.Sprintf("%s %s", snapshot.State, FormatRemaining(snapshot.Remaining))
		if snapshot.Paused {
			line += " (paused)"
		}
		return line
	case "rainbow":
		return "work done"
	default:
		if snapshot.Preview != "" {
			minutes := snapshot.WorkMinutes
			if snapshot.Preview == "break" {
				minutes = snapshot.BreakMinutes
			}
			return fmt.Sprintf("set %s: %d min", snapshot.Preview, minutes)
		}
		return fmt.Sprintf("idle (work %d / break %d)", snapshot.WorkMinutes, snapshot.BreakMinutes)
	}
}

// Detail lists layers, caps lock, picker and lighting state.
func Detail(snapshot events.StatusEvent) string {
	parts := []string{
		fmt.Sprintf("layer %d", snapshot.Layers.Highest()),
		fmt.Sprintf("mode %s", snapshot.LightingMode),
	}
	if snapshot.CapsLock {
		parts = append(parts, "caps")
	}
	if snapshot.PickerActive {
		parts = append(parts, fmt.Sprintf("picker slot %d", snapshot.PickerSlot))
	}
	if !snapshot.BootAnimation {
		parts = append(parts, "boot animation off")
	}
	return strings.Join(parts, " · ")
}

// NRGBA converts an LED color for drawing.
func NRGBA(led model.HSV) color.NRGBA {
	r, g, b := led.RGB()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
