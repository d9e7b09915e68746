package pomodoro

import "time"

// State represents the current Pomodoro phase.
type State string

const (
	StateOff     State = "off"
	StateWork    State = "work"
	StateBreak   State = "break"
	StateRainbow State = "rainbow"
)

// PreviewKind identifies which setting an open preview window belongs to.
type PreviewKind string

const (
	PreviewNone  PreviewKind = ""
	PreviewWork  PreviewKind = "work"
	PreviewBreak PreviewKind = "break"
)

// EventType defines the type of Pomodoro event.
type EventType string

const (
	EventStateChange   EventType = "state_change"
	EventSettingChange EventType = "setting_change"
	EventPreview       EventType = "preview"
	EventCompleted     EventType = "period_completed"
)

// Event represents a Pomodoro update for observers.
type Event struct {
	Type         EventType
	State        State
	Previous     State
	Remaining    time.Duration
	Progress     float64
	WorkMinutes  uint8
	BreakMinutes uint8
	Preview      PreviewKind
	At           time.Duration
}
