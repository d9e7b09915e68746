package events

import (
	"time"

	"mid1lights/internal/core/model"
)

// Event type constants for kelindar/event.
const (
	TypeKey uint32 = iota + 1
	TypeEncoder
	TypeLayer
	TypeCapsLock
	TypeFrame
	TypeStatus
	TypePomodoro
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// KeyEvent is a key press or release from a front end.
type KeyEvent struct {
	Keycode model.Keycode
	Pressed bool
}

// Type returns the event type identifier for KeyEvent.
func (e KeyEvent) Type() uint32 { return TypeKey }

// EncoderEvent is one encoder detent from a front end.
type EncoderEvent struct {
	Index     int
	Clockwise bool
}

// Type returns the event type identifier for EncoderEvent.
func (e EncoderEvent) Type() uint32 { return TypeEncoder }

// LayerEvent switches one layer on or off.
type LayerEvent struct {
	Layer  int
	Active bool
}

// Type returns the event type identifier for LayerEvent.
func (e LayerEvent) Type() uint32 { return TypeLayer }

// CapsLockEvent reports the host Caps Lock indicator.
type CapsLockEvent struct {
	On bool
}

// Type returns the event type identifier for CapsLockEvent.
func (e CapsLockEvent) Type() uint32 { return TypeCapsLock }

// FrameEvent carries the LED colors after a tick that changed them.
type FrameEvent struct {
	LEDs []model.HSV
	At   time.Duration
}

// Type returns the event type identifier for FrameEvent.
func (e FrameEvent) Type() uint32 { return TypeFrame }

// StatusEvent summarises the runtime for front ends.
type StatusEvent struct {
	State         string
	Remaining     time.Duration
	Paused        bool
	WorkMinutes   uint8
	BreakMinutes  uint8
	Preview       string
	Layers        model.LayerState
	CapsLock      bool
	PickerActive  bool
	PickerSlot    int
	LightingMode  model.Mode
	BootAnimation bool
}

// Type returns the event type identifier for StatusEvent.
func (e StatusEvent) Type() uint32 { return TypeStatus }

// PomodoroEvent forwards a Pomodoro observer notification.
type PomodoroEvent struct {
	Kind      string
	State     string
	Previous  string
	Remaining time.Duration
	Progress  float64
}

// Type returns the event type identifier for PomodoroEvent.
func (e PomodoroEvent) Type() uint32 { return TypePomodoro }
