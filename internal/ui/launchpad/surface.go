// Package launchpad mirrors the LED bar on a Novation Launchpad X and turns
// pad presses into keyboard input.
package launchpad

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"mid1lights/internal/core/model"
	"mid1lights/internal/events"
	"mid1lights/internal/logging"
	"mid1lights/internal/storage"
	"mid1lights/internal/ui/input"
)

// ErrPortNotFound is returned when no MIDI port matches the configured name.
var ErrPortNotFound = errors.New("midi port not found")

// The bar is drawn on the top row buttons, left to right.
const (
	firstBarNote = 91
	barNotes     = 8
)

// Pads bound in the keymap glow with this palette entry.
const boundPadColor = 1

var (
	programmerMode = []byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F}
	fullBrightness = []byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x08, 0x7F}
)

// Surface is one connected Launchpad.
type Surface struct {
	mu       sync.Mutex
	send     func(msg gomidi.Message) error
	stop     func()
	bus      *events.Bus
	keymap   storage.Keymap
	logger   logging.Logger
	colors   [barNotes]uint8
	painted  bool
	snapshot events.StatusEvent

	unsubscribe []func()
}

// FindPorts returns the first input and output whose names contain the
// given fragments, case-insensitively.
func FindPorts(inName, outName string) (drivers.In, drivers.Out, error) {
	var inPort drivers.In
	for _, port := range gomidi.GetInPorts() {
		if strings.Contains(strings.ToLower(port.String()), strings.ToLower(inName)) {
			inPort = port
			break
		}
	}
	if inPort == nil {
		return nil, nil, fmt.Errorf("input %q: %w", inName, ErrPortNotFound)
	}

	var outPort drivers.Out
	for _, port := range gomidi.GetOutPorts() {
		if strings.Contains(strings.ToLower(port.String()), strings.ToLower(outName)) {
			outPort = port
			break
		}
	}
	if outPort == nil {
		return nil, nil, fmt.Errorf("output %q: %w", outName, ErrPortNotFound)
	}
	return inPort, outPort, nil
}

// Open switches the device to programmer mode, starts listening for pads and
// subscribes to frames from the bus.
func Open(inPort drivers.In, outPort drivers.Out, bus *events.Bus, keymap storage.Keymap, logger logging.Logger) (*Surface, error) {
	send, err := gomidi.SendTo(outPort)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}

	surface := newSurface(send, bus, keymap, logger)
	if err := surface.setup(); err != nil {
		return nil, err
	}

	stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
		surface.handleMessage(msg)
	})
	if err != nil {
		surface.Close()
		return nil, fmt.Errorf("open input: %w", err)
	}
	surface.stop = stop

	surface.logger.Info("launchpad connected", "in", inPort.String(), "out", outPort.String())
	return surface, nil
}

func newSurface(send func(msg gomidi.Message) error, bus *events.Bus, keymap storage.Keymap, logger logging.Logger) *Surface {
	if logger == nil {
		logger = logging.GetLogger("launchpad")
	}
	surface := &Surface{
		send:     send,
		bus:      bus,
		keymap:   keymap,
		logger:   logger,
		snapshot: events.StatusEvent{Layers: model.Layers(0)},
	}
	surface.unsubscribe = append(surface.unsubscribe,
		bus.Subscribe(func(event events.FrameEvent) {
			surface.renderFrame(event.LEDs)
		}),
		bus.Subscribe(func(event events.StatusEvent) {
			surface.mu.Lock()
			surface.snapshot = event
			surface.mu.Unlock()
		}),
	)
	return surface
}

func (surface *Surface) setup() error {
	if err := surface.send(gomidi.SysEx(programmerMode)); err != nil {
		return fmt.Errorf("enter programmer mode: %w", err)
	}
	if err := surface.send(gomidi.SysEx(fullBrightness)); err != nil {
		return fmt.Errorf("set brightness: %w", err)
	}
	for note := range surface.keymap.Launchpad {
		if err := surface.send(gomidi.NoteOn(0, note, boundPadColor)); err != nil {
			return fmt.Errorf("light pad %d: %w", note, err)
		}
	}
	return nil
}

// Close clears the pads and detaches from the device and the bus.
func (surface *Surface) Close() {
	for _, unsub := range surface.unsubscribe {
		unsub()
	}
	surface.unsubscribe = nil
	if surface.stop != nil {
		surface.stop()
		surface.stop = nil
	}

	surface.mu.Lock()
	defer surface.mu.Unlock()
	for i := range barNotes {
		_ = surface.send(gomidi.NoteOn(0, uint8(firstBarNote+i), 0))
	}
	for note := range surface.keymap.Launchpad {
		_ = surface.send(gomidi.NoteOn(0, note, 0))
	}
}

func (surface *Surface) handleMessage(msg gomidi.Message) {
	var channel, key, velocity uint8
	switch {
	case msg.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
	case msg.GetControlChange(&channel, &key, &velocity) && velocity > 0:
	default:
		return
	}

	action, ok := surface.keymap.Launchpad[key]
	if !ok {
		return
	}

	surface.mu.Lock()
	state := input.State{Layers: surface.snapshot.Layers, CapsLock: surface.snapshot.CapsLock}
	switch action.Kind {
	case storage.ActionLayer:
		if state.Layers.Has(action.Layer) {
			surface.snapshot.Layers = state.Layers.Without(action.Layer)
		} else {
			surface.snapshot.Layers = state.Layers.With(action.Layer)
		}
	case storage.ActionCapsLock:
		surface.snapshot.CapsLock = !state.CapsLock
	}
	surface.mu.Unlock()

	input.Publish(surface.bus, action, state)
	surface.logger.Debug("pad", "note", key, "action", action.String())
}

func (surface *Surface) renderFrame(leds []model.HSV) {
	surface.mu.Lock()
	defer surface.mu.Unlock()

	for i := range barNotes {
		color := uint8(0)
		if i < len(leds) {
			color = NearestColor(leds[i])
		}
		if surface.painted && surface.colors[i] == color {
			continue
		}
		if err := surface.send(gomidi.NoteOn(0, uint8(firstBarNote+i), color)); err != nil {
			surface.logger.Warn("launchpad send failed", "error", err)
			return
		}
		surface.colors[i] = color
	}
	surface.painted = true
}
