package sim

import (
	"sync"
	"time"

	"mid1lights/internal/core/model"
)

// Lighting stands in for the keyboard's global animation engine. It renders
// the selected mode onto the strip on every Task call unless something else
// painted the strip during the frame.
type Lighting struct {
	mu      sync.Mutex
	strip   *Strip
	enabled bool
	mode    model.Mode
	color   model.HSV
}

func NewLighting(strip *Strip) *Lighting {
	return &Lighting{
		strip: strip,
		mode:  model.ModeStatic,
		color: model.Orange,
	}
}

func (lighting *Lighting) Enable() {
	lighting.mu.Lock()
	lighting.enabled = true
	lighting.mu.Unlock()
}

func (lighting *Lighting) Enabled() bool {
	lighting.mu.Lock()
	defer lighting.mu.Unlock()
	return lighting.enabled
}

func (lighting *Lighting) Mode() model.Mode {
	lighting.mu.Lock()
	defer lighting.mu.Unlock()
	return lighting.mode
}

func (lighting *Lighting) SetMode(mode model.Mode) {
	lighting.mu.Lock()
	lighting.mode = mode
	lighting.mu.Unlock()
}

func (lighting *Lighting) Color() model.HSV {
	lighting.mu.Lock()
	defer lighting.mu.Unlock()
	return lighting.color
}

func (lighting *Lighting) SetColor(color model.HSV) {
	lighting.mu.Lock()
	lighting.color = color
	lighting.mu.Unlock()
}

func (lighting *Lighting) Value() uint8 {
	lighting.mu.Lock()
	defer lighting.mu.Unlock()
	return lighting.color.V
}

// SetValue changes the global brightness.
func (lighting *Lighting) SetValue(value uint8) {
	lighting.mu.Lock()
	lighting.color.V = value
	lighting.mu.Unlock()
}

// Task renders the current mode for uptime now. Static mode and frames that
// were already painted are left alone.
func (lighting *Lighting) Task(now time.Duration) {
	lighting.mu.Lock()
	enabled, mode, color := lighting.enabled, lighting.mode, lighting.color
	lighting.mu.Unlock()

	if !enabled || mode == model.ModeStatic || lighting.strip.Touched() {
		return
	}
	count := lighting.strip.Len()
	lighting.strip.fill(func(index int) model.HSV {
		return Effect(mode, color, now, index, count)
	})
}
