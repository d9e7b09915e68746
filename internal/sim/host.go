package sim

import (
	"sync"

	"mid1lights/internal/core/model"
)

// Indicators holds host keyboard indicator state.
type Indicators struct {
	mu   sync.Mutex
	caps bool
}

func (indicators *Indicators) CapsLock() bool {
	indicators.mu.Lock()
	defer indicators.mu.Unlock()
	return indicators.caps
}

func (indicators *Indicators) SetCapsLock(on bool) {
	indicators.mu.Lock()
	indicators.caps = on
	indicators.mu.Unlock()
}

// Host bundles a complete simulated keyboard.
type Host struct {
	Strip      *Strip
	Lighting   *Lighting
	NVM        *NVM
	Indicators *Indicators
}

// NewHost builds a host with count LEDs on top of nvm.
func NewHost(count int, nvm *NVM) *Host {
	strip := NewStrip(count)
	return &Host{
		Strip:      strip,
		Lighting:   NewLighting(strip),
		NVM:        nvm,
		Indicators: &Indicators{},
	}
}

// SetBrightness changes the global value used by every component.
func (host *Host) SetBrightness(value uint8) {
	host.Lighting.SetValue(value)
}

// Frame copies the visible LED colors.
func (host *Host) Frame() []model.HSV {
	return host.Strip.Snapshot()
}
