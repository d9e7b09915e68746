// Package host declares the capabilities the lighting runtime needs from the
// keyboard it runs on.
package host

import (
	"time"

	"mid1lights/internal/core/model"
)

// Strip addresses individual LEDs.
type Strip interface {
	SetHSVAt(index int, color model.HSV)
	Len() int
}

// Lighting is the global animation engine that owns the strip when no
// component paints it directly.
type Lighting interface {
	Enable()
	Mode() model.Mode
	SetMode(mode model.Mode)
	Color() model.HSV
	SetColor(color model.HSV)
	Value() uint8
}

// NVM is byte-addressable non-volatile memory. UpdateByte only writes when
// the stored byte differs.
type NVM interface {
	Byte(offset int) uint8
	UpdateByte(offset int, value uint8)
}

// Clock reports monotonic uptime.
type Clock interface {
	Now() time.Duration
}

// Indicators exposes host keyboard indicator state.
type Indicators interface {
	CapsLock() bool
}

// Since returns the time elapsed on clock since start. Clocks are monotonic
// so the result only goes negative when start lies in the future.
func Since(clock Clock, start time.Duration) time.Duration {
	return clock.Now() - start
}
