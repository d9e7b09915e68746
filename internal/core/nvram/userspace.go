package nvram

import "mid1lights/internal/core/host"

// Erased is the value of a never-written byte.
const Erased = 0xFF

const (
	bootFlagOffset     = 0
	workMinutesOffset  = 1
	breakMinutesOffset = 2

	// UserspaceSize is the number of bytes the userspace block occupies.
	UserspaceSize = 3
)

// Userspace holds the small user settings block: the boot animation flag
// and the persisted pomodoro durations.
type Userspace struct {
	nvm  host.NVM
	base int
}

func NewUserspace(nvm host.NVM, base int) Userspace {
	return Userspace{nvm: nvm, base: base}
}

// BootFlag returns the boot animation flag. initialised is false when the
// byte was never written.
func (space Userspace) BootFlag() (enabled bool, initialised bool) {
	raw := space.nvm.Byte(space.base + bootFlagOffset)
	if raw == Erased {
		return false, false
	}
	return raw != 0, true
}

func (space Userspace) SetBootFlag(enabled bool) {
	var raw uint8
	if enabled {
		raw = 1
	}
	space.nvm.UpdateByte(space.base+bootFlagOffset, raw)
}

// WorkMinutes returns the stored work duration, or fallback when the byte
// is erased or out of range.
func (space Userspace) WorkMinutes(fallback uint8) uint8 {
	return validMinutes(space.nvm.Byte(space.base+workMinutesOffset), fallback)
}

// BreakMinutes returns the stored break duration, or fallback.
func (space Userspace) BreakMinutes(fallback uint8) uint8 {
	return validMinutes(space.nvm.Byte(space.base+breakMinutesOffset), fallback)
}

func (space Userspace) SetWorkMinutes(minutes uint8) {
	space.nvm.UpdateByte(space.base+workMinutesOffset, minutes)
}

func (space Userspace) SetBreakMinutes(minutes uint8) {
	space.nvm.UpdateByte(space.base+breakMinutesOffset, minutes)
}

// MaxMinutes is the longest storable duration.
const MaxMinutes = 75

func validMinutes(raw, fallback uint8) uint8 {
	if raw == 0 || raw > MaxMinutes {
		return fallback
	}
	return raw
}
