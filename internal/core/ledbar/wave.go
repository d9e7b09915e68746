package ledbar

import (
	"time"

	"mid1lights/internal/core/model"
)

// Triangle returns the position of elapsed within a triangle wave of the
// given period, scaled 0..100 with the peak at half period.
func Triangle(elapsed, period time.Duration) int {
	periodMs := period.Milliseconds()
	if periodMs < 2 {
		periodMs = 2
	}
	phase := elapsed.Milliseconds() % periodMs
	if phase < 0 {
		phase += periodMs
	}
	half := periodMs / 2
	if phase <= half {
		return int(phase * 100 / half)
	}
	return int((periodMs - phase) * 100 / half)
}

// Breathe maps a triangle position onto the low..high percent band of base.
func Breathe(base uint8, lowPercent, highPercent, triangle int) uint8 {
	low := int(model.ScalePercent(base, lowPercent))
	high := int(model.ScalePercent(base, highPercent))
	return model.ClampByte(low + (high-low)*triangle/100)
}

// Blink reports whether an on/off blink of cycles flashes spread over total
// is in its bright phase at elapsed. done is true once total has passed.
func Blink(elapsed, total time.Duration, cycles int) (bright bool, done bool) {
	if elapsed >= total || cycles <= 0 {
		return true, true
	}
	phases := int64(cycles * 2)
	slot := total.Milliseconds() / phases
	if slot <= 0 {
		slot = 1
	}
	phase := elapsed.Milliseconds() / slot
	return phase%2 == 0, false
}

// WheelHue converts a 0..255 color wheel position to a 0..359 hue.
func WheelHue(position int) uint16 {
	position %= 256
	if position < 0 {
		position += 256
	}
	return uint16(position * 360 / 256)
}
