package sim

import (
	"time"

	"mid1lights/internal/core/ledbar"
	"mid1lights/internal/core/model"
)

// Effect returns the color of LED index out of count for mode at uptime now.
func Effect(mode model.Mode, base model.HSV, now time.Duration, index, count int) model.HSV {
	ms := int(now.Milliseconds())
	if count <= 0 {
		count = 1
	}

	switch mode {
	case model.ModeBreathing:
		return base.WithValue(ledbar.Breathe(base.V, 15, 100, ledbar.Triangle(now, 2500*time.Millisecond)))
	case model.ModeRainbowMood:
		return model.HSV{H: model.WrapHue(int(base.H) + ms/40), S: base.S, V: base.V}
	case model.ModeRainbowSwirl:
		return model.HSV{H: model.WrapHue(int(base.H) + ms/12 + index*360/count), S: base.S, V: base.V}
	case model.ModeSnake:
		head := (ms / 120) % count
		for segment := 0; segment < 3; segment++ {
			if (head-segment+count)%count == index {
				return base.WithValue(uint8(int(base.V) * (3 - segment) / 3))
			}
		}
		return model.Black
	case model.ModeKnight:
		span := 2 * (count - 1)
		if span <= 0 {
			return base
		}
		position := (ms / 90) % span
		if position >= count {
			position = span - position
		}
		if index == position {
			return base
		}
		return model.Black
	case model.ModeChristmas:
		phase := (ms / 500) % 2
		if (index+phase)%2 == 0 {
			return model.Red.WithValue(base.V)
		}
		return model.Green.WithValue(base.V)
	case model.ModeGradient:
		return model.HSV{H: model.WrapHue(int(base.H) + index*180/count), S: base.S, V: base.V}
	case model.ModeTwinkle:
		offset := time.Duration(index*337) * time.Millisecond
		return base.WithValue(ledbar.Breathe(base.V, 0, 100, ledbar.Triangle(now+offset, 1700*time.Millisecond)))
	default:
		return base
	}
}
