package model

import colorful "github.com/lucasb-eyer/go-colorful"

// HSV is a color in firmware units: hue 0..359, saturation and value 0..255.
type HSV struct {
	H uint16
	S uint8
	V uint8
}

// Black turns an LED off.
var Black = HSV{}

// MID.1 palette.
var (
	Orange = HSV{H: 15, S: 255, V: 255}
	Blue   = HSV{H: 145, S: 255, V: 255}
	Green  = HSV{H: 85, S: 255, V: 255}
	Purple = HSV{H: 190, S: 255, V: 255}
	Red    = HSV{H: 245, S: 255, V: 255}
	Sage   = HSV{H: 94, S: 122, V: 168}
	White  = HSV{H: 0, S: 0, V: 255}
)

// WithValue returns the color with its value replaced.
func (color HSV) WithValue(value uint8) HSV {
	color.V = value
	return color
}

// RGB converts the color to 8-bit RGB channels.
func (color HSV) RGB() (uint8, uint8, uint8) {
	return color.colorful().RGB255()
}

// Hex returns the color as #rrggbb.
func (color HSV) Hex() string {
	return color.colorful().Hex()
}

func (color HSV) colorful() colorful.Color {
	return colorful.Hsv(float64(color.H%360), float64(color.S)/255, float64(color.V)/255).Clamped()
}

// WrapHue folds any integer hue into 0..359.
func WrapHue(hue int) uint16 {
	hue %= 360
	if hue < 0 {
		hue += 360
	}
	return uint16(hue)
}

// ClampByte limits value to 0..255.
func ClampByte(value int) uint8 {
	if value < 0 {
		return 0
	}
	if value > 255 {
		return 255
	}
	return uint8(value)
}

// ScalePercent returns value * percent / 100.
func ScalePercent(value uint8, percent int) uint8 {
	return ClampByte(int(value) * percent / 100)
}
