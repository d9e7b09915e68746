package model

import "fmt"

// Mode identifies a global lighting animation. Values follow the rgblight
// numbering so persisted bytes stay compatible with the firmware.
type Mode uint8

const (
	ModeStatic       Mode = 1
	ModeBreathing    Mode = 2
	ModeRainbowMood  Mode = 6
	ModeRainbowSwirl Mode = 9
	ModeSnake        Mode = 15
	ModeKnight       Mode = 21
	ModeChristmas    Mode = 24
	ModeGradient     Mode = 25
	ModeTwinkle      Mode = 37
)

var modeCycle = []Mode{
	ModeStatic,
	ModeBreathing,
	ModeRainbowMood,
	ModeRainbowSwirl,
	ModeSnake,
	ModeKnight,
	ModeChristmas,
	ModeGradient,
	ModeTwinkle,
}

var modeNames = map[Mode]string{
	ModeStatic:       "static",
	ModeBreathing:    "breathing",
	ModeRainbowMood:  "rainbow_mood",
	ModeRainbowSwirl: "rainbow_swirl",
	ModeSnake:        "snake",
	ModeKnight:       "knight",
	ModeChristmas:    "christmas",
	ModeGradient:     "gradient",
	ModeTwinkle:      "twinkle",
}

// Modes returns the selectable modes in stepping order.
func Modes() []Mode {
	return append([]Mode(nil), modeCycle...)
}

// Valid reports whether the mode is one of the selectable modes.
func (mode Mode) Valid() bool {
	return mode.index() >= 0
}

// Next steps forward through the mode list, wrapping at the end.
// Unknown modes step to the first mode.
func (mode Mode) Next() Mode {
	index := mode.index()
	if index < 0 {
		return modeCycle[0]
	}
	return modeCycle[(index+1)%len(modeCycle)]
}

// Prev steps backward through the mode list, wrapping at the start.
func (mode Mode) Prev() Mode {
	index := mode.index()
	if index < 0 {
		return modeCycle[len(modeCycle)-1]
	}
	return modeCycle[(index+len(modeCycle)-1)%len(modeCycle)]
}

func (mode Mode) String() string {
	if name, ok := modeNames[mode]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", uint8(mode))
}

func (mode Mode) index() int {
	for i, candidate := range modeCycle {
		if candidate == mode {
			return i
		}
	}
	return -1
}
