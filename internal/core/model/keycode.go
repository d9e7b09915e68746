package model

import (
	"fmt"
	"math/bits"
	"strings"
)

// Keycode is an opaque host keycode. Custom codes start at SafeRange.
type Keycode uint16

// SafeRange is the first keycode the host leaves free for user features.
const SafeRange Keycode = 0x7E40

const (
	PomoToggle Keycode = SafeRange + iota
	PomoReset
	PomoModeNext
	PomoWorkDec
	PomoWorkInc
	PomoBreakDec
	PomoBreakInc

	PickerLayerDec
	PickerLayerInc
	PickerHueDec
	PickerHueInc
	PickerSatDec
	PickerSatInc
	PickerAnimDec
	PickerAnimInc
	PickerReset
	BootAnimToggle
	BootAnimPlay
)

var keycodeNames = map[Keycode]string{
	PomoToggle:     "POMO_TOGGLE",
	PomoReset:      "POMO_RESET",
	PomoModeNext:   "POMO_MODE_NEXT",
	PomoWorkDec:    "POMO_WORK_DEC",
	PomoWorkInc:    "POMO_WORK_INC",
	PomoBreakDec:   "POMO_BREAK_DEC",
	PomoBreakInc:   "POMO_BREAK_INC",
	PickerLayerDec: "CP_LAYER_DEC",
	PickerLayerInc: "CP_LAYER_INC",
	PickerHueDec:   "CP_HUE_DEC",
	PickerHueInc:   "CP_HUE_INC",
	PickerSatDec:   "CP_SAT_DEC",
	PickerSatInc:   "CP_SAT_INC",
	PickerAnimDec:  "CP_ANIM_DEC",
	PickerAnimInc:  "CP_ANIM_INC",
	PickerReset:    "CP_RESET",
	BootAnimToggle: "CP_BOOT_TOG",
	BootAnimPlay:   "CP_BOOT_PLAY",
}

// CustomKeycodes lists every keycode handled by the lighting runtime.
func CustomKeycodes() []Keycode {
	codes := make([]Keycode, 0, len(keycodeNames))
	for code := PomoToggle; code <= BootAnimPlay; code++ {
		codes = append(codes, code)
	}
	return codes
}

func (code Keycode) String() string {
	if name, ok := keycodeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("KC(0x%04X)", uint16(code))
}

// ParseKeycode resolves a keycode name such as "POMO_TOGGLE".
func ParseKeycode(name string) (Keycode, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for code, candidate := range keycodeNames {
		if candidate == name {
			return code, true
		}
	}
	return 0, false
}

// KeyEvent is a key press or release delivered by the host.
type KeyEvent struct {
	Keycode Keycode
	Pressed bool
}

// EncoderEvent is one detent of a rotary encoder.
type EncoderEvent struct {
	Index     int
	Clockwise bool
}

// LayerState is the host layer stack as a bit set, bit n = layer n active.
type LayerState uint32

// Layers builds a LayerState with the given layers active.
func Layers(layers ...int) LayerState {
	var state LayerState
	for _, layer := range layers {
		state = state.With(layer)
	}
	return state
}

// Has reports whether layer is active.
func (state LayerState) Has(layer int) bool {
	if layer < 0 || layer >= 32 {
		return false
	}
	return state&(1<<uint(layer)) != 0
}

// With returns the state with layer switched on.
func (state LayerState) With(layer int) LayerState {
	if layer < 0 || layer >= 32 {
		return state
	}
	return state | 1<<uint(layer)
}

// Without returns the state with layer switched off.
func (state LayerState) Without(layer int) LayerState {
	if layer < 0 || layer >= 32 {
		return state
	}
	return state &^ (1 << uint(layer))
}

// Highest returns the highest active layer, 0 when none is active.
func (state LayerState) Highest() int {
	if state == 0 {
		return 0
	}
	return 31 - bits.LeadingZeros32(uint32(state))
}
