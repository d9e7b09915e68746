package ledbar

// CountdownPatterns are the 8-LED countdown shapes. Index 0 marks the last
// minute, indices 1..15 cover successive five minute buckets up to 75.
var CountdownPatterns = [16]Mask{
	0b10000001,
	0b10000000,
	0b11000000,
	0b11100000,
	0b11110000,
	0b11111000,
	0b11111100,
	0b11111110,
	0b11111111,
	0b01111111,
	0b00111111,
	0b00011111,
	0b00001111,
	0b00000111,
	0b00000011,
	0b00000001,
}

// SelectionPatterns are the 6-LED palette slot indicators.
var SelectionPatterns = [12]Mask{
	0b100001,
	0b100000,
	0b110000,
	0b111000,
	0b111100,
	0b111110,
	0b111111,
	0b011111,
	0b001111,
	0b000111,
	0b000011,
	0b000001,
}

// CapsSelection marks the Caps Lock slot.
const CapsSelection Mask = 0b001100

// SelectionMask returns the indicator for slot; slots at or beyond layers
// are the Caps Lock slot.
func SelectionMask(slot, layers int) Mask {
	if slot < 0 {
		slot = 0
	}
	if slot >= layers {
		return CapsSelection
	}
	return SelectionPatterns[slot%len(SelectionPatterns)]
}
