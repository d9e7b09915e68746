// Package ledbar paints bit-mask patterns onto a contiguous run of LEDs.
//
// Positions count from the left of the visible bar. Position p shows mask
// bit (count-1-p), so a mask written as a binary literal reads the same way
// the bar looks. Reversed wiring maps position 0 to the last LED of the run.
package ledbar

import (
	"mid1lights/internal/core/host"
	"mid1lights/internal/core/model"
)

// Mask selects bar positions; the most significant used bit is leftmost.
type Mask uint16

// Renderer paints one bar.
type Renderer struct {
	strip    host.Strip
	first    int
	count    int
	reversed bool
}

func NewRenderer(strip host.Strip, first, count int, reversed bool) *Renderer {
	return &Renderer{strip: strip, first: first, count: count, reversed: reversed}
}

// Len returns the number of positions on the bar.
func (renderer *Renderer) Len() int {
	return renderer.count
}

// LEDAt returns the strip index shown at position.
func (renderer *Renderer) LEDAt(position int) int {
	if renderer.reversed {
		return renderer.first + renderer.count - 1 - position
	}
	return renderer.first + position
}

// Lit reports whether mask lights position.
func (renderer *Renderer) Lit(mask Mask, position int) bool {
	if position < 0 || position >= renderer.count {
		return false
	}
	return mask>>uint(renderer.count-1-position)&1 != 0
}

// Paint lights the positions selected by mask with color and turns the
// rest off.
func (renderer *Renderer) Paint(mask Mask, color model.HSV) {
	for position := 0; position < renderer.count; position++ {
		if renderer.Lit(mask, position) {
			renderer.strip.SetHSVAt(renderer.LEDAt(position), color)
		} else {
			renderer.strip.SetHSVAt(renderer.LEDAt(position), model.Black)
		}
	}
}

// PaintWith sets every position to the color returned by fn.
func (renderer *Renderer) PaintWith(fn func(position int) model.HSV) {
	for position := 0; position < renderer.count; position++ {
		renderer.strip.SetHSVAt(renderer.LEDAt(position), fn(position))
	}
}

// PaintSingle overrides one position. Out of range positions are ignored.
func (renderer *Renderer) PaintSingle(position int, color model.HSV) {
	if position < 0 || position >= renderer.count {
		return
	}
	renderer.strip.SetHSVAt(renderer.LEDAt(position), color)
}

// RightmostLit returns the rightmost position mask lights, or -1.
func (renderer *Renderer) RightmostLit(mask Mask) int {
	for position := renderer.count - 1; position >= 0; position-- {
		if renderer.Lit(mask, position) {
			return position
		}
	}
	return -1
}

// All returns the mask lighting every position.
func (renderer *Renderer) All() Mask {
	return Mask(1)<<uint(renderer.count) - 1
}
