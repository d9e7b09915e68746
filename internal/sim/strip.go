// Package sim implements the host capabilities in memory so the lighting
// runtime can run on a desktop.
package sim

import (
	"sync"

	"mid1lights/internal/core/model"
)

// Strip is an in-memory LED strip. It remembers whether anything painted it
// since the last BeginFrame so the lighting engine can stay out of the way.
type Strip struct {
	mu      sync.Mutex
	leds    []model.HSV
	touched bool
}

func NewStrip(count int) *Strip {
	return &Strip{leds: make([]model.HSV, count)}
}

func (strip *Strip) Len() int {
	return len(strip.leds)
}

func (strip *Strip) SetHSVAt(index int, color model.HSV) {
	strip.mu.Lock()
	defer strip.mu.Unlock()

	if index < 0 || index >= len(strip.leds) {
		return
	}
	strip.leds[index] = color
	strip.touched = true
}

// At returns the color of one LED.
func (strip *Strip) At(index int) model.HSV {
	strip.mu.Lock()
	defer strip.mu.Unlock()

	if index < 0 || index >= len(strip.leds) {
		return model.Black
	}
	return strip.leds[index]
}

// BeginFrame clears the painted marker.
func (strip *Strip) BeginFrame() {
	strip.mu.Lock()
	strip.touched = false
	strip.mu.Unlock()
}

// Touched reports whether any LED was set since BeginFrame.
func (strip *Strip) Touched() bool {
	strip.mu.Lock()
	defer strip.mu.Unlock()
	return strip.touched
}

// Snapshot copies the current LED colors.
func (strip *Strip) Snapshot() []model.HSV {
	strip.mu.Lock()
	defer strip.mu.Unlock()
	return append([]model.HSV(nil), strip.leds...)
}

func (strip *Strip) fill(fn func(index int) model.HSV) {
	strip.mu.Lock()
	defer strip.mu.Unlock()
	for i := range strip.leds {
		strip.leds[i] = fn(i)
	}
}
