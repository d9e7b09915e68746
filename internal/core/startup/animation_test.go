package startup

import (
	"testing"
	"time"

	"mid1lights/internal/core/ledbar"
	"mid1lights/internal/core/model"
	"mid1lights/internal/core/nvram"
	"mid1lights/internal/logging"
	"mid1lights/internal/sim"
)

func newTestAnimation(nvm *sim.NVM) (*Animation, *sim.Strip, *sim.ManualClock) {
	strip := sim.NewStrip(8)
	lighting := sim.NewLighting(strip)
	lighting.SetValue(240)
	clock := &sim.ManualClock{}
	bar := ledbar.NewRenderer(strip, 0, model.CountdownLEDs, true)
	animation := New(model.DefaultRuntimeConfig().Startup, bar, lighting, clock, nvram.NewUserspace(nvm, 0), logging.Discard())
	return animation, strip, clock
}

func TestFlagDefaultsToEnabled(t *testing.T) {
	nvm := sim.NewNVM(16)
	animation, _, _ := newTestAnimation(nvm)

	animation.LoadFlag()
	if !animation.Enabled() {
		t.Fatal("erased flag should enable the animation")
	}
	if got := nvm.Byte(0); got != 1 {
		t.Errorf("flag byte = %d, want 1", got)
	}
}

func TestTogglePersists(t *testing.T) {
	nvm := sim.NewNVM(16)
	animation, _, _ := newTestAnimation(nvm)
	animation.LoadFlag()

	if animation.Toggle() {
		t.Fatal("Toggle should disable")
	}
	if got := nvm.Byte(0); got != 0 {
		t.Errorf("flag byte = %d, want 0", got)
	}

	reloaded, _, _ := newTestAnimation(nvm)
	reloaded.LoadFlag()
	if reloaded.Enabled() {
		t.Error("disabled flag not restored")
	}
}

func TestFirstFrameHighlightsLeftmost(t *testing.T) {
	animation, strip, _ := newTestAnimation(sim.NewNVM(16))
	animation.Begin()

	if !animation.Tick() {
		t.Fatal("first tick did not paint")
	}
	if got := strip.At(7); got != model.Orange.WithValue(80) {
		t.Errorf("highlight = %+v", got)
	}
	for led := 0; led < 7; led++ {
		if got := strip.At(led).V; got != 0 {
			t.Errorf("led %d value = %d, want 0", led, got)
		}
	}
}

func TestFinalRollFills(t *testing.T) {
	animation, strip, clock := newTestAnimation(sim.NewNVM(16))
	animation.Begin()

	clock.Advance(2950 * time.Millisecond)
	animation.Tick()

	for led := 0; led < 8; led++ {
		want := uint8(180)
		if led >= 4 {
			want = 240
		}
		if got := strip.At(led).V; got != want {
			t.Errorf("led %d value = %d, want %d", led, got, want)
		}
	}
}

func TestFinishes(t *testing.T) {
	animation, _, clock := newTestAnimation(sim.NewNVM(16))
	animation.Begin()

	clock.Advance(animation.Duration())
	if animation.Tick() {
		t.Fatal("tick after the last roll painted")
	}
	if animation.Active() {
		t.Error("animation still active")
	}
}
