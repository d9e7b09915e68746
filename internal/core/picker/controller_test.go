package picker

import (
	"testing"
	"time"

	"mid1lights/internal/core/ledbar"
	"mid1lights/internal/core/model"
	"mid1lights/internal/core/nvram"
	"mid1lights/internal/core/palette"
	"mid1lights/internal/logging"
	"mid1lights/internal/sim"
)

type fixture struct {
	controller *Controller
	store      *palette.Store
	strip      *sim.Strip
	lighting   *sim.Lighting
	clock      *sim.ManualClock
	nvm        *sim.NVM
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	nvm := sim.NewNVM(128)
	strip := sim.NewStrip(8)
	lighting := sim.NewLighting(strip)
	lighting.SetValue(200)
	clock := &sim.ManualClock{}

	store := palette.NewStore(nvm, 16, 12, logging.Discard())
	store.Init(200)

	bar := ledbar.NewRenderer(strip, 0, model.SelectionLEDs, true)
	controller := NewController(model.DefaultRuntimeConfig().Picker, store, bar, lighting, clock, logging.Discard())

	return &fixture{controller: controller, store: store, strip: strip, lighting: lighting, clock: clock, nvm: nvm}
}

func press(code model.Keycode) model.KeyEvent {
	return model.KeyEvent{Keycode: code, Pressed: true}
}

func TestHueChangeIsDeferredUntilRelease(t *testing.T) {
	f := newFixture(t)

	if f.controller.Active() {
		t.Fatal("controller active before any input")
	}
	if !f.controller.Process(press(model.PickerHueInc)) {
		t.Fatal("hue key not consumed")
	}
	if !f.controller.Active() || f.controller.Selected() != 0 {
		t.Fatalf("active=%v selected=%d", f.controller.Active(), f.controller.Selected())
	}
	if got := f.store.Color(0).H; got != 20 {
		t.Errorf("hue = %d, want 20", got)
	}

	record := f.store.Layout().RecordAt(0)
	if got := nvram.ReadRecord(f.nvm, record).H; got != 15 {
		t.Errorf("hue persisted before release: %d", got)
	}

	f.controller.Release()
	if got := nvram.ReadRecord(f.nvm, record).H; got != 20 {
		t.Errorf("hue after release = %d, want 20", got)
	}
	if f.controller.Active() {
		t.Error("controller still active after release")
	}
}

func TestReleaseKeysAreNotConsumed(t *testing.T) {
	f := newFixture(t)

	if f.controller.Process(model.KeyEvent{Keycode: model.PickerHueInc}) {
		t.Error("release event consumed")
	}
	if f.controller.Process(press(model.PomoToggle)) {
		t.Error("foreign keycode consumed")
	}
}

func TestLayerNavigationClamps(t *testing.T) {
	f := newFixture(t)

	f.controller.Process(press(model.PickerLayerDec))
	if got := f.controller.Selected(); got != 0 {
		t.Errorf("selected after dec at 0 = %d", got)
	}

	for i := 0; i < 20; i++ {
		f.controller.Process(press(model.PickerLayerInc))
	}
	if got := f.controller.Selected(); got != f.store.CapsSlot() {
		t.Errorf("selected = %d, want caps slot %d", got, f.store.CapsSlot())
	}
}

func TestHueWrapsAndSaturationClamps(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 4; i++ {
		f.controller.Process(press(model.PickerHueDec))
	}
	if got := f.store.Color(0).H; got != 355 {
		t.Errorf("hue = %d, want 355", got)
	}

	f.controller.Process(press(model.PickerSatInc))
	if got := f.store.Color(0).S; got != 255 {
		t.Errorf("saturation = %d, want 255", got)
	}

	for i := 0; i < 7; i++ {
		f.controller.Process(press(model.PickerLayerInc))
	}
	f.controller.Process(press(model.PickerSatDec))
	if got := f.store.Color(7).S; got != 0 {
		t.Errorf("white saturation = %d, want 0", got)
	}
}

func TestIdleTimeout(t *testing.T) {
	f := newFixture(t)
	f.controller.EnsureActive()

	f.clock.Advance(4000 * time.Millisecond)
	if !f.controller.Active() {
		t.Fatal("inactive at exactly the timeout")
	}
	f.clock.Advance(time.Millisecond)
	if f.controller.Active() {
		t.Fatal("still active after the timeout")
	}

	f.controller.Process(press(model.PickerLayerInc))
	if !f.controller.Active() || f.controller.Selected() != 1 {
		t.Errorf("input after the timeout: active=%v selected=%d, want slot 1",
			f.controller.Active(), f.controller.Selected())
	}
}

func TestEnsureActiveReentersAfterTimeout(t *testing.T) {
	f := newFixture(t)

	f.controller.Process(press(model.PickerLayerInc))
	f.controller.Process(press(model.PickerLayerInc))
	want := f.store.Color(2).H + 5
	f.controller.Process(press(model.PickerHueInc))

	f.clock.Advance(4001 * time.Millisecond)
	if f.controller.Active() {
		t.Fatal("still active after the timeout")
	}

	f.controller.EnsureActive()
	if !f.controller.Active() || f.controller.Selected() != 0 {
		t.Fatalf("after re-entry: active=%v selected=%d, want slot 0", f.controller.Active(), f.controller.Selected())
	}
	for led := 1; led < 5; led++ {
		if got := f.strip.At(led); got != model.Black {
			t.Errorf("led %d = %+v, want the slot 0 selection", led, got)
		}
	}

	record := f.store.Layout().RecordAt(2)
	if got := nvram.ReadRecord(f.nvm, record).H; got == want {
		t.Fatal("edit persisted on re-entry")
	}
	f.controller.Release()
	if got := nvram.ReadRecord(f.nvm, record).H; got != want {
		t.Errorf("hue after release = %d, want %d", got, want)
	}
}

func TestEnsureActiveKeepsSelection(t *testing.T) {
	f := newFixture(t)

	f.controller.Process(press(model.PickerLayerInc))
	f.controller.Process(press(model.PickerLayerInc))
	f.controller.EnsureActive()

	if got := f.controller.Selected(); got != 2 {
		t.Errorf("selected = %d, want 2", got)
	}
}

func TestSelectionRendering(t *testing.T) {
	f := newFixture(t)
	f.controller.EnsureActive()

	want := model.Orange.WithValue(200)
	for led := 0; led < model.SelectionLEDs; led++ {
		got := f.strip.At(led)
		lit := led == 0 || led == 5
		if lit && got != want {
			t.Errorf("led %d = %+v, want %+v", led, got, want)
		}
		if !lit && got != model.Black {
			t.Errorf("led %d = %+v, want off", led, got)
		}
	}
}

func TestAnimationPreview(t *testing.T) {
	f := newFixture(t)

	f.controller.Process(press(model.PickerAnimInc))

	if got := f.lighting.Mode(); got != model.ModeBreathing {
		t.Fatalf("lighting mode = %v, want breathing", got)
	}
	if !f.controller.Previewing() {
		t.Fatal("preview not running")
	}
	if got := f.store.Anim(0); got != model.ModeBreathing {
		t.Errorf("slot anim = %v", got)
	}
	if !f.store.Dirty() {
		t.Error("anim change should wait for release")
	}

	f.clock.Advance(2999 * time.Millisecond)
	f.controller.Task()
	if !f.controller.Previewing() {
		t.Fatal("preview ended early")
	}

	f.clock.Advance(time.Millisecond)
	f.controller.Task()
	if f.controller.Previewing() {
		t.Fatal("preview still running after its window")
	}
	if got := f.lighting.Mode(); got != model.ModeStatic {
		t.Errorf("lighting mode after preview = %v, want static", got)
	}
}

func TestResetToDefaults(t *testing.T) {
	f := newFixture(t)

	f.controller.Process(press(model.PickerHueInc))
	f.controller.Process(press(model.PickerReset))

	if got := f.store.Color(0).H; got != 15 {
		t.Errorf("hue after reset = %d, want 15", got)
	}
	if f.store.Dirty() {
		t.Error("reset should persist immediately")
	}
}
