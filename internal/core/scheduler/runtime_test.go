package scheduler

import (
	"testing"
	"time"

	"mid1lights/internal/core/model"
	"mid1lights/internal/core/nvram"
	"mid1lights/internal/core/pomodoro"
	"mid1lights/internal/logging"
	"mid1lights/internal/sim"
)

type fixture struct {
	runtime *Runtime
	host    *sim.Host
	clock   *sim.ManualClock
	config  model.RuntimeConfig
}

func newFixture(t *testing.T, bootAnimation bool) *fixture {
	t.Helper()

	config := model.DefaultRuntimeConfig()
	nvm := sim.NewNVM(config.Storage.Size)
	if !bootAnimation {
		nvram.NewUserspace(nvm, config.Storage.UserspaceBase).SetBootFlag(false)
	}
	simHost := sim.NewHost(8, nvm)
	simHost.SetBrightness(200)
	clock := &sim.ManualClock{}

	runtime := New(config, Deps{
		Strip:      simHost.Strip,
		Lighting:   simHost.Lighting,
		NVM:        simHost.NVM,
		Clock:      clock,
		Indicators: simHost.Indicators,
		Logger:     logging.Discard(),
	})
	runtime.Init()
	return &fixture{runtime: runtime, host: simHost, clock: clock, config: config}
}

func (f *fixture) run(duration time.Duration) {
	const step = 10 * time.Millisecond
	for elapsed := time.Duration(0); elapsed < duration; elapsed += step {
		f.clock.Advance(step)
		f.runtime.OnTick()
	}
}

func press(runtime *Runtime, code model.Keycode) bool {
	consumed := runtime.OnKeyEvent(model.KeyEvent{Keycode: code, Pressed: true})
	runtime.OnKeyEvent(model.KeyEvent{Keycode: code, Pressed: false})
	return consumed
}

func TestInitSeedsAndPlaysBootAnimation(t *testing.T) {
	f := newFixture(t, true)

	if !f.runtime.Startup().Active() {
		t.Fatal("boot animation not playing")
	}
	layout := f.runtime.Palette().Layout()
	if got := nvram.ReadWord(f.host.NVM, layout.SignatureAt()); got != nvram.Signature {
		t.Fatalf("palette signature = %x", got)
	}

	f.run(3300 * time.Millisecond)
	if f.runtime.Startup().Active() {
		t.Fatal("boot animation still active")
	}
	if got := f.host.Lighting.Mode(); got != model.ModeStatic {
		t.Errorf("mode after boot = %v", got)
	}
	want := model.Orange.WithValue(200)
	for led := 0; led < 8; led++ {
		if got := f.host.Strip.At(led); got != want {
			t.Errorf("idle led %d = %+v, want %+v", led, got, want)
		}
	}
}

func TestLayerStyle(t *testing.T) {
	f := newFixture(t, false)

	f.runtime.OnLayerChange(model.Layers(0, 3))
	if got := f.host.Lighting.Color(); got.H != model.Purple.H {
		t.Errorf("layer 3 hue = %d, want %d", got.H, model.Purple.H)
	}

	f.runtime.OnLayerChange(model.Layers(0))
	if got := f.host.Lighting.Color(); got.H != model.Orange.H {
		t.Errorf("layer 0 hue = %d, want %d", got.H, model.Orange.H)
	}
}

func TestLayerStyleWaitsForBootAnimation(t *testing.T) {
	f := newFixture(t, true)

	f.runtime.OnLayerChange(model.Layers(0, 1))
	if got := f.host.Lighting.Color().H; got != model.Orange.H {
		t.Fatalf("style applied during boot animation: hue %d", got)
	}

	f.run(3300 * time.Millisecond)
	if got := f.host.Lighting.Color().H; got != model.Blue.H {
		t.Errorf("hue after boot = %d, want %d", got, model.Blue.H)
	}
}

func TestCapsLockStyle(t *testing.T) {
	f := newFixture(t, false)

	f.runtime.OnCapsLock(true)
	if !f.runtime.CapsActive() || f.host.Lighting.Mode() != model.ModeRainbowSwirl {
		t.Fatalf("caps on: active=%v mode=%v", f.runtime.CapsActive(), f.host.Lighting.Mode())
	}

	f.runtime.OnLayerChange(model.Layers(0, 2))
	if got := f.host.Lighting.Mode(); got != model.ModeRainbowSwirl {
		t.Errorf("layer change overrode caps style: %v", got)
	}

	f.runtime.OnCapsLock(false)
	if f.runtime.CapsActive() || f.host.Lighting.Mode() != model.ModeStatic {
		t.Errorf("caps off: active=%v mode=%v", f.runtime.CapsActive(), f.host.Lighting.Mode())
	}
	if got := f.host.Lighting.Color().H; got != model.Green.H {
		t.Errorf("hue after caps off = %d, want layer 2", got)
	}
}

func TestCapsLockSuspendedDuringPomodoro(t *testing.T) {
	f := newFixture(t, false)

	if !press(f.runtime, model.PomoToggle) {
		t.Fatal("toggle not consumed")
	}
	f.runtime.OnCapsLock(true)
	if f.runtime.CapsActive() || !f.runtime.CapsSuspended() {
		t.Fatal("caps style applied while the pomodoro runs")
	}

	press(f.runtime, model.PomoToggle)
	if f.runtime.Pomodoro().State() != pomodoro.StateOff {
		t.Fatal("pomodoro still running")
	}
	if f.runtime.CapsSuspended() {
		t.Error("suspended flag survived the stop")
	}
	if !f.runtime.CapsActive() || f.host.Lighting.Mode() != model.ModeRainbowSwirl {
		t.Errorf("caps style not applied after stop: active=%v mode=%v", f.runtime.CapsActive(), f.host.Lighting.Mode())
	}
}

func TestPickerSessionPersistsOnLayerExit(t *testing.T) {
	f := newFixture(t, false)
	layers := f.config.Layers

	f.runtime.OnLayerChange(model.Layers(0, layers.PickerHue))
	f.run(10 * time.Millisecond)
	if !f.runtime.Picker().Active() {
		t.Fatal("picker inactive on its layer")
	}

	if !f.runtime.OnEncoder(model.EncoderEvent{Index: 1, Clockwise: true}) {
		t.Fatal("encoder not consumed on picker layer")
	}
	if got := f.runtime.Palette().Color(0).H; got != 20 {
		t.Fatalf("hue = %d, want 20", got)
	}

	f.runtime.OnLayerChange(model.Layers(0))
	f.run(10 * time.Millisecond)
	if f.runtime.Picker().Active() {
		t.Fatal("picker still active after leaving its layer")
	}
	record := nvram.ReadRecord(f.host.NVM, f.runtime.Palette().Layout().RecordAt(0))
	if record.H != 20 {
		t.Errorf("persisted hue = %d, want 20", record.H)
	}
	if got := f.host.Lighting.Color().H; got != 20 {
		t.Errorf("layer style not reapplied, hue %d", got)
	}
}

func TestEncoderMapping(t *testing.T) {
	f := newFixture(t, false)
	layers := f.config.Layers

	if f.runtime.OnEncoder(model.EncoderEvent{Index: 0, Clockwise: true}) {
		t.Fatal("encoder consumed outside picker layers")
	}

	f.runtime.OnLayerChange(model.Layers(0, layers.PickerSat))
	f.runtime.OnEncoder(model.EncoderEvent{Index: 0, Clockwise: true})
	if got := f.runtime.Picker().Selected(); got != 1 {
		t.Fatalf("selected = %d, want 1", got)
	}
	f.runtime.OnEncoder(model.EncoderEvent{Index: 1, Clockwise: false})
	if got := f.runtime.Palette().Color(1).S; got != 255-12 {
		t.Errorf("saturation = %d, want %d", got, 255-12)
	}
}

func TestScheduleOnce(t *testing.T) {
	f := newFixture(t, false)

	fired := 0
	f.runtime.ScheduleOnce(100*time.Millisecond, func() { fired++ })
	cancelled := f.runtime.ScheduleOnce(50*time.Millisecond, func() { t.Error("cancelled action ran") })
	if !f.runtime.Cancel(cancelled) {
		t.Fatal("Cancel returned false")
	}

	f.run(90 * time.Millisecond)
	if fired != 0 {
		t.Fatal("action ran early")
	}
	f.run(200 * time.Millisecond)
	if fired != 1 {
		t.Errorf("action ran %d times, want 1", fired)
	}
}

func TestCapsResyncAfterBoot(t *testing.T) {
	f := newFixture(t, false)

	f.host.Indicators.SetCapsLock(true)
	f.run(1900 * time.Millisecond)
	if f.runtime.CapsActive() {
		t.Fatal("resync ran early")
	}

	f.run(200 * time.Millisecond)
	if !f.runtime.CapsActive() {
		t.Error("caps lock not resynchronised")
	}
}

func TestBootAnimationKeys(t *testing.T) {
	f := newFixture(t, false)

	if !press(f.runtime, model.BootAnimToggle) {
		t.Fatal("toggle key not consumed")
	}
	if !f.runtime.Startup().Enabled() {
		t.Fatal("toggle from disabled should enable")
	}
	if got := f.host.NVM.Byte(f.config.Storage.UserspaceBase); got != 1 {
		t.Errorf("boot flag byte = %d", got)
	}

	press(f.runtime, model.BootAnimPlay)
	if !f.runtime.Startup().Active() {
		t.Error("play key did not start the animation")
	}
}

func TestUnknownKeysPassThrough(t *testing.T) {
	f := newFixture(t, false)

	if f.runtime.OnKeyEvent(model.KeyEvent{Keycode: 0x0004, Pressed: true}) {
		t.Error("plain keycode consumed")
	}
	if f.runtime.OnKeyEvent(model.KeyEvent{Keycode: model.PomoModeNext, Pressed: true}) {
		t.Error("reserved keycode consumed")
	}
}

func TestPickerTimeoutReleasesKeySession(t *testing.T) {
	f := newFixture(t, false)

	press(f.runtime, model.PickerHueInc)
	f.run(10 * time.Millisecond)
	if !f.runtime.Picker().Active() {
		t.Fatal("picker inactive after hue key")
	}

	f.run(4100 * time.Millisecond)
	if f.runtime.Picker().Active() {
		t.Fatal("picker still active after idle timeout")
	}
	record := nvram.ReadRecord(f.host.NVM, f.runtime.Palette().Layout().RecordAt(0))
	if record.H != 20 {
		t.Errorf("persisted hue = %d, want 20", record.H)
	}
}

func TestPickerLayerHeldPastIdleTimeout(t *testing.T) {
	f := newFixture(t, false)
	layers := f.config.Layers

	f.runtime.OnLayerChange(model.Layers(0, layers.PickerHue))
	f.run(10 * time.Millisecond)
	f.runtime.OnEncoder(model.EncoderEvent{Index: 0, Clockwise: true})
	f.runtime.OnEncoder(model.EncoderEvent{Index: 1, Clockwise: true})
	edited := f.runtime.Palette().Color(1).H

	f.run(5 * time.Second)
	if !f.runtime.Picker().Active() {
		t.Fatal("picker inactive while its layer is held")
	}
	if got := f.runtime.Picker().Selected(); got != 0 {
		t.Errorf("selected = %d, want 0 after re-entry", got)
	}
	for led := 1; led < 5; led++ {
		if got := f.host.Strip.At(led); got != model.Black {
			t.Errorf("led %d = %+v, want the selection bar", led, got)
		}
	}

	record := f.runtime.Palette().Layout().RecordAt(1)
	if got := nvram.ReadRecord(f.host.NVM, record).H; got == edited {
		t.Fatal("edit persisted while the layer was held")
	}
	f.runtime.OnLayerChange(model.Layers(0))
	f.run(10 * time.Millisecond)
	if got := nvram.ReadRecord(f.host.NVM, record).H; got != edited {
		t.Errorf("persisted hue = %d, want %d", got, edited)
	}
}

func TestIdleFillOnPickerLayerUsesBaseSlot(t *testing.T) {
	f := newFixture(t, false)

	f.runtime.layers = model.Layers(0, f.config.Layers.PickerHue)
	f.runtime.paintIdle()

	want := f.runtime.Palette().Color(0).WithValue(200)
	for led := 0; led < 8; led++ {
		if got := f.host.Strip.At(led); got != want {
			t.Errorf("led %d = %+v, want %+v", led, got, want)
		}
	}
}
