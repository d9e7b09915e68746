// Package scheduler ties the lighting components to host callbacks and
// decides, every tick, which of them owns the LEDs.
package scheduler

import (
	"log/slog"
	"time"

	"mid1lights/internal/core/host"
	"mid1lights/internal/core/ledbar"
	"mid1lights/internal/core/model"
	"mid1lights/internal/core/nvram"
	"mid1lights/internal/core/palette"
	"mid1lights/internal/core/picker"
	"mid1lights/internal/core/pomodoro"
	"mid1lights/internal/core/startup"
	"mid1lights/internal/logging"
)

// Firmware is the callback surface a host binds to.
type Firmware interface {
	Init()
	OnKeyEvent(event model.KeyEvent) bool
	OnEncoder(event model.EncoderEvent) bool
	OnLayerChange(state model.LayerState)
	OnCapsLock(on bool)
	OnTick()
}

// Deps are the host capabilities the runtime drives.
type Deps struct {
	Strip      host.Strip
	Lighting   host.Lighting
	NVM        host.NVM
	Clock      host.Clock
	Indicators host.Indicators
	Logger     *slog.Logger
}

// Runtime owns every lighting component. It is not safe for concurrent use;
// hosts call it from a single loop.
type Runtime struct {
	config     model.RuntimeConfig
	lighting   host.Lighting
	clock      host.Clock
	indicators host.Indicators
	logger     logging.Logger

	countdown *ledbar.Renderer
	palette   *palette.Store
	picker    *picker.Controller
	pomodoro  *pomodoro.Controller
	startup   *startup.Animation
	deferred  deferredQueue

	layers          model.LayerState
	lastLayer       int
	caps            bool
	capsActive      bool
	capsSuspended   bool
	wasOnPicker     bool
	wasPickerActive bool
	startupRan      bool
}

var _ Firmware = (*Runtime)(nil)

// New builds the runtime and its components. Call Init before ticking.
func New(config model.RuntimeConfig, deps Deps) *Runtime {
	logger := deps.Logger
	if logger == nil {
		logger = logging.GetLogger("scheduler")
	}

	userspace := nvram.NewUserspace(deps.NVM, config.Storage.UserspaceBase)
	countdown := ledbar.NewRenderer(deps.Strip, config.Bar.CountdownFirst, model.CountdownLEDs, config.Bar.CountdownReversed)
	selection := ledbar.NewRenderer(deps.Strip, config.Bar.SelectionFirst, model.SelectionLEDs, config.Bar.SelectionReversed)

	runtime := &Runtime{
		config:     config,
		lighting:   deps.Lighting,
		clock:      deps.Clock,
		indicators: deps.Indicators,
		logger:     logger,
		countdown:  countdown,
		lastLayer:  -1,
	}
	runtime.palette = palette.NewStore(deps.NVM, config.Storage.PaletteBase, config.Picker.Layers, logger.With("component", "palette"))
	runtime.picker = picker.NewController(config.Picker, runtime.palette, selection, deps.Lighting, deps.Clock, logger.With("component", "picker"))
	runtime.pomodoro = pomodoro.New(config.Pomodoro, userspace, countdown, deps.Lighting, deps.Clock, runtime, logger.With("component", "pomodoro"))
	runtime.startup = startup.New(config.Startup, countdown, deps.Lighting, deps.Clock, userspace, logger.With("component", "startup"))
	return runtime
}

// Palette returns the palette store.
func (runtime *Runtime) Palette() *palette.Store {
	return runtime.palette
}

// Picker returns the Color Picker controller.
func (runtime *Runtime) Picker() *picker.Controller {
	return runtime.picker
}

// Pomodoro returns the Pomodoro controller.
func (runtime *Runtime) Pomodoro() *pomodoro.Controller {
	return runtime.pomodoro
}

// Startup returns the boot animation.
func (runtime *Runtime) Startup() *startup.Animation {
	return runtime.startup
}

// Layers returns the last reported layer stack.
func (runtime *Runtime) Layers() model.LayerState {
	return runtime.layers
}

// CapsActive reports whether the Caps Lock style is applied.
func (runtime *Runtime) CapsActive() bool {
	return runtime.capsActive
}

// CapsSuspended reports whether a Caps Lock change is waiting for the
// Pomodoro or picker to release the LEDs.
func (runtime *Runtime) CapsSuspended() bool {
	return runtime.capsSuspended
}

// Init runs the keyboard start-up sequence.
func (runtime *Runtime) Init() {
	runtime.lighting.Enable()
	runtime.lighting.SetMode(model.ModeStatic)
	runtime.lighting.SetColor(model.Orange.WithValue(runtime.lighting.Value()))

	runtime.startup.LoadFlag()
	loaded := runtime.palette.Init(runtime.lighting.Value())
	runtime.logger.Info("runtime initialised", "palette_loaded", loaded, "boot_animation", runtime.startup.Enabled())

	runtime.caps = runtime.indicators.CapsLock()
	runtime.setCapsEffect(runtime.caps)

	if runtime.startup.Enabled() {
		runtime.startup.Begin()
	}
	runtime.ScheduleOnce(runtime.config.Scheduler.ResyncDelay, runtime.resyncCaps)
}

// OnKeyEvent routes a key event and reports whether it was consumed.
func (runtime *Runtime) OnKeyEvent(event model.KeyEvent) bool {
	if runtime.picker.Process(event) {
		return true
	}
	if !event.Pressed {
		return false
	}

	switch event.Keycode {
	case model.BootAnimToggle:
		runtime.toggleBootAnimation()
		return true
	case model.BootAnimPlay:
		if !runtime.startup.Active() {
			runtime.startup.Begin()
		}
		return true
	}
	return runtime.pomodoro.Process(event.Keycode)
}

// OnEncoder maps encoder turns onto picker keys while a picker layer is
// active. It reports whether the turn was consumed.
func (runtime *Runtime) OnEncoder(event model.EncoderEvent) bool {
	layers := runtime.config.Layers
	if !layers.AnyPicker(runtime.layers) {
		return false
	}

	var code model.Keycode
	switch {
	case event.Index == 0:
		code = pick(event.Clockwise, model.PickerLayerInc, model.PickerLayerDec)
	case runtime.layers.Has(layers.PickerHue):
		code = pick(event.Clockwise, model.PickerHueInc, model.PickerHueDec)
	case runtime.layers.Has(layers.PickerSat):
		code = pick(event.Clockwise, model.PickerSatInc, model.PickerSatDec)
	default:
		code = pick(event.Clockwise, model.PickerAnimInc, model.PickerAnimDec)
	}
	runtime.OnKeyEvent(model.KeyEvent{Keycode: code, Pressed: true})
	runtime.OnKeyEvent(model.KeyEvent{Keycode: code, Pressed: false})
	return true
}

func pick(clockwise bool, forward, backward model.Keycode) model.Keycode {
	if clockwise {
		return forward
	}
	return backward
}

// OnLayerChange applies the highest layer's style when it changes. Picker
// layers, the boot animation and the Caps Lock style hold the current
// style.
func (runtime *Runtime) OnLayerChange(state model.LayerState) {
	runtime.layers = state
	layer := state.Highest()

	if runtime.config.Layers.IsPicker(layer) || runtime.startup.Active() || runtime.capsActive {
		runtime.lastLayer = layer
		return
	}
	if layer == runtime.lastLayer {
		return
	}
	runtime.lastLayer = layer
	runtime.applyLayerStyle(layer)
}

// OnCapsLock reacts to the host Caps Lock indicator.
func (runtime *Runtime) OnCapsLock(on bool) {
	runtime.caps = on
	runtime.setCapsEffect(on)
}

// OnTick runs one housekeeping pass.
func (runtime *Runtime) OnTick() {
	runtime.deferred.run(runtime.clock.Now())

	if runtime.startup.Active() {
		if runtime.startup.Tick() {
			runtime.startupRan = true
			return
		}
	}
	if runtime.startupRan {
		runtime.startupRan = false
		if runtime.capsActive {
			runtime.applyCapsStyle()
		} else {
			runtime.applyLayerStyle(runtime.layers.Highest())
		}
	}

	onPicker := runtime.config.Layers.AnyPicker(runtime.layers)
	if onPicker {
		runtime.picker.EnsureActive()
	}
	leftLayers := runtime.wasOnPicker && !onPicker
	timedOut := runtime.wasPickerActive && !runtime.picker.Active() && !onPicker
	if leftLayers || timedOut {
		runtime.releasePicker()
	}
	runtime.wasOnPicker = onPicker
	runtime.wasPickerActive = runtime.picker.Active()

	if runtime.picker.Active() {
		runtime.picker.Task()
		return
	}
	if runtime.pomodoro.Tick() {
		return
	}
	runtime.paintIdle()
}

// ScheduleOnce runs action on the first tick at least delay from now.
func (runtime *Runtime) ScheduleOnce(delay time.Duration, action func()) Token {
	return runtime.deferred.add(runtime.clock.Now()+delay, action)
}

// Cancel drops a scheduled action that has not run yet.
func (runtime *Runtime) Cancel(token Token) bool {
	return runtime.deferred.cancel(token)
}

// WorkEditHeld reports whether the work edit layer is active.
func (runtime *Runtime) WorkEditHeld() bool {
	return runtime.layers.Has(runtime.config.Layers.WorkEdit)
}

// BreakEditHeld reports whether the break edit layer is active.
func (runtime *Runtime) BreakEditHeld() bool {
	return runtime.layers.Has(runtime.config.Layers.BreakEdit)
}

// CapsLock reports the host Caps Lock state.
func (runtime *Runtime) CapsLock() bool {
	return runtime.caps
}

// RestoreIdleStyle reapplies the standing style once neither the Pomodoro
// nor the picker holds the LEDs. A Caps Lock state that changed while they
// did is applied now.
func (runtime *Runtime) RestoreIdleStyle() {
	if runtime.visuallyLocked() {
		return
	}
	runtime.capsSuspended = false
	if runtime.caps {
		runtime.capsActive = true
		runtime.applyCapsStyle()
		return
	}
	runtime.capsActive = false
	runtime.applyLayerStyle(runtime.layers.Highest())
}

func (runtime *Runtime) releasePicker() {
	runtime.picker.Release()
	if !runtime.pomodoro.Running() {
		runtime.RestoreIdleStyle()
	} else if !runtime.capsActive {
		runtime.applyLayerStyle(runtime.layers.Highest())
	}
}

func (runtime *Runtime) visuallyLocked() bool {
	return runtime.pomodoro.Running() || runtime.picker.Active()
}

func (runtime *Runtime) setCapsEffect(on bool) {
	if runtime.visuallyLocked() {
		runtime.capsSuspended = on
		return
	}
	switch {
	case on && !runtime.capsActive:
		runtime.capsActive = true
		runtime.applyCapsStyle()
	case !on && runtime.capsActive:
		runtime.capsActive = false
		runtime.applyLayerStyle(runtime.layers.Highest())
	}
}

func (runtime *Runtime) resyncCaps() {
	on := runtime.indicators.CapsLock()
	runtime.caps = on
	if on != runtime.capsActive {
		runtime.logger.Debug("caps lock resync", "on", on)
		runtime.setCapsEffect(on)
	}
}

func (runtime *Runtime) applyLayerStyle(layer int) {
	slot := runtime.styleSlot(layer)
	runtime.applyStyle(runtime.palette.Color(slot), runtime.palette.Anim(slot))
}

// styleSlot maps a layer to the palette slot defining its idle style. Picker
// edit layers use the base layer's.
func (runtime *Runtime) styleSlot(layer int) int {
	if runtime.config.Layers.IsPicker(layer) {
		return 0
	}
	return layer
}

func (runtime *Runtime) applyCapsStyle() {
	slot := runtime.palette.CapsSlot()
	runtime.applyStyle(runtime.palette.Color(slot), runtime.palette.Anim(slot))
}

func (runtime *Runtime) applyStyle(color model.HSV, mode model.Mode) {
	runtime.lighting.Enable()
	runtime.lighting.SetMode(mode)
	runtime.lighting.SetColor(color.WithValue(runtime.lighting.Value()))
}

func (runtime *Runtime) paintIdle() {
	if runtime.lighting.Mode() != model.ModeStatic {
		return
	}
	slot := runtime.styleSlot(runtime.layers.Highest())
	if runtime.capsActive {
		slot = runtime.palette.CapsSlot()
	}
	color := runtime.palette.Color(slot).WithValue(runtime.lighting.Value())
	runtime.countdown.Paint(runtime.countdown.All(), color)
}

func (runtime *Runtime) toggleBootAnimation() {
	color := model.Black
	if runtime.startup.Toggle() {
		color = model.Orange.WithValue(runtime.lighting.Value())
	}
	runtime.countdown.Paint(runtime.countdown.All(), color)
}
