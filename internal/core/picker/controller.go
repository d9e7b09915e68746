// Package picker implements the Color Picker edit session: selecting a
// palette slot, nudging its hue and saturation, and previewing animation
// modes, all shown on the selection bar.
package picker

import (
	"time"

	"mid1lights/internal/core/host"
	"mid1lights/internal/core/ledbar"
	"mid1lights/internal/core/model"
	"mid1lights/internal/core/palette"
	"mid1lights/internal/logging"
)

type animPreview struct {
	active    bool
	startedAt time.Duration
}

// Controller owns the selection bar while a session is active.
//
// A session starts with any picker key or EnsureActive and stays alive until
// Release. It only counts as Active while input keeps arriving within the
// idle timeout. Re-entering an expired session starts again at slot 0, and
// pending edits wait for Release either way.
type Controller struct {
	config   model.PickerConfig
	store    *palette.Store
	bar      *ledbar.Renderer
	lighting host.Lighting
	clock    host.Clock
	logger   logging.Logger

	started   bool
	selected  int
	lastInput time.Duration
	cursor    model.Mode
	preview   animPreview
}

func NewController(config model.PickerConfig, store *palette.Store, bar *ledbar.Renderer, lighting host.Lighting, clock host.Clock, logger logging.Logger) *Controller {
	return &Controller{
		config:   config,
		store:    store,
		bar:      bar,
		lighting: lighting,
		clock:    clock,
		logger:   logger,
	}
}

// Active reports whether the session is running and within its idle window.
func (controller *Controller) Active() bool {
	if !controller.started {
		return false
	}
	return host.Since(controller.clock, controller.lastInput) <= controller.config.IdleTimeout
}

// Selected returns the slot being edited.
func (controller *Controller) Selected() int {
	return controller.selected
}

// Previewing reports whether an animation preview is running.
func (controller *Controller) Previewing() bool {
	return controller.preview.active
}

// EnsureActive enters the session at slot 0 unless it is already active,
// in which case the selection is kept.
func (controller *Controller) EnsureActive() {
	if controller.Active() {
		return
	}
	controller.enter()
	controller.render()
}

// Process handles a key event and reports whether it was consumed.
func (controller *Controller) Process(event model.KeyEvent) bool {
	if !event.Pressed {
		return false
	}

	switch event.Keycode {
	case model.PickerLayerDec:
		controller.selectSlot(-1)
	case model.PickerLayerInc:
		controller.selectSlot(1)
	case model.PickerHueDec:
		controller.adjust(-controller.config.HueStep, 0)
	case model.PickerHueInc:
		controller.adjust(controller.config.HueStep, 0)
	case model.PickerSatDec:
		controller.adjust(0, -controller.config.SatStep)
	case model.PickerSatInc:
		controller.adjust(0, controller.config.SatStep)
	case model.PickerAnimDec:
		controller.stepAnim(false)
	case model.PickerAnimInc:
		controller.stepAnim(true)
	case model.PickerReset:
		controller.ResetToDefaults()
	default:
		return false
	}
	return true
}

// ResetToDefaults reseeds and persists the whole palette.
func (controller *Controller) ResetToDefaults() {
	controller.enter()
	controller.cancelPreview()
	controller.store.SeedDefaults(controller.lighting.Value())
	controller.logger.Info("palette reset to defaults")
	controller.touch()
	controller.render()
}

// Task refreshes the selection bar. It is a no-op while inactive.
func (controller *Controller) Task() {
	if !controller.Active() {
		return
	}
	if controller.preview.active {
		if host.Since(controller.clock, controller.preview.startedAt) >= controller.config.AnimPreview {
			controller.cancelPreview()
		} else {
			return
		}
	}

	color := controller.slotColor()
	if controller.config.Breathe {
		color.V = model.ClampByte(int(color.V) + controller.breatheDelta(color.V))
	}
	controller.bar.Paint(ledbar.SelectionMask(controller.selected, controller.store.Layers()), color)
}

// Release ends the session, stopping any preview and saving pending edits.
func (controller *Controller) Release() {
	if !controller.started {
		return
	}
	controller.cancelPreview()
	controller.started = false
	if controller.store.Flush() {
		controller.logger.Info("palette edits saved", "slot", controller.selected)
	}
}

// enter starts the session, or restarts it at slot 0 after the idle timeout.
func (controller *Controller) enter() {
	if controller.Active() {
		return
	}
	controller.cancelPreview()
	controller.activate()
}

func (controller *Controller) activate() {
	controller.started = true
	controller.selected = 0
	controller.touch()
	controller.logger.Debug("picker session started")
}

func (controller *Controller) touch() {
	controller.lastInput = controller.clock.Now()
}

func (controller *Controller) selectSlot(delta int) {
	controller.enter()
	controller.cancelPreview()
	selected := controller.selected + delta
	if selected < 0 {
		selected = 0
	}
	if selected > controller.store.CapsSlot() {
		selected = controller.store.CapsSlot()
	}
	controller.selected = selected
	controller.touch()
	controller.render()
}

func (controller *Controller) adjust(hueDelta, satDelta int) {
	controller.enter()
	controller.cancelPreview()
	color := controller.store.Color(controller.selected)
	color.H = model.WrapHue(int(color.H) + hueDelta)
	color.S = model.ClampByte(int(color.S) + satDelta)
	controller.store.SetColor(controller.selected, color)
	controller.touch()
	controller.render()
}

func (controller *Controller) stepAnim(forward bool) {
	controller.enter()
	if !controller.cursor.Valid() {
		controller.cursor = controller.store.Anim(controller.selected)
	}
	if forward {
		controller.cursor = controller.cursor.Next()
	} else {
		controller.cursor = controller.cursor.Prev()
	}
	controller.store.SetAnim(controller.selected, controller.cursor, false)

	controller.lighting.Enable()
	controller.lighting.SetColor(controller.slotColor())
	controller.lighting.SetMode(controller.cursor)
	controller.preview = animPreview{active: true, startedAt: controller.clock.Now()}
	controller.touch()
	controller.logger.Debug("animation preview", "slot", controller.selected, "mode", controller.cursor)
}

func (controller *Controller) cancelPreview() {
	if !controller.preview.active {
		return
	}
	controller.preview.active = false
	controller.lighting.SetMode(model.ModeStatic)
}

func (controller *Controller) slotColor() model.HSV {
	return controller.store.Color(controller.selected).WithValue(controller.lighting.Value())
}

func (controller *Controller) render() {
	controller.bar.Paint(ledbar.SelectionMask(controller.selected, controller.store.Layers()), controller.slotColor())
}

func (controller *Controller) breatheDelta(value uint8) int {
	amplitude := int(value>>2) + 8
	return amplitude * ledbar.Triangle(controller.clock.Now(), controller.config.BreathePeriod) / 100
}
