// Package pomodoro implements the work/break countdown shown on the
// countdown bar.
package pomodoro

import (
	"time"

	"mid1lights/internal/core/host"
	"mid1lights/internal/core/ledbar"
	"mid1lights/internal/core/model"
	"mid1lights/internal/core/nvram"
	"mid1lights/internal/logging"
)

// Environment is the slice of host state the controller samples each tick.
type Environment interface {
	WorkEditHeld() bool
	BreakEditHeld() bool
	CapsLock() bool
	// RestoreIdleStyle reapplies the standing lighting style after a
	// period ends.
	RestoreIdleStyle()
}

type preview struct {
	kind      PreviewKind
	until     time.Duration
	armedAt   time.Duration
	committed bool
}

type sweep struct {
	running   bool
	completed bool
	current   int
	target    int
	startedAt time.Duration
	steps     int
	wrapped   bool
}

const sweepLast = len(ledbar.CountdownPatterns) - 1

// Controller is a single-threaded state machine. The caller serialises all
// calls.
type Controller struct {
	config    model.PomodoroConfig
	settings  nvram.Userspace
	bar       *ledbar.Renderer
	lighting  host.Lighting
	clock     host.Clock
	env       Environment
	logger    logging.Logger
	events    []chan Event
	state     State
	work      uint8
	rest      uint8
	total     time.Duration
	remaining time.Duration
	startedAt time.Duration
	lastTick  time.Duration
	ticking   bool
	paused    bool
	preview   preview
	sweep     sweep
}

// New creates a controller in OFF, loading durations from settings.
func New(config model.PomodoroConfig, settings nvram.Userspace, bar *ledbar.Renderer, lighting host.Lighting, clock host.Clock, env Environment, logger logging.Logger) *Controller {
	return &Controller{
		config:   config,
		settings: settings,
		bar:      bar,
		lighting: lighting,
		clock:    clock,
		env:      env,
		logger:   logger,
		state:    StateOff,
		work:     settings.WorkMinutes(config.DefaultWorkMinutes),
		rest:     settings.BreakMinutes(config.DefaultBreakMinutes),
	}
}

// Subscribe registers a new observer channel. Slow observers miss events.
func (controller *Controller) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	controller.events = append(controller.events, ch)
	return ch
}

func (controller *Controller) State() State {
	return controller.state
}

// Remaining returns the time left in the running period.
func (controller *Controller) Remaining() time.Duration {
	return controller.remaining
}

// Total returns the full length of the running period.
func (controller *Controller) Total() time.Duration {
	return controller.total
}

// Paused reports whether a held edit layer is freezing the countdown.
func (controller *Controller) Paused() bool {
	return controller.paused
}

// WorkMinutes returns the work duration setting.
func (controller *Controller) WorkMinutes() uint8 {
	return controller.work
}

// BreakMinutes returns the break duration setting.
func (controller *Controller) BreakMinutes() uint8 {
	return controller.rest
}

// Preview returns the kind of the open preview window, if any.
func (controller *Controller) Preview() PreviewKind {
	if controller.preview.kind == PreviewNone || controller.clock.Now() >= controller.preview.until {
		return PreviewNone
	}
	return controller.preview.kind
}

// Running reports whether the controller owns the bar for a period.
func (controller *Controller) Running() bool {
	return controller.state != StateOff
}

// Process handles a custom keycode press and reports whether it was
// consumed.
func (controller *Controller) Process(code model.Keycode) bool {
	switch code {
	case model.PomoToggle:
		controller.Toggle()
	case model.PomoReset:
		controller.Reset()
	case model.PomoWorkDec:
		controller.AdjustWork(false)
	case model.PomoWorkInc:
		controller.AdjustWork(true)
	case model.PomoBreakDec:
		controller.AdjustBreak(false)
	case model.PomoBreakInc:
		controller.AdjustBreak(true)
	default:
		return false
	}
	return true
}

// Toggle starts a work period from OFF, or cancels whatever is running.
func (controller *Controller) Toggle() {
	if controller.state == StateOff {
		controller.startPeriod(StateWork)
		return
	}
	controller.stopPeriod()
}

// Cancel returns to OFF.
func (controller *Controller) Cancel() {
	if controller.state == StateOff {
		return
	}
	controller.stopPeriod()
}

// Reset restarts the running work or break period from its full length.
func (controller *Controller) Reset() {
	if controller.state != StateWork && controller.state != StateBreak {
		return
	}
	controller.startPeriod(controller.state)
}

// AdjustWork steps the work duration. See adjust.
func (controller *Controller) AdjustWork(up bool) {
	controller.adjust(StateWork, up)
}

// AdjustBreak steps the break duration. See adjust.
func (controller *Controller) AdjustBreak(up bool) {
	controller.adjust(StateBreak, up)
}

// adjust changes the remaining time of a matching running period directly.
// While OFF with the matching edit layer held a press commits one step at
// once. Otherwise the first press opens a preview of the current setting
// and a second press within the window commits one step. Presses for the other
// kind during a running period, and any press during the rainbow, are
// ignored.
func (controller *Controller) adjust(kind State, up bool) {
	switch controller.state {
	case kind:
		controller.adjustRunning(kind, up)
		return
	case StateOff:
		if controller.editHeld(kind) {
			controller.preview = preview{}
			controller.setSetting(kind, stepSetting(controller.setting(kind), up))
			return
		}
	default:
		return
	}

	now := controller.clock.Now()
	previewKind := PreviewWork
	if kind == StateBreak {
		previewKind = PreviewBreak
	}
	inWindow := controller.preview.kind == previewKind && now < controller.preview.until

	if inWindow {
		controller.setSetting(kind, stepSetting(controller.setting(kind), up))
		controller.preview = preview{kind: previewKind, until: now + controller.config.PreviewWindow, armedAt: now, committed: true}
	} else {
		controller.preview = preview{kind: previewKind, until: now + controller.config.PreviewWindow, armedAt: now}
	}
	controller.emit(Event{Type: EventPreview, Preview: previewKind})
}

func (controller *Controller) adjustRunning(kind State, up bool) {
	if up {
		controller.remaining = StepUpRemaining(controller.remaining)
	} else {
		controller.remaining = StepDownRemaining(controller.remaining)
	}
	controller.setSetting(kind, SettingFromRemaining(controller.remaining))
}

func stepSetting(minutes uint8, up bool) uint8 {
	if up {
		return StepUpSetting(minutes)
	}
	return StepDownSetting(minutes)
}

func (controller *Controller) setting(kind State) uint8 {
	if kind == StateBreak {
		return controller.rest
	}
	return controller.work
}

func (controller *Controller) setSetting(kind State, minutes uint8) {
	minutes = ClampMinutes(int(minutes))
	if kind == StateBreak {
		controller.rest = minutes
		controller.settings.SetBreakMinutes(minutes)
	} else {
		controller.work = minutes
		controller.settings.SetWorkMinutes(minutes)
	}
	controller.logger.Debug("duration changed", "kind", kind, "minutes", minutes)
	controller.emit(Event{Type: EventSettingChange})
}

// Tick advances the state machine and paints the countdown bar. It reports
// whether it drew anything this frame.
func (controller *Controller) Tick() bool {
	now := controller.clock.Now()

	switch controller.state {
	case StateOff:
		return controller.tickOff(now)
	case StateRainbow:
		controller.paintRainbow(now, ledbar.Mask(0xFF))
		if now-controller.startedAt >= controller.config.RainbowDuration {
			controller.startPeriod(StateBreak)
		}
		return true
	}

	if controller.tickSweep(now) {
		return true
	}

	controller.paused = controller.editHeld(controller.state)
	controller.advance(now)

	if controller.remaining == 0 {
		controller.finishPeriod(now)
		return true
	}

	controller.render(now)
	return true
}

func (controller *Controller) tickOff(now time.Duration) bool {
	workHeld, breakHeld := controller.env.WorkEditHeld(), controller.env.BreakEditHeld()
	if workHeld || breakHeld {
		kind := StateWork
		if breakHeld {
			kind = StateBreak
		}
		controller.paintTip(now, controller.settingMask(kind), controller.colorFor(kind))
		return true
	}

	if controller.preview.kind == PreviewNone {
		return false
	}
	if now >= controller.preview.until {
		controller.preview = preview{}
		controller.emit(Event{Type: EventPreview, Preview: PreviewNone})
		return false
	}

	kind := StateWork
	if controller.preview.kind == PreviewBreak {
		kind = StateBreak
	}
	color := controller.colorFor(kind)
	mask := controller.settingMask(kind)

	if controller.preview.committed {
		controller.bar.Paint(mask, color)
	} else {
		bright, done := ledbar.Blink(now-controller.preview.armedAt, controller.config.DoubleBlink, 2)
		if done {
			controller.preview.committed = true
		}
		if !bright {
			color.V = model.ScalePercent(color.V, controller.config.BlinkLowPercent)
		}
		controller.bar.Paint(mask, color)
	}
	return true
}

// tickSweep plays the start-of-period lap. It reports whether the sweep
// owned this frame.
func (controller *Controller) tickSweep(now time.Duration) bool {
	if controller.sweep.completed {
		return false
	}
	if !controller.sweep.running {
		target := PatternIndex(MinutesCeil(controller.remaining))
		if target == 0 {
			target = 1
		}
		controller.sweep = sweep{running: true, current: 1, target: target, startedAt: now}
	}

	controller.bar.Paint(ledbar.CountdownPatterns[controller.sweep.current], controller.colorFor(controller.state))

	due := int((now - controller.sweep.startedAt) / controller.config.SweepStep)
	for controller.sweep.steps < due {
		controller.sweep.steps++
		if controller.sweep.current >= sweepLast {
			controller.sweep.current = 1
			controller.sweep.wrapped = true
		} else {
			controller.sweep.current++
		}
		if controller.sweep.wrapped && controller.sweep.current == controller.sweep.target {
			controller.sweep.running = false
			controller.sweep.completed = true
			break
		}
	}
	return true
}

func (controller *Controller) advance(now time.Duration) {
	if !controller.ticking {
		controller.ticking = true
		controller.lastTick = now
		return
	}
	delta := now - controller.lastTick
	if delta < controller.config.CountdownGranularity {
		return
	}
	controller.lastTick = now
	if controller.paused {
		return
	}
	if delta >= controller.remaining {
		controller.remaining = 0
		return
	}
	controller.remaining -= delta
}

func (controller *Controller) finishPeriod(now time.Duration) {
	finished := controller.state
	controller.emit(Event{Type: EventCompleted, State: finished})
	controller.logger.Info("period completed", "kind", finished)

	if finished == StateWork {
		previous := controller.state
		controller.state = StateRainbow
		controller.startedAt = now
		controller.total = 0
		controller.remaining = 0
		controller.emit(Event{Type: EventStateChange, Previous: previous})
		return
	}
	controller.stopPeriod()
}

func (controller *Controller) render(now time.Duration) {
	minutes := MinutesCeil(controller.remaining)
	mask := ledbar.CountdownPatterns[PatternIndex(minutes)]
	color := controller.colorFor(controller.state)

	switch {
	case controller.paused:
		controller.paintTip(now, mask, color)
	case controller.env.CapsLock():
		controller.paintRainbow(now, mask)
	case minutes <= 5:
		low := controller.config.PulseLowPercent
		if minutes <= 1 {
			low = 30
		}
		triangle := ledbar.Triangle(now, pulsePeriod(minutes))
		controller.bar.Paint(mask, color.WithValue(ledbar.Breathe(color.V, low, controller.config.PulseHighPercent, triangle)))
	default:
		controller.bar.Paint(mask, color)
		if tip := controller.bar.RightmostLit(mask); tip >= 0 {
			triangle := ledbar.Triangle(now, controller.config.TipPeriod)
			value := ledbar.Breathe(color.V, controller.config.TipLowPercent, controller.config.TipHighPercent, triangle)
			controller.bar.PaintSingle(tip, color.WithValue(value))
		}
	}
}

func (controller *Controller) paintTip(now time.Duration, mask ledbar.Mask, color model.HSV) {
	triangle := ledbar.Triangle(now, controller.config.TipPeriod)
	value := ledbar.Breathe(color.V, controller.config.TipLowPercent, controller.config.TipHighPercent, triangle)
	controller.bar.Paint(mask, color.WithValue(value))
}

func (controller *Controller) paintRainbow(now time.Duration, mask ledbar.Mask) {
	base := int((now - controller.startedAt).Milliseconds() / 6)
	value := controller.lighting.Value()
	count := controller.bar.Len()
	controller.bar.PaintWith(func(position int) model.HSV {
		if !controller.bar.Lit(mask, position) {
			return model.Black
		}
		return model.HSV{H: ledbar.WheelHue(base + position*256/count), S: 255, V: value}
	})
}

func (controller *Controller) settingMask(kind State) ledbar.Mask {
	return ledbar.CountdownPatterns[PatternIndex(int(controller.setting(kind)))]
}

func (controller *Controller) colorFor(kind State) model.HSV {
	if kind == StateBreak {
		return controller.config.BreakColor.WithValue(controller.lighting.Value())
	}
	return controller.lighting.Color().WithValue(controller.lighting.Value())
}

func (controller *Controller) editHeld(kind State) bool {
	if kind == StateBreak {
		return controller.env.BreakEditHeld()
	}
	return controller.env.WorkEditHeld()
}

func (controller *Controller) startPeriod(kind State) {
	previous := controller.state
	now := controller.clock.Now()
	controller.state = kind
	controller.total = time.Duration(controller.setting(kind)) * minute
	controller.remaining = controller.total
	controller.startedAt = now
	controller.ticking = false
	controller.paused = false
	controller.preview = preview{}
	controller.sweep = sweep{}
	controller.logger.Info("period started", "kind", kind, "minutes", controller.setting(kind))
	controller.emit(Event{Type: EventStateChange, Previous: previous})
}

func (controller *Controller) stopPeriod() {
	previous := controller.state
	controller.state = StateOff
	controller.total = 0
	controller.remaining = 0
	controller.ticking = false
	controller.paused = false
	controller.preview = preview{}
	controller.sweep = sweep{}
	controller.emit(Event{Type: EventStateChange, Previous: previous})
	controller.env.RestoreIdleStyle()
}

func (controller *Controller) progress() float64 {
	if controller.total <= 0 {
		return 0
	}
	return float64(controller.total-controller.remaining) / float64(controller.total)
}

func (controller *Controller) emit(event Event) {
	if event.State == "" {
		event.State = controller.state
	}
	event.Remaining = controller.remaining
	event.Progress = controller.progress()
	event.WorkMinutes = controller.work
	event.BreakMinutes = controller.rest
	event.At = controller.clock.Now()

	for _, ch := range controller.events {
		select {
		case ch <- event:
		default:
		}
	}
}
