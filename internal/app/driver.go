// Package app runs the lighting runtime against the simulated keyboard and
// connects it to the event bus front ends talk to.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"mid1lights/internal/core/model"
	"mid1lights/internal/core/pomodoro"
	"mid1lights/internal/core/scheduler"
	"mid1lights/internal/events"
	"mid1lights/internal/logging"
	"mid1lights/internal/metrics"
	"mid1lights/internal/sim"
	"mid1lights/internal/storage"
)

// StripLEDs is the number of LEDs on the simulated keyboard.
const StripLEDs = model.CountdownLEDs

// Clock is the uptime source the driver ticks against.
type Clock interface {
	Now() time.Duration
}

// Config contains runtime options for Driver.
type Config struct {
	ScanInterval time.Duration
	Brightness   uint8
	// EEPROMPath is where the image is loaded from and saved to. Empty
	// keeps the image in memory only.
	EEPROMPath string
	Runtime    model.RuntimeConfig
}

// Driver owns the simulated host and the lighting runtime. Every call into
// the runtime happens under one mutex so input from several front ends is
// serialised with the scan loop.
type Driver struct {
	mu      sync.Mutex
	config  Config
	bus     *events.Bus
	host    *sim.Host
	clock   Clock
	runtime *scheduler.Runtime
	logger  logging.Logger

	pomodoroEvents <-chan pomodoro.Event
	layers         model.LayerState
	lastFrame      []model.HSV
	lastStatus     events.StatusEvent
	statusSent     bool
	pickerActive   bool
	initialised    bool

	unsubscribe []func()
	stopCh      chan struct{}
	done        chan struct{}
	started     bool
	running     bool
}

// New loads the EEPROM image and builds the runtime. Clock may be nil to use
// wall-clock uptime.
func New(config Config, bus *events.Bus, clock Clock, logger *slog.Logger) (*Driver, error) {
	if config.ScanInterval <= 0 {
		config.ScanInterval = 10 * time.Millisecond
	}
	if clock == nil {
		clock = sim.NewSystemClock()
	}
	if logger == nil {
		logger = logging.GetLogger("driver")
	}

	nvm := sim.NewNVM(config.Runtime.Storage.Size)
	if config.EEPROMPath != "" {
		image, err := storage.LoadImage(config.EEPROMPath, config.Runtime.Storage.Size)
		if err != nil {
			return nil, fmt.Errorf("load eeprom: %w", err)
		}
		if image != nil {
			nvm = sim.NewNVMFromImage(image)
		}
	}

	simHost := sim.NewHost(StripLEDs, nvm)
	simHost.SetBrightness(config.Brightness)

	runtime := scheduler.New(config.Runtime, scheduler.Deps{
		Strip:      simHost.Strip,
		Lighting:   simHost.Lighting,
		NVM:        simHost.NVM,
		Clock:      clock,
		Indicators: simHost.Indicators,
		Logger:     logger.With("component", "runtime"),
	})

	return &Driver{
		config:         config,
		bus:            bus,
		host:           simHost,
		clock:          clock,
		runtime:        runtime,
		logger:         logger,
		pomodoroEvents: runtime.Pomodoro().Subscribe(16),
		layers:         model.Layers(0),
		stopCh:         make(chan struct{}),
		done:           make(chan struct{}),
	}, nil
}

// Init runs the keyboard start-up sequence once.
func (driver *Driver) Init() {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	driver.initLocked()
}

func (driver *Driver) initLocked() {
	if driver.initialised {
		return
	}
	driver.initialised = true
	driver.runtime.Init()
	driver.runtime.OnLayerChange(driver.layers)
}

// Start subscribes to bus input and launches the scan loop.
func (driver *Driver) Start(ctx context.Context) {
	driver.mu.Lock()
	if driver.started {
		driver.mu.Unlock()
		return
	}
	driver.started = true
	driver.running = true
	driver.initLocked()
	driver.unsubscribe = append(driver.unsubscribe,
		driver.bus.Subscribe(func(event events.KeyEvent) {
			driver.Key(event.Keycode, event.Pressed)
		}),
		driver.bus.Subscribe(func(event events.EncoderEvent) {
			driver.Encoder(event.Index, event.Clockwise)
		}),
		driver.bus.Subscribe(func(event events.LayerEvent) {
			driver.SetLayer(event.Layer, event.Active)
		}),
		driver.bus.Subscribe(func(event events.CapsLockEvent) {
			driver.SetCapsLock(event.On)
		}),
	)
	driver.mu.Unlock()

	driver.logger.Info("driver started", "scan_interval", driver.config.ScanInterval)
	go driver.run(ctx)
}

// Stop terminates the scan loop and saves the EEPROM image.
func (driver *Driver) Stop() error {
	driver.mu.Lock()
	started := driver.started
	if driver.running {
		driver.running = false
		close(driver.stopCh)
	}
	unsubscribe := driver.unsubscribe
	driver.unsubscribe = nil
	driver.mu.Unlock()

	for _, unsub := range unsubscribe {
		unsub()
	}
	if started {
		<-driver.done
		driver.logger.Info("driver stopped")
	}
	return driver.Save()
}

// Save writes the EEPROM image when a path is configured.
func (driver *Driver) Save() error {
	if driver.config.EEPROMPath == "" {
		return nil
	}
	if err := storage.SaveImage(driver.config.EEPROMPath, driver.host.NVM.Image()); err != nil {
		return fmt.Errorf("save eeprom: %w", err)
	}
	return nil
}

func (driver *Driver) run(ctx context.Context) {
	defer close(driver.done)

	ticker := time.NewTicker(driver.config.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			driver.Step()
		case <-ctx.Done():
			driver.mu.Lock()
			if driver.running {
				driver.running = false
				close(driver.stopCh)
			}
			driver.mu.Unlock()
			return
		case <-driver.stopCh:
			return
		}
	}
}

// Step runs one scan: housekeeping, lighting effects, and notifications.
func (driver *Driver) Step() {
	driver.mu.Lock()
	driver.host.Strip.BeginFrame()
	driver.runtime.OnTick()
	driver.host.Lighting.Task(driver.clock.Now())

	pomodoroEvents := driver.drainPomodoroLocked()
	driver.trackPickerLocked()

	frame := driver.host.Frame()
	frameChanged := !slices.Equal(frame, driver.lastFrame)
	if frameChanged {
		driver.lastFrame = frame
	}
	status := driver.statusLocked()
	statusChanged := !driver.statusSent || status != driver.lastStatus
	driver.lastStatus = status
	driver.statusSent = true
	now := driver.clock.Now()
	driver.mu.Unlock()

	metrics.SetRemaining(status.Remaining)
	for _, event := range pomodoroEvents {
		driver.bus.Publish(event)
	}
	if frameChanged {
		metrics.RecordFrame()
		driver.bus.Publish(events.FrameEvent{LEDs: frame, At: now})
	}
	if statusChanged {
		driver.bus.Publish(status)
	}
}

func (driver *Driver) drainPomodoroLocked() []events.PomodoroEvent {
	var forwarded []events.PomodoroEvent
	for {
		select {
		case event := <-driver.pomodoroEvents:
			switch event.Type {
			case pomodoro.EventStateChange:
				metrics.RecordTransition(string(event.State))
			case pomodoro.EventCompleted:
				metrics.RecordPeriodCompleted(string(event.State))
			}
			forwarded = append(forwarded, events.PomodoroEvent{
				Kind:      string(event.Type),
				State:     string(event.State),
				Previous:  string(event.Previous),
				Remaining: event.Remaining,
				Progress:  event.Progress,
			})
		default:
			return forwarded
		}
	}
}

func (driver *Driver) trackPickerLocked() {
	active := driver.runtime.Picker().Active()
	if driver.pickerActive && !active {
		metrics.RecordPickerSession()
	}
	driver.pickerActive = active
}

// Key delivers a key press or release. It reports whether the runtime
// consumed it.
func (driver *Driver) Key(code model.Keycode, pressed bool) bool {
	driver.mu.Lock()
	consumed := driver.runtime.OnKeyEvent(model.KeyEvent{Keycode: code, Pressed: pressed})
	driver.mu.Unlock()

	if pressed {
		metrics.RecordKeyEvent(consumed)
		driver.logger.Debug("key", "keycode", code, "consumed", consumed)
	}
	return consumed
}

// Tap presses and releases code.
func (driver *Driver) Tap(code model.Keycode) bool {
	consumed := driver.Key(code, true)
	driver.Key(code, false)
	return consumed
}

// Encoder delivers one encoder detent.
func (driver *Driver) Encoder(index int, clockwise bool) bool {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	return driver.runtime.OnEncoder(model.EncoderEvent{Index: index, Clockwise: clockwise})
}

// SetLayer turns one layer on or off. Layer 0 stays on.
func (driver *Driver) SetLayer(layer int, active bool) {
	if layer <= 0 || layer > 31 {
		return
	}
	driver.mu.Lock()
	defer driver.mu.Unlock()

	if active {
		driver.layers = driver.layers.With(layer)
	} else {
		driver.layers = driver.layers.Without(layer)
	}
	driver.runtime.OnLayerChange(driver.layers)
}

// ToggleLayer flips one layer.
func (driver *Driver) ToggleLayer(layer int) {
	driver.mu.Lock()
	active := driver.layers.Has(layer)
	driver.mu.Unlock()
	driver.SetLayer(layer, !active)
}

// SetCapsLock changes the host Caps Lock indicator.
func (driver *Driver) SetCapsLock(on bool) {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	driver.setCapsLockLocked(on)
}

// ToggleCapsLock flips the host Caps Lock indicator.
func (driver *Driver) ToggleCapsLock() {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	driver.setCapsLockLocked(!driver.host.Indicators.CapsLock())
}

func (driver *Driver) setCapsLockLocked(on bool) {
	if driver.host.Indicators.CapsLock() == on {
		return
	}
	driver.host.Indicators.SetCapsLock(on)
	driver.runtime.OnCapsLock(on)
}

// SetBrightness changes the global brightness.
func (driver *Driver) SetBrightness(value uint8) {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	driver.host.SetBrightness(value)
}

// Frame returns the current LED colors.
func (driver *Driver) Frame() []model.HSV {
	return driver.host.Frame()
}

// Status returns a snapshot of the runtime.
func (driver *Driver) Status() events.StatusEvent {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	return driver.statusLocked()
}

// Layers returns the active layer stack.
func (driver *Driver) Layers() model.LayerState {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	return driver.layers
}

// NVMImage returns a copy of the EEPROM contents.
func (driver *Driver) NVMImage() []byte {
	return driver.host.NVM.Image()
}

func (driver *Driver) statusLocked() events.StatusEvent {
	timer := driver.runtime.Pomodoro()
	picker := driver.runtime.Picker()
	return events.StatusEvent{
		State:         string(timer.State()),
		Remaining:     timer.Remaining(),
		Paused:        timer.Paused(),
		WorkMinutes:   timer.WorkMinutes(),
		BreakMinutes:  timer.BreakMinutes(),
		Preview:       string(timer.Preview()),
		Layers:        driver.layers,
		CapsLock:      driver.host.Indicators.CapsLock(),
		PickerActive:  picker.Active(),
		PickerSlot:    picker.Selected(),
		LightingMode:  driver.host.Lighting.Mode(),
		BootAnimation: driver.runtime.Startup().Enabled(),
	}
}
