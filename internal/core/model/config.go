package model

import "time"

// Fixed LED counts of the two bars.
const (
	CountdownLEDs = 8
	SelectionLEDs = 6
)

// BarConfig places the countdown and selection bars on the strip.
type BarConfig struct {
	CountdownFirst    int
	CountdownReversed bool
	SelectionFirst    int
	SelectionReversed bool
}

// PomodoroConfig contains timing and styling for the countdown timer.
type PomodoroConfig struct {
	DefaultWorkMinutes  uint8
	DefaultBreakMinutes uint8

	PreviewWindow        time.Duration
	RainbowDuration      time.Duration
	SweepStep            time.Duration
	DoubleBlink          time.Duration
	CountdownGranularity time.Duration

	BlinkLowPercent  int
	PulseLowPercent  int
	PulseHighPercent int

	TipPeriod      time.Duration
	TipLowPercent  int
	TipHighPercent int

	BreakColor HSV
}

// PickerConfig contains the Color Picker edit session settings.
type PickerConfig struct {
	Layers        int
	IdleTimeout   time.Duration
	HueStep       int
	SatStep       int
	AnimPreview   time.Duration
	Breathe       bool
	BreathePeriod time.Duration
}

// StartupConfig describes the boot animation.
type StartupConfig struct {
	RollDuration time.Duration
	Rolls        int
	Color        HSV
}

// LayerConfig names the layers with special meaning.
type LayerConfig struct {
	WorkEdit   int
	BreakEdit  int
	PickerHue  int
	PickerSat  int
	PickerAnim int
}

// IsPicker reports whether layer is one of the Color Picker edit layers.
func (config LayerConfig) IsPicker(layer int) bool {
	return layer == config.PickerHue || layer == config.PickerSat || layer == config.PickerAnim
}

// AnyPicker reports whether any Color Picker edit layer is active in state.
func (config LayerConfig) AnyPicker(state LayerState) bool {
	return state.Has(config.PickerHue) || state.Has(config.PickerSat) || state.Has(config.PickerAnim)
}

// SchedulerConfig contains housekeeping settings.
type SchedulerConfig struct {
	ResyncDelay time.Duration
}

// StorageConfig places the persisted blocks in non-volatile memory.
type StorageConfig struct {
	UserspaceBase int
	PaletteBase   int
	Size          int
}

// RuntimeConfig aggregates every component configuration.
type RuntimeConfig struct {
	Bar       BarConfig
	Pomodoro  PomodoroConfig
	Picker    PickerConfig
	Startup   StartupConfig
	Layers    LayerConfig
	Scheduler SchedulerConfig
	Storage   StorageConfig
}

// DefaultRuntimeConfig returns the MID.1 defaults.
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Bar: BarConfig{
			CountdownFirst:    0,
			CountdownReversed: true,
			SelectionFirst:    0,
			SelectionReversed: true,
		},
		Pomodoro: PomodoroConfig{
			DefaultWorkMinutes:   20,
			DefaultBreakMinutes:  10,
			PreviewWindow:        2000 * time.Millisecond,
			RainbowDuration:      3000 * time.Millisecond,
			SweepStep:            90 * time.Millisecond,
			DoubleBlink:          450 * time.Millisecond,
			CountdownGranularity: 50 * time.Millisecond,
			BlinkLowPercent:      40,
			PulseLowPercent:      35,
			PulseHighPercent:     100,
			TipPeriod:            1200 * time.Millisecond,
			TipLowPercent:        8,
			TipHighPercent:       90,
			BreakColor:           White,
		},
		Picker: PickerConfig{
			Layers:        12,
			IdleTimeout:   4000 * time.Millisecond,
			HueStep:       5,
			SatStep:       12,
			AnimPreview:   3000 * time.Millisecond,
			Breathe:       true,
			BreathePeriod: 1100 * time.Millisecond,
		},
		Startup: StartupConfig{
			RollDuration: 400 * time.Millisecond,
			Rolls:        8,
			Color:        Orange,
		},
		Layers: LayerConfig{
			WorkEdit:   6,
			BreakEdit:  7,
			PickerHue:  8,
			PickerSat:  9,
			PickerAnim: 10,
		},
		Scheduler: SchedulerConfig{
			ResyncDelay: 2 * time.Second,
		},
		Storage: StorageConfig{
			UserspaceBase: 0,
			PaletteBase:   16,
			Size:          128,
		},
	}
}
