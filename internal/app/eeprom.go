package app

import (
	"mid1lights/internal/core/model"
	"mid1lights/internal/core/nvram"
	"mid1lights/internal/core/palette"
	"mid1lights/internal/logging"
	"mid1lights/internal/sim"
)

// Slot is one decoded palette entry.
type Slot struct {
	Color model.HSV
	Mode  model.Mode
}

// ImageSummary is the decoded content of an EEPROM image.
type ImageSummary struct {
	BootAnimation   bool
	BootInitialised bool
	WorkMinutes     uint8
	BreakMinutes    uint8
	PaletteValid    bool
	Slots           []Slot
	CapsSlot        int
}

// DecodeImage reads the userspace and palette records. A nil image reads as
// erased memory.
func DecodeImage(image []byte, config model.RuntimeConfig) ImageSummary {
	nvm := sim.NewNVM(config.Storage.Size)
	if image != nil {
		nvm = sim.NewNVMFromImage(image)
	}

	userspace := nvram.NewUserspace(nvm, config.Storage.UserspaceBase)
	enabled, initialised := userspace.BootFlag()
	summary := ImageSummary{
		BootAnimation:   enabled,
		BootInitialised: initialised,
		WorkMinutes:     userspace.WorkMinutes(config.Pomodoro.DefaultWorkMinutes),
		BreakMinutes:    userspace.BreakMinutes(config.Pomodoro.DefaultBreakMinutes),
	}

	store := palette.NewStore(nvm, config.Storage.PaletteBase, config.Picker.Layers, logging.Discard())
	summary.PaletteValid = store.Load()
	summary.CapsSlot = store.CapsSlot()
	for slot := 0; slot < store.Layers()+1; slot++ {
		summary.Slots = append(summary.Slots, Slot{Color: store.Color(slot), Mode: store.Anim(slot)})
	}
	return summary
}

// DefaultImage returns a factory image: boot animation on, default
// durations and the seeded palette at value.
func DefaultImage(config model.RuntimeConfig, value uint8) []byte {
	nvm := sim.NewNVM(config.Storage.Size)

	userspace := nvram.NewUserspace(nvm, config.Storage.UserspaceBase)
	userspace.SetBootFlag(true)
	userspace.SetWorkMinutes(config.Pomodoro.DefaultWorkMinutes)
	userspace.SetBreakMinutes(config.Pomodoro.DefaultBreakMinutes)

	palette.NewStore(nvm, config.Storage.PaletteBase, config.Picker.Layers, logging.Discard()).SeedDefaults(value)
	return nvm.Image()
}
