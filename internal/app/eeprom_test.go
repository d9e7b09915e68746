package app

import (
	"testing"

	"mid1lights/internal/core/model"
)

func TestDecodeErasedImage(t *testing.T) {
	summary := DecodeImage(nil, model.DefaultRuntimeConfig())

	if summary.PaletteValid {
		t.Error("erased image has no palette signature")
	}
	if summary.BootInitialised {
		t.Error("erased image has no boot flag")
	}
	if summary.WorkMinutes != 20 || summary.BreakMinutes != 10 {
		t.Errorf("minutes = %d/%d, want defaults 20/10", summary.WorkMinutes, summary.BreakMinutes)
	}
}

func TestDefaultImageRoundTrip(t *testing.T) {
	config := model.DefaultRuntimeConfig()
	image := DefaultImage(config, 200)
	if len(image) != config.Storage.Size {
		t.Fatalf("image size = %d, want %d", len(image), config.Storage.Size)
	}

	summary := DecodeImage(image, config)
	if !summary.PaletteValid {
		t.Fatal("default image should carry the palette signature")
	}
	if !summary.BootAnimation || !summary.BootInitialised {
		t.Error("default image enables the boot animation")
	}
	if got := len(summary.Slots); got != config.Picker.Layers+1 {
		t.Fatalf("slots = %d, want %d", got, config.Picker.Layers+1)
	}
	if got := summary.Slots[summary.CapsSlot].Mode; got != model.ModeRainbowSwirl {
		t.Errorf("caps slot mode = %v, want rainbow_swirl", got)
	}
}
