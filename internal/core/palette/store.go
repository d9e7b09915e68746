// Package palette keeps the per-layer colors and animation modes and
// persists them to non-volatile memory.
package palette

import (
	"mid1lights/internal/core/host"
	"mid1lights/internal/core/model"
	"mid1lights/internal/core/nvram"
	"mid1lights/internal/logging"
)

// PickerDefault seeds the spare layers.
var PickerDefault = model.HSV{H: 0, S: 0}

var seedColors = []model.HSV{
	model.Orange,
	model.Blue,
	model.Green,
	model.Purple,
	model.Red,
	model.Red,
	model.Sage,
	model.White,
}

// Store holds one slot per layer plus the Caps Lock slot at index Layers().
// Slot values are kept for completeness but consumers render with the
// global brightness.
type Store struct {
	nvm    host.NVM
	layout nvram.PaletteLayout
	layers int
	colors []model.HSV
	anims  []model.Mode
	dirty  bool
	logger logging.Logger
}

// NewStore creates a store for layers layer slots at base. The store starts
// seeded with defaults at full value; call Init to load persisted state.
func NewStore(nvm host.NVM, base, layers int, logger logging.Logger) *Store {
	store := &Store{
		nvm:    nvm,
		layout: nvram.PaletteLayout{Base: base, Slots: layers + 1},
		layers: layers,
		logger: logger,
	}
	store.colors, store.anims = defaults(layers, 255)
	return store
}

// Layers returns the number of layer slots.
func (store *Store) Layers() int {
	return store.layers
}

// CapsSlot returns the index of the Caps Lock slot.
func (store *Store) CapsSlot() int {
	return store.layers
}

// Layout returns where the store lives in memory.
func (store *Store) Layout() nvram.PaletteLayout {
	return store.layout
}

// Init loads the persisted palette, seeding and persisting defaults when
// the signature is missing. It reports whether persisted state was found.
func (store *Store) Init(value uint8) bool {
	if !store.Load() {
		store.logger.Info("palette signature missing, seeding defaults")
		store.SeedDefaults(value)
		return false
	}
	caps := store.colors[store.CapsSlot()]
	if caps.S == 0 && caps.V == 0 && caps.H == 0 {
		seed := store.colors[0]
		store.colors[store.CapsSlot()] = model.HSV{H: seed.H, S: seed.S, V: value}
	}
	return true
}

// Load reads every slot. It returns false and leaves the store untouched
// when the signature does not match.
func (store *Store) Load() bool {
	if nvram.ReadWord(store.nvm, store.layout.SignatureAt()) != nvram.Signature {
		return false
	}
	for slot := 0; slot < store.layout.Slots; slot++ {
		store.colors[slot] = nvram.ReadRecord(store.nvm, store.layout.RecordAt(slot))
		store.anims[slot] = decodeMode(store.nvm.Byte(store.layout.AnimAt(slot)), slot == store.CapsSlot())
	}
	store.dirty = false
	return true
}

// Save writes the signature and every slot, then clears the dirty flag.
func (store *Store) Save() {
	nvram.UpdateWord(store.nvm, store.layout.SignatureAt(), nvram.Signature)
	for slot := 0; slot < store.layout.Slots; slot++ {
		nvram.UpdateRecord(store.nvm, store.layout.RecordAt(slot), store.colors[slot])
		store.nvm.UpdateByte(store.layout.AnimAt(slot), uint8(store.anims[slot]))
	}
	store.dirty = false
	store.logger.Debug("palette saved", "slots", store.layout.Slots)
}

// SeedDefaults resets every slot to the factory palette at value and
// persists it.
func (store *Store) SeedDefaults(value uint8) {
	store.colors, store.anims = defaults(store.layers, value)
	store.Save()
}

// Flush saves pending edits. It reports whether anything was written.
func (store *Store) Flush() bool {
	if !store.dirty {
		return false
	}
	store.Save()
	return true
}

// Dirty reports whether edits are waiting to be saved.
func (store *Store) Dirty() bool {
	return store.dirty
}

// Color returns the color of slot. Out of range slots read slot 0.
func (store *Store) Color(slot int) model.HSV {
	return store.colors[store.clamp(slot)]
}

// SetColor edits slot in memory and marks the store dirty. Out of range
// slots are ignored.
func (store *Store) SetColor(slot int, color model.HSV) {
	if !store.valid(slot) {
		return
	}
	color.H %= 360
	store.colors[slot] = color
	store.dirty = true
}

// Anim returns the animation mode of slot.
func (store *Store) Anim(slot int) model.Mode {
	return store.anims[store.clamp(slot)]
}

// SetAnim changes slot's animation mode. With persist the whole palette is
// written immediately, otherwise the store is marked dirty.
func (store *Store) SetAnim(slot int, mode model.Mode, persist bool) {
	if !store.valid(slot) {
		return
	}
	store.anims[slot] = mode
	if persist {
		store.Save()
		return
	}
	store.dirty = true
}

func (store *Store) valid(slot int) bool {
	return slot >= 0 && slot < store.layout.Slots
}

func (store *Store) clamp(slot int) int {
	if !store.valid(slot) {
		return 0
	}
	return slot
}

func decodeMode(raw uint8, caps bool) model.Mode {
	mode := model.Mode(raw)
	if raw == 0 && caps {
		return model.ModeRainbowSwirl
	}
	if raw == 0 || raw == nvram.Erased {
		return model.ModeStatic
	}
	return mode
}

func defaults(layers int, value uint8) ([]model.HSV, []model.Mode) {
	colors := make([]model.HSV, layers+1)
	anims := make([]model.Mode, layers+1)
	for slot := 0; slot < layers; slot++ {
		seed := PickerDefault
		if slot < len(seedColors) {
			seed = seedColors[slot]
		}
		colors[slot] = model.HSV{H: seed.H, S: seed.S, V: value}
		anims[slot] = model.ModeStatic
	}
	colors[layers] = model.HSV{H: colors[0].H, S: colors[0].S, V: value}
	anims[layers] = model.ModeRainbowSwirl
	if layers == 0 {
		colors[0] = model.HSV{H: model.Orange.H, S: model.Orange.S, V: value}
	}
	return colors, anims
}
