package palette

import (
	"testing"

	"mid1lights/internal/core/model"
	"mid1lights/internal/core/nvram"
	"mid1lights/internal/logging"
	"mid1lights/internal/sim"
)

const testBase = 16

func newTestStore(nvm *sim.NVM) *Store {
	return NewStore(nvm, testBase, 12, logging.Discard())
}

func TestInitSeedsDefaultsOnErasedMemory(t *testing.T) {
	nvm := sim.NewNVM(128)
	store := newTestStore(nvm)

	if store.Init(180) {
		t.Fatal("Init reported persisted state on erased memory")
	}
	if got := nvram.ReadWord(nvm, testBase); got != nvram.Signature {
		t.Fatalf("signature = %x", got)
	}

	tests := []struct {
		slot int
		want model.HSV
		mode model.Mode
	}{
		{0, model.HSV{H: 15, S: 255, V: 180}, model.ModeStatic},
		{1, model.HSV{H: 145, S: 255, V: 180}, model.ModeStatic},
		{6, model.HSV{H: 94, S: 122, V: 180}, model.ModeStatic},
		{7, model.HSV{H: 0, S: 0, V: 180}, model.ModeStatic},
		{11, model.HSV{H: 0, S: 0, V: 180}, model.ModeStatic},
		{12, model.HSV{H: 15, S: 255, V: 180}, model.ModeRainbowSwirl},
	}

	for _, tt := range tests {
		if got := store.Color(tt.slot); got != tt.want {
			t.Errorf("Color(%d) = %+v, want %+v", tt.slot, got, tt.want)
		}
		if got := store.Anim(tt.slot); got != tt.mode {
			t.Errorf("Anim(%d) = %v, want %v", tt.slot, got, tt.mode)
		}
	}
	if store.Dirty() {
		t.Error("store dirty after seeding")
	}
}

func TestRoundTrip(t *testing.T) {
	nvm := sim.NewNVM(128)
	store := newTestStore(nvm)
	store.Init(200)

	store.SetColor(3, model.HSV{H: 100, S: 50, V: 200})
	store.SetAnim(3, model.ModeKnight, false)
	store.SetColor(store.CapsSlot(), model.HSV{H: 300, S: 10, V: 200})

	if !store.Dirty() {
		t.Fatal("expected dirty store after edits")
	}
	if !store.Flush() {
		t.Fatal("Flush did not write")
	}

	reloaded := newTestStore(nvm)
	if !reloaded.Load() {
		t.Fatal("Load failed after save")
	}
	if got := reloaded.Color(3); got.H != 100 || got.S != 50 {
		t.Errorf("slot 3 = %+v", got)
	}
	if got := reloaded.Anim(3); got != model.ModeKnight {
		t.Errorf("slot 3 anim = %v", got)
	}
	if got := reloaded.Color(reloaded.CapsSlot()); got.H != 300 || got.S != 10 {
		t.Errorf("caps slot = %+v", got)
	}
	if reloaded.Dirty() {
		t.Error("freshly loaded store is dirty")
	}
}

func TestLoadRejectsBadSignature(t *testing.T) {
	nvm := sim.NewNVM(128)
	store := newTestStore(nvm)
	before := store.Color(2)

	if store.Load() {
		t.Fatal("Load succeeded without signature")
	}
	if store.Color(2) != before {
		t.Error("failed Load modified the store")
	}
}

func TestAnimDecoding(t *testing.T) {
	nvm := sim.NewNVM(128)
	store := newTestStore(nvm)
	store.Init(200)

	layout := store.Layout()
	nvm.UpdateByte(layout.AnimAt(4), 0)
	nvm.UpdateByte(layout.AnimAt(store.CapsSlot()), 0)

	store.Load()
	if got := store.Anim(4); got != model.ModeStatic {
		t.Errorf("anim 0 decoded as %v, want static", got)
	}
	if got := store.Anim(store.CapsSlot()); got != model.ModeRainbowSwirl {
		t.Errorf("caps anim 0 decoded as %v, want swirl", got)
	}
}

func TestOutOfRangeSlots(t *testing.T) {
	store := newTestStore(sim.NewNVM(128))
	store.Init(200)

	store.SetColor(99, model.Red)
	if store.Dirty() {
		t.Error("out of range SetColor marked the store dirty")
	}
	if store.Color(99) != store.Color(0) {
		t.Error("out of range Color should read slot 0")
	}
}

func TestSaveOnlyWritesChanges(t *testing.T) {
	nvm := sim.NewNVM(128)
	store := newTestStore(nvm)
	store.Init(200)

	before := nvm.Writes()
	store.Save()
	if got := nvm.Writes() - before; got != 0 {
		t.Errorf("unchanged save wrote %d bytes", got)
	}

	store.SetAnim(5, model.ModeTwinkle, true)
	if got := nvm.Writes() - before; got != 1 {
		t.Errorf("persisted anim change wrote %d bytes, want 1", got)
	}
	if store.Dirty() {
		t.Error("persisted SetAnim left the store dirty")
	}
}
