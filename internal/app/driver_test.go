package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"mid1lights/internal/core/model"
	"mid1lights/internal/events"
	"mid1lights/internal/logging"
	"mid1lights/internal/sim"
)

func newTestDriver(t *testing.T, eepromPath string) (*Driver, *events.Bus, *sim.ManualClock) {
	t.Helper()

	bus := events.New()
	clock := &sim.ManualClock{}
	driver, err := New(Config{
		ScanInterval: 10 * time.Millisecond,
		Brightness:   200,
		EEPROMPath:   eepromPath,
		Runtime:      model.DefaultRuntimeConfig(),
	}, bus, clock, logging.Discard())
	if err != nil {
		t.Fatalf("new driver: %v", err)
	}
	return driver, bus, clock
}

func advance(driver *Driver, clock *sim.ManualClock, duration time.Duration) {
	const step = 10 * time.Millisecond
	for elapsed := time.Duration(0); elapsed < duration; elapsed += step {
		clock.Advance(step)
		driver.Step()
	}
}

func TestDriverPublishesFrames(t *testing.T) {
	driver, bus, clock := newTestDriver(t, "")
	frames := make(chan events.FrameEvent, 64)
	unsub := bus.Subscribe(func(e events.FrameEvent) {
		select {
		case frames <- e:
		default:
		}
	})
	defer unsub()

	driver.Init()
	advance(driver, clock, 10*time.Millisecond)

	select {
	case frame := <-frames:
		if len(frame.LEDs) != StripLEDs {
			t.Fatalf("frame has %d LEDs, want %d", len(frame.LEDs), StripLEDs)
		}
	case <-time.After(time.Second):
		t.Fatal("no frame published")
	}
}

func TestDriverPomodoroStatus(t *testing.T) {
	driver, bus, clock := newTestDriver(t, "")
	pomodoroEvents := make(chan events.PomodoroEvent, 16)
	unsub := bus.Subscribe(func(e events.PomodoroEvent) {
		select {
		case pomodoroEvents <- e:
		default:
		}
	})
	defer unsub()

	driver.Init()
	advance(driver, clock, 4*time.Second)

	if !driver.Tap(model.PomoToggle) {
		t.Fatal("POMO_TOGGLE should be consumed")
	}
	advance(driver, clock, 10*time.Millisecond)

	status := driver.Status()
	if status.State != "work" {
		t.Fatalf("state = %q, want work", status.State)
	}
	if status.WorkMinutes != 20 || status.BreakMinutes != 10 {
		t.Fatalf("minutes = %d/%d, want 20/10", status.WorkMinutes, status.BreakMinutes)
	}

	deadline := time.After(time.Second)
	for {
		select {
		case event := <-pomodoroEvents:
			if event.Kind == "state_change" && event.State == "work" {
				return
			}
		case <-deadline:
			t.Fatal("no work state change forwarded")
		}
	}
}

func TestDriverLayersAndCapsLock(t *testing.T) {
	driver, _, _ := newTestDriver(t, "")
	driver.Init()

	driver.SetLayer(6, true)
	if !driver.Layers().Has(6) {
		t.Fatal("layer 6 should be active")
	}
	driver.SetLayer(0, false)
	if !driver.Layers().Has(0) {
		t.Fatal("layer 0 must stay active")
	}
	driver.ToggleLayer(6)
	if driver.Layers().Has(6) {
		t.Fatal("layer 6 should be off after toggle")
	}

	driver.ToggleCapsLock()
	if !driver.Status().CapsLock {
		t.Fatal("caps lock should be on")
	}
}

func TestDriverConcurrentCapsLockToggles(t *testing.T) {
	driver, _, _ := newTestDriver(t, "")
	driver.Init()

	const toggles = 100
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			driver.ToggleCapsLock()
		}()
	}
	wg.Wait()

	if driver.Status().CapsLock {
		t.Error("an even number of toggles should leave caps lock off")
	}

	driver.ToggleCapsLock()
	if !driver.Status().CapsLock {
		t.Error("one more toggle should turn caps lock on")
	}
}

func TestDriverEncoderOnlyOnPickerLayers(t *testing.T) {
	driver, _, _ := newTestDriver(t, "")
	driver.Init()

	if driver.Encoder(0, true) {
		t.Fatal("encoder should pass through on the base layer")
	}
	driver.SetLayer(8, true)
	if !driver.Encoder(0, true) {
		t.Fatal("encoder should be consumed on a picker layer")
	}
}

func TestDriverPersistsEEPROM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eeprom.bin")

	driver, _, clock := newTestDriver(t, path)
	driver.Init()
	advance(driver, clock, 4*time.Second)
	driver.Tap(model.PomoWorkInc)
	advance(driver, clock, 100*time.Millisecond)
	driver.Tap(model.PomoWorkInc)

	if err := driver.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	saved, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read image: %v", err)
	}
	if !bytes.Equal(saved, driver.NVMImage()) {
		t.Fatal("saved image differs from memory")
	}

	if driver.Status().WorkMinutes == 20 {
		t.Fatal("committed adjustment should change the work minutes")
	}

	reloaded, _, _ := newTestDriver(t, path)
	reloaded.Init()
	if got := reloaded.Status().WorkMinutes; got != driver.Status().WorkMinutes {
		t.Fatalf("reloaded work minutes = %d, want %d", got, driver.Status().WorkMinutes)
	}
}

func TestDriverStartAppliesBusInput(t *testing.T) {
	bus := events.New()
	driver, err := New(Config{Brightness: 200, Runtime: model.DefaultRuntimeConfig()}, bus, nil, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	driver.Start(ctx)

	bus.Publish(events.LayerEvent{Layer: 7, Active: true})

	deadline := time.Now().Add(time.Second)
	for !driver.Layers().Has(7) {
		if time.Now().After(deadline) {
			t.Fatal("layer event not applied")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := driver.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
