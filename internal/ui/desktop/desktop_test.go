package desktop

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"mid1lights/internal/events"
	"mid1lights/internal/ui/preferences"
)

func TestTraySetStatus(t *testing.T) {
	tray := NewTray(nil, TrayCallbacks{})

	tray.SetStatus(events.StatusEvent{State: "work", Remaining: 5 * time.Minute})
	if tray.toggleItem.Label != "Stop timer" {
		t.Errorf("toggle label = %q, want Stop timer", tray.toggleItem.Label)
	}
	if tray.resetItem.Disabled {
		t.Error("restart should be enabled during work")
	}
	if tray.statusItem.Label != "Status: work 05:00" {
		t.Errorf("status label = %q", tray.statusItem.Label)
	}

	tray.SetStatus(events.StatusEvent{State: "rainbow"})
	if tray.toggleItem.Label != "Stop timer" || !tray.resetItem.Disabled {
		t.Error("rainbow is running but cannot be restarted")
	}

	tray.SetStatus(events.StatusEvent{State: "off"})
	if tray.toggleItem.Label != "Start timer" {
		t.Errorf("toggle label = %q, want Start timer", tray.toggleItem.Label)
	}
}

func TestPreferencesSave(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	var saved preferences.Settings
	prefs := NewPreferences(app, preferences.DefaultSettings(), func(settings preferences.Settings) {
		saved = settings
	})

	prefs.brightness.SetValue(100)
	prefs.reversed.SetChecked(false)
	prefs.scan.SetText("20")
	prefs.handleSave()

	if saved.Brightness != 100 {
		t.Errorf("brightness = %d, want 100", saved.Brightness)
	}
	if saved.Reversed {
		t.Error("reversed should be false")
	}
	if saved.ScanInterval != 20*time.Millisecond {
		t.Errorf("scan interval = %v, want 20ms", saved.ScanInterval)
	}
}

func TestPreferencesIgnoresInvalidScanInterval(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	var saved preferences.Settings
	prefs := NewPreferences(app, preferences.DefaultSettings(), func(settings preferences.Settings) {
		saved = settings
	})

	prefs.scan.SetText("fast")
	prefs.handleSave()

	if saved.ScanInterval != preferences.DefaultSettings().ScanInterval {
		t.Errorf("scan interval = %v, want default", saved.ScanInterval)
	}
}

func TestParsePositiveInt(t *testing.T) {
	if _, ok := parsePositiveInt("0"); ok {
		t.Error("zero should be rejected")
	}
	if value, ok := parsePositiveInt("12"); !ok || value != 12 {
		t.Errorf("got %d, %v", value, ok)
	}
}
