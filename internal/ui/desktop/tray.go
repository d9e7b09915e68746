package desktop

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"mid1lights/internal/events"
	"mid1lights/internal/ui/status"
)

// TrayCallbacks defines tray action handlers.
type TrayCallbacks struct {
	OnShow        func()
	OnToggleTimer func()
	OnResetTimer  func()
	OnPlayBoot    func()
	OnPreferences func()
	OnQuit        func()
}

// Tray handles system tray state.
type Tray struct {
	app        desktop.App
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	resetItem  *fyne.MenuItem
	callbacks  TrayCallbacks
}

// NewTray creates a tray menu with the provided callbacks.
func NewTray(app desktop.App, callbacks TrayCallbacks) *Tray {
	tray := &Tray{
		app:       app,
		callbacks: callbacks,
	}

	tray.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	tray.statusItem.Disabled = true

	tray.toggleItem = fyne.NewMenuItem("Start timer", func() {
		if tray.callbacks.OnToggleTimer != nil {
			tray.callbacks.OnToggleTimer()
		}
	})

	tray.resetItem = fyne.NewMenuItem("Restart period", func() {
		if tray.callbacks.OnResetTimer != nil {
			tray.callbacks.OnResetTimer()
		}
	})
	tray.resetItem.Disabled = true

	tray.refreshMenu()
	return tray
}

// SetStatus updates the status line and timer items.
func (tray *Tray) SetStatus(snapshot events.StatusEvent) {
	tray.statusItem.Label = fmt.Sprintf("Status: %s", status.Timer(snapshot))

	running := snapshot.State != "off"
	if running {
		tray.toggleItem.Label = "Stop timer"
	} else {
		tray.toggleItem.Label = "Start timer"
	}
	tray.resetItem.Disabled = snapshot.State != "work" && snapshot.State != "break"
	tray.refreshMenu()
}

func (tray *Tray) refreshMenu() {
	if tray.app == nil {
		return
	}
	tray.app.SetSystemTrayMenu(fyne.NewMenu("MID.1 Lights",
		tray.statusItem,
		fyne.NewMenuItem("Show keyboard", func() {
			if tray.callbacks.OnShow != nil {
				tray.callbacks.OnShow()
			}
		}),
		tray.toggleItem,
		tray.resetItem,
		fyne.NewMenuItem("Play boot animation", func() {
			if tray.callbacks.OnPlayBoot != nil {
				tray.callbacks.OnPlayBoot()
			}
		}),
		fyne.NewMenuItem("Preferences", func() {
			if tray.callbacks.OnPreferences != nil {
				tray.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItem("Quit", func() {
			if tray.callbacks.OnQuit != nil {
				tray.callbacks.OnQuit()
			}
		}),
	))
}
