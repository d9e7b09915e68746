package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/spf13/cobra"

	"mid1lights/internal/app"
	"mid1lights/internal/events"
	"mid1lights/internal/core/model"
	desktopui "mid1lights/internal/ui/desktop"
	"mid1lights/resources"
)

func newDesktopCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "desktop",
		Short: "Show the LED bar in a desktop window with a tray menu",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDesktop(opts)
		},
	}
}

func runDesktop(opts *options) error {
	current, err := startSession(opts, os.Stderr)
	if err != nil {
		return err
	}

	fyneApp := fyneapp.NewWithID("com.mid1lights.app")
	fyneApp.SetIcon(resources.MustIcon(resources.IconApp))

	window := desktopui.New(fyneApp, current.bus, app.StripLEDs)
	defer window.Close()

	prefsWindow := desktopui.NewPreferences(fyneApp, current.settings, current.saveSettings)

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		runningIcon := resources.MustIcon(resources.IconRunning)
		idleIcon := resources.MustIcon(resources.IconIdle)

		tray := desktopui.NewTray(desktopApp, desktopui.TrayCallbacks{
			OnShow:        window.Show,
			OnToggleTimer: func() { current.driver.Tap(model.PomoToggle) },
			OnResetTimer:  func() { current.driver.Tap(model.PomoReset) },
			OnPlayBoot:    func() { current.driver.Tap(model.BootAnimPlay) },
			OnPreferences: prefsWindow.Show,
			OnQuit:        fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(idleIcon)

		lastState := ""
		unsub := current.bus.Subscribe(func(event events.StatusEvent) {
			fyne.Do(func() {
				tray.SetStatus(event)
				if event.State == lastState {
					return
				}
				lastState = event.State
				if event.State == "off" {
					desktopApp.SetSystemTrayIcon(idleIcon)
				} else {
					desktopApp.SetSystemTrayIcon(runningIcon)
				}
			})
		})
		defer unsub()
	} else {
		current.logger.Warn("system tray unsupported on this platform")
		window.SetMaster()
	}

	window.Show()
	fyneApp.Run()

	if err := current.close(); err != nil {
		return fmt.Errorf("shut down: %w", err)
	}
	return nil
}
