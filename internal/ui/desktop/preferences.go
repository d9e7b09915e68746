package desktop

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"mid1lights/internal/ui/preferences"
)

// PreferencesWindow edits the host settings.
type PreferencesWindow struct {
	window     fyne.Window
	settings   preferences.Settings
	onSave     func(preferences.Settings)
	brightness *widget.Slider
	valueLabel *widget.Label
	reversed   *widget.Check
	scan       *widget.Entry
}

// NewPreferences creates a preferences window.
func NewPreferences(app fyne.App, settings preferences.Settings, onSave func(preferences.Settings)) *PreferencesWindow {
	window := app.NewWindow("MID.1 Lights Settings")

	valueLabel := widget.NewLabel("")
	brightness := widget.NewSlider(0, 255)
	brightness.Step = 1
	brightness.OnChanged = func(value float64) {
		valueLabel.SetText(fmt.Sprintf("%d", int(value)))
	}

	reversed := widget.NewCheck("LED bar wired right to left (applies on restart)", nil)

	scan := widget.NewEntry()

	form := container.NewVBox(
		widget.NewLabelWithStyle("Lighting", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, widget.NewLabel("Brightness"), valueLabel, brightness),
		reversed,
		container.NewHBox(widget.NewLabel("Scan interval"), scan, widget.NewLabel("ms")),
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 220))

	prefs := &PreferencesWindow{
		window:     window,
		onSave:     onSave,
		brightness: brightness,
		valueLabel: valueLabel,
		reversed:   reversed,
		scan:       scan,
	}
	prefs.UpdateSettings(settings)
	saveButton.OnTapped = prefs.handleSave

	return prefs
}

// Show displays the preferences window.
func (prefs *PreferencesWindow) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *PreferencesWindow) UpdateSettings(settings preferences.Settings) {
	prefs.settings = settings
	prefs.brightness.SetValue(float64(settings.Brightness))
	prefs.valueLabel.SetText(fmt.Sprintf("%d", settings.Brightness))
	prefs.reversed.SetChecked(settings.Reversed)
	prefs.scan.SetText(fmt.Sprintf("%d", int(settings.ScanInterval/time.Millisecond)))
}

func (prefs *PreferencesWindow) handleSave() {
	settings := prefs.settings

	settings.Brightness = uint8(prefs.brightness.Value)
	settings.Reversed = prefs.reversed.Checked
	if milliseconds, ok := parsePositiveInt(prefs.scan.Text); ok && milliseconds <= 100 {
		settings.ScanInterval = time.Duration(milliseconds) * time.Millisecond
	}

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
