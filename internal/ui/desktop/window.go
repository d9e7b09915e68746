// Package desktop is the fyne front end: an LED bar mirror with the MID.1
// custom keys, layer holds, encoders and the Caps Lock indicator.
package desktop

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"mid1lights/internal/core/model"
	"mid1lights/internal/events"
	"mid1lights/internal/ui/status"
)

const ledSize = float32(36)

// Window mirrors the LED strip and sends input to the driver through the bus.
type Window struct {
	app         fyne.App
	window      fyne.Window
	bus         *events.Bus
	leds        []*canvas.Circle
	timerLabel  *canvas.Text
	detailLabel *widget.Label
	layerChecks map[int]*widget.Check
	capsCheck   *widget.Check
	unsubscribe []func()
}

type layerHold struct {
	layer int
	label string
}

var layerHolds = []layerHold{
	{6, "Work edit"},
	{7, "Break edit"},
	{8, "Picker hue"},
	{9, "Picker sat"},
	{10, "Picker anim"},
}

// New creates the main window for count LEDs.
func New(app fyne.App, bus *events.Bus, count int) *Window {
	window := app.NewWindow("MID.1 Lights")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	desktopWindow := &Window{
		app:         app,
		window:      window,
		bus:         bus,
		layerChecks: make(map[int]*widget.Check, len(layerHolds)),
	}

	ledObjects := make([]fyne.CanvasObject, count)
	for i := range count {
		led := canvas.NewCircle(color.NRGBA{A: 255})
		led.StrokeColor = color.NRGBA{R: 60, G: 60, B: 60, A: 255}
		led.StrokeWidth = 1
		desktopWindow.leds = append(desktopWindow.leds, led)
		ledObjects[i] = led
	}
	ledBar := container.NewCenter(container.NewGridWrap(fyne.NewSize(ledSize, ledSize), ledObjects...))

	timerLabel := canvas.NewText("--:--", color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	timerLabel.Alignment = fyne.TextAlignCenter
	timerLabel.TextStyle = fyne.TextStyle{Bold: true}
	timerLabel.TextSize = 18
	desktopWindow.timerLabel = timerLabel

	desktopWindow.detailLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})

	layerRow := container.NewHBox()
	for _, hold := range layerHolds {
		layer := hold.layer
		check := widget.NewCheck(fmt.Sprintf("%d %s", layer, hold.label), func(on bool) {
			bus.Publish(events.LayerEvent{Layer: layer, Active: on})
		})
		desktopWindow.layerChecks[layer] = check
		layerRow.Add(check)
	}

	desktopWindow.capsCheck = widget.NewCheck("Caps Lock", func(on bool) {
		bus.Publish(events.CapsLockEvent{On: on})
	})

	content := container.NewVBox(
		ledBar,
		timerLabel,
		desktopWindow.detailLabel,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Pomodoro", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		desktopWindow.keyRow(model.PomoToggle, model.PomoReset, model.PomoWorkDec, model.PomoWorkInc, model.PomoBreakDec, model.PomoBreakInc),
		widget.NewLabelWithStyle("Color picker", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		desktopWindow.keyRow(model.PickerLayerDec, model.PickerLayerInc, model.PickerHueDec, model.PickerHueInc, model.PickerSatDec, model.PickerSatInc),
		desktopWindow.keyRow(model.PickerAnimDec, model.PickerAnimInc, model.PickerReset, model.BootAnimToggle, model.BootAnimPlay),
		widget.NewLabelWithStyle("Encoders", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(desktopWindow.encoderButtons(0)...),
		container.NewHBox(desktopWindow.encoderButtons(1)...),
		widget.NewLabelWithStyle("Layers", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		layerRow,
		desktopWindow.capsCheck,
	)

	window.SetContent(container.NewPadded(content))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	desktopWindow.unsubscribe = append(desktopWindow.unsubscribe,
		bus.Subscribe(func(event events.FrameEvent) {
			fyne.Do(func() {
				desktopWindow.setFrame(event.LEDs)
			})
		}),
		bus.Subscribe(func(event events.StatusEvent) {
			fyne.Do(func() {
				desktopWindow.setStatus(event)
			})
		}),
	)

	return desktopWindow
}

// Show displays the window.
func (desktopWindow *Window) Show() {
	desktopWindow.window.Show()
	desktopWindow.window.RequestFocus()
}

// SetMaster makes closing the window quit the application. Used when no
// system tray is available to bring it back.
func (desktopWindow *Window) SetMaster() {
	desktopWindow.window.SetCloseIntercept(nil)
	desktopWindow.window.SetMaster()
}

// Close detaches the window from the bus.
func (desktopWindow *Window) Close() {
	for _, unsub := range desktopWindow.unsubscribe {
		unsub()
	}
	desktopWindow.unsubscribe = nil
}

func (desktopWindow *Window) keyRow(codes ...model.Keycode) *fyne.Container {
	row := container.NewHBox()
	for _, code := range codes {
		row.Add(widget.NewButton(code.String(), func() {
			desktopWindow.tap(code)
		}))
	}
	return row
}

func (desktopWindow *Window) encoderButtons(index int) []fyne.CanvasObject {
	return []fyne.CanvasObject{
		widget.NewLabel(fmt.Sprintf("Encoder %d", index)),
		widget.NewButton("◀", func() {
			desktopWindow.bus.Publish(events.EncoderEvent{Index: index})
		}),
		widget.NewButton("▶", func() {
			desktopWindow.bus.Publish(events.EncoderEvent{Index: index, Clockwise: true})
		}),
	}
}

func (desktopWindow *Window) tap(code model.Keycode) {
	desktopWindow.bus.Publish(events.KeyEvent{Keycode: code, Pressed: true})
	desktopWindow.bus.Publish(events.KeyEvent{Keycode: code, Pressed: false})
}

func (desktopWindow *Window) setFrame(leds []model.HSV) {
	for i, led := range desktopWindow.leds {
		if i >= len(leds) {
			break
		}
		led.FillColor = status.NRGBA(leds[i])
		led.Refresh()
	}
}

func (desktopWindow *Window) setStatus(snapshot events.StatusEvent) {
	desktopWindow.timerLabel.Text = status.Timer(snapshot)
	desktopWindow.timerLabel.Refresh()
	desktopWindow.detailLabel.SetText(status.Detail(snapshot))

	// Reflect layer changes made from other front ends without re-publishing.
	for layer, check := range desktopWindow.layerChecks {
		if check.Checked != snapshot.Layers.Has(layer) {
			onChanged := check.OnChanged
			check.OnChanged = nil
			check.SetChecked(snapshot.Layers.Has(layer))
			check.OnChanged = onChanged
		}
	}
	if desktopWindow.capsCheck.Checked != snapshot.CapsLock {
		onChanged := desktopWindow.capsCheck.OnChanged
		desktopWindow.capsCheck.OnChanged = nil
		desktopWindow.capsCheck.SetChecked(snapshot.CapsLock)
		desktopWindow.capsCheck.OnChanged = onChanged
	}
}
