// Package gui implements the two-view desktop surface: a main view
// with the trigger button and the three result panels, and a settings
// view for the recognition API key.
package gui

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/vmarinov/cliplingo/internal"
	"codeberg.org/vmarinov/cliplingo/internal/clipboard"
	"codeberg.org/vmarinov/cliplingo/internal/pipeline"
)

const (
	triggerLabelIdle    = "Translate clipboard"
	triggerLabelRunning = "Working..."
)

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	controller *pipeline.Controller

	// Main view elements
	triggerButton   *ttwidget.Button
	settingsButton  *ttwidget.Button
	imagePanel      *ImagePanel
	recognizedLabel *widget.Label
	translatedLabel *widget.Label
	statusLabel     *widget.Label
	mainView        *fyne.Container

	// Settings view elements
	keyEntry     *widget.Entry
	settingsView *fyne.Container

	content *fyne.Container

	// Background processing
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates the GUI application around an existing pipeline controller
func New(controller *pipeline.Controller) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	a := &Application{
		app:        app.NewWithID("org.codeberg.vmarinov.cliplingo"),
		controller: controller,
		ctx:        ctx,
		cancel:     cancel,
	}

	a.setupUI()

	// Project every controller state change onto the widgets. The
	// callback may fire from a pipeline goroutine, so hop onto the
	// Fyne main thread first.
	controller.OnChange(func(snap pipeline.Snapshot) {
		fyne.Do(func() {
			a.applySnapshot(snap)
		})
	})

	return a
}

// setupUI creates both views and shows the main one
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("cliplingo v%s", internal.Version))
	a.window.Resize(fyne.NewSize(520, 640))

	a.buildMainView()
	a.buildSettingsView()

	a.content = container.NewStack(a.mainView, a.settingsView)
	a.settingsView.Hide()

	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(a.content, a.window.Canvas()))
	a.setupTooltips()

	a.window.SetOnClosed(func() {
		a.cancel()
		a.controller.Abort()
		a.wg.Wait()
	})
}

func (a *Application) buildMainView() {
	a.triggerButton = ttwidget.NewButton(triggerLabelIdle, a.onTrigger)
	a.triggerButton.Icon = theme.MediaPhotoIcon()

	a.settingsButton = ttwidget.NewButton("", a.onOpenSettings)
	a.settingsButton.Icon = theme.SettingsIcon()

	buttonRow := container.NewBorder(nil, nil, nil, a.settingsButton, a.triggerButton)

	a.imagePanel = NewImagePanel()

	a.recognizedLabel = widget.NewLabel("")
	a.recognizedLabel.Wrapping = fyne.TextWrapWord
	a.translatedLabel = widget.NewLabel("")
	a.translatedLabel.Wrapping = fyne.TextWrapWord

	recognizedSection := container.NewBorder(
		widget.NewLabel("Recognized text:"),
		nil, nil, nil,
		container.NewScroll(a.recognizedLabel),
	)
	translatedSection := container.NewBorder(
		widget.NewLabel("Translation:"),
		nil, nil, nil,
		container.NewScroll(a.translatedLabel),
	)

	textSection := container.NewVSplit(recognizedSection, translatedSection)

	display := container.NewVSplit(a.imagePanel, textSection)
	display.SetOffset(0.4)

	a.statusLabel = widget.NewLabel("Ready")

	a.mainView = container.NewBorder(
		container.NewVBox(buttonRow, widget.NewSeparator()),
		a.statusLabel,
		nil, nil,
		display,
	)
}

func (a *Application) buildSettingsView() {
	a.keyEntry = widget.NewPasswordEntry()
	a.keyEntry.SetPlaceHolder("Recognition API key...")
	a.keyEntry.OnSubmitted = func(string) {
		a.onSaveKey()
	}

	saveButton := widget.NewButtonWithIcon("Save", theme.ConfirmIcon(), a.onSaveKey)
	backButton := widget.NewButtonWithIcon("Back", theme.NavigateBackIcon(), func() {
		a.controller.CloseSettings()
	})

	a.settingsView = container.NewVBox(
		widget.NewLabel("Settings"),
		widget.NewSeparator(),
		widget.NewLabel("API key for the text recognition service:"),
		a.keyEntry,
		container.NewHBox(saveButton, backButton),
	)
}

func (a *Application) setupTooltips() {
	a.triggerButton.SetToolTip("Recognize and translate the clipboard image")
	a.settingsButton.SetToolTip("Settings")
}

// Run starts the GUI application
func (a *Application) Run() {
	a.window.ShowAndRun()
}

// onTrigger starts one pipeline run in the background
func (a *Application) onTrigger() {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		err := a.controller.Run(a.ctx)
		if err == nil || errors.Is(err, pipeline.ErrRunInFlight) || errors.Is(err, context.Canceled) {
			return
		}

		fyne.Do(func() {
			a.showRunError(err)
		})
	}()
}

// showRunError surfaces the terminal failures with distinct messages
func (a *Application) showRunError(err error) {
	switch {
	case errors.Is(err, pipeline.ErrMissingKey):
		dialog.ShowInformation("API key required",
			"No API key is configured yet. Enter one in the settings to enable text recognition.", a.window)
	case errors.Is(err, clipboard.ErrNoImage):
		dialog.ShowInformation("No image",
			"No image was found on the clipboard. Copy a screenshot first.", a.window)
	case errors.Is(err, clipboard.ErrAccessDenied):
		dialog.ShowError(fmt.Errorf("clipboard could not be read: %w", err), a.window)
	default:
		dialog.ShowError(err, a.window)
	}
}

func (a *Application) onOpenSettings() {
	a.keyEntry.SetText(a.controller.LoadKey())
	a.controller.OpenSettings()
}

func (a *Application) onSaveKey() {
	if err := a.controller.SaveKey(a.keyEntry.Text); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.statusLabel.SetText("API key saved")
}

// applySnapshot projects one controller snapshot onto the widgets.
// Must run on the Fyne main thread.
func (a *Application) applySnapshot(snap pipeline.Snapshot) {
	// View switch
	if snap.View == pipeline.ViewSettings {
		a.mainView.Hide()
		a.settingsView.Show()
	} else {
		a.settingsView.Hide()
		a.mainView.Show()
	}

	// Trigger button reflects the run phase
	if snap.Phase == pipeline.PhaseRunning {
		a.triggerButton.SetText(triggerLabelRunning)
		a.triggerButton.Disable()
		a.statusLabel.SetText("Working...")
	} else {
		a.triggerButton.SetText(triggerLabelIdle)
		a.triggerButton.Enable()
		if snap.Phase == pipeline.PhaseCompleted && snap.Err == nil {
			a.statusLabel.SetText("Done")
		} else {
			a.statusLabel.SetText("Ready")
		}
	}

	// Result panels render only what the run has produced so far
	if snap.Image != nil {
		a.imagePanel.SetImage(snap.Image)
	} else {
		a.imagePanel.Clear()
	}
	a.recognizedLabel.SetText(snap.Recognized)
	a.translatedLabel.SetText(snap.Translated)
}
