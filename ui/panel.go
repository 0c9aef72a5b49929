package ui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/edaniels/golog"

	"github.com/luckyfish-tu/camservo/controller"
	"github.com/luckyfish-tu/camservo/link"
)

const (
	minTargetDeg = -90.0
	maxTargetDeg = 90.0
	minSpeed     = 1.0
	maxSpeed     = 200.0
)

// Sender delivers commands to the firmware
type Sender interface {
	SetTarget(deg float64) error
	SetSpeed(degPerS float64) error
	SetInversion(inverted bool) error
}

// Panel is the control surface for one camera mount
type Panel struct {
	sender Sender
	logger golog.Logger

	position *widget.Label
	firmware *widget.Label
	message  *widget.Label
	target   *widget.Slider
	speed    *widget.Slider
	invert   *widget.Check

	lastTelemetry *timer

	content fyne.CanvasObject
}

// NewPanel builds the widgets. Commands are sent when a slider is released or the
// inversion box is toggled.
func NewPanel(sender Sender, logger golog.Logger) *Panel {
	p := &Panel{
		sender:        sender,
		logger:        logger,
		position:      widget.NewLabel(formatDegrees(0)),
		firmware:      widget.NewLabel("Firmware: unknown"),
		message:       widget.NewLabel(""),
		lastTelemetry: newTimer(true),
	}

	var targetContainer, speedContainer *fyne.Container
	p.target, targetContainer = createSlider("Target", minTargetDeg, maxTargetDeg, 0, "%.1f°", func(v float64) {
		p.report("target", p.sender.SetTarget(v))
	})
	p.speed, speedContainer = createSlider("Speed", minSpeed, maxSpeed, controller.DefaultSpeed, "%.0f°/s", func(v float64) {
		p.report("speed", p.sender.SetSpeed(v))
	})

	p.invert = widget.NewCheck("Invert", func(inverted bool) {
		p.report("inversion", p.sender.SetInversion(inverted))
	})

	p.content = container.NewVBox(
		container.NewHBox(
			widget.NewLabel("Position:"),
			p.position,
			layout.NewSpacer(),
			container.NewPadded(p.lastTelemetry.text),
		),
		targetContainer,
		speedContainer,
		p.invert,
		p.firmware,
		p.message,
	)

	return p
}

// createSlider returns a slider with a label showing its value. onSet is called when the
// user lets go of the slider.
func createSlider(labelText string, minValue, maxValue, defaultValue float64, format string, onSet func(float64)) (*widget.Slider, *fyne.Container) {
	valueLabel := widget.NewLabel(fmt.Sprintf(format, defaultValue))

	slider := widget.NewSlider(minValue, maxValue)
	slider.Step = 0.5
	slider.SetValue(defaultValue)
	slider.OnChanged = func(value float64) {
		valueLabel.SetText(fmt.Sprintf(format, value))
	}
	slider.OnChangeEnded = onSet

	return slider, container.NewVBox(
		container.NewGridWithColumns(2,
			widget.NewLabel(labelText),
			valueLabel,
		),
		slider,
	)
}

// Content returns the panel's root object
func (p *Panel) Content() fyne.CanvasObject {
	return p.content
}

// HandleEvent updates the panel from a firmware event. It is safe to call from any goroutine.
func (p *Panel) HandleEvent(event link.Event) {
	fyne.Do(func() {
		p.showEvent(event)
	})
}

func (p *Panel) showEvent(event link.Event) {
	switch event.Kind() {
	case link.EventTelemetry:
		deg, err := event.Degrees()
		if err != nil {
			return
		}
		p.position.SetText(formatDegrees(deg))
		p.lastTelemetry.Set(time.Now())
	case link.EventVersion:
		if err := link.CheckVersion(event.Value); err != nil {
			p.firmware.SetText("Firmware: " + event.Value + " (incompatible)")
			return
		}
		p.firmware.SetText("Firmware: " + event.Value)
	}
}

func (p *Panel) report(what string, err error) {
	if err != nil {
		p.logger.Errorw("error sending command", "command", what, "error", err)
		p.message.SetText("Error setting " + what + ": " + err.Error())
		return
	}
	p.message.SetText("")
}

func formatDegrees(deg float64) string {
	return fmt.Sprintf("%.2f°", deg)
}
