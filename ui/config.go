package ui

import (
	"errors"
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/luckyfish-tu/camservo/link"
)

// ConfigWindow asks for the serial port when none was configured
type ConfigWindow struct {
	app      fyne.App
	OnSubmit func(link.Config)
}

func NewConfigWindow(app fyne.App) *ConfigWindow {
	return &ConfigWindow{
		app: app,
	}
}

func (cw *ConfigWindow) loadConfigFromPreferences(serialPort, baudRate *string) {
	prefs := cw.app.Preferences()
	*serialPort = prefs.StringWithFallback("serialPort", "")
	*baudRate = prefs.StringWithFallback("baudRate", strconv.Itoa(link.DefaultBaudRate))
}

func (cw *ConfigWindow) saveConfigToPreferences(serialPort, baudRate string) {
	prefs := cw.app.Preferences()
	prefs.SetString("serialPort", serialPort)
	prefs.SetString("baudRate", baudRate)
}

// serialPortOptions lists the detected ports followed by the simulator
func serialPortOptions() ([]string, error) {
	serialPorts, err := link.GetSerialPorts()
	if err != nil && !errors.Is(err, link.ErrNoUSBSerial) {
		return nil, err
	}
	return append(serialPorts, link.SerialPortSim), nil
}

// parseConfig validates the form fields
func parseConfig(serialPort, baudRate string) (link.Config, error) {
	if serialPort == "" {
		return link.Config{}, errors.New("serial port is required")
	}
	baud, err := strconv.Atoi(baudRate)
	if err != nil || baud <= 0 {
		return link.Config{}, fmt.Errorf("invalid baud rate %q", baudRate)
	}
	return link.Config{SerialPort: serialPort, BaudRate: baud}, nil
}

func (cw *ConfigWindow) Show() {
	window := cw.app.NewWindow("Camera Mount - Connect")
	window.Resize(fyne.NewSize(400, 150))
	window.SetCloseIntercept(func() {
		// Treat window close as cancel
		window.Close()
		cw.app.Quit()
	})
	window.Show()

	var serialPort, baudRate string
	cw.loadConfigFromPreferences(&serialPort, &baudRate)

	serialPorts, err := serialPortOptions()
	if err != nil {
		showError(cw.app, window, fmt.Errorf("error getting serial ports: %w", err))
		return
	}

	serialEntry := widget.NewSelect(serialPorts, nil)
	if serialPort == "" {
		serialPort = serialPorts[0]
	}
	serialEntry.Bind(binding.BindString(&serialPort))

	baudRateEntry := widget.NewEntry()
	baudRateEntry.Bind(binding.BindString(&baudRate))

	submitButton := widget.NewButton("Connect", func() {
		cfg, err := parseConfig(serialPort, baudRate)
		if err != nil {
			dialog.ShowError(err, window)
			return
		}
		cw.saveConfigToPreferences(serialPort, baudRate)
		cw.OnSubmit(cfg)
		window.Close()
	})

	validateForm := func() {
		if _, err := parseConfig(serialPort, baudRate); err != nil {
			submitButton.Disable()
			return
		}
		submitButton.Enable()
	}

	serialEntry.OnChanged = func(_ string) { validateForm() }
	baudRateEntry.OnChanged = func(_ string) { validateForm() }

	validateForm()

	form := container.NewVBox(
		widget.NewCard("Connection", "", container.NewVBox(
			container.NewGridWithColumns(2,
				widget.NewLabel("Serial Port:"),
				serialEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Baud Rate:"),
				baudRateEntry,
			),
		)),
		container.NewHBox(
			widget.NewButton("Cancel", func() {
				window.Close()
				cw.app.Quit()
			}),
			submitButton,
		),
	)

	window.SetContent(form)
}

func showError(app fyne.App, window fyne.Window, err error) {
	d := dialog.NewError(err, window)
	d.SetOnClosed(func() {
		app.Quit()
	})
	d.Show()
}
