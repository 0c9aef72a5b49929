package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/edaniels/golog"

	"github.com/luckyfish-tu/camservo/link"
)

// Connector opens the link to the firmware
type Connector func(link.Config) (*link.Link, error)

// MountUI is the desktop application
type MountUI struct {
	logger  golog.Logger
	connect Connector

	// OnConnect is called after the link is open, before its events are read. It is used to
	// send initial settings.
	OnConnect func(*link.Link) error
}

func NewMountUI(connect Connector, logger golog.Logger) *MountUI {
	return &MountUI{
		logger:  logger,
		connect: connect,
	}
}

// Run shows the application until the window is closed or ctx is done. If cfg has no serial
// port, the user picks one first.
func (ui *MountUI) Run(ctx context.Context, cfg link.Config) {
	application := app.NewWithID("com.github.luckyfish-tu.camservo")

	go func() {
		<-ctx.Done()
		fyne.Do(func() {
			application.Quit()
		})
	}()

	if cfg.SerialPort == "" {
		configWindow := NewConfigWindow(application)
		configWindow.OnSubmit = func(selected link.Config) {
			selected.Logger = cfg.Logger
			ui.showPanel(ctx, application, selected)
		}
		configWindow.Show()
	} else {
		ui.showPanel(ctx, application, cfg)
	}

	application.Run()
}

func (ui *MountUI) showPanel(ctx context.Context, application fyne.App, cfg link.Config) {
	window := application.NewWindow("Camera Mount")

	l, err := ui.connect(cfg)
	if err != nil {
		window.Show()
		showError(application, window, err)
		return
	}

	if ui.OnConnect != nil {
		if err := ui.OnConnect(l); err != nil {
			_ = l.Close()
			window.Show()
			showError(application, window, err)
			return
		}
	}

	panel := NewPanel(l, ui.logger)
	panel.lastTelemetry.Go()

	go func() {
		err := l.Run(ctx, panel.HandleEvent)
		if err != nil {
			ui.logger.Errorw("link stopped", "error", err)
		}
	}()

	window.SetOnClosed(func() {
		panel.lastTelemetry.Stop()
		_ = l.Close()
	})
	window.SetContent(panel.Content())
	window.Resize(fyne.NewSize(400, 300))
	window.Show()
}
