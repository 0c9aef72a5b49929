package ui

import (
	"errors"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/edaniels/golog"

	"github.com/luckyfish-tu/camservo/link"
)

type fakeSender struct {
	targets    []float64
	speeds     []float64
	inversions []bool
	err        error
}

func (s *fakeSender) SetTarget(deg float64) error {
	s.targets = append(s.targets, deg)
	return s.err
}

func (s *fakeSender) SetSpeed(degPerS float64) error {
	s.speeds = append(s.speeds, degPerS)
	return s.err
}

func (s *fakeSender) SetInversion(inverted bool) error {
	s.inversions = append(s.inversions, inverted)
	return s.err
}

func newTestPanel(t *testing.T, sender *fakeSender) *Panel {
	t.Helper()
	test.NewTempApp(t)
	return NewPanel(sender, golog.NewDevelopmentLogger("ui-test"))
}

func TestPanelSendsCommands(t *testing.T) {
	sender := &fakeSender{}
	p := newTestPanel(t, sender)

	p.target.OnChangeEnded(-30.5)
	p.speed.OnChangeEnded(120)
	test.Tap(p.invert)

	if len(sender.targets) != 1 || sender.targets[0] != -30.5 {
		t.Errorf("expected=[-30.5], got=%v", sender.targets)
	}
	if len(sender.speeds) != 1 || sender.speeds[0] != 120 {
		t.Errorf("expected=[120], got=%v", sender.speeds)
	}
	if len(sender.inversions) != 1 || !sender.inversions[0] {
		t.Errorf("expected=[true], got=%v", sender.inversions)
	}
	if p.message.Text != "" {
		t.Errorf("expected no message, got=%q", p.message.Text)
	}
}

func TestPanelShowsSendErrors(t *testing.T) {
	sender := &fakeSender{err: errors.New("port closed")}
	p := newTestPanel(t, sender)

	p.target.OnChangeEnded(10)

	expected := "Error setting target: port closed"
	if p.message.Text != expected {
		t.Errorf("expected=%q, got=%q", expected, p.message.Text)
	}
}

func TestPanelRanges(t *testing.T) {
	p := newTestPanel(t, &fakeSender{})

	if p.target.Min != -90 || p.target.Max != 90 || p.target.Value != 0 {
		t.Errorf("unexpected target slider: min=%v max=%v value=%v", p.target.Min, p.target.Max, p.target.Value)
	}
	if p.speed.Min != 1 || p.speed.Max != 200 || p.speed.Value != 50 {
		t.Errorf("unexpected speed slider: min=%v max=%v value=%v", p.speed.Min, p.speed.Max, p.speed.Value)
	}
}

func TestPanelShowsEvents(t *testing.T) {
	tests := []struct {
		name     string
		event    link.Event
		position string
		firmware string
	}{
		{"Telemetry", link.Event{Name: "position-telemetry", Value: "-30030"}, "-30.03°", "Firmware: unknown"},
		{"BadTelemetry", link.Event{Name: "position-telemetry", Value: "x"}, "0.00°", "Firmware: unknown"},
		{"Version", link.Event{Name: "camservo-version", Value: "0.1.0"}, "0.00°", "Firmware: 0.1.0"},
		{"IncompatibleVersion", link.Event{Name: "camservo-version", Value: "2.0.0"}, "0.00°", "Firmware: 2.0.0 (incompatible)"},
		{"Ack", link.Event{Name: "set-speed", Value: "1000"}, "0.00°", "Firmware: unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPanel(t, &fakeSender{})

			p.showEvent(tt.event)

			if p.position.Text != tt.position {
				t.Errorf("expected=%q, got=%q", tt.position, p.position.Text)
			}
			if p.firmware.Text != tt.firmware {
				t.Errorf("expected=%q, got=%q", tt.firmware, p.firmware.Text)
			}
		})
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		elapsed    time.Duration
		showMillis bool
		expected   string
	}{
		{0, false, "00:00"},
		{0, true, "00:00.000"},
		{61*time.Second + 250*time.Millisecond, true, "01:01.250"},
		{61*time.Second + 250*time.Millisecond, false, "01:01"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			got := formatElapsed(tt.elapsed, tt.showMillis)
			if got != tt.expected {
				t.Errorf("expected=%q, got=%q", tt.expected, got)
			}
		})
	}
}

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name       string
		serialPort string
		baudRate   string
		valid      bool
	}{
		{"Valid", "/dev/ttyACM0", "115200", true},
		{"Simulator", link.SerialPortSim, "9600", true},
		{"MissingPort", "", "115200", false},
		{"BadBaudRate", "/dev/ttyACM0", "fast", false},
		{"ZeroBaudRate", "/dev/ttyACM0", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseConfig(tt.serialPort, tt.baudRate)
			if tt.valid {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if cfg.SerialPort != tt.serialPort {
					t.Errorf("expected=%q, got=%q", tt.serialPort, cfg.SerialPort)
				}
				return
			}
			if err == nil {
				t.Error("expected error")
			}
		})
	}
}
