package link

import (
	"bufio"
	"context"
	"io"
	"sync"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/luckyfish-tu/camservo"
	"github.com/luckyfish-tu/camservo/commands"
)

// Status is the host's view of the firmware, built from acknowledgements and telemetry
type Status struct {
	FirmwareVersion string    `json:"firmware_version,omitempty"`
	TargetDeg       float64   `json:"target_deg"`
	SpeedDegPerS    float64   `json:"speed_deg_per_s"`
	Inverted        bool      `json:"inverted"`
	PositionDeg     float64   `json:"position_deg"`
	LastTelemetry   time.Time `json:"last_telemetry"`
}

// Link sends commands to the firmware and reads its acknowledgements and telemetry
type Link struct {
	rwc    io.ReadWriteCloser
	logger golog.Logger

	writeMtx sync.Mutex

	mtx    sync.RWMutex
	status Status
	err    error

	closeOnce sync.Once
	closeErr  error
}

// New creates a Link over an open connection. The Link owns rwc and closes it.
func New(rwc io.ReadWriteCloser, logger golog.Logger) *Link {
	if logger == nil {
		logger = golog.NewLogger("link")
	}
	return &Link{rwc: rwc, logger: logger}
}

// Send writes one command frame
func (l *Link) Send(cmd commands.Command) error {
	l.writeMtx.Lock()
	defer l.writeMtx.Unlock()

	l.logger.Debugw("sending command", "command", commands.Format(cmd))

	_, err := io.WriteString(l.rwc, commands.Format(cmd))
	if err != nil {
		return errors.Wrapf(err, "error sending %s", cmd.Name())
	}
	return nil
}

// SendFrame parses and sends a command typed by hand, such as "set-speed:90000"
func (l *Link) SendFrame(frame string) error {
	cmd, err := commands.Parse(frame)
	if err != nil {
		return err
	}
	return l.Send(cmd)
}

// SetTarget commands a new target angle
func (l *Link) SetTarget(deg float64) error {
	return l.Send(commands.SetTargetPosition{Raw: camservo.Encode(deg)})
}

// SetSpeed changes the speed cap
func (l *Link) SetSpeed(degPerS float64) error {
	return l.Send(commands.SetSpeed{Raw: camservo.Encode(degPerS)})
}

// SetInversion flips the mount direction
func (l *Link) SetInversion(inverted bool) error {
	var v int32
	if inverted {
		v = 1
	}
	return l.Send(commands.SetInversion{Value: v})
}

// Run reads from the firmware until ctx is done or the connection closes. Every well-formed
// event is recorded in Status and then passed to handle, which may be nil. Cancelling ctx
// closes the connection.
func (l *Link) Run(ctx context.Context, handle func(Event)) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = l.Close()
		case <-stop:
		}
	}()

	scanner := bufio.NewScanner(l.rwc)
	scanner.Split(commands.SplitFrames)

	for scanner.Scan() {
		frame := scanner.Text()
		if frame == "" {
			continue
		}

		event, err := ParseEvent(frame)
		if err != nil {
			l.logger.Debugw("ignoring frame", "frame", frame, "error", err)
			continue
		}

		l.record(event)

		if handle != nil {
			handle(event)
		}
	}

	if ctx.Err() != nil {
		return nil
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "error reading from firmware")
	}
	return nil
}

func (l *Link) record(event Event) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	switch event.Kind() {
	case EventVersion:
		l.status.FirmwareVersion = event.Value
		if err := CheckVersion(event.Value); err != nil {
			l.logger.Errorw("firmware version check failed", "version", event.Value, "error", err)
			l.err = err
			return
		}
		l.logger.Infow("connected to firmware", "version", event.Value)
	case EventTargetAck:
		if deg, err := event.Degrees(); err == nil {
			l.status.TargetDeg = deg
		}
	case EventSpeedAck:
		if degPerS, err := event.Degrees(); err == nil {
			l.status.SpeedDegPerS = degPerS
		}
	case EventInversionAck:
		if raw, err := event.Raw(); err == nil {
			l.status.Inverted = raw == 1
		}
	case EventTelemetry:
		if deg, err := event.Degrees(); err == nil {
			l.status.PositionDeg = deg
			l.status.LastTelemetry = time.Now()
		}
	case EventUnknown:
		l.logger.Debugw("unknown event", "event", event.String())
	}
}

// Status returns the last known state of the firmware
func (l *Link) Status() Status {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	return l.status
}

// Err returns the firmware version mismatch, if one was detected
func (l *Link) Err() error {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	return l.err
}

// Close closes the connection. It is safe to call more than once.
func (l *Link) Close() error {
	l.closeOnce.Do(func() {
		l.closeErr = l.rwc.Close()
	})
	return l.closeErr
}
