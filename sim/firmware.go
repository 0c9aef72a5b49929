package sim

import (
	"io"
	"sync"
	"time"

	"github.com/edaniels/golog"

	"github.com/luckyfish-tu/camservo"
	"github.com/luckyfish-tu/camservo/commands"
	"github.com/luckyfish-tu/camservo/controller"
)

const (
	// DefaultInterval is how often the simulated main loop calls Update
	DefaultInterval = time.Millisecond

	rxFrames  = 16
	txBuffers = 256
)

// Config configures the simulated board
type Config struct {
	Interval time.Duration
	Options  []controller.Option
	Logger   golog.Logger
}

// Firmware runs the controller the way the board does and exposes its serial console as an
// io.ReadWriteCloser. Bytes written are commands for the firmware; bytes read are its
// acknowledgements and telemetry.
type Firmware struct {
	actuator *Actuator
	logger   golog.Logger

	mu   sync.Mutex
	ctrl *controller.Controller
	caps camservo.Capabilities

	rxMu    sync.Mutex
	scanner commands.Scanner
	frames  chan string

	tx *txBuffer

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New boots the simulated firmware and starts its loop
func New(cfg Config) *Firmware {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = golog.NewLogger("sim")
	}

	f := &Firmware{
		actuator: &Actuator{},
		logger:   cfg.Logger,
		frames:   make(chan string, rxFrames),
		tx:       newTxBuffer(txBuffers),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	f.ctrl = controller.New(f.actuator, f.tx, controller.NewSystemClock(), cfg.Options...)

	_, _ = f.tx.Write([]byte(commands.VersionAnnouncement()))
	f.ctrl.Activate(&f.caps)

	go f.run(cfg.Interval)

	return f
}

func (f *Firmware) run(interval time.Duration) {
	defer close(f.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-f.stop:
			return
		case <-ticker.C:
		}

		var cmd commands.Command
		select {
		case frame := <-f.frames:
			parsed, err := commands.Accept(frame)
			if err != nil {
				f.logger.Debugw("ignoring frame", "frame", frame, "error", err)
			} else {
				cmd = parsed
			}
		default:
		}

		f.mu.Lock()
		f.ctrl.Update(cmd)
		f.mu.Unlock()
	}
}

// Write delivers bytes to the firmware's receive side. Complete frames queue up and are
// consumed one per loop pass; frames arriving while the queue is full are lost.
func (f *Firmware) Write(p []byte) (int, error) {
	select {
	case <-f.stop:
		return 0, io.ErrClosedPipe
	default:
	}

	f.rxMu.Lock()
	defer f.rxMu.Unlock()

	for _, b := range p {
		frame, ok := f.scanner.Feed(b)
		if !ok {
			continue
		}
		select {
		case f.frames <- frame:
		default:
			f.logger.Warnw("receive queue full, dropping frame", "frame", frame)
		}
	}
	return len(p), nil
}

// Read returns bytes written by the firmware. It blocks until output is available and
// returns io.EOF once the firmware is closed.
func (f *Firmware) Read(p []byte) (int, error) {
	return f.tx.Read(p)
}

// Close stops the loop. It is safe to call more than once.
func (f *Firmware) Close() error {
	f.closeOnce.Do(func() {
		close(f.stop)
		<-f.done
		f.tx.Close()
	})
	return nil
}

// Status returns the controller state
func (f *Firmware) Status() controller.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ctrl.Status()
}

// Capabilities returns what the firmware advertised at boot
func (f *Firmware) Capabilities() camservo.Capabilities {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.caps
}

// Actuator returns the simulated servo output
func (f *Firmware) Actuator() *Actuator {
	return f.actuator
}
