package sim

import (
	"io"
	"sync"
)

// txBuffer behaves like a UART transmit FIFO: writes never block, and output is dropped
// once the buffer is full and nobody is reading
type txBuffer struct {
	data      chan []byte
	closed    chan struct{}
	closeOnce sync.Once

	pending []byte
}

func newTxBuffer(size int) *txBuffer {
	return &txBuffer{
		data:   make(chan []byte, size),
		closed: make(chan struct{}),
	}
}

func (b *txBuffer) Write(p []byte) (int, error) {
	select {
	case <-b.closed:
		return 0, io.ErrClosedPipe
	default:
	}

	select {
	case b.data <- append([]byte(nil), p...):
	default:
	}
	return len(p), nil
}

// Read must only be called from one goroutine at a time
func (b *txBuffer) Read(p []byte) (int, error) {
	if len(b.pending) == 0 {
		select {
		case chunk := <-b.data:
			b.pending = chunk
		case <-b.closed:
			select {
			case chunk := <-b.data:
				b.pending = chunk
			default:
				return 0, io.EOF
			}
		}
	}

	n := copy(p, b.pending)
	b.pending = b.pending[n:]
	return n, nil
}

func (b *txBuffer) Close() {
	b.closeOnce.Do(func() {
		close(b.closed)
	})
}
