// Package trace writes one text line per pin toggle, for a logic-analyzer
// style view of the blink loop over a UART or any other io.Writer.
package trace

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.bug.st/serial"

	"github.com/micro-nova/blinky-go/internal/events"
)

// DefaultBaud matches the reference board's debug UART.
const DefaultBaud = 115200

// Writer formats toggle events as lines.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write emits "seq=<n> pin=<pin> level=<HIGH|LOW> cycles=<c>".
func (t *Writer) Write(ev events.Toggle) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintf(t.w, "seq=%d pin=%s level=%s cycles=%d\n", ev.Seq, ev.Pin, ev.Level, ev.Cycles)
	return err
}

// Subscriber is the part of events.Bus used by Follow.
type Subscriber interface {
	Subscribe(id string) <-chan events.Toggle
	Unsubscribe(id string)
}

// Follow subscribes to bus and writes every event until ctx is done or
// the subscription is closed. Write errors are logged and skipped.
func Follow(ctx context.Context, bus Subscriber, t *Writer) {
	id := "trace-" + uuid.NewString()
	ch := bus.Subscribe(id)
	defer bus.Unsubscribe(id)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := t.Write(ev); err != nil {
				slog.Warn("trace: write failed", "seq", ev.Seq, "err", err)
			}
		}
	}
}

// OpenSerial opens a UART for trace output at 8N1.
func OpenSerial(dev string, baud int) (serial.Port, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	port, err := serial.Open(dev, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("trace: open %s: %w", dev, err)
	}
	slog.Debug("trace: serial port open", "device", dev, "baud", baud)
	return port, nil
}
