// Package blink implements the LED blink loop: enable the port clock,
// configure the pin as a push-pull output, then toggle it forever with a
// fixed delay between toggles.
package blink

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/micro-nova/blinky-go/internal/delay"
	"github.com/micro-nova/blinky-go/internal/events"
	"github.com/micro-nova/blinky-go/internal/hardware"
)

// Publisher receives an event after every toggle.
type Publisher interface {
	Publish(ev events.Toggle)
}

// Watcher is implemented by publishers that know whether anyone listens
// for a pin. Unwatched pins skip the level read-back entirely.
type Watcher interface {
	Watching(pin string) bool
}

// Blinker owns one output pin and the delay used between its toggles.
// Run and Step must be called from a single goroutine; Status may be
// called concurrently.
type Blinker struct {
	hw    hardware.Driver
	pin   hardware.Pin
	delay delay.Delay
	pub   Publisher

	toggles atomic.Uint64
	cycles  atomic.Uint64
	ready   atomic.Bool
}

// New creates a blinker. pub may be nil.
func New(hw hardware.Driver, pin hardware.Pin, d delay.Delay, pub Publisher) *Blinker {
	return &Blinker{hw: hw, pin: pin, delay: d, pub: pub}
}

// Init enables the pin's port clock and then configures the pin as a
// push-pull output without pull resistors. The clock is always enabled
// first; mode writes to an unclocked port are lost on real silicon.
func (b *Blinker) Init(ctx context.Context) error {
	if err := b.hw.EnableClock(ctx, b.pin.Port); err != nil {
		return fmt.Errorf("blink: enable clock for port %s: %w", b.pin.Port, err)
	}
	if err := b.hw.SetMode(ctx, b.pin, hardware.OutputPushPull); err != nil {
		return fmt.Errorf("blink: configure %s: %w", b.pin, err)
	}
	b.ready.Store(true)
	logDebug("blink: pin ready", "pin", b.pin.String(), "real", b.hw.IsReal())
	return nil
}

// Step performs one loop iteration: invert the pin, then wait. A done
// context stops the step before the pin is touched.
func (b *Blinker) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.hw.Toggle(ctx, b.pin); err != nil {
		return fmt.Errorf("blink: toggle %s: %w", b.pin, err)
	}
	n := b.toggles.Add(1)

	b.publish(ctx, n)

	if err := b.delay.Wait(ctx); err != nil {
		return err
	}
	if c, ok := b.delay.(delay.Counted); ok {
		b.cycles.Add(c.Cycles())
	}
	return nil
}

// publish reports toggle n. A failed read-back drops the event; the pin
// has already moved and the loop keeps going.
func (b *Blinker) publish(ctx context.Context, n uint64) {
	if b.pub == nil {
		return
	}
	name := b.pin.String()
	if w, ok := b.pub.(Watcher); ok && !w.Watching(name) {
		return
	}
	level, err := b.hw.Level(ctx, b.pin)
	if err != nil {
		logWarn("blink: read back failed, event dropped", "pin", name, "seq", n, "err", err)
		return
	}
	b.pub.Publish(events.Toggle{
		Seq:    n,
		Pin:    name,
		Level:  level,
		Cycles: b.cycles.Load(),
		At:     time.Now(),
	})
}

// Run initializes the pin and blinks it until ctx is done or the driver
// fails. There is no other exit: on firmware the context never ends and
// only a reset stops the loop.
func (b *Blinker) Run(ctx context.Context) error {
	if err := b.Init(ctx); err != nil {
		return err
	}
	logInfo("blink: running", "pin", b.pin.String())
	for {
		if err := b.Step(ctx); err != nil {
			return err
		}
	}
}

// Status is a point-in-time snapshot of the blinker.
type Status struct {
	Pin     string         `json:"pin"`
	Ready   bool           `json:"ready"`
	Level   hardware.Level `json:"level"`
	Toggles uint64         `json:"toggles"`
	Cycles  uint64         `json:"cycles"`
	Real    bool           `json:"real"`
}

// Status reports the pin level and counters.
func (b *Blinker) Status(ctx context.Context) (Status, error) {
	st := Status{
		Pin:     b.pin.String(),
		Ready:   b.ready.Load(),
		Toggles: b.toggles.Load(),
		Cycles:  b.cycles.Load(),
		Real:    b.hw.IsReal(),
	}
	if !st.Ready {
		return st, nil
	}
	level, err := b.hw.Level(ctx, b.pin)
	if err != nil {
		return st, fmt.Errorf("blink: read back %s: %w", b.pin, err)
	}
	st.Level = level
	return st, nil
}

// Pin returns the pin driven by this blinker.
func (b *Blinker) Pin() hardware.Pin { return b.pin }
