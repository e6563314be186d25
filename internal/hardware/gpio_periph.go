//go:build !tinygo

package hardware

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// PinNamer maps a Pin to the name periph.io registers it under.
type PinNamer func(Pin) string

// BCMName numbers lines linearly across ports, so PortA line 4 is "GPIO4"
// and PortB line 1 is "GPIO17". This matches the Raspberry Pi header.
func BCMName(p Pin) string {
	return fmt.Sprintf("GPIO%d", int(p.Port)*PinsPerPort+int(p.Num))
}

// PeriphDriver drives real GPIO lines through periph.io on a Linux host.
// Port clocks are owned by the kernel there, so EnableClock only records
// the port as usable.
type PeriphDriver struct {
	mu      sync.Mutex
	name    PinNamer
	clocked map[Port]bool
	pins    map[Pin]gpio.PinIO
	levels  map[Pin]gpio.Level
}

// NewPeriph creates a new periph.io GPIO driver. A nil namer uses BCMName.
func NewPeriph(name PinNamer) *PeriphDriver {
	if name == nil {
		name = BCMName
	}
	return &PeriphDriver{
		name:    name,
		clocked: make(map[Port]bool),
		pins:    make(map[Pin]gpio.PinIO),
		levels:  make(map[Pin]gpio.Level),
	}
}

func (d *PeriphDriver) Init(ctx context.Context) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("gpio: host init failed: %w", err)
	}
	return nil
}

func (d *PeriphDriver) EnableClock(ctx context.Context, port Port) error {
	if port >= NumPorts {
		return ErrHardware("gpio: invalid port " + port.String())
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clocked[port] = true
	slog.Debug("gpio: port enabled", "port", port.String())
	return nil
}

func (d *PeriphDriver) SetMode(ctx context.Context, pin Pin, cfg PinConfig) error {
	if !pin.Valid() {
		return ErrHardware("gpio: invalid pin " + pin.String())
	}
	if cfg.Mode != ModeOutput || cfg.Type != PushPull {
		return ErrHardware("gpio: only push-pull output is supported on " + pin.String())
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.clocked[pin.Port] {
		return ErrHardware("gpio: port " + pin.Port.String() + " clock not enabled")
	}

	name := d.name(pin)
	p := gpioreg.ByName(name)
	if p == nil {
		return fmt.Errorf("gpio: failed to open %s (%s)", name, pin)
	}

	// Keep whatever level the line already has; the reset level is don't-care.
	level := p.Read()
	if err := p.Out(level); err != nil {
		return fmt.Errorf("gpio: failed to configure %s as output: %w", name, err)
	}
	d.pins[pin] = p
	d.levels[pin] = level

	slog.Debug("gpio: pin configured", "pin", pin.String(), "name", name, "level", Level(level).String())
	return nil
}

func (d *PeriphDriver) Toggle(ctx context.Context, pin Pin) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pins[pin]
	if !ok {
		return ErrHardware("gpio: " + pin.String() + " not configured")
	}
	next := !d.levels[pin]
	if err := p.Out(next); err != nil {
		return fmt.Errorf("gpio: failed to drive %s: %w", pin, err)
	}
	d.levels[pin] = next
	return nil
}

func (d *PeriphDriver) Level(ctx context.Context, pin Pin) (Level, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.pins[pin]; !ok {
		return Low, ErrHardware("gpio: " + pin.String() + " not configured")
	}
	return Level(d.levels[pin]), nil
}

func (d *PeriphDriver) IsReal() bool {
	return true
}

var _ Driver = (*PeriphDriver)(nil)
