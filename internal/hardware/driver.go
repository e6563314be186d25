// Package hardware provides the GPIO abstraction used by the blinker.
// It defines the Driver interface and the helper types shared by the
// register-level simulator, the periph.io Linux driver and the TinyGo
// machine driver.
package hardware

import (
	"context"
	"fmt"
)

// Port identifies a GPIO port bank (A=0, B=1, ...).
type Port uint8

// GPIO port banks.
const (
	PortA Port = iota
	PortB
	PortC
	PortD
	PortE
	PortF
	PortG
	PortH
	NumPorts
)

// PinsPerPort is the number of lines in one port bank.
const PinsPerPort = 16

// String returns the port letter, e.g. "C".
func (p Port) String() string {
	if p >= NumPorts {
		return fmt.Sprintf("Port(%d)", uint8(p))
	}
	return string(rune('A' + p))
}

// MarshalText encodes the port as its letter.
func (p Port) MarshalText() ([]byte, error) {
	if p >= NumPorts {
		return nil, fmt.Errorf("hardware: invalid port %d", uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText accepts a port letter, "C" or "c".
func (p *Port) UnmarshalText(b []byte) error {
	port, err := ParsePort(string(b))
	if err != nil {
		return err
	}
	*p = port
	return nil
}

// ParsePort parses a single port letter.
func ParsePort(s string) (Port, error) {
	if len(s) == 1 {
		c := s[0]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c >= 'A' && Port(c-'A') < NumPorts {
			return Port(c - 'A'), nil
		}
	}
	return 0, fmt.Errorf("hardware: invalid port %q", s)
}

// Pin is a (port, line) pair.
type Pin struct {
	Port Port
	Num  uint8
}

// String returns the conventional pin name, e.g. "PC13".
func (p Pin) String() string {
	return fmt.Sprintf("P%s%d", p.Port, p.Num)
}

// Valid reports whether the pin exists on the modelled device.
func (p Pin) Valid() bool {
	return p.Port < NumPorts && p.Num < PinsPerPort
}

// Mode is the 2-bit pin mode field.
type Mode uint8

const (
	ModeInput  Mode = 0b00
	ModeOutput Mode = 0b01
	ModeAltFn  Mode = 0b10
	ModeAnalog Mode = 0b11
)

// OutputType selects push-pull or open-drain drive.
type OutputType uint8

const (
	PushPull  OutputType = 0
	OpenDrain OutputType = 1
)

// Pull is the 2-bit pull-up/pull-down field.
type Pull uint8

const (
	PullNone Pull = 0b00
	PullUp   Pull = 0b01
	PullDown Pull = 0b10
)

// Level is the driven electrical level of an output pin.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "HIGH"
	}
	return "LOW"
}

// MarshalText encodes the level as "HIGH" or "LOW".
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText accepts "HIGH" or "LOW".
func (l *Level) UnmarshalText(b []byte) error {
	switch string(b) {
	case "HIGH":
		*l = High
	case "LOW":
		*l = Low
	default:
		return fmt.Errorf("hardware: invalid level %q", b)
	}
	return nil
}

// PinConfig is the full configuration applied by SetMode.
type PinConfig struct {
	Mode Mode
	Type OutputType
	Pull Pull
}

// OutputPushPull is the configuration used for driving an LED.
var OutputPushPull = PinConfig{Mode: ModeOutput, Type: PushPull, Pull: PullNone}

// Driver is the hardware abstraction for one or more GPIO port banks.
// Implementations are safe for concurrent use unless noted otherwise.
type Driver interface {
	// Init prepares the driver. Must be called before any other method.
	Init(ctx context.Context) error

	// EnableClock switches on the peripheral clock for a port bank.
	EnableClock(ctx context.Context, port Port) error

	// SetMode configures a pin. The pin's port clock must already be enabled.
	SetMode(ctx context.Context, pin Pin, cfg PinConfig) error

	// Toggle inverts the pin's driven output level.
	Toggle(ctx context.Context, pin Pin) error

	// Level reads back the pin's driven output level.
	Level(ctx context.Context, pin Pin) (Level, error)

	// IsReal returns true for a real hardware driver, false for a simulator.
	IsReal() bool
}

// HardwareError is returned when a hardware operation fails.
type HardwareError struct {
	msg string
}

func (e HardwareError) Error() string { return e.msg }

// ErrHardware creates a new hardware error.
func ErrHardware(msg string) error { return HardwareError{msg: msg} }
