// Package config holds the board wiring and delay settings for the blinker.
// The firmware uses Default unchanged; host builds may load overrides from
// a JSON board profile.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/micro-nova/blinky-go/internal/hardware"
)

// Reference board wiring: the on-board LED of an STM32 "pill" board.
const (
	DefaultPort        = hardware.PortC
	DefaultPin         = 13
	DefaultDelayCycles = 1_000_000
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config selects the LED line and the delay between toggles.
type Config struct {
	Port        hardware.Port `json:"port"`
	Pin         uint8         `json:"pin"`
	DelayCycles uint64        `json:"delay_cycles"`

	// Period, when non-zero, replaces the cycle count with a wall-clock
	// delay. Only meaningful on host drivers.
	Period Duration `json:"period,omitempty"`
}

// Default returns the reference board configuration.
func Default() Config {
	return Config{
		Port:        DefaultPort,
		Pin:         DefaultPin,
		DelayCycles: DefaultDelayCycles,
	}
}

// LED returns the configured pin.
func (c Config) LED() hardware.Pin {
	return hardware.Pin{Port: c.Port, Num: c.Pin}
}

// Validate checks the pin exists and a delay is set.
func (c Config) Validate() error {
	if !c.LED().Valid() {
		return fmt.Errorf("%w: pin %s does not exist", ErrInvalid, c.LED())
	}
	if c.Period < 0 {
		return fmt.Errorf("%w: negative period %s", ErrInvalid, time.Duration(c.Period))
	}
	if c.Period == 0 && c.DelayCycles == 0 {
		return fmt.Errorf("%w: delay_cycles or period must be set", ErrInvalid)
	}
	return nil
}

// Duration is a time.Duration that encodes as a string such as "250ms".
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("%w: period: %v", ErrInvalid, err)
	}
	*d = Duration(v)
	return nil
}
