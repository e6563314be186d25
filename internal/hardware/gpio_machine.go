//go:build tinygo

package hardware

import (
	"context"
	"machine"
)

// MachineDriver drives on-chip GPIO through TinyGo's machine package.
// It never returns errors: misconfigured hardware simply does not blink.
// Not safe for concurrent use; the firmware has a single thread of control.
type MachineDriver struct {
	clocked [NumPorts]bool
}

// NewMachine creates the firmware GPIO driver.
func NewMachine() *MachineDriver {
	return &MachineDriver{}
}

// machinePin uses the STM32 numbering of the machine package: 16 lines per
// port starting at PA0.
func machinePin(p Pin) machine.Pin {
	return machine.Pin(int(p.Port)*PinsPerPort + int(p.Num))
}

func (d *MachineDriver) Init(ctx context.Context) error { return nil }

// EnableClock records the port. machine.Pin.Configure sets the RCC enable
// bit itself, so SetMode skips ports that were never enabled here to keep
// the clock-before-mode ordering visible.
func (d *MachineDriver) EnableClock(ctx context.Context, port Port) error {
	if port < NumPorts {
		d.clocked[port] = true
	}
	return nil
}

func (d *MachineDriver) SetMode(ctx context.Context, pin Pin, cfg PinConfig) error {
	if !pin.Valid() || !d.clocked[pin.Port] {
		return nil
	}
	mode := machine.PinOutput
	if cfg.Mode == ModeInput {
		switch cfg.Pull {
		case PullUp:
			mode = machine.PinInputPullup
		case PullDown:
			mode = machine.PinInputPulldown
		default:
			mode = machine.PinInput
		}
	}
	machinePin(pin).Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (d *MachineDriver) Toggle(ctx context.Context, pin Pin) error {
	p := machinePin(pin)
	p.Set(!p.Get())
	return nil
}

func (d *MachineDriver) Level(ctx context.Context, pin Pin) (Level, error) {
	return Level(machinePin(pin).Get()), nil
}

func (d *MachineDriver) IsReal() bool { return true }

var _ Driver = (*MachineDriver)(nil)
