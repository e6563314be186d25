package hardware

import (
	"context"
	"sync"
)

// Access is one register write recorded by the Mock.
type Access struct {
	RCC     bool     // true for the RCC clock-enable register
	Port    Port     // port bank, when RCC is false
	Reg     Register // register offset
	Val     uint32   // value written
	Dropped bool     // write ignored because the port clock was off
}

// Mock is a thread-safe register-level simulation of the RCC and GPIO
// port banks. Like the silicon, it ignores writes to a port whose clock
// is disabled and reads such a port as zero.
type Mock struct {
	mu        sync.Mutex
	rcc       uint32
	regs      map[Port]map[Register]uint32
	journal   []Access
	failWrite bool
	failRead  bool
}

// NewMock creates a mock in its cold-boot state: every port clock off and
// every register at zero.
func NewMock() *Mock {
	m := &Mock{}
	m.reset()
	return m
}

func (m *Mock) reset() {
	m.rcc = 0
	m.regs = make(map[Port]map[Register]uint32, NumPorts)
	for p := PortA; p < NumPorts; p++ {
		m.regs[p] = make(map[Register]uint32)
	}
	m.journal = nil
}

// SetFailWrite configures the mock to fail all write operations.
func (m *Mock) SetFailWrite(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrite = fail
}

// SetFailRead configures the mock to fail all read operations.
func (m *Mock) SetFailRead(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failRead = fail
}

// Init returns the mock to its cold-boot state.
func (m *Mock) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
	return nil
}

func (m *Mock) EnableClock(ctx context.Context, port Port) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return ErrHardware("mock: write failure configured")
	}
	if port >= NumPorts {
		return ErrHardware("mock: invalid port " + port.String())
	}
	m.rcc |= ClockEnableBit(port)
	m.journal = append(m.journal, Access{RCC: true, Reg: RegRCCAHB1ENR, Val: m.rcc})
	return nil
}

func (m *Mock) SetMode(ctx context.Context, pin Pin, cfg PinConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return ErrHardware("mock: write failure configured")
	}
	if !pin.Valid() {
		return ErrHardware("mock: invalid pin " + pin.String())
	}
	m.write(pin.Port, RegMODER, PackField2(m.read(pin.Port, RegMODER), pin.Num, uint8(cfg.Mode)))
	m.write(pin.Port, RegOTYPER, PackBit(m.read(pin.Port, RegOTYPER), pin.Num, cfg.Type == OpenDrain))
	m.write(pin.Port, RegPUPDR, PackField2(m.read(pin.Port, RegPUPDR), pin.Num, uint8(cfg.Pull)))
	return nil
}

func (m *Mock) Toggle(ctx context.Context, pin Pin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return ErrHardware("mock: write failure configured")
	}
	if !pin.Valid() {
		return ErrHardware("mock: invalid pin " + pin.String())
	}
	odr := m.read(pin.Port, RegODR)
	m.write(pin.Port, RegBSRR, ToggleBSRR(odr, 1<<uint32(pin.Num)))
	return nil
}

func (m *Mock) Level(ctx context.Context, pin Pin) (Level, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRead {
		return Low, ErrHardware("mock: read failure configured")
	}
	if !pin.Valid() {
		return Low, ErrHardware("mock: invalid pin " + pin.String())
	}
	return Level(Bit(m.read(pin.Port, RegODR), pin.Num)), nil
}

func (m *Mock) IsReal() bool {
	return false
}

// GetReg returns a port register value for testing purposes, bypassing
// the clock gate.
func (m *Mock) GetReg(port Port, reg Register) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if regs, ok := m.regs[port]; ok {
		return regs[reg]
	}
	return 0
}

// SetReg presets a port register for testing purposes, bypassing the clock
// gate and the journal. Used to model an arbitrary power-on pin level.
func (m *Mock) SetReg(port Port, reg Register, val uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if regs, ok := m.regs[port]; ok {
		regs[reg] = val
	}
}

// ClockEnabled reports whether the port's clock-enable bit is set.
func (m *Mock) ClockEnabled(port Port) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rcc&ClockEnableBit(port) != 0
}

// Journal returns a copy of every register write since the last Init.
func (m *Mock) Journal() []Access {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Access, len(m.journal))
	copy(out, m.journal)
	return out
}

func (m *Mock) clocked(port Port) bool {
	return m.rcc&ClockEnableBit(port) != 0
}

func (m *Mock) read(port Port, reg Register) uint32 {
	if !m.clocked(port) {
		return 0
	}
	if reg == RegIDR {
		// Output lines read back their driven level.
		return m.regs[port][RegODR]
	}
	return m.regs[port][reg]
}

func (m *Mock) write(port Port, reg Register, val uint32) {
	acc := Access{Port: port, Reg: reg, Val: val, Dropped: !m.clocked(port)}
	m.journal = append(m.journal, acc)
	if acc.Dropped {
		return
	}
	switch reg {
	case RegIDR:
		// read-only
	case RegBSRR:
		m.regs[port][RegODR] = ApplyBSRR(m.regs[port][RegODR], val)
	default:
		m.regs[port][reg] = val
	}
}

// Ensure Mock implements Driver.
var _ Driver = (*Mock)(nil)
