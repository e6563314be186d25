package hardware_test

import (
	"context"
	"errors"
	"testing"

	"github.com/micro-nova/blinky-go/internal/hardware"
)

var pc13 = hardware.Pin{Port: hardware.PortC, Num: 13}

func TestMockColdBoot(t *testing.T) {
	m := hardware.NewMock()
	if m.IsReal() {
		t.Error("mock driver should return IsReal()=false")
	}
	for p := hardware.PortA; p < hardware.NumPorts; p++ {
		if m.ClockEnabled(p) {
			t.Errorf("port %s clock enabled at cold boot", p)
		}
	}
	if len(m.Journal()) != 0 {
		t.Errorf("journal not empty at cold boot: %v", m.Journal())
	}
}

func TestMockDropsWritesWithoutClock(t *testing.T) {
	m := hardware.NewMock()
	ctx := context.Background()

	if err := m.SetMode(ctx, pc13, hardware.OutputPushPull); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	if got := m.GetReg(hardware.PortC, hardware.RegMODER); got != 0 {
		t.Errorf("MODER = 0x%08X after unclocked write, want 0", got)
	}
	j := m.Journal()
	if len(j) != 3 {
		t.Fatalf("journal has %d entries, want 3", len(j))
	}
	for i, a := range j {
		if !a.Dropped {
			t.Errorf("journal[%d] not marked dropped: %+v", i, a)
		}
	}
}

func TestMockSetModeAllPins(t *testing.T) {
	ctx := context.Background()
	for port := hardware.PortA; port < hardware.NumPorts; port++ {
		for n := uint8(0); n < hardware.PinsPerPort; n++ {
			m := hardware.NewMock()
			pin := hardware.Pin{Port: port, Num: n}
			if err := m.EnableClock(ctx, port); err != nil {
				t.Fatalf("EnableClock(%s): %v", port, err)
			}
			if err := m.SetMode(ctx, pin, hardware.OutputPushPull); err != nil {
				t.Fatalf("SetMode(%s): %v", pin, err)
			}
			if got := hardware.Field2(m.GetReg(port, hardware.RegMODER), n); got != uint8(hardware.ModeOutput) {
				t.Errorf("%s MODER field = %b, want %b", pin, got, hardware.ModeOutput)
			}
			if hardware.Bit(m.GetReg(port, hardware.RegOTYPER), n) {
				t.Errorf("%s OTYPER = open-drain, want push-pull", pin)
			}
			if got := hardware.Field2(m.GetReg(port, hardware.RegPUPDR), n); got != uint8(hardware.PullNone) {
				t.Errorf("%s PUPDR field = %b, want none", pin, got)
			}
		}
	}
}

func TestMockSetModePreservesOtherPins(t *testing.T) {
	m := hardware.NewMock()
	ctx := context.Background()
	m.SetReg(hardware.PortC, hardware.RegMODER, 0xFFFFFFFF)
	m.SetReg(hardware.PortC, hardware.RegPUPDR, 0x55555555)

	_ = m.EnableClock(ctx, hardware.PortC)
	if err := m.SetMode(ctx, pc13, hardware.OutputPushPull); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	if got := m.GetReg(hardware.PortC, hardware.RegMODER); got != 0xF7FFFFFF {
		t.Errorf("MODER = 0x%08X, want 0xF7FFFFFF", got)
	}
	if got := m.GetReg(hardware.PortC, hardware.RegPUPDR); got != 0x51555555 {
		t.Errorf("PUPDR = 0x%08X, want 0x51555555", got)
	}
}

func TestMockToggle(t *testing.T) {
	m := hardware.NewMock()
	ctx := context.Background()
	_ = m.EnableClock(ctx, hardware.PortC)
	_ = m.SetMode(ctx, pc13, hardware.OutputPushPull)

	want := hardware.Low
	for i := 0; i < 5; i++ {
		got, err := m.Level(ctx, pc13)
		if err != nil {
			t.Fatalf("Level: %v", err)
		}
		if got != want {
			t.Fatalf("step %d: level = %s, want %s", i, got, want)
		}
		if err := m.Toggle(ctx, pc13); err != nil {
			t.Fatalf("Toggle: %v", err)
		}
		want = !want
	}

	// Only PC13 moves.
	if got := m.GetReg(hardware.PortC, hardware.RegODR); got != 1<<13 {
		t.Errorf("ODR = 0x%04X, want 0x%04X", got, 1<<13)
	}
	last := m.Journal()[len(m.Journal())-1]
	if last.Reg != hardware.RegBSRR {
		t.Errorf("toggle wrote reg 0x%02X, want BSRR", last.Reg)
	}
}

func TestMockFailures(t *testing.T) {
	m := hardware.NewMock()
	ctx := context.Background()

	m.SetFailWrite(true)
	err := m.EnableClock(ctx, hardware.PortC)
	var hwErr hardware.HardwareError
	if !errors.As(err, &hwErr) {
		t.Errorf("EnableClock with failWrite: err = %v, want HardwareError", err)
	}
	if err := m.Toggle(ctx, pc13); err == nil {
		t.Error("Toggle with failWrite should error")
	}
	m.SetFailWrite(false)

	m.SetFailRead(true)
	if _, err := m.Level(ctx, pc13); err == nil {
		t.Error("Level with failRead should error")
	}
	m.SetFailRead(false)

	if err := m.SetMode(ctx, hardware.Pin{Port: hardware.PortC, Num: 16}, hardware.OutputPushPull); err == nil {
		t.Error("SetMode on invalid pin should error")
	}
	if err := m.EnableClock(ctx, hardware.NumPorts); err == nil {
		t.Error("EnableClock on invalid port should error")
	}
}

func TestMockInitResets(t *testing.T) {
	m := hardware.NewMock()
	ctx := context.Background()
	_ = m.EnableClock(ctx, hardware.PortC)
	_ = m.SetMode(ctx, pc13, hardware.OutputPushPull)

	if err := m.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if m.ClockEnabled(hardware.PortC) {
		t.Error("clock still enabled after Init")
	}
	if got := m.GetReg(hardware.PortC, hardware.RegMODER); got != 0 {
		t.Errorf("MODER = 0x%08X after Init, want 0", got)
	}
}
