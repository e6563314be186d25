package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/micro-nova/blinky-go/internal/config"
	"github.com/micro-nova/blinky-go/internal/hardware"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	if cfg.LED() != (hardware.Pin{Port: hardware.PortC, Num: 13}) {
		t.Errorf("LED() = %s, want PC13", cfg.LED())
	}
	if cfg.DelayCycles != 1_000_000 {
		t.Errorf("DelayCycles = %d, want 1000000", cfg.DelayCycles)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*config.Config)
		ok   bool
	}{
		{"default", func(c *config.Config) {}, true},
		{"pin out of range", func(c *config.Config) { c.Pin = 16 }, false},
		{"port out of range", func(c *config.Config) { c.Port = hardware.NumPorts }, false},
		{"no delay", func(c *config.Config) { c.DelayCycles = 0 }, false},
		{"period only", func(c *config.Config) {
			c.DelayCycles = 0
			c.Period = config.Duration(time.Second)
		}, true},
		{"negative period", func(c *config.Config) { c.Period = -1 }, false},
	}
	for _, tc := range tests {
		cfg := config.Default()
		tc.mod(&cfg)
		err := cfg.Validate()
		if tc.ok && err != nil {
			t.Errorf("%s: Validate() = %v, want nil", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, config.ErrInvalid) {
			t.Errorf("%s: Validate() = %v, want ErrInvalid", tc.name, err)
		}
	}
}

func TestLoad_EmptyPathAndMissingFile(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "nope.json")} {
		cfg, err := config.Load(path)
		if err != nil {
			t.Fatalf("Load(%q) error = %v", path, err)
		}
		if cfg != config.Default() {
			t.Errorf("Load(%q) = %+v, want defaults", path, cfg)
		}
	}
}

func TestLoad_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	if err := os.WriteFile(path, []byte(`{"port":"a","pin":5,"period":"250ms"}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LED() != (hardware.Pin{Port: hardware.PortA, Num: 5}) {
		t.Errorf("LED() = %s, want PA5", cfg.LED())
	}
	if time.Duration(cfg.Period) != 250*time.Millisecond {
		t.Errorf("Period = %v, want 250ms", time.Duration(cfg.Period))
	}
	if cfg.DelayCycles != config.DefaultDelayCycles {
		t.Errorf("DelayCycles = %d, want default", cfg.DelayCycles)
	}
}

func TestLoad_CorruptFallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if cfg != config.Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"pin out of range", `{"pin":42}`},
		{"unknown port", `{"port":"Z","pin":5}`},
		{"port not a letter", `{"port":"7"}`},
		{"bad period", `{"port":"A","pin":5,"period":"soon"}`},
		{"pin wrong type", `{"pin":"thirteen"}`},
		{"negative cycles", `{"delay_cycles":-1}`},
	}
	for _, tc := range tests {
		path := filepath.Join(t.TempDir(), "board.json")
		if err := os.WriteFile(path, []byte(tc.body), 0644); err != nil {
			t.Fatal(err)
		}
		cfg, err := config.Load(path)
		if !errors.Is(err, config.ErrInvalid) {
			t.Errorf("%s: Load() = %+v, %v; want ErrInvalid", tc.name, cfg, err)
		}
	}
}

func TestLoad_TruncatedFallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	if err := os.WriteFile(path, []byte(`{"port":"A","pin":`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if cfg != config.Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "board.json")
	want := config.Config{Port: hardware.PortB, Pin: 7, DelayCycles: 42, Period: config.Duration(time.Second)}
	if err := config.Save(path, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}
