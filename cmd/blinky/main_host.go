//go:build !tinygo

// Command blinky runs the blink loop on a Linux host, either against real
// GPIO through periph.io or against the simulated register backend.
// Run with --mock to use simulated hardware (no GPIO chip required).
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/micro-nova/blinky-go/internal/api"
	"github.com/micro-nova/blinky-go/internal/blink"
	"github.com/micro-nova/blinky-go/internal/config"
	"github.com/micro-nova/blinky-go/internal/delay"
	"github.com/micro-nova/blinky-go/internal/events"
	"github.com/micro-nova/blinky-go/internal/hardware"
	"github.com/micro-nova/blinky-go/internal/trace"
	"github.com/micro-nova/blinky-go/internal/zeroconf"
)

func main() {
	os.Exit(run())
}

// run holds the whole program so that its deferred cleanup executes before
// main exits with the returned status.
func run() int {
	var (
		mock        = flag.Bool("mock", false, "use simulated GPIO registers (no GPIO chip required)")
		addr        = flag.String("addr", "", "HTTP listen address for the status API (empty = disabled)")
		mdns        = flag.Bool("mdns", false, "advertise the status API over mDNS")
		cfgPath     = flag.String("config", "", "JSON board profile to load")
		writeConfig = flag.String("write-config", "", "write the effective board profile to this path and exit")
		port        = flag.String("port", config.DefaultPort.String(), "GPIO port letter")
		pin         = flag.Uint("pin", config.DefaultPin, "GPIO line within the port")
		cycles      = flag.Uint64("cycles", config.DefaultDelayCycles, "busy-wait cycles between toggles")
		period      = flag.Duration("period", 0, "wall-clock delay between toggles, overrides --cycles")
		tracePort   = flag.String("trace-port", "", "serial device for toggle trace output")
		traceBaud   = flag.Int("trace-baud", trace.DefaultBaud, "trace serial baud rate")
		debug       = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	// Configure logging
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("cannot load config", "path", *cfgPath, "err", err)
		return 1
	}

	// Explicit flags override the board profile.
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			p, err := hardware.ParsePort(*port)
			if err != nil {
				flagErr = err
				return
			}
			cfg.Port = p
		case "pin":
			cfg.Pin = uint8(*pin)
			if *pin > 255 {
				cfg.Pin = 255
			}
		case "cycles":
			cfg.DelayCycles = *cycles
		case "period":
			cfg.Period = config.Duration(*period)
		}
	})
	if flagErr == nil {
		flagErr = cfg.Validate()
	}
	if flagErr != nil {
		slog.Error("invalid settings", "err", flagErr)
		return 2
	}

	if *writeConfig != "" {
		if err := config.Save(*writeConfig, cfg); err != nil {
			slog.Error("cannot write config", "path", *writeConfig, "err", err)
			return 1
		}
		slog.Info("config written", "path", *writeConfig)
		return 0
	}

	// Graceful shutdown context; cancellation is the host's stand-in for reset.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Hardware driver
	var hw hardware.Driver
	if *mock {
		slog.Info("using simulated GPIO registers")
		hw = hardware.NewMock()
	} else {
		slog.Info("using periph.io GPIO driver")
		hw = hardware.NewPeriph(nil)
	}
	if err := hw.Init(ctx); err != nil {
		slog.Error("hardware initialization failed", "err", err)
		return 1
	}

	var d delay.Delay = delay.BusyWait{N: cfg.DelayCycles}
	if cfg.Period > 0 {
		d = delay.NewPaced(time.Duration(cfg.Period))
	}

	bus := events.NewBus()
	b := blink.New(hw, cfg.LED(), d, bus)

	if *tracePort != "" {
		sp, err := trace.OpenSerial(*tracePort, *traceBaud)
		if err != nil {
			slog.Error("trace port unavailable", "err", err)
			return 1
		}
		defer sp.Close()
		go trace.Follow(ctx, bus, trace.NewWriter(sp))
	}

	var srv *http.Server
	if *addr != "" {
		srv = &http.Server{
			Addr:         *addr,
			Handler:      api.NewRouter(b, bus),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 0, // 0 = no timeout (needed for SSE)
			IdleTimeout:  120 * time.Second,
		}
		go func() {
			slog.Info("status API listening", "addr", *addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("server error", "err", err)
			}
		}()

		if *mdns {
			hostname, _ := os.Hostname()
			apiPort := 80
			if parts := strings.SplitN(*addr, ":", 2); len(parts) == 2 && parts[1] != "" {
				if p, err := strconv.Atoi(parts[1]); err == nil {
					apiPort = p
				}
			}
			txt := []string{"pin=" + cfg.LED().String(), "mock=" + strconv.FormatBool(*mock)}
			zc := zeroconf.New(hostname, apiPort, txt)
			go func() {
				if err := zc.Start(ctx); err != nil {
					slog.Warn("zeroconf failed", "err", err)
				}
			}()
		}
	}

	slog.Info("blinking",
		"pin", cfg.LED().String(),
		"cycles", cfg.DelayCycles,
		"period", time.Duration(cfg.Period),
		"mock", *mock,
	)
	runErr := b.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		slog.Error("blink loop stopped", "err", runErr)
	}
	slog.Info("shutting down...")

	if srv != nil {
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutCancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			slog.Warn("server shutdown error", "err", err)
		}
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return 1
	}
	slog.Info("shutdown complete")
	return 0
}
