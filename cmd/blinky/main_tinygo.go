//go:build tinygo

// Command blinky blinks the board LED forever.
package main

import (
	"context"

	"github.com/micro-nova/blinky-go/internal/blink"
	"github.com/micro-nova/blinky-go/internal/config"
	"github.com/micro-nova/blinky-go/internal/delay"
	"github.com/micro-nova/blinky-go/internal/hardware"
)

func main() {
	cfg := config.Default()
	b := blink.New(hardware.NewMachine(), cfg.LED(), delay.BusyWait{N: cfg.DelayCycles}, nil)
	_ = b.Run(context.Background())

	// Unreachable with the machine driver; park until reset if it ever is.
	for {
	}
}
