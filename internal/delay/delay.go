// Package delay provides the named wait primitives used between toggles.
//
// BusyWait spins for a fixed number of no-op cycles and is what the
// firmware uses. Paced waits on wall-clock time for host drivers where a
// spin count means nothing. Virtual advances a simulated cycle clock so
// tests can reason about elapsed cycles without burning CPU.
package delay

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Delay blocks for one inter-toggle interval.
type Delay interface {
	Wait(ctx context.Context) error
}

// Counted is implemented by delays whose length is a fixed cycle count.
type Counted interface {
	Cycles() uint64
}

// ctxCheckMask sets how often BusyWait polls the context (every 64Ki spins).
const ctxCheckMask = 1<<16 - 1

// BusyWait spins for N no-op cycles.
type BusyWait struct {
	N uint64
}

// Wait executes N no-ops. The context is only polled periodically, so
// cancellation is noticed within 64Ki cycles.
func (b BusyWait) Wait(ctx context.Context) error {
	for i := uint64(0); i < b.N; i++ {
		if i&ctxCheckMask == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		nop()
	}
	return nil
}

func (b BusyWait) Cycles() uint64 { return b.N }

// Paced waits for a fixed wall-clock period between calls.
type Paced struct {
	period time.Duration
	lim    *rate.Limiter
}

// NewPaced returns a delay that lets one Wait through per period. The
// initial token is consumed so the first Wait also blocks for a period.
func NewPaced(period time.Duration) *Paced {
	lim := rate.NewLimiter(rate.Every(period), 1)
	lim.Allow()
	return &Paced{period: period, lim: lim}
}

func (p *Paced) Wait(ctx context.Context) error {
	return p.lim.Wait(ctx)
}

// Period returns the configured interval.
func (p *Paced) Period() time.Duration { return p.period }

// Clock is a simulated cycle counter. Safe for concurrent use.
type Clock struct {
	cycles atomic.Uint64
}

// Now returns the number of cycles elapsed since the clock was created.
func (c *Clock) Now() uint64 { return c.cycles.Load() }

// Advance moves the clock forward by n cycles.
func (c *Clock) Advance(n uint64) { c.cycles.Add(n) }

// Virtual advances Clock by N cycles instead of spinning.
type Virtual struct {
	Clock *Clock
	N     uint64
}

func (v Virtual) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	v.Clock.Advance(v.N)
	return nil
}

func (v Virtual) Cycles() uint64 { return v.N }

var (
	_ Counted = BusyWait{}
	_ Counted = Virtual{}
	_ Delay   = (*Paced)(nil)
)
