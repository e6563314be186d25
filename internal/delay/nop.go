//go:build !(tinygo && cortexm)

package delay

import "sync/atomic"

var spins atomic.Uint64

// nop is a single spin. The atomic add cannot be elided by the compiler.
func nop() { spins.Add(1) }

// Spins returns the total number of BusyWait cycles executed by the
// process so far.
func Spins() uint64 { return spins.Load() }
