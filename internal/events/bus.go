// Package events provides a simple publish-subscribe bus for pin toggle
// events, consumed by the SSE endpoint and the serial trace.
package events

import (
	"sync"
	"time"

	"github.com/micro-nova/blinky-go/internal/hardware"
)

const subBufferSize = 16

// Toggle describes one pin transition.
type Toggle struct {
	Seq    uint64         `json:"seq"`    // 1-based toggle count
	Pin    string         `json:"pin"`    // e.g. "PC13"
	Level  hardware.Level `json:"level"`  // level after the toggle
	Cycles uint64         `json:"cycles"` // delay cycles elapsed before this toggle, 0 if unknown
	At     time.Time      `json:"at"`
}

type subscription struct {
	pin string // "" receives every pin
	ch  chan Toggle
}

// Bus is a non-blocking publish-subscribe event bus.
// Subscribers that are slow to consume events will have events dropped rather
// than blocking publishers. Events for a pin nobody watches are discarded
// before any fan-out.
type Bus struct {
	mu   sync.Mutex
	subs map[string]subscription
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string]subscription),
	}
}

// Subscribe creates a subscription to every pin's toggles.
// Call Unsubscribe when done to clean up.
func (b *Bus) Subscribe(id string) <-chan Toggle {
	return b.SubscribePin(id, "")
}

// SubscribePin creates a subscription to one pin's toggles, e.g. "PC13".
// An empty pin subscribes to all of them.
func (b *Bus) SubscribePin(id, pin string) <-chan Toggle {
	b.mu.Lock()
	defer b.mu.Unlock()
	if old, ok := b.subs[id]; ok {
		close(old.ch)
	}
	ch := make(chan Toggle, subBufferSize)
	b.subs[id] = subscription{pin: pin, ch: ch}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sub, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(sub.ch)
	}
}

// Watching reports whether any subscriber would receive events for pin.
func (b *Bus) Watching(pin string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		if sub.pin == "" || sub.pin == pin {
			return true
		}
	}
	return false
}

// Publish sends a toggle event to every subscriber watching its pin.
// If a subscriber's channel is full, the event is dropped (non-blocking).
func (b *Bus) Publish(ev Toggle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		if sub.pin != "" && sub.pin != ev.Pin {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			// Drop if subscriber is slow
		}
	}
}

// SubscriberCount returns the current number of subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
