// Package api implements the HTTP status API for the host blink simulator.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/micro-nova/blinky-go/internal/blink"
	"github.com/micro-nova/blinky-go/internal/events"
)

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	blinker Blinker
	events  EventBus
}

// Blinker is the interface the handlers use to read the blink loop state.
type Blinker interface {
	Status(ctx context.Context) (blink.Status, error)
}

// EventBus is the interface for subscribing to toggle events.
type EventBus interface {
	Subscribe(id string) <-chan events.Toggle
	Unsubscribe(id string)
}

// apiError is the JSON error body.
type apiError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes err as a 500 JSON response.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, apiError{Code: "INTERNAL", Message: err.Error()})
}
