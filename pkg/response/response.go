// Package response writes the JSON envelope every catalog endpoint returns:
//
//	{"status":200,"message":"...","data":...,"timestamp":"2024-05-01T10:00:00.000Z"}
//
// Error envelopes carry "data": null.
package response

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/shashiranjanraj/catalog/pkg/clock"
)

// TimeLayout is the ISO-8601 form used for every timestamp on the wire.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Envelope wraps a response payload.
type Envelope[T any] struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Data      T      `json:"data"`
	Timestamp string `json:"timestamp"`
}

var (
	clkMu sync.RWMutex
	clk   clock.Clock = clock.Real()
)

// SetClock replaces the clock used for envelope timestamps and returns a
// function restoring the previous one.
func SetClock(c clock.Clock) (restore func()) {
	clkMu.Lock()
	prev := clk
	clk = c
	clkMu.Unlock()
	return func() {
		clkMu.Lock()
		clk = prev
		clkMu.Unlock()
	}
}

// Now returns the envelope clock's current time.
func Now() time.Time {
	clkMu.RLock()
	defer clkMu.RUnlock()
	return clk.Now()
}

// Timestamp formats t in UTC with millisecond precision.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// New builds an envelope stamped with the current time.
func New[T any](status int, message string, data T) Envelope[T] {
	return Envelope[T]{
		Status:    status,
		Message:   message,
		Data:      data,
		Timestamp: Timestamp(Now()),
	}
}

// JSON writes body with the given status code.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Write sends an envelope using its own status as the HTTP status.
func Write[T any](w http.ResponseWriter, env Envelope[T]) {
	JSON(w, env.Status, env)
}

// Success sends a 200 envelope.
func Success[T any](w http.ResponseWriter, message string, data T) {
	Write(w, New(http.StatusOK, message, data))
}

// Error sends an error envelope with "data": null.
func Error(w http.ResponseWriter, status int, message string) {
	Write[any](w, New[any](status, message, nil))
}

// Health answers liveness probes with {"status":"ok"}.
func Health(w http.ResponseWriter) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
