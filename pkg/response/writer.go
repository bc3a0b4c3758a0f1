package response

import "net/http"

// TrackedWriter records whether a response has been started, so a late
// error can be logged instead of written over a partial body.
type TrackedWriter struct {
	http.ResponseWriter
	started bool
	status  int
}

// Track wraps w. Wrapping an already tracked writer returns it unchanged.
func Track(w http.ResponseWriter) *TrackedWriter {
	if tw, ok := w.(*TrackedWriter); ok {
		return tw
	}
	return &TrackedWriter{ResponseWriter: w}
}

func (w *TrackedWriter) WriteHeader(code int) {
	if w.started {
		return
	}
	w.started = true
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *TrackedWriter) Write(b []byte) (int, error) {
	if !w.started {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Started reports whether headers have been sent.
func (w *TrackedWriter) Started() bool { return w.started }

// Status is the code that was sent, or 0.
func (w *TrackedWriter) Status() int { return w.status }

// Flush forwards to the underlying writer when it supports flushing.
func (w *TrackedWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *TrackedWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
