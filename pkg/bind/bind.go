// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/validate"
)

// ErrMalformedBody wraps every JSON decoding failure.
var ErrMalformedBody = errors.New("malformed request body")

// TooLargeError reports a body over the configured limit.
type TooLargeError struct {
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("request body too large (max %d bytes)", e.Limit)
}

// Status is the HTTP status the error maps to.
func (e *TooLargeError) Status() int { return http.StatusRequestEntityTooLarge }

// ValidationError lists the fields of a decoded body that failed their rules.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("request validation failed: %v", e.Fields)
}

func (e *ValidationError) InvalidFields() map[string]string { return e.Fields }

// maxBodyBytes returns the configured request body size limit (default 1 MB).
func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || n <= 0 {
		return 1 << 20
	}
	return n
}

// JSON decodes r.Body as JSON into dest and runs validate.Struct on it.
// The body is capped at MAX_BODY_BYTES.
func JSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return &TooLargeError{Limit: maxErr.Limit}
		}
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return &ValidationError{Fields: errs}
	}
	return nil
}
