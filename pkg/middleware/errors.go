package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/catalog/pkg/bind"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/response"
)

const (
	ValidationErrorMessage = "Validation error"
	InvalidDataMessage     = "Invalid data format"
	DuplicateRecordMessage = "Record already exists"
	InvalidJSONMessage     = "Invalid JSON format"
	InternalErrorMessage   = "Internal server error"
)

// StatusError carries its own HTTP status; its message is safe to show.
type StatusError interface {
	error
	Status() int
}

// FieldError is a validation failure listing the offending fields.
type FieldError interface {
	error
	InvalidFields() map[string]string
}

// CastError is a failure to convert a stored or submitted value.
type CastError interface {
	error
	CastField() string
}

// HandleErrors returns the router's error handler. It classifies err, logs
// the detail server-side and writes exactly one envelope; clients only see
// the generic message of each class. If the response was already started
// the error is logged and nothing is written.
func HandleErrors(base *slog.Logger) func(http.ResponseWriter, *http.Request, error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		log := logger.WithCtx(r.Context())
		if base != nil && log == logger.L {
			log = base
		}
		reqAttrs := slog.Group("request",
			slog.String("method", r.Method),
			slog.String("url", r.URL.RequestURI()),
			slog.String("ip", ClientIP(r)),
			slog.String("user_agent", r.UserAgent()),
		)

		tw := response.Track(w)
		if tw.Started() {
			log.Error("response already sent, cannot send error response", logger.Err(err), reqAttrs)
			return
		}

		status, message := Classify(err)
		switch {
		case status >= 500:
			log.Error("internal server error occurred", logger.Err(err), reqAttrs)
		case status == http.StatusNotFound:
			log.Info(message, reqAttrs)
		default:
			log.Warn("request failed", slog.Int("status", status), logger.Err(err), reqAttrs)
		}

		response.Error(tw, status, message)
	}
}

// Classify maps an error to the status and client message it is answered
// with.
func Classify(err error) (int, string) {
	var (
		se StatusError
		fe FieldError
		ce CastError
	)

	switch {
	case errors.As(err, &se):
		msg := se.Error()
		if msg == "" {
			msg = InternalErrorMessage
		}
		return se.Status(), msg
	case errors.As(err, &fe):
		return http.StatusBadRequest, ValidationErrorMessage
	case errors.As(err, &ce):
		return http.StatusBadRequest, InvalidDataMessage
	case mongo.IsDuplicateKeyError(err):
		return http.StatusBadRequest, DuplicateRecordMessage
	case errors.Is(err, bind.ErrMalformedBody):
		return http.StatusBadRequest, InvalidJSONMessage
	default:
		return http.StatusInternalServerError, InternalErrorMessage
	}
}
