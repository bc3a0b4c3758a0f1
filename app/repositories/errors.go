package repositories

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError is returned when a document breaks the collection schema.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "product validation failed: " + strings.Join(parts, ", ")
}

// InvalidFields maps each failing field to its message.
func (e *ValidationError) InvalidFields() map[string]string { return e.Fields }

// CastError is returned when a stored value cannot be decoded into the
// product shape.
type CastError struct {
	Field string
	Value any
	Err   error
}

func (e *CastError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("cast failed: %v", e.Err)
	}
	return fmt.Sprintf("cast to %s failed for value %v: %v", e.Field, e.Value, e.Err)
}

func (e *CastError) Unwrap() error { return e.Err }

// CastField is the field whose value could not be converted.
func (e *CastError) CastField() string { return e.Field }
