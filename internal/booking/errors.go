package booking

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrSlotUnavailable      = errors.New("slot unavailable")
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrBackendNotConfigured = errors.New("supabase environment not configured")
)

// ValidationError carries per-field messages. It matches ErrInvalidInput.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, " ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// Field returns the message for one field, or "".
func (e *ValidationError) Field(name string) string { return e.Fields[name] }

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// UnavailableError explains why a slot was refused. It matches ErrSlotUnavailable.
type UnavailableError struct {
	Reason string
}

func (e *UnavailableError) Error() string {
	if e.Reason == "" {
		return "The selected time is no longer available."
	}
	return e.Reason
}

func (e *UnavailableError) Is(target error) bool { return target == ErrSlotUnavailable }
