package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrValidation signals client-side input rejected before dispatch.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound signals that the remote service has no record with the given id.
	ErrNotFound = errors.New("not found")
	// ErrTransport signals a failed remote call (parent of server and network classes).
	ErrTransport = errors.New("transport error")
	// ErrServer signals a remote failure reported by the service (5xx and unexpected statuses).
	ErrServer = errors.New("server error")
	// ErrNetwork signals that the remote service could not be reached.
	ErrNetwork = errors.New("network error")
	// ErrInvalidTransition signals an event that is not accepted in the current view mode.
	ErrInvalidTransition = errors.New("invalid view transition")
	// ErrStaleResponse signals a response discarded because its session was cleared
	// or a newer response was already applied.
	ErrStaleResponse = errors.New("stale response")
)

// StatusClass is the coarse classification of a remote failure.
type StatusClass string

// Status classes distinguished by the core.
const (
	ClassValidation StatusClass = "validation"
	ClassNotFound   StatusClass = "not_found"
	ClassServer     StatusClass = "server"
	ClassNetwork    StatusClass = "network"
)

// TransportError is a failed remote call. Message is the server's detail verbatim.
type TransportError struct {
	Class   StatusClass
	Status  int // 0 for network failures
	Message string
}

func (e *TransportError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Class, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Class, e.Message)
}

// Is matches the sentinel of the error's class; every class also matches ErrTransport.
func (e *TransportError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return true
	case ErrValidation:
		return e.Class == ClassValidation
	case ErrNotFound:
		return e.Class == ClassNotFound
	case ErrServer:
		return e.Class == ClassServer
	case ErrNetwork:
		return e.Class == ClassNetwork
	}
	return false
}

// NewTransportError creates a transport error of the given class.
func NewTransportError(class StatusClass, status int, message string) error {
	return &TransportError{Class: class, Status: status, Message: message}
}

// ValidationError carries per-field messages for input rejected on the client.
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
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewFieldError creates a validation error for a single field.
func NewFieldError(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}
