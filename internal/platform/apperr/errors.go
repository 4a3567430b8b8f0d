package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies an application error for the boundary translation.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindDependency   Kind = "dependency"
	KindNotFound     Kind = "not_found"
	KindStorageFault Kind = "storage_fault"
)

// Error is the typed error returned by services and repositories.
type Error struct {
	Kind    Kind
	Message string
	// Fields maps a request field name to a user-facing message (validation only).
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + e.Fields[k]
		}
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(parts, "; "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NewValidationError returns a validation error for a single field.
func NewValidationError(field, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "validation failed",
		Fields:  map[string]string{field: message},
	}
}

// NewFieldErrors returns a validation error carrying several field messages.
func NewFieldErrors(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

// WithCause attaches an underlying error, keeping it reachable through errors.Is.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NewDependencyError(message string) *Error {
	return &Error{Kind: KindDependency, Message: message}
}

func NewNotFoundError(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewStorageFault wraps a persistence or media store failure.
func NewStorageFault(op string, err error) *Error {
	return &Error{Kind: KindStorageFault, Message: op, Err: err}
}

// KindOf returns the kind of the first *Error in the chain, or "" for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Merge folds the field messages of two validation errors. Nil inputs are ignored.
func Merge(errs ...*Error) *Error {
	var out *Error
	for _, e := range errs {
		if e == nil {
			continue
		}
		if out == nil {
			out = NewFieldErrors(map[string]string{})
		}
		for k, v := range e.Fields {
			if _, exists := out.Fields[k]; !exists {
				out.Fields[k] = v
			}
		}
		if out.Err == nil {
			out.Err = e.Err
		}
	}
	return out
}
