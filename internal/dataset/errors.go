package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput marks structurally invalid datasets and out-of-range parameters.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownName marks an unrecognized transformation, analysis, method or sheet.
	ErrUnknownName = errors.New("unknown name")
	// ErrUnavailable marks an optional data source that cannot be used in this build.
	ErrUnavailable = errors.New("source unavailable")
)

// ValidationError describes why an input was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// Invalid is shorthand for building a *ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// UnknownNameError reports a name outside a closed set.
type UnknownNameError struct {
	Kind  string
	Name  string
	Known []string
}

func (e *UnknownNameError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown %s: %s", e.Kind, e.Name)
	}
	return fmt.Sprintf("unknown %s: %s (use %s)", e.Kind, e.Name, strings.Join(e.Known, "|"))
}

func (e *UnknownNameError) Is(target error) bool { return target == ErrUnknownName }

// UnavailableError indicates an import provider that is not supported here.
type UnavailableError struct {
	Source string
	Err    error
}

func (e *UnavailableError) Error() string {
	if e == nil {
		return "unavailable"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s unavailable: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("%s unavailable", e.Source)
}

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

func (e *UnavailableError) Unwrap() error { return e.Err }
