package annotate

import (
	"errors"
	"fmt"

	"github.com/c360studio/semunits/store"
)

// ErrInputNotFound is returned when an input model path or glob matches
// nothing.
var ErrInputNotFound = errors.New("input model not found")

// Error types for classifying run failures.

// PreconditionError means a model was missing or failed validation. The run
// stops before any inference or save.
type PreconditionError struct {
	err error
}

func (e *PreconditionError) Error() string {
	return e.err.Error()
}

func (e *PreconditionError) Unwrap() error {
	return e.err
}

// NewPreconditionError wraps an error as a precondition failure.
func NewPreconditionError(err error) error {
	return &PreconditionError{err: err}
}

// ConfigError means the run was misconfigured, for example an unknown
// annotation format or an unreadable annotation file.
type ConfigError struct {
	err error
}

func (e *ConfigError) Error() string {
	return e.err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.err
}

// NewConfigError wraps an error as a configuration failure.
func NewConfigError(err error) error {
	return &ConfigError{err: err}
}

// ConflictError means the output exists and overwriting was not requested.
type ConflictError struct {
	err error
}

func (e *ConflictError) Error() string {
	return e.err.Error()
}

func (e *ConflictError) Unwrap() error {
	return e.err
}

// NewConflictError wraps an error as an output conflict.
func NewConflictError(err error) error {
	return &ConflictError{err: err}
}

// IsPrecondition returns true if the error is a precondition failure.
func IsPrecondition(err error) bool {
	var pre *PreconditionError
	return errors.As(err, &pre)
}

// IsConfig returns true if the error is a configuration failure.
func IsConfig(err error) bool {
	var cfg *ConfigError
	return errors.As(err, &cfg)
}

// IsConflict returns true if the error is an output conflict.
func IsConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}

// Exit codes reported by the command line.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
	ExitMissing    = 3
	ExitConfig     = 4
	ExitConflict   = 5
)

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsConflict(err):
		return ExitConflict
	case IsConfig(err):
		return ExitConfig
	case errors.Is(err, ErrInputNotFound):
		return ExitMissing
	case IsPrecondition(err):
		return ExitValidation
	default:
		return ExitFailure
	}
}

func missingInput(path string) error {
	return NewPreconditionError(fmt.Errorf("%w: %s", ErrInputNotFound, path))
}

func isOutputExists(err error) bool {
	return errors.Is(err, store.ErrOutputExists)
}
