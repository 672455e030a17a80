package reltree

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common operations.
var (
	// ErrNotSingular is returned when a lookup that expects at most one
	// result matches multiple nodes.
	ErrNotSingular = errors.New("reltree: node not singular")
)

// NotSingularError represents an error when a unique node lookup
// matches more than one node. Callers expecting multiple matches must
// use Find instead of Get.
type NotSingularError struct {
	count int // Number of matches returned (-1 if unknown)
}

// Error returns the error string.
func (e *NotSingularError) Error() string {
	if e.count >= 0 {
		return fmt.Sprintf("reltree: node not singular (got %d matches, expected 1)", e.count)
	}
	return "reltree: node not singular"
}

// Is reports whether the target error matches NotSingularError.
// This allows errors.Is(notSingularErr, ErrNotSingular) to return true.
func (e *NotSingularError) Is(err error) bool {
	return err == ErrNotSingular
}

// Count returns the number of matches, or -1 if unknown.
func (e *NotSingularError) Count() int {
	return e.count
}

// NewNotSingularError returns a new NotSingularError with the match count.
func NewNotSingularError(count int) *NotSingularError {
	return &NotSingularError{count: count}
}

// IsNotSingular returns true if the error is a NotSingularError.
func IsNotSingular(err error) bool {
	if err == nil {
		return false
	}
	var e *NotSingularError
	return errors.As(err, &e) || errors.Is(err, ErrNotSingular)
}

// ConfigError represents an invalid tree configuration option.
type ConfigError struct {
	Option  string // Option name
	Message string
}

// Error returns the error string.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("reltree: invalid configuration %s: %s", e.Option, e.Message)
}

// NewConfigError returns a new ConfigError for the given option.
func NewConfigError(option, message string) *ConfigError {
	return &ConfigError{Option: option, Message: message}
}

// FetchError represents a failed record fetch during propagation.
type FetchError struct {
	Path string // Path of the node being resolved
	Err  error  // Underlying fetcher error
}

// Error returns the error string.
func (e *FetchError) Error() string {
	return fmt.Sprintf("reltree: fetching records for node %q: %s", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}
