package matcher

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every *ConfigurationError.
	ErrConfiguration = errors.New("matcher: invalid configuration")

	// ErrQueryExhausted is matched by every *QueryExhaustedError.
	ErrQueryExhausted = errors.New("matcher: query attempts exhausted")

	// ErrUsage is matched by every *UsageError.
	ErrUsage = errors.New("matcher: usage error")

	// ErrNotFound is returned by a single query function when the identifier
	// has no datum. It is not a failure and contributes nothing to the match.
	ErrNotFound = errors.New("matcher: not found")
)

// ConfigurationError reports missing or contradictory wiring detected by
// Builder.Build. It is never retried.
type ConfigurationError struct {
	// Field names the offending builder setting.
	Field string
	// Reason describes the problem.
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Field, e.Reason)
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func configError(field, reason string) error {
	return &ConfigurationError{Field: field, Reason: reason}
}

// QueryExhaustedError is returned by Match when every query attempt failed.
type QueryExhaustedError struct {
	// Attempts is the number of attempts made.
	Attempts int
	// Identifiers is the number of pending identifiers that were queried.
	Identifiers int
	// Err is the cause of the last failed attempt.
	Err error
}

func (e *QueryExhaustedError) Error() string {
	return fmt.Sprintf("%s: query for %d identifiers failed after %d attempts: %v",
		ErrQueryExhausted, e.Identifiers, e.Attempts, e.Err)
}

// Unwrap returns the last cause.
func (e *QueryExhaustedError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrQueryExhausted.
func (e *QueryExhaustedError) Is(target error) bool {
	return target == ErrQueryExhausted
}

// UsageError reports API misuse: reading a result before a successful match, or
// reading it through an accessor of the wrong cardinality.
type UsageError struct {
	// Op is the accessor that was called.
	Op string
	// Reason describes the misuse.
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrUsage, e.Op, e.Reason)
}

// Is reports whether target is ErrUsage.
func (e *UsageError) Is(target error) bool {
	return target == ErrUsage
}
