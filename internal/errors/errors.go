// Package errors provides centralized error definitions and error handling
// utilities for the movewise codebase. It defines domain-specific errors,
// error constructors with context wrapping, and classification helpers.
//
// The package provides two categories of errors:
//
// Domain-specific errors represent errors from specific subsystems:
//   - PlanError: errors related to plan orchestration
//   - EstimateError: errors related to price/volume estimation
//   - StoreError: errors related to session persistence
//
// Typical usage:
//
//	err := errors.NewPlanError("quote selection failed", errors.ErrNoQuotes).WithStep("select_quote")
//
//	if errors.Is(err, errors.ErrNoQuotes) { ... }
//
//	var planErr *errors.PlanError
//	if errors.As(err, &planErr) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo Severity = iota
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Plan-related sentinel errors
var (
	// ErrEmptyInventory indicates that a plan was requested with no inventory.
	ErrEmptyInventory = New("no inventory to analyze")
	// ErrNoQuotes indicates that quote selection was attempted with no quotes.
	ErrNoQuotes = New("no quotes available")
	// ErrNoSelectedQuote indicates that booking was attempted before a quote
	// was selected.
	ErrNoSelectedQuote = New("no quote selected")
	// ErrUnknownStep indicates a step kind the orchestrator does not recognize.
	ErrUnknownStep = New("unknown step kind")
)

// Estimation-related sentinel errors
var (
	// ErrOracleUnavailable indicates the pricing oracle could not be reached.
	ErrOracleUnavailable = New("pricing oracle unavailable")
	// ErrMalformedResponse indicates the oracle returned output that could
	// not be decoded.
	ErrMalformedResponse = New("malformed oracle response")
)

// Session-related sentinel errors
var (
	// ErrSessionNotFound indicates that a session could not be found.
	ErrSessionNotFound = New("session not found")
	// ErrSessionCorrupted indicates that persisted session data is corrupted.
	ErrSessionCorrupted = New("session data corrupted")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns true if the error is transient and the operation may
// succeed on retry.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns true if the error message is safe to display to
// end users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain Error Types
// -----------------------------------------------------------------------------

// PlanError represents an error during plan orchestration.
type PlanError struct {
	baseError
	SessionID string
	Step      string
}

// NewPlanError creates a new PlanError.
func NewPlanError(message string, cause error) *PlanError {
	return &PlanError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithSession adds session context to the error.
func (e *PlanError) WithSession(sessionID string) *PlanError {
	e.SessionID = sessionID
	return e
}

// WithStep adds step context to the error.
func (e *PlanError) WithStep(step string) *PlanError {
	e.Step = step
	return e
}

// Error returns the error message with context.
func (e *PlanError) Error() string {
	msg := e.baseError.Error()
	if e.Step != "" {
		msg = fmt.Sprintf("step %s: %s", e.Step, msg)
	}
	if e.SessionID != "" {
		msg = fmt.Sprintf("session %s: %s", e.SessionID, msg)
	}
	return msg
}

// EstimateError represents an error during price or volume estimation.
// Estimation errors are recoverable: the estimator falls back to its
// deterministic heuristics, so these errors are logged rather than surfaced.
type EstimateError struct {
	baseError
	Item string
}

// NewEstimateError creates a new EstimateError.
func NewEstimateError(message string, cause error) *EstimateError {
	return &EstimateError{
		baseError: baseError{
			message:   message,
			cause:     cause,
			severity:  SeverityWarning,
			retryable: true,
		},
	}
}

// WithItem adds item context to the error.
func (e *EstimateError) WithItem(name string) *EstimateError {
	e.Item = name
	return e
}

// Error returns the error message with context.
func (e *EstimateError) Error() string {
	msg := e.baseError.Error()
	if e.Item != "" {
		msg = fmt.Sprintf("item %q: %s", e.Item, msg)
	}
	return msg
}

// StoreError represents an error from session persistence.
type StoreError struct {
	baseError
	SessionID string
}

// NewStoreError creates a new StoreError.
func NewStoreError(message string, cause error) *StoreError {
	return &StoreError{
		baseError: baseError{
			message:  message,
			cause:    cause,
			severity: SeverityError,
		},
	}
}

// WithSession adds session context to the error.
func (e *StoreError) WithSession(sessionID string) *StoreError {
	e.SessionID = sessionID
	return e
}

// Error returns the error message with context.
func (e *StoreError) Error() string {
	msg := e.baseError.Error()
	if e.SessionID != "" {
		msg = fmt.Sprintf("session %s: %s", e.SessionID, msg)
	}
	return msg
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// classifier is implemented by errors that carry classification metadata.
type classifier interface {
	Severity() Severity
	IsRetryable() bool
	IsUserFacing() bool
}

// IsRetryable reports whether err is transient and worth retrying.
func IsRetryable(err error) bool {
	var c classifier
	if errors.As(err, &c) {
		return c.IsRetryable()
	}
	return false
}

// IsUserFacing reports whether err is safe to display to end users.
// Precondition failures (empty inventory, missing quotes) are always
// user-facing since they require user action to resolve.
func IsUserFacing(err error) bool {
	switch {
	case errors.Is(err, ErrEmptyInventory),
		errors.Is(err, ErrNoQuotes),
		errors.Is(err, ErrNoSelectedQuote),
		errors.Is(err, ErrInvalidInput):
		return true
	}
	var c classifier
	if errors.As(err, &c) {
		return c.IsUserFacing()
	}
	return false
}

// SeverityOf returns the severity of err, defaulting to SeverityError for
// unclassified errors.
func SeverityOf(err error) Severity {
	var c classifier
	if errors.As(err, &c) {
		return c.Severity()
	}
	return SeverityError
}
