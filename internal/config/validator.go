package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "oracle.timeout_seconds")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidSessionStores returns the list of valid session store backends
func ValidSessionStores() []string {
	return []string{"file", "sqlite"}
}

// Validate checks the Config for invalid values and returns all validation
// errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.Move.DefaultBudget <= 0 {
		errors = append(errors, ValidationError{
			Field:   "move.default_budget",
			Value:   c.Move.DefaultBudget,
			Message: "must be greater than 0",
		})
	}

	if c.Oracle.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "oracle.base_url",
			Value:   c.Oracle.BaseURL,
			Message: "must not be empty",
		})
	}

	if c.Oracle.TimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "oracle.timeout_seconds",
			Value:   c.Oracle.TimeoutSeconds,
			Message: "must not be negative",
		})
	}

	if c.Oracle.Temperature < 0 || c.Oracle.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "oracle.temperature",
			Value:   c.Oracle.Temperature,
			Message: "must be between 0 and 2",
		})
	}

	if !slices.Contains(ValidSessionStores(), c.Session.Store) {
		errors = append(errors, ValidationError{
			Field:   "session.store",
			Value:   c.Session.Store,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidSessionStores(), ", ")),
		})
	}

	if c.Session.Store == "sqlite" && c.Session.SQLitePath == "" {
		errors = append(errors, ValidationError{
			Field:   "session.sqlite_path",
			Value:   c.Session.SQLitePath,
			Message: "must be set when session.store is sqlite",
		})
	}

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
