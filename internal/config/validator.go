package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "decompose.workers")
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

// ValidOutputFormats returns the list of valid output formats
func ValidOutputFormats() []string {
	return []string{"yaml", "json", "text"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.Decompose.Workers < 1 {
		errors = append(errors, ValidationError{
			Field:   "decompose.workers",
			Value:   c.Decompose.Workers,
			Message: "must be at least 1",
		})
	}
	if c.Decompose.MaxDepth < 0 {
		errors = append(errors, ValidationError{
			Field:   "decompose.max_depth",
			Value:   c.Decompose.MaxDepth,
			Message: "must not be negative",
		})
	}

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if !slices.Contains(ValidOutputFormats(), c.Output.Format) {
		errors = append(errors, ValidationError{
			Field:   "output.format",
			Value:   c.Output.Format,
			Message: fmt.Sprintf("must be one of %s", strings.Join(ValidOutputFormats(), ", ")),
		})
	}
	if c.Output.Scale <= 0 {
		errors = append(errors, ValidationError{
			Field:   "output.scale",
			Value:   c.Output.Scale,
			Message: "must be positive",
		})
	}

	if c.Server.Addr == "" {
		errors = append(errors, ValidationError{
			Field:   "server.addr",
			Value:   c.Server.Addr,
			Message: "must not be empty",
		})
	}
	if c.Server.MaxBodyBytes <= 0 {
		errors = append(errors, ValidationError{
			Field:   "server.max_body_bytes",
			Value:   c.Server.MaxBodyBytes,
			Message: "must be positive",
		})
	}
	if c.Server.MaxPoints < 3 {
		errors = append(errors, ValidationError{
			Field:   "server.max_points",
			Value:   c.Server.MaxPoints,
			Message: "must be at least 3",
		})
	}

	if c.Cache.TTLMinutes < 0 {
		errors = append(errors, ValidationError{
			Field:   "cache.ttl_minutes",
			Value:   c.Cache.TTLMinutes,
			Message: "must not be negative",
		})
	}

	return errors
}
