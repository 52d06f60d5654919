// Unified error handling for the exclude-region G-code filter.
package errors

import "fmt"

// ErrorCode represents the category of error.
type ErrorCode string

const (
	// G-code interpretation errors
	ErrGcodeParse ErrorCode = "GCODE_PARSE"
	ErrArcDomain  ErrorCode = "ARC_DOMAIN"
	ErrAtCommand  ErrorCode = "AT_COMMAND"

	// Configuration errors
	ErrConfigSection ErrorCode = "CONFIG_SECTION"
	ErrConfigOption  ErrorCode = "CONFIG_OPTION"

	// Transport errors
	ErrSerial  ErrorCode = "SERIAL"
	ErrMonitor ErrorCode = "MONITOR"
)

// FilterError is the unified error type for the filter.
type FilterError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Err wraps the underlying error
	Err error
}

// Error implements the error interface.
func (e *FilterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *FilterError) Unwrap() error {
	return e.Err
}

// New creates a new FilterError.
func New(code ErrorCode, message string) *FilterError {
	return &FilterError{Code: code, Message: message}
}

// Wrap wraps an existing error with a category and message.
func Wrap(err error, code ErrorCode, message string) *FilterError {
	return &FilterError{Code: code, Message: message, Err: err}
}

// Is checks if the error carries the given error code.
func Is(err error, code ErrorCode) bool {
	if fe, ok := err.(*FilterError); ok {
		return fe.Code == code
	}
	return false
}

// GcodeParseError creates an error for a G-code parsing failure.
func GcodeParseError(cmd string, reason string) *FilterError {
	return New(ErrGcodeParse, fmt.Sprintf("failed to parse G-code %q: %s", cmd, reason))
}

// ArcDomainError creates an error for an arc whose radius cannot span the
// chord between the start and end points.
func ArcDomainError(radius, chord float64) *FilterError {
	return New(ErrArcDomain,
		fmt.Sprintf("arc radius %.3f too small for chord length %.3f", radius, chord))
}

// AtCommandError creates an error for an at-command action failure.
func AtCommandError(cmd string, reason string) *FilterError {
	return New(ErrAtCommand, fmt.Sprintf("at-command @%s: %s", cmd, reason))
}

// ConfigSectionError creates an error for an invalid config section.
func ConfigSectionError(section, reason string) *FilterError {
	return New(ErrConfigSection, fmt.Sprintf("section [%s]: %s", section, reason))
}

// ConfigOptionError creates an error for a missing or invalid config option.
func ConfigOptionError(section, option, reason string) *FilterError {
	return New(ErrConfigOption,
		fmt.Sprintf("option '%s' in section [%s]: %s", option, section, reason))
}
