package errors

import (
	"errors"
	"fmt"
)

// Exit codes for nitroctl
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitInstanceNotFound = 2
	ExitTemplateNotFound = 3
	ExitBridgeError      = 4
	ExitConfigError      = 5
	ExitValidation       = 6
	ExitPluginOwned      = 7
)

// CtlError is the base error type for nitroctl
type CtlError struct {
	Code    int
	Message string
	Cause   error
}

func (e *CtlError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CtlError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *CtlError) ExitCode() int {
	return e.Code
}

// New creates a new CtlError
func New(code int, message string) *CtlError {
	return &CtlError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a CtlError
func Wrap(code int, message string, cause error) *CtlError {
	return &CtlError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// InstanceNotFound returns an error for a missing instance
func InstanceNotFound(id string) *CtlError {
	return New(ExitInstanceNotFound, fmt.Sprintf("instance not found: %s", id))
}

// TemplateNotFound returns an error for a missing template
func TemplateNotFound(id string) *CtlError {
	return New(ExitTemplateNotFound, fmt.Sprintf("template not found: %s", id))
}

// BridgeError returns an error for a failed backend command
func BridgeError(command string, cause error) *CtlError {
	return Wrap(ExitBridgeError, fmt.Sprintf("backend command %s failed", command), cause)
}

// ConnectError returns an error for a failed backend connection
func ConnectError(target string, cause error) *CtlError {
	return Wrap(ExitBridgeError, fmt.Sprintf("failed to connect to backend at %s", target), cause)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *CtlError {
	return Wrap(ExitConfigError, message, cause)
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *CtlError {
	return New(ExitValidation, message)
}

// PluginOwned returns an error for attempts to edit a plugin-owned config
func PluginOwned(id string) *CtlError {
	return New(ExitPluginOwned, fmt.Sprintf("config %s is managed by a plugin and cannot be edited here", id))
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var ctlErr *CtlError
	if errors.As(err, &ctlErr) {
		return ctlErr.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
