package errors

import (
	"errors"
	"fmt"
)

// Exit codes for dev-tools
const (
	ExitSuccess             = 0
	ExitGeneralError        = 1
	ExitEnvironmentNotFound = 2
	ExitSuffixAllocation    = 3
	ExitDockerFailed        = 4
	ExitConfigError         = 5
	ExitStateCorrupt        = 6
	ExitHostsError          = 7
	ExitComposerFailed      = 8
)

// DevToolsError is the base error type for dev-tools
type DevToolsError struct {
	Code    int
	Message string
	Cause   error
}

func (e *DevToolsError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DevToolsError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *DevToolsError) ExitCode() int {
	return e.Code
}

// New creates a new DevToolsError
func New(code int, message string) *DevToolsError {
	return &DevToolsError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a DevToolsError
func Wrap(code int, message string, cause error) *DevToolsError {
	return &DevToolsError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// EnvironmentNotFound returns an error for a path outside any environment
func EnvironmentNotFound(path string, cause error) *DevToolsError {
	return Wrap(ExitEnvironmentNotFound, fmt.Sprintf("no environment at %s", path), cause)
}

// SuffixAllocationFailed returns an error for suffix pool failures
func SuffixAllocationFailed(cause error) *DevToolsError {
	return Wrap(ExitSuffixAllocation, "failed to allocate suffix", cause)
}

// DockerFailed returns an error for docker operations
func DockerFailed(op string, cause error) *DevToolsError {
	return Wrap(ExitDockerFailed, fmt.Sprintf("docker %s failed", op), cause)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *DevToolsError {
	return Wrap(ExitConfigError, message, cause)
}

// StateCorrupt returns an error for an unreadable state document
func StateCorrupt(cause error) *DevToolsError {
	return Wrap(ExitStateCorrupt, "state file is corrupt", cause)
}

// HostsError returns an error for hosts file updates
func HostsError(message string, cause error) *DevToolsError {
	return Wrap(ExitHostsError, message, cause)
}

// ComposerFailed returns an error for composer commands
func ComposerFailed(op string, cause error) *DevToolsError {
	return Wrap(ExitComposerFailed, fmt.Sprintf("composer %s failed", op), cause)
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *DevToolsError {
	return New(ExitGeneralError, message)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var dtErr *DevToolsError
	if errors.As(err, &dtErr) {
		return dtErr.ExitCode()
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
