// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error types and exit codes shared by all CLI commands.
//
// Handlers always return errors and let main decide how to display them.
// A failure the controllers already reported as a notice is wrapped with
// Reported so it is not printed twice.

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/ragdesk/internal/api"
	"github.com/jeranaias/ragdesk/internal/config"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitNetworkError indicates the backend could not be reached
	ExitNetworkError = 5
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 7
	// ExitTimeoutError indicates an operation timed out
	ExitTimeoutError = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // e.g. "upload"
	Action  string // e.g. "read file"
	Reason  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError represents invalid user input.
type ValidationError struct {
	Field   string
	Value   string
	Reason  string
	Example string // optional
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// NotFoundError represents a resource not found error.
type NotFoundError struct {
	Resource string // e.g. "document"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConfigError wraps a failure to load or validate configuration.
type ConfigError struct {
	Path string // empty for the default location
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// reportedError marks an error the user has already been told about.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Reported wraps err so DisplayError stays quiet in text mode.
func Reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// IsReported reports whether err was wrapped with Reported.
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// NewCommandError creates a new command error.
func NewCommandError(command, action, reason string, err error) error {
	return &CommandError{Command: command, Action: action, Reason: reason, Err: err}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, value, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// NewValidationErrorWithExample creates a validation error with an example.
func NewValidationErrorWithExample(field, value, reason, example string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason, Example: example}
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// =============================================================================
// DISPLAY AND EXIT CODES
// =============================================================================

// DisplayError writes err for the user. In JSON mode the error envelope goes
// to stdout; otherwise a styled line goes to stderr unless it was Reported.
func DisplayError(stdout, stderr io.Writer, command string, err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		_ = NewJSONErrorResponse(command, err).Write(stdout)
		return
	}
	if IsReported(err) {
		return
	}
	fmt.Fprintf(stderr, "%s %s\n", ErrorStyle.Render("[ERROR]"), err.Error())
}

// GetExitCode maps err onto an exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		validation *ValidationError
		notFound   *NotFoundError
		cfgErr     *ConfigError
		cfgInvalid config.ValidateErrors
	)
	switch {
	case errors.As(err, &validation):
		return ExitUsageError
	case errors.As(err, &cfgErr), errors.As(err, &cfgInvalid):
		return ExitConfigError
	case errors.As(err, &notFound), api.IsNotFound(err):
		return ExitNotFoundError
	case api.IsTimeout(err):
		return ExitTimeoutError
	case api.IsConnection(err):
		return ExitNetworkError
	}
	return ExitGeneralError
}
