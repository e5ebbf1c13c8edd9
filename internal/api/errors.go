// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strconv"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeCanceled
	ErrTypeBackend
	ErrTypeInvalidResponse
)

// String returns a short lowercase name for the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeConnection:
		return "connection"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeCanceled:
		return "canceled"
	case ErrTypeBackend:
		return "backend"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

// ClientError represents a failed backend call.
// Status is the HTTP status for ErrTypeBackend, zero otherwise.
// Detail holds the backend's "detail" string when one was sent.
type ClientError struct {
	Type    ErrorType
	Status  int
	Detail  string
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	msg := e.Message
	if e.Status != 0 {
		msg += " (HTTP " + strconv.Itoa(e.Status) + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Sentinel errors for easy checking.
var (
	ErrTimeout  = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrCanceled = &ClientError{Type: ErrTypeCanceled, Message: "request canceled"}
)

// classifyTransport turns an error from the HTTP round trip into a ClientError.
func classifyTransport(op string, err error) *ClientError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ClientError{Type: ErrTypeTimeout, Message: op + " timed out", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &ClientError{Type: ErrTypeCanceled, Message: op + " canceled", Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ClientError{Type: ErrTypeTimeout, Message: op + " timed out", Cause: err}
	}
	return &ClientError{Type: ErrTypeConnection, Message: op + " failed", Cause: err}
}

// backendError builds the error for a non-2xx response.
func backendError(op string, status int, body []byte) *ClientError {
	return &ClientError{
		Type:    ErrTypeBackend,
		Status:  status,
		Detail:  parseDetail(body),
		Message: op + " rejected by backend",
	}
}

// parseDetail extracts a string "detail" field; anything else yields "".
func parseDetail(body []byte) string {
	var env errorResponse
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(env.Detail, &detail); err != nil {
		return ""
	}
	return detail
}

// =============================================================================
// HELPERS
// =============================================================================

// UserMessage returns the backend detail carried by err when present, else fallback.
func UserMessage(err error, fallback string) string {
	var clientErr *ClientError
	if errors.As(err, &clientErr) && clientErr.Detail != "" {
		return clientErr.Detail
	}
	return fallback
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// IsCanceled checks if the call was abandoned by its caller.
func IsCanceled(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeCanceled
	}
	return errors.Is(err, context.Canceled)
}

// IsNotFound reports a 404 from the backend.
func IsNotFound(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.Type == ErrTypeBackend && clientErr.Status == 404
}

// IsConnection reports that the backend could not be reached.
func IsConnection(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.Type == ErrTypeConnection
}
