package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies client-facing failures so callers can branch on
// structure instead of inspecting message strings.
type ErrorKind string

const (
	// KindValidation is a local precondition failure; no request was sent.
	KindValidation ErrorKind = "validation"
	// KindUnauthorized means the backend rejected or the client lacks a token.
	KindUnauthorized ErrorKind = "unauthorized"
	// KindServerRejected is a non-2xx backend response.
	KindServerRejected ErrorKind = "server_rejected"
	// KindNetwork is a transport-level failure.
	KindNetwork ErrorKind = "network"
)

// Error is the typed error carried across the client.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError reports a local precondition failure.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewUnauthorizedError reports a missing or rejected credential.
func NewUnauthorizedError(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// NewServerError reports a backend rejection with the extracted message.
func NewServerError(message string) *Error {
	return &Error{Kind: KindServerRejected, Message: message}
}

// NewNetworkError wraps a transport failure.
func NewNetworkError(message string, err error) *Error {
	return &Error{Kind: KindNetwork, Message: message, Err: err}
}

// KindOf returns the kind of err, or "" if err carries no kind.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// IsUnauthorized reports whether err is an authentication failure.
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}

// UserMessage extracts the user-visible message from err, falling back to
// the generic text for untyped errors.
func UserMessage(err error, fallback string) string {
	var de *Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return fallback
}
