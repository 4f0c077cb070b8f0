package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned when the tracker rejects a login.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNotAuthenticated is returned when a retrieval is attempted without a token.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// ValidationError represents local input validation failures
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s %s", e.Field, e.Msg)
}

// AuthError represents a failed login attempt
type AuthError struct {
	Reason string // "invalid_credentials", "unavailable"
	Err    error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error [%s]: %v", e.Reason, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// RetrievalKind classifies a failed retrieval
type RetrievalKind string

const (
	RetrievalUnauthorized RetrievalKind = "unauthorized"
	RetrievalUnavailable  RetrievalKind = "unavailable"
)

// RetrievalError represents a non-success response from the leads or journey endpoints
type RetrievalError struct {
	Op     string // "leads", "journey"
	Kind   RetrievalKind
	Status int // 0 when no response was received
	Err    error
}

func (e *RetrievalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("retrieval error [%s] %s (status %d): %v", e.Op, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("retrieval error [%s] %s (status %d)", e.Op, e.Kind, e.Status)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// ParseError represents errors parsing data
type ParseError struct {
	Source string // "login", "leads", "journey"
	Key    string // session id, field name or index
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
