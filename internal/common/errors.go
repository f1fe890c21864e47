// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Storage errors.
	ErrKeyNotFound    = errors.New("key not found")
	ErrStoreCorrupted = errors.New("store corrupted")

	// Verification errors.
	ErrNoCandidates = errors.New("no candidates to verify")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// SourceError marks a failure of one external reference source. The cascade
// treats a SourceError as "this source contributed nothing" and continues;
// it is never surfaced to the caller as a failure of the verification call.
type SourceError struct {
	Err    error
	Source string
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError wraps an external source failure with the source's name.
func NewSourceError(source string, err error) error {
	return &SourceError{Source: source, Err: err}
}

// IsSourceError reports whether err is (or wraps) a SourceError.
func IsSourceError(err error) bool {
	var se *SourceError
	return errors.As(err, &se)
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
