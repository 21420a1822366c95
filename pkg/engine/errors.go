package engine

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of an error for recovery logic.
type ErrorClass string

const (
	// ErrorClassTransient indicates a temporary failure that may succeed
	// on retry. Examples: workbook host busy, store lock contention.
	ErrorClassTransient ErrorClass = "transient"

	// ErrorClassValidation indicates rejected input.
	// Examples: negative dimensions, unknown document kind.
	ErrorClassValidation ErrorClass = "validation"

	// ErrorClassPermanent indicates a non-recoverable error.
	// Examples: invalid configuration, broken formula, missing table.
	ErrorClassPermanent ErrorClass = "permanent"
)

// EngineError represents a classified error with context.
type EngineError struct {
	// Class is the error classification.
	Class ErrorClass `json:"class"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Document is the document name that caused the error, if applicable.
	Document string `json:"document,omitempty"`

	// Operation is the operation being performed when the error occurred.
	Operation string `json:"operation,omitempty"`

	// Err is the underlying error that caused this error.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Document != "" && e.Operation != "" {
		return fmt.Sprintf("[%s] %s (document=%s, operation=%s): %s",
			e.Class, e.Message, e.Document, e.Operation, e.unwrapMessage())
	}
	if e.Document != "" {
		return fmt.Sprintf("[%s] %s (document=%s): %s",
			e.Class, e.Message, e.Document, e.unwrapMessage())
	}
	return fmt.Sprintf("[%s] %s: %s", e.Class, e.Message, e.unwrapMessage())
}

// Unwrap returns the underlying error for error chain inspection.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// unwrapMessage returns the error message from the underlying error chain.
func (e *EngineError) unwrapMessage() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

// Is implements error equality checking for errors.Is.
func (e *EngineError) Is(target error) bool {
	t, ok := target.(*EngineError)
	if !ok {
		return false
	}
	return e.Class == t.Class
}

// NewTransientError creates a new transient error.
func NewTransientError(message string, err error) *EngineError {
	return &EngineError{
		Class:   ErrorClassTransient,
		Message: message,
		Err:     err,
	}
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, err error) *EngineError {
	return &EngineError{
		Class:   ErrorClassValidation,
		Message: message,
		Err:     err,
	}
}

// NewPermanentError creates a new permanent error.
func NewPermanentError(message string, err error) *EngineError {
	return &EngineError{
		Class:   ErrorClassPermanent,
		Message: message,
		Err:     err,
	}
}

// ClassOf returns the classification of an error, defaulting to permanent
// for unclassified errors.
func ClassOf(err error) ErrorClass {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Class
	}
	return ErrorClassPermanent
}
