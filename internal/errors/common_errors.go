package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeNotFound  ErrorType = "NOT_FOUND"
	ErrTypeEmptySet  ErrorType = "EMPTY_SET"
	ErrTypeOpen      ErrorType = "OPEN"
	ErrTypeShape     ErrorType = "SHAPE"
	ErrTypeReduction ErrorType = "REDUCTION"
	ErrTypeStorage   ErrorType = "STORAGE"
	ErrTypeConfig    ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// IsType reports whether err, or any error it wraps, is an AppError of type t.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	for err != nil {
		if !stderrors.As(err, &appErr) {
			return false
		}
		if appErr.Type == t {
			return true
		}
		err = appErr.Cause
	}
	return false
}

// NewNotFoundError reports a required folder that does not exist.
func NewNotFoundError(path string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("folder '%s' does not exist", path), nil).
		WithContext("path", path)
}

// NewEmptySetError reports an input folder without eligible container files.
func NewEmptySetError(dir string, extensions []string) *AppError {
	return NewAppError(ErrTypeEmptySet, fmt.Sprintf("no valid container files found in folder: %s", dir), nil).
		WithContext("path", dir).
		WithContext("extensions", extensions)
}

// NewOpenError reports a container that could not be opened or read.
func NewOpenError(path string, cause error) *AppError {
	return NewAppError(ErrTypeOpen, fmt.Sprintf("failed to open container '%s'", path), cause).
		WithContext("path", path)
}

// NewShapeError reports position data with the wrong dimensionality.
func NewShapeError(device string, shape []int) *AppError {
	return NewAppError(ErrTypeShape, fmt.Sprintf("unexpected position shape %v in device '%s'", shape, device), nil).
		WithContext("device", device).
		WithContext("shape", shape)
}

// NewReductionError reports a sensor whose statistics could not be computed.
func NewReductionError(message string) *AppError {
	return NewAppError(ErrTypeReduction, message, nil)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
