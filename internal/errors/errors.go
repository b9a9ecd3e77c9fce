// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies application errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation_error"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeError      ErrorType = "processing_error"
	ErrorTypeTimeout    ErrorType = "timeout"

	// ErrorTypeStructural marks fatal input failures: the text has no
	// recognizable scene structure or is below the minimal viable length.
	// Callers should request manual input rather than retry automatically.
	ErrorTypeStructural ErrorType = "structural_failure"

	// ErrorTypeExtraction marks a failed chunk extraction. Per-chunk failures
	// are recoverable; the consolidator records a gap and proceeds.
	ErrorTypeExtraction ErrorType = "extraction_failure"
)

// Pipeline sentinels.
var (
	ErrNoSceneStructure = errors.New("input has no recognizable scene structure")
	ErrScriptTooShort   = errors.New("input shorter than minimal viable length")
	ErrExtractionFailed = errors.New("chunk extraction failed")
)

// AppError is the application error carrier: a type, a human message, a
// stable code, and the wrapped cause.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	Code    string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with a code derived from the type.
func NewAppError(errType ErrorType, message string, originalError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     originalError,
		Code:    generateErrorCode(errType),
	}
}

func NewValidationError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeValidation, message, originalError)
}

func NewNotFoundError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeNotFound, message, originalError)
}

func NewProcessingError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeError, message, originalError)
}

// NewStructuralFailure creates the fatal pipeline failure result.
func NewStructuralFailure(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeStructural, message, originalError)
}

// NewExtractionFailure wraps one chunk's extraction error.
func NewExtractionFailure(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeExtraction, message, originalError)
}

// IsValidationError checks whether err is a validation error.
func IsValidationError(err error) bool {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Type == ErrorTypeValidation
	}
	return false
}

// IsNotFoundError checks whether err is a not-found error.
func IsNotFoundError(err error) bool {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Type == ErrorTypeNotFound
	}
	return false
}

// IsStructuralFailure checks whether err is a fatal structural failure.
func IsStructuralFailure(err error) bool {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Type == ErrorTypeStructural
	}
	return errors.Is(err, ErrNoSceneStructure) || errors.Is(err, ErrScriptTooShort)
}

// IsExtractionFailure checks whether err is a per-chunk extraction failure.
func IsExtractionFailure(err error) bool {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Type == ErrorTypeExtraction
	}
	return errors.Is(err, ErrExtractionFailed)
}

func generateErrorCode(errType ErrorType) string {
	switch errType {
	case ErrorTypeValidation:
		return "VALIDATION_ERROR"
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	case ErrorTypeError:
		return "PROCESSING_ERROR"
	case ErrorTypeTimeout:
		return "TIMEOUT"
	case ErrorTypeStructural:
		return "STRUCTURAL_FAILURE"
	case ErrorTypeExtraction:
		return "EXTRACTION_FAILURE"
	default:
		return "UNKNOWN_ERROR"
	}
}

// WrapError wraps an existing error, preserving an AppError's type and code.
func WrapError(err error, message string, errType ErrorType) error {
	if err == nil {
		return nil
	}

	var appError *AppError
	if errors.As(err, &appError) {
		return &AppError{
			Type:    appError.Type,
			Message: fmt.Sprintf("%s: %s", message, appError.Message),
			Err:     appError,
			Code:    appError.Code,
		}
	}

	return NewAppError(errType, message, err)
}
