package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError carrying the same code, so that
// errors.Is(err, ErrEmptySample) matches any empty-sample failure.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message
func Newf(code, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeEmptySample              = "EMPTY_SAMPLE"
	CodeInsufficientGroups       = "INSUFFICIENT_GROUPS"
	CodeInvalidAlpha             = "INVALID_ALPHA"
	CodeInvalidTail              = "INVALID_TAIL"
	CodeInsufficientObservations = "INSUFFICIENT_OBSERVATIONS"
	CodeZeroVariance             = "ZERO_VARIANCE"
	CodeInvalidInput             = "INVALID_INPUT"
	CodeConfigInvalid            = "CONFIG_INVALID"
	CodeNotFound                 = "NOT_FOUND"
	CodeInternalError            = "INTERNAL_ERROR"
)

// Sentinels for errors.Is matching. Only the code is compared.
var (
	ErrEmptySample              = New(CodeEmptySample, "empty sample")
	ErrInsufficientGroups       = New(CodeInsufficientGroups, "insufficient groups")
	ErrInvalidAlpha             = New(CodeInvalidAlpha, "invalid alpha")
	ErrInvalidTail              = New(CodeInvalidTail, "invalid tail")
	ErrInsufficientObservations = New(CodeInsufficientObservations, "insufficient observations")
	ErrZeroVariance             = New(CodeZeroVariance, "zero variance")
	ErrInvalidInput             = New(CodeInvalidInput, "invalid input")
	ErrConfigInvalid            = New(CodeConfigInvalid, "invalid configuration")
	ErrNotFound                 = New(CodeNotFound, "not found")
)

// Common error constructors
func EmptySample(selection string) *AppError {
	return Newf(CodeEmptySample, "sample %q matched no rows", selection)
}

func InsufficientGroups(column string, found int) *AppError {
	return Newf(CodeInsufficientGroups, "column %q has %d distinct group(s), need at least 2", column, found)
}

func InvalidAlpha(alpha float64) *AppError {
	return Newf(CodeInvalidAlpha, "alpha %v outside (0,1)", alpha)
}

func InvalidTail(tail string) *AppError {
	return Newf(CodeInvalidTail, "unrecognized tail %q (want two-sided, less or greater)", tail)
}

func InsufficientObservations(message string) *AppError {
	return New(CodeInsufficientObservations, message)
}

func ZeroVariance(message string) *AppError {
	return New(CodeZeroVariance, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
