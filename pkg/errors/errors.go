package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrUserCanceled ErrorCode = "USER_CANCELED"

	// Configuration errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Mod store errors
	ErrModNotFound ErrorCode = "MOD_NOT_FOUND"
	ErrStoreLoad   ErrorCode = "STORE_LOAD"
	ErrStoreSave   ErrorCode = "STORE_SAVE"

	// Install errors
	ErrInstallFailed ErrorCode = "INSTALL_FAILED"

	// Archive errors
	ErrArchiveRead    ErrorCode = "ARCHIVE_READ"
	ErrArchiveWrite   ErrorCode = "ARCHIVE_WRITE"
	ErrArchiveInvalid ErrorCode = "ARCHIVE_INVALID"

	// Merge errors
	ErrMergeFailed ErrorCode = "MERGE_FAILED"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
)

// PakError represents a structured error with code and details
type PakError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *PakError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PakError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *PakError) Is(target error) bool {
	var targetErr *PakError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new PakError with the given code and message
func New(code ErrorCode, message string) *PakError {
	return &PakError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new PakError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PakError {
	return &PakError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a PakError
func Wrap(err error, code ErrorCode, message string) *PakError {
	if err == nil {
		return nil
	}
	return &PakError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PakError {
	if err == nil {
		return nil
	}
	return &PakError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *PakError) WithDetail(key string, value interface{}) *PakError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *PakError) WithDetails(details map[string]interface{}) *PakError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error, or any PakError it wraps, has a specific
// error code
func IsErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var pakErr *PakError
		if !errors.As(err, &pakErr) {
			return false
		}
		if pakErr.Code == code {
			return true
		}
		err = pakErr.Wrapped
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a PakError
func GetErrorCode(err error) ErrorCode {
	var pakErr *PakError
	if errors.As(err, &pakErr) {
		return pakErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a PakError
func GetErrorDetails(err error) map[string]interface{} {
	var pakErr *PakError
	if errors.As(err, &pakErr) {
		return pakErr.Details
	}
	return nil
}

// UserCanceled returns the error reported when a user declines a prompt.
func UserCanceled(message string) *PakError {
	return New(ErrUserCanceled, message)
}

// IsUserCanceled reports whether err carries the ErrUserCanceled code.
func IsUserCanceled(err error) bool {
	return IsErrorCode(err, ErrUserCanceled)
}

// IsNotExist reports whether err, or anything it wraps, is a not-found
// filesystem error.
func IsNotExist(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err)
}
