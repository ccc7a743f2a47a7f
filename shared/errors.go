package shared

import (
	"errors"
	"net/http"
)

// AppError carries the HTTP status and taxonomy code for a rejection.
// The pipeline returns these; the fiber error handler turns them into
// the response envelope. Anything that is not an AppError surfaces as
// a generic INTERNAL_ERROR with no internal detail leaked.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter int
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func NewRateLimitError(message string, retryAfter int) *AppError {
	return &AppError{
		StatusCode: http.StatusTooManyRequests,
		Code:       ErrCodeRateLimited,
		Message:    message,
		RetryAfter: retryAfter,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrCodeValidation,
		Message:    message,
	}
}

func NewSpamError(message string) *AppError {
	return &AppError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrCodeSpamDetected,
		Message:    message,
	}
}

func NewDuplicateEmailError(message string) *AppError {
	return &AppError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrCodeDuplicateEmail,
		Message:    message,
	}
}

func NewMissingDetailsError(message string) *AppError {
	return &AppError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrCodeMissingDetails,
		Message:    message,
	}
}

func NewInvalidRequestTypeError(message string) *AppError {
	return &AppError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrCodeInvalidRequestType,
		Message:    message,
	}
}

func NewDatabaseError(err error, message string) *AppError {
	return &AppError{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrCodeDatabase,
		Message:    message,
		Err:        err,
	}
}

func NewBadRequestError(err error, message string) *AppError {
	return &AppError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrCodeValidation,
		Message:    message,
		Err:        err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrCodeInternal,
		Message:    "Internal server error",
		Err:        err,
	}
}
