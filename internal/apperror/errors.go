package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the machine-readable error code crossing the API boundary. The UI
// maps codes to user-facing messages; the strings here are for operators.
type Code string

const (
	CodeNoSuchEvent   Code = "NO_SUCH_EVENT"
	CodeNoSuchUser    Code = "NO_SUCH_USER"
	CodeInvalidSearch Code = "INVALID_SEARCH"
	CodeAccessDenied  Code = "ACCESS_DENIED"
	CodeConflict      Code = "CONFLICT"
	CodeBadRequest    Code = "BAD_REQUEST"
	CodeInternal      Code = "INTERNAL_ERROR"
)

type AppError struct {
	Code    Code
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, Cause: err}
}

// HTTPStatus maps the code onto an HTTP status for the boundary layer.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CodeNoSuchEvent, CodeNoSuchUser:
		return http.StatusNotFound
	case CodeInvalidSearch, CodeBadRequest:
		return http.StatusBadRequest
	case CodeAccessDenied:
		return http.StatusForbidden
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf extracts the code from an error chain, defaulting to INTERNAL_ERROR.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

func Is(err error, code Code) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
