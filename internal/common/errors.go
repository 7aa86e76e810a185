package common

import (
	"errors"
	"net/http"
)

// Error codes shared by every handler.
const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeNotFound      = "NOT_FOUND"
	CodeUnprocessable = "UNPROCESSABLE"
	CodeUnavailable   = "UNAVAILABLE"
	CodeInternal      = "INTERNAL"
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// BadRequest wraps err as a 400 response carrying err's message.
func BadRequest(err error) *AppError {
	return &AppError{Code: CodeBadRequest, Message: err.Error(), HTTPStatus: http.StatusBadRequest, Err: err}
}

// Unprocessable wraps err as a 422 response carrying err's message.
func Unprocessable(err error) *AppError {
	return &AppError{Code: CodeUnprocessable, Message: err.Error(), HTTPStatus: http.StatusUnprocessableEntity, Err: err}
}

// WriteError renders err. AppErrors keep their code and status; anything else is a 500.
func WriteError(w http.ResponseWriter, err error) {
	if err == nil {
		JSONError(w, http.StatusInternalServerError, CodeInternal, "unknown error", nil)
		return
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusBadRequest
		}
		code := appErr.Code
		if code == "" {
			code = CodeBadRequest
		}
		JSONError(w, status, code, appErr.Message, appErr.Details)
		return
	}
	JSONError(w, http.StatusInternalServerError, CodeInternal, err.Error(), nil)
}
