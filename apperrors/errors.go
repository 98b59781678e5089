// Package apperrors carries request-level failures with an HTTP status.
package apperrors

import "net/http"

// AppError is returned by the marketplace write surface for input the caller can fix.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func BadRequest(msg string) *AppError {
	return New(http.StatusBadRequest, msg)
}

func NotFound(msg string) *AppError {
	return New(http.StatusNotFound, msg)
}

func Forbidden(msg string) *AppError {
	return New(http.StatusForbidden, msg)
}

func Conflict(msg string) *AppError {
	return New(http.StatusConflict, msg)
}
