package handler

import "net/http"

// HTTPError represents an HTTP error with a status code and a user-safe
// message.
type HTTPError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Code)
}

var (
	ErrBadRequest          = HTTPError{Code: http.StatusBadRequest}
	ErrUnauthorized        = HTTPError{Code: http.StatusUnauthorized}
	ErrForbidden           = HTTPError{Code: http.StatusForbidden}
	ErrNotFound            = HTTPError{Code: http.StatusNotFound}
	ErrConflict            = HTTPError{Code: http.StatusConflict}
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError}
)

// NewHTTPError creates an HTTP error with a custom user-safe message.
func NewHTTPError(code int, message string) HTTPError {
	return HTTPError{Code: code, Message: message}
}
