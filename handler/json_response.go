package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/wellspace/pkg/binder"
	"github.com/dmitrymomot/wellspace/pkg/validator"
)

// JSONResponse is the envelope every API response uses.
type JSONResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Count   *int                `json:"count,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures a JSON response.
type JSONOption func(*jsonResponse)

// WithStatus sets a custom HTTP status code.
func WithStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// WithMessage sets the envelope message.
func WithMessage(msg string) JSONOption {
	return func(r *jsonResponse) {
		r.body.Message = msg
	}
}

// WithCount sets the envelope count, used by list endpoints.
func WithCount(n int) JSONOption {
	return func(r *jsonResponse) {
		r.body.Count = &n
	}
}

// JSON creates a successful JSON response carrying the given payload.
func JSON(data any, opts ...JSONOption) Response {
	r := &jsonResponse{
		status: http.StatusOK,
		body:   JSONResponse{Success: true, Data: data},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError creates an error response from an error, classifying it into a
// status code and a user-safe envelope. Raw internals are never leaked:
// anything unrecognized becomes a generic 500.
func JSONError(err error, opts ...JSONOption) Response {
	status, body := classifyError(err)
	r := &jsonResponse{status: status, body: body}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func classifyError(err error) (int, JSONResponse) {
	body := JSONResponse{Success: false}

	// Field violations carry per-field detail into the envelope.
	if verr := validator.ExtractValidationErrors(err); verr != nil {
		body.Message = "Validation errors"
		body.Errors = make(map[string][]string, len(verr.Fields()))
		for _, field := range verr.Fields() {
			body.Errors[field] = verr.Get(field)
		}
		return http.StatusBadRequest, body
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		body.Message = httpErr.Message
		if body.Message == "" {
			body.Message = http.StatusText(httpErr.Code)
		}
		return httpErr.Code, body
	}

	// Malformed requests rejected by a binder.
	if errors.Is(err, binder.ErrFailedToParseJSON) ||
		errors.Is(err, binder.ErrFailedToParsePath) ||
		errors.Is(err, binder.ErrMissingContentType) ||
		errors.Is(err, binder.ErrUnsupportedMediaType) {
		body.Message = "Invalid request body"
		return http.StatusBadRequest, body
	}

	body.Message = "Server Error"
	return http.StatusInternalServerError, body
}
