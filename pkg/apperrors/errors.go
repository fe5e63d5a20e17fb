package apperrors

import (
	"errors"
	"net/http"
)

// Sentinel errors shared by services and repositories. Handlers translate
// them to HTTP status codes with HTTPStatus; everything else is a 500.
var (
	ErrValidation     = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrSelfReference  = errors.New("action cannot target yourself")
	ErrConflict       = errors.New("conflict with existing state")
	ErrTransientStore = errors.New("storage temporarily unavailable")
)

// HTTPStatus maps a sentinel error to its HTTP status code.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrSelfReference):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrTransientStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
