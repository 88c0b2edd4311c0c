package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/givers/contact-api/internal/model"
)

const serverErrorMessage = "Server Error"

// StatusError carries the status code and client-facing message for a failed
// request. Err is logged but never sent to the client.
type StatusError struct {
	Status  int
	Message string
	Err     error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// HandlerFunc is an http handler that reports failures by returning them.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts fn to http.HandlerFunc, rendering any returned error with
// writeError.
func Handle(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			writeError(w, r, err)
		}
	}
}

// writeError is the global fallback. A *StatusError decides the status and
// message; anything else becomes a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := http.StatusInternalServerError, serverErrorMessage
	var se *StatusError
	if errors.As(err, &se) {
		status, message = se.Status, se.Message
	}

	slog.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"error", err,
	)
	writeJSON(w, status, model.Fail(message))
}

// NotFound answers unmatched routes and methods.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, model.Fail("Not Found"))
}
