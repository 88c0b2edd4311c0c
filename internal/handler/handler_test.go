package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/givers/contact-api/internal/model"
)

func newTestRouter(svc *mockContactService, corsOrigin string) http.Handler {
	return NewRouter(NewContactHandler(svc, 0), NewHealthHandler(nil), corsOrigin)
}

func TestCORS_SetsOriginOnEveryResponse(t *testing.T) {
	router := newTestRouter(&mockContactService{}, "https://example.com")

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(validJSON))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_DefaultsToWildcard(t *testing.T) {
	router := newTestRouter(&mockContactService{}, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	svc := &mockContactService{}
	router := newTestRouter(svc, "*")

	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-Custom")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,HEAD,PUT,PATCH,POST,DELETE", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, X-Custom", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Empty(t, rec.Body.String())
	assert.Zero(t, svc.calls)
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter(&mockContactService{}, "*")

	tests := []struct {
		method, path string
	}{
		{http.MethodGet, "/unknown"},
		{http.MethodPost, "/api/unknown"},
		{http.MethodGet, "/api/contact"},
		{http.MethodDelete, "/health"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, http.StatusNotFound, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, "Not Found", env.Message)
		})
	}
}

func TestRouter_AssignsRequestID(t *testing.T) {
	var requestID string
	router := newTestRouter(&mockContactService{
		submitFunc: func(ctx context.Context, _ *model.ContactSubmission) (*model.SubmitResult, error) {
			requestID = middleware.GetReqID(ctx)
			return &model.SubmitResult{}, nil
		},
	}, "*")

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(validJSON))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", "req-123")
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "req-123", requestID)
}

func TestHandle_StatusErrorAndFallback(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"status error", &StatusError{Status: http.StatusTeapot, Message: "short and stout"}, http.StatusTeapot, "short and stout"},
		{"wrapped status error", errors.Join(errors.New("ctx"), &StatusError{Status: http.StatusBadRequest, Message: "bad"}), http.StatusBadRequest, "bad"},
		{"plain error", errors.New("secret detail"), http.StatusInternalServerError, "Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Handle(func(http.ResponseWriter, *http.Request) error { return tt.err })
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantMsg, env.Message)
			assert.NotContains(t, rec.Body.String(), "secret detail")
		})
	}
}

func TestStatusError_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	err := &StatusError{Status: http.StatusBadRequest, Message: "bad", Err: cause}

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "bad: cause", err.Error())
}
