package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/givers/contact-api/internal/mailer"
	"github.com/givers/contact-api/internal/model"
	"github.com/givers/contact-api/internal/service"
)

// ---------------------------------------------------------------------------
// Mock ContactService
// ---------------------------------------------------------------------------

type mockContactService struct {
	submitFunc func(ctx context.Context, sub *model.ContactSubmission) (*model.SubmitResult, error)
	calls      int
}

func (m *mockContactService) Submit(ctx context.Context, sub *model.ContactSubmission) (*model.SubmitResult, error) {
	m.calls++
	if m.submitFunc != nil {
		return m.submitFunc(ctx, sub)
	}
	return &model.SubmitResult{}, nil
}

// envelope mirrors model.APIResponse with Data left raw for inspection.
type envelope struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Data    json.RawMessage    `json:"data"`
	Errors  []model.FieldError `json:"errors"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env), "body: %s", rec.Body.String())
	return env
}

func postContact(t *testing.T, h *ContactHandler, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	Handle(h.Submit).ServeHTTP(rec, req)
	return rec
}

const validJSON = `{"name":"Ada","email":"ada@example.com","message":"Hello"}`

// ---------------------------------------------------------------------------
// POST /api/contact
// ---------------------------------------------------------------------------

func TestContactHandler_Submit_SavedAndSent(t *testing.T) {
	var captured *model.ContactSubmission
	created := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	mock := &mockContactService{
		submitFunc: func(_ context.Context, sub *model.ContactSubmission) (*model.SubmitResult, error) {
			captured = sub
			return &model.SubmitResult{
				Contact: &model.Contact{
					ID: "c0ffee00-0000-4000-8000-000000000001", Name: sub.Name, Email: sub.Email,
					Message: sub.Message, CreatedAt: created,
				},
				DeliveryID: "<x@example.com>",
				Delivered:  true,
			}, nil
		},
	}
	h := NewContactHandler(mock, 0)

	rec := postContact(t, h, "application/json", `{"name":"  Ada ","email":" ada@example.com ","message":" Hello "}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, model.ContactSubmission{Name: "Ada", Email: "ada@example.com", Message: "Hello"}, *captured)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "Contact saved and email sent", env.Message)
	assert.Empty(t, env.Errors)

	var contact model.Contact
	require.NoError(t, json.Unmarshal(env.Data, &contact))
	assert.Equal(t, "c0ffee00-0000-4000-8000-000000000001", contact.ID)
	assert.True(t, created.Equal(contact.CreatedAt))
}

func TestContactHandler_Submit_SuccessMessages(t *testing.T) {
	tests := []struct {
		name     string
		result   *model.SubmitResult
		want     string
		wantData bool
	}{
		{"saved only", &model.SubmitResult{Contact: &model.Contact{ID: "1"}}, "Contact saved", true},
		{"sent only", &model.SubmitResult{Delivered: true, DeliveryID: "x"}, "Message sent", false},
		{"neither", &model.SubmitResult{}, "Message received", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockContactService{
				submitFunc: func(context.Context, *model.ContactSubmission) (*model.SubmitResult, error) {
					return tt.result, nil
				},
			}
			rec := postContact(t, NewContactHandler(mock, 0), "application/json", validJSON)

			assert.Equal(t, http.StatusCreated, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.True(t, env.Success)
			assert.Equal(t, tt.want, env.Message)
			if tt.wantData {
				assert.NotEmpty(t, env.Data)
			} else {
				assert.Empty(t, env.Data, "data must be omitted, not null")
				assert.NotContains(t, rec.Body.String(), `"data"`)
			}
		})
	}
}

func TestContactHandler_Submit_ValidationErrors(t *testing.T) {
	mock := &mockContactService{}
	h := NewContactHandler(mock, 0)

	rec := postContact(t, h, "application/json", `{"name":"   ","email":"not-an-email"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Empty(t, env.Data)
	assert.Equal(t, []model.FieldError{
		{Field: "name", Code: model.CodeRequired, Message: "Name is required"},
		{Field: "email", Code: model.CodeInvalidEmail, Message: "Valid email is required"},
		{Field: "message", Code: model.CodeRequired, Message: "Message is required"},
	}, env.Errors)
	assert.Zero(t, mock.calls, "no side effects on invalid input")
}

func TestContactHandler_Submit_FormEncoded(t *testing.T) {
	var captured *model.ContactSubmission
	mock := &mockContactService{
		submitFunc: func(_ context.Context, sub *model.ContactSubmission) (*model.SubmitResult, error) {
			captured = sub
			return &model.SubmitResult{Delivered: true}, nil
		},
	}
	h := NewContactHandler(mock, 0)

	rec := postContact(t, h, "application/x-www-form-urlencoded",
		"name=Ada+Lovelace&email=ada%40example.com&message=Hi+there&extra=ignored")

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "Ada Lovelace", captured.Name)
	assert.Equal(t, "ada@example.com", captured.Email)
	assert.Equal(t, "Hi there", captured.Message)
}

func TestContactHandler_Submit_UnsupportedContentTypeIsEmpty(t *testing.T) {
	for _, ct := range []string{"", "text/plain"} {
		t.Run("content-type="+ct, func(t *testing.T) {
			mock := &mockContactService{}
			rec := postContact(t, NewContactHandler(mock, 0), ct, validJSON)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Len(t, decodeEnvelope(t, rec).Errors, 3)
			assert.Zero(t, mock.calls)
		})
	}
}

func TestContactHandler_Submit_EmptyJSONBody(t *testing.T) {
	rec := postContact(t, NewContactHandler(&mockContactService{}, 0), "application/json", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, decodeEnvelope(t, rec).Errors, 3)
}

func TestContactHandler_Submit_NonStringValuesAreStringified(t *testing.T) {
	var captured *model.ContactSubmission
	mock := &mockContactService{
		submitFunc: func(_ context.Context, sub *model.ContactSubmission) (*model.SubmitResult, error) {
			captured = sub
			return &model.SubmitResult{}, nil
		},
	}
	rec := postContact(t, NewContactHandler(mock, 0), "application/json",
		`{"name":12345,"email":"ada@example.com","message":true}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "12345", captured.Name)
	assert.Equal(t, "true", captured.Message)
}

func TestContactHandler_Submit_MalformedJSON(t *testing.T) {
	mock := &mockContactService{}
	rec := postContact(t, NewContactHandler(mock, 0), "application/json", `{"name":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid JSON body", env.Message)
	assert.Zero(t, mock.calls)
}

func TestContactHandler_Submit_BodyTooLarge(t *testing.T) {
	mock := &mockContactService{}
	body := `{"name":"Ada","email":"ada@example.com","message":"` + strings.Repeat("x", 2048) + `"}`

	rec := postContact(t, NewContactHandler(mock, 1024), "application/json", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "request entity too large", decodeEnvelope(t, rec).Message)
	assert.Zero(t, mock.calls)
}

func TestContactHandler_Submit_ServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"persistence", errors.Join(service.ErrPersistence, errors.New("db down")), "Server error"},
		{"auth", errors.Join(mailer.ErrAuth, errors.New("535")), "Email authentication failed. Check the mail credentials."},
		{"connection", errors.Join(mailer.ErrConnection, errors.New("refused")), "Could not connect to the mail server."},
		{"config", errors.Join(mailer.ErrConfig, errors.New("553")), "Email configuration error. Check the sender address."},
		{"unclassified", errors.New("boom"), "Failed to send message."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockContactService{
				submitFunc: func(context.Context, *model.ContactSubmission) (*model.SubmitResult, error) {
					return nil, tt.err
				},
			}
			rec := postContact(t, NewContactHandler(mock, 0), "application/json", validJSON)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, tt.want, env.Message)
			assert.Empty(t, env.Data)
			assert.Empty(t, env.Errors)
			assert.NotContains(t, rec.Body.String(), tt.err.Error(), "internal detail must not leak")
		})
	}
}
