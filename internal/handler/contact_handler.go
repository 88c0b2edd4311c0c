package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gorilla/schema"

	"github.com/givers/contact-api/internal/mailer"
	"github.com/givers/contact-api/internal/model"
	"github.com/givers/contact-api/internal/service"
	"github.com/givers/contact-api/internal/validation"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 100 << 10

// ContactHandler handles contact form submissions.
type ContactHandler struct {
	contactService service.ContactService
	maxBodyBytes   int64
	forms          *schema.Decoder
}

// NewContactHandler creates a ContactHandler. maxBodyBytes <= 0 selects
// DefaultMaxBodyBytes.
func NewContactHandler(contactService service.ContactService, maxBodyBytes int64) *ContactHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	forms := schema.NewDecoder()
	forms.IgnoreUnknownKeys(true)
	return &ContactHandler{
		contactService: contactService,
		maxBodyBytes:   maxBodyBytes,
		forms:          forms,
	}
}

// contactForm is the form-encoded body for POST /api/contact.
type contactForm struct {
	Name    string `schema:"name"`
	Email   string `schema:"email"`
	Message string `schema:"message"`
}

// Submit handles POST /api/contact.
// Accepts JSON or form-encoded bodies; any other content type is treated as an
// empty submission.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	form, err := h.decode(r)
	if err != nil {
		return err
	}

	sub, fieldErrs := validation.Contact(form.Name, form.Email, form.Message)
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, model.Invalid(fieldErrs))
		return nil
	}

	result, err := h.contactService.Submit(r.Context(), sub)
	if err != nil {
		return submitError(err)
	}

	// A nil *Contact stored in an interface would still be encoded as null.
	var data any
	if result.Contact != nil {
		data = result.Contact
	}
	writeJSON(w, http.StatusCreated, model.OK(successMessage(result), data))
	return nil
}

func (h *ContactHandler) decode(r *http.Request) (*contactForm, error) {
	form := &contactForm{}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		fields, err := decodeJSONObject(r.Body)
		if err != nil {
			return nil, bodyError(err, "Invalid JSON body")
		}
		form.Name = fields["name"]
		form.Email = fields["email"]
		form.Message = fields["message"]

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, bodyError(err, "Invalid form body")
		}
		if err := h.forms.Decode(form, r.PostForm); err != nil {
			return nil, &StatusError{Status: http.StatusBadRequest, Message: "Invalid form body", Err: err}
		}
	}

	return form, nil
}

// decodeJSONObject reads a JSON object and stringifies its top-level values.
// An empty body is an empty object.
func decodeJSONObject(body io.Reader) (map[string]string, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		fields[k] = stringify(v)
	}
	return fields, nil
}

func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

func bodyError(err error, message string) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return &StatusError{Status: http.StatusRequestEntityTooLarge, Message: "request entity too large", Err: err}
	}
	return &StatusError{Status: http.StatusBadRequest, Message: message, Err: err}
}

// submitError maps a service failure to the response the client sees.
func submitError(err error) error {
	message := "Failed to send message."
	switch {
	case errors.Is(err, service.ErrPersistence):
		message = "Server error"
	case errors.Is(err, mailer.ErrAuth):
		message = "Email authentication failed. Check the mail credentials."
	case errors.Is(err, mailer.ErrConnection):
		message = "Could not connect to the mail server."
	case errors.Is(err, mailer.ErrConfig):
		message = "Email configuration error. Check the sender address."
	}
	return &StatusError{Status: http.StatusInternalServerError, Message: message, Err: err}
}

func successMessage(result *model.SubmitResult) string {
	switch saved := result.Contact != nil; {
	case saved && result.Delivered:
		return "Contact saved and email sent"
	case saved:
		return "Contact saved"
	case result.Delivered:
		return "Message sent"
	default:
		return "Message received"
	}
}
