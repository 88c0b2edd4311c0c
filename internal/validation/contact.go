// Package validation checks contact form input and turns rule violations into
// field errors a client can render next to the form inputs.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/givers/contact-api/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var fieldMessages = map[string]model.FieldError{
	"name":    {Field: "name", Code: model.CodeRequired, Message: "Name is required"},
	"email":   {Field: "email", Code: model.CodeInvalidEmail, Message: "Valid email is required"},
	"message": {Field: "message", Code: model.CodeRequired, Message: "Message is required"},
}

// Contact trims the raw values and validates them. Every rule is checked; on
// failure the returned slice holds one error per failing field in the order
// name, email, message and the submission is nil.
func Contact(name, email, message string) (*model.ContactSubmission, []model.FieldError) {
	sub := &model.ContactSubmission{
		Name:    strings.TrimSpace(name),
		Email:   strings.TrimSpace(email),
		Message: strings.TrimSpace(message),
	}

	err := validate.Struct(sub)
	if err == nil {
		return sub, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, []model.FieldError{{Code: "invalid", Message: err.Error()}}
	}

	out := make([]model.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		if msg, ok := fieldMessages[fe.Field()]; ok {
			out = append(out, msg)
			continue
		}
		out = append(out, model.FieldError{Field: fe.Field(), Code: fe.Tag(), Message: fe.Error()})
	}
	return nil, out
}
