package model

// Field error codes.
const (
	CodeRequired     = "required"
	CodeInvalidEmail = "invalid_email"
)

// FieldError reports one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the envelope every JSON response body is wrapped in,
// except GET /health.
//
// Use the constructors below: a successful response never carries Errors and
// a failed one never carries Data.
type APIResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// OK builds a success envelope. data may be nil.
func OK(message string, data any) APIResponse {
	return APIResponse{Success: true, Message: message, Data: data}
}

// Fail builds a failure envelope carrying only a message.
func Fail(message string) APIResponse {
	return APIResponse{Success: false, Message: message}
}

// Invalid builds a failure envelope carrying field errors.
func Invalid(errs []FieldError) APIResponse {
	return APIResponse{Success: false, Errors: errs}
}
