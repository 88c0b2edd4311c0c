package model

import "time"

// ContactSubmission is a validated contact form payload. All fields are trimmed.
type ContactSubmission struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// Contact is a submission that has been stored.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmitResult describes what happened to an accepted submission.
type SubmitResult struct {
	// Contact is nil when persistence is disabled.
	Contact *Contact
	// DeliveryID is the relay's message id; empty when nothing was sent.
	DeliveryID string
	Delivered  bool
}
