// Package models defines the request and response data structures used
// for communication between clients and the review-links API.
package models

// CreateLinkRequest is the body of POST /api/links.
type CreateLinkRequest struct {
	BusinessName       string `json:"businessName"`
	GmbReviewLink      string `json:"gmbReviewLink"`
	LogoURL            string `json:"logoUrl,omitempty"`
	BackgroundImageURL string `json:"backgroundImageUrl,omitempty"`
}

// UpdateLinkRequest is the body of PATCH /api/links. Only non-nil fields
// are applied.
type UpdateLinkRequest struct {
	BusinessName       *string `json:"businessName,omitempty"`
	GmbReviewLink      *string `json:"gmbReviewLink,omitempty"`
	LogoURL            *string `json:"logoUrl,omitempty"`
	BackgroundImageURL *string `json:"backgroundImageUrl,omitempty"`

	// Immutable fields are accepted so a client can send back a whole link,
	// but they are never applied.
	ID        *string `json:"id,omitempty"`
	Slug      *string `json:"slug,omitempty"`
	CreatedAt *string `json:"createdAt,omitempty"`
}

// FeedbackRequest is the body of POST /api/feedback.
type FeedbackRequest struct {
	LinkID  string `json:"linkId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Comment string `json:"comment"`
	// Rating is a pointer so that a missing value can be told apart from zero.
	Rating *int `json:"rating"`
}

// LoginRequest is the body of POST /api/auth/login and /api/auth/setup.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse describes the authenticated admin.
type SessionResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// RatingRequest is the body of POST /api/review/{slug}/rating.
type RatingRequest struct {
	Rating *int `json:"rating"`
}

// ReviewFormRequest is the body of POST /api/review/{slug}/feedback.
type ReviewFormRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Comment string `json:"comment"`
	Rating  *int   `json:"rating"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a plain confirmation.
type MessageResponse struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
}
