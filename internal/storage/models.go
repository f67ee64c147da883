package storage

import (
	"errors"
	"fmt"
	"time"
)

// TimeLayout is the textual form of createdAt columns. Fixed width keeps
// lexical and chronological order identical.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	// ErrNotFound is returned when a looked up record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStorage is returned when the backend rejected a write.
	ErrStorage = errors.New("storage rejected operation")
	// ErrConflict is a uniqueness violation. It also matches ErrStorage.
	ErrConflict = fmt.Errorf("%w: data conflict", ErrStorage)
)

// ReviewLink is a shareable review page.
type ReviewLink struct {
	ID                 string    `json:"id"`
	Slug               string    `json:"slug"`
	BusinessName       string    `json:"businessName"`
	GmbReviewLink      string    `json:"gmbReviewLink"`
	LogoURL            string    `json:"logoUrl"`
	BackgroundImageURL string    `json:"backgroundImageUrl"`
	CreatedAt          time.Time `json:"createdAt"`
}

// LinkPatch holds the mutable subset of a ReviewLink. Nil fields are left
// untouched.
type LinkPatch struct {
	BusinessName       *string `json:"businessName,omitempty"`
	GmbReviewLink      *string `json:"gmbReviewLink,omitempty"`
	LogoURL            *string `json:"logoUrl,omitempty"`
	BackgroundImageURL *string `json:"backgroundImageUrl,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p LinkPatch) Empty() bool {
	return p.BusinessName == nil && p.GmbReviewLink == nil && p.LogoURL == nil && p.BackgroundImageURL == nil
}

// Apply copies the set fields onto l.
func (p LinkPatch) Apply(l *ReviewLink) {
	if p.BusinessName != nil {
		l.BusinessName = *p.BusinessName
	}
	if p.GmbReviewLink != nil {
		l.GmbReviewLink = *p.GmbReviewLink
	}
	if p.LogoURL != nil {
		l.LogoURL = *p.LogoURL
	}
	if p.BackgroundImageURL != nil {
		l.BackgroundImageURL = *p.BackgroundImageURL
	}
}

// ReviewFeedback is private feedback left for a link. It is append-only.
type ReviewFeedback struct {
	ID        string    `json:"id"`
	LinkID    string    `json:"linkId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Comment   string    `json:"comment"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

// User is an admin credential. Password always holds a bcrypt hash.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	CreatedAt int64  `json:"created_at"`
}
