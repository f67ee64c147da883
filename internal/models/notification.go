package models

// FeedbackNotification is what the external webhook receives for every
// submitted feedback.
type FeedbackNotification struct {
	Source  string
	LinkID  string
	Rating  int
	Name    string
	Email   string
	Message string
}
