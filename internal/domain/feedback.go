package domain

import "time"

// Field names as they appear on the wire and in FieldError.Field.
const (
	FieldMemberID     = "memberId"
	FieldProviderName = "providerName"
	FieldRating       = "rating"
	FieldComment      = "comment"
)

// FeedbackRequest is a member's rating of a provider as submitted by a client.
// Rating is a float so that fractional and missing values decode and are
// rejected by validation instead of by the JSON decoder; zero means unset.
type FeedbackRequest struct {
	MemberID     string  `json:"memberId"`
	ProviderName string  `json:"providerName"`
	Rating       float64 `json:"rating"`
	Comment      string  `json:"comment,omitempty"`
}

// Feedback is a stored submission. It is never modified after creation.
type Feedback struct {
	ID           string    `json:"id"`
	MemberID     string    `json:"memberId"`
	ProviderName string    `json:"providerName"`
	Rating       int       `json:"rating"`
	Comment      *string   `json:"comment"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// NewFeedback builds a Feedback from an already validated request.
// An empty comment is stored as absent.
func NewFeedback(id string, req FeedbackRequest, submittedAt time.Time) *Feedback {
	f := &Feedback{
		ID:           id,
		MemberID:     req.MemberID,
		ProviderName: req.ProviderName,
		Rating:       int(req.Rating),
		SubmittedAt:  submittedAt,
	}
	if req.Comment != "" {
		comment := req.Comment
		f.Comment = &comment
	}
	return f
}

// CommentText returns the comment or an empty string when absent.
func (f *Feedback) CommentText() string {
	if f.Comment == nil {
		return ""
	}
	return *f.Comment
}

// FieldError is a validation failure scoped to one named input.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
