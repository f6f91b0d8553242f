package domain

import (
	"math"
	"strings"
	"unicode/utf8"
)

const (
	MaxMemberIDLength     = 36
	MaxProviderNameLength = 80
	MaxCommentLength      = 200
	MinRating             = 1
	MaxRating             = 5
)

// ValidateMemberID returns an error message, or "" when the value is valid.
func ValidateMemberID(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Member ID is required"
	}
	if utf8.RuneCountInString(value) > MaxMemberIDLength {
		return "Member ID must be at most 36 characters"
	}
	return ""
}

// ValidateProviderName returns an error message, or "" when the value is valid.
func ValidateProviderName(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Provider name is required"
	}
	if utf8.RuneCountInString(value) > MaxProviderNameLength {
		return "Provider name must be at most 80 characters"
	}
	return ""
}

// ValidateRating rejects an unset rating and anything outside 1..5 or fractional.
func ValidateRating(value float64) string {
	if value == 0 {
		return "Rating is required"
	}
	if math.IsNaN(value) || value != math.Trunc(value) || value < MinRating || value > MaxRating {
		return "Rating must be between 1 and 5"
	}
	return ""
}

// ValidateComment only bounds the length; an empty comment is allowed.
func ValidateComment(value string) string {
	if utf8.RuneCountInString(value) > MaxCommentLength {
		return "Comment must be at most 200 characters"
	}
	return ""
}

// ValidateFeedbackRequest reports every violated constraint, in field order
// memberId, providerName, rating, comment. It returns nil when the request is valid.
func ValidateFeedbackRequest(req FeedbackRequest) []FieldError {
	checks := []struct {
		field   string
		message string
	}{
		{FieldMemberID, ValidateMemberID(req.MemberID)},
		{FieldProviderName, ValidateProviderName(req.ProviderName)},
		{FieldRating, ValidateRating(req.Rating)},
		{FieldComment, ValidateComment(req.Comment)},
	}

	var errs []FieldError
	for _, c := range checks {
		if c.message != "" {
			errs = append(errs, FieldError{Field: c.field, Message: c.message})
		}
	}
	return errs
}

// FieldErrorFor returns the message recorded for field, or "".
func FieldErrorFor(errs []FieldError, field string) string {
	for _, e := range errs {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}
