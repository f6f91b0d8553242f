package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError(ErrCodeNotFound, "feedback not found")
	assert.Equal(t, "[NOT_FOUND] feedback not found", err.Error())

	cause := errors.New("connection reset")
	wrapped := NewDomainErrorWithCause(ErrCodeInternalError, "query failed", cause)
	assert.Equal(t, "[INTERNAL_ERROR] query failed: connection reset", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError([]FieldError{
		{Field: FieldMemberID, Message: "Member ID is required"},
		{Field: FieldRating, Message: "Rating is required"},
	})
	assert.Equal(t, "[VALIDATION_ERROR] memberId: Member ID is required; rating: Rating is required", err.Error())
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrFeedbackNotFound))
	assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", ErrFeedbackNotFound)))
	assert.False(t, IsNotFound(ErrInvalidBody))
	assert.False(t, IsNotFound(errors.New("boom")))
	assert.False(t, IsNotFound(nil))
}
