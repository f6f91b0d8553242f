// Package view holds the state transitions shared by the HTML and CLI front
// ends: local validation before submit, classification of submit failures,
// and the two lookup modes.
package view

import (
	"context"
	"strings"

	"github.com/cloo-solutions/feedback/internal/apiclient"
	"github.com/cloo-solutions/feedback/internal/domain"
	"github.com/cloo-solutions/feedback/internal/logger"
	"github.com/cloo-solutions/feedback/internal/telemetry"
)

const (
	UnexpectedErrorMessage = "An unexpected error occurred. Please try again."
	EmptyQueryMessage      = "Please enter a value to search."
	LoadFailedMessage      = "Could not load feedback. Please check your ID and try again."
)

// FeedbackClient is the subset of apiclient.FeedbackService the views call.
type FeedbackClient interface {
	Submit(ctx context.Context, req domain.FeedbackRequest) (*domain.Feedback, error)
	GetByID(ctx context.Context, id string) (*domain.Feedback, error)
	ListByMember(ctx context.Context, memberID string) ([]domain.Feedback, error)
}

// SubmitOutcome is the state of the submission view after one submit action.
// Exactly one of Created, FieldErrors or Banner is set.
type SubmitOutcome struct {
	Created     *domain.Feedback
	FieldErrors []domain.FieldError
	Banner      string
}

func (o SubmitOutcome) OK() bool {
	return o.Created != nil
}

// FieldError returns the message to show under field, or "".
func (o SubmitOutcome) FieldError(field string) string {
	return domain.FieldErrorFor(o.FieldErrors, field)
}

// Submit validates req locally and only calls the API when it is clean.
func Submit(ctx context.Context, client FeedbackClient, req domain.FeedbackRequest) SubmitOutcome {
	if errs := domain.ValidateFeedbackRequest(req); len(errs) > 0 {
		return SubmitOutcome{FieldErrors: errs}
	}

	created, err := client.Submit(ctx, req)
	if err != nil {
		logger.Named("view").Errorw("submit feedback failed", "member_id", req.MemberID, "error", err)
		if _, ok := apiclient.AsAPIError(err); !ok {
			telemetry.CaptureError(ctx, err)
		}
		return classifySubmitError(err)
	}
	return SubmitOutcome{Created: created}
}

func classifySubmitError(err error) SubmitOutcome {
	apiErr, ok := apiclient.AsAPIError(err)
	if !ok {
		return SubmitOutcome{Banner: UnexpectedErrorMessage}
	}

	switch apiErr.Kind() {
	case apiclient.KindValidation:
		return SubmitOutcome{FieldErrors: apiErr.FieldErrors}
	default:
		return SubmitOutcome{Banner: apiErr.DisplayMessage()}
	}
}

// SearchMode selects which identifier a lookup query holds.
type SearchMode string

const (
	SearchByMemberID   SearchMode = "memberId"
	SearchByFeedbackID SearchMode = "feedbackId"
)

// ParseSearchMode defaults to member search for anything unrecognized.
func ParseSearchMode(s string) SearchMode {
	if SearchMode(s) == SearchByFeedbackID {
		return SearchByFeedbackID
	}
	return SearchByMemberID
}

// LookupResult is the state of the lookup view after one search.
type LookupResult struct {
	Mode  SearchMode
	Query string
	Items []domain.Feedback
	Error string
}

// Lookup runs one search. A feedback ID yields a one-element list so both
// modes render the same way. Any failure collapses to LoadFailedMessage.
func Lookup(ctx context.Context, client FeedbackClient, mode SearchMode, query string) LookupResult {
	result := LookupResult{Mode: mode, Query: strings.TrimSpace(query)}
	if result.Query == "" {
		result.Error = EmptyQueryMessage
		return result
	}

	var err error
	switch mode {
	case SearchByFeedbackID:
		var item *domain.Feedback
		item, err = client.GetByID(ctx, result.Query)
		if err == nil {
			result.Items = []domain.Feedback{*item}
		}
	default:
		result.Items, err = client.ListByMember(ctx, result.Query)
	}

	if err != nil {
		logger.Named("view").Errorw("failed to fetch feedback", "mode", string(mode), "query", result.Query, "error", err)
		result.Items = nil
		result.Error = LoadFailedMessage
	}
	return result
}
