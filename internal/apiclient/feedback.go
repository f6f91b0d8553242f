package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/cloo-solutions/feedback/internal/domain"
)

// FeedbackService maps the feedback operations onto the REST endpoints.
// Errors from the transport are returned unchanged.
type FeedbackService struct {
	client *Client
}

func NewFeedbackService(client *Client) *FeedbackService {
	return &FeedbackService{client: client}
}

// Submit creates feedback via POST /feedback.
func (s *FeedbackService) Submit(ctx context.Context, req domain.FeedbackRequest) (*domain.Feedback, error) {
	data, err := s.client.Post(ctx, "/feedback", req)
	if err != nil {
		return nil, err
	}
	return decode[domain.Feedback](data)
}

// GetByID fetches a single item via GET /feedback/{id}.
func (s *FeedbackService) GetByID(ctx context.Context, id string) (*domain.Feedback, error) {
	data, err := s.client.Get(ctx, "/feedback/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	return decode[domain.Feedback](data)
}

// ListByMember fetches a member's feedback via GET /feedback?memberId=.
func (s *FeedbackService) ListByMember(ctx context.Context, memberID string) ([]domain.Feedback, error) {
	data, err := s.client.Get(ctx, "/feedback?memberId="+url.QueryEscape(memberID))
	if err != nil {
		return nil, err
	}
	if bytes.Equal(data, emptyObject) {
		return []domain.Feedback{}, nil
	}
	items, err := decode[[]domain.Feedback](data)
	if err != nil {
		return nil, err
	}
	return *items, nil
}

func decode[T any](data json.RawMessage) (*T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &out, nil
}
