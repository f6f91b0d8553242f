package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloo-solutions/feedback/internal/domain"
	"github.com/cloo-solutions/feedback/internal/telemetry"
	"github.com/google/uuid"
)

// FeedbackRepositoryInterface defines the persistence operations the service needs.
type FeedbackRepositoryInterface interface {
	Create(ctx context.Context, f *domain.Feedback) error
	GetByID(ctx context.Context, id string) (*domain.Feedback, error)
	ListByMember(ctx context.Context, memberID string) ([]*domain.Feedback, error)
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// FeedbackService holds the server-side rules for recording and reading feedback.
type FeedbackService struct {
	repo    FeedbackRepositoryInterface
	uuidGen UUIDGenerator
	now     func() time.Time
}

func NewFeedbackService(repo FeedbackRepositoryInterface) *FeedbackService {
	return NewFeedbackServiceWithUUIDGen(repo, &DefaultUUIDGenerator{})
}

// NewFeedbackServiceWithUUIDGen creates a FeedbackService with a custom UUID generator (for testing)
func NewFeedbackServiceWithUUIDGen(repo FeedbackRepositoryInterface, uuidGen UUIDGenerator) *FeedbackService {
	return &FeedbackService{
		repo:    repo,
		uuidGen: uuidGen,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates and stores a new submission. Invalid requests return a
// *domain.ValidationError listing every violated field.
func (s *FeedbackService) Submit(ctx context.Context, req domain.FeedbackRequest) (*domain.Feedback, error) {
	ctx, span := telemetry.StartSpan(ctx, "FeedbackService.Submit", telemetry.SpanAttributes{
		MemberID:  req.MemberID,
		Operation: "submit",
	})
	defer span.End()

	if errs := domain.ValidateFeedbackRequest(req); len(errs) > 0 {
		return nil, domain.NewValidationError(errs)
	}

	feedback := domain.NewFeedback(s.uuidGen.NewString(), req, s.now())
	if err := s.repo.Create(ctx, feedback); err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	return feedback, nil
}

// GetByID returns ErrFeedbackNotFound for unknown or malformed IDs.
func (s *FeedbackService) GetByID(ctx context.Context, id string) (*domain.Feedback, error) {
	ctx, span := telemetry.StartSpan(ctx, "FeedbackService.GetByID", telemetry.SpanAttributes{
		FeedbackID: id,
		Operation:  "get",
	})
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrFeedbackNotFound
	}

	feedback, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !domain.IsNotFound(err) {
			span.SetError(err)
		}
		return nil, err
	}
	return feedback, nil
}

// ListByMember returns the member's feedback, newest first; never nil on success.
func (s *FeedbackService) ListByMember(ctx context.Context, memberID string) ([]*domain.Feedback, error) {
	ctx, span := telemetry.StartSpan(ctx, "FeedbackService.ListByMember", telemetry.SpanAttributes{
		MemberID:  memberID,
		Operation: "list_by_member",
	})
	defer span.End()

	if strings.TrimSpace(memberID) == "" {
		return nil, domain.NewValidationError([]domain.FieldError{
			{Field: domain.FieldMemberID, Message: domain.ValidateMemberID(memberID)},
		})
	}

	items, err := s.repo.ListByMember(ctx, memberID)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	if items == nil {
		items = []*domain.Feedback{}
	}
	return items, nil
}
