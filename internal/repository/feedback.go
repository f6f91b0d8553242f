package repository

import (
	"context"
	"errors"

	"github.com/cloo-solutions/feedback/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const feedbackColumns = `id, member_id, provider_name, rating, comment, submitted_at`

type FeedbackRepository struct {
	pool *pgxpool.Pool
}

func NewFeedbackRepository(pool *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{pool: pool}
}

func (r *FeedbackRepository) Create(ctx context.Context, f *domain.Feedback) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO feedback (`+feedbackColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, f.MemberID, f.ProviderName, f.Rating, f.Comment, f.SubmittedAt,
	)
	return err
}

func (r *FeedbackRepository) GetByID(ctx context.Context, id string) (*domain.Feedback, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+feedbackColumns+` FROM feedback WHERE id = $1`,
		id,
	)
	f, err := scanFeedback(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFeedbackNotFound
		}
		return nil, err
	}
	return f, nil
}

// ListByMember returns a member's feedback, newest first.
func (r *FeedbackRepository) ListByMember(ctx context.Context, memberID string) ([]*domain.Feedback, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+feedbackColumns+` FROM feedback WHERE member_id = $1 ORDER BY submitted_at DESC, id`,
		memberID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.Feedback
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

func scanFeedback(row pgx.Row) (*domain.Feedback, error) {
	var f domain.Feedback
	if err := row.Scan(&f.ID, &f.MemberID, &f.ProviderName, &f.Rating, &f.Comment, &f.SubmittedAt); err != nil {
		return nil, err
	}
	f.SubmittedAt = f.SubmittedAt.UTC()
	return &f, nil
}
