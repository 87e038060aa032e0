package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorpulse/tutorpulse/internal/domain"
)

var _ domain.FeedbackRepository = (*FeedbackRepo)(nil)

type FeedbackRepo struct {
	pool *pgxpool.Pool
}

func NewFeedbackRepo(pool *pgxpool.Pool) *FeedbackRepo {
	return &FeedbackRepo{pool: pool}
}

func (r *FeedbackRepo) Insert(ctx context.Context, entry *domain.FeedbackEntry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO feedback (id, session_id, tutor_id, author_id, star_rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.SessionID, entry.TutorID, entry.AuthorID, entry.StarRating, entry.Comment, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	return nil
}

func (r *FeedbackRepo) ListByTutor(ctx context.Context, tutorID uuid.UUID) ([]domain.FeedbackEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, tutor_id, author_id, star_rating, comment, created_at
		FROM feedback
		WHERE tutor_id = $1
		ORDER BY created_at
	`, tutorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.FeedbackEntry, error) {
		var e domain.FeedbackEntry
		err := row.Scan(&e.ID, &e.SessionID, &e.TutorID, &e.AuthorID, &e.StarRating, &e.Comment, &e.CreatedAt)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan feedback: %w", err)
	}
	return entries, nil
}
