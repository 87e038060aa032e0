package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorpulse/tutorpulse/internal/domain"
)

var _ domain.TutorRepository = (*TutorRepo)(nil)

type TutorRepo struct {
	pool *pgxpool.Pool
}

func NewTutorRepo(pool *pgxpool.Pool) *TutorRepo {
	return &TutorRepo{pool: pool}
}

func (r *TutorRepo) GetTutor(ctx context.Context, tutorID uuid.UUID) (*domain.Tutor, error) {
	var t domain.Tutor
	err := r.pool.QueryRow(ctx, `
		SELECT id, display_name, subjects, rating, review_count, is_available
		FROM tutors
		WHERE id = $1
	`, tutorID).Scan(&t.ID, &t.DisplayName, &t.Subjects, &t.Rating, &t.ReviewCount, &t.IsAvailable)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTutorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tutor: %w", err)
	}
	return &t, nil
}

func (r *TutorRepo) ListBySubject(ctx context.Context, subject string) ([]domain.Tutor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, display_name, subjects, rating, review_count, is_available
		FROM tutors
		WHERE $1 = ANY(subjects)
		ORDER BY id
	`, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to list tutors: %w", err)
	}

	tutors, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Tutor, error) {
		var t domain.Tutor
		err := row.Scan(&t.ID, &t.DisplayName, &t.Subjects, &t.Rating, &t.ReviewCount, &t.IsAvailable)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan tutors: %w", err)
	}
	return tutors, nil
}

// UpsertTutor inserts or replaces a tutor projection. The engine itself
// only reads tutors; this exists for seeding and for the marketplace
// sync job that owns the projection.
func (r *TutorRepo) UpsertTutor(ctx context.Context, tutor *domain.Tutor) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tutors (id, display_name, subjects, rating, review_count, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			subjects = EXCLUDED.subjects,
			rating = EXCLUDED.rating,
			review_count = EXCLUDED.review_count,
			is_available = EXCLUDED.is_available,
			updated_at = NOW()
	`, tutor.ID, tutor.DisplayName, tutor.Subjects, tutor.Rating, tutor.ReviewCount, tutor.IsAvailable)
	if err != nil {
		return fmt.Errorf("failed to upsert tutor: %w", err)
	}
	return nil
}

// UpdateRatingProjection refreshes the denormalized rating columns from a
// freshly recomputed reputation summary.
func (r *TutorRepo) UpdateRatingProjection(ctx context.Context, tutorID uuid.UUID, rating float64, reviewCount int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE tutors
		SET rating = $1, review_count = $2, updated_at = NOW()
		WHERE id = $3
	`, rating, reviewCount, tutorID)
	if err != nil {
		return fmt.Errorf("failed to update tutor rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTutorNotFound
	}
	return nil
}
