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

var _ domain.RewardRepository = (*RewardRepo)(nil)

type RewardRepo struct {
	pool *pgxpool.Pool
}

func NewRewardRepo(pool *pgxpool.Pool) *RewardRepo {
	return &RewardRepo{pool: pool}
}

func (r *RewardRepo) GetReward(ctx context.Context, rewardID uuid.UUID) (*domain.Reward, error) {
	var reward domain.Reward
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, description, points_required, stock_quantity, expiry_days, is_active, created_at
		FROM rewards
		WHERE id = $1
	`, rewardID).Scan(
		&reward.ID, &reward.Title, &reward.Description, &reward.PointsRequired,
		&reward.StockQuantity, &reward.ExpiryDays, &reward.IsActive, &reward.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRewardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reward: %w", err)
	}
	return &reward, nil
}

func (r *RewardRepo) ListActive(ctx context.Context) ([]domain.Reward, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, description, points_required, stock_quantity, expiry_days, is_active, created_at
		FROM rewards
		WHERE is_active
		ORDER BY points_required, title
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}

	rewards, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Reward, error) {
		var reward domain.Reward
		err := row.Scan(
			&reward.ID, &reward.Title, &reward.Description, &reward.PointsRequired,
			&reward.StockQuantity, &reward.ExpiryDays, &reward.IsActive, &reward.CreatedAt,
		)
		return reward, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan rewards: %w", err)
	}
	return rewards, nil
}

// InsertReward adds a reward to the catalog. Used for seeding; catalog
// curation happens outside the request path.
func (r *RewardRepo) InsertReward(ctx context.Context, reward *domain.Reward) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO rewards (id, title, description, points_required, stock_quantity, expiry_days, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`, reward.ID, reward.Title, reward.Description, reward.PointsRequired,
		reward.StockQuantity, reward.ExpiryDays, reward.IsActive)
	if err != nil {
		return fmt.Errorf("failed to insert reward: %w", err)
	}
	return nil
}
