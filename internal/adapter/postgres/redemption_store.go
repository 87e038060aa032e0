package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorpulse/tutorpulse/internal/domain"
)

var _ domain.RedemptionStore = (*RedemptionStore)(nil)

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// RedemptionStore executes the points-for-voucher exchange as a single
// transaction. A per-user advisory xact lock serializes concurrent
// redemptions of the same user, and SELECT FOR UPDATE on the reward row
// serializes stock decrements, so the balance and stock checks always see
// committed state.
type RedemptionStore struct {
	pool *pgxpool.Pool
}

func NewRedemptionStore(pool *pgxpool.Pool) *RedemptionStore {
	return &RedemptionStore{pool: pool}
}

func (s *RedemptionStore) Redeem(ctx context.Context, red *domain.Redemption) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// The advisory lock is keyed on the user so two parallel redemptions
	// by the same user fold their balances sequentially. It releases on
	// commit or rollback.
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", red.UserID.String()); err != nil {
		return fmt.Errorf("failed to acquire user lock: %w", err)
	}

	var reward domain.Reward
	err = tx.QueryRow(ctx, `
		SELECT id, title, points_required, stock_quantity, is_active
		FROM rewards
		WHERE id = $1
		FOR UPDATE
	`, red.RewardID).Scan(&reward.ID, &reward.Title, &reward.PointsRequired, &reward.StockQuantity, &reward.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrRewardNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock reward: %w", err)
	}

	if !reward.IsActive {
		return domain.ErrRewardNotFound
	}
	if !reward.HasStock() {
		return domain.ErrOutOfStock
	}

	var balance int
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN entry_type = 'earned' THEN amount ELSE -amount END), 0)
		FROM points_ledger
		WHERE user_id = $1
	`, red.UserID).Scan(&balance)
	if err != nil {
		return fmt.Errorf("failed to compute balance: %w", err)
	}
	if balance < reward.PointsRequired {
		return domain.ErrInsufficientPoints
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO points_ledger (id, user_id, entry_type, amount, description, created_at)
		VALUES ($1, $2, 'spent', $3, $4, NOW())
	`, uuid.New(), red.UserID, reward.PointsRequired, "Redeemed: "+reward.Title)
	if err != nil {
		return fmt.Errorf("failed to append spent entry: %w", err)
	}

	if reward.StockQuantity != domain.UnlimitedStock {
		if _, err := tx.Exec(ctx, `
			UPDATE rewards SET stock_quantity = stock_quantity - 1, updated_at = NOW() WHERE id = $1
		`, reward.ID); err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO redemptions (id, user_id, reward_id, voucher_code, status, redeemed_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, red.ID, red.UserID, red.RewardID, red.VoucherCode, string(red.Status), red.RedeemedAt, red.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrVoucherCollision
		}
		return fmt.Errorf("failed to insert redemption: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit redemption: %w", err)
	}
	return nil
}

func (s *RedemptionStore) GetByVoucher(ctx context.Context, voucherCode string) (*domain.Redemption, error) {
	var red domain.Redemption
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, reward_id, voucher_code, status, redeemed_at, expires_at
		FROM redemptions
		WHERE voucher_code = $1
	`, voucherCode).Scan(&red.ID, &red.UserID, &red.RewardID, &red.VoucherCode, &red.Status, &red.RedeemedAt, &red.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRedemptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get redemption: %w", err)
	}
	return &red, nil
}

func (s *RedemptionStore) ListRedemptionsByUser(ctx context.Context, userID uuid.UUID) ([]domain.Redemption, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, reward_id, voucher_code, status, redeemed_at, expires_at
		FROM redemptions
		WHERE user_id = $1
		ORDER BY redeemed_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list redemptions: %w", err)
	}

	reds, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Redemption, error) {
		var red domain.Redemption
		err := row.Scan(&red.ID, &red.UserID, &red.RewardID, &red.VoucherCode, &red.Status, &red.RedeemedAt, &red.ExpiresAt)
		return red, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan redemptions: %w", err)
	}
	return reds, nil
}

func (s *RedemptionStore) UpdateStatus(ctx context.Context, redemptionID uuid.UUID, status domain.RedemptionStatus) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE redemptions SET status = $1 WHERE id = $2 AND status = 'active'
	`, string(status), redemptionID)
	if err != nil {
		return fmt.Errorf("failed to update redemption status: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Distinguish a missing redemption from one already terminal.
	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM redemptions WHERE id = $1)`, redemptionID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check redemption: %w", err)
	}
	if !exists {
		return domain.ErrRedemptionNotFound
	}
	return domain.ErrRedemptionFinal
}

func (s *RedemptionStore) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE redemptions
		SET status = 'expired'
		WHERE status = 'active' AND expires_at IS NOT NULL AND expires_at <= $1
	`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire redemptions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
