// Package rewards implements the reward catalog read path and the atomic
// redemption transaction.
package rewards

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/tutorpulse/tutorpulse/internal/domain"
	"github.com/tutorpulse/tutorpulse/internal/metrics"
	"github.com/tutorpulse/tutorpulse/internal/platform/retry"
)

// voucherRetryAttempts bounds transparent voucher collision retries before
// the attempt surfaces as domain.ErrRedemptionFailed.
const voucherRetryAttempts = 5

// Redeemer exchanges points for vouchers. Each redemption is serialized
// per user and, for finite-stock rewards, per reward, so the balance and
// stock checks and the two writes always observe a consistent snapshot.
// The store re-validates everything inside its own atomic boundary; the
// keyed locks only order concurrent attempts so the loser observes the
// state after the winner committed.
type Redeemer struct {
	rewards domain.RewardRepository
	ledger  domain.LedgerRepository
	store   domain.RedemptionStore
	clock   clockwork.Clock

	userLocks   keyedMutex
	rewardLocks keyedMutex
}

// NewRedeemer creates a redeemer over the given stores.
func NewRedeemer(rewards domain.RewardRepository, ledger domain.LedgerRepository, store domain.RedemptionStore, clock clockwork.Clock) *Redeemer {
	return &Redeemer{
		rewards: rewards,
		ledger:  ledger,
		store:   store,
		clock:   clock,
	}
}

// Redeem runs the full redemption state machine and returns the voucher
// code on success. Failures are typed: domain.ErrRewardNotFound (missing
// or inactive), domain.ErrOutOfStock, domain.ErrInsufficientPoints, and
// domain.ErrRedemptionFailed once voucher collision retries are
// exhausted. On any failure no state has changed.
func (r *Redeemer) Redeem(ctx context.Context, userID, rewardID uuid.UUID) (string, error) {
	reward, err := r.rewards.GetReward(ctx, rewardID)
	if err != nil {
		return "", err
	}
	if !reward.IsActive {
		return "", domain.ErrRewardNotFound
	}

	// Serialize: always the user first, then the reward. Every caller
	// acquires in this order, so the two keyed locks cannot deadlock.
	unlockUser := r.userLocks.lock(userID.String())
	defer unlockUser()
	if reward.StockQuantity != domain.UnlimitedStock {
		unlockReward := r.rewardLocks.lock(rewardID.String())
		defer unlockReward()
	}

	// Pre-checks under the lock give the typed failure order the caller
	// expects; the store repeats them inside its atomic boundary.
	if !reward.HasStock() {
		return "", domain.ErrOutOfStock
	}
	balance, err := r.ledger.Balance(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to compute balance: %w", err)
	}
	if balance < reward.PointsRequired {
		return "", domain.ErrInsufficientPoints
	}

	policy := retry.Policy{
		MaxAttempts: voucherRetryAttempts,
		OnRetry: func(attempt int, err error, _ time.Duration) {
			metrics.VoucherCollisionsTotal.Inc()
			slog.Warn("Voucher code collided, regenerating", "attempt", attempt, "error", err)
		},
	}
	code, err := retry.Do(ctx, policy, classifyRedeemErr, func() (string, error) {
		return r.attempt(ctx, userID, reward)
	})
	if err != nil {
		var permanent *retry.PermanentError
		if errors.As(err, &permanent) {
			return "", permanent.Err
		}
		// Only voucher collisions are retried; exhausting them is the
		// generic redemption failure.
		return "", fmt.Errorf("%w: %v", domain.ErrRedemptionFailed, err)
	}
	return code, nil
}

// attempt generates a fresh voucher code and asks the store to commit the
// exchange atomically.
func (r *Redeemer) attempt(ctx context.Context, userID uuid.UUID, reward *domain.Reward) (string, error) {
	code, err := GenerateVoucherCode()
	if err != nil {
		return "", err
	}

	now := r.clock.Now()
	red := &domain.Redemption{
		ID:          uuid.New(),
		UserID:      userID,
		RewardID:    reward.ID,
		VoucherCode: code,
		Status:      domain.RedemptionActive,
		RedeemedAt:  now,
		ExpiresAt:   expiresAt(reward, now),
	}

	if err := r.store.Redeem(ctx, red); err != nil {
		return "", err
	}
	return code, nil
}

func classifyRedeemErr(err error) retry.Action {
	if errors.Is(err, domain.ErrVoucherCollision) {
		return retry.Retry
	}
	return retry.Stop
}

func expiresAt(reward *domain.Reward, redeemedAt time.Time) *time.Time {
	if reward.ExpiryDays <= 0 {
		return nil
	}
	t := redeemedAt.AddDate(0, 0, reward.ExpiryDays)
	return &t
}

// ListActive returns the redeemable catalog.
func (r *Redeemer) ListActive(ctx context.Context) ([]domain.Reward, error) {
	return r.rewards.ListActive(ctx)
}

// Vouchers lists a user's redemptions.
func (r *Redeemer) Vouchers(ctx context.Context, userID uuid.UUID) ([]domain.Redemption, error) {
	return r.store.ListRedemptionsByUser(ctx, userID)
}

// MarkUsed transitions a voucher from active to used. Terminal states
// never transition again.
func (r *Redeemer) MarkUsed(ctx context.Context, voucherCode string) error {
	red, err := r.store.GetByVoucher(ctx, voucherCode)
	if err != nil {
		return err
	}
	return r.store.UpdateStatus(ctx, red.ID, domain.RedemptionUsed)
}

// ExpireDue transitions every active voucher past its expiry to expired
// and reports the count.
func (r *Redeemer) ExpireDue(ctx context.Context) (int, error) {
	return r.store.ExpireDue(ctx, r.clock.Now())
}

// keyedMutex hands out one mutex per key. Keys are never evicted; the
// working set is bounded by active users and rewards.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
