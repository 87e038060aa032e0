package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FeedbackRepository persists immutable feedback entries and serves the
// full feedback set of a tutor for recomputation.
type FeedbackRepository interface {
	Insert(ctx context.Context, entry *FeedbackEntry) error
	ListByTutor(ctx context.Context, tutorID uuid.UUID) ([]FeedbackEntry, error)
}

// TutorRepository serves the read-only tutor projections used for ranking.
// ListBySubject is a coarse pre-filter; the ranker re-applies the subject
// and availability filters on whatever it is handed.
type TutorRepository interface {
	GetTutor(ctx context.Context, tutorID uuid.UUID) (*Tutor, error)
	ListBySubject(ctx context.Context, subject string) ([]Tutor, error)
}

// LedgerRepository is the append-only points ledger. Balance is a
// read-time fold over the user's entries (or an equivalent aggregate the
// store guarantees to match the fold); there is deliberately no update or
// delete operation.
type LedgerRepository interface {
	Append(ctx context.Context, entry *LedgerEntry) error
	Balance(ctx context.Context, userID uuid.UUID) (int, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]LedgerEntry, error)
}

// RewardRepository serves the reward catalog.
type RewardRepository interface {
	GetReward(ctx context.Context, rewardID uuid.UUID) (*Reward, error)
	ListActive(ctx context.Context) ([]Reward, error)
}

// RedemptionStore persists redemptions and executes the atomic exchange.
//
// Redeem must re-validate the reward (existence, active flag, stock) and
// the user's balance inside its own serialization boundary, then append
// the spent ledger entry, decrement finite stock, and insert the
// redemption as one all-or-nothing unit. It returns ErrRewardNotFound,
// ErrOutOfStock, ErrInsufficientPoints, or ErrVoucherCollision; on any
// error no state changes.
type RedemptionStore interface {
	Redeem(ctx context.Context, red *Redemption) error
	GetByVoucher(ctx context.Context, voucherCode string) (*Redemption, error)
	ListRedemptionsByUser(ctx context.Context, userID uuid.UUID) ([]Redemption, error)

	// UpdateStatus applies a terminal transition. It fails with
	// ErrRedemptionFinal when the redemption already left the active state.
	UpdateStatus(ctx context.Context, redemptionID uuid.UUID, status RedemptionStatus) error

	// ExpireDue marks every active redemption whose expiry passed as
	// expired and reports how many were transitioned.
	ExpireDue(ctx context.Context, now time.Time) (int, error)
}

// SummaryCache is the optional cache in front of reputation recomputation.
// Get returns (nil, nil) on a miss; implementations degrade to misses when
// the backing store is unavailable.
type SummaryCache interface {
	Get(ctx context.Context, tutorID uuid.UUID) (*ReputationSummary, error)
	Set(ctx context.Context, summary *ReputationSummary) error
	Invalidate(ctx context.Context, tutorID uuid.UUID) error
}
