package domain

import "errors"

var (
	// ErrInvalidAmount rejects ledger appends with a zero or negative amount.
	ErrInvalidAmount = errors.New("ledger amount must be a positive integer")

	// ErrRewardNotFound covers both a missing and an inactive reward.
	ErrRewardNotFound = errors.New("reward not found")

	// ErrOutOfStock means the reward has finite stock and none is left.
	ErrOutOfStock = errors.New("reward is out of stock")

	// ErrInsufficientPoints means the user's balance is below the reward cost.
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrVoucherCollision is internal to redemption: the generated voucher
	// code already exists. Redemption retries it transparently and only
	// surfaces ErrRedemptionFailed once retries are exhausted.
	ErrVoucherCollision = errors.New("voucher code already exists")

	// ErrRedemptionFailed is the generic terminal failure after voucher
	// collision retries are exhausted.
	ErrRedemptionFailed = errors.New("redemption failed")

	// ErrRedemptionNotFound means no redemption exists for the given voucher.
	ErrRedemptionNotFound = errors.New("redemption not found")

	// ErrRedemptionFinal rejects status transitions out of a terminal state.
	ErrRedemptionFinal = errors.New("redemption is already in a terminal state")

	// ErrSummaryUnavailable is the transient failure of a reputation
	// recompute whose underlying feedback set could not be read. The
	// previous summary stays untouched.
	ErrSummaryUnavailable = errors.New("reputation summary unavailable")

	// ErrRateLimited rejects redemption attempts beyond the per-user budget.
	ErrRateLimited = errors.New("too many redemption attempts")

	// ErrTutorNotFound means the tutor projection could not be loaded.
	ErrTutorNotFound = errors.New("tutor not found")
)
