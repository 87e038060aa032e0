package domain

import (
	"time"

	"github.com/google/uuid"
)

// UnlimitedStock is the sentinel stock quantity meaning a reward can be
// redeemed without limit and is exempt from stock checks and decrements.
const UnlimitedStock = -1

// Reward is a redeemable catalog item. StockQuantity is only ever mutated
// by the atomic decrement inside a successful redemption.
type Reward struct {
	ID             uuid.UUID
	Title          string
	Description    string
	PointsRequired int
	StockQuantity  int // UnlimitedStock means unlimited
	ExpiryDays     int // 0 means vouchers never expire
	IsActive       bool
	CreatedAt      time.Time
}

// HasStock reports whether at least one unit can still be redeemed.
func (r *Reward) HasStock() bool {
	return r.StockQuantity == UnlimitedStock || r.StockQuantity > 0
}

// RedemptionStatus is the lifecycle state of a redeemed voucher.
// Transitions are active -> used and active -> expired only; both
// targets are terminal.
type RedemptionStatus string

const (
	RedemptionActive  RedemptionStatus = "active"
	RedemptionUsed    RedemptionStatus = "used"
	RedemptionExpired RedemptionStatus = "expired"
)

// Redemption records one successful exchange of points for a reward.
// VoucherCode is globally unique across all redemptions.
type Redemption struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	RewardID    uuid.UUID
	VoucherCode string
	Status      RedemptionStatus
	RedeemedAt  time.Time
	ExpiresAt   *time.Time // nil when the reward has no expiry policy
}
