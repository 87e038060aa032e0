// Package memory provides in-memory implementations of the domain
// repositories. It backs unit tests and single-instance development mode;
// the Postgres adapter is the production store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/tutorpulse/tutorpulse/internal/domain"
)

var (
	_ domain.FeedbackRepository = (*Store)(nil)
	_ domain.TutorRepository    = (*Store)(nil)
	_ domain.LedgerRepository   = (*Store)(nil)
	_ domain.RewardRepository   = (*Store)(nil)
	_ domain.RedemptionStore    = (*Store)(nil)
)

// Store holds all engine state behind one mutex. Redeem runs its checks
// and writes under that mutex, which gives the same all-or-nothing
// serialization the Postgres adapter gets from a transaction.
type Store struct {
	clock clockwork.Clock

	mu          sync.Mutex
	feedback    []domain.FeedbackEntry
	tutors      map[uuid.UUID]domain.Tutor
	ledger      []domain.LedgerEntry
	rewards     map[uuid.UUID]*domain.Reward
	redemptions map[uuid.UUID]*domain.Redemption
	vouchers    map[string]uuid.UUID
}

// NewStore creates an empty in-memory store.
func NewStore(clock clockwork.Clock) *Store {
	return &Store{
		clock:       clock,
		tutors:      make(map[uuid.UUID]domain.Tutor),
		rewards:     make(map[uuid.UUID]*domain.Reward),
		redemptions: make(map[uuid.UUID]*domain.Redemption),
		vouchers:    make(map[string]uuid.UUID),
	}
}

// --- FeedbackRepository ---

func (s *Store) Insert(_ context.Context, entry *domain.FeedbackEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append(s.feedback, *entry)
	return nil
}

func (s *Store) ListByTutor(_ context.Context, tutorID uuid.UUID) ([]domain.FeedbackEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.FeedbackEntry
	for _, e := range s.feedback {
		if e.TutorID == tutorID {
			out = append(out, e)
		}
	}
	return out, nil
}

// --- TutorRepository ---

// PutTutor inserts or replaces a tutor projection.
func (s *Store) PutTutor(tutor domain.Tutor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tutors[tutor.ID] = tutor
}

func (s *Store) GetTutor(_ context.Context, tutorID uuid.UUID) (*domain.Tutor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tutor, ok := s.tutors[tutorID]
	if !ok {
		return nil, domain.ErrTutorNotFound
	}
	return &tutor, nil
}

func (s *Store) ListBySubject(_ context.Context, subject string) ([]domain.Tutor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Tutor
	for _, tutor := range s.tutors {
		if tutor.TeachesSubject(subject) {
			out = append(out, tutor)
		}
	}
	// Map iteration order is random; callers expect deterministic input.
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// --- LedgerRepository ---

func (s *Store) Append(_ context.Context, entry *domain.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = append(s.ledger, *entry)
	return nil
}

func (s *Store) Balance(_ context.Context, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balanceLocked(userID), nil
}

func (s *Store) balanceLocked(userID uuid.UUID) int {
	balance := 0
	for _, e := range s.ledger {
		if e.UserID != userID {
			continue
		}
		switch e.Type {
		case domain.EntryEarned:
			balance += e.Amount
		case domain.EntrySpent:
			balance -= e.Amount
		}
	}
	return balance
}

func (s *Store) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.LedgerEntry
	for _, e := range s.ledger {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

// --- RewardRepository ---

// PutReward inserts or replaces a reward.
func (s *Store) PutReward(reward domain.Reward) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := reward
	s.rewards[reward.ID] = &r
}

func (s *Store) GetReward(_ context.Context, rewardID uuid.UUID) (*domain.Reward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reward, ok := s.rewards[rewardID]
	if !ok {
		return nil, domain.ErrRewardNotFound
	}
	r := *reward
	return &r, nil
}

func (s *Store) ListActive(_ context.Context) ([]domain.Reward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Reward
	for _, reward := range s.rewards {
		if reward.IsActive {
			out = append(out, *reward)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// --- RedemptionStore ---

func (s *Store) Redeem(_ context.Context, red *domain.Redemption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reward, ok := s.rewards[red.RewardID]
	if !ok || !reward.IsActive {
		return domain.ErrRewardNotFound
	}
	if reward.StockQuantity != domain.UnlimitedStock && reward.StockQuantity <= 0 {
		return domain.ErrOutOfStock
	}
	if s.balanceLocked(red.UserID) < reward.PointsRequired {
		return domain.ErrInsufficientPoints
	}
	if _, exists := s.vouchers[red.VoucherCode]; exists {
		return domain.ErrVoucherCollision
	}

	s.ledger = append(s.ledger, domain.LedgerEntry{
		ID:          uuid.New(),
		UserID:      red.UserID,
		Type:        domain.EntrySpent,
		Amount:      reward.PointsRequired,
		Description: "Redeemed: " + reward.Title,
		CreatedAt:   s.clock.Now(),
	})
	if reward.StockQuantity != domain.UnlimitedStock {
		reward.StockQuantity--
	}

	r := *red
	s.redemptions[red.ID] = &r
	s.vouchers[red.VoucherCode] = red.ID
	return nil
}

func (s *Store) GetByVoucher(_ context.Context, voucherCode string) (*domain.Redemption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.vouchers[voucherCode]
	if !ok {
		return nil, domain.ErrRedemptionNotFound
	}
	red := *s.redemptions[id]
	return &red, nil
}

func (s *Store) ListRedemptionsByUser(_ context.Context, userID uuid.UUID) ([]domain.Redemption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Redemption
	for _, red := range s.redemptions {
		if red.UserID == userID {
			out = append(out, *red)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RedeemedAt.Before(out[j].RedeemedAt)
	})
	return out, nil
}

func (s *Store) UpdateStatus(_ context.Context, redemptionID uuid.UUID, status domain.RedemptionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	red, ok := s.redemptions[redemptionID]
	if !ok {
		return domain.ErrRedemptionNotFound
	}
	if red.Status != domain.RedemptionActive {
		return domain.ErrRedemptionFinal
	}
	red.Status = status
	return nil
}

func (s *Store) ExpireDue(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expired := 0
	for _, red := range s.redemptions {
		if red.Status == domain.RedemptionActive && red.ExpiresAt != nil && !red.ExpiresAt.After(now) {
			red.Status = domain.RedemptionExpired
			expired++
		}
	}
	return expired, nil
}
