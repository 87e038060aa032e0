package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/tutorpulse/tutorpulse/internal/domain"
	apperrors "github.com/tutorpulse/tutorpulse/internal/errors"
	"github.com/tutorpulse/tutorpulse/internal/metrics"
	"github.com/tutorpulse/tutorpulse/internal/points"
	"github.com/tutorpulse/tutorpulse/internal/ranking"
	"github.com/tutorpulse/tutorpulse/internal/reputation"
	"github.com/tutorpulse/tutorpulse/internal/rewards"
)

// Service is the application layer. It owns the use-case orchestration:
// feedback intake with reputation refresh, cached reputation reads,
// recommendation queries, the points ledger, and redemptions with
// per-user rate limiting.
type Service struct {
	feedback   domain.FeedbackRepository
	tutors     domain.TutorRepository
	aggregator *reputation.Aggregator
	cache      domain.SummaryCache
	ledger     *points.Ledger
	redeemer   *rewards.Redeemer
	clock      clockwork.Clock

	// recomputeGroup collapses concurrent reputation recomputations of
	// the same tutor into one.
	recomputeGroup singleflight.Group

	limiterMu       sync.Mutex
	limiters        map[uuid.UUID]*rate.Limiter
	redemptionRate  rate.Limit
	redemptionBurst int

	sweepInterval time.Duration
	sweepStopCh   chan struct{}
	stopOnce      sync.Once
	sweepWg       sync.WaitGroup
}

// NewService creates the application layer service and starts the voucher
// expiry sweeper. Call Stop on shutdown.
func NewService(
	feedback domain.FeedbackRepository,
	tutors domain.TutorRepository,
	aggregator *reputation.Aggregator,
	cache domain.SummaryCache,
	ledger *points.Ledger,
	redeemer *rewards.Redeemer,
	clock clockwork.Clock,
	redemptionPerMinute int,
	sweepInterval time.Duration,
) *Service {
	s := &Service{
		feedback:        feedback,
		tutors:          tutors,
		aggregator:      aggregator,
		cache:           cache,
		ledger:          ledger,
		redeemer:        redeemer,
		clock:           clock,
		limiters:        make(map[uuid.UUID]*rate.Limiter),
		redemptionRate:  rate.Every(time.Minute / time.Duration(redemptionPerMinute)),
		redemptionBurst: redemptionPerMinute,
		sweepInterval:   sweepInterval,
		sweepStopCh:     make(chan struct{}),
	}

	s.startExpirySweeper()
	return s
}

// Stop terminates the expiry sweeper and waits for it to finish.
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		close(s.sweepStopCh)
	})
	s.sweepWg.Wait()
}

// SubmitFeedbackInput carries one feedback submission. StarRating and
// Comment are both optional, but not both absent.
type SubmitFeedbackInput struct {
	SessionID  uuid.UUID
	TutorID    uuid.UUID
	AuthorID   uuid.UUID
	StarRating *int
	Comment    string
}

// SubmitFeedback validates and persists a feedback entry, then refreshes
// the tutor's reputation. The refresh is best-effort: feedback is
// accepted even when the recompute fails, and the next reputation read
// recomputes on demand.
func (s *Service) SubmitFeedback(ctx context.Context, in SubmitFeedbackInput) (*domain.FeedbackEntry, error) {
	if in.StarRating != nil && (*in.StarRating < 1 || *in.StarRating > 5) {
		return nil, apperrors.ValidationError("star rating must be between 1 and 5").
			WithContext("star_rating", *in.StarRating)
	}
	if in.StarRating == nil && in.Comment == "" {
		return nil, apperrors.ValidationError("feedback needs a star rating or a comment")
	}
	if _, err := s.tutors.GetTutor(ctx, in.TutorID); err != nil {
		return nil, err
	}

	entry := &domain.FeedbackEntry{
		ID:         uuid.New(),
		SessionID:  in.SessionID,
		TutorID:    in.TutorID,
		AuthorID:   in.AuthorID,
		StarRating: in.StarRating,
		Comment:    in.Comment,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.feedback.Insert(ctx, entry); err != nil {
		return nil, err
	}
	metrics.FeedbackSubmittedTotal.WithLabelValues(feedbackKind(entry)).Inc()

	if _, err := s.refreshReputation(ctx, in.TutorID); err != nil {
		slog.Warn("Reputation refresh after feedback failed, keeping previous summary",
			"tutor_id", in.TutorID, "error", err)
	}
	return entry, nil
}

func feedbackKind(entry *domain.FeedbackEntry) string {
	switch {
	case entry.HasRating() && entry.Comment != "":
		return "both"
	case entry.HasRating():
		return "rated"
	default:
		return "comment_only"
	}
}

// GetReputation returns the tutor's reputation summary, served from cache
// when possible and recomputed otherwise. Concurrent misses for the same
// tutor share one recomputation.
func (s *Service) GetReputation(ctx context.Context, tutorID uuid.UUID) (*domain.ReputationSummary, error) {
	if _, err := s.tutors.GetTutor(ctx, tutorID); err != nil {
		return nil, err
	}

	if cached, err := s.cache.Get(ctx, tutorID); err == nil && cached != nil {
		return cached, nil
	}

	return s.refreshReputation(ctx, tutorID)
}

// refreshReputation recomputes the summary and replaces the cached one.
// The cache write is best-effort.
func (s *Service) refreshReputation(ctx context.Context, tutorID uuid.UUID) (*domain.ReputationSummary, error) {
	v, err, _ := s.recomputeGroup.Do(tutorID.String(), func() (any, error) {
		start := time.Now()
		summary, err := s.aggregator.Recompute(ctx, tutorID)
		metrics.ReputationRecomputeDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.ReputationRecomputesTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		metrics.ReputationRecomputesTotal.WithLabelValues("success").Inc()

		if err := s.cache.Set(ctx, summary); err != nil {
			slog.Warn("Failed to cache reputation summary", "tutor_id", tutorID, "error", err)
		}
		return summary, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.ReputationSummary), nil
}

// Recommend returns the top tutors for a subject, best first.
func (s *Service) Recommend(ctx context.Context, subject string, limit int) ([]domain.Tutor, error) {
	if subject == "" {
		return nil, apperrors.ValidationError("subject is required")
	}

	candidates, err := s.tutors.ListBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}

	ranked := ranking.Rank(candidates, subject, limit)
	metrics.RecommendationsServedTotal.Inc()
	metrics.RecommendationResultSize.Observe(float64(len(ranked)))
	return ranked, nil
}

// AwardPoints appends an earned entry to the user's ledger.
func (s *Service) AwardPoints(ctx context.Context, userID uuid.UUID, amount int, description string) (*domain.LedgerEntry, error) {
	entry, err := s.ledger.Append(ctx, userID, domain.EntryEarned, amount, description)
	if err != nil {
		return nil, err
	}
	metrics.LedgerEntriesTotal.WithLabelValues(string(domain.EntryEarned)).Inc()
	return entry, nil
}

// Balance returns the user's current points balance.
func (s *Service) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.ledger.Balance(ctx, userID)
}

// PointsHistory lists the user's ledger entries.
func (s *Service) PointsHistory(ctx context.Context, userID uuid.UUID) ([]domain.LedgerEntry, error) {
	return s.ledger.History(ctx, userID)
}

// Redeem exchanges points for a voucher, subject to the per-user rate
// limit.
func (s *Service) Redeem(ctx context.Context, userID, rewardID uuid.UUID) (string, error) {
	if !s.limiter(userID).Allow() {
		metrics.RedemptionsTotal.WithLabelValues("rate_limited").Inc()
		return "", domain.ErrRateLimited
	}

	start := time.Now()
	code, err := s.redeemer.Redeem(ctx, userID, rewardID)
	metrics.RedemptionDuration.Observe(time.Since(start).Seconds())
	metrics.RedemptionsTotal.WithLabelValues(redemptionResult(err)).Inc()
	if err != nil {
		return "", err
	}
	metrics.LedgerEntriesTotal.WithLabelValues(string(domain.EntrySpent)).Inc()
	return code, nil
}

func redemptionResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrOutOfStock):
		return "out_of_stock"
	case errors.Is(err, domain.ErrInsufficientPoints):
		return "insufficient_points"
	case errors.Is(err, domain.ErrRewardNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func (s *Service) limiter(userID uuid.UUID) *rate.Limiter {
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()
	l, ok := s.limiters[userID]
	if !ok {
		l = rate.NewLimiter(s.redemptionRate, s.redemptionBurst)
		s.limiters[userID] = l
	}
	return l
}

// ListRewards returns the active reward catalog.
func (s *Service) ListRewards(ctx context.Context) ([]domain.Reward, error) {
	return s.redeemer.ListActive(ctx)
}

// Vouchers lists the user's redemptions.
func (s *Service) Vouchers(ctx context.Context, userID uuid.UUID) ([]domain.Redemption, error) {
	return s.redeemer.Vouchers(ctx, userID)
}

// MarkVoucherUsed transitions a voucher to used.
func (s *Service) MarkVoucherUsed(ctx context.Context, voucherCode string) error {
	return s.redeemer.MarkUsed(ctx, voucherCode)
}

// startExpirySweeper periodically transitions active vouchers past their
// expiry to expired.
func (s *Service) startExpirySweeper() {
	if s.sweepInterval <= 0 {
		return
	}

	ticker := s.clock.NewTicker(s.sweepInterval)
	s.sweepWg.Add(1)
	go func() {
		defer s.sweepWg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-s.sweepStopCh:
				return
			case <-ticker.Chan():
				s.sweepExpiredVouchers()
			}
		}
	}()
}

func (s *Service) sweepExpiredVouchers() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	expired, err := s.redeemer.ExpireDue(ctx)
	if err != nil {
		slog.Error("Voucher expiry sweep failed", "error", err)
		return
	}
	if expired > 0 {
		metrics.VouchersExpiredTotal.Add(float64(expired))
		slog.Info("Expired vouchers", "count", expired)
	}
}
