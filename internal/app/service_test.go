package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorpulse/tutorpulse/internal/adapter/memory"
	"github.com/tutorpulse/tutorpulse/internal/domain"
	apperrors "github.com/tutorpulse/tutorpulse/internal/errors"
	"github.com/tutorpulse/tutorpulse/internal/points"
	"github.com/tutorpulse/tutorpulse/internal/reputation"
	"github.com/tutorpulse/tutorpulse/internal/rewards"
)

// fakeCache implements domain.SummaryCache in memory and counts calls.
type fakeCache struct {
	mu        sync.Mutex
	summaries map[uuid.UUID]*domain.ReputationSummary
	sets      int
}

func newFakeCache() *fakeCache {
	return &fakeCache{summaries: make(map[uuid.UUID]*domain.ReputationSummary)}
}

func (c *fakeCache) Get(_ context.Context, tutorID uuid.UUID) (*domain.ReputationSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summaries[tutorID], nil
}

func (c *fakeCache) Set(_ context.Context, summary *domain.ReputationSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summaries[summary.TutorID] = summary
	c.sets++
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, tutorID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.summaries, tutorID)
	return nil
}

type testEnv struct {
	store   *memory.Store
	cache   *fakeCache
	clock   *clockwork.FakeClock
	service *Service
}

func newTestEnv(t *testing.T, redemptionPerMinute int, sweepInterval time.Duration) *testEnv {
	t.Helper()
	clock := clockwork.NewFakeClock()
	store := memory.NewStore(clock)
	cache := newFakeCache()

	service := NewService(
		store,
		store,
		reputation.NewAggregator(store, clock),
		cache,
		points.NewLedger(store, clock),
		rewards.NewRedeemer(store, store, store, clock),
		clock,
		redemptionPerMinute,
		sweepInterval,
	)
	t.Cleanup(service.Stop)

	return &testEnv{store: store, cache: cache, clock: clock, service: service}
}

func (e *testEnv) seedTutor() domain.Tutor {
	tutor := domain.Tutor{
		ID:          uuid.New(),
		DisplayName: "Ada",
		Subjects:    []string{"math"},
		IsAvailable: true,
	}
	e.store.PutTutor(tutor)
	return tutor
}

func intPtr(v int) *int { return &v }

func TestSubmitFeedbackValidation(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	ctx := context.Background()
	tutor := env.seedTutor()

	tests := []struct {
		name string
		in   SubmitFeedbackInput
	}{
		{"rating too low", SubmitFeedbackInput{TutorID: tutor.ID, StarRating: intPtr(0)}},
		{"rating too high", SubmitFeedbackInput{TutorID: tutor.ID, StarRating: intPtr(6)}},
		{"nothing to say", SubmitFeedbackInput{TutorID: tutor.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.SubmitFeedback(ctx, tt.in)
			var structured *apperrors.Error
			require.ErrorAs(t, err, &structured)
			assert.Equal(t, apperrors.TypeValidation, structured.Type)
		})
	}
}

func TestSubmitFeedbackUnknownTutor(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	_, err := env.service.SubmitFeedback(context.Background(), SubmitFeedbackInput{
		TutorID:    uuid.New(),
		StarRating: intPtr(5),
	})
	assert.ErrorIs(t, err, domain.ErrTutorNotFound)
}

func TestSubmitFeedbackRefreshesSummary(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	ctx := context.Background()
	tutor := env.seedTutor()

	_, err := env.service.SubmitFeedback(ctx, SubmitFeedbackInput{
		SessionID:  uuid.New(),
		TutorID:    tutor.ID,
		AuthorID:   uuid.New(),
		StarRating: intPtr(5),
		Comment:    "This tutor was amazing and very helpful!",
	})
	require.NoError(t, err)

	cached, err := env.cache.Get(ctx, tutor.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, 5.0, cached.StarAverage)
	assert.Equal(t, 1, cached.StarCount)
	assert.Equal(t, 1, cached.SentimentCount)
	assert.Greater(t, cached.SentimentAverage, 3.5)
}

func TestGetReputationCacheHitSkipsRecompute(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	ctx := context.Background()
	tutor := env.seedTutor()

	cachedSummary := &domain.ReputationSummary{
		TutorID:     tutor.ID,
		StarAverage: 4.2,
		StarCount:   7,
		ComputedAt:  env.clock.Now(),
	}
	require.NoError(t, env.cache.Set(ctx, cachedSummary))
	setsBefore := env.cache.sets

	got, err := env.service.GetReputation(ctx, tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.2, got.StarAverage)
	assert.Equal(t, 7, got.StarCount)
	assert.Equal(t, setsBefore, env.cache.sets, "a cache hit must not trigger a recompute")
}

func TestGetReputationMissRecomputesAndCaches(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	ctx := context.Background()
	tutor := env.seedTutor()

	rating := 4
	require.NoError(t, env.store.Insert(ctx, &domain.FeedbackEntry{
		ID: uuid.New(), SessionID: uuid.New(), TutorID: tutor.ID,
		AuthorID: uuid.New(), StarRating: &rating, CreatedAt: env.clock.Now(),
	}))

	got, err := env.service.GetReputation(ctx, tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.StarAverage)
	assert.Equal(t, 1, got.StarCount)

	cached, err := env.cache.Get(ctx, tutor.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, 4.0, cached.StarAverage)
}

func TestGetReputationUnknownTutor(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	_, err := env.service.GetReputation(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrTutorNotFound)
}

func TestRecommendRequiresSubject(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	_, err := env.service.Recommend(context.Background(), "", 3)
	var structured *apperrors.Error
	require.ErrorAs(t, err, &structured)
	assert.Equal(t, apperrors.TypeValidation, structured.Type)
}

func TestRecommendRanksAndLimits(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	ctx := context.Background()

	for _, tutor := range []domain.Tutor{
		{ID: uuid.New(), DisplayName: "A", Subjects: []string{"math"}, Rating: 4.0, ReviewCount: 10, IsAvailable: true},
		{ID: uuid.New(), DisplayName: "B", Subjects: []string{"math"}, Rating: 4.8, ReviewCount: 3, IsAvailable: true},
		{ID: uuid.New(), DisplayName: "C", Subjects: []string{"math"}, Rating: 5.0, ReviewCount: 2, IsAvailable: false},
		{ID: uuid.New(), DisplayName: "D", Subjects: []string{"physics"}, Rating: 4.9, ReviewCount: 9, IsAvailable: true},
	} {
		env.store.PutTutor(tutor)
	}

	ranked, err := env.service.Recommend(ctx, "math", 2)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "B", ranked[0].DisplayName)
	assert.Equal(t, "A", ranked[1].DisplayName)
}

func TestAwardPointsAndBalance(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	ctx := context.Background()
	userID := uuid.New()

	entry, err := env.service.AwardPoints(ctx, userID, 100, "Completed session")
	require.NoError(t, err)
	assert.Equal(t, domain.EntryEarned, entry.Type)

	_, err = env.service.AwardPoints(ctx, userID, 0, "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	balance, err := env.service.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 100, balance)

	history, err := env.service.PointsHistory(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRedeemRateLimit(t *testing.T) {
	env := newTestEnv(t, 2, 0)
	ctx := context.Background()
	userID := uuid.New()

	_, err := env.service.AwardPoints(ctx, userID, 100, "seed")
	require.NoError(t, err)

	reward := domain.Reward{
		ID: uuid.New(), Title: "Sticker", PointsRequired: 10,
		StockQuantity: domain.UnlimitedStock, IsActive: true,
	}
	env.store.PutReward(reward)

	_, err = env.service.Redeem(ctx, userID, reward.ID)
	require.NoError(t, err)
	_, err = env.service.Redeem(ctx, userID, reward.ID)
	require.NoError(t, err)

	// Burst exhausted: the third attempt inside the same minute is
	// rejected before any balance or stock check.
	_, err = env.service.Redeem(ctx, userID, reward.ID)
	assert.ErrorIs(t, err, domain.ErrRateLimited)

	// The limit is per user.
	otherID := uuid.New()
	_, err = env.service.AwardPoints(ctx, otherID, 100, "seed")
	require.NoError(t, err)
	_, err = env.service.Redeem(ctx, otherID, reward.ID)
	assert.NoError(t, err)
}

func TestRedeemPropagatesTypedErrors(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	ctx := context.Background()
	userID := uuid.New()

	reward := domain.Reward{
		ID: uuid.New(), Title: "Sticker", PointsRequired: 10,
		StockQuantity: domain.UnlimitedStock, IsActive: true,
	}
	env.store.PutReward(reward)

	_, err := env.service.Redeem(ctx, userID, reward.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)

	_, err = env.service.Redeem(ctx, userID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrRewardNotFound)
}

func TestVoucherLifecycleViaService(t *testing.T) {
	env := newTestEnv(t, 10, 0)
	ctx := context.Background()
	userID := uuid.New()

	_, err := env.service.AwardPoints(ctx, userID, 100, "seed")
	require.NoError(t, err)

	reward := domain.Reward{
		ID: uuid.New(), Title: "Free Session", PointsRequired: 50,
		StockQuantity: domain.UnlimitedStock, IsActive: true,
	}
	env.store.PutReward(reward)

	code, err := env.service.Redeem(ctx, userID, reward.ID)
	require.NoError(t, err)

	vouchers, err := env.service.Vouchers(ctx, userID)
	require.NoError(t, err)
	require.Len(t, vouchers, 1)
	assert.Equal(t, code, vouchers[0].VoucherCode)
	assert.Equal(t, domain.RedemptionActive, vouchers[0].Status)

	require.NoError(t, env.service.MarkVoucherUsed(ctx, code))
	assert.ErrorIs(t, env.service.MarkVoucherUsed(ctx, code), domain.ErrRedemptionFinal)
}

func TestExpirySweeperExpiresVouchers(t *testing.T) {
	env := newTestEnv(t, 10, time.Hour)
	ctx := context.Background()
	userID := uuid.New()

	_, err := env.service.AwardPoints(ctx, userID, 100, "seed")
	require.NoError(t, err)

	reward := domain.Reward{
		ID: uuid.New(), Title: "Pass", PointsRequired: 10,
		StockQuantity: domain.UnlimitedStock, ExpiryDays: 1, IsActive: true,
	}
	env.store.PutReward(reward)

	code, err := env.service.Redeem(ctx, userID, reward.ID)
	require.NoError(t, err)

	// Wait for the sweeper goroutine to register its ticker, then jump
	// past the voucher expiry.
	env.clock.BlockUntil(1)
	env.clock.Advance(25 * time.Hour)

	assert.Eventually(t, func() bool {
		red, err := env.store.GetByVoucher(ctx, code)
		return err == nil && red.Status == domain.RedemptionExpired
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServiceStopIsIdempotent(t *testing.T) {
	env := newTestEnv(t, 10, time.Hour)
	env.service.Stop()
	env.service.Stop()
}
