package reputation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorpulse/tutorpulse/internal/domain"
)

type mockFeedbackRepo struct {
	entries []domain.FeedbackEntry
	err     error
}

func (m *mockFeedbackRepo) Insert(ctx context.Context, entry *domain.FeedbackEntry) error {
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockFeedbackRepo) ListByTutor(ctx context.Context, tutorID uuid.UUID) ([]domain.FeedbackEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.FeedbackEntry
	for _, e := range m.entries {
		if e.TutorID == tutorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func rating(v int) *int { return &v }

func newTestAggregator(repo *mockFeedbackRepo) *Aggregator {
	return NewAggregator(repo, clockwork.NewFakeClock())
}

func TestRecomputeNoFeedback(t *testing.T) {
	agg := newTestAggregator(&mockFeedbackRepo{})

	summary, err := agg.Recompute(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 0.0, summary.StarAverage)
	assert.Equal(t, 0, summary.StarCount)
	assert.Equal(t, 0.0, summary.SentimentAverage)
	assert.Equal(t, 0, summary.SentimentCount)
}

func TestRecomputeStarsOnly(t *testing.T) {
	tutorID := uuid.New()
	repo := &mockFeedbackRepo{entries: []domain.FeedbackEntry{
		{TutorID: tutorID, StarRating: rating(5)},
		{TutorID: tutorID, StarRating: rating(4)},
		{TutorID: tutorID, StarRating: rating(5)},
	}}
	agg := newTestAggregator(repo)

	summary, err := agg.Recompute(context.Background(), tutorID)
	require.NoError(t, err)

	assert.Equal(t, 4.67, summary.StarAverage)
	assert.Equal(t, 3, summary.StarCount)
	assert.Equal(t, 0.0, summary.SentimentAverage)
	assert.Equal(t, 0, summary.SentimentCount)
}

func TestRecomputeIndependentAggregates(t *testing.T) {
	tutorID := uuid.New()
	repo := &mockFeedbackRepo{entries: []domain.FeedbackEntry{
		// rating without comment: star side only
		{TutorID: tutorID, StarRating: rating(5)},
		// comment without rating: sentiment side only
		{TutorID: tutorID, Comment: "amazing and very helpful!"},
		// whitespace comment is excluded entirely
		{TutorID: tutorID, Comment: "   "},
	}}
	agg := newTestAggregator(repo)

	summary, err := agg.Recompute(context.Background(), tutorID)
	require.NoError(t, err)

	assert.Equal(t, 5.0, summary.StarAverage)
	assert.Equal(t, 1, summary.StarCount)
	assert.Equal(t, 1, summary.SentimentCount)
	assert.Greater(t, summary.SentimentAverage, 3.5)
}

func TestRecomputeIgnoresOtherTutors(t *testing.T) {
	tutorID := uuid.New()
	repo := &mockFeedbackRepo{entries: []domain.FeedbackEntry{
		{TutorID: tutorID, StarRating: rating(4)},
		{TutorID: uuid.New(), StarRating: rating(1)},
	}}
	agg := newTestAggregator(repo)

	summary, err := agg.Recompute(context.Background(), tutorID)
	require.NoError(t, err)

	assert.Equal(t, 4.0, summary.StarAverage)
	assert.Equal(t, 1, summary.StarCount)
}

func TestRecomputeIdempotent(t *testing.T) {
	tutorID := uuid.New()
	repo := &mockFeedbackRepo{entries: []domain.FeedbackEntry{
		{TutorID: tutorID, StarRating: rating(3), Comment: "good but sometimes late"},
		{TutorID: tutorID, StarRating: rating(5), Comment: "excellent tutor, highly recommended!"},
	}}
	agg := newTestAggregator(repo)

	first, err := agg.Recompute(context.Background(), tutorID)
	require.NoError(t, err)
	second, err := agg.Recompute(context.Background(), tutorID)
	require.NoError(t, err)

	assert.Equal(t, first.StarAverage, second.StarAverage)
	assert.Equal(t, first.StarCount, second.StarCount)
	assert.Equal(t, first.SentimentAverage, second.SentimentAverage)
	assert.Equal(t, first.SentimentCount, second.SentimentCount)
}

func TestRecomputeReadFailure(t *testing.T) {
	repo := &mockFeedbackRepo{err: errors.New("connection reset")}
	agg := newTestAggregator(repo)

	summary, err := agg.Recompute(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrSummaryUnavailable)
	assert.Nil(t, summary)
}
