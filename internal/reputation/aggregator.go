// Package reputation derives per-tutor reputation summaries from the
// current feedback set.
package reputation

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/tutorpulse/tutorpulse/internal/domain"
	"github.com/tutorpulse/tutorpulse/internal/metrics"
	"github.com/tutorpulse/tutorpulse/internal/sentiment"
)

// Aggregator recomputes reputation summaries. Every recompute is a full
// pass over the tutor's feedback: incremental updates would accumulate
// floating-point drift and could not handle retracted feedback.
type Aggregator struct {
	feedback domain.FeedbackRepository
	score    func(string) float64
	clock    clockwork.Clock
}

// NewAggregator creates an aggregator over the given feedback repository.
func NewAggregator(feedback domain.FeedbackRepository, clock clockwork.Clock) *Aggregator {
	return &Aggregator{
		feedback: feedback,
		score:    sentiment.Score,
		clock:    clock,
	}
}

// Recompute derives a fresh summary for the tutor. The star and sentiment
// aggregates are computed independently: ratings without comments feed
// only the star side, comments without ratings only the sentiment side.
// Tutors without qualifying feedback get zero averages and zero counts.
//
// When the feedback set cannot be read, Recompute returns
// domain.ErrSummaryUnavailable and no summary: callers keep whatever
// summary they had instead of persisting a zeroed-out one.
func (a *Aggregator) Recompute(ctx context.Context, tutorID uuid.UUID) (*domain.ReputationSummary, error) {
	entries, err := a.feedback.ListByTutor(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSummaryUnavailable, err)
	}

	var (
		starSum        float64
		starCount      int
		sentimentSum   float64
		sentimentCount int
	)

	for i := range entries {
		entry := &entries[i]

		if entry.HasRating() {
			starSum += float64(*entry.StarRating)
			starCount++
		}

		// Empty comments carry no signal and are excluded rather than
		// counted as neutral.
		if strings.TrimSpace(entry.Comment) != "" {
			start := time.Now()
			score := a.score(entry.Comment)
			metrics.SentimentScoringDuration.Observe(time.Since(start).Seconds())
			metrics.SentimentScoreDistribution.Observe(score)

			sentimentSum += score
			sentimentCount++
		}
	}

	summary := &domain.ReputationSummary{
		TutorID:    tutorID,
		ComputedAt: a.clock.Now(),
	}
	if starCount > 0 {
		summary.StarAverage = round2(starSum / float64(starCount))
		summary.StarCount = starCount
	}
	if sentimentCount > 0 {
		summary.SentimentAverage = round2(sentimentSum / float64(sentimentCount))
		summary.SentimentCount = sentimentCount
	}

	return summary, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
