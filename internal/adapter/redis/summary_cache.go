package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/tutorpulse/tutorpulse/internal/domain"
	"github.com/tutorpulse/tutorpulse/internal/metrics"
)

var _ domain.SummaryCache = (*SummaryCache)(nil)

// SummaryCache caches reputation summaries as JSON with a TTL. Reads
// degrade to misses when Redis is unavailable, so callers recompute
// instead of failing; only Set and Invalidate surface errors.
type SummaryCache struct {
	rdb goredis.Cmdable
	ttl time.Duration
}

func NewSummaryCache(rdb goredis.Cmdable, ttl time.Duration) *SummaryCache {
	return &SummaryCache{rdb: rdb, ttl: ttl}
}

func summaryKey(tutorID uuid.UUID) string {
	return "reputation:summary:" + tutorID.String()
}

// Get returns (nil, nil) on a miss, including degraded reads.
func (c *SummaryCache) Get(ctx context.Context, tutorID uuid.UUID) (*domain.ReputationSummary, error) {
	data, err := c.rdb.Get(ctx, summaryKey(tutorID)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			slog.Warn("Summary cache read failed, treating as miss", "tutor_id", tutorID, "error", err)
		}
		metrics.SummaryCacheMisses.Inc()
		return nil, nil
	}

	var summary domain.ReputationSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		slog.Warn("Summary cache entry corrupt, treating as miss", "tutor_id", tutorID, "error", err)
		metrics.SummaryCacheMisses.Inc()
		return nil, nil
	}

	metrics.SummaryCacheHits.Inc()
	return &summary, nil
}

func (c *SummaryCache) Set(ctx context.Context, summary *domain.ReputationSummary) error {
	encoded, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := c.rdb.Set(ctx, summaryKey(summary.TutorID), encoded, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write summary cache: %w", err)
	}
	return nil
}

func (c *SummaryCache) Invalidate(ctx context.Context, tutorID uuid.UUID) error {
	if err := c.rdb.Del(ctx, summaryKey(tutorID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate summary cache: %w", err)
	}
	return nil
}
