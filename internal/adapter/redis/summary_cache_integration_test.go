package redis

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	rediscontainer "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/tutorpulse/tutorpulse/internal/domain"
)

var (
	testRedisURL string
	redContainer testcontainers.Container
)

func TestMain(m *testing.M) {
	flag.Parse()

	// Skip container setup if running in short mode
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	var err error
	redContainer, err = rediscontainer.Run(ctx, "redis:7-alpine")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start redis container: %v\n", err)
		os.Exit(1)
	}

	endpoint, err := redContainer.Endpoint(ctx, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get redis endpoint: %v\n", err)
		os.Exit(1)
	}
	testRedisURL = "redis://" + endpoint

	defer func() {
		if err := redContainer.Terminate(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to terminate redis container: %v\n", err)
		}
	}()
	os.Exit(m.Run())
}

func setupTestClient(t *testing.T) *goredis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, testRedisURL)
	require.NoError(t, err)

	require.NoError(t, client.FlushAll(ctx).Err())
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func sampleSummary(tutorID uuid.UUID) *domain.ReputationSummary {
	return &domain.ReputationSummary{
		TutorID:          tutorID,
		StarAverage:      4.67,
		StarCount:        3,
		SentimentAverage: 4.12,
		SentimentCount:   2,
		ComputedAt:       time.Now().UTC().Truncate(time.Second),
	}
}

func TestSummaryCacheMiss(t *testing.T) {
	client := setupTestClient(t)
	cache := NewSummaryCache(client, time.Minute)

	summary, err := cache.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestSummaryCacheRoundTrip(t *testing.T) {
	client := setupTestClient(t)
	cache := NewSummaryCache(client, time.Minute)
	ctx := context.Background()

	tutorID := uuid.New()
	want := sampleSummary(tutorID)
	require.NoError(t, cache.Set(ctx, want))

	got, err := cache.Get(ctx, tutorID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.TutorID, got.TutorID)
	assert.Equal(t, want.StarAverage, got.StarAverage)
	assert.Equal(t, want.StarCount, got.StarCount)
	assert.Equal(t, want.SentimentAverage, got.SentimentAverage)
	assert.Equal(t, want.SentimentCount, got.SentimentCount)
}

func TestSummaryCacheInvalidate(t *testing.T) {
	client := setupTestClient(t)
	cache := NewSummaryCache(client, time.Minute)
	ctx := context.Background()

	tutorID := uuid.New()
	require.NoError(t, cache.Set(ctx, sampleSummary(tutorID)))
	require.NoError(t, cache.Invalidate(ctx, tutorID))

	got, err := cache.Get(ctx, tutorID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSummaryCacheExpires(t *testing.T) {
	client := setupTestClient(t)
	cache := NewSummaryCache(client, 100*time.Millisecond)
	ctx := context.Background()

	tutorID := uuid.New()
	require.NoError(t, cache.Set(ctx, sampleSummary(tutorID)))

	time.Sleep(200 * time.Millisecond)

	got, err := cache.Get(ctx, tutorID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSummaryCacheCorruptEntryIsMiss(t *testing.T) {
	client := setupTestClient(t)
	cache := NewSummaryCache(client, time.Minute)
	ctx := context.Background()

	tutorID := uuid.New()
	require.NoError(t, client.Set(ctx, "reputation:summary:"+tutorID.String(), "{not json", time.Minute).Err())

	got, err := cache.Get(ctx, tutorID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
