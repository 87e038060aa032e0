package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/tutorpulse/tutorpulse/internal/adapter/postgres"
	"github.com/tutorpulse/tutorpulse/internal/adapter/redis"
	"github.com/tutorpulse/tutorpulse/internal/app"
	"github.com/tutorpulse/tutorpulse/internal/metrics"
	"github.com/tutorpulse/tutorpulse/internal/platform/config"
	"github.com/tutorpulse/tutorpulse/internal/platform/logging"
	"github.com/tutorpulse/tutorpulse/internal/platform/version"
	"github.com/tutorpulse/tutorpulse/internal/points"
	"github.com/tutorpulse/tutorpulse/internal/reputation"
	"github.com/tutorpulse/tutorpulse/internal/rewards"
	"github.com/tutorpulse/tutorpulse/internal/server"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(ctx context.Context, cfg *config.Config) *goredis.Client {
	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(srv *server.Server, appSvc *app.Service) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		appSvc.Stop()
		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	info := version.Get()
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "build", info.String())
	metrics.BuildInfo.WithLabelValues(info.Version, info.Commit, info.BuildTime, info.GoVersion).Set(1)

	pool := setupDB(cfg)
	defer pool.Close()

	redisClient := setupRedis(context.Background(), cfg)
	defer func() { _ = redisClient.Close() }()

	// Repositories
	feedbackRepo := postgres.NewFeedbackRepo(pool)
	tutorRepo := postgres.NewTutorRepo(pool)
	ledgerRepo := postgres.NewLedgerRepo(pool)
	rewardRepo := postgres.NewRewardRepo(pool)
	redemptionStore := postgres.NewRedemptionStore(pool)
	summaryCache := redis.NewSummaryCache(redisClient, cfg.SummaryCacheTTL)

	// Domain components
	aggregator := reputation.NewAggregator(feedbackRepo, clock)
	ledger := points.NewLedger(ledgerRepo, clock)
	redeemer := rewards.NewRedeemer(rewardRepo, ledgerRepo, redemptionStore, clock)

	appSvc := app.NewService(
		feedbackRepo,
		tutorRepo,
		aggregator,
		summaryCache,
		ledger,
		redeemer,
		clock,
		cfg.RedemptionRatePerMinute,
		cfg.VoucherExpirySweepInterval,
	)

	srv := server.NewServer(cfg, appSvc, pool, redisClient)

	done := runGracefulShutdown(srv, appSvc)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
