package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/techquest/techquest-backend/internal/config"
	"github.com/techquest/techquest-backend/internal/database"
	"github.com/techquest/techquest-backend/internal/genai"
	"github.com/techquest/techquest-backend/internal/handler"
	"github.com/techquest/techquest-backend/internal/logger"
	"github.com/techquest/techquest-backend/internal/repository"
	"github.com/techquest/techquest-backend/internal/router"
	"github.com/techquest/techquest-backend/internal/seen"
	"github.com/techquest/techquest-backend/internal/service"
	"github.com/techquest/techquest-backend/internal/validator"
	"github.com/techquest/techquest-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting TechQuest Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	challengeRepo := repository.NewChallengeRepository(pool)
	blogRepo := repository.NewBlogRepository(pool)
	sessionStore := repository.NewRedisSessionStore(rdb, cfg.SessionTTL)
	seenStore := repository.NewRedisSeenStore(rdb)
	reviewFeed := repository.NewReviewFeed(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	generator := genai.NewClient(cfg, log)
	enqueuer := worker.NewEnqueuer(rdb, cfg.ReplenishBatch)
	tracker := seen.NewTracker(seenStore, log)

	authService := service.NewAuthService(cfg)
	challengeService := service.NewChallengeService(challengeRepo, enqueuer, reviewFeed, generator, cfg.ReplenishThreshold, log)
	sessionService := service.NewSessionService(challengeService, sessionStore, tracker, log)
	blogService := service.NewBlogService(blogRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Challenge: handler.NewChallengeHandler(challengeService),
		Session:   handler.NewSessionHandler(sessionService),
		Admin:     handler.NewAdminHandler(authService, challengeService),
		Blog:      handler.NewBlogHandler(blogService),
		System:    handler.NewSystemHandler(challengeService),
		WS:        handler.NewWSHandler(reviewFeed, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	replenishWorker := worker.NewReplenishWorker(rdb, challengeRepo, generator, log)
	go replenishWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
