package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/techquest/techquest-backend/internal/config"
	"github.com/techquest/techquest-backend/internal/genai"
	"github.com/techquest/techquest-backend/internal/model"
	"github.com/techquest/techquest-backend/internal/repository"
)

const (
	ReplenishPollTimeout = 1 * time.Second
	// ReplenishLockTTL bounds how long a level's in-flight lock can
	// outlive a crashed generation attempt.
	ReplenishLockTTL = 2 * time.Minute
)

// ReplenishJob is the queue payload produced by the Enqueuer and consumed
// by the ReplenishWorker.
type ReplenishJob struct {
	Level    model.Level `json:"level"`
	Category string      `json:"category,omitempty"`
	Count    int         `json:"count"`
}

// ReplenishWorker drains the replenish queue and tops up thin challenge
// pools from the generative model. Every failure is logged and swallowed:
// replenishment is best-effort and the next low-pool read re-triggers it.
type ReplenishWorker struct {
	rdb       *redis.Client
	repo      *repository.ChallengeRepository
	generator genai.Generator
	log       zerolog.Logger
}

// NewReplenishWorker creates a ReplenishWorker.
func NewReplenishWorker(rdb *redis.Client, repo *repository.ChallengeRepository, generator genai.Generator, log zerolog.Logger) *ReplenishWorker {
	return &ReplenishWorker{
		rdb:       rdb,
		repo:      repo,
		generator: generator,
		log:       log.With().Str("component", "replenish_worker").Logger(),
	}
}

// Start runs the consume loop until ctx is cancelled.
func (w *ReplenishWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ReplenishWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested")
			return

		default:
			item, err := w.rdb.BLPop(ctx, ReplenishPollTimeout, config.WorkerKey.ReplenishQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var job ReplenishJob
			if err := json.Unmarshal([]byte(item[1]), &job); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			w.process(ctx, &job)
		}
	}
}

// process runs one replenish job under the per-level in-flight lock.
// Overlapping triggers for the same level collapse into a single
// generation call; losers of the SETNX race simply drop their job.
func (w *ReplenishWorker) process(ctx context.Context, job *ReplenishJob) {
	lockKey := config.CacheKey.ReplenishLockKey(string(job.Level))

	acquired, err := w.rdb.SetNX(ctx, lockKey, "1", ReplenishLockTTL).Result()
	if err != nil {
		w.log.Error().Err(err).Str("level", string(job.Level)).Msg("Lock acquisition failed")
		return
	}
	if !acquired {
		w.log.Debug().Str("level", string(job.Level)).Msg("Replenishment already in flight, skipping")
		return
	}
	defer w.rdb.Del(ctx, lockKey)

	w.log.Info().
		Str("level", string(job.Level)).
		Int("count", job.Count).
		Msg("Organic growth: generating more challenges")

	challenges, err := w.generator.GenerateChallenges(ctx, job.Level, job.Category, job.Count)
	if err != nil {
		w.log.Error().Err(err).Str("level", string(job.Level)).Msg("Organic seeding failed")
		return
	}

	seeded := 0
	for i := range challenges {
		if err := w.repo.Upsert(ctx, &challenges[i]); err != nil {
			w.log.Error().Err(err).Str("id", challenges[i].ID).Msg("Upsert failed")
			continue
		}
		seeded++
	}

	w.log.Info().
		Str("level", string(job.Level)).
		Int("seeded", seeded).
		Msg("Replenishment complete")
}
