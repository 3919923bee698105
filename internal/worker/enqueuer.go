package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/techquest/techquest-backend/internal/config"
	"github.com/techquest/techquest-backend/internal/model"
)

// Enqueuer submits replenish jobs to the worker queue. It is the explicit
// queue-submission half of the fire-and-forget replenishment path: the
// triggering request enqueues and moves on, never waiting on generation.
type Enqueuer struct {
	rdb   *redis.Client
	batch int
}

// NewEnqueuer creates an Enqueuer. batch is the number of challenges each
// job requests from the generative model.
func NewEnqueuer(rdb *redis.Client, batch int) *Enqueuer {
	return &Enqueuer{rdb: rdb, batch: batch}
}

// TriggerReplenish queues a top-up job for the level.
func (e *Enqueuer) TriggerReplenish(ctx context.Context, level model.Level) error {
	raw, err := json.Marshal(ReplenishJob{Level: level, Count: e.batch})
	if err != nil {
		return fmt.Errorf("encode replenish job: %w", err)
	}
	return e.rdb.RPush(ctx, config.WorkerKey.ReplenishQueue, raw).Err()
}
