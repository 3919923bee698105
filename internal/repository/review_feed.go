package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/techquest/techquest-backend/internal/config"
	ws "github.com/techquest/techquest-backend/internal/websocket"
)

// ReviewFeed carries review-queue events between the challenge service
// and connected admin WebSocket clients via Redis Pub/Sub. Publishing is
// best-effort: a dropped event only means an open Review Desk misses one
// live refresh.
type ReviewFeed struct {
	rdb *redis.Client
}

// NewReviewFeed creates a ReviewFeed.
func NewReviewFeed(rdb *redis.Client) *ReviewFeed {
	return &ReviewFeed{rdb: rdb}
}

// PublishReviewEvent broadcasts an event to all subscribers.
func (f *ReviewFeed) PublishReviewEvent(ctx context.Context, ev ws.ReviewEvent) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode review event: %w", err)
	}
	return f.rdb.Publish(ctx, config.CacheKey.ReviewEventsChannel(), raw).Err()
}

// Subscribe opens a Pub/Sub subscription on the review feed. The caller
// owns the returned PubSub and must Close it.
func (f *ReviewFeed) Subscribe(ctx context.Context) *redis.PubSub {
	return f.rdb.Subscribe(ctx, config.CacheKey.ReviewEventsChannel())
}
