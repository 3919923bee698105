package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SeenSetKey returns the cache key holding a client's seen challenge ids.
// The value is a single JSON-encoded array of ids.
func (r *CacheKeyStruct) SeenSetKey(clientID string) string {
	return fmt.Sprintf("seen:%s", clientID)
}

// SessionKey returns the cache key for an in-flight practice session.
func (r *CacheKeyStruct) SessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// ReplenishLockKey returns the per-level in-flight lock key that
// de-duplicates overlapping pool replenishment triggers.
func (r *CacheKeyStruct) ReplenishLockKey(level string) string {
	return fmt.Sprintf("replenish:%s:inflight", level)
}

// ReviewEventsChannel returns the Pub/Sub channel carrying review-queue
// events (new contributions, approvals) to connected admin clients.
func (r *CacheKeyStruct) ReviewEventsChannel() string {
	return "review:events"
}

var CacheKey = NewCacheKeyStruct()
