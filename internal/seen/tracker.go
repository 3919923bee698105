// Package seen tracks which challenge ids a client has already been
// shown, so selection can bias away from repeats. The history lives as a
// single JSON-encoded id array under one key per client, behind an
// injected key-value store so tests can substitute an in-memory fake.
package seen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/techquest/techquest-backend/internal/config"
)

// Store is the minimal key-value contract the tracker needs. Get returns
// ("", nil) for an absent key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context, key string) error
}

// Tracker persists a per-client seen-set.
type Tracker struct {
	store Store
	log   zerolog.Logger
}

// NewTracker creates a Tracker over the given store.
func NewTracker(store Store, log zerolog.Logger) *Tracker {
	return &Tracker{
		store: store,
		log:   log.With().Str("component", "seen_tracker").Logger(),
	}
}

// Load reads the client's seen ids. An absent key yields an empty set; a
// corrupt payload is treated as empty, logged, and not an error.
func (t *Tracker) Load(ctx context.Context, clientID string) ([]string, error) {
	raw, err := t.store.Get(ctx, config.CacheKey.SeenSetKey(clientID))
	if err != nil {
		return nil, fmt.Errorf("load seen set: %w", err)
	}
	if raw == "" {
		return []string{}, nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		t.log.Warn().Str("client_id", clientID).Err(err).Msg("Corrupt seen-set payload, treating as empty")
		return []string{}, nil
	}
	return ids, nil
}

// Union persists the set union of the stored ids and newIDs. Calling it
// twice with the same ids leaves the stored set unchanged.
func (t *Tracker) Union(ctx context.Context, clientID string, newIDs []string) error {
	existing, err := t.Load(ctx, clientID)
	if err != nil {
		return err
	}

	present := make(map[string]struct{}, len(existing))
	merged := make([]string, 0, len(existing)+len(newIDs))
	for _, id := range existing {
		if _, ok := present[id]; ok {
			continue
		}
		present[id] = struct{}{}
		merged = append(merged, id)
	}
	for _, id := range newIDs {
		if _, ok := present[id]; ok {
			continue
		}
		present[id] = struct{}{}
		merged = append(merged, id)
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encode seen set: %w", err)
	}
	if err := t.store.Set(ctx, config.CacheKey.SeenSetKey(clientID), string(raw)); err != nil {
		return fmt.Errorf("persist seen set: %w", err)
	}
	return nil
}

// Reset clears the client's entire history.
func (t *Tracker) Reset(ctx context.Context, clientID string) error {
	if err := t.store.Clear(ctx, config.CacheKey.SeenSetKey(clientID)); err != nil {
		return fmt.Errorf("reset seen set: %w", err)
	}
	t.log.Info().Str("client_id", clientID).Msg("Seen-set history cleared")
	return nil
}

// ResetIfExhausted reports whether a full-history reset is warranted:
// the filtered fetch came back empty while the client had a non-empty
// seen-set. This is a heuristic — a transient fetch failure surfaced as
// an empty result is indistinguishable from true exhaustion here.
func ResetIfExhausted(fetchedCount int, seenIDs []string) bool {
	return fetchedCount == 0 && len(seenIDs) > 0
}
