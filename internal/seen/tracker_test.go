package seen_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techquest/techquest-backend/internal/seen"
)

// memStore is an in-memory seen.Store for tests.
type memStore struct {
	data   map[string]string
	getErr error
	setErr error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.data[key], nil
}

func (m *memStore) Set(_ context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *memStore) Clear(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("absent key is an empty set", func(t *testing.T) {
		tracker := seen.NewTracker(newMemStore(), zerolog.Nop())
		ids, err := tracker.Load(ctx, "client-1")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("corrupt payload is treated as empty, not an error", func(t *testing.T) {
		store := newMemStore()
		store.data["seen:client-1"] = "{not json"

		tracker := seen.NewTracker(store, zerolog.Nop())
		ids, err := tracker.Load(ctx, "client-1")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		store := newMemStore()
		store.getErr = errors.New("connection refused")

		tracker := seen.NewTracker(store, zerolog.Nop())
		_, err := tracker.Load(ctx, "client-1")
		assert.Error(t, err)
	})
}

func TestUnion(t *testing.T) {
	ctx := context.Background()

	t.Run("merges and deduplicates", func(t *testing.T) {
		store := newMemStore()
		tracker := seen.NewTracker(store, zerolog.Nop())

		require.NoError(t, tracker.Union(ctx, "client-1", []string{"a", "b"}))
		require.NoError(t, tracker.Union(ctx, "client-1", []string{"b", "c"}))

		ids, err := tracker.Load(ctx, "client-1")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a", "b", "c"}, ids)
	})

	t.Run("idempotent", func(t *testing.T) {
		store := newMemStore()
		tracker := seen.NewTracker(store, zerolog.Nop())

		require.NoError(t, tracker.Union(ctx, "client-1", []string{"a", "b"}))
		first := store.data["seen:client-1"]

		require.NoError(t, tracker.Union(ctx, "client-1", []string{"a", "b"}))
		assert.Equal(t, first, store.data["seen:client-1"])
	})

	t.Run("clients are isolated", func(t *testing.T) {
		store := newMemStore()
		tracker := seen.NewTracker(store, zerolog.Nop())

		require.NoError(t, tracker.Union(ctx, "client-1", []string{"a"}))
		require.NoError(t, tracker.Union(ctx, "client-2", []string{"b"}))

		ids, err := tracker.Load(ctx, "client-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, ids)
	})
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	tracker := seen.NewTracker(store, zerolog.Nop())

	require.NoError(t, tracker.Union(ctx, "client-1", []string{"a", "b"}))
	require.NoError(t, tracker.Reset(ctx, "client-1"))

	ids, err := tracker.Load(ctx, "client-1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestResetIfExhausted(t *testing.T) {
	tests := []struct {
		name    string
		fetched int
		seen    []string
		want    bool
	}{
		{"empty fetch with history", 0, []string{"a"}, true},
		{"empty fetch without history", 0, nil, false},
		{"empty fetch with empty history", 0, []string{}, false},
		{"non-empty fetch with history", 3, []string{"a"}, false},
		{"non-empty fetch without history", 3, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, seen.ResetIfExhausted(tt.fetched, tt.seen))
		})
	}
}
