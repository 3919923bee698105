package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techquest/techquest-backend/internal/model"
	"github.com/techquest/techquest-backend/internal/repository"
	"github.com/techquest/techquest-backend/internal/seen"
	"github.com/techquest/techquest-backend/internal/service"
	"github.com/techquest/techquest-backend/internal/session"
)

// fakeSource serves scripted batches: one result per call, in order.
// The last script entry repeats once the script runs out.
type fakeSource struct {
	batches [][]model.Challenge
	errs    []error
	calls   []fetchCall
}

type fetchCall struct {
	level   string
	exclude []string
}

func (f *fakeSource) List(_ context.Context, level string, count int, exclude []string) ([]model.Challenge, error) {
	f.calls = append(f.calls, fetchCall{level: level, exclude: exclude})
	i := len(f.calls) - 1
	if i >= len(f.batches) {
		i = len(f.batches) - 1
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return f.batches[i], err
}

// fakeSessionStore is an in-memory service.SessionStore.
type fakeSessionStore struct {
	sessions map[string]session.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]session.Session)}
}

func (f *fakeSessionStore) Save(_ context.Context, sess *session.Session) error {
	f.sessions[sess.ID] = *sess
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, id string) (*session.Session, error) {
	sess, ok := f.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return &sess, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

// memKV is an in-memory seen.Store.
type memKV struct {
	data map[string]string
}

func newMemKV() *memKV { return &memKV{data: make(map[string]string)} }

func (m *memKV) Get(_ context.Context, key string) (string, error) { return m.data[key], nil }
func (m *memKV) Set(_ context.Context, key, value string) error {
	m.data[key] = value
	return nil
}
func (m *memKV) Clear(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func newSessionService(source *fakeSource, store *fakeSessionStore, kv *memKV) (*service.SessionService, *seen.Tracker) {
	tracker := seen.NewTracker(kv, zerolog.Nop())
	return service.NewSessionService(source, store, tracker, zerolog.Nop()), tracker
}

func batch(ids ...string) []model.Challenge {
	out := make([]model.Challenge, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Challenge{
			ID:       id,
			Level:    model.LevelJunior,
			Title:    "Challenge " + id,
			Concepts: []string{"heap"},
		})
	}
	return out
}

func TestStart(t *testing.T) {
	ctx := context.Background()

	t.Run("begins with a fresh batch", func(t *testing.T) {
		source := &fakeSource{batches: [][]model.Challenge{batch("a", "b")}}
		store := newFakeSessionStore()
		svc, _ := newSessionService(source, store, newMemKV())

		sess, err := svc.Start(ctx, "client-1", "junior", 2)
		require.NoError(t, err)

		assert.Equal(t, session.StateInProgress, sess.State)
		assert.Len(t, sess.Challenges, 2)
		assert.Contains(t, store.sessions, sess.ID)
	})

	t.Run("rejects unknown levels", func(t *testing.T) {
		svc, _ := newSessionService(&fakeSource{batches: [][]model.Challenge{nil}}, newFakeSessionStore(), newMemKV())
		_, err := svc.Start(ctx, "client-1", "wizard", 2)
		assert.ErrorIs(t, err, service.ErrInvalidLevel)
	})

	t.Run("seen ids are excluded from the fetch", func(t *testing.T) {
		source := &fakeSource{batches: [][]model.Challenge{batch("c")}}
		svc, tracker := newSessionService(source, newFakeSessionStore(), newMemKV())
		require.NoError(t, tracker.Union(ctx, "client-1", []string{"a", "b"}))

		_, err := svc.Start(ctx, "client-1", "junior", 2)
		require.NoError(t, err)

		require.Len(t, source.calls, 1)
		assert.ElementsMatch(t, []string{"a", "b"}, source.calls[0].exclude)
	})

	t.Run("exhausted pool resets history and retries once", func(t *testing.T) {
		// First (filtered) fetch comes back empty, second (unfiltered) succeeds.
		source := &fakeSource{batches: [][]model.Challenge{nil, batch("a", "b")}}
		kv := newMemKV()
		svc, tracker := newSessionService(source, newFakeSessionStore(), kv)
		require.NoError(t, tracker.Union(ctx, "client-1", []string{"a", "b"}))

		sess, err := svc.Start(ctx, "client-1", "junior", 2)
		require.NoError(t, err)

		assert.Equal(t, session.StateInProgress, sess.State)
		require.Len(t, source.calls, 2)
		assert.Empty(t, source.calls[1].exclude)

		// History is gone.
		ids, err := tracker.Load(ctx, "client-1")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("still empty after reset lands in Empty, unpersisted", func(t *testing.T) {
		source := &fakeSource{batches: [][]model.Challenge{nil, nil}}
		store := newFakeSessionStore()
		svc, tracker := newSessionService(source, store, newMemKV())
		require.NoError(t, tracker.Union(ctx, "client-1", []string{"a"}))

		sess, err := svc.Start(ctx, "client-1", "junior", 2)
		require.NoError(t, err)

		assert.Equal(t, session.StateEmpty, sess.State)
		assert.Len(t, source.calls, 2) // exactly one retry
		assert.Empty(t, store.sessions)
	})

	t.Run("no history means no reset attempt", func(t *testing.T) {
		source := &fakeSource{batches: [][]model.Challenge{nil}}
		svc, _ := newSessionService(source, newFakeSessionStore(), newMemKV())

		sess, err := svc.Start(ctx, "client-1", "junior", 2)
		require.NoError(t, err)

		assert.Equal(t, session.StateEmpty, sess.State)
		assert.Len(t, source.calls, 1)
	})

	t.Run("fetch failure degrades to an empty session", func(t *testing.T) {
		source := &fakeSource{
			batches: [][]model.Challenge{nil},
			errs:    []error{errors.New("database down")},
		}
		svc, _ := newSessionService(source, newFakeSessionStore(), newMemKV())

		sess, err := svc.Start(ctx, "client-1", "junior", 2)
		require.NoError(t, err)
		assert.Equal(t, session.StateEmpty, sess.State)
	})
}

func TestAdvanceSession(t *testing.T) {
	ctx := context.Background()

	t.Run("finishing folds shown ids into the seen-set", func(t *testing.T) {
		source := &fakeSource{batches: [][]model.Challenge{batch("a", "b")}}
		kv := newMemKV()
		svc, tracker := newSessionService(source, newFakeSessionStore(), kv)

		sess, err := svc.Start(ctx, "client-1", "junior", 2)
		require.NoError(t, err)

		_, err = svc.Advance(ctx, sess.ID, "the heap")
		require.NoError(t, err)

		// Not finished yet: nothing recorded.
		ids, err := tracker.Load(ctx, "client-1")
		require.NoError(t, err)
		assert.Empty(t, ids)

		final, err := svc.Advance(ctx, sess.ID, "the heap again")
		require.NoError(t, err)
		assert.Equal(t, session.StateFinished, final.State)
		assert.Equal(t, 100, final.TotalScore)

		ids, err = tracker.Load(ctx, "client-1")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a", "b"}, ids)
	})

	t.Run("finished session stays retrievable", func(t *testing.T) {
		source := &fakeSource{batches: [][]model.Challenge{batch("a")}}
		svc, _ := newSessionService(source, newFakeSessionStore(), newMemKV())

		sess, err := svc.Start(ctx, "client-1", "junior", 1)
		require.NoError(t, err)

		_, err = svc.Advance(ctx, sess.ID, "heap")
		require.NoError(t, err)

		got, err := svc.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, session.StateFinished, got.State)
	})

	t.Run("unknown session", func(t *testing.T) {
		svc, _ := newSessionService(&fakeSource{batches: [][]model.Challenge{nil}}, newFakeSessionStore(), newMemKV())
		_, err := svc.Advance(ctx, "ghost", "answer")
		assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	})

	t.Run("advancing a finished session is a conflict", func(t *testing.T) {
		source := &fakeSource{batches: [][]model.Challenge{batch("a")}}
		svc, _ := newSessionService(source, newFakeSessionStore(), newMemKV())

		sess, err := svc.Start(ctx, "client-1", "junior", 1)
		require.NoError(t, err)

		_, err = svc.Advance(ctx, sess.ID, "heap")
		require.NoError(t, err)

		_, err = svc.Advance(ctx, sess.ID, "again")
		assert.ErrorIs(t, err, session.ErrNotInProgress)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("discards without touching the seen-set", func(t *testing.T) {
		source := &fakeSource{batches: [][]model.Challenge{batch("a", "b")}}
		store := newFakeSessionStore()
		svc, tracker := newSessionService(source, store, newMemKV())

		sess, err := svc.Start(ctx, "client-1", "junior", 2)
		require.NoError(t, err)

		_, err = svc.Advance(ctx, sess.ID, "halfway there")
		require.NoError(t, err)

		require.NoError(t, svc.Cancel(ctx, sess.ID))

		_, err = svc.Get(ctx, sess.ID)
		assert.ErrorIs(t, err, repository.ErrSessionNotFound)

		ids, err := tracker.Load(ctx, "client-1")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("cancelling twice is harmless", func(t *testing.T) {
		svc, _ := newSessionService(&fakeSource{batches: [][]model.Challenge{nil}}, newFakeSessionStore(), newMemKV())
		assert.NoError(t, svc.Cancel(ctx, "ghost"))
	})
}
