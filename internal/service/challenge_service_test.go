package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techquest/techquest-backend/internal/model"
	"github.com/techquest/techquest-backend/internal/repository"
	"github.com/techquest/techquest-backend/internal/service"
	ws "github.com/techquest/techquest-backend/internal/websocket"
)

// fakeStore is an in-memory service.ChallengeStore.
type fakeStore struct {
	challenges map[string]model.Challenge
	poolCounts map[model.Level]int
	listErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		challenges: make(map[string]model.Challenge),
		poolCounts: make(map[model.Level]int),
	}
}

func (f *fakeStore) ListRandom(_ context.Context, level model.Level, count int, exclude []string) ([]model.Challenge, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	excluded := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		excluded[id] = struct{}{}
	}
	var out []model.Challenge
	for _, c := range f.challenges {
		if len(out) >= count {
			break
		}
		if c.Level != level {
			continue
		}
		if c.Status != model.ChallengeStatusApproved && c.Status != "" {
			continue
		}
		if _, ok := excluded[c.ID]; ok {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) CountPool(_ context.Context, level model.Level) (int, error) {
	return f.poolCounts[level], nil
}

func (f *fakeStore) Create(_ context.Context, c *model.Challenge) error {
	if _, ok := f.challenges[c.ID]; ok {
		return errors.New("duplicate id")
	}
	f.challenges[c.ID] = *c
	return nil
}

func (f *fakeStore) Upsert(_ context.Context, c *model.Challenge) error {
	f.challenges[c.ID] = *c
	return nil
}

func (f *fakeStore) ListPending(_ context.Context) ([]model.Challenge, error) {
	var out []model.Challenge
	for _, c := range f.challenges {
		if c.Status == model.ChallengeStatusPending {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) Approve(_ context.Context, id string, req *model.ApproveChallengeRequest) (model.Challenge, error) {
	c, ok := f.challenges[id]
	if !ok {
		return model.Challenge{}, repository.ErrChallengeNotFound
	}
	c.Title = req.Title
	c.Description = req.Description
	c.LearningContent = req.LearningContent
	c.Concepts = req.Concepts
	c.InitialCode = req.InitialCode
	c.ExpectedCode = req.ExpectedCode
	if req.Category != "" {
		c.Category = req.Category
	}
	c.Status = model.ChallengeStatusApproved
	f.challenges[id] = c
	return c, nil
}

func (f *fakeStore) CountAll(_ context.Context) (int, error) {
	return len(f.challenges), nil
}

func (f *fakeStore) SampleOne(_ context.Context) (model.Challenge, error) {
	for _, c := range f.challenges {
		return c, nil
	}
	return model.Challenge{}, repository.ErrChallengeNotFound
}

// fakeTrigger records replenish requests.
type fakeTrigger struct {
	levels []model.Level
	err    error
}

func (f *fakeTrigger) TriggerReplenish(_ context.Context, level model.Level) error {
	f.levels = append(f.levels, level)
	return f.err
}

// fakePublisher records review events.
type fakePublisher struct {
	events []ws.ReviewEvent
}

func (f *fakePublisher) PublishReviewEvent(_ context.Context, ev ws.ReviewEvent) error {
	f.events = append(f.events, ev)
	return nil
}

// fakeGenerator returns canned challenges.
type fakeGenerator struct {
	challenges []model.Challenge
	err        error
}

func (f *fakeGenerator) GenerateChallenges(_ context.Context, level model.Level, category string, count int) ([]model.Challenge, error) {
	return f.challenges, f.err
}

func newService(store *fakeStore, trigger *fakeTrigger, publisher *fakePublisher, gen *fakeGenerator, threshold int) *service.ChallengeService {
	return service.NewChallengeService(store, trigger, publisher, gen, threshold, zerolog.Nop())
}

func approved(id string, level model.Level) model.Challenge {
	return model.Challenge{
		ID:       id,
		Level:    level,
		Title:    "Challenge " + id,
		Concepts: []string{"heap"},
		Status:   model.ChallengeStatusApproved,
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects unknown levels", func(t *testing.T) {
		svc := newService(newFakeStore(), &fakeTrigger{}, &fakePublisher{}, &fakeGenerator{}, 100)
		_, err := svc.List(ctx, "wizard", 10, nil)
		assert.ErrorIs(t, err, service.ErrInvalidLevel)
	})

	t.Run("level is normalized", func(t *testing.T) {
		store := newFakeStore()
		store.challenges["c1"] = approved("c1", model.LevelJunior)
		store.poolCounts[model.LevelJunior] = 500

		svc := newService(store, &fakeTrigger{}, &fakePublisher{}, &fakeGenerator{}, 100)
		challenges, err := svc.List(ctx, "  Junior ", 10, nil)
		require.NoError(t, err)
		assert.Len(t, challenges, 1)
	})

	t.Run("thin pool queues a replenish job", func(t *testing.T) {
		store := newFakeStore()
		store.poolCounts[model.LevelSenior] = 42
		trigger := &fakeTrigger{}

		svc := newService(store, trigger, &fakePublisher{}, &fakeGenerator{}, 100)
		_, err := svc.List(ctx, "senior", 10, nil)
		require.NoError(t, err)
		assert.Equal(t, []model.Level{model.LevelSenior}, trigger.levels)
	})

	t.Run("healthy pool does not trigger", func(t *testing.T) {
		store := newFakeStore()
		store.poolCounts[model.LevelSenior] = 100
		trigger := &fakeTrigger{}

		svc := newService(store, trigger, &fakePublisher{}, &fakeGenerator{}, 100)
		_, err := svc.List(ctx, "senior", 10, nil)
		require.NoError(t, err)
		assert.Empty(t, trigger.levels)
	})

	t.Run("trigger failure does not fail the read", func(t *testing.T) {
		store := newFakeStore()
		store.challenges["c1"] = approved("c1", model.LevelJunior)
		trigger := &fakeTrigger{err: errors.New("queue down")}

		svc := newService(store, trigger, &fakePublisher{}, &fakeGenerator{}, 100)
		challenges, err := svc.List(ctx, "junior", 10, nil)
		require.NoError(t, err)
		assert.Len(t, challenges, 1)
	})

	t.Run("excluded ids never come back", func(t *testing.T) {
		store := newFakeStore()
		store.challenges["c1"] = approved("c1", model.LevelJunior)
		store.challenges["c2"] = approved("c2", model.LevelJunior)
		store.poolCounts[model.LevelJunior] = 500

		svc := newService(store, &fakeTrigger{}, &fakePublisher{}, &fakeGenerator{}, 100)
		challenges, err := svc.List(ctx, "junior", 10, []string{"c1"})
		require.NoError(t, err)
		require.Len(t, challenges, 1)
		assert.Equal(t, "c2", challenges[0].ID)
	})
}

func TestContribute(t *testing.T) {
	ctx := context.Background()

	t.Run("enters the queue pending with defaults", func(t *testing.T) {
		store := newFakeStore()
		publisher := &fakePublisher{}
		svc := newService(store, &fakeTrigger{}, publisher, &fakeGenerator{}, 100)

		c, err := svc.Contribute(ctx, &model.ContributeRequest{
			Title:       "Explain the event loop",
			Description: "How does it work?",
			Level:       "junior",
		})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(c.ID, "user-contrib-"))
		assert.Equal(t, model.ChallengeStatusPending, c.Status)
		assert.Equal(t, service.DefaultCategory, c.Category)
		assert.Equal(t, model.ChallengeTypeExplanation, c.Type)
		assert.Equal(t, service.PendingLearningContent, c.LearningContent)
		assert.Empty(t, c.Concepts)

		// The live feed heard about it.
		require.Len(t, publisher.events, 1)
		assert.Equal(t, ws.EventContributed, publisher.events[0].Event)
		assert.Equal(t, c.ID, publisher.events[0].ChallengeID)
	})

	t.Run("pending submissions are invisible to sessions", func(t *testing.T) {
		store := newFakeStore()
		store.poolCounts[model.LevelJunior] = 500
		svc := newService(store, &fakeTrigger{}, &fakePublisher{}, &fakeGenerator{}, 100)

		_, err := svc.Contribute(ctx, &model.ContributeRequest{
			Title:       "Pending one",
			Description: "...",
			Level:       "junior",
		})
		require.NoError(t, err)

		challenges, err := svc.List(ctx, "junior", 10, nil)
		require.NoError(t, err)
		assert.Empty(t, challenges)
	})
}

func TestApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("applies edits and publishes", func(t *testing.T) {
		store := newFakeStore()
		store.challenges["p1"] = model.Challenge{
			ID:     "p1",
			Level:  model.LevelJunior,
			Title:  "Rough draft",
			Status: model.ChallengeStatusPending,
		}
		publisher := &fakePublisher{}
		svc := newService(store, &fakeTrigger{}, publisher, &fakeGenerator{}, 100)

		c, err := svc.Approve(ctx, "p1", &model.ApproveChallengeRequest{
			Title:           "Polished title",
			Description:     "Clear description",
			LearningContent: "The real material",
			Concepts:        []string{"event loop"},
		})
		require.NoError(t, err)

		assert.Equal(t, model.ChallengeStatusApproved, c.Status)
		assert.Equal(t, "Polished title", c.Title)
		assert.Equal(t, []string{"event loop"}, c.Concepts)

		require.Len(t, publisher.events, 1)
		assert.Equal(t, ws.EventApproved, publisher.events[0].Event)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc := newService(newFakeStore(), &fakeTrigger{}, &fakePublisher{}, &fakeGenerator{}, 100)
		_, err := svc.Approve(ctx, "ghost", &model.ApproveChallengeRequest{
			Title: "x", Description: "x", LearningContent: "x", Concepts: []string{"x"},
		})
		assert.ErrorIs(t, err, repository.ErrChallengeNotFound)
	})
}

func TestSeed(t *testing.T) {
	ctx := context.Background()

	t.Run("stores generated challenges", func(t *testing.T) {
		store := newFakeStore()
		gen := &fakeGenerator{challenges: []model.Challenge{
			approved("gen-1", model.LevelSenior),
			approved("gen-2", model.LevelSenior),
		}}
		svc := newService(store, &fakeTrigger{}, &fakePublisher{}, gen, 100)

		seeded, err := svc.Seed(ctx, &model.SeedRequest{Level: "senior", Count: 2})
		require.NoError(t, err)
		assert.Equal(t, 2, seeded)
		assert.Len(t, store.challenges, 2)
	})

	t.Run("generator failure surfaces", func(t *testing.T) {
		gen := &fakeGenerator{err: errors.New("model unavailable")}
		svc := newService(newFakeStore(), &fakeTrigger{}, &fakePublisher{}, gen, 100)

		_, err := svc.Seed(ctx, &model.SeedRequest{Level: "senior"})
		assert.Error(t, err)
	})
}

func TestStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("empty collection is healthy", func(t *testing.T) {
		svc := newService(newFakeStore(), &fakeTrigger{}, &fakePublisher{}, &fakeGenerator{}, 100)
		report, err := svc.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ok", report.Status)
		assert.Zero(t, report.TotalChallenges)
		assert.Nil(t, report.Sample)
	})

	t.Run("includes a sample when records exist", func(t *testing.T) {
		store := newFakeStore()
		store.challenges["c1"] = approved("c1", model.LevelJunior)
		svc := newService(store, &fakeTrigger{}, &fakePublisher{}, &fakeGenerator{}, 100)

		report, err := svc.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, report.TotalChallenges)
		require.NotNil(t, report.Sample)
		assert.Equal(t, model.LevelJunior, report.Sample.Level)
	})
}
