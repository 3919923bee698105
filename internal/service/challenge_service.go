package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/techquest/techquest-backend/internal/genai"
	"github.com/techquest/techquest-backend/internal/model"
	"github.com/techquest/techquest-backend/internal/repository"
	ws "github.com/techquest/techquest-backend/internal/websocket"
)

// ErrInvalidLevel is returned when a request names an unknown level.
var ErrInvalidLevel = errors.New("invalid level")

// Defaults applied to community submissions before review.
const (
	DefaultCategory        = "General"
	PendingLearningContent = "Awaiting community or AI review."

	// DefaultFetchCount is how many challenges a list request returns
	// when the client does not ask for a specific count.
	DefaultFetchCount = 20
	// MaxFetchCount caps a single list request.
	MaxFetchCount = 50
)

// ChallengeStore is the persistence surface the service needs. The
// concrete implementation is repository.ChallengeRepository; tests
// substitute an in-memory fake.
type ChallengeStore interface {
	ListRandom(ctx context.Context, level model.Level, count int, exclude []string) ([]model.Challenge, error)
	CountPool(ctx context.Context, level model.Level) (int, error)
	Create(ctx context.Context, c *model.Challenge) error
	Upsert(ctx context.Context, c *model.Challenge) error
	ListPending(ctx context.Context) ([]model.Challenge, error)
	Approve(ctx context.Context, id string, req *model.ApproveChallengeRequest) (model.Challenge, error)
	CountAll(ctx context.Context) (int, error)
	SampleOne(ctx context.Context) (model.Challenge, error)
}

// ReplenishTrigger submits a pool top-up job for a level.
type ReplenishTrigger interface {
	TriggerReplenish(ctx context.Context, level model.Level) error
}

// ReviewPublisher broadcasts review-queue changes to live admin clients.
type ReviewPublisher interface {
	PublishReviewEvent(ctx context.Context, ev ws.ReviewEvent) error
}

// StatusReport is the health summary returned by the status endpoint.
type StatusReport struct {
	Status          string         `json:"status"`
	TotalChallenges int            `json:"total_challenges"`
	Sample          *SampleSummary `json:"sample,omitempty"`
}

// SampleSummary is a peek at one stored challenge, proving the
// collection is readable without dumping a full record.
type SampleSummary struct {
	Level model.Level `json:"level"`
	Title string      `json:"title"`
}

// ChallengeService handles the challenge catalog: serving random
// batches, accepting community contributions into the review queue,
// admin approval, and generative seeding.
type ChallengeService struct {
	store     ChallengeStore
	trigger   ReplenishTrigger
	publisher ReviewPublisher
	generator genai.Generator
	threshold int
	log       zerolog.Logger
}

// NewChallengeService creates a new ChallengeService. threshold is the
// pool size under which a background replenish job is queued.
func NewChallengeService(store ChallengeStore, trigger ReplenishTrigger, publisher ReviewPublisher, generator genai.Generator, threshold int, log zerolog.Logger) *ChallengeService {
	return &ChallengeService{
		store:     store,
		trigger:   trigger,
		publisher: publisher,
		generator: generator,
		threshold: threshold,
		log:       log.With().Str("component", "challenge_service").Logger(),
	}
}

// NormalizeLevel lowercases and validates a level string.
func NormalizeLevel(raw string) (model.Level, error) {
	level := strings.ToLower(strings.TrimSpace(raw))
	if !model.ValidLevel(level) {
		return "", ErrInvalidLevel
	}
	return model.Level(level), nil
}

// List returns up to count random approved challenges for the level,
// excluding the given ids. After a successful read it checks the pool
// size and queues a replenish job when the pool runs thin; the caller
// never waits on generation and a failed trigger only gets logged.
func (s *ChallengeService) List(ctx context.Context, rawLevel string, count int, exclude []string) ([]model.Challenge, error) {
	level, err := NormalizeLevel(rawLevel)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = DefaultFetchCount
	}
	if count > MaxFetchCount {
		count = MaxFetchCount
	}

	challenges, err := s.store.ListRandom(ctx, level, count, exclude)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}

	s.maybeReplenish(ctx, level)

	return challenges, nil
}

// maybeReplenish queues a top-up job when the level's pool is below the
// threshold. Both the count and the trigger are best-effort.
func (s *ChallengeService) maybeReplenish(ctx context.Context, level model.Level) {
	pool, err := s.store.CountPool(ctx, level)
	if err != nil {
		s.log.Warn().Err(err).Str("level", string(level)).Msg("Pool count failed, skipping replenish check")
		return
	}
	if pool >= s.threshold {
		return
	}

	s.log.Info().
		Str("level", string(level)).
		Int("pool", pool).
		Int("threshold", s.threshold).
		Msg("Pool running thin, queueing replenishment")

	if err := s.trigger.TriggerReplenish(ctx, level); err != nil {
		s.log.Error().Err(err).Str("level", string(level)).Msg("Replenish trigger failed")
	}
}

// Contribute accepts a community submission into the review queue. The
// record enters as pending with placeholder learning content and empty
// concepts; the admin fills those in at approval time.
func (s *ChallengeService) Contribute(ctx context.Context, req *model.ContributeRequest) (model.Challenge, error) {
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = DefaultCategory
	}
	challengeType := model.ChallengeType(req.Type)
	if challengeType == "" {
		challengeType = model.ChallengeTypeExplanation
	}

	c := model.Challenge{
		ID:              fmt.Sprintf("user-contrib-%d", time.Now().UnixMilli()),
		Category:        category,
		Level:           model.Level(req.Level),
		Title:           req.Title,
		Description:     req.Description,
		Type:            challengeType,
		Concepts:        []string{},
		LearningContent: PendingLearningContent,
		Status:          model.ChallengeStatusPending,
	}

	if err := s.store.Create(ctx, &c); err != nil {
		return model.Challenge{}, fmt.Errorf("create contribution: %w", err)
	}

	s.publishEvent(ctx, ws.EventContributed, c)

	return c, nil
}

// ListPending returns the review queue, oldest submission first.
func (s *ChallengeService) ListPending(ctx context.Context) ([]model.Challenge, error) {
	challenges, err := s.store.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	if challenges == nil {
		challenges = []model.Challenge{}
	}
	return challenges, nil
}

// Approve applies the admin's edits and publishes the challenge into
// the serving pool.
func (s *ChallengeService) Approve(ctx context.Context, id string, req *model.ApproveChallengeRequest) (model.Challenge, error) {
	c, err := s.store.Approve(ctx, id, req)
	if err != nil {
		return model.Challenge{}, err
	}

	s.publishEvent(ctx, ws.EventApproved, c)

	return c, nil
}

// Seed generates challenges for a level synchronously and upserts them
// as approved. Unlike the background replenish path, the admin waits for
// the outcome and failures surface in the response.
func (s *ChallengeService) Seed(ctx context.Context, req *model.SeedRequest) (int, error) {
	level, err := NormalizeLevel(req.Level)
	if err != nil {
		return 0, err
	}
	count := req.Count
	if count <= 0 {
		count = 5
	}

	challenges, err := s.generator.GenerateChallenges(ctx, level, req.Category, count)
	if err != nil {
		return 0, fmt.Errorf("generate challenges: %w", err)
	}

	seeded := 0
	for i := range challenges {
		if err := s.store.Upsert(ctx, &challenges[i]); err != nil {
			s.log.Error().Err(err).Str("id", challenges[i].ID).Msg("Upsert failed during seeding")
			continue
		}
		seeded++
	}

	if seeded == 0 && len(challenges) > 0 {
		return 0, errors.New("seeding produced challenges but none could be stored")
	}

	return seeded, nil
}

// Status reports whether the challenge collection is reachable and how
// many records it holds, with one sampled record as proof of life.
func (s *ChallengeService) Status(ctx context.Context) (StatusReport, error) {
	total, err := s.store.CountAll(ctx)
	if err != nil {
		return StatusReport{}, fmt.Errorf("count challenges: %w", err)
	}

	report := StatusReport{Status: "ok", TotalChallenges: total}

	sample, err := s.store.SampleOne(ctx)
	switch {
	case errors.Is(err, repository.ErrChallengeNotFound):
		// empty collection is still healthy
	case err != nil:
		return StatusReport{}, fmt.Errorf("sample challenge: %w", err)
	default:
		report.Sample = &SampleSummary{Level: sample.Level, Title: sample.Title}
	}

	return report, nil
}

// publishEvent broadcasts a review-queue change. Best-effort: an open
// Review Desk that misses an event just refreshes on its next poll.
func (s *ChallengeService) publishEvent(ctx context.Context, event ws.Event, c model.Challenge) {
	if s.publisher == nil {
		return
	}
	ev := ws.ReviewEvent{
		Event:       event,
		ChallengeID: c.ID,
		Title:       c.Title,
		Level:       string(c.Level),
		Category:    c.Category,
		At:          time.Now().UTC(),
	}
	if err := s.publisher.PublishReviewEvent(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("event", string(event)).Msg("Review event publish failed")
	}
}
