package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/techquest/techquest-backend/internal/model"
	"github.com/techquest/techquest-backend/internal/seen"
	"github.com/techquest/techquest-backend/internal/session"
)

// ChallengeSource supplies the random challenge batches sessions run
// on. Implemented by ChallengeService.
type ChallengeSource interface {
	List(ctx context.Context, level string, count int, exclude []string) ([]model.Challenge, error)
}

// SessionStore persists in-flight sessions between requests.
// Implemented by repository.RedisSessionStore.
type SessionStore interface {
	Save(ctx context.Context, sess *session.Session) error
	Get(ctx context.Context, id string) (*session.Session, error)
	Delete(ctx context.Context, id string) error
}

// SessionService drives the practice-session lifecycle around the pure
// sequencer: loading a batch biased away from the client's history,
// persisting state between advances, and folding finished sessions back
// into the seen-set.
type SessionService struct {
	source  ChallengeSource
	store   SessionStore
	tracker *seen.Tracker
	log     zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(source ChallengeSource, store SessionStore, tracker *seen.Tracker, log zerolog.Logger) *SessionService {
	return &SessionService{
		source:  source,
		store:   store,
		tracker: tracker,
		log:     log.With().Str("component", "session_service").Logger(),
	}
}

// Start begins a session for the client at the given level. The fetch
// excludes everything the client has already seen; when that filter
// exhausts the pool the history is cleared and the fetch retried once
// unfiltered. A session that still gets nothing lands in the terminal
// Empty state — returned, not persisted, since there is nothing to
// resume.
func (s *SessionService) Start(ctx context.Context, clientID, rawLevel string, count int) (*session.Session, error) {
	level, err := NormalizeLevel(rawLevel)
	if err != nil {
		return nil, err
	}

	sess := session.New(uuid.New().String(), clientID, level)

	seenIDs, err := s.tracker.Load(ctx, clientID)
	if err != nil {
		s.log.Warn().Err(err).Str("client_id", clientID).Msg("Seen-set load failed, starting unbiased")
		seenIDs = []string{}
	}

	challenges := s.fetch(ctx, rawLevel, count, seenIDs)

	if seen.ResetIfExhausted(len(challenges), seenIDs) {
		s.log.Info().
			Str("client_id", clientID).
			Str("level", string(level)).
			Int("seen", len(seenIDs)).
			Msg("History exhausted the pool, resetting and retrying")

		if err := s.tracker.Reset(ctx, clientID); err != nil {
			s.log.Error().Err(err).Str("client_id", clientID).Msg("Seen-set reset failed")
		}
		challenges = s.fetch(ctx, rawLevel, count, nil)
	}

	if len(challenges) == 0 {
		sess.Abandon()
		return sess, nil
	}

	if err := sess.Begin(challenges); err != nil {
		return nil, fmt.Errorf("begin session: %w", err)
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return sess, nil
}

// fetch wraps the challenge source so a failed read degrades to an
// empty batch. The distinct log line keeps a transient outage
// distinguishable from genuine pool exhaustion in the logs, even though
// the session flow treats both the same.
func (s *SessionService) fetch(ctx context.Context, level string, count int, exclude []string) []model.Challenge {
	challenges, err := s.source.List(ctx, level, count, exclude)
	if err != nil {
		s.log.Error().Err(err).Str("level", level).Msg("Challenge fetch failed, treating as empty result")
		return nil
	}
	return challenges
}

// Advance records the user's answer to the current challenge and steps
// the session forward. When the final answer lands, the whole batch is
// scored and the shown challenge ids join the client's seen-set.
func (s *SessionService) Advance(ctx context.Context, id, userInput string) (*session.Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	finished, err := sess.Advance(userInput)
	if err != nil {
		return nil, err
	}

	if finished {
		if err := s.tracker.Union(ctx, sess.ClientID, sess.ShownIDs()); err != nil {
			s.log.Warn().Err(err).Str("client_id", sess.ClientID).Msg("Seen-set update failed")
		}
	}

	// Finished sessions stay retrievable until the TTL expires.
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return sess, nil
}

// Get loads a session by id.
func (s *SessionService) Get(ctx context.Context, id string) (*session.Session, error) {
	return s.store.Get(ctx, id)
}

// Cancel discards a session. The seen-set is untouched: an abandoned
// run records nothing, so those challenges can come around again.
func (s *SessionService) Cancel(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
