// Package session implements the practice-session sequencer: an ordered
// walk through a batch of challenges, collecting one free-text response
// per challenge and scoring the whole batch on completion.
//
// The sequencer is a pure state machine over the Session value. Loading
// challenges, persisting the session between requests, and recording the
// seen-set are the caller's concern (see service.SessionService).
package session

import (
	"errors"
	"fmt"
	"math"

	"github.com/techquest/techquest-backend/internal/model"
	"github.com/techquest/techquest-backend/internal/scoring"
)

// MaxChallenges caps how many challenges a single session may hold.
const MaxChallenges = 50

// State is the lifecycle phase of a session.
type State string

const (
	StateLoading    State = "loading"
	StateInProgress State = "in_progress"
	StateFinished   State = "finished"
	// StateEmpty is terminal: no challenges could be obtained even after
	// the exhaustion reset.
	StateEmpty State = "empty"
)

var (
	// ErrNotInProgress is returned when Advance is called outside the
	// in-progress state.
	ErrNotInProgress = errors.New("session is not in progress")
	// ErrNoChallenges is returned by Begin for an empty challenge list.
	ErrNoChallenges = errors.New("no challenges to begin with")
)

// Response pairs a challenge id with the user's raw answer. Evaluation is
// nil until the session finishes, then set exactly once for every response.
type Response struct {
	ChallengeID string                `json:"challenge_id"`
	UserInput   string                `json:"user_input"`
	Evaluation  *scoring.Verification `json:"evaluation,omitempty"`
}

// Session is one user's walk through a fixed batch of challenges.
// Invariant: 0 <= Cursor <= len(Challenges); Responses grows only via
// Advance and never shrinks.
type Session struct {
	ID         string            `json:"id"`
	ClientID   string            `json:"client_id"`
	Level      model.Level       `json:"level"`
	State      State             `json:"state"`
	Challenges []model.Challenge `json:"challenges"`
	Cursor     int               `json:"cursor"`
	Responses  []Response        `json:"responses"`
	TotalScore int               `json:"total_score"`
}

// New creates a session in the loading state.
func New(id, clientID string, level model.Level) *Session {
	return &Session{
		ID:       id,
		ClientID: clientID,
		Level:    level,
		State:    StateLoading,
	}
}

// Begin fixes the challenge batch and moves the session to in-progress.
// The batch is truncated to MaxChallenges; an empty batch is an error so
// the caller can run the exhaustion-reset path before giving up to Empty.
func (s *Session) Begin(challenges []model.Challenge) error {
	if len(challenges) == 0 {
		return ErrNoChallenges
	}
	if len(challenges) > MaxChallenges {
		challenges = challenges[:MaxChallenges]
	}
	s.Challenges = challenges
	s.Cursor = 0
	s.Responses = make([]Response, 0, len(challenges))
	s.State = StateInProgress
	return nil
}

// Abandon marks the session terminally empty.
func (s *Session) Abandon() {
	s.State = StateEmpty
}

// Current returns the challenge under the cursor.
func (s *Session) Current() (model.Challenge, bool) {
	if s.State != StateInProgress || s.Cursor >= len(s.Challenges) {
		return model.Challenge{}, false
	}
	return s.Challenges[s.Cursor], true
}

// Advance records userInput as the response to the current challenge and
// moves the cursor. On the last challenge the session transitions to
// Finished and every collected response is scored. Returns true once the
// session has finished.
func (s *Session) Advance(userInput string) (bool, error) {
	if s.State != StateInProgress {
		return false, ErrNotInProgress
	}

	current := s.Challenges[s.Cursor]
	s.Responses = append(s.Responses, Response{
		ChallengeID: current.ID,
		UserInput:   userInput,
	})

	if s.Cursor < len(s.Challenges)-1 {
		s.Cursor++
		return false, nil
	}

	if err := s.finish(); err != nil {
		return false, err
	}
	return true, nil
}

// finish scores every response against its own challenge's concepts and
// computes the unweighted average. A response whose challenge id does not
// resolve violates the session invariant and fails loudly.
func (s *Session) finish() error {
	byID := make(map[string]model.Challenge, len(s.Challenges))
	for _, c := range s.Challenges {
		byID[c.ID] = c
	}

	sum := 0
	for i := range s.Responses {
		c, ok := byID[s.Responses[i].ChallengeID]
		if !ok {
			return fmt.Errorf("response references unknown challenge %q", s.Responses[i].ChallengeID)
		}
		v := scoring.Verify(s.Responses[i].UserInput, c.Concepts)
		s.Responses[i].Evaluation = &v
		sum += v.Score
	}

	if len(s.Responses) > 0 {
		s.TotalScore = int(math.Round(float64(sum) / float64(len(s.Responses))))
	} else {
		s.TotalScore = 0
	}

	s.State = StateFinished
	return nil
}

// ShownIDs lists the ids of every challenge in this session's batch, in
// presentation order.
func (s *Session) ShownIDs() []string {
	ids := make([]string, 0, len(s.Challenges))
	for _, c := range s.Challenges {
		ids = append(ids, c.ID)
	}
	return ids
}
