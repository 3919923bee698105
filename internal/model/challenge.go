package model

// Level is the difficulty tier a challenge targets.
type Level string

const (
	LevelJunior       Level = "junior"
	LevelIntermediate Level = "intermediate"
	LevelSenior       Level = "senior"
)

// ValidLevel reports whether s is a known level value.
func ValidLevel(s string) bool {
	switch Level(s) {
	case LevelJunior, LevelIntermediate, LevelSenior:
		return true
	}
	return false
}

// ChallengeType distinguishes conceptual questions from refactoring tasks.
type ChallengeType string

const (
	ChallengeTypeExplanation ChallengeType = "explanation"
	ChallengeTypeRefactor    ChallengeType = "refactor"
)

// ChallengeStatus is the review state of a challenge. Legacy records may
// carry no status at all; those are treated as approved everywhere.
type ChallengeStatus string

const (
	ChallengeStatusApproved ChallengeStatus = "approved"
	ChallengeStatusPending  ChallengeStatus = "pending"
)

// Challenge is one interview-style question record.
// InitialCode and ExpectedCode are only meaningful for refactor challenges.
type Challenge struct {
	ID              string          `json:"id"`
	Category        string          `json:"category"`
	Level           Level           `json:"level"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Type            ChallengeType   `json:"type"`
	InitialCode     string          `json:"initial_code,omitempty"`
	ExpectedCode    string          `json:"expected_code,omitempty"`
	Concepts        []string        `json:"concepts"`
	LearningContent string          `json:"learning_content"`
	Status          ChallengeStatus `json:"status,omitempty"`
}

// PublicChallenge is the client-facing view of a challenge. The review
// status is intentionally absent — session logic never sees it.
type PublicChallenge struct {
	ID              string        `json:"id"`
	Category        string        `json:"category"`
	Level           Level         `json:"level"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Type            ChallengeType `json:"type"`
	InitialCode     string        `json:"initial_code,omitempty"`
	ExpectedCode    string        `json:"expected_code,omitempty"`
	Concepts        []string      `json:"concepts"`
	LearningContent string        `json:"learning_content"`
}

// Public strips the review status from a challenge.
func (c Challenge) Public() PublicChallenge {
	return PublicChallenge{
		ID:              c.ID,
		Category:        c.Category,
		Level:           c.Level,
		Title:           c.Title,
		Description:     c.Description,
		Type:            c.Type,
		InitialCode:     c.InitialCode,
		ExpectedCode:    c.ExpectedCode,
		Concepts:        c.Concepts,
		LearningContent: c.LearningContent,
	}
}

// PublicChallenges maps a challenge slice to its public view.
func PublicChallenges(challenges []Challenge) []PublicChallenge {
	out := make([]PublicChallenge, 0, len(challenges))
	for _, c := range challenges {
		out = append(out, c.Public())
	}
	return out
}

// ContributeRequest is the payload for a community-submitted challenge.
type ContributeRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"required,min=1,max=5000"`
	Level       string `json:"level" binding:"required,oneof=junior intermediate senior"`
	Category    string `json:"category" binding:"max=100"`
	Type        string `json:"type" binding:"omitempty,oneof=explanation refactor"`
}

// ApproveChallengeRequest carries the admin's edits applied at approval time.
type ApproveChallengeRequest struct {
	Title           string   `json:"title" binding:"required,min=1,max=200"`
	Description     string   `json:"description" binding:"required,min=1,max=5000"`
	LearningContent string   `json:"learning_content" binding:"required"`
	Concepts        []string `json:"concepts" binding:"required,min=1,dive,min=1"`
	InitialCode     string   `json:"initial_code"`
	ExpectedCode    string   `json:"expected_code"`
	Category        string   `json:"category" binding:"max=100"`
}

// SeedRequest triggers synchronous generative seeding for a level.
type SeedRequest struct {
	Level    string `json:"level" binding:"required,oneof=junior intermediate senior"`
	Category string `json:"category" binding:"max=100"`
	Count    int    `json:"count" binding:"omitempty,min=1,max=20"`
}
