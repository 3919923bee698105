// Package scoring implements the concept matcher: a deterministic,
// side-effect-free scorer that checks a free-text answer for the
// presence of expected concept keywords.
package scoring

import (
	"math"
	"strings"
)

// Feedback tiers, keyed off the rounded score.
const (
	FeedbackExcellent   = "Excellent! You covered all the key concepts."
	FeedbackGood        = "Good job, but you missed a few key nuances."
	FeedbackNeedsReview = "You might want to review the learning material. Some core concepts were missing."
)

// Verification is the outcome of scoring one answer. MatchedConcepts and
// MissingConcepts partition the expected concepts exactly: disjoint, and
// their union is the expected set.
type Verification struct {
	Score           int      `json:"score"` // 0–100, rounded
	MatchedConcepts []string `json:"matched_concepts"`
	MissingConcepts []string `json:"missing_concepts"`
	Feedback        string   `json:"feedback"`
}

// Verify scores userInput against the expected concept keywords. A concept
// counts as matched when the lowercased input contains the lowercased
// concept as a contiguous substring; repeated occurrences count once.
//
// An empty concept list scores 100 with both sets empty — "all" concepts
// are trivially present, which keeps the score arithmetic defined.
func Verify(userInput string, expectedConcepts []string) Verification {
	matched := make([]string, 0, len(expectedConcepts))
	missing := make([]string, 0, len(expectedConcepts))

	if len(expectedConcepts) == 0 {
		return Verification{
			Score:           100,
			MatchedConcepts: matched,
			MissingConcepts: missing,
			Feedback:        FeedbackExcellent,
		}
	}

	inputLower := strings.ToLower(userInput)
	for _, concept := range expectedConcepts {
		if strings.Contains(inputLower, strings.ToLower(concept)) {
			matched = append(matched, concept)
		} else {
			missing = append(missing, concept)
		}
	}

	score := int(math.Round(float64(len(matched)) / float64(len(expectedConcepts)) * 100))

	return Verification{
		Score:           score,
		MatchedConcepts: matched,
		MissingConcepts: missing,
		Feedback:        feedbackFor(score),
	}
}

// feedbackFor maps a score to its feedback tier. Exactly 60 falls into
// the "needs review" tier.
func feedbackFor(score int) string {
	switch {
	case score == 100:
		return FeedbackExcellent
	case score > 60:
		return FeedbackGood
	default:
		return FeedbackNeedsReview
	}
}
