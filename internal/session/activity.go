package session

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// ActivityType identifies what kind of atomic event an ActivityResult records.
type ActivityType string

const (
	ActivityQuizQuestion       ActivityType = "quizQuestion"
	ActivityFlashcardReview    ActivityType = "flashcardReview"
	ActivityConceptExplanation ActivityType = "conceptExplanation"
	ActivityContentGeneration  ActivityType = "contentGeneration"
	ActivityPDFReading         ActivityType = "pdfReading"
)

// ErrorCategory classifies a learner error.
type ErrorCategory string

const (
	ErrorIncorrect     ErrorCategory = "incorrect"
	ErrorUnanswered    ErrorCategory = "unanswered"
	ErrorMisconception ErrorCategory = "misconception"
)

// ErrorAnalysis describes one error the learner made during an activity.
type ErrorAnalysis struct {
	Concept     string        `json:"concept,omitempty"`
	Category    ErrorCategory `json:"category"`
	Description string        `json:"description"`
	// Confidence of the classification, 0-1.
	Confidence float64 `json:"confidence"`
}

// ActivityResult is one atomic event within a session. Values are
// immutable once built; the With methods return modified copies.
type ActivityResult struct {
	ID        string          `json:"id"`
	Type      ActivityType    `json:"type"`
	ContentID string          `json:"contentId,omitempty"`
	StartedAt time.Time       `json:"startedAt"`
	EndedAt   time.Time       `json:"endedAt"`
	Score     *float64        `json:"score,omitempty"`
	Concepts  []string        `json:"concepts"`
	Errors    []ErrorAnalysis `json:"errors"`
}

// NewActivity creates an activity spanning [start, end].
func NewActivity(typ ActivityType, start, end time.Time) ActivityResult {
	return ActivityResult{
		ID:        uuid.New().String(),
		Type:      typ,
		StartedAt: start,
		EndedAt:   end,
	}
}

// Duration is the time between start and end.
func (a ActivityResult) Duration() time.Duration {
	return a.EndedAt.Sub(a.StartedAt)
}

func (a ActivityResult) WithContent(id string) ActivityResult {
	a.ContentID = id
	return a
}

func (a ActivityResult) WithScore(score float64) ActivityResult {
	a.Score = &score
	return a
}

func (a ActivityResult) WithConcepts(concepts ...string) ActivityResult {
	a.Concepts = append(slices.Clone(a.Concepts), concepts...)
	return a
}

func (a ActivityResult) WithErrors(errs ...ErrorAnalysis) ActivityResult {
	a.Errors = append(slices.Clone(a.Errors), errs...)
	return a
}
