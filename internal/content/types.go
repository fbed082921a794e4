package content

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind identifies which structured payload a generated item carries.
type Kind string

const (
	KindQuiz        Kind = "quiz"
	KindFlashcards  Kind = "flashcards"
	KindSummary     Kind = "summary"
	KindExplanation Kind = "explanation"
	KindExercise    Kind = "exercise"
	KindMindMap     Kind = "mindMap"
)

// Kinds lists every content kind in display order.
var Kinds = []Kind{KindQuiz, KindFlashcards, KindSummary, KindExplanation, KindExercise, KindMindMap}

// HasPayload reports whether items of this kind carry a modeled payload.
// Exercises and mind maps exist in the catalogue but have no payload yet.
func (k Kind) HasPayload() bool {
	switch k {
	case KindQuiz, KindFlashcards, KindSummary, KindExplanation:
		return true
	}
	return false
}

// Playable reports whether a study player exists for this kind.
func (k Kind) Playable() bool {
	return k == KindQuiz || k == KindFlashcards
}

// DisplayName returns the human-readable label for the kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindQuiz:
		return "Quiz"
	case KindFlashcards:
		return "Flashcards"
	case KindSummary:
		return "Summary"
	case KindExplanation:
		return "Explanation"
	case KindExercise:
		return "Exercise"
	case KindMindMap:
		return "Mind Map"
	}
	return string(k)
}

// ParseKind converts a raw string into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown content kind: %q", s)
}

// Difficulty is the intended learner level of a generated item.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

// ParseDifficulty converts a raw string into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyExpert:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty: %q", s)
}

// ErrKindMismatch is returned when an item's payload does not match its kind.
var ErrKindMismatch = errors.New("content payload does not match content kind")

// UsageStats are the only mutable part of a GeneratedContentItem. They are
// updated after every study session that references the item.
type UsageStats struct {
	TimesUsed    int        `json:"timesUsed"`
	ScoredUses   int        `json:"scoredUses"`
	AverageScore *float64   `json:"averageScore,omitempty"`
	LastUsedAt   *time.Time `json:"lastUsedAt,omitempty"`
}

// GeneratedContentItem is one generated learning artifact.
type GeneratedContentItem struct {
	ID                string        `json:"id"`
	Kind              Kind          `json:"type"`
	Title             string        `json:"title"`
	DocumentID        string        `json:"sourceDocumentId"`
	SourcePage        *int          `json:"sourcePage,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
	Difficulty        Difficulty    `json:"difficulty"`
	EstimatedDuration time.Duration `json:"estimatedDuration"`
	Tags              []string      `json:"tags"`
	Usage             UsageStats    `json:"usage"`
	Data              *ContentData  `json:"content,omitempty"`
}

// NewItem creates an item with a fresh id. The payload must match kind.
func NewItem(kind Kind, title, documentID string, data *ContentData, createdAt time.Time) (*GeneratedContentItem, error) {
	item := &GeneratedContentItem{
		ID:         uuid.New().String(),
		Kind:       kind,
		Title:      title,
		DocumentID: documentID,
		CreatedAt:  createdAt,
		Difficulty: DifficultyIntermediate,
		Data:       data,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate checks the kind/payload invariant.
func (it *GeneratedContentItem) Validate() error {
	if _, err := ParseKind(string(it.Kind)); err != nil {
		return err
	}
	if !it.Kind.HasPayload() {
		if it.Data != nil {
			return fmt.Errorf("%w: %s items carry no payload", ErrKindMismatch, it.Kind)
		}
		return nil
	}
	if it.Data == nil || it.Data.Payload() == nil {
		return fmt.Errorf("%w: %s item has no payload", ErrKindMismatch, it.Kind)
	}
	if got := it.Data.Kind(); got != it.Kind {
		return fmt.Errorf("%w: item is %s, payload is %s", ErrKindMismatch, it.Kind, got)
	}
	return nil
}

// RecordUsage folds one finished session into the usage statistics.
// AverageScore is the running mean over scored sessions only.
func (it *GeneratedContentItem) RecordUsage(score *float64, at time.Time) {
	it.Usage.TimesUsed++
	if score != nil {
		prev := 0.0
		if it.Usage.AverageScore != nil {
			prev = *it.Usage.AverageScore
		}
		n := float64(it.Usage.ScoredUses)
		avg := (prev*n + *score) / (n + 1)
		it.Usage.AverageScore = &avg
		it.Usage.ScoredUses++
	}
	it.Usage.LastUsedAt = &at
}
