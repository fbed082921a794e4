package content

import (
	"time"

	"github.com/google/uuid"
)

// Flashcard is a single two-sided card.
//
// LeitnerBox, NextReview, SuccessCount and FailureCount are reserved for
// spaced-repetition scheduling. Nothing in the players updates them yet.
type Flashcard struct {
	ID           string     `json:"id"`
	Front        string     `json:"front"`
	Back         string     `json:"back"`
	Category     string     `json:"category,omitempty"`
	Difficulty   Difficulty `json:"difficulty"`
	LeitnerBox   int        `json:"leitnerBox"`
	NextReview   *time.Time `json:"nextReview,omitempty"`
	SuccessCount int        `json:"successCount"`
	FailureCount int        `json:"failureCount"`
}

// NewFlashcard creates a card in the first Leitner box.
func NewFlashcard(front, back string) Flashcard {
	return Flashcard{
		ID:         uuid.New().String(),
		Front:      front,
		Back:       back,
		Difficulty: DifficultyIntermediate,
		LeitnerBox: 1,
	}
}

// FlashcardsData is the flashcard deck payload.
type FlashcardsData struct {
	Cards      []Flashcard `json:"cards"`
	Categories []string    `json:"categories"`
}

func (*FlashcardsData) Kind() Kind { return KindFlashcards }
func (*FlashcardsData) isPayload() {}

// CollectCategories rebuilds Categories from the cards, in first-seen order.
func (f *FlashcardsData) CollectCategories() {
	seen := make(map[string]bool)
	cats := make([]string, 0)
	for _, c := range f.Cards {
		if c.Category == "" || seen[c.Category] {
			continue
		}
		seen[c.Category] = true
		cats = append(cats, c.Category)
	}
	f.Categories = cats
}

// CardsIn returns the cards tagged with category.
func (f *FlashcardsData) CardsIn(category string) []Flashcard {
	var out []Flashcard
	for _, c := range f.Cards {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}
