// Package generate turns imported documents into quizzes, flashcard decks,
// summaries and explanations using an LLM provider.
package generate

import (
	"context"

	"github.com/optima-study/optima/internal/content"
	"github.com/optima-study/optima/internal/document"
)

// Generator produces content items from documents.
type Generator interface {
	// Generate produces one validated item. The item is not persisted.
	Generate(ctx context.Context, req Request) (*content.GeneratedContentItem, error)
}

// Request describes one generation job.
type Request struct {
	Kind     content.Kind
	Document *document.Document

	// Page restricts the source to a single 1-based page. Nil uses the
	// whole document.
	Page *int

	// Difficulty defaults to intermediate.
	Difficulty content.Difficulty

	// Count is the number of questions or cards. Ignored for text kinds.
	// Zero uses the configured default.
	Count int

	// Title overrides the title proposed by the model.
	Title string

	// Focus narrows the content to a topic within the source.
	Focus string
}
