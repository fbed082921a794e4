package generate

import (
	"github.com/optima-study/optima/internal/content"
	"github.com/optima-study/optima/internal/llm"
)

// The schemas are written for strict structured output: every property is
// required and no extra properties are allowed. Optional values are
// returned as empty strings or arrays.

var difficultyEnum = []any{"beginner", "intermediate", "advanced", "expert"}

// QuizSchema is the response shape for quiz generation.
var QuizSchema = &llm.Schema{
	Name:        "quiz-content",
	Description: "A multiple-choice quiz about the source text",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string", "description": "Short quiz title"},
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question shown to the learner",
						},
						"type": map[string]any{
							"type": "string",
							"enum": []any{"multipleChoice", "trueFalse"},
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Answer options in display order. For trueFalse exactly [\"True\", \"False\"].",
						},
						"correct_answers": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "integer", "minimum": 0},
							"description": "Zero-based indices of the correct options",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the correct answer is correct, citing the source",
						},
						"concept": map[string]any{
							"type":        "string",
							"description": "The single concept the question tests",
						},
						"points": map[string]any{"type": "integer", "minimum": 1, "maximum": 5},
					},
					"required":             []any{"question", "type", "options", "correct_answers", "explanation", "concept", "points"},
					"additionalProperties": false,
				},
			},
			"passing_score": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     1,
				"description": "Fraction of points needed to pass, usually 0.7",
			},
		},
		"required":             []any{"title", "questions", "passing_score"},
		"additionalProperties": false,
	},
}

// FlashcardsSchema is the response shape for flashcard generation.
var FlashcardsSchema = &llm.Schema{
	Name:        "flashcard-deck",
	Description: "A deck of two-sided study cards about the source text",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
			"cards": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"front":      map[string]any{"type": "string", "description": "Term or prompt"},
						"back":       map[string]any{"type": "string", "description": "Definition or answer"},
						"category":   map[string]any{"type": "string", "description": "Topic the card belongs to"},
						"difficulty": map[string]any{
							"type":        "string",
							"enum":        append([]any{""}, difficultyEnum...),
							"description": "Card level, or empty for the requested difficulty",
						},
					},
					"required":             []any{"front", "back", "category", "difficulty"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"title", "cards"},
		"additionalProperties": false,
	},
}

// SummarySchema is the response shape for summary generation.
var SummarySchema = &llm.Schema{
	Name:        "document-summary",
	Description: "A structured summary of the source text",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":     map[string]any{"type": "string"},
			"full_text": map[string]any{"type": "string", "description": "The summary in prose"},
			"key_points": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"concepts": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":       map[string]any{"type": "string"},
						"definition": map[string]any{"type": "string"},
						"importance": map[string]any{
							"type": "string",
							"enum": []any{"low", "medium", "high", "critical"},
						},
						"related_concepts": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
					"required":             []any{"name", "definition", "importance", "related_concepts"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"title", "full_text", "key_points", "concepts"},
		"additionalProperties": false,
	},
}

// ExplanationSchema is the response shape for explanation generation.
var ExplanationSchema = &llm.Schema{
	Name:        "concept-explanation",
	Description: "An explanation of the main idea of the source text",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":     map[string]any{"type": "string"},
			"full_text": map[string]any{"type": "string", "description": "The explanation in prose"},
			"examples": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"analogies": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"visual_descriptions": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Descriptions of diagrams that would help, if any",
			},
		},
		"required":             []any{"title", "full_text", "examples", "analogies", "visual_descriptions"},
		"additionalProperties": false,
	},
}

// SchemaFor returns the response schema for kind, or nil when the kind
// cannot be generated.
func SchemaFor(kind content.Kind) *llm.Schema {
	switch kind {
	case content.KindQuiz:
		return QuizSchema
	case content.KindFlashcards:
		return FlashcardsSchema
	case content.KindSummary:
		return SummarySchema
	case content.KindExplanation:
		return ExplanationSchema
	}
	return nil
}
