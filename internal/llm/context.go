package llm

import "context"

// Purpose labels recorded with each LLM request event.
const (
	PurposeQuizGen        = "quiz-gen"
	PurposeFlashcardGen   = "flashcard-gen"
	PurposeSummaryGen     = "summary-gen"
	PurposeExplanationGen = "explanation-gen"
)

type purposeKey struct{}

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok {
		return v
	}
	return "unknown"
}
