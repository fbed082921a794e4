package generate

import (
	"fmt"
	"strings"

	"github.com/optima-study/optima/internal/content"
)

// StructuralValidator checks that required fields are present and the
// payload is usable by the players.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(data *content.ContentData, _ Request) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...), Retryable: true}
	}

	switch p := data.Payload().(type) {
	case *content.QuizData:
		if err := p.Validate(); err != nil {
			return fail("%v", err)
		}
	case *content.FlashcardsData:
		if len(p.Cards) == 0 {
			return fail("deck has no cards")
		}
		for i, c := range p.Cards {
			if strings.TrimSpace(c.Front) == "" || strings.TrimSpace(c.Back) == "" {
				return fail("card %d: front and back are required", i+1)
			}
		}
	case *content.SummaryData:
		if strings.TrimSpace(p.Text) == "" {
			return fail("summary text is empty")
		}
	case *content.ExplanationData:
		if strings.TrimSpace(p.Text) == "" {
			return fail("explanation text is empty")
		}
	default:
		return &ValidationError{Validator: v.Name(), Message: "no payload"}
	}
	return nil
}

// CountValidator checks that quizzes and decks have the requested size.
// Models sometimes stop short on long requests; a small shortfall is
// accepted.
type CountValidator struct {
	// Tolerance is the number of missing entries accepted.
	Tolerance int
}

func (v *CountValidator) Name() string { return "count" }

func (v *CountValidator) Validate(data *content.ContentData, req Request) *ValidationError {
	if req.Count <= 0 {
		return nil
	}
	var got int
	switch p := data.Payload().(type) {
	case *content.QuizData:
		got = len(p.Questions)
	case *content.FlashcardsData:
		got = len(p.Cards)
	default:
		return nil
	}
	if got+v.Tolerance < req.Count {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("requested %d entries, got %d", req.Count, got),
			Retryable: true,
		}
	}
	return nil
}
