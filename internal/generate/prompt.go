package generate

import (
	"fmt"
	"strings"

	"github.com/optima-study/optima/internal/content"
)

const baseRules = `Rules:
- Use only facts stated in the source text. Do not add outside knowledge.
- Write in the language of the source text.
- Keep wording plain and self-contained; the learner will not see the source while studying.
- Pitch the material at the requested difficulty level.`

var systemPrompts = map[content.Kind]string{
	content.KindQuiz: `You write quizzes that check understanding of study material.

` + baseRules + `
- Write exactly the requested number of questions.
- Prefer "multipleChoice" with 4 options and exactly one correct index. Use "trueFalse" with options ["True", "False"] for clear factual statements.
- Distractors must be plausible misreadings of the source, not random values.
- correct_answers holds zero-based option indices.
- Each explanation says why the answer is right in one or two sentences.`,

	content.KindFlashcards: `You write flashcards for spaced-repetition study.

` + baseRules + `
- Write exactly the requested number of cards.
- One fact per card. The front is a term or short question, the back a concise answer.
- Group cards with a short category naming the topic.`,

	content.KindSummary: `You summarize study material for review.

` + baseRules + `
- full_text is a few paragraphs covering the whole source.
- key_points are the statements a learner must remember.
- concepts lists the important terms with a one-sentence definition each.`,

	content.KindExplanation: `You explain study material to a learner who found it hard.

` + baseRules + `
- Explain the main idea step by step in full_text.
- Give concrete examples and at least one everyday analogy.
- visual_descriptions may describe diagrams that would help; leave it empty if none.`,
}

// buildUserMessage assembles the prompt for one generation request.
func buildUserMessage(req Request, source string, count int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Document: %s\n", req.Document.Name)
	if req.Page != nil {
		fmt.Fprintf(&b, "Page: %d\n", *req.Page)
	}
	fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)
	switch req.Kind {
	case content.KindQuiz:
		fmt.Fprintf(&b, "Questions: %d\n", count)
	case content.KindFlashcards:
		fmt.Fprintf(&b, "Cards: %d\n", count)
	}
	if req.Focus != "" {
		fmt.Fprintf(&b, "Focus on: %s\n", req.Focus)
	}

	b.WriteString("\nSource text:\n")
	b.WriteString(source)
	return b.String()
}
