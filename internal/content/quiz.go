package content

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// QuestionType describes how a quiz question is answered.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multipleChoice"
	QuestionTrueFalse      QuestionType = "trueFalse"
	QuestionShortAnswer    QuestionType = "shortAnswer"
	QuestionEssay          QuestionType = "essay"
)

// QuizQuestion is a single question in a quiz.
type QuizQuestion struct {
	ID   string       `json:"id"`
	Text string       `json:"question"`
	Type QuestionType `json:"type"`

	// Options are the answer choices in display order.
	Options []string `json:"options"`

	// CorrectAnswers holds indices into Options. More than one index
	// means any of them is accepted.
	CorrectAnswers []int `json:"correctAnswers"`

	Explanation string `json:"explanation,omitempty"`
	Points      int    `json:"points"`
}

// NewQuestion creates a multiple-choice question worth one point.
func NewQuestion(text string, options []string, correct ...int) QuizQuestion {
	return QuizQuestion{
		ID:             uuid.New().String(),
		Text:           text,
		Type:           QuestionMultipleChoice,
		Options:        options,
		CorrectAnswers: correct,
		Points:         1,
	}
}

// IsCorrect reports whether the selected option index is one of the
// correct answers.
func (q QuizQuestion) IsCorrect(selected int) bool {
	return slices.Contains(q.CorrectAnswers, selected)
}

// QuizData is the quiz payload.
type QuizData struct {
	Questions []QuizQuestion `json:"questions"`

	// TimeLimit is in seconds; nil means untimed.
	TimeLimit *int `json:"timeLimit,omitempty"`

	// PassingScore is the fraction (0-1) needed to pass.
	PassingScore float64 `json:"passingScore"`
}

func (*QuizData) Kind() Kind { return KindQuiz }
func (*QuizData) isPayload() {}

// TotalPoints sums the point values of every question.
func (q *QuizData) TotalPoints() int {
	total := 0
	for _, qq := range q.Questions {
		total += qq.Points
	}
	return total
}

// Passed reports whether score meets the passing threshold.
func (q *QuizData) Passed(score float64) bool {
	return score >= q.PassingScore
}

// Validate checks that every question is answerable.
func (q *QuizData) Validate() error {
	if len(q.Questions) == 0 {
		return errors.New("quiz has no questions")
	}
	if q.PassingScore < 0 || q.PassingScore > 1 {
		return fmt.Errorf("passing score %.2f out of range [0,1]", q.PassingScore)
	}
	seen := make(map[string]bool, len(q.Questions))
	for i, qq := range q.Questions {
		if qq.ID == "" {
			return fmt.Errorf("question %d: missing id", i+1)
		}
		if seen[qq.ID] {
			return fmt.Errorf("question %d: duplicate id %q", i+1, qq.ID)
		}
		seen[qq.ID] = true
		if qq.Text == "" {
			return fmt.Errorf("question %d: empty text", i+1)
		}
		if qq.Points <= 0 {
			return fmt.Errorf("question %d: points must be positive", i+1)
		}
		switch qq.Type {
		case QuestionMultipleChoice, QuestionTrueFalse:
			if len(qq.Options) < 2 {
				return fmt.Errorf("question %d: needs at least 2 options", i+1)
			}
			if len(qq.CorrectAnswers) == 0 {
				return fmt.Errorf("question %d: no correct answer", i+1)
			}
		case QuestionShortAnswer, QuestionEssay:
		default:
			return fmt.Errorf("question %d: unknown type %q", i+1, qq.Type)
		}
		for _, idx := range qq.CorrectAnswers {
			if idx < 0 || idx >= len(qq.Options) {
				return fmt.Errorf("question %d: correct answer %d out of range", i+1, idx)
			}
		}
	}
	return nil
}
