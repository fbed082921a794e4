package player

import (
	"fmt"
	"slices"
	"time"

	"github.com/optima-study/optima/internal/content"
	"github.com/optima-study/optima/internal/session"
)

// Quiz walks a learner through an ordered list of questions.
//
// The position only moves forward until Restart. Finish may be called
// more than once and emits a session every time.
type Quiz struct {
	title      string
	documentID string
	questions  []content.QuizQuestion
	emitter    Emitter
	opts       options

	current    int
	selections map[string]int
	enteredAt  []time.Time
	finished   bool
	startedAt  time.Time
}

// NewQuiz creates a quiz player. The start time is captured here.
// A nil emitter drops finished sessions.
func NewQuiz(questions []content.QuizQuestion, title, documentID string, emitter Emitter, opts ...Option) *Quiz {
	q := &Quiz{
		title:      title,
		documentID: documentID,
		questions:  slices.Clone(questions),
		emitter:    emitter,
		opts:       buildOptions(opts),
		selections: make(map[string]int),
		enteredAt:  make([]time.Time, len(questions)),
	}
	q.startedAt = q.opts.now()
	if len(q.enteredAt) > 0 {
		q.enteredAt[0] = q.startedAt
	}
	return q
}

func (q *Quiz) Title() string                     { return q.title }
func (q *Quiz) Questions() []content.QuizQuestion { return q.questions }
func (q *Quiz) Len() int                          { return len(q.questions) }
func (q *Quiz) CurrentIndex() int                 { return q.current }
func (q *Quiz) Finished() bool                    { return q.finished }
func (q *Quiz) StartedAt() time.Time              { return q.startedAt }

// Current returns the current question, or false when there is none.
func (q *Quiz) Current() (content.QuizQuestion, bool) {
	if q.current < 0 || q.current >= len(q.questions) {
		return content.QuizQuestion{}, false
	}
	return q.questions[q.current], true
}

// Selection returns the option selected for the question with the given id.
func (q *Quiz) Selection(questionID string) (int, bool) {
	idx, ok := q.selections[questionID]
	return idx, ok
}

// SelectOption records idx as the answer to the current question,
// replacing any earlier answer. The index is not range-checked. Answers
// are frozen once the quiz is finished.
func (q *Quiz) SelectOption(idx int) {
	if q.finished {
		return
	}
	cur, ok := q.Current()
	if !ok {
		return
	}
	q.selections[cur.ID] = idx
}

// HasAnsweredCurrent reports whether the current question has a selection.
func (q *Quiz) HasAnsweredCurrent() bool {
	cur, ok := q.Current()
	if !ok {
		return false
	}
	_, answered := q.selections[cur.ID]
	return answered
}

// Advance moves to the next question, or finishes on the last one.
func (q *Quiz) Advance() {
	if q.finished {
		return
	}
	if q.current < len(q.questions)-1 {
		q.current++
		q.enteredAt[q.current] = q.opts.now()
		return
	}
	q.Finish()
}

// Finish marks the quiz finished and emits its session.
func (q *Quiz) Finish() {
	q.finished = true
	s := q.buildSession()
	q.opts.logger.Debug("quiz finished",
		"title", q.title,
		"correct", q.CorrectCount(),
		"total", len(q.questions),
	)
	if q.emitter != nil {
		q.emitter.Emit(s)
	}
}

// Restart returns to the first question with no answers. Question order
// and the session start time are kept.
func (q *Quiz) Restart() {
	q.current = 0
	q.finished = false
	clear(q.selections)
	for i := range q.enteredAt {
		q.enteredAt[i] = time.Time{}
	}
	if len(q.enteredAt) > 0 {
		q.enteredAt[0] = q.opts.now()
	}
}

// Progress is (current+1)/total, or 0 for an empty quiz.
func (q *Quiz) Progress() float64 {
	if len(q.questions) == 0 {
		return 0
	}
	return float64(q.current+1) / float64(len(q.questions))
}

// CorrectCount returns the number of questions whose selection is correct.
func (q *Quiz) CorrectCount() int {
	n := 0
	for _, qq := range q.questions {
		if idx, ok := q.selections[qq.ID]; ok && qq.IsCorrect(idx) {
			n++
		}
	}
	return n
}

// FinalScore is the fraction of all questions answered correctly, or 0
// for an empty quiz. Unanswered questions count as wrong.
func (q *Quiz) FinalScore() float64 {
	if len(q.questions) == 0 {
		return 0
	}
	return float64(q.CorrectCount()) / float64(len(q.questions))
}

// buildSession records one scored activity per question, so the
// session's overall score equals FinalScore. An empty quiz has no scored
// activity and its session score stays nil rather than 0.
func (q *Quiz) buildSession() *session.StudySession {
	now := q.opts.now()
	s := session.New(q.documentID, session.TypeQuiz, q.startedAt)
	s.AddContentItem(q.opts.contentID)

	for i, qq := range q.questions {
		start, end := now, now
		if !q.enteredAt[i].IsZero() {
			start = q.enteredAt[i]
			if i+1 < len(q.enteredAt) && !q.enteredAt[i+1].IsZero() {
				end = q.enteredAt[i+1]
			}
		}

		act := session.NewActivity(session.ActivityQuizQuestion, start, end).
			WithContent(q.opts.contentID).
			WithConcepts(q.opts.concepts...)

		idx, answered := q.selections[qq.ID]
		switch {
		case answered && qq.IsCorrect(idx):
			act = act.WithScore(1)
		case answered:
			act = act.WithScore(0).WithErrors(session.ErrorAnalysis{
				Category:    session.ErrorIncorrect,
				Description: answerContext(qq, idx),
				Confidence:  1,
			})
			s.AddDifficulty(qq.Text)
		default:
			act = act.WithScore(0).WithErrors(session.ErrorAnalysis{
				Category:    session.ErrorUnanswered,
				Description: fmt.Sprintf("No answer for '%s'", qq.Text),
				Confidence:  1,
			})
			s.AddDifficulty(qq.Text)
		}
		s.AddActivity(act)
	}

	s.End(now)
	return s
}

// answerContext describes a wrong answer.
func answerContext(qq content.QuizQuestion, selected int) string {
	correct := make([]string, 0, len(qq.CorrectAnswers))
	for _, c := range qq.CorrectAnswers {
		correct = append(correct, optionText(qq, c))
	}
	return fmt.Sprintf("Answered %s for '%s', correct answer was %s",
		optionText(qq, selected), qq.Text, joinOr(correct))
}

func optionText(qq content.QuizQuestion, idx int) string {
	if idx < 0 || idx >= len(qq.Options) {
		return fmt.Sprintf("option %d", idx)
	}
	return fmt.Sprintf("%q", qq.Options[idx])
}

func joinOr(items []string) string {
	switch len(items) {
	case 0:
		return "(none)"
	case 1:
		return items[0]
	}
	out := items[0]
	for _, it := range items[1 : len(items)-1] {
		out += ", " + it
	}
	return out + " or " + items[len(items)-1]
}
