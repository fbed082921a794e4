package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/optima-study/optima/internal/router"
	"github.com/optima-study/optima/internal/session"
)

func testSession() *session.StudySession {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s := session.New("doc-1", session.TypeQuiz, start)
	s.AddActivity(session.NewActivity(session.ActivityQuizQuestion, start, start.Add(time.Minute)).
		WithScore(1).WithConcepts("ATP"))
	s.AddActivity(session.NewActivity(session.ActivityQuizQuestion, start.Add(time.Minute), start.Add(3*time.Minute)).
		WithScore(0).WithConcepts("Ribosome").
		WithErrors(session.ErrorAnalysis{Category: session.ErrorIncorrect, Description: "Answered \"RNA\" for 'What do mitochondria produce?'"}))
	s.End(start.Add(3 * time.Minute))
	return s
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testSession())
	if s.Title() != "Session Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Session Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	view := New(testSession()).View(100, 30)

	for _, want := range []string{"Duration 3:00", "Correct: 1/2", "Score: 50%", "ATP, Ribosome", "What do mitochondria produce?"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_UnscoredSession(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s := session.New("doc-1", session.TypeFlashcards, start)
	s.AddActivity(session.NewActivity(session.ActivityFlashcardReview, start, start.Add(time.Minute)))
	s.End(start.Add(time.Minute))

	view := New(s).View(100, 30)
	if strings.Contains(view, "Score:") || strings.Contains(view, "Accuracy") {
		t.Errorf("unscored session shows a score:\n%s", view)
	}
}

func TestSummaryScreen_ManyErrorsTruncated(t *testing.T) {
	sum := &session.SessionSummary{Type: session.TypeQuiz}
	for range 8 {
		sum.Errors = append(sum.Errors, session.ErrorAnalysis{Description: "wrong"})
	}
	view := FromSummary(sum).View(100, 30)
	if !strings.Contains(view, "and 3 more") {
		t.Errorf("expected truncation note:\n%s", view)
	}
}

func TestSummaryScreen_Navigation_Enter(t *testing.T) {
	s := New(testSession())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("expected Enter to return to the library")
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(testSession())
	hints := s.KeyHints()
	if len(hints) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(hints))
	}
}
