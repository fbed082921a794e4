package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/optima-study/optima/internal/router"
	"github.com/optima-study/optima/internal/session"
	"github.com/optima-study/optima/internal/store"
)

// stubRepo implements store.SessionRepo for testing.
type stubRepo struct {
	sessions []*session.StudySession
	err      error
	filter   store.SessionFilter
}

func (r *stubRepo) SaveSession(context.Context, *session.StudySession) error { return nil }
func (r *stubRepo) Get(context.Context, string) (*session.StudySession, error) {
	return nil, store.ErrNotFound
}
func (r *stubRepo) List(_ context.Context, f store.SessionFilter) ([]*session.StudySession, error) {
	r.filter = f
	return r.sessions, r.err
}

func ended(typ session.Type, score *float64) *session.StudySession {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s := session.New("doc-1", typ, start)
	a := session.NewActivity(session.ActivityQuizQuestion, start, start.Add(90*time.Second))
	if score != nil {
		a = a.WithScore(*score)
	}
	s.AddActivity(a)
	s.End(start.Add(90 * time.Second))
	return s
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	s.Update(s.Init()())
}

func TestHistory_ListsSessions(t *testing.T) {
	one := 1.0
	repo := &stubRepo{sessions: []*session.StudySession{
		ended(session.TypeQuiz, &one),
		ended(session.TypeFlashcards, nil),
	}}
	s := New(repo)
	load(t, s)

	if repo.filter.Limit != historyLimit {
		t.Errorf("expected limit %d, got %d", historyLimit, repo.filter.Limit)
	}
	view := s.View(100, 24)
	for _, want := range []string{"quiz", "flashcards", "1:30", "100%", "unscored"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestHistory_NavigateAndOpen(t *testing.T) {
	repo := &stubRepo{sessions: []*session.StudySession{ended(session.TypeQuiz, nil), ended(session.TypeQuiz, nil)}}
	s := New(repo)
	load(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Fatalf("expected selection clamped to 1, got %d", s.selected)
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Error("expected the session summary to be pushed")
	}
}

func TestHistory_Empty(t *testing.T) {
	s := New(&stubRepo{})
	if !strings.Contains(s.View(80, 24), "Loading") {
		t.Error("expected loading message before data arrives")
	}
	load(t, s)
	if !strings.Contains(s.View(80, 24), "No sessions yet") {
		t.Error("expected empty message")
	}
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("enter on an empty list should do nothing")
	}
}

func TestHistory_Error(t *testing.T) {
	s := New(&stubRepo{err: errors.New("disk on fire")})
	load(t, s)
	if !strings.Contains(s.View(80, 24), "disk on fire") {
		t.Error("expected error in view")
	}
}
