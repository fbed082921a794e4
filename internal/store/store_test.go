package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/optima-study/optima/internal/content"
	"github.com/optima-study/optima/internal/document"
	"github.com/optima-study/optima/internal/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func quizItem(t *testing.T, docID string) *content.GeneratedContentItem {
	t.Helper()
	quiz := &content.QuizData{
		Questions: []content.QuizQuestion{
			content.NewQuestion("Capital of France?", []string{"Paris", "Rome"}, 0),
		},
		PassingScore: 0.5,
	}
	item, err := content.NewItem(content.KindQuiz, "Geography", docID, content.NewContentData(quiz), t0)
	if err != nil {
		t.Fatalf("new item: %v", err)
	}
	item.Tags = []string{"europe"}
	return item
}

func endedSession(docID string, contentIDs []string, scores ...float64) *session.StudySession {
	s := session.New(docID, session.TypeQuiz, t0)
	for _, id := range contentIDs {
		s.AddContentItem(id)
	}
	for i, sc := range scores {
		at := t0.Add(time.Duration(i) * time.Minute)
		s.AddActivity(session.NewActivity(session.ActivityQuizQuestion, at, at.Add(time.Minute)).
			WithScore(sc).
			WithConcepts("capitals"))
	}
	s.End(t0.Add(10 * time.Minute))
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		s.Close()
	}
}

func TestDocumentSaveGetList(t *testing.T) {
	s := openTestStore(t)
	repo := s.Documents()
	ctx := context.Background()

	doc := &document.Document{
		ID:         "doc-1",
		Name:       "biology",
		Path:       "/tmp/biology.pdf",
		PageCount:  3,
		Pages:      []document.Page{{Number: 1, Text: "cells"}, {Number: 3, Text: "leaves"}},
		ImportedAt: t0,
	}
	if err := repo.Save(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	later := *doc
	later.ID, later.Name, later.ImportedAt = "doc-2", "chemistry", t0.Add(time.Hour)
	if err := repo.Save(ctx, &later); err != nil {
		t.Fatalf("save second: %v", err)
	}

	got, err := repo.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "biology" || got.PageCount != 3 || len(got.Pages) != 2 {
		t.Errorf("got %+v", got)
	}
	if got.Pages[1].Number != 3 || got.Pages[1].Text != "leaves" {
		t.Errorf("page 2 = %+v", got.Pages[1])
	}
	if !got.ImportedAt.Equal(t0) {
		t.Errorf("ImportedAt = %v, want %v", got.ImportedAt, t0)
	}

	docs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "doc-2" {
		t.Fatalf("expected newest first, got %d docs", len(docs))
	}
	if len(docs[0].Pages) != 0 {
		t.Error("list should not load page text")
	}

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get missing: err = %v, want ErrNotFound", err)
	}
}

func TestContentSaveGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.Content()
	ctx := context.Background()

	item := quizItem(t, "doc-1")
	page := 4
	item.SourcePage = &page
	item.EstimatedDuration = time.Minute
	if err := repo.Save(ctx, item); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Kind != content.KindQuiz || got.Title != "Geography" {
		t.Errorf("got %s %q", got.Kind, got.Title)
	}
	if got.SourcePage == nil || *got.SourcePage != 4 {
		t.Errorf("SourcePage = %v", got.SourcePage)
	}
	if got.EstimatedDuration != time.Minute {
		t.Errorf("EstimatedDuration = %v", got.EstimatedDuration)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "europe" {
		t.Errorf("Tags = %v", got.Tags)
	}
	quiz, ok := got.Data.Quiz()
	if !ok {
		t.Fatalf("payload is %s, want quiz", got.Data.Kind())
	}
	if len(quiz.Questions) != 1 || !quiz.Questions[0].IsCorrect(0) {
		t.Errorf("questions = %+v", quiz.Questions)
	}
	if got.Usage.TimesUsed != 0 || got.Usage.AverageScore != nil {
		t.Errorf("fresh usage = %+v", got.Usage)
	}
}

func TestContentSave_RejectsMismatchedPayload(t *testing.T) {
	s := openTestStore(t)
	item := quizItem(t, "doc-1")
	item.Kind = content.KindFlashcards

	err := s.Content().Save(context.Background(), item)
	if !errors.Is(err, content.ErrKindMismatch) {
		t.Fatalf("err = %v, want ErrKindMismatch", err)
	}
}

func TestContentSave_PayloadlessKind(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	item, err := content.NewItem(content.KindMindMap, "Overview", "doc-1", nil, t0)
	if err != nil {
		t.Fatalf("new item: %v", err)
	}
	if err := s.Content().Save(ctx, item); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Content().Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Data != nil {
		t.Errorf("expected no payload, got %s", got.Data.Kind())
	}
}

func TestContentGet_UnsupportedStoredPayload(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	item := quizItem(t, "doc-1")
	if err := s.Content().Save(ctx, item); err != nil {
		t.Fatalf("save: %v", err)
	}
	_, err := s.DB().Exec(`UPDATE content_items SET data = ? WHERE id = ?`,
		`{"type":"mindMap","data":{"nodes":[]}}`, item.ID)
	if err != nil {
		t.Fatalf("corrupt row: %v", err)
	}

	_, err = s.Content().Get(ctx, item.ID)
	if !errors.Is(err, content.ErrUnsupportedContentType) {
		t.Fatalf("err = %v, want ErrUnsupportedContentType", err)
	}
}

func TestContentList_Filters(t *testing.T) {
	s := openTestStore(t)
	repo := s.Content()
	ctx := context.Background()

	a := quizItem(t, "doc-1")
	b := quizItem(t, "doc-2")
	b.CreatedAt = t0.Add(time.Hour)
	cards, err := content.NewItem(content.KindFlashcards, "Cards", "doc-1",
		content.NewContentData(&content.FlashcardsData{
			Cards: []content.Flashcard{content.NewFlashcard("front", "back")},
		}), t0.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("new item: %v", err)
	}
	for _, it := range []*content.GeneratedContentItem{a, b, cards} {
		if err := repo.Save(ctx, it); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter ContentFilter
		want   []string
	}{
		{"all newest first", ContentFilter{}, []string{cards.ID, b.ID, a.ID}},
		{"by document", ContentFilter{DocumentID: "doc-1"}, []string{cards.ID, a.ID}},
		{"by kind", ContentFilter{Kind: content.KindQuiz}, []string{b.ID, a.ID}},
		{"limit", ContentFilter{Limit: 1}, []string{cards.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			var got []string
			for _, it := range items {
				got = append(got, it.ID)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("position %d: got %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestContentRecordUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.Content()
	ctx := context.Background()

	item := quizItem(t, "doc-1")
	if err := repo.Save(ctx, item); err != nil {
		t.Fatalf("save: %v", err)
	}

	half, full := 0.5, 1.0
	for i, score := range []*float64{&half, nil, &full} {
		if err := repo.RecordUsage(ctx, item.ID, score, t0.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("record usage #%d: %v", i, err)
		}
	}

	got, err := repo.Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Usage.TimesUsed != 3 || got.Usage.ScoredUses != 2 {
		t.Errorf("usage counts = %+v", got.Usage)
	}
	if got.Usage.AverageScore == nil || *got.Usage.AverageScore != 0.75 {
		t.Errorf("AverageScore = %v, want 0.75", got.Usage.AverageScore)
	}
	if got.Usage.LastUsedAt == nil || !got.Usage.LastUsedAt.Equal(t0.Add(2*time.Hour)) {
		t.Errorf("LastUsedAt = %v", got.Usage.LastUsedAt)
	}

	if err := repo.RecordUsage(ctx, "missing", nil, t0); !errors.Is(err, ErrNotFound) {
		t.Errorf("record usage of missing item: err = %v, want ErrNotFound", err)
	}
}

func TestSessionSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	item := quizItem(t, "doc-1")
	if err := s.Content().Save(ctx, item); err != nil {
		t.Fatalf("save item: %v", err)
	}

	sess := endedSession("doc-1", []string{item.ID, "never-stored"}, 1, 0)
	sess.Activities[1].Errors = []session.ErrorAnalysis{{
		Concept:     "capitals",
		Category:    session.ErrorIncorrect,
		Description: "Answered Rome",
		Confidence:  1,
	}}
	sess.AddDifficulty("Capital of France?")
	sess.Rate(4, "good")

	if err := s.Sessions().SaveSession(ctx, sess); err != nil {
		t.Fatalf("save session: %v", err)
	}

	got, err := s.Sessions().Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.Type != session.TypeQuiz || got.DocumentID != "doc-1" {
		t.Errorf("got %s for %s", got.Type, got.DocumentID)
	}
	if got.EndedAt == nil || !got.EndedAt.Equal(t0.Add(10*time.Minute)) {
		t.Errorf("EndedAt = %v", got.EndedAt)
	}
	if got.OverallScore == nil || *got.OverallScore != 0.5 {
		t.Errorf("OverallScore = %v, want 0.5", got.OverallScore)
	}
	if len(got.Activities) != 2 {
		t.Fatalf("activities = %d, want 2", len(got.Activities))
	}
	if *got.Activities[0].Score != 1 || *got.Activities[1].Score != 0 {
		t.Error("activities out of order")
	}
	if len(got.Activities[1].Errors) != 1 || got.Activities[1].Errors[0].Category != session.ErrorIncorrect {
		t.Errorf("errors = %+v", got.Activities[1].Errors)
	}
	if len(got.ConceptsStudied) != 1 || got.ConceptsStudied[0] != "capitals" {
		t.Errorf("concepts = %v", got.ConceptsStudied)
	}
	if len(got.Difficulties) != 1 || got.UserRating == nil || *got.UserRating != 4 || got.UserNote != "good" {
		t.Errorf("feedback = %v %v %q", got.Difficulties, got.UserRating, got.UserNote)
	}

	stored, err := s.Content().Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if stored.Usage.TimesUsed != 1 || stored.Usage.AverageScore == nil || *stored.Usage.AverageScore != 0.5 {
		t.Errorf("usage after session = %+v", stored.Usage)
	}
}

func TestSessionSave_Duplicate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sess := endedSession("doc-1", nil, 1)
	if err := s.Sessions().SaveSession(ctx, sess); err != nil {
		t.Fatalf("first save: %v", err)
	}
	err := s.Sessions().SaveSession(ctx, sess)
	if !errors.Is(err, ErrExists) {
		t.Fatalf("second save: err = %v, want ErrExists", err)
	}

	all, err := s.Sessions().List(ctx, SessionFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("stored %d sessions, want 1", len(all))
	}
}

func TestSessionSave_NotEnded(t *testing.T) {
	s := openTestStore(t)
	live := session.New("doc-1", session.TypeFlashcards, t0)
	if err := s.Sessions().SaveSession(context.Background(), live); err == nil {
		t.Fatal("expected error saving a live session")
	}
}

func TestSessionList(t *testing.T) {
	s := openTestStore(t)
	repo := s.Sessions()
	ctx := context.Background()

	first := endedSession("doc-1", nil, 1)
	second := endedSession("doc-2", nil, 0, 1)
	third := session.New("doc-1", session.TypeFlashcards, t0)
	third.AddActivity(session.NewActivity(session.ActivityFlashcardReview, t0, t0.Add(time.Second)))
	third.End(t0.Add(time.Minute))

	for _, sess := range []*session.StudySession{first, second, third} {
		if err := repo.SaveSession(ctx, sess); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	all, err := repo.List(ctx, SessionFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != third.ID || all[2].ID != first.ID {
		t.Fatal("expected most recently saved first")
	}
	if len(all[1].Activities) != 2 || len(all[0].Activities) != 1 {
		t.Error("activities not loaded per session")
	}
	if all[0].OverallScore != nil {
		t.Error("flashcard session should have no score")
	}

	byDoc, err := repo.List(ctx, SessionFilter{DocumentID: "doc-1"})
	if err != nil {
		t.Fatalf("list by doc: %v", err)
	}
	if len(byDoc) != 2 {
		t.Errorf("by doc = %d, want 2", len(byDoc))
	}

	quizzes, err := repo.List(ctx, SessionFilter{Type: session.TypeQuiz, Limit: 1})
	if err != nil {
		t.Fatalf("list by type: %v", err)
	}
	if len(quizzes) != 1 || quizzes[0].ID != second.ID {
		t.Error("expected only the latest quiz session")
	}

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get missing: err = %v, want ErrNotFound", err)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.Events()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "anthropic", Model: "m-large", Purpose: "quiz-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true},
		{Provider: "anthropic", Model: "m-large", Purpose: "quiz-gen", InputTokens: 300, OutputTokens: 150, LatencyMs: 400, Success: true},
		{Provider: "openai", Model: "m-small", Purpose: "summary-gen", InputTokens: 10, OutputTokens: 0, LatencyMs: 50, ErrorMessage: "boom"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	if all[0].Purpose != "summary-gen" || all[0].Success || all[0].ErrorMessage != "boom" {
		t.Errorf("newest = %+v", all[0])
	}
	if all[0].Sequence <= all[1].Sequence {
		t.Error("expected descending sequence")
	}

	quiz, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "quiz-gen", Limit: 1})
	if err != nil {
		t.Fatalf("query by purpose: %v", err)
	}
	if len(quiz) != 1 || quiz[0].InputTokens != 300 {
		t.Errorf("quiz events = %+v", quiz)
	}

	older, err := repo.QueryLLMEvents(ctx, QueryOpts{Before: all[0].Sequence})
	if err != nil {
		t.Fatalf("query before: %v", err)
	}
	if len(older) != 2 {
		t.Errorf("before = %d, want 2", len(older))
	}

	one, err := repo.GetLLMEvent(ctx, all[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if one.Model != "m-large" || one.OutputTokens != 50 {
		t.Errorf("get = %+v", one)
	}
	if _, err := repo.GetLLMEvent(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("get missing: err = %v, want ErrNotFound", err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("purposes = %d, want 2", len(byPurpose))
	}
	want := PurposeUsage{Purpose: "quiz-gen", Calls: 2, InputTokens: 400, OutputTokens: 200, AvgLatencyMs: 300}
	if byPurpose[0] != want {
		t.Errorf("quiz-gen usage = %+v, want %+v", byPurpose[0], want)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[1].Model != "m-small" || byModel[1].Calls != 1 {
		t.Errorf("by model = %+v", byModel)
	}
}

func TestSequenceSharedAcrossKinds(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Events().AppendLLMRequest(ctx, LLMRequestEventData{Purpose: "quiz-gen"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Sessions().SaveSession(ctx, endedSession("doc-1", nil, 1)); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := s.Events().AppendLLMRequest(ctx, LLMRequestEventData{Purpose: "quiz-gen"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := s.Events().QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if events[0].Sequence != 3 || events[1].Sequence != 1 {
		t.Errorf("sequences = %d, %d, want 3, 1", events[0].Sequence, events[1].Sequence)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("OPTIMA_DB", filepath.Join(dir, "custom", "my.db"))
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("env path: %v", err)
	}
	if p != filepath.Join(dir, "custom", "my.db") {
		t.Errorf("got %q", p)
	}

	t.Setenv("OPTIMA_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatalf("xdg path: %v", err)
	}
	if p != filepath.Join(dir, "optima", "optima.db") {
		t.Errorf("got %q", p)
	}
}
