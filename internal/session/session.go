package session

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Type is the kind of study session.
type Type string

const (
	TypeReading    Type = "reading"
	TypeQuiz       Type = "quiz"
	TypeFlashcards Type = "flashcards"
	TypeGeneration Type = "generation"
	TypeReview     Type = "review"
	TypeFreeStudy  Type = "freeStudy"
)

// Types lists every session type.
var Types = []Type{TypeReading, TypeQuiz, TypeFlashcards, TypeGeneration, TypeReview, TypeFreeStudy}

// StudySession is the record of one study session.
//
// It is built up with AddActivity while the session runs and sealed with
// End. After it has been handed to a sink it must not be modified.
type StudySession struct {
	ID             string     `json:"id"`
	StartedAt      time.Time  `json:"startedAt"`
	EndedAt        *time.Time `json:"endedAt,omitempty"`
	DocumentID     string     `json:"documentId"`
	Type           Type       `json:"sessionType"`
	ContentItemIDs []string   `json:"contentItemsUsed"`

	Activities []ActivityResult `json:"activities"`

	// OverallScore is the mean of all non-nil activity scores. It is nil
	// when no activity carries a score.
	OverallScore *float64 `json:"overallScore,omitempty"`

	// ConceptsStudied is the sorted union of activity concepts.
	ConceptsStudied []string `json:"conceptsStudied"`
	Difficulties    []string `json:"difficulties"`

	// Behavioral counters. The players leave these at zero.
	FocusInterruptions int           `json:"focusInterruptions"`
	PauseDuration      time.Duration `json:"pauseDuration"`
	DeviceSwitches     int           `json:"deviceSwitches"`

	UserRating *int   `json:"userRating,omitempty"`
	UserNote   string `json:"userNote,omitempty"`
}

// New starts a session at start.
func New(documentID string, typ Type, start time.Time) *StudySession {
	return &StudySession{
		ID:         uuid.New().String(),
		StartedAt:  start,
		DocumentID: documentID,
		Type:       typ,
	}
}

// AddActivity appends a to the session and recomputes the derived
// overall score and concept set.
func (s *StudySession) AddActivity(a ActivityResult) {
	s.Activities = append(s.Activities, a)

	var sum float64
	var n int
	for _, act := range s.Activities {
		if act.Score != nil {
			sum += *act.Score
			n++
		}
	}
	if n == 0 {
		s.OverallScore = nil
	} else {
		avg := sum / float64(n)
		s.OverallScore = &avg
	}

	for _, c := range a.Concepts {
		if c == "" {
			continue
		}
		if i, found := slices.BinarySearch(s.ConceptsStudied, c); !found {
			s.ConceptsStudied = slices.Insert(s.ConceptsStudied, i, c)
		}
	}
}

// AddContentItem records that a content item was used, once per id.
func (s *StudySession) AddContentItem(id string) {
	if id == "" || slices.Contains(s.ContentItemIDs, id) {
		return
	}
	s.ContentItemIDs = append(s.ContentItemIDs, id)
}

// AddDifficulty records a difficulty the learner ran into.
func (s *StudySession) AddDifficulty(d string) {
	s.Difficulties = append(s.Difficulties, d)
}

// End stamps the end time. Only the first call has an effect.
func (s *StudySession) End(at time.Time) {
	if s.EndedAt != nil {
		return
	}
	s.EndedAt = &at
}

// Ended reports whether the session has been sealed.
func (s *StudySession) Ended() bool {
	return s.EndedAt != nil
}

// Duration is end-start for a finished session and now-start for a live one.
func (s *StudySession) Duration(now time.Time) time.Duration {
	if s.EndedAt != nil {
		return s.EndedAt.Sub(s.StartedAt)
	}
	return now.Sub(s.StartedAt)
}

// Rate attaches the learner's post-hoc rating and note.
func (s *StudySession) Rate(rating int, note string) {
	s.UserRating = &rating
	s.UserNote = note
}
