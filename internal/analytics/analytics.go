// Package analytics derives study statistics from finished sessions.
package analytics

import (
	"cmp"
	"slices"
	"time"

	"github.com/optima-study/optima/internal/session"
)

// TypeStats aggregates the sessions of one type.
type TypeStats struct {
	Sessions int
	Time     time.Duration
}

// ConceptCount is how many sessions studied a concept.
type ConceptCount struct {
	Concept string
	Count   int
}

// ScorePoint is one scored session in chronological order.
type ScorePoint struct {
	At    time.Time
	Score float64
}

// Report summarizes a learner's study history.
type Report struct {
	TotalSessions int
	TotalTime     time.Duration
	ByType        map[session.Type]TypeStats

	// AverageScore is the mean overall score of scored sessions, nil when
	// no session has a score.
	AverageScore *float64

	// Concepts is sorted by count descending, then name.
	Concepts []ConceptCount

	// Errors counts learner errors by category across all activities.
	Errors map[session.ErrorCategory]int

	CurrentStreak int
	LongestStreak int

	Trend []ScorePoint
}

// TopConcepts returns at most n of the most studied concepts.
func (r *Report) TopConcepts(n int) []ConceptCount {
	if n >= len(r.Concepts) {
		return r.Concepts
	}
	return r.Concepts[:n]
}

// Compute builds a Report. Sessions that have not ended are ignored.
// Streaks count calendar days in now's location; a streak is current when
// its last day is today or yesterday.
func Compute(sessions []*session.StudySession, now time.Time) Report {
	r := Report{
		ByType: make(map[session.Type]TypeStats),
		Errors: make(map[session.ErrorCategory]int),
	}

	var (
		scoreSum float64
		scored   int
		concepts = make(map[string]int)
		days     []civilDay
	)

	ended := make([]*session.StudySession, 0, len(sessions))
	for _, s := range sessions {
		if s.Ended() {
			ended = append(ended, s)
		}
	}
	slices.SortStableFunc(ended, func(a, b *session.StudySession) int {
		return a.StartedAt.Compare(b.StartedAt)
	})

	for _, s := range ended {
		d := s.Duration(now)
		r.TotalSessions++
		r.TotalTime += d

		ts := r.ByType[s.Type]
		ts.Sessions++
		ts.Time += d
		r.ByType[s.Type] = ts

		if s.OverallScore != nil {
			scoreSum += *s.OverallScore
			scored++
			r.Trend = append(r.Trend, ScorePoint{At: s.StartedAt, Score: *s.OverallScore})
		}
		for _, c := range s.ConceptsStudied {
			concepts[c]++
		}
		for _, a := range s.Activities {
			for _, e := range a.Errors {
				r.Errors[e.Category]++
			}
		}
		days = append(days, dayOf(s.StartedAt.In(now.Location())))
	}

	if scored > 0 {
		avg := scoreSum / float64(scored)
		r.AverageScore = &avg
	}

	for c, n := range concepts {
		r.Concepts = append(r.Concepts, ConceptCount{Concept: c, Count: n})
	}
	slices.SortFunc(r.Concepts, func(a, b ConceptCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Concept, b.Concept)
	})

	r.CurrentStreak, r.LongestStreak = streaks(days, dayOf(now))
	return r
}
