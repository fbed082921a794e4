package session

import "time"

// SessionSummary holds the data displayed on the summary screen.
type SessionSummary struct {
	Type         Type
	Duration     time.Duration
	Activities   int
	Scored       int
	Correct      int
	OverallScore *float64
	Concepts     []string
	Errors       []ErrorAnalysis
	ByActivity   map[ActivityType]int
}

// Accuracy returns Correct/Scored, or 0 when nothing was scored.
func (s *SessionSummary) Accuracy() float64 {
	if s.Scored == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Scored)
}

// BuildSummary creates a SessionSummary from a session. Activities with a
// full score count as correct.
func BuildSummary(s *StudySession, now time.Time) *SessionSummary {
	sum := &SessionSummary{
		Type:         s.Type,
		Duration:     s.Duration(now),
		Activities:   len(s.Activities),
		OverallScore: s.OverallScore,
		Concepts:     s.ConceptsStudied,
		ByActivity:   make(map[ActivityType]int),
	}
	for _, a := range s.Activities {
		sum.ByActivity[a.Type]++
		sum.Errors = append(sum.Errors, a.Errors...)
		if a.Score == nil {
			continue
		}
		sum.Scored++
		if *a.Score >= 1 {
			sum.Correct++
		}
	}
	return sum
}

// Summary is shorthand for BuildSummary(s, now).
func (s *StudySession) Summary(now time.Time) *SessionSummary {
	return BuildSummary(s, now)
}
