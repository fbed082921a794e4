package content

// Importance ranks a concept within a summary.
type Importance string

const (
	ImportanceLow      Importance = "low"
	ImportanceMedium   Importance = "medium"
	ImportanceHigh     Importance = "high"
	ImportanceCritical Importance = "critical"
)

// ConceptSummary defines one concept extracted from a document.
type ConceptSummary struct {
	Name            string     `json:"name"`
	Definition      string     `json:"definition"`
	Importance      Importance `json:"importance"`
	RelatedConcepts []string   `json:"relatedConcepts"`
}

// SummaryData is the summary payload.
type SummaryData struct {
	Text      string           `json:"fullText"`
	KeyPoints []string         `json:"keyPoints"`
	Concepts  []ConceptSummary `json:"concepts"`
}

func (*SummaryData) Kind() Kind { return KindSummary }
func (*SummaryData) isPayload() {}

// ConceptNames returns the names of all concepts in order.
func (s *SummaryData) ConceptNames() []string {
	names := make([]string, 0, len(s.Concepts))
	for _, c := range s.Concepts {
		names = append(names, c.Name)
	}
	return names
}

// ExplanationData is the explanation payload.
type ExplanationData struct {
	Text               string   `json:"fullText"`
	Examples           []string `json:"examples"`
	Analogies          []string `json:"analogies"`
	VisualDescriptions []string `json:"visualDescriptions"`
}

func (*ExplanationData) Kind() Kind { return KindExplanation }
func (*ExplanationData) isPayload() {}
