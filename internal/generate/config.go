package generate

// Config controls the behavior of the Generator.
type Config struct {
	// Validators run in order on every generated payload; the first
	// failure stops the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxSourceRunes caps the document text sent in one prompt. Longer
	// sources are cut at a chunk boundary.
	MaxSourceRunes int

	// DefaultQuestions and DefaultCards apply when Request.Count is zero.
	DefaultQuestions int
	DefaultCards     int

	// MaxCount bounds Request.Count.
	MaxCount int
}

// DefaultConfig returns a Config with the standard validator chain and
// recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&CountValidator{},
		},
		MaxTokens:        4096,
		Temperature:      0.4,
		MaxSourceRunes:   24000,
		DefaultQuestions: 5,
		DefaultCards:     10,
		MaxCount:         30,
	}
}
