package generate

import (
	"fmt"

	"github.com/optima-study/optima/internal/content"
)

// Validator checks a generated payload before it becomes an item.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for error messages, e.g. "structural".
	Name() string

	// Validate returns nil if the payload passes.
	Validate(data *content.ContentData, req Request) *ValidationError
}

// ValidationError describes why a payload failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
