package store

import (
	"context"
	"time"

	"github.com/optima-study/optima/internal/content"
	"github.com/optima-study/optima/internal/document"
	"github.com/optima-study/optima/internal/session"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	After   int64  // sequence > After
	Before  int64  // sequence < Before
	Purpose string // exact match; empty matches all
}

// DocumentRepo stores imported documents.
type DocumentRepo interface {
	Save(ctx context.Context, doc *document.Document) error
	Get(ctx context.Context, id string) (*document.Document, error)

	// List returns documents newest first, without page text.
	List(ctx context.Context) ([]*document.Document, error)
}

// ContentFilter narrows ContentRepo.List. Zero values match everything.
type ContentFilter struct {
	DocumentID string
	Kind       content.Kind
	Limit      int
}

// ContentRepo stores generated content items.
type ContentRepo interface {
	// Save inserts a new item. The payload is stored in its tagged form.
	Save(ctx context.Context, item *content.GeneratedContentItem) error

	// Get loads an item. Payload decoding errors are returned as-is.
	Get(ctx context.Context, id string) (*content.GeneratedContentItem, error)

	// List returns items newest first.
	List(ctx context.Context, f ContentFilter) ([]*content.GeneratedContentItem, error)

	// RecordUsage folds one use into the item's usage statistics.
	RecordUsage(ctx context.Context, id string, score *float64, at time.Time) error
}

// SessionFilter narrows SessionRepo.List. Zero values match everything.
type SessionFilter struct {
	DocumentID string
	Type       session.Type
	Limit      int
}

// SessionRepo stores finished study sessions. It is the sink behind the
// players' session hand-off.
type SessionRepo interface {
	// SaveSession appends a finished session with its activities and
	// updates usage statistics of the content items it references.
	// Saving an id twice fails with ErrExists.
	SaveSession(ctx context.Context, s *session.StudySession) error

	Get(ctx context.Context, id string) (*session.StudySession, error)

	// List returns sessions most recently saved first.
	List(ctx context.Context, f SessionFilter) ([]*session.StudySession, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	LLMRequestEventData
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// PurposeUsage aggregates LLM calls for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns a single event by id, or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
