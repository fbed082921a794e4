package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Payload is one of the four structured payloads a ContentData can hold:
// *QuizData, *FlashcardsData, *SummaryData or *ExplanationData.
// The set is closed.
type Payload interface {
	Kind() Kind
	isPayload()
}

// ErrUnsupportedContentType matches any UnsupportedContentTypeError via errors.Is.
var ErrUnsupportedContentType = errors.New("unsupported content type for decoding")

// UnsupportedContentTypeError is returned when a serialized payload carries
// a discriminant outside quiz, flashcards, summary and explanation.
type UnsupportedContentTypeError struct {
	Type string
}

func (e *UnsupportedContentTypeError) Error() string {
	return fmt.Sprintf("unsupported content type for decoding: %q", e.Type)
}

func (e *UnsupportedContentTypeError) Is(target error) bool {
	return target == ErrUnsupportedContentType
}

// ContentData is the polymorphic payload of a GeneratedContentItem.
// Its JSON form is an envelope with a discriminant and the nested payload:
//
//	{"type": "quiz", "data": {...}}
type ContentData struct {
	payload Payload
}

// NewContentData wraps a payload.
func NewContentData(p Payload) *ContentData {
	return &ContentData{payload: p}
}

// Kind returns the discriminant of the wrapped payload, or "" when empty.
func (d *ContentData) Kind() Kind {
	if d == nil || d.payload == nil {
		return ""
	}
	return d.payload.Kind()
}

// Payload returns the wrapped payload.
func (d *ContentData) Payload() Payload {
	if d == nil {
		return nil
	}
	return d.payload
}

// Quiz returns the quiz payload if that is what d holds.
func (d *ContentData) Quiz() (*QuizData, bool) {
	q, ok := d.Payload().(*QuizData)
	return q, ok
}

// Flashcards returns the flashcards payload if that is what d holds.
func (d *ContentData) Flashcards() (*FlashcardsData, bool) {
	f, ok := d.Payload().(*FlashcardsData)
	return f, ok
}

// Summary returns the summary payload if that is what d holds.
func (d *ContentData) Summary() (*SummaryData, bool) {
	s, ok := d.Payload().(*SummaryData)
	return s, ok
}

// Explanation returns the explanation payload if that is what d holds.
func (d *ContentData) Explanation() (*ExplanationData, bool) {
	e, ok := d.Payload().(*ExplanationData)
	return e, ok
}

type envelope struct {
	Type Kind            `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (d ContentData) MarshalJSON() ([]byte, error) {
	if d.payload == nil {
		return nil, errors.New("encode content data: no payload")
	}
	data, err := json.Marshal(d.payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", d.payload.Kind(), err)
	}
	return json.Marshal(envelope{Type: d.payload.Kind(), Data: data})
}

func (d *ContentData) UnmarshalJSON(b []byte) error {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return fmt.Errorf("decode content envelope: %w", err)
	}

	var p Payload
	switch env.Type {
	case KindQuiz:
		p = &QuizData{}
	case KindFlashcards:
		p = &FlashcardsData{}
	case KindSummary:
		p = &SummaryData{}
	case KindExplanation:
		p = &ExplanationData{}
	default:
		return &UnsupportedContentTypeError{Type: string(env.Type)}
	}

	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return fmt.Errorf("decode %s payload: missing data", env.Type)
	}
	if err := json.Unmarshal(env.Data, p); err != nil {
		return fmt.Errorf("decode %s payload: %w", env.Type, err)
	}
	d.payload = p
	return nil
}

// Encode serializes d to its tagged JSON form.
func Encode(d *ContentData) ([]byte, error) {
	if d == nil {
		return nil, errors.New("encode content data: nil")
	}
	return json.Marshal(d)
}

// Decode parses the tagged JSON form. Unknown discriminants fail with
// *UnsupportedContentTypeError.
func Decode(b []byte) (*ContentData, error) {
	var d ContentData
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
