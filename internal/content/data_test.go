package content

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quizBlob = `{
  "type": "quiz",
  "data": {
    "questions": [
      {
        "id": "q1",
        "question": "Which organelle produces ATP?",
        "type": "multipleChoice",
        "options": ["Nucleus", "Mitochondrion", "Ribosome"],
        "correctAnswers": [1],
        "explanation": "Oxidative phosphorylation happens in mitochondria.",
        "points": 2
      },
      {
        "id": "q2",
        "question": "DNA is single-stranded.",
        "type": "trueFalse",
        "options": ["True", "False"],
        "correctAnswers": [1],
        "points": 1
      }
    ],
    "timeLimit": 300,
    "passingScore": 0.7
  }
}`

func TestDecode_Quiz(t *testing.T) {
	d, err := Decode([]byte(quizBlob))
	require.NoError(t, err)
	assert.Equal(t, KindQuiz, d.Kind())

	q, ok := d.Quiz()
	require.True(t, ok)
	require.Len(t, q.Questions, 2)
	assert.Equal(t, "Which organelle produces ATP?", q.Questions[0].Text)
	assert.Equal(t, []int{1}, q.Questions[0].CorrectAnswers)
	require.NotNil(t, q.TimeLimit)
	assert.Equal(t, 300, *q.TimeLimit)
	assert.Equal(t, 3, q.TotalPoints())

	_, ok = d.Flashcards()
	assert.False(t, ok)
}

func TestDecode_QuizRoundTrip(t *testing.T) {
	d, err := Decode([]byte(quizBlob))
	require.NoError(t, err)

	out, err := Encode(d)
	require.NoError(t, err)
	assert.JSONEq(t, quizBlob, string(out))
}

func TestDecode_UnsupportedTypes(t *testing.T) {
	tests := []struct {
		name string
		blob string
		typ  string
	}{
		{"mind map", `{"type":"mindMap","data":{"nodes":[]}}`, "mindMap"},
		{"exercise", `{"type":"exercise","data":{}}`, "exercise"},
		{"unknown", `{"type":"crossword","data":{}}`, "crossword"},
		{"missing type", `{"data":{}}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Decode([]byte(tt.blob))
			require.Error(t, err)
			assert.Nil(t, d)
			assert.ErrorIs(t, err, ErrUnsupportedContentType)

			var ute *UnsupportedContentTypeError
			require.True(t, errors.As(err, &ute))
			assert.Equal(t, tt.typ, ute.Type)
		})
	}
}

func TestDecode_MissingData(t *testing.T) {
	_, err := Decode([]byte(`{"type":"summary"}`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedContentType)

	_, err = Decode([]byte(`{"type":"summary","data":null}`))
	require.Error(t, err)
}

func TestDecode_MalformedPayload(t *testing.T) {
	_, err := Decode([]byte(`{"type":"flashcards","data":{"cards":"nope"}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flashcards")
}

func TestEncode_EachKind(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		kind    Kind
	}{
		{"quiz", &QuizData{Questions: []QuizQuestion{NewQuestion("2+2?", []string{"3", "4"}, 1)}, PassingScore: 0.5}, KindQuiz},
		{"flashcards", &FlashcardsData{Cards: []Flashcard{NewFlashcard("front", "back")}}, KindFlashcards},
		{"summary", &SummaryData{Text: "text", KeyPoints: []string{"a"}}, KindSummary},
		{"explanation", &ExplanationData{Text: "text", Analogies: []string{"like a pump"}}, KindExplanation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Encode(NewContentData(tt.payload))
			require.NoError(t, err)

			var env map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(out, &env))
			assert.JSONEq(t, `"`+string(tt.kind)+`"`, string(env["type"]))
			assert.Contains(t, env, "data")

			back, err := Decode(out)
			require.NoError(t, err)
			assert.Equal(t, tt.payload, back.Payload())
		})
	}
}

func TestEncode_Empty(t *testing.T) {
	_, err := Encode(nil)
	assert.Error(t, err)

	_, err = Encode(&ContentData{})
	assert.Error(t, err)
}

func TestItemJSON_RejectsUnsupportedPayload(t *testing.T) {
	blob := `{"id":"x","type":"mindMap","title":"Cells","sourceDocumentId":"d",
		"createdAt":"2026-01-02T03:04:05Z","difficulty":"beginner","estimatedDuration":0,
		"tags":[],"usage":{"timesUsed":0,"scoredUses":0},
		"content":{"type":"mindMap","data":{}}}`

	var item GeneratedContentItem
	err := json.Unmarshal([]byte(blob), &item)
	assert.ErrorIs(t, err, ErrUnsupportedContentType)
}
