package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	return &AnthropicProvider{client: &client, model: "claude-haiku-4-5-20251001"}
}

func anthropicReply(text, stop string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_test",
			"type":        "message",
			"role":        "assistant",
			"content":     []map[string]any{{"type": "text", "text": text}},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": stop,
			"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
		})
	}
}

func statusReply(status int, body map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}

func TestAnthropicProvider_StructuredOutput(t *testing.T) {
	var sent map[string]any
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &sent)
		anthropicReply(`{"front":"ATP","back":"energy currency"}`, "end_turn")(w, r)
	})

	req := UserPrompt("You write study cards.", "Make a card about ATP.")
	req.Schema = cardSchema()
	resp, err := p.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 50, resp.Usage.InputTokens)
	assert.Equal(t, 80, resp.Usage.TotalTokens)
	assert.Equal(t, "end", resp.StopReason)
	assert.JSONEq(t, `{"front":"ATP","back":"energy currency"}`, string(resp.Content))
	assert.EqualValues(t, DefaultMaxTokens, sent["max_tokens"])
}

func TestAnthropicProvider_Truncated(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicReply(`{"front":"AT`, "max_tokens"))
	req := UserPrompt("", "card")
	req.Schema = cardSchema()

	_, err := p.Generate(context.Background(), req)
	var maxTok *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &maxTok)
}

func TestAnthropicProvider_ErrorMapping(t *testing.T) {
	body := map[string]any{"type": "error", "error": map[string]any{"type": "x", "message": "x"}}
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{"rate limit", http.StatusTooManyRequests, func(t *testing.T, err error) {
			var rl *ErrRateLimit
			assert.ErrorAs(t, err, &rl)
		}},
		{"server error", http.StatusInternalServerError, func(t *testing.T, err error) {
			var unavail *ErrProviderUnavailable
			assert.ErrorAs(t, err, &unavail)
		}},
		{"bad key", http.StatusUnauthorized, func(t *testing.T, err error) {
			var rejected *ErrRequestRejected
			require.ErrorAs(t, err, &rejected)
			assert.Equal(t, http.StatusUnauthorized, rejected.StatusCode)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestAnthropicProvider(t, statusReply(tt.status, body))
			_, err := p.Generate(context.Background(), UserPrompt("", "test"))
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestAnthropicProvider_Identity(t *testing.T) {
	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "k", Model: "claude-sonnet"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", p.Name())
	assert.Equal(t, "claude-sonnet-4-5-20250929", p.ModelID())

	_, err = NewAnthropicProvider(AnthropicConfig{})
	assert.Error(t, err)
}

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return newOpenAICompatible("openai", OpenAIConfig{
		APIKey:  "test-key",
		Model:   "gpt-4.1-mini",
		BaseURL: server.URL + "/v1",
	})
}

func openAIReply(content, finish string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4.1-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finish,
			}},
			"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
		})
	}
}

func TestOpenAIProvider_StructuredOutput(t *testing.T) {
	var sent map[string]any
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &sent)
		openAIReply(`{"front":"ATP","back":"energy"}`, "stop")(w, r)
	})

	req := UserPrompt("You write study cards.", "Make a card.")
	req.Schema = cardSchema()
	resp, err := p.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 40, resp.Usage.InputTokens)
	assert.Equal(t, 25, resp.Usage.OutputTokens)
	assert.Equal(t, "gpt-4.1-mini", resp.Model)

	format, ok := sent["response_format"].(map[string]any)
	require.True(t, ok, "schema requests use response_format")
	assert.Equal(t, "json_schema", format["type"])
	msgs, ok := sent["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 2, "system prompt is sent as its own message")
}

func TestOpenAIProvider_Truncated(t *testing.T) {
	p := newTestOpenAIProvider(t, openAIReply(`{"front":`, "length"))
	req := UserPrompt("", "card")
	req.Schema = cardSchema()

	_, err := p.Generate(context.Background(), req)
	var maxTok *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &maxTok)
}

func TestOpenAIProvider_ErrorMapping(t *testing.T) {
	body := map[string]any{"error": map[string]any{"type": "x", "message": "x"}}

	p := newTestOpenAIProvider(t, statusReply(http.StatusTooManyRequests, body))
	_, err := p.Generate(context.Background(), UserPrompt("", "test"))
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)

	p = newTestOpenAIProvider(t, statusReply(http.StatusBadGateway, body))
	_, err = p.Generate(context.Background(), UserPrompt("", "test"))
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)

	p = newTestOpenAIProvider(t, statusReply(http.StatusNotFound, body))
	_, err = p.Generate(context.Background(), UserPrompt("", "test"))
	var rejected *ErrRequestRejected
	assert.ErrorAs(t, err, &rejected)
}

func TestOpenAIMessages(t *testing.T) {
	msgs := openAIMessages(Request{
		System: "sys",
		Messages: []Message{
			{Role: RoleUser, Content: "q"},
			{Role: RoleAssistant, Content: "a"},
		},
	})
	require.Len(t, msgs, 3)
	assert.Equal(t, openai.ChatMessageRoleSystem, msgs[0].Role)
	assert.Equal(t, openai.ChatMessageRoleAssistant, msgs[2].Role)
}

func TestNewOpenRouterProvider(t *testing.T) {
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "google/gemini-2.5-flash"})
	require.NoError(t, err)
	assert.Equal(t, "openrouter", p.Name())
	assert.Equal(t, "google/gemini-2.5-flash", p.ModelID(), "vendor-prefixed ids pass through")

	_, err = NewOpenRouterProvider(OpenRouterConfig{Model: "x"})
	assert.Error(t, err)
}

func TestModelMapping(t *testing.T) {
	tests := []struct {
		models map[string]string
		input  string
		want   string
	}{
		{anthropicModels, "claude-haiku", "claude-haiku-4-5-20251001"},
		{anthropicModels, "claude-sonnet-4-20250514", "claude-sonnet-4-20250514"},
		{openaiModels, "gpt-mini", "gpt-4.1-mini"},
		{openaiModels, "gpt-4o", "gpt-4o"},
		{geminiModels, "gemini-flash", "gemini-2.5-flash"},
		{geminiModels, "gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveModel(tt.input, tt.models), tt.input)
	}
}

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{"type": "string", "description": "the question"},
			"points":   map[string]any{"type": "integer", "minimum": 1},
			"kind":     map[string]any{"type": "string", "enum": []string{"multipleChoice", "trueFalse"}},
			"options": map[string]any{
				"type":     "array",
				"minItems": 2,
				"items":    map[string]any{"type": "string"},
			},
		},
		"required": []any{"question", "options"},
	}

	s := geminiSchema(def)

	assert.EqualValues(t, "OBJECT", s.Type)
	require.Len(t, s.Properties, 4)
	assert.Equal(t, "the question", s.Properties["question"].Description)
	assert.EqualValues(t, "INTEGER", s.Properties["points"].Type)
	require.NotNil(t, s.Properties["points"].Minimum)
	assert.Equal(t, 1.0, *s.Properties["points"].Minimum)
	assert.Equal(t, []string{"multipleChoice", "trueFalse"}, s.Properties["kind"].Enum)
	assert.EqualValues(t, "ARRAY", s.Properties["options"].Type)
	assert.EqualValues(t, "STRING", s.Properties["options"].Items.Type)
	require.NotNil(t, s.Properties["options"].MinItems)
	assert.EqualValues(t, 2, *s.Properties["options"].MinItems)
	assert.Equal(t, []string{"question", "options"}, s.Required)
}
