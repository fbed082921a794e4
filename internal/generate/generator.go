package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/optima-study/optima/internal/content"
	"github.com/optima-study/optima/internal/document"
	"github.com/optima-study/optima/internal/llm"
)

// ErrNoSource is returned when the request has no usable source text.
var ErrNoSource = errors.New("no source text to generate from")

var purposes = map[content.Kind]string{
	content.KindQuiz:        llm.PurposeQuizGen,
	content.KindFlashcards:  llm.PurposeFlashcardGen,
	content.KindSummary:     llm.PurposeSummaryGen,
	content.KindExplanation: llm.PurposeExplanationGen,
}

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	now      func() time.Time
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg, now: time.Now}
}

// Raw model output, before conversion to content payloads.
type (
	quizOutput struct {
		Title        string  `json:"title"`
		PassingScore float64 `json:"passing_score"`
		Questions    []struct {
			Question       string   `json:"question"`
			Type           string   `json:"type"`
			Options        []string `json:"options"`
			CorrectAnswers []int    `json:"correct_answers"`
			Explanation    string   `json:"explanation"`
			Concept        string   `json:"concept"`
			Points         int      `json:"points"`
		} `json:"questions"`
	}

	flashcardsOutput struct {
		Title string `json:"title"`
		Cards []struct {
			Front      string `json:"front"`
			Back       string `json:"back"`
			Category   string `json:"category"`
			Difficulty string `json:"difficulty"`
		} `json:"cards"`
	}

	summaryOutput struct {
		Title     string   `json:"title"`
		FullText  string   `json:"full_text"`
		KeyPoints []string `json:"key_points"`
		Concepts  []struct {
			Name            string   `json:"name"`
			Definition      string   `json:"definition"`
			Importance      string   `json:"importance"`
			RelatedConcepts []string `json:"related_concepts"`
		} `json:"concepts"`
	}

	explanationOutput struct {
		Title              string   `json:"title"`
		FullText           string   `json:"full_text"`
		Examples           []string `json:"examples"`
		Analogies          []string `json:"analogies"`
		VisualDescriptions []string `json:"visual_descriptions"`
	}
)

// Generate produces a single content item for the request.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) (*content.GeneratedContentItem, error) {
	schema := SchemaFor(req.Kind)
	if schema == nil {
		return nil, &content.UnsupportedContentTypeError{Type: string(req.Kind)}
	}
	if req.Difficulty == "" {
		req.Difficulty = content.DifficultyIntermediate
	}
	req.Count = g.count(req)

	source, err := g.source(req)
	if err != nil {
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, purposes[req.Kind])
	llmReq := llm.UserPrompt(systemPrompts[req.Kind], buildUserMessage(req, source, req.Count))
	llmReq.Schema = schema
	llmReq.MaxTokens = g.config.MaxTokens
	llmReq.Temperature = g.config.Temperature

	resp, err := g.provider.Generate(ctx, llmReq)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	data, title, tags, err := decodePayload(req, resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(data, req); verr != nil {
			return nil, verr
		}
	}

	if req.Title != "" {
		title = req.Title
	}
	if title == "" {
		title = fmt.Sprintf("%s: %s", req.Kind.DisplayName(), req.Document.Name)
	}

	item, err := content.NewItem(req.Kind, title, req.Document.ID, data, g.now().UTC())
	if err != nil {
		return nil, err
	}
	item.Difficulty = req.Difficulty
	item.SourcePage = req.Page
	item.Tags = tags
	item.EstimatedDuration = EstimateDuration(data)
	return item, nil
}

func (g *LLMGenerator) count(req Request) int {
	var def int
	switch req.Kind {
	case content.KindQuiz:
		def = g.config.DefaultQuestions
	case content.KindFlashcards:
		def = g.config.DefaultCards
	default:
		return 0
	}
	n := req.Count
	if n <= 0 {
		n = def
	}
	if g.config.MaxCount > 0 && n > g.config.MaxCount {
		n = g.config.MaxCount
	}
	return n
}

// source selects the text sent to the model, cut to MaxSourceRunes.
func (g *LLMGenerator) source(req Request) (string, error) {
	if req.Document == nil {
		return "", ErrNoSource
	}
	text := req.Document.Text()
	if req.Page != nil {
		t, ok := req.Document.PageText(*req.Page)
		if !ok {
			return "", fmt.Errorf("%w: page %d of %s", ErrNoSource, *req.Page, req.Document.Name)
		}
		text = t
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoSource
	}
	if g.config.MaxSourceRunes > 0 {
		if chunks := document.Chunk(text, g.config.MaxSourceRunes, 0); len(chunks) > 1 {
			text = chunks[0] + "\n[source truncated]"
		}
	}
	return text, nil
}

// decodePayload converts the model output for req.Kind into a payload,
// the proposed title and tags.
func decodePayload(req Request, resp *llm.Response) (*content.ContentData, string, []string, error) {
	switch req.Kind {
	case content.KindQuiz:
		var out quizOutput
		if err := resp.Decode(&out); err != nil {
			return nil, "", nil, err
		}
		quiz := &content.QuizData{PassingScore: out.PassingScore}
		var tags []string
		for _, raw := range out.Questions {
			q := content.NewQuestion(raw.Question, raw.Options, raw.CorrectAnswers...)
			q.Type = content.QuestionType(raw.Type)
			q.Explanation = raw.Explanation
			q.Points = max(raw.Points, 1)
			quiz.Questions = append(quiz.Questions, q)
			tags = appendTag(tags, raw.Concept)
		}
		return content.NewContentData(quiz), out.Title, tags, nil

	case content.KindFlashcards:
		var out flashcardsOutput
		if err := resp.Decode(&out); err != nil {
			return nil, "", nil, err
		}
		deck := &content.FlashcardsData{}
		for _, raw := range out.Cards {
			c := content.NewFlashcard(raw.Front, raw.Back)
			c.Category = raw.Category
			// The schema allows "" for cards at the requested level.
			if d, err := content.ParseDifficulty(raw.Difficulty); err == nil {
				c.Difficulty = d
			} else {
				c.Difficulty = req.Difficulty
			}
			deck.Cards = append(deck.Cards, c)
		}
		deck.CollectCategories()
		return content.NewContentData(deck), out.Title, deck.Categories, nil

	case content.KindSummary:
		var out summaryOutput
		if err := resp.Decode(&out); err != nil {
			return nil, "", nil, err
		}
		sum := &content.SummaryData{Text: out.FullText, KeyPoints: out.KeyPoints}
		for _, c := range out.Concepts {
			sum.Concepts = append(sum.Concepts, content.ConceptSummary{
				Name:            c.Name,
				Definition:      c.Definition,
				Importance:      content.Importance(c.Importance),
				RelatedConcepts: c.RelatedConcepts,
			})
		}
		var tags []string
		for _, name := range sum.ConceptNames() {
			tags = appendTag(tags, name)
		}
		return content.NewContentData(sum), out.Title, tags, nil

	case content.KindExplanation:
		var out explanationOutput
		if err := resp.Decode(&out); err != nil {
			return nil, "", nil, err
		}
		return content.NewContentData(&content.ExplanationData{
			Text:               out.FullText,
			Examples:           out.Examples,
			Analogies:          out.Analogies,
			VisualDescriptions: out.VisualDescriptions,
		}), out.Title, nil, nil
	}
	return nil, "", nil, &content.UnsupportedContentTypeError{Type: string(req.Kind)}
}

// appendTag adds a trimmed, case-insensitively unique tag.
func appendTag(tags []string, tag string) []string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return tags
	}
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return tags
		}
	}
	return append(tags, tag)
}
