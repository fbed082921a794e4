package generate

import (
	"slices"
	"strings"
	"time"

	"github.com/optima-study/optima/internal/content"
)

const (
	perQuestion    = time.Minute
	perCard        = 20 * time.Second
	wordsPerMinute = 200
)

// EstimateDuration returns how long studying the payload takes.
func EstimateDuration(data *content.ContentData) time.Duration {
	if data == nil {
		return 0
	}
	switch p := data.Payload().(type) {
	case *content.QuizData:
		return time.Duration(len(p.Questions)) * perQuestion
	case *content.FlashcardsData:
		return time.Duration(len(p.Cards)) * perCard
	case *content.SummaryData:
		words := len(strings.Fields(p.Text))
		for _, k := range p.KeyPoints {
			words += len(strings.Fields(k))
		}
		return readingTime(words)
	case *content.ExplanationData:
		words := len(strings.Fields(p.Text))
		for _, s := range slices.Concat(p.Examples, p.Analogies) {
			words += len(strings.Fields(s))
		}
		return readingTime(words)
	}
	return 0
}

// readingTime rounds up to whole minutes.
func readingTime(words int) time.Duration {
	if words == 0 {
		return 0
	}
	return time.Duration((words+wordsPerMinute-1)/wordsPerMinute) * time.Minute
}
