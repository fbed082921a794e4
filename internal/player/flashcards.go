package player

import (
	"slices"
	"time"

	"github.com/optima-study/optima/internal/content"
	"github.com/optima-study/optima/internal/session"
)

type review struct {
	card    content.Flashcard
	shownAt time.Time
	doneAt  time.Time
}

// Flashcards walks a learner through a shuffled deck.
//
// MarkKnown and MarkUnknown both move on to the next card. The outcome is
// only logged; the cards' Leitner fields are never touched.
type Flashcards struct {
	title      string
	documentID string
	cards      []content.Flashcard
	emitter    Emitter
	opts       options

	current   int
	flipped   bool
	finished  bool
	shownAt   time.Time
	reviews   []review
	startedAt time.Time
}

// NewFlashcards creates a flashcard player over a shuffled copy of cards.
// A nil emitter drops finished sessions.
func NewFlashcards(cards []content.Flashcard, title, documentID string, emitter Emitter, opts ...Option) *Flashcards {
	f := &Flashcards{
		title:      title,
		documentID: documentID,
		cards:      slices.Clone(cards),
		emitter:    emitter,
		opts:       buildOptions(opts),
	}
	f.shuffle()
	f.startedAt = f.opts.now()
	f.shownAt = f.startedAt
	return f
}

func (f *Flashcards) Title() string              { return f.title }
func (f *Flashcards) Cards() []content.Flashcard { return f.cards }
func (f *Flashcards) Len() int                   { return len(f.cards) }
func (f *Flashcards) CurrentIndex() int          { return f.current }
func (f *Flashcards) Flipped() bool              { return f.flipped }
func (f *Flashcards) Finished() bool             { return f.finished }
func (f *Flashcards) Reviewed() int              { return len(f.reviews) }

// Current returns the card at the current position, or false when there is none.
func (f *Flashcards) Current() (content.Flashcard, bool) {
	if f.current < 0 || f.current >= len(f.cards) {
		return content.Flashcard{}, false
	}
	return f.cards[f.current], true
}

// FlipCurrent toggles which side of the current card is shown. It does
// nothing once the deck is finished.
func (f *Flashcards) FlipCurrent() {
	if f.finished {
		return
	}
	if _, ok := f.Current(); !ok {
		return
	}
	f.flipped = !f.flipped
}

// MarkKnown records the current card as known and moves on.
func (f *Flashcards) MarkKnown() {
	f.mark(true)
}

// MarkUnknown records the current card as not known and moves on.
func (f *Flashcards) MarkUnknown() {
	f.mark(false)
}

func (f *Flashcards) mark(known bool) {
	if f.finished {
		return
	}
	if card, ok := f.Current(); ok {
		now := f.opts.now()
		if known {
			f.opts.logger.Debug("flashcard known", "card_id", card.ID, "position", f.current)
		} else {
			f.opts.logger.Debug("flashcard unknown", "card_id", card.ID, "position", f.current)
		}
		f.reviews = append(f.reviews, review{card: card, shownAt: f.shownAt, doneAt: now})
	}
	f.advance()
}

func (f *Flashcards) advance() {
	if f.current < len(f.cards)-1 {
		f.current++
		f.flipped = false
		f.shownAt = f.opts.now()
		return
	}
	f.Finish()
}

// Finish marks the deck finished and emits its session. Flashcard
// sessions carry no score.
func (f *Flashcards) Finish() {
	f.finished = true
	f.flipped = false
	s := f.buildSession()
	f.opts.logger.Debug("flashcards finished", "title", f.title, "reviewed", len(f.reviews))
	if f.emitter != nil {
		f.emitter.Emit(s)
	}
}

// Restart reshuffles the deck and starts again from the first card.
func (f *Flashcards) Restart() {
	f.shuffle()
	f.current = 0
	f.flipped = false
	f.finished = false
	f.reviews = nil
	f.shownAt = f.opts.now()
}

// Progress is (current+1)/count, or 0 for an empty deck.
func (f *Flashcards) Progress() float64 {
	if len(f.cards) == 0 {
		return 0
	}
	return float64(f.current+1) / float64(len(f.cards))
}

func (f *Flashcards) shuffle() {
	f.opts.shuffle(len(f.cards), func(i, j int) {
		f.cards[i], f.cards[j] = f.cards[j], f.cards[i]
	})
}

func (f *Flashcards) buildSession() *session.StudySession {
	now := f.opts.now()
	s := session.New(f.documentID, session.TypeFlashcards, f.startedAt)
	s.AddContentItem(f.opts.contentID)
	for _, r := range f.reviews {
		act := session.NewActivity(session.ActivityFlashcardReview, r.shownAt, r.doneAt).
			WithContent(f.opts.contentID).
			WithConcepts(f.opts.concepts...)
		if r.card.Category != "" {
			act = act.WithConcepts(r.card.Category)
		}
		s.AddActivity(act)
	}
	s.End(now)
	return s
}
