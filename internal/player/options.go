// Package player implements the quiz and flashcard study state machines.
//
// Players are confined to a single goroutine (the UI loop). Each owns its
// state exclusively and talks to the outside only through its Emitter.
package player

import (
	"log/slog"
	"math/rand/v2"
	"time"
)

type options struct {
	now       func() time.Time
	rng       *rand.Rand
	contentID string
	concepts  []string
	logger    *slog.Logger
}

// Option configures a player.
type Option func(*options)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRand sets the source used to shuffle flashcard decks.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithContentItem links emitted sessions and their activities to the
// generated content item being played.
func WithContentItem(id string) Option {
	return func(o *options) { o.contentID = id }
}

// WithConcepts tags every emitted activity with the given concepts.
func WithConcepts(concepts ...string) Option {
	return func(o *options) { o.concepts = concepts }
}

// WithLogger sets the logger for player diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

func (o *options) shuffle(n int, swap func(i, j int)) {
	if o.rng != nil {
		o.rng.Shuffle(n, swap)
		return
	}
	rand.Shuffle(n, swap)
}
