package player

import (
	"context"
	"log/slog"
	"sync"

	"github.com/optima-study/optima/internal/session"
)

// Emitter receives the finished session of a player. Emit must not block
// the caller; players call it from the UI thread.
type Emitter interface {
	Emit(s *session.StudySession)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(s *session.StudySession)

func (f EmitterFunc) Emit(s *session.StudySession) { f(s) }

// Sink persists finished sessions. store.SessionRepo implements it.
type Sink interface {
	SaveSession(ctx context.Context, s *session.StudySession) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, s *session.StudySession) error

func (f SinkFunc) SaveSession(ctx context.Context, s *session.StudySession) error {
	return f(ctx, s)
}

// Handoff is an Emitter that passes each session to a Sink on its own
// goroutine. Delivery is at most once: a failed save is logged and
// dropped, never retried and never reported to the player. Sessions still
// in flight when the process exits are lost unless the owner calls Wait.
type Handoff struct {
	sink   Sink
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewHandoff creates a Handoff. A nil logger discards output.
func NewHandoff(sink Sink, logger *slog.Logger) *Handoff {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handoff{sink: sink, logger: logger}
}

// Emit starts the save and returns immediately.
func (h *Handoff) Emit(s *session.StudySession) {
	if h == nil || h.sink == nil || s == nil {
		return
	}
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		if err := h.sink.SaveSession(context.Background(), s); err != nil {
			h.logger.Warn("session hand-off failed",
				"session_id", s.ID,
				"session_type", string(s.Type),
				"error", err,
			)
			return
		}
		h.logger.Debug("session saved", "session_id", s.ID, "activities", len(s.Activities))
	}()
}

// Wait blocks until every started save has returned.
func (h *Handoff) Wait() {
	if h == nil {
		return
	}
	h.wg.Wait()
}
