package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/optima-study/optima/internal/session"
)

const (
	sessionsTable   = "study_sessions"
	activitiesTable = "activity_results"
)

var sessionColumns = []string{
	"id", "document_id", "session_type", "started_at", "ended_at",
	"content_item_ids", "overall_score", "concepts", "difficulties",
	"focus_interruptions", "pause_duration_ms", "device_switches",
	"user_rating", "user_note",
}

var activityColumns = []string{
	"id", "session_id", "position", "activity_type", "content_id",
	"started_at", "ended_at", "score", "concepts", "errors",
}

type sessionRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *sessionRepo) SaveSession(ctx context.Context, s *session.StudySession) error {
	if s == nil || s.ID == "" {
		return errors.New("save session: missing id")
	}
	if !s.Ended() {
		return fmt.Errorf("save session %s: session has not ended", s.ID)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	exists, err := rowExists(ctx, tx, sessionsTable, s.ID)
	if err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	if exists {
		return fmt.Errorf("save session %s: %w", s.ID, ErrExists)
	}

	seq, err := r.seq.NextIn(ctx, tx)
	if err != nil {
		return err
	}

	if err := insertSession(ctx, tx, s, seq); err != nil {
		return err
	}
	for i, a := range s.Activities {
		if err := insertActivity(ctx, tx, s.ID, i, a); err != nil {
			return err
		}
	}

	for _, id := range s.ContentItemIDs {
		err := recordUsage(ctx, tx, id, s.OverallScore, *s.EndedAt)
		if errors.Is(err, ErrNotFound) {
			// Sessions may reference items that were never stored.
			continue
		}
		if err != nil {
			return fmt.Errorf("save session %s: %w", s.ID, err)
		}
	}

	return tx.Commit()
}

func rowExists(ctx context.Context, q execQuerier, table, id string) (bool, error) {
	query, args := builder.Select(entsql.Count("*")).
		From(builder.Table(table)).
		Where(entsql.EQ("id", id)).
		Query()
	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func insertSession(ctx context.Context, q execQuerier, s *session.StudySession, seq int64) error {
	itemIDs, err := marshalJSON(s.ContentItemIDs)
	if err != nil {
		return err
	}
	concepts, err := marshalJSON(s.ConceptsStudied)
	if err != nil {
		return err
	}
	difficulties, err := marshalJSON(s.Difficulties)
	if err != nil {
		return err
	}

	cols := append([]string{"sequence", "recorded_at"}, sessionColumns...)
	query, args := builder.Insert(sessionsTable).
		Columns(cols...).
		Values(
			seq, time.Now().UTC(),
			s.ID, s.DocumentID, string(s.Type), s.StartedAt.UTC(), nullTime(s.EndedAt),
			itemIDs, nullFloat(s.OverallScore), concepts, difficulties,
			s.FocusInterruptions, s.PauseDuration.Milliseconds(), s.DeviceSwitches,
			nullInt(s.UserRating), s.UserNote,
		).
		Query()
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert session %s: %w", s.ID, err)
	}
	return nil
}

func insertActivity(ctx context.Context, q execQuerier, sessionID string, pos int, a session.ActivityResult) error {
	concepts, err := marshalJSON(a.Concepts)
	if err != nil {
		return err
	}
	errs, err := marshalJSON(a.Errors)
	if err != nil {
		return err
	}

	query, args := builder.Insert(activitiesTable).
		Columns(activityColumns...).
		Values(
			a.ID, sessionID, pos, string(a.Type), a.ContentID,
			a.StartedAt.UTC(), a.EndedAt.UTC(), nullFloat(a.Score), concepts, errs,
		).
		Query()
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert activity %d of %s: %w", pos, sessionID, err)
	}
	return nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*session.StudySession, error) {
	query, args := builder.Select(sessionColumns...).
		From(builder.Table(sessionsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	s, err := scanSession(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	if err := r.loadActivities(ctx, []*session.StudySession{s}); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *sessionRepo) List(ctx context.Context, f SessionFilter) ([]*session.StudySession, error) {
	sel := builder.Select(sessionColumns...).
		From(builder.Table(sessionsTable)).
		OrderBy(entsql.Desc("sequence"))
	if f.DocumentID != "" {
		sel = sel.Where(entsql.EQ("document_id", f.DocumentID))
	}
	if f.Type != "" {
		sel = sel.Where(entsql.EQ("session_type", string(f.Type)))
	}
	if f.Limit > 0 {
		sel = sel.Limit(f.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	var sessions []*session.StudySession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		sessions = append(sessions, s)
	}
	// Rows must be closed before the next query on the single connection.
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	if err := r.loadActivities(ctx, sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// loadActivities fills in the activities of every session in one query.
func (r *sessionRepo) loadActivities(ctx context.Context, sessions []*session.StudySession) error {
	if len(sessions) == 0 {
		return nil
	}
	byID := make(map[string]*session.StudySession, len(sessions))
	ids := make([]any, 0, len(sessions))
	for _, s := range sessions {
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}

	query, args := builder.Select(activityColumns...).
		From(builder.Table(activitiesTable)).
		Where(entsql.In("session_id", ids...)).
		OrderBy("session_id", "position").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("load activities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			a         session.ActivityResult
			sessionID string
			pos       int
			typ       string
			score     sql.NullFloat64
			concepts  string
			errs      string
		)
		if err := rows.Scan(&a.ID, &sessionID, &pos, &typ, &a.ContentID,
			&a.StartedAt, &a.EndedAt, &score, &concepts, &errs); err != nil {
			return fmt.Errorf("scan activity: %w", err)
		}
		a.Type = session.ActivityType(typ)
		a.Score = floatPtr(score)
		if err := unmarshalJSON(concepts, &a.Concepts); err != nil {
			return fmt.Errorf("decode activity concepts: %w", err)
		}
		if err := unmarshalJSON(errs, &a.Errors); err != nil {
			return fmt.Errorf("decode activity errors: %w", err)
		}
		if s := byID[sessionID]; s != nil {
			s.Activities = append(s.Activities, a)
		}
	}
	return rows.Err()
}

func scanSession(row rowScanner) (*session.StudySession, error) {
	var (
		s            session.StudySession
		typ          string
		endedAt      sql.NullTime
		itemIDs      string
		overall      sql.NullFloat64
		concepts     string
		difficulties string
		pauseMs      int64
		rating       sql.NullInt64
	)
	err := row.Scan(
		&s.ID, &s.DocumentID, &typ, &s.StartedAt, &endedAt,
		&itemIDs, &overall, &concepts, &difficulties,
		&s.FocusInterruptions, &pauseMs, &s.DeviceSwitches,
		&rating, &s.UserNote,
	)
	if err != nil {
		return nil, err
	}

	s.Type = session.Type(typ)
	s.EndedAt = timePtr(endedAt)
	s.OverallScore = floatPtr(overall)
	s.PauseDuration = time.Duration(pauseMs) * time.Millisecond
	s.UserRating = intPtr(rating)
	for _, f := range []struct {
		raw string
		dst *[]string
	}{
		{itemIDs, &s.ContentItemIDs},
		{concepts, &s.ConceptsStudied},
		{difficulties, &s.Difficulties},
	} {
		if err := unmarshalJSON(f.raw, f.dst); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", s.ID, err)
		}
	}
	return &s, nil
}
