package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/optima-study/optima/internal/content"
)

const contentTable = "content_items"

var contentColumns = []string{
	"id", "kind", "title", "document_id", "source_page", "difficulty",
	"estimated_duration_ms", "tags", "data", "created_at",
	"times_used", "scored_uses", "average_score", "last_used_at",
}

// execQuerier is satisfied by *sql.DB and *sql.Tx.
type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type contentRepo struct {
	db *sql.DB
}

func (r *contentRepo) Save(ctx context.Context, item *content.GeneratedContentItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("save content %s: %w", item.ID, err)
	}

	var data any
	if item.Data != nil {
		b, err := content.Encode(item.Data)
		if err != nil {
			return fmt.Errorf("encode content %s: %w", item.ID, err)
		}
		data = string(b)
	}
	tags, err := marshalJSON(item.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	query, args := builder.Insert(contentTable).
		Columns(contentColumns...).
		Values(
			item.ID, string(item.Kind), item.Title, item.DocumentID, nullInt(item.SourcePage),
			string(item.Difficulty), item.EstimatedDuration.Milliseconds(), tags, data, item.CreatedAt.UTC(),
			item.Usage.TimesUsed, item.Usage.ScoredUses, nullFloat(item.Usage.AverageScore), nullTime(item.Usage.LastUsedAt),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save content %s: %w", item.ID, err)
	}
	return nil
}

func (r *contentRepo) Get(ctx context.Context, id string) (*content.GeneratedContentItem, error) {
	return getContent(ctx, r.db, id)
}

func getContent(ctx context.Context, q execQuerier, id string) (*content.GeneratedContentItem, error) {
	query, args := builder.Select(contentColumns...).
		From(builder.Table(contentTable)).
		Where(entsql.EQ("id", id)).
		Query()

	item, err := scanContent(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("content %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get content %s: %w", id, err)
	}
	return item, nil
}

func (r *contentRepo) List(ctx context.Context, f ContentFilter) ([]*content.GeneratedContentItem, error) {
	sel := builder.Select(contentColumns...).
		From(builder.Table(contentTable)).
		OrderBy(entsql.Desc("created_at"))
	if f.DocumentID != "" {
		sel = sel.Where(entsql.EQ("document_id", f.DocumentID))
	}
	if f.Kind != "" {
		sel = sel.Where(entsql.EQ("kind", string(f.Kind)))
	}
	if f.Limit > 0 {
		sel = sel.Limit(f.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	var items []*content.GeneratedContentItem
	for rows.Next() {
		item, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("list content: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *contentRepo) RecordUsage(ctx context.Context, id string, score *float64, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := recordUsage(ctx, tx, id, score, at); err != nil {
		return err
	}
	return tx.Commit()
}

// recordUsage applies one use to the stored item through
// GeneratedContentItem.RecordUsage so the running mean is computed in one place.
func recordUsage(ctx context.Context, q execQuerier, id string, score *float64, at time.Time) error {
	item, err := getContent(ctx, q, id)
	if err != nil {
		return err
	}
	item.RecordUsage(score, at.UTC())

	query, args := builder.Update(contentTable).
		Set("times_used", item.Usage.TimesUsed).
		Set("scored_uses", item.Usage.ScoredUses).
		Set("average_score", nullFloat(item.Usage.AverageScore)).
		Set("last_used_at", nullTime(item.Usage.LastUsedAt)).
		Where(entsql.EQ("id", id)).
		Query()
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update usage of %s: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContent(row rowScanner) (*content.GeneratedContentItem, error) {
	var (
		item       content.GeneratedContentItem
		kind, diff string
		sourcePage sql.NullInt64
		durationMs int64
		tags       string
		data       sql.NullString
		avgScore   sql.NullFloat64
		lastUsedAt sql.NullTime
	)
	err := row.Scan(
		&item.ID, &kind, &item.Title, &item.DocumentID, &sourcePage, &diff,
		&durationMs, &tags, &data, &item.CreatedAt,
		&item.Usage.TimesUsed, &item.Usage.ScoredUses, &avgScore, &lastUsedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Kind = content.Kind(kind)
	item.Difficulty = content.Difficulty(diff)
	item.SourcePage = intPtr(sourcePage)
	item.EstimatedDuration = time.Duration(durationMs) * time.Millisecond
	item.Usage.AverageScore = floatPtr(avgScore)
	item.Usage.LastUsedAt = timePtr(lastUsedAt)
	if err := unmarshalJSON(tags, &item.Tags); err != nil {
		return nil, fmt.Errorf("decode tags of %s: %w", item.ID, err)
	}
	if data.Valid {
		d, err := content.Decode([]byte(data.String))
		if err != nil {
			return nil, fmt.Errorf("decode payload of %s: %w", item.ID, err)
		}
		item.Data = d
	}
	return &item, nil
}
