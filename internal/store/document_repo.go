package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	entschema "github.com/optima-study/optima/ent/schema"
	"github.com/optima-study/optima/internal/document"
)

const documentsTable = "documents"

type documentRepo struct {
	db *sql.DB
}

func (r *documentRepo) Save(ctx context.Context, doc *document.Document) error {
	pages := make([]entschema.PageRecord, len(doc.Pages))
	for i, p := range doc.Pages {
		pages[i] = entschema.PageRecord{Number: p.Number, Text: p.Text}
	}
	pagesJSON, err := marshalJSON(pages)
	if err != nil {
		return fmt.Errorf("encode pages: %w", err)
	}

	query, args := builder.Insert(documentsTable).
		Columns("id", "name", "path", "page_count", "pages", "imported_at").
		Values(doc.ID, doc.Name, doc.Path, doc.PageCount, pagesJSON, doc.ImportedAt.UTC()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (r *documentRepo) Get(ctx context.Context, id string) (*document.Document, error) {
	query, args := builder.Select("id", "name", "path", "page_count", "pages", "imported_at").
		From(builder.Table(documentsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	var doc document.Document
	var pagesJSON string
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&doc.ID, &doc.Name, &doc.Path, &doc.PageCount, &pagesJSON, &doc.ImportedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	var pages []entschema.PageRecord
	if err := unmarshalJSON(pagesJSON, &pages); err != nil {
		return nil, fmt.Errorf("decode pages of %s: %w", id, err)
	}
	for _, p := range pages {
		doc.Pages = append(doc.Pages, document.Page{Number: p.Number, Text: p.Text})
	}
	return &doc, nil
}

func (r *documentRepo) List(ctx context.Context) ([]*document.Document, error) {
	query, args := builder.Select("id", "name", "path", "page_count", "imported_at").
		From(builder.Table(documentsTable)).
		OrderBy(entsql.Desc("imported_at")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*document.Document
	for rows.Next() {
		var d document.Document
		if err := rows.Scan(&d.ID, &d.Name, &d.Path, &d.PageCount, &d.ImportedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}
