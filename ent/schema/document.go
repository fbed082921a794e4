package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// PageRecord is the persisted text of one PDF page.
type PageRecord struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// Document is an imported course document.
type Document struct {
	ent.Schema
}

func (Document) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "documents"}}
}

func (Document) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable(),
		field.String("name").
			NotEmpty(),
		field.String("path").
			Default("").
			Comment("Source path at import time; empty for in-memory imports"),
		field.Int("page_count").
			Default(0).
			Comment("Pages in the PDF, including pages without text"),
		field.JSON("pages", []PageRecord{}).
			Comment("Extracted text of every page that had any"),
		field.Time("imported_at").
			Default(time.Now).
			Immutable(),
	}
}

func (Document) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("name"),
	}
}
