package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ContentItem is one generated learning artifact. Only the usage columns
// change after insert.
type ContentItem struct {
	ent.Schema
}

func (ContentItem) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "content_items"}}
}

func (ContentItem) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable(),
		field.String("kind").
			NotEmpty().
			Comment("quiz, flashcards, summary, explanation, exercise or mindMap"),
		field.String("title"),
		field.String("document_id").
			Comment("Source document"),
		field.Int("source_page").
			Optional().
			Nillable(),
		field.String("difficulty"),
		field.Int64("estimated_duration_ms").
			Default(0),
		field.JSON("tags", []string{}),
		field.Text("data").
			Optional().
			Nillable().
			Comment("Tagged payload envelope; NULL for kinds without a payload"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),

		field.Int("times_used").
			Default(0),
		field.Int("scored_uses").
			Default(0),
		field.Float("average_score").
			Optional().
			Nillable(),
		field.Time("last_used_at").
			Optional().
			Nillable(),
	}
}

func (ContentItem) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("document_id"),
		index.Fields("kind"),
	}
}
