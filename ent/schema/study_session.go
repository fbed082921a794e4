package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ErrorRecord is the persisted form of an error analysis.
type ErrorRecord struct {
	Concept     string  `json:"concept,omitempty"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// StudySession is a finished study session. Sessions are append-only.
type StudySession struct {
	ent.Schema
}

func (StudySession) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "study_sessions"}}
}

func (StudySession) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (StudySession) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable(),
		field.String("document_id"),
		field.String("session_type").
			NotEmpty(),
		field.Time("started_at"),
		field.Time("ended_at").
			Optional().
			Nillable(),
		field.JSON("content_item_ids", []string{}),
		field.Float("overall_score").
			Optional().
			Nillable().
			Comment("Mean of scored activities; NULL when none were scored"),
		field.JSON("concepts", []string{}),
		field.JSON("difficulties", []string{}),
		field.Int("focus_interruptions").
			Default(0),
		field.Int64("pause_duration_ms").
			Default(0),
		field.Int("device_switches").
			Default(0),
		field.Int("user_rating").
			Optional().
			Nillable(),
		field.String("user_note").
			Default(""),
	}
}

func (StudySession) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("document_id"),
		index.Fields("session_type"),
		index.Fields("started_at"),
	}
}

// ActivityResult is one activity of a study session, in session order.
type ActivityResult struct {
	ent.Schema
}

func (ActivityResult) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "activity_results"}}
}

func (ActivityResult) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable(),
		field.String("session_id").
			NotEmpty(),
		field.Int("position").
			Comment("Index within the session's activity list"),
		field.String("activity_type"),
		field.String("content_id").
			Default(""),
		field.Time("started_at"),
		field.Time("ended_at"),
		field.Float("score").
			Optional().
			Nillable(),
		field.JSON("concepts", []string{}),
		field.JSON("errors", []ErrorRecord{}),
	}
}

func (ActivityResult) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id", "position").
			Unique(),
	}
}
