package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/optima-study/optima/ent/schema"
)

// entities are the ent schemas that make up the database, in creation order.
var entities = []ent.Interface{
	entschema.Document{},
	entschema.ContentItem{},
	entschema.StudySession{},
	entschema.ActivityResult{},
	entschema.LLMRequestEvent{},
}

// migrate creates or upgrades every table declared in ent/schema.
func migrate(ctx context.Context, drv dialect.Driver) error {
	tables, err := buildTables(entities)
	if err != nil {
		return err
	}
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	return m.Create(ctx, tables...)
}

func buildTables(ents []ent.Interface) ([]*schema.Table, error) {
	tables := make([]*schema.Table, 0, len(ents))
	for _, e := range ents {
		t, err := tableFor(e)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// tableFor translates an ent schema definition into a migration table the
// same way ent's code generator would. Schemas that declare no "id" field
// get an auto-increment integer key.
func tableFor(e ent.Interface) (*schema.Table, error) {
	name := tableName(e)
	t := schema.NewTable(name)

	var fields []ent.Field
	var indexes []ent.Index
	for _, m := range e.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, e.Fields()...)
	indexes = append(indexes, e.Indexes()...)

	var cols []*schema.Column
	var id *schema.Column
	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, d.Name, d.Err)
		}
		col := &schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional,
			Comment:  d.Comment,
		}
		if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
			col.Default = d.Default
		}
		if d.Name == "id" {
			col.Unique = false
			id = col
			continue
		}
		cols = append(cols, col)
	}

	if id == nil {
		id = &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	}
	t.AddPrimary(id)
	for _, c := range cols {
		t.AddColumn(c)
	}

	for _, idx := range indexes {
		d := idx.Descriptor()
		idxName := name + "_" + strings.Join(d.Fields, "_")
		t.AddIndex(idxName, d.Unique, d.Fields)
	}
	return t, nil
}

func tableName(e ent.Interface) string {
	for _, a := range e.Annotations() {
		switch ant := a.(type) {
		case entsql.Annotation:
			if ant.Table != "" {
				return ant.Table
			}
		case *entsql.Annotation:
			if ant != nil && ant.Table != "" {
				return ant.Table
			}
		}
	}
	return strings.ToLower(reflect.TypeOf(e).Name()) + "s"
}
