// Package sqlstore maps gateway collections onto SQL tables and builds queries
// for them. The postgres and mysql gateways share this code.
package sqlstore

import (
	"fmt"
	"strings"
	"time"

	"taskflow/domain/gateway"
)

// Column is one persisted field of a table
type Column struct {
	Field    string
	Name     string
	Kind     gateway.Kind
	Writable bool
	Nullable bool
}

// Table is the SQL shape of a collection
type Table struct {
	Collection string
	Name       string
	Columns    []Column
}

var columnNames = map[string]string{
	gateway.FieldID:         "id",
	gateway.FieldName:       "name",
	gateway.FieldTags:       "tags",
	gateway.FieldOwner:      "owner",
	gateway.FieldCreatedOn:  "created_on",
	gateway.FieldModifiedOn: "modified_on",
}

var nullable = map[string]bool{
	gateway.TaskDescription: true,
	gateway.TaskCompletedAt: true,
}

func tableFromSchema(s gateway.Schema, name string) Table {
	t := Table{Collection: s.Collection, Name: name}
	for _, f := range s.Fields {
		col := columnNames[f.Name]
		if col == "" {
			col = f.Name
		}
		t.Columns = append(t.Columns, Column{
			Field:    f.Name,
			Name:     col,
			Kind:     f.Kind,
			Writable: f.Writable,
			Nullable: nullable[f.Name],
		})
	}
	return t
}

var tables = map[string]Table{
	gateway.CollectionTask:     tableFromSchema(gateway.TaskSchema, "tasks"),
	gateway.CollectionCategory: tableFromSchema(gateway.CategorySchema, "categories"),
}

// TableFor returns the table of a known collection
func TableFor(collection string) (Table, error) {
	t, ok := tables[collection]
	if !ok {
		return Table{}, fmt.Errorf("unknown collection %q", collection)
	}
	return t, nil
}

// Column looks a column up by field name
func (t Table) Column(field string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Field == field {
			return c, true
		}
	}
	return Column{}, false
}

// Select resolves the fields to read. The id is always included; no fields means all.
func (t Table) Select(fields []string) ([]Column, error) {
	if len(fields) == 0 {
		return t.Columns, nil
	}

	id, _ := t.Column(gateway.FieldID)
	cols := []Column{id}
	seen := map[string]bool{gateway.FieldID: true}
	for _, f := range fields {
		if seen[f] {
			continue
		}
		c, ok := t.Column(f)
		if !ok {
			return nil, fmt.Errorf("unknown field %q in %s", f, t.Collection)
		}
		seen[f] = true
		cols = append(cols, c)
	}
	return cols, nil
}

// Coerce converts a record value to what the column's SQL type accepts.
// Nil stays nil.
func (c Column) Coerce(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	r := gateway.Record{c.Field: v}
	switch c.Kind {
	case gateway.KindInt:
		n, ok := r.Int64(c.Field)
		if !ok {
			return nil, fmt.Errorf("field %s: %v is not an integer", c.Field, v)
		}
		return n, nil
	case gateway.KindBool:
		return r.Bool(c.Field), nil
	case gateway.KindTime:
		t, ok := r.Time(c.Field)
		if !ok {
			if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
				return nil, nil
			}
			if _, isTime := v.(time.Time); isTime {
				return nil, nil
			}
			return nil, fmt.Errorf("field %s: %v is not a timestamp", c.Field, v)
		}
		return t.UTC(), nil
	default:
		return r.String(c.Field), nil
	}
}

// Decode turns one scanned row into a record. Driver forms ([]byte text,
// tinyint booleans) are normalised by column kind.
func Decode(cols []Column, values []any) gateway.Record {
	rec := make(gateway.Record, len(cols))
	for i, c := range cols {
		if i >= len(values) {
			break
		}
		v := values[i]
		if v == nil {
			if c.Kind == gateway.KindString {
				rec[c.Field] = ""
			} else {
				rec[c.Field] = nil
			}
			continue
		}
		tmp := gateway.Record{c.Field: v}
		switch c.Kind {
		case gateway.KindInt:
			n, _ := tmp.Int64(c.Field)
			rec[c.Field] = n
		case gateway.KindBool:
			rec[c.Field] = tmp.Bool(c.Field)
		case gateway.KindTime:
			if t, ok := tmp.Time(c.Field); ok {
				rec[c.Field] = t.UTC()
			} else {
				rec[c.Field] = nil
			}
		default:
			rec[c.Field] = tmp.String(c.Field)
		}
	}
	return rec
}
