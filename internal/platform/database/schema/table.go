// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema describes the stored shape of each entity: its table, the
JSON key of every column, and the relations that can be expanded on read.

Stores never hard-code column lists. They render SELECT projections, write
column lists and filter catalogs from a [Table], so the public field names
of an entity and the SQL names of its columns stay in one place.
*/
package schema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/taibuivan/trailhead/pkg/query"
)

// Column describes one field of an entity.
type Column struct {
	// Key is the JSON field name.
	Key string

	// Name is the SQL column. Empty for computed fields.
	Name string

	// Type is the SQL type used to cast filter parameters.
	Type string

	// Expr replaces the column reference for computed fields.
	Expr string

	// Private columns are never read back (credential hashes, reset state).
	Private bool

	// Hidden columns are read only when a projection names them.
	Hidden bool

	// ReadOnly columns are assigned by the database.
	ReadOnly bool
}

// Computed reports whether the field is derived rather than stored.
func (column Column) Computed() bool {
	return column.Expr != ""
}

// ref renders the column for the given table alias.
func (column Column) ref(alias string) string {
	if column.Computed() {
		return column.Expr
	}
	return alias + "." + column.Name
}

// RelationKind selects how a relation is joined.
type RelationKind int

const (
	// One stores a single target id in Column.
	One RelationKind = iota

	// Many stores an ordered uuid[] of target ids in Column.
	Many

	// Inverse has no local column: target rows point back through Foreign.
	Inverse
)

// Relation is a reference that can be expanded into embedded documents.
type Relation struct {
	Key     string
	Kind    RelationKind
	Column  string
	Target  string
	Foreign string

	// Fields are rendered from the target alias "r".
	Fields []Column
}

// Table describes a stored entity.
type Table struct {
	Name      string
	Columns   []Column
	Relations []Relation
}

// alias is the fixed alias of the primary table in every statement.
const alias = "t"

// Column returns the column for key.
func (table *Table) Column(key string) (Column, bool) {
	for _, column := range table.Columns {
		if column.Key == key {
			return column, true
		}
	}
	return Column{}, false
}

// ColumnName maps a JSON key to its stored column.
func (table *Table) ColumnName(key string) (string, bool) {
	column, ok := table.Column(key)
	if !ok || column.Computed() {
		return "", false
	}
	return column.Name, true
}

// Relation returns the relation for key.
func (table *Table) Relation(key string) (Relation, bool) {
	for _, relation := range table.Relations {
		if relation.Key == key {
			return relation, true
		}
	}
	return Relation{}, false
}

// Writable reports whether key is a stored, client-assignable column.
func (table *Table) Writable(key string) bool {
	column, ok := table.Column(key)
	return ok && !column.Computed() && !column.ReadOnly
}

// Known reports whether key may be named in a projection.
func (table *Table) Known(key string) bool {
	if column, ok := table.Column(key); ok {
		return !column.Private
	}
	relation, ok := table.Relation(key)
	return ok && relation.Kind == Inverse
}

// Catalog lists the fields that may be filtered and sorted on.
func (table *Table) Catalog() query.Catalog {
	columns := make([]query.Column, 0, len(table.Columns))
	for _, column := range table.Columns {
		if column.Private {
			continue
		}
		columns = append(columns, query.Column{Key: column.Key, Expr: column.ref(alias), Cast: column.Type})
	}
	return query.NewCatalog(columns...)
}

// From renders the FROM clause with the primary alias.
func (table *Table) From() string {
	return table.Name + " AS " + alias
}

// ID renders the qualified primary key.
func (table *Table) ID() string {
	return alias + ".id"
}

// Projection renders a jsonb_build_object over the fields selected by spec,
// expanding the populated relations.
func (table *Table) Projection(spec query.Spec, populate ...string) (string, error) {
	if err := spec.CheckFields(table.Known); err != nil {
		return "", err
	}

	var pairs []string
	for _, column := range table.Columns {
		if column.Private || !spec.Selects(column.Key) {
			continue
		}
		if column.Hidden && !slices.Contains(spec.Fields, column.Key) {
			continue
		}

		value := column.ref(alias)
		if relation, ok := table.Relation(column.Key); ok && slices.Contains(populate, column.Key) {
			value = relation.expand(alias)
		}
		pairs = append(pairs, fmt.Sprintf("'%s', %s", column.Key, value))
	}

	for _, relation := range table.Relations {
		if relation.Kind != Inverse || !slices.Contains(populate, relation.Key) || !spec.Selects(relation.Key) {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("'%s', %s", relation.Key, relation.expand(alias)))
	}

	return "jsonb_build_object(" + strings.Join(pairs, ", ") + ")", nil
}

// Document is the default projection: every visible field, no expansion.
func (table *Table) Document(populate ...string) string {
	projection, _ := table.Projection(query.Spec{Exclude: table.hidden()}, populate...)
	return projection
}

// hidden lists the keys excluded by default.
func (table *Table) hidden() []string {
	var keys []string
	for _, column := range table.Columns {
		if column.Hidden {
			keys = append(keys, column.Key)
		}
	}
	return keys
}

// object renders the target fields of a relation.
func (relation Relation) object() string {
	pairs := make([]string, 0, len(relation.Fields))
	for _, field := range relation.Fields {
		pairs = append(pairs, fmt.Sprintf("'%s', %s", field.Key, field.ref("r")))
	}
	return "jsonb_build_object(" + strings.Join(pairs, ", ") + ")"
}

// expand renders the relation as a jsonb subquery correlated to owner.
func (relation Relation) expand(owner string) string {
	switch relation.Kind {
	case Many:
		return fmt.Sprintf(
			"COALESCE((SELECT jsonb_agg(%s ORDER BY array_position(%s.%s, r.id)) FROM %s AS r WHERE r.id = ANY(%s.%s)), '[]'::jsonb)",
			relation.object(), owner, relation.Column, relation.Target, owner, relation.Column)
	case Inverse:
		return fmt.Sprintf(
			"COALESCE((SELECT jsonb_agg(%s ORDER BY r.created_at) FROM %s AS r WHERE r.%s = %s.id), '[]'::jsonb)",
			relation.object(), relation.Target, relation.Foreign, owner)
	default:
		return fmt.Sprintf("(SELECT %s FROM %s AS r WHERE r.id = %s.%s)",
			relation.object(), relation.Target, owner, relation.Column)
	}
}
