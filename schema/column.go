// Package schema implements the column-set / table algebra of the spec:
// an append-only, ordered, heterogeneous list of columns that can be bound
// to a named relation, producing column handles pre-qualified by that
// relation's name.
package schema

import (
	"github.com/jinzhu/inflection"
	"strings"

	"github.com/omniql-engine/sqlkit/errs"
	"github.com/omniql-engine/sqlkit/types"
)

// Column is a (name, type) pair. Its ordinal position within the ColumnSet
// that declared it is fixed at creation and is its sole stable identity.
type Column struct {
	Name string
	Tag  types.Tag
}

// ColumnSet is an ordered, heterogeneous sequence of columns, built only by
// right-append (Add) starting from Empty. It carries no table binding yet.
type ColumnSet struct {
	columns []Column
	names   map[string]struct{}
}

// Empty is the empty column set.
func Empty() ColumnSet {
	return ColumnSet{}
}

// Add appends a column to the set. Duplicate column names within one set
// are rejected at construction (spec §4.2 invariant).
func (c ColumnSet) Add(name string, tag types.Tag) ColumnSet {
	if c.names != nil {
		if _, dup := c.names[name]; dup {
			panic(errs.New(errs.DuplicateColumn, "column %q already declared in this column set", name))
		}
	}
	next := ColumnSet{
		columns: append(append([]Column(nil), c.columns...), Column{Name: name, Tag: tag}),
		names:   make(map[string]struct{}, len(c.columns)+1),
	}
	for _, existing := range c.columns {
		next.names[existing.Name] = struct{}{}
	}
	next.names[name] = struct{}{}
	return next
}

// Columns returns the declared columns in declaration order.
func (c ColumnSet) Columns() []Column {
	return append([]Column(nil), c.columns...)
}

// Len reports the number of declared columns.
func (c ColumnSet) Len() int { return len(c.columns) }

// Table binds this column set to a relation name, fixing bindings that
// mirror the column set position-for-position.
func (c ColumnSet) Table(name string) *Table {
	return newTable(name, c)
}

// TableAuto binds this column set to a relation name derived from a Go
// identifier: lower-cased and pluralized via github.com/jinzhu/inflection,
// the same convention the teacher's dialect translators applied to OQL
// entity names (engine/translator/postgres.go, getPostgreSQLTableName).
func (c ColumnSet) TableAuto(entityName string) *Table {
	return newTable(inflection.Plural(strings.ToLower(entityName)), c)
}
