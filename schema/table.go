package schema

import "github.com/omniql-engine/sqlkit/expr"

// Table binds a ColumnSet to a relation name. Bindings exposes each column
// as a column-reference expression pre-qualified by the table's name (or
// alias, if Aliased was used); the shape of Bindings mirrors the ColumnSet.
type Table struct {
	name    string
	alias   string
	columns ColumnSet
	refs    []*expr.ColumnRef
	byName  map[string]*expr.ColumnRef
}

func newTable(name string, cols ColumnSet) *Table {
	t := &Table{name: name, columns: cols}
	t.rebuildRefs()
	return t
}

func (t *Table) rebuildRefs() {
	t.refs = make([]*expr.ColumnRef, len(t.columns.columns))
	t.byName = make(map[string]*expr.ColumnRef, len(t.columns.columns))
	for i, c := range t.columns.columns {
		ref := &expr.ColumnRef{Table: t, Name: c.Name, Tag: c.Tag}
		t.refs[i] = ref
		t.byName[c.Name] = ref
	}
}

// RelationName implements expr.TableHandle.
func (t *Table) RelationName() string { return t.name }

// RelationAlias implements expr.TableHandle; empty unless Aliased was used.
func (t *Table) RelationAlias() string { return t.alias }

// Name returns the table's declared (unaliased) relation name.
func (t *Table) Name() string { return t.name }

// Columns returns the underlying column set.
func (t *Table) Columns() ColumnSet { return t.columns }

// Bindings returns the column references in declaration order, mirroring
// the shape of the underlying ColumnSet.
func (t *Table) Bindings() []*expr.ColumnRef {
	return append([]*expr.ColumnRef(nil), t.refs...)
}

// Col looks up a single column-reference binding by name. It panics with an
// UnknownTableColumn construction error if the column was not declared on
// this table — used by generated accessor-style code and tests; builder
// call sites normally hold the binding returned by a field on the caller's
// table struct instead of looking it up by string.
func (t *Table) Col(name string) *expr.ColumnRef {
	ref, ok := t.byName[name]
	if !ok {
		panic(unknownColumn(t.name, name))
	}
	return ref
}

// Aliased returns a copy of the table bound under a different SQL alias —
// used for self-joins, where the caller must give each side of the join a
// distinct alias explicitly (e.g. orders.Aliased("o1"), orders.Aliased("o2"))
// before joining a table to itself. This package does not auto-assign
// aliases; spec §4.6's "aliases are auto-assigned if repeated" is a
// rendering-time convenience this implementation leaves to the caller.
func (t *Table) Aliased(alias string) *Table {
	cp := &Table{name: t.name, alias: alias, columns: t.columns}
	cp.rebuildRefs()
	return cp
}

// HasColumn reports whether name was declared on this table's column set —
// used by query.InsertInto and query.UpdateTable to check that their target
// columns belong to the table.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Contains reports whether handle is this table — it satisfies
// query.TableSource structurally so a *Table may be passed directly to
// query.From without an adapter.
func (t *Table) Contains(handle expr.TableHandle) bool {
	return handle == expr.TableHandle(t)
}
