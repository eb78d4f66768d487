package query

import (
	"github.com/omniql-engine/sqlkit/errs"
	"github.com/omniql-engine/sqlkit/expr"
	"github.com/omniql-engine/sqlkit/schema"
)

// Insert is an INSERT statement tree: either a list of literal value rows or
// a nested Read (INSERT ... SELECT), each matching the target columns'
// shape (spec §4.5, plus the bulk-row and upsert supplements of SPEC_FULL §5).
type Insert struct {
	table      *schema.Table
	columns    []*expr.ColumnRef
	rows       [][]expr.Expr
	fromSelect *Read
	conflict   *Upsert
}

// InsertInto begins an Insert targeting table's given columns.
func InsertInto(table *schema.Table, columns ...*expr.ColumnRef) *Insert {
	for _, c := range columns {
		if !table.HasColumn(c.Name) {
			panic(errs.New(errs.UnknownTableColumn, "table %q has no column %q", table.Name(), c.Name))
		}
	}
	return &Insert{table: table, columns: columns}
}

// Values appends literal rows; each row must match the declared columns'
// shape positionally.
func (ins *Insert) Values(rows ...[]expr.Expr) *Insert {
	for _, row := range rows {
		if len(row) != len(ins.columns) {
			panic(errs.New(errs.ArityMismatch, "INSERT row has %d values for %d columns", len(row), len(ins.columns)))
		}
		for i, v := range row {
			if !v.Type().Base().Equal(ins.columns[i].Type().Base()) {
				panic(errs.New(errs.TypeMismatch, "INSERT column %q expects %s, got %s", ins.columns[i].Name, ins.columns[i].Type(), v.Type()))
			}
		}
	}
	ins.rows = append(ins.rows, rows...)
	return ins
}

// FromSelect makes this an INSERT ... SELECT, whose source row shape must
// match the declared columns.
func (ins *Insert) FromSelect(src *Read) *Insert {
	shape := readShape(src)
	if len(shape) != len(ins.columns) {
		panic(errs.New(errs.ShapeMismatch, "INSERT ... SELECT projects %d columns for %d target columns", len(shape), len(ins.columns)))
	}
	for i, t := range shape {
		if !t.Base().Equal(ins.columns[i].Type().Base()) {
			panic(errs.New(errs.TypeMismatch, "INSERT column %q expects %s, got %s", ins.columns[i].Name, ins.columns[i].Type(), t))
		}
	}
	ins.fromSelect = src
	return ins
}

// OnConflict attaches upsert behavior (spec §5 supplement).
func (ins *Insert) OnConflict(u *Upsert) *Insert {
	ins.conflict = u
	return ins
}

// Accessors used by the renderer.
func (ins *Insert) Table() *schema.Table       { return ins.table }
func (ins *Insert) Columns() []*expr.ColumnRef { return append([]*expr.ColumnRef(nil), ins.columns...) }
func (ins *Insert) Rows() [][]expr.Expr        { return ins.rows }
func (ins *Insert) FromSelectSource() *Read    { return ins.fromSelect }
func (ins *Insert) Conflict() *Upsert          { return ins.conflict }

// Upsert describes ON CONFLICT / ON DUPLICATE KEY UPDATE behavior: the
// conflict target columns and the assignments to apply when a conflicting
// row already exists. An empty Assignments list renders as a no-op
// (DO NOTHING) conflict clause.
type Upsert struct {
	Target      []*expr.ColumnRef
	Assignments []Assignment
}

// DoUpdate builds an Upsert that updates assignments on conflict with target.
func DoUpdate(target []*expr.ColumnRef, assignments ...Assignment) *Upsert {
	return &Upsert{Target: target, Assignments: assignments}
}

// DoNothing builds an Upsert that ignores conflicting rows.
func DoNothing(target []*expr.ColumnRef) *Upsert {
	return &Upsert{Target: target}
}

// Assignment is one SET column = expression pair, shared by Update and Upsert.
type Assignment struct {
	Column *expr.ColumnRef
	Value  expr.Expr
}

// Set builds an Assignment, checking the value's type is compatible with
// the target column.
func Set(col *expr.ColumnRef, value expr.Expr) Assignment {
	if !value.Type().Base().Equal(col.Type().Base()) {
		panic(errs.New(errs.TypeMismatch, "assignment to %q expects %s, got %s", col.Name, col.Type(), value.Type()))
	}
	return Assignment{Column: col, Value: value}
}

// Update is an UPDATE statement tree (spec §4.5): every assigned column must
// appear at most once, and WHERE (if present) must be Boolean.
type Update struct {
	table       *schema.Table
	assignments []Assignment
	where       expr.Expr
}

// UpdateTable begins an Update targeting table with the given assignments.
func UpdateTable(table *schema.Table, assignments ...Assignment) *Update {
	seen := make(map[string]bool, len(assignments))
	for _, a := range assignments {
		if !table.HasColumn(a.Column.Name) {
			panic(errs.New(errs.UnknownTableColumn, "table %q has no column %q", table.Name(), a.Column.Name))
		}
		if seen[a.Column.Name] {
			panic(errs.New(errs.DuplicateAssignment, "column %q is assigned more than once", a.Column.Name))
		}
		seen[a.Column.Name] = true
	}
	return &Update{table: table, assignments: assignments}
}

// Where attaches the row filter.
func (u *Update) Where(pred expr.Expr) *Update {
	requireBooleanPredicate(pred, "WHERE")
	checkScope(pred, u.table)
	u.where = pred
	return u
}

func (u *Update) Table() *schema.Table      { return u.table }
func (u *Update) Assignments() []Assignment { return append([]Assignment(nil), u.assignments...) }
func (u *Update) WhereExpr() expr.Expr      { return u.where }

// Delete is a DELETE statement tree (spec §4.5).
type Delete struct {
	table *schema.Table
	where expr.Expr
}

// DeleteFrom begins a Delete targeting table.
func DeleteFrom(table *schema.Table) *Delete {
	return &Delete{table: table}
}

// Where attaches the row filter.
func (d *Delete) Where(pred expr.Expr) *Delete {
	requireBooleanPredicate(pred, "WHERE")
	checkScope(pred, d.table)
	d.where = pred
	return d
}

func (d *Delete) Table() *schema.Table { return d.table }
func (d *Delete) WhereExpr() expr.Expr { return d.where }
