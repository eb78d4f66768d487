package query

import (
	"github.com/omniql-engine/sqlkit/errs"
	"github.com/omniql-engine/sqlkit/expr"
)

// CTE is a single WITH binding: a name, the query that populates it, and the
// column-reference bindings callers use to read from it as a table source
// (spec §4.2 supplement: common table expressions, dropped by the
// distillation but present in a full relational-algebra builder).
type CTE struct {
	name    string
	body    *Read
	columns []string
	refs    []*expr.ColumnRef
	byName  map[string]*expr.ColumnRef
}

// cteHandle lets a CTE reference stand in for expr.TableHandle without expr
// importing query.
type cteHandle struct{ name string }

func (h cteHandle) RelationName() string  { return h.name }
func (h cteHandle) RelationAlias() string { return "" }

// With declares a CTE named name, bound to body, with columns named in
// order matching body's selection shape.
func With(name string, body *Read, columns ...string) *CTE {
	shape := readShape(body)
	if len(columns) != len(shape) {
		panic(errs.New(errs.ShapeMismatch, "CTE %q declares %d column names for a %d-column body", name, len(columns), len(shape)))
	}
	c := &CTE{name: name, body: body, columns: append([]string(nil), columns...)}
	handle := cteHandle{name: name}
	c.refs = make([]*expr.ColumnRef, len(columns))
	c.byName = make(map[string]*expr.ColumnRef, len(columns))
	for i, col := range columns {
		ref := &expr.ColumnRef{Table: handle, Name: col, Tag: shape[i]}
		c.refs[i] = ref
		c.byName[col] = ref
	}
	return c
}

// Name returns the CTE's bound name.
func (c *CTE) Name() string { return c.name }

// Body returns the query that populates the CTE.
func (c *CTE) Body() *Read { return c.body }

// Col looks up a column binding by name, panicking if undeclared.
func (c *CTE) Col(name string) *expr.ColumnRef {
	ref, ok := c.byName[name]
	if !ok {
		panic(errs.New(errs.UnknownTableColumn, "CTE %q has no column %q", c.name, name))
	}
	return ref
}

// AsSource wraps the CTE as a TableSource so it may appear in a From(...)
// clause or participate in joins like any base table.
func (c *CTE) AsSource() TableSource {
	return &cteSource{cte: c}
}

type cteSource struct{ cte *CTE }

func (s *cteSource) Contains(handle expr.TableHandle) bool {
	h, ok := handle.(cteHandle)
	return ok && h.name == s.cte.name
}

// CTEName reports the bound name of src if it is a CTE table source, and
// whether src was a CTE source at all — used by the renderer, which cannot
// type-assert the unexported cteSource type directly.
func CTEName(src TableSource) (string, bool) {
	if s, ok := src.(*cteSource); ok {
		return s.cte.name, true
	}
	return "", false
}
