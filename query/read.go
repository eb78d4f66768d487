package query

import (
	"github.com/omniql-engine/sqlkit/errs"
	"github.com/omniql-engine/sqlkit/expr"
	"github.com/omniql-engine/sqlkit/types"
)

// Read is a SELECT statement tree, built through a staged fluent API:
// From(...).Select(...).Where(...).GroupBy(...).Having(...).OrderBy(...).Limit(...).Offset(...)
// Each stage validates what it can immediately (spec §4.2's construction-time
// invariants) rather than deferring every check to render time.
type Read struct {
	with      []*CTE
	source    TableSource
	selection *Selection
	where     expr.Expr
	groupBy   []expr.Expr
	having    expr.Expr
	orderBy   []expr.OrderKey
	limit     *int
	offset    *int
	distinct  bool

	setOp    setOpKind
	setLeft  *Read
	setRight *Read

	literal *LiteralRows
}

func (r *Read) RenderableMarker() {}

// From begins a Read rooted at src.
func From(src TableSource) *Read {
	return &Read{source: src}
}

// FromLiteral begins a Read over an in-memory row source (spec §4.2's
// "VALUES as a row source" supplement — useful for constant tables and as
// the right-hand side of a UNION).
func FromLiteral(rows *LiteralRows) *Read {
	return &Read{literal: rows}
}

// Select attaches the projection. Every top-level expression's ColumnRefs
// must be reachable from the statement's table source.
func (r *Read) Select(items ...expr.Expr) *Read {
	sel := Select(items...)
	if r.source != nil {
		for _, e := range sel.Columns() {
			checkScope(e, r.source)
		}
	}
	r.selection = sel
	return r
}

// Distinct marks the selection DISTINCT.
func (r *Read) Distinct() *Read {
	r.distinct = true
	return r
}

// Where attaches a Boolean predicate; a second call ANDs the new predicate
// onto the first rather than replacing it.
func (r *Read) Where(pred expr.Expr) *Read {
	requireBooleanPredicate(pred, "WHERE")
	checkScope(pred, r.source)
	if r.where == nil {
		r.where = pred
	} else {
		r.where = expr.Binary(expr.And, r.where, pred)
	}
	return r
}

// GroupBy attaches grouping keys. Once GROUP BY is present, every top-level
// selected expression must be an aggregation or built only from grouping
// keys and literals (see checkGroupByLegality).
func (r *Read) GroupBy(keys ...expr.Expr) *Read {
	for _, k := range keys {
		checkScope(k, r.source)
	}
	r.groupBy = append(r.groupBy, keys...)
	if r.selection != nil {
		checkGroupByLegality(r.selection, r.groupBy)
	}
	return r
}

// Having attaches the post-aggregation filter; requires GroupBy to have been
// called first (spec §4.2: HAVING without GROUP BY is a construction error).
func (r *Read) Having(pred expr.Expr) *Read {
	if len(r.groupBy) == 0 {
		panic(errs.New(errs.MissingGroupBy, "HAVING requires a preceding GROUP BY"))
	}
	requireBooleanPredicate(pred, "HAVING")
	checkScope(pred, r.source)
	if r.having == nil {
		r.having = pred
	} else {
		r.having = expr.Binary(expr.And, r.having, pred)
	}
	return r
}

// OrderBy attaches sort keys; each key's expression must be reachable from
// the table source.
func (r *Read) OrderBy(keys ...expr.OrderKey) *Read {
	for _, k := range keys {
		checkScope(k.Expr, r.source)
	}
	r.orderBy = append(r.orderBy, keys...)
	return r
}

// Limit sets the row cap; negative values are a construction error.
func (r *Read) Limit(n int) *Read {
	if n < 0 {
		panic(errs.New(errs.NegativeLimitOrOffset, "LIMIT must be >= 0, got %d", n))
	}
	r.limit = &n
	return r
}

// Offset sets the row skip; negative values are a construction error.
func (r *Read) Offset(n int) *Read {
	if n < 0 {
		panic(errs.New(errs.NegativeLimitOrOffset, "OFFSET must be >= 0, got %d", n))
	}
	r.offset = &n
	return r
}

// With prepends a common table expression, available to this Read and to
// CTEs declared after it (spec §4.2 supplement: CTEs).
func (r *Read) With(ctes ...*CTE) *Read {
	r.with = append(r.with, ctes...)
	return r
}

// Accessors used by the renderer.
func (r *Read) Selection() *Selection         { return r.selection }
func (r *Read) Source() TableSource           { return r.source }
func (r *Read) WhereExpr() expr.Expr          { return r.where }
func (r *Read) GroupByKeys() []expr.Expr      { return append([]expr.Expr(nil), r.groupBy...) }
func (r *Read) HavingExpr() expr.Expr         { return r.having }
func (r *Read) OrderByKeys() []expr.OrderKey  { return append([]expr.OrderKey(nil), r.orderBy...) }
func (r *Read) LimitValue() *int              { return r.limit }
func (r *Read) OffsetValue() *int             { return r.offset }
func (r *Read) IsDistinct() bool              { return r.distinct }
func (r *Read) CTEs() []*CTE                  { return append([]*CTE(nil), r.with...) }
func (r *Read) Literal() *LiteralRows         { return r.literal }

func requireBooleanPredicate(pred expr.Expr, clause string) {
	if !expr.LegalInPredicate(pred) {
		panic(errs.New(errs.TypeMismatch, "%s cannot contain a selection-only expression (e.g. a window function)", clause))
	}
	if pred.Type().Base().Kind() != types.Bool {
		panic(errs.New(errs.TypeMismatch, "%s requires a Boolean predicate, got %s", clause, pred.Type()))
	}
}

// checkGroupByLegality verifies every non-aggregated top-level selected
// expression is either an aggregation or a pure function of the grouping
// keys (spec §4.2/§8 property 6: "every expression in the selection is
// either aggregated or exclusively references columns in the grouping
// keys"). A bare literal, or any expression built only from literals and
// grouping-key columns, is legal even though it isn't one of the keys
// itself — e.g. a constant column, or CONCAT(first_name, last_name) when
// both are grouping keys.
func checkGroupByLegality(sel *Selection, groupBy []expr.Expr) {
	for _, e := range sel.Columns() {
		target := e
		if al, ok := e.(*expr.AliasedNode); ok {
			target = al.E
		}
		if target.Aggregated() {
			continue
		}
		if !referencesOnlyGroupKeys(target, groupBy) {
			panic(errs.New(errs.GroupByLegalityViolation, "selected expression is neither an aggregation nor exclusively built from GROUP BY keys"))
		}
	}
}

// referencesOnlyGroupKeys reports whether every ColumnRef reachable from e is
// identical to one of the grouping keys (or e itself is one) — i.e. e is a
// literal, a grouping key, or a pure function composed entirely of grouping
// keys and literals. An aggregation is always a pure function of the keys
// for this purpose, since it collapses to one value per group regardless of
// which columns it reads.
func referencesOnlyGroupKeys(e expr.Expr, groupBy []expr.Expr) bool {
	for _, k := range groupBy {
		if k == e {
			return true
		}
	}
	switch n := e.(type) {
	case *expr.LiteralNode:
		return true
	case *expr.ColumnRef:
		return false
	case *expr.AggregationNode:
		return true
	case *expr.AliasedNode:
		return referencesOnlyGroupKeys(n.E, groupBy)
	case *expr.UnaryNode:
		return referencesOnlyGroupKeys(n.E, groupBy)
	case *expr.BinaryNode:
		return referencesOnlyGroupKeys(n.Left, groupBy) && referencesOnlyGroupKeys(n.Right, groupBy)
	case *expr.FunctionNode:
		for _, a := range n.Args {
			if !referencesOnlyGroupKeys(a, groupBy) {
				return false
			}
		}
		return true
	case *expr.CaseNode:
		for _, b := range n.Branches {
			if !referencesOnlyGroupKeys(b.When, groupBy) || !referencesOnlyGroupKeys(b.Then, groupBy) {
				return false
			}
		}
		if n.Else != nil {
			return referencesOnlyGroupKeys(n.Else, groupBy)
		}
		return true
	case *expr.InNode:
		if !referencesOnlyGroupKeys(n.E, groupBy) {
			return false
		}
		for _, v := range n.Values {
			if !referencesOnlyGroupKeys(v, groupBy) {
				return false
			}
		}
		return true
	default:
		// InSubqueryNode, WindowNode, and anything else that isn't a pure
		// scalar function of its inputs: not a legal non-aggregated
		// GROUP BY selection target.
		return false
	}
}

// ---------------------------------------------------------------------------
// Set operations
// ---------------------------------------------------------------------------

type setOpKind string

const (
	noSetOp  setOpKind = ""
	unionOp  setOpKind = "UNION"
	unionAll setOpKind = "UNION ALL"
)

// Union combines two Reads, deduplicating rows; both sides must share an
// identical row shape (spec §4.2 set-operation shape equality).
func (r *Read) Union(other *Read) *Read {
	return combine(r, other, unionOp)
}

// UnionAll combines two Reads without deduplication.
func (r *Read) UnionAll(other *Read) *Read {
	return combine(r, other, unionAll)
}

func combine(left, right *Read, kind setOpKind) *Read {
	requireMatchingShape(left, right)
	return &Read{setOp: kind, setLeft: left, setRight: right}
}

func requireMatchingShape(left, right *Read) {
	ls, rs := readShape(left), readShape(right)
	if len(ls) != len(rs) {
		panic(errs.New(errs.ShapeMismatch, "set operation requires matching arity, got %d and %d", len(ls), len(rs)))
	}
	for i := range ls {
		if !ls[i].Base().Equal(rs[i].Base()) {
			panic(errs.New(errs.ShapeMismatch, "set operation column %d types differ: %s vs %s", i, ls[i], rs[i]))
		}
	}
}

func readShape(r *Read) []types.Tag {
	switch {
	case r.setOp != noSetOp:
		return readShape(r.setLeft)
	case r.literal != nil:
		return r.literal.shape
	case r.selection != nil:
		return r.selection.Shape()
	default:
		panic(errs.New(errs.EmptySelection, "Read has no selection to derive a row shape from"))
	}
}

// Shape returns the statically-known row type of this Read: one tag per
// selected/projected column, in order — what a caller hands to
// decode.Decode alongside the cursor this Read's rendered SQL produces.
func (r *Read) Shape() []types.Tag { return readShape(r) }

// SetOpKind exposes which set operation (if any) roots this tree.
func (r *Read) SetOpKind() string { return string(r.setOp) }
func (r *Read) SetLeft() *Read    { return r.setLeft }
func (r *Read) SetRight() *Read   { return r.setRight }

// ---------------------------------------------------------------------------
// Literal row source
// ---------------------------------------------------------------------------

// LiteralRows is an inline VALUES row source: a fixed shape and a list of
// rows, each matching the shape positionally.
type LiteralRows struct {
	shape []types.Tag
	rows  [][]expr.Expr
}

// Values builds a LiteralRows from one or more rows of literal expressions;
// every row must match the first row's shape.
func Values(rows ...[]expr.Expr) *LiteralRows {
	if len(rows) == 0 {
		panic(errs.New(errs.EmptySelection, "VALUES requires at least one row"))
	}
	shape := make([]types.Tag, len(rows[0]))
	for i, e := range rows[0] {
		shape[i] = e.Type()
	}
	for _, row := range rows[1:] {
		if len(row) != len(shape) {
			panic(errs.New(errs.ShapeMismatch, "VALUES rows must share arity, got %d and %d", len(shape), len(row)))
		}
		for i, e := range row {
			if !e.Type().Base().Equal(shape[i].Base()) {
				panic(errs.New(errs.ShapeMismatch, "VALUES column %d types differ across rows: %s vs %s", i, shape[i], e.Type()))
			}
		}
	}
	return &LiteralRows{shape: shape, rows: rows}
}

// Shape returns the row shape.
func (v *LiteralRows) Shape() []types.Tag { return append([]types.Tag(nil), v.shape...) }

// Rows returns the literal rows.
func (v *LiteralRows) Rows() [][]expr.Expr { return v.rows }

// InSelect builds `e IN (subquery)`, checking the subquery projects exactly
// one column of a type compatible with e.
func InSelect(e expr.Expr, subquery *Read) expr.Expr {
	shape := readShape(subquery)
	if len(shape) != 1 {
		panic(errs.New(errs.ShapeMismatch, "IN (subquery) requires a single-column subquery, got %d columns", len(shape)))
	}
	if !shape[0].Base().Equal(e.Type().Base()) {
		panic(errs.New(errs.TypeMismatch, "IN (subquery) column type %s is incompatible with %s", shape[0], e.Type()))
	}
	return &expr.InSubqueryNode{E: e, Subquery: subquery}
}

// NotInSelect builds `e NOT IN (subquery)`.
func NotInSelect(e expr.Expr, subquery *Read) expr.Expr {
	n := InSelect(e, subquery).(*expr.InSubqueryNode)
	n.Negate = true
	return n
}
