package query

import (
	"github.com/omniql-engine/sqlkit/errs"
	"github.com/omniql-engine/sqlkit/expr"
	"github.com/omniql-engine/sqlkit/types"
)

// Selection is the ordered, heterogeneous list of expressions a Read
// statement projects. Its Shape mirrors the row type a decoder will later
// read column-by-column in the same order (spec §4.1/§4.7 — the row shape is
// a flat ordered sequence of tags, the Go-idiomatic rendering of the
// original's right-nested-tuple shape).
type Selection struct {
	items []expr.Expr
}

// Select builds a selection from one or more expressions. Window functions
// are legal here even though legalInPredicate is false for them — Select
// does not route through the predicate gate.
func Select(items ...expr.Expr) *Selection {
	if len(items) == 0 {
		panic(errs.New(errs.ArityMismatch, "selection requires at least one expression"))
	}
	return &Selection{items: append([]expr.Expr(nil), items...)}
}

// Columns returns the selection's expressions in declaration order.
func (s *Selection) Columns() []expr.Expr {
	return append([]expr.Expr(nil), s.items...)
}

// Len reports the selection's width.
func (s *Selection) Len() int { return len(s.items) }

// Shape returns the per-slot row type, in order.
func (s *Selection) Shape() []types.Tag {
	shape := make([]types.Tag, len(s.items))
	for i, e := range s.items {
		shape[i] = e.Type()
	}
	return shape
}

// HasAggregate reports whether any top-level expression is (or contains) an
// aggregation — used to decide whether a bare SELECT without GROUP BY is a
// single-row aggregate projection (spec §4.2).
func (s *Selection) HasAggregate() bool {
	for _, e := range s.items {
		if e.Aggregated() {
			return true
		}
	}
	return false
}

// checkScope verifies every ColumnRef reachable from e is bound to a table
// present in src (spec §3 invariant I-SCOPE in spirit, named here by what it
// checks rather than by tag), and that no ColumnRef reaches a weak (outer
// join) side of src without first being Nullable-lifted via WeakSide (spec
// §8 property 7).
func checkScope(e expr.Expr, src TableSource) {
	checkScopeWeak(e, src, weakHandleSet(src))
}

// weakHandleSet collects src's weak TableHandles (query/source.go's
// *Join.WeakHandles) into a set for O(1) membership checks during the walk.
// Non-join sources (a bare *schema.Table, a *LiftedTable) are never weak on
// their own, so this returns nil for them — and a nil map read always
// reports false, so checkScopeWeak needs no separate nil-guard.
func weakHandleSet(src TableSource) map[expr.TableHandle]bool {
	ws, ok := src.(weakHandleSource)
	if !ok {
		return nil
	}
	handles := ws.WeakHandles()
	if len(handles) == 0 {
		return nil
	}
	set := make(map[expr.TableHandle]bool, len(handles))
	for _, h := range handles {
		set[h] = true
	}
	return set
}

func checkScopeWeak(e expr.Expr, src TableSource, weak map[expr.TableHandle]bool) {
	switch n := e.(type) {
	case *expr.ColumnRef:
		if !src.Contains(n.Table) {
			panic(errs.New(errs.UnboundColumn, "column %q is not reachable from this statement's table source", n.Name))
		}
		if weak[n.Table] && !n.Lifted {
			panic(errs.New(errs.UnliftedWeakSideColumn, "column %q is read through the weak side of an outer join and must be bound via WeakSide(table) so it is Nullable-lifted", n.Name))
		}
	case *expr.UnaryNode:
		checkScopeWeak(n.E, src, weak)
	case *expr.BinaryNode:
		checkScopeWeak(n.Left, src, weak)
		checkScopeWeak(n.Right, src, weak)
	case *expr.InNode:
		checkScopeWeak(n.E, src, weak)
		for _, v := range n.Values {
			checkScopeWeak(v, src, weak)
		}
	case *expr.InSubqueryNode:
		checkScopeWeak(n.E, src, weak)
	case *expr.FunctionNode:
		for _, a := range n.Args {
			checkScopeWeak(a, src, weak)
		}
	case *expr.AggregationNode:
		if n.E != nil {
			checkScopeWeak(n.E, src, weak)
		}
	case *expr.CaseNode:
		for _, b := range n.Branches {
			checkScopeWeak(b.When, src, weak)
			checkScopeWeak(b.Then, src, weak)
		}
		if n.Else != nil {
			checkScopeWeak(n.Else, src, weak)
		}
	case *expr.AliasedNode:
		checkScopeWeak(n.E, src, weak)
	case *expr.WindowNode:
		if n.Arg != nil {
			checkScopeWeak(n.Arg, src, weak)
		}
		for _, p := range n.PartitionBy {
			checkScopeWeak(p, src, weak)
		}
		for _, o := range n.OrderBy {
			checkScopeWeak(o.Expr, src, weak)
		}
	case *expr.LiteralNode:
		// no columns to check
	}
}
