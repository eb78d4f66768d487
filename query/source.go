// Package query implements selections, table sources (base tables and join
// trees), and the four rooted statement trees (Read, Insert, Update,
// Delete) that spec.md §3/§4.4/§4.5 describe.
package query

import (
	"github.com/omniql-engine/sqlkit/errs"
	"github.com/omniql-engine/sqlkit/expr"
	"github.com/omniql-engine/sqlkit/schema"
)

// TableSource is satisfied structurally by *schema.Table, *Join, and
// *LiftedTable (spec §3: a table source is a base table or a join tree).
// *schema.Table implements Contains directly, so it may be passed straight
// to From without an adapter.
type TableSource interface {
	// Contains reports whether handle is reachable from this source — used
	// by the construction-time scope check for every ColumnRef.
	Contains(handle expr.TableHandle) bool
}

// JoinKind is the closed set of join kinds (spec §3).
type JoinKind string

const (
	Inner      JoinKind = "INNER"
	LeftOuter  JoinKind = "LEFT OUTER"
	RightOuter JoinKind = "RIGHT OUTER"
	FullOuter  JoinKind = "FULL OUTER"
)

// Join is a table source combining two sources under a Boolean predicate.
type Join struct {
	Kind  JoinKind
	Left  TableSource
	Right TableSource
	On    expr.Expr
}

func (j *Join) Contains(handle expr.TableHandle) bool {
	return j.Left.Contains(handle) || j.Right.Contains(handle)
}

// weakHandleSource is implemented by *Join; checkScope (query/selection.go)
// consults it to reject a non-lifted ColumnRef read through a weak side
// (spec §8 property 7: "construction of a non-nullable selection over an
// outer-joined right side fails"). No other TableSource is weak on its own.
type weakHandleSource interface {
	WeakHandles() []expr.TableHandle
}

// WeakHandles returns every TableHandle reachable only through the weak
// side(s) of this join tree: the right side of a LEFT OUTER join, the left
// side of a RIGHT OUTER join, and both sides of a FULL OUTER join (spec
// §4.4). A handle already weak inside a nested join stays weak regardless
// of how that join composes further up the tree — weakness only ever
// accumulates on the way up.
func (j *Join) WeakHandles() []expr.TableHandle {
	var out []expr.TableHandle
	if ws, ok := j.Left.(weakHandleSource); ok {
		out = append(out, ws.WeakHandles()...)
	}
	if ws, ok := j.Right.(weakHandleSource); ok {
		out = append(out, ws.WeakHandles()...)
	}
	switch j.Kind {
	case LeftOuter:
		out = append(out, collectHandles(j.Right)...)
	case RightOuter:
		out = append(out, collectHandles(j.Left)...)
	case FullOuter:
		out = append(out, collectHandles(j.Left)...)
		out = append(out, collectHandles(j.Right)...)
	}
	return out
}

// collectHandles gathers every base TableHandle reachable from src,
// regardless of weakness — used to resolve exactly which handles a join's
// weak side covers, whether or not the caller already wrapped that side in
// WeakSide at join-construction time.
func collectHandles(src TableSource) []expr.TableHandle {
	switch s := src.(type) {
	case *schema.Table:
		return []expr.TableHandle{s}
	case *LiftedTable:
		return []expr.TableHandle{s.Table}
	case *Join:
		return append(collectHandles(s.Left), collectHandles(s.Right)...)
	default:
		if name, ok := CTEName(src); ok {
			return []expr.TableHandle{cteHandle{name: name}}
		}
		return nil
	}
}

// JoinOn builds a join tree node, checking the predicate is Boolean.
func JoinOn(kind JoinKind, left, right TableSource, on expr.Expr) *Join {
	requireBooleanOn(on)
	return &Join{Kind: kind, Left: left, Right: right, On: on}
}

func requireBooleanOn(on expr.Expr) {
	base := on.Type().Base()
	if base.String() != "Bool" {
		panic(errs.New(errs.TypeMismatch, "join ON clause must be Boolean, got %s", on.Type()))
	}
}

// WeakSide wraps t so every column bound through it reports a Nullable(τ)
// Type() regardless of t's declared τ (spec §4.4: "Outer-join types drive
// Nullable lifting at the decode-shape level"). It does not mutate t; it
// returns a thin overlay consulted only for ColumnRef.Type() lookups
// performed while building the selection that reads this join.
//
// Lifting happens at column-reference construction time, but it is not
// merely a convenience: checkScope (query/selection.go) independently
// derives, from a join's Kind, exactly which TableHandles sit on a weak
// side (*Join.WeakHandles) and panics with errs.UnliftedWeakSideColumn if a
// selection/WHERE/GROUP BY/ORDER BY reaches one of those handles through a
// non-lifted ColumnRef — so a caller cannot bypass lifting by reaching the
// weak-side table directly instead of through WeakSide (spec §8 property 7:
// "construction of a non-nullable selection over an outer-joined right side
// fails").
func WeakSide(t *schema.Table) *LiftedTable {
	return &LiftedTable{Table: t}
}

// LiftedTable wraps a *schema.Table so that every binding produced through
// it is Nullable-lifted, for use on the weak side of an outer join.
type LiftedTable struct {
	Table *schema.Table
}

func (l *LiftedTable) RelationName() string  { return l.Table.RelationName() }
func (l *LiftedTable) RelationAlias() string { return l.Table.RelationAlias() }

// Col returns a Nullable-lifted column reference.
func (l *LiftedTable) Col(name string) *expr.ColumnRef {
	return l.Table.Col(name).WithLift()
}

func (l *LiftedTable) Contains(handle expr.TableHandle) bool {
	return handle == expr.TableHandle(l.Table)
}
