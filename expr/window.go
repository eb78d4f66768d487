package expr

import (
	"github.com/omniql-engine/sqlkit/errs"
	"github.com/omniql-engine/sqlkit/types"
)

// WindowFunc is the closed set of window functions supplemented from the
// teacher's models.WindowFunction / mapping.WindowFunctions tables (dropped
// by spec.md's distillation, see SPEC_FULL §3).
type WindowFunc string

const (
	RowNumber WindowFunc = "ROW_NUMBER"
	Rank      WindowFunc = "RANK"
	DenseRank WindowFunc = "DENSE_RANK"
	Lag       WindowFunc = "LAG"
	Lead      WindowFunc = "LEAD"
	Ntile     WindowFunc = "NTILE"
)

// WindowNode is a window function application for use in a selection.
// legalInPredicate returns false, so query.Read's WHERE/HAVING builders
// panic when a WindowNode is the predicate itself. That check looks only at
// the predicate's top-level node: a window function nested inside an
// operator or function is not detected, and JOIN ... ON predicates are not
// checked at all.
type WindowNode struct {
	Fn          WindowFunc
	Arg         Expr // operand for LAG/LEAD; nil for ROW_NUMBER/RANK/DENSE_RANK
	PartitionBy []Expr
	OrderBy     []OrderKey
	Offset      int // LAG/LEAD, default 1
	Buckets     int // NTILE
	tag         types.Tag
}

func (n *WindowNode) Type() types.Tag        { return n.tag }
func (n *WindowNode) Aggregated() bool       { return false }
func (n *WindowNode) legalInPredicate() bool { return false }

// Window builds a window function expression over the given PARTITION BY
// and ORDER BY keys.
func Window(fn WindowFunc, arg Expr, partitionBy []Expr, orderBy []OrderKey) Expr {
	w := &WindowNode{Fn: fn, PartitionBy: partitionBy, OrderBy: orderBy, Offset: 1}
	switch fn {
	case RowNumber, Rank, DenseRank:
		w.tag = types.TLong()
	case Lag, Lead:
		if arg == nil {
			panic(errs.New(errs.ArityMismatch, "%s requires an argument", fn))
		}
		w.Arg = arg
		w.tag = types.Nullable(arg.Type().Base())
	case Ntile:
		w.tag = types.TLong()
	default:
		panic(errs.New(errs.TypeMismatch, "unknown window function %s", fn))
	}
	return w
}

// WithOffset sets the LAG/LEAD offset (default 1).
func (n *WindowNode) WithOffset(offset int) *WindowNode {
	n.Offset = offset
	return n
}

// WithBuckets sets the NTILE bucket count.
func (n *WindowNode) WithBuckets(buckets int) *WindowNode {
	n.Buckets = buckets
	return n
}
