package expr

import (
	"github.com/omniql-engine/sqlkit/errs"
	"github.com/omniql-engine/sqlkit/types"
)

// UnaryOp is the closed set of unary operators.
type UnaryOp string

const (
	Neg       UnaryOp = "-"
	Not       UnaryOp = "NOT"
	IsNullOp  UnaryOp = "IS NULL"
	IsNotNull UnaryOp = "IS NOT NULL"
)

// UnaryNode applies a prefix/suffix unary operator to one operand.
type UnaryNode struct {
	Op  UnaryOp
	E   Expr
	tag types.Tag
}

func (n *UnaryNode) Type() types.Tag        { return n.tag }
func (n *UnaryNode) Aggregated() bool       { return n.E.Aggregated() }
func (n *UnaryNode) legalInPredicate() bool { return true }

// UnaryExpr applies a unary operator, checking operand legality per spec §4.3.
func UnaryExpr(op UnaryOp, e Expr) Expr {
	switch op {
	case Neg:
		if !e.Type().IsNumeric() {
			panic(errs.New(errs.TypeMismatch, "unary %s requires a numeric operand, got %s", op, e.Type()))
		}
		return &UnaryNode{Op: op, E: e, tag: e.Type()}
	case Not:
		requireBoolean(e, "NOT")
		return &UnaryNode{Op: op, E: e, tag: types.TBool()}
	default:
		panic(errs.New(errs.TypeMismatch, "unknown unary operator %s", op))
	}
}

// IsNull / IsNotNull accept any Nullable(τ) operand.
func IsNull(e Expr) Expr {
	if !e.Type().IsNullable() {
		panic(errs.New(errs.TypeMismatch, "IS NULL requires a Nullable operand, got %s", e.Type()))
	}
	return &UnaryNode{Op: IsNullOp, E: e, tag: types.TBool()}
}

func IsNotNullExpr(e Expr) Expr {
	if !e.Type().IsNullable() {
		panic(errs.New(errs.TypeMismatch, "IS NOT NULL requires a Nullable operand, got %s", e.Type()))
	}
	return &UnaryNode{Op: IsNotNull, E: e, tag: types.TBool()}
}

// BinaryOp is the closed set of binary operators.
type BinaryOp string

const (
	Add BinaryOp = "+"
	Sub BinaryOp = "-"
	Mul BinaryOp = "*"
	Div BinaryOp = "/"
	Mod BinaryOp = "%"

	Eq  BinaryOp = "="
	Neq BinaryOp = "<>"
	Lt  BinaryOp = "<"
	Lte BinaryOp = "<="
	Gt  BinaryOp = ">"
	Gte BinaryOp = ">="

	And BinaryOp = "AND"
	Or  BinaryOp = "OR"

	Like BinaryOp = "LIKE"
)

// BinaryNode applies a binary operator to two operands.
type BinaryNode struct {
	Op          BinaryOp
	Left, Right Expr
	tag         types.Tag
}

func (n *BinaryNode) Type() types.Tag        { return n.tag }
func (n *BinaryNode) Aggregated() bool       { return n.Left.Aggregated() || n.Right.Aggregated() }
func (n *BinaryNode) legalInPredicate() bool { return true }

func isArithmetic(op BinaryOp) bool {
	switch op {
	case Add, Sub, Mul, Div, Mod:
		return true
	}
	return false
}

func isComparison(op BinaryOp) bool {
	switch op {
	case Eq, Neq, Lt, Lte, Gt, Gte:
		return true
	}
	return false
}

// nullableCompatible reports whether a and b may be compared: equal base
// type, Nullable wrapping on either or both sides allowed.
func nullableCompatible(a, b types.Tag) bool {
	return a.Base().Equal(b.Base())
}

// Binary applies a binary operator, checking operand legality per spec §4.3:
// arithmetic over numeric (every arithmetic result is typed Double, whatever
// the numeric operand kinds), comparisons over
// equal/Nullable-compatible types, logical AND/OR over Boolean, LIKE over
// String.
func Binary(op BinaryOp, left, right Expr) Expr {
	switch {
	case isArithmetic(op):
		if !left.Type().IsNumeric() || !right.Type().IsNumeric() {
			panic(errs.New(errs.TypeMismatch, "arithmetic %s requires numeric operands, got %s and %s", op, left.Type(), right.Type()))
		}
		return &BinaryNode{Op: op, Left: left, Right: right, tag: types.TDouble()}
	case isComparison(op):
		if !nullableCompatible(left.Type(), right.Type()) {
			panic(errs.New(errs.TypeMismatch, "comparison %s requires compatible operand types, got %s and %s", op, left.Type(), right.Type()))
		}
		return &BinaryNode{Op: op, Left: left, Right: right, tag: types.TBool()}
	case op == And || op == Or:
		requireBoolean(left, string(op))
		requireBoolean(right, string(op))
		return &BinaryNode{Op: op, Left: left, Right: right, tag: types.TBool()}
	case op == Like:
		requireString(left, "LIKE")
		requireString(right, "LIKE")
		return &BinaryNode{Op: op, Left: left, Right: right, tag: types.TBool()}
	default:
		panic(errs.New(errs.TypeMismatch, "unknown binary operator %s", op))
	}
}

func requireBoolean(e Expr, ctx string) {
	if !e.Type().Base().Equal(types.TBool()) {
		panic(errs.New(errs.TypeMismatch, "%s requires a Boolean operand, got %s", ctx, e.Type()))
	}
}

func requireString(e Expr, ctx string) {
	if !e.Type().Base().Equal(types.TString()) {
		panic(errs.New(errs.TypeMismatch, "%s requires a String operand, got %s", ctx, e.Type()))
	}
}

// Operator method sugar mirroring the public API sketch in spec §6.
func (c *ColumnRef) Eq(other Expr) Expr  { return Binary(Eq, c, other) }
func (c *ColumnRef) Neq(other Expr) Expr { return Binary(Neq, c, other) }
func (c *ColumnRef) Lt(other Expr) Expr  { return Binary(Lt, c, other) }
func (c *ColumnRef) Gt(other Expr) Expr  { return Binary(Gt, c, other) }
func (c *ColumnRef) Asc() OrderKey        { return OrderKey{Expr: c, Direction: Ascending} }
func (c *ColumnRef) Desc() OrderKey       { return OrderKey{Expr: c, Direction: Descending} }

// InNode builds `e IN (values...)`, a Boolean, possibly-Nullable expression
// (spec §8 boundary behavior: NULL IN (...) is Boolean-Nullable, not false).
type InNode struct {
	E      Expr
	Values []Expr
	Negate bool
}

func (n *InNode) Type() types.Tag {
	if n.E.Type().IsNullable() {
		return types.Nullable(types.TBool())
	}
	return types.TBool()
}
func (n *InNode) Aggregated() bool       { return n.E.Aggregated() }
func (n *InNode) legalInPredicate() bool { return true }

func In(e Expr, values ...Expr) Expr {
	for _, v := range values {
		if !nullableCompatible(e.Type(), v.Type()) {
			panic(errs.New(errs.TypeMismatch, "IN requires operands compatible with %s, got %s", e.Type(), v.Type()))
		}
	}
	return &InNode{E: e, Values: values}
}

func NotIn(e Expr, values ...Expr) Expr {
	n := In(e, values...).(*InNode)
	n.Negate = true
	return n
}

// InSubqueryNode builds `e IN (subquery)`. The subquery is represented as an
// opaque Renderable (query.Read implements it) to avoid an import cycle
// between expr and query; its selection shape must be exactly one column,
// checked by the caller (query.InSelect) which does have visibility into
// the Read tree.
type InSubqueryNode struct {
	E        Expr
	Subquery Renderable
	Negate   bool
}

// Renderable is implemented by query.Read so expr.InSubqueryNode can hold a
// subquery without expr importing query.
type Renderable interface {
	RenderableMarker()
}

func (n *InSubqueryNode) Type() types.Tag {
	if n.E.Type().IsNullable() {
		return types.Nullable(types.TBool())
	}
	return types.TBool()
}
func (n *InSubqueryNode) Aggregated() bool       { return n.E.Aggregated() }
func (n *InSubqueryNode) legalInPredicate() bool { return true }

// OrderDirection is ASC or DESC.
type OrderDirection string

const (
	Ascending  OrderDirection = "ASC"
	Descending OrderDirection = "DESC"
)

// NullsOrdering optionally pins NULLS FIRST/LAST.
type NullsOrdering string

const (
	NullsDefault NullsOrdering = ""
	NullsFirst   NullsOrdering = "NULLS FIRST"
	NullsLast    NullsOrdering = "NULLS LAST"
)

// OrderKey is one ORDER BY key: an expression, a direction, and an optional
// NULLS ordering.
type OrderKey struct {
	Expr      Expr
	Direction OrderDirection
	Nulls     NullsOrdering
}

// WithNulls returns a copy of the order key with NULLS ordering pinned.
func (k OrderKey) WithNulls(n NullsOrdering) OrderKey {
	k.Nulls = n
	return k
}

// Asc / Desc build an OrderKey from any expression.
func Asc(e Expr) OrderKey  { return OrderKey{Expr: e, Direction: Ascending} }
func Desc(e Expr) OrderKey { return OrderKey{Expr: e, Direction: Descending} }
