// Package expr implements the typed expression algebra: literals, column
// references, operators, function applications, aggregations, CASE/COALESCE,
// and the composition rules that keep operands type-compatible.
package expr

import (
	"github.com/omniql-engine/sqlkit/errs"
	"github.com/omniql-engine/sqlkit/types"
)

// TableHandle is the minimal surface a ColumnRef needs from whatever bound
// a column set to a name. schema.Table satisfies this structurally — expr
// never imports schema, which is what keeps schema -> expr a one-way edge
// (schema.Table's bindings are *expr.ColumnRef values).
type TableHandle interface {
	RelationName() string
	RelationAlias() string
}

// Expr is any node in the expression tree. Every node knows its own output
// type tag. legalInPredicate distinguishes plain scalar expressions (legal
// in WHERE/HAVING) from selection-only constructs like window functions.
type Expr interface {
	Type() types.Tag
	Aggregated() bool
	legalInPredicate() bool
}

// Predicate is a Boolean-typed Expr, the type WHERE/HAVING/ON require.
type Predicate = Expr

// LegalInPredicate reports whether e's top-level node may appear as a
// WHERE/HAVING predicate (a window function or an alias may not). Child
// nodes are not inspected.
func LegalInPredicate(e Expr) bool { return e.legalInPredicate() }

// ---------------------------------------------------------------------------
// Literal
// ---------------------------------------------------------------------------

// LiteralNode is a constant of a fixed type tag.
type LiteralNode struct {
	Val types.Value
}

func (n *LiteralNode) Type() types.Tag        { return n.Val.Tag }
func (n *LiteralNode) Aggregated() bool       { return false }
func (n *LiteralNode) legalInPredicate() bool { return true }

// Lit constructs a non-null literal expression, inferring its tag from the
// Go value's shape. Use LitAs to pin the tag explicitly (e.g. a String
// literal that happens to look numeric, or a DialectSpecific literal).
func Lit(v any) Expr {
	tag := inferTag(v)
	return &LiteralNode{Val: types.Lit(tag, v)}
}

// LitAs constructs a literal of an explicit tag.
func LitAs(tag types.Tag, v any) Expr {
	return &LiteralNode{Val: types.Lit(tag, v)}
}

// Null constructs the NULL literal of Nullable(tag).
func Null(tag types.Tag) Expr {
	return &LiteralNode{Val: types.NullOf(types.Nullable(tag))}
}

func inferTag(v any) types.Tag {
	switch v.(type) {
	case bool:
		return types.TBool()
	case int8:
		return types.TByte()
	case int16:
		return types.TShort()
	case int32, int:
		return types.TInt()
	case int64:
		return types.TLong()
	case float32:
		return types.TFloat()
	case float64:
		return types.TDouble()
	case string:
		return types.TString()
	case []byte:
		return types.TByteArray()
	default:
		panic(errs.New(errs.TypeMismatch, "cannot infer a type tag for %T; use LitAs", v))
	}
}

// ---------------------------------------------------------------------------
// Column reference
// ---------------------------------------------------------------------------

// ColumnRef references a single column of a specific table instance.
type ColumnRef struct {
	Table TableHandle
	Name  string
	Tag   types.Tag
	// Lifted is set by the join algebra when this column is read through
	// the weak side of an outer join; its effective decode-shape type is
	// Nullable(Tag) even though the declared column type is not.
	Lifted bool
}

func (c *ColumnRef) Type() types.Tag {
	if c.Lifted && !c.Tag.IsNullable() {
		return types.Nullable(c.Tag)
	}
	return c.Tag
}
func (c *ColumnRef) Aggregated() bool       { return false }
func (c *ColumnRef) legalInPredicate() bool { return true }

// WithLift returns a copy of the column reference lifted to Nullable, used
// by the join algebra.
func (c *ColumnRef) WithLift() *ColumnRef {
	cp := *c
	cp.Lifted = true
	return &cp
}
