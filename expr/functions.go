package expr

import (
	"github.com/omniql-engine/sqlkit/errs"
	"github.com/omniql-engine/sqlkit/types"
)

// FunctionNode is a SQL function application. The core ships a neutral
// baseline of function signatures (spec §4.3); there is no registration
// hook for further functions, and Func rejects any name outside that table.
type FunctionNode struct {
	Name string
	Args []Expr
	tag  types.Tag
}

func (n *FunctionNode) Type() types.Tag { return n.tag }
func (n *FunctionNode) Aggregated() bool {
	for _, a := range n.Args {
		if a.Aggregated() {
			return true
		}
	}
	return false
}
func (n *FunctionNode) legalInPredicate() bool { return true }

// baselineFunctions is the neutral function-signature table the core ships:
// name -> (expected arg count, -1 for variadic; result tag picker).
type fnSig struct {
	arity  int // -1 = variadic, >=1 required args
	result func(args []Expr) types.Tag
}

var baselineFunctions = map[string]fnSig{
	"ABS":       {1, sameAsArg0},
	"CEIL":      {1, alwaysDouble},
	"FLOOR":     {1, alwaysDouble},
	"ROUND":     {1, alwaysDouble},
	"LN":        {1, alwaysDouble},
	"LOG":       {1, alwaysDouble},
	"SIN":       {1, alwaysDouble},
	"COS":       {1, alwaysDouble},
	"SQRT":      {1, alwaysDouble},
	"LOWER":     {1, alwaysString},
	"UPPER":     {1, alwaysString},
	"TRIM":      {1, alwaysString},
	"LENGTH":    {1, alwaysLong},
	"SUBSTRING": {-1, alwaysString},
	"CONCAT":    {-1, alwaysString},
	"COALESCE":  {-1, coalesceResult},
}

func sameAsArg0(args []Expr) types.Tag { return args[0].Type() }
func alwaysDouble(args []Expr) types.Tag { return types.TDouble() }
func alwaysString(args []Expr) types.Tag { return types.TString() }
func alwaysLong(args []Expr) types.Tag   { return types.TLong() }

// coalesceResult: COALESCE(e1, e2, ...) is Nullable only if every argument is
// Nullable; its base type is the (unified) base type of the arguments.
func coalesceResult(args []Expr) types.Tag {
	base := args[0].Type().Base()
	allNullable := true
	for _, a := range args {
		if !a.Type().Base().Equal(base) {
			panic(errs.New(errs.TypeMismatch, "COALESCE arguments must share a base type, got %s and %s", base, a.Type()))
		}
		if !a.Type().IsNullable() {
			allNullable = false
		}
	}
	if allNullable {
		return types.Nullable(base)
	}
	return base
}

// Func applies a baseline function by name. Names are matched exactly, so
// callers pass the canonical upper-case name.
func Func(name string, args ...Expr) Expr {
	sig, ok := baselineFunctions[name]
	if !ok {
		panic(errs.New(errs.TypeMismatch, "unknown baseline function %q", name))
	}
	if sig.arity >= 0 {
		if len(args) == 0 {
			panic(errs.New(errs.ArityMismatch, "%s requires at least one argument", name))
		}
		if sig.arity != -1 && len(args) != sig.arity {
			panic(errs.New(errs.ArityMismatch, "%s expects %d argument(s), got %d", name, sig.arity, len(args)))
		}
	}
	return &FunctionNode{Name: name, Args: args, tag: sig.result(args)}
}

// Convenience wrappers for the baseline function table.
func Abs(e Expr) Expr              { return Func("ABS", e) }
func Ceil(e Expr) Expr             { return Func("CEIL", e) }
func Floor(e Expr) Expr            { return Func("FLOOR", e) }
func Round(e Expr) Expr            { return Func("ROUND", e) }
func Lower(e Expr) Expr            { return Func("LOWER", e) }
func Upper(e Expr) Expr            { return Func("UPPER", e) }
func Trim(e Expr) Expr             { return Func("TRIM", e) }
func Length(e Expr) Expr           { return Func("LENGTH", e) }
func Concat(args ...Expr) Expr     { return Func("CONCAT", args...) }
func Coalesce(args ...Expr) Expr   { return Func("COALESCE", args...) }
func Substring(args ...Expr) Expr  { return Func("SUBSTRING", args...) }

// ---------------------------------------------------------------------------
// Aggregations
// ---------------------------------------------------------------------------

// AggFunc is the closed set of aggregation functions.
type AggFunc string

const (
	Sum           AggFunc = "SUM"
	Avg           AggFunc = "AVG"
	Count         AggFunc = "COUNT"
	Min           AggFunc = "MIN"
	Max           AggFunc = "MAX"
	CountDistinct AggFunc = "COUNT_DISTINCT"
)

// AggregationNode is itself an Expr and thus may be Aliased.
type AggregationNode struct {
	Fn  AggFunc
	E   Expr // nil for COUNT(*)
	tag types.Tag
}

func (n *AggregationNode) Type() types.Tag        { return n.tag }
func (n *AggregationNode) Aggregated() bool       { return true }
func (n *AggregationNode) legalInPredicate() bool { return true }

// Agg builds an aggregation. e may be nil only for Count (COUNT(*)).
func Agg(fn AggFunc, e Expr) Expr {
	switch fn {
	case Sum:
		requireNumericForAgg(e, fn)
		return &AggregationNode{Fn: fn, E: e, tag: e.Type()}
	case Avg:
		requireNumericForAgg(e, fn)
		return &AggregationNode{Fn: fn, E: e, tag: types.TDouble()}
	case Count, CountDistinct:
		if fn == CountDistinct && e == nil {
			panic(errs.New(errs.ArityMismatch, "%s requires an argument", fn))
		}
		return &AggregationNode{Fn: fn, E: e, tag: types.TLong()}
	case Min, Max:
		if e == nil {
			panic(errs.New(errs.ArityMismatch, "%s requires an argument", fn))
		}
		return &AggregationNode{Fn: fn, E: e, tag: e.Type()}
	default:
		panic(errs.New(errs.TypeMismatch, "unknown aggregation function %s", fn))
	}
}

func requireNumericForAgg(e Expr, fn AggFunc) {
	if e == nil || !e.Type().IsNumeric() {
		panic(errs.New(errs.TypeMismatch, "%s requires a numeric argument", fn))
	}
}

// CountAll builds COUNT(*) — returns 0 on empty input, not NULL (spec §8).
func CountAll() Expr { return &AggregationNode{Fn: Count, E: nil, tag: types.TLong()} }

// ---------------------------------------------------------------------------
// CASE / Aliased
// ---------------------------------------------------------------------------

// CaseBranch is one WHEN predicate THEN value pair.
type CaseBranch struct {
	When Expr // Boolean
	Then Expr
}

// CaseNode is a CASE expression; all branch values and Else unify to one type.
type CaseNode struct {
	Branches []CaseBranch
	Else     Expr
	tag      types.Tag
}

func (n *CaseNode) Type() types.Tag { return n.tag }
func (n *CaseNode) Aggregated() bool {
	for _, b := range n.Branches {
		if b.When.Aggregated() || b.Then.Aggregated() {
			return true
		}
	}
	return n.Else != nil && n.Else.Aggregated()
}
func (n *CaseNode) legalInPredicate() bool { return true }

// Case builds a CASE expression; requires at least one branch, and every
// branch predicate to be Boolean and every value (and Else, if present) to
// share a base type.
func Case(branches []CaseBranch, elseVal Expr) Expr {
	if len(branches) == 0 {
		panic(errs.New(errs.ArityMismatch, "CASE requires at least one WHEN branch"))
	}
	base := branches[0].Then.Type().Base()
	anyNullable := branches[0].Then.Type().IsNullable()
	for _, b := range branches {
		requireBoolean(b.When, "CASE WHEN")
		if !b.Then.Type().Base().Equal(base) {
			panic(errs.New(errs.TypeMismatch, "CASE branch values must unify, got %s and %s", base, b.Then.Type()))
		}
		if b.Then.Type().IsNullable() {
			anyNullable = true
		}
	}
	if elseVal != nil {
		if !elseVal.Type().Base().Equal(base) {
			panic(errs.New(errs.TypeMismatch, "CASE ELSE value must unify with branch type %s, got %s", base, elseVal.Type()))
		}
		if elseVal.Type().IsNullable() {
			anyNullable = true
		}
	} else {
		anyNullable = true // no ELSE means an implicit NULL branch
	}
	tag := base
	if anyNullable {
		tag = types.Nullable(base)
	}
	return &CaseNode{Branches: branches, Else: elseVal, tag: tag}
}

// AliasedNode wraps an expression with a selection-level label. The renderer
// emits the AS label only for a top-level selection item; an AliasedNode
// nested inside another expression renders as its wrapped expression, and
// nothing rejects such nesting at construction.
type AliasedNode struct {
	E     Expr
	Label string
}

func (n *AliasedNode) Type() types.Tag        { return n.E.Type() }
func (n *AliasedNode) Aggregated() bool       { return n.E.Aggregated() }
func (n *AliasedNode) legalInPredicate() bool { return false }

// As aliases an expression for use at selection top-level.
func As(e Expr, label string) Expr {
	return &AliasedNode{E: e, Label: label}
}
