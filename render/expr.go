package render

import (
	"fmt"
	"strings"

	"github.com/omniql-engine/sqlkit/errs"
	"github.com/omniql-engine/sqlkit/expr"
	"github.com/omniql-engine/sqlkit/query"
)

// precedence levels, low to high — mirrors standard SQL operator binding
// (OR weakest, unary/function calls strongest). A child is parenthesized
// only when its own precedence is lower than its parent's.
const (
	precLowest = iota
	precOr
	precAnd
	precNot
	precComparison
	precLike
	precAdditive
	precMultiplicative
	precUnary
	precAtom
)

func precedenceOf(e expr.Expr) int {
	switch n := e.(type) {
	case *expr.BinaryNode:
		switch n.Op {
		case expr.Or:
			return precOr
		case expr.And:
			return precAnd
		case expr.Eq, expr.Neq, expr.Lt, expr.Lte, expr.Gt, expr.Gte:
			return precComparison
		case expr.Like:
			return precLike
		case expr.Add, expr.Sub:
			return precAdditive
		case expr.Mul, expr.Div, expr.Mod:
			return precMultiplicative
		}
	case *expr.UnaryNode:
		if n.Op == expr.Not {
			return precNot
		}
		return precUnary
	case *expr.InNode, *expr.InSubqueryNode:
		return precComparison
	}
	return precAtom
}

func (r *renderer) renderExpr(e expr.Expr, parentPrec int) (string, error) {
	s, prec, err := r.renderExprPrec(e)
	if err != nil {
		return "", err
	}
	if prec < parentPrec {
		return "(" + s + ")", nil
	}
	return s, nil
}

func (r *renderer) renderExprPrec(e expr.Expr) (string, int, error) {
	prec := precedenceOf(e)
	switch n := e.(type) {
	case *expr.LiteralNode:
		sql, ok := r.d.RenderLiteral(n.Val)
		if !ok {
			return "", 0, errs.New(errs.UnsupportedForDialect, "dialect %s cannot render a literal of type %s", r.d.Name(), n.Val.Tag)
		}
		return sql, precAtom, nil

	case *expr.ColumnRef:
		return r.renderColumnRef(n), precAtom, nil

	case *expr.UnaryNode:
		operand, err := r.renderExpr(n.E, prec)
		if err != nil {
			return "", 0, err
		}
		switch n.Op {
		case expr.Neg:
			return "-" + operand, prec, nil
		case expr.Not:
			return "NOT " + operand, prec, nil
		case expr.IsNullOp:
			return operand + " IS NULL", prec, nil
		case expr.IsNotNull:
			return operand + " IS NOT NULL", prec, nil
		}
		return "", 0, errs.New(errs.UnsupportedForDialect, "unknown unary operator %s", n.Op)

	case *expr.BinaryNode:
		left, err := r.renderExpr(n.Left, prec)
		if err != nil {
			return "", 0, err
		}
		// Left-associate same-precedence chains without extra parens, but
		// protect the right operand of non-associative operators (-, /, %).
		rightPrec := prec
		if n.Op == expr.Sub || n.Op == expr.Div || n.Op == expr.Mod {
			rightPrec = prec + 1
		}
		right, err := r.renderExpr(n.Right, rightPrec)
		if err != nil {
			return "", 0, err
		}
		return fmt.Sprintf("%s %s %s", left, n.Op, right), prec, nil

	case *expr.InNode:
		left, err := r.renderExpr(n.E, precUnary)
		if err != nil {
			return "", 0, err
		}
		vals := make([]string, len(n.Values))
		for i, v := range n.Values {
			s, err := r.renderExpr(v, precLowest)
			if err != nil {
				return "", 0, err
			}
			vals[i] = s
		}
		kw := "IN"
		if n.Negate {
			kw = "NOT IN"
		}
		return fmt.Sprintf("%s %s (%s)", left, kw, strings.Join(vals, ", ")), prec, nil

	case *expr.InSubqueryNode:
		left, err := r.renderExpr(n.E, precUnary)
		if err != nil {
			return "", 0, err
		}
		sub, ok := n.Subquery.(*query.Read)
		if !ok {
			return "", 0, errs.New(errs.UnsupportedForDialect, "render: IN (subquery) requires a *query.Read subquery")
		}
		var b strings.Builder
		if err := r.renderRead(&b, sub); err != nil {
			return "", 0, err
		}
		kw := "IN"
		if n.Negate {
			kw = "NOT IN"
		}
		return fmt.Sprintf("%s %s (%s)", left, kw, b.String()), prec, nil

	case *expr.FunctionNode:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			s, err := r.renderExpr(a, precLowest)
			if err != nil {
				return "", 0, err
			}
			args[i] = s
		}
		sql, ok := r.d.RenderFunction(n.Name, args)
		if !ok {
			return "", 0, errs.New(errs.UnsupportedForDialect, "dialect %s has no equivalent for function %s", r.d.Name(), n.Name)
		}
		return sql, precAtom, nil

	case *expr.AggregationNode:
		return r.renderAggregation(n)

	case *expr.CaseNode:
		return r.renderCase(n)

	case *expr.WindowNode:
		return r.renderWindow(n)

	case *expr.AliasedNode:
		// Aliases are only legal at selection top-level; renderSelected
		// handles them. Anywhere else, render the wrapped expression.
		return r.renderExprPrec(n.E)

	default:
		return "", 0, errs.New(errs.UnsupportedForDialect, "render: unsupported expression node %T", e)
	}
}

func (r *renderer) renderColumnRef(c *expr.ColumnRef) string {
	qualifier := c.Table.RelationAlias()
	if qualifier == "" {
		qualifier = c.Table.RelationName()
	}
	return r.d.QuoteIdent(qualifier) + "." + r.d.QuoteIdent(c.Name)
}

func (r *renderer) renderAggregation(n *expr.AggregationNode) (string, int, error) {
	if n.E == nil {
		return fmt.Sprintf("%s(*)", n.Fn), precAtom, nil
	}
	arg, err := r.renderExpr(n.E, precLowest)
	if err != nil {
		return "", 0, err
	}
	switch n.Fn {
	case expr.CountDistinct:
		return fmt.Sprintf("COUNT(DISTINCT %s)", arg), precAtom, nil
	default:
		return fmt.Sprintf("%s(%s)", n.Fn, arg), precAtom, nil
	}
}

func (r *renderer) renderCase(n *expr.CaseNode) (string, int, error) {
	var b strings.Builder
	b.WriteString("CASE")
	for _, branch := range n.Branches {
		when, err := r.renderExpr(branch.When, precLowest)
		if err != nil {
			return "", 0, err
		}
		then, err := r.renderExpr(branch.Then, precLowest)
		if err != nil {
			return "", 0, err
		}
		b.WriteString(" WHEN ")
		b.WriteString(when)
		b.WriteString(" THEN ")
		b.WriteString(then)
	}
	if n.Else != nil {
		elseSQL, err := r.renderExpr(n.Else, precLowest)
		if err != nil {
			return "", 0, err
		}
		b.WriteString(" ELSE ")
		b.WriteString(elseSQL)
	}
	b.WriteString(" END")
	return b.String(), precAtom, nil
}

func (r *renderer) renderWindow(n *expr.WindowNode) (string, int, error) {
	var args []string
	if n.Arg != nil {
		argSQL, err := r.renderExpr(n.Arg, precLowest)
		if err != nil {
			return "", 0, err
		}
		args = append(args, argSQL)
	}
	switch n.Fn {
	case expr.Lag, expr.Lead:
		args = append(args, fmt.Sprintf("%d", n.Offset))
	case expr.Ntile:
		args = []string{fmt.Sprintf("%d", n.Buckets)}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s(%s) OVER (", n.Fn, strings.Join(args, ", "))
	if len(n.PartitionBy) > 0 {
		b.WriteString("PARTITION BY ")
		for i, p := range n.PartitionBy {
			if i > 0 {
				b.WriteString(", ")
			}
			s, err := r.renderExpr(p, precLowest)
			if err != nil {
				return "", 0, err
			}
			b.WriteString(s)
		}
	}
	if len(n.OrderBy) > 0 {
		if len(n.PartitionBy) > 0 {
			b.WriteString(" ")
		}
		b.WriteString("ORDER BY ")
		for i, k := range n.OrderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			s, err := r.renderExpr(k.Expr, precLowest)
			if err != nil {
				return "", 0, err
			}
			b.WriteString(s)
			b.WriteString(" ")
			b.WriteString(string(k.Direction))
		}
	}
	b.WriteString(")")
	return b.String(), precAtom, nil
}
