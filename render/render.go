// Package render walks a query tree (query.Read/Insert/Update/Delete) and
// produces SQL text for a target dialect.Dialect. Rendering is pure. It
// fails with errs.UnsupportedForDialect when the dialect cannot spell a
// literal (e.g. a DialectSpecific value) or a function, or when it meets an
// unknown statement, node or source type, and with errs.EmptySelection for
// a Read that has no SELECT list.
package render

import (
	"fmt"
	"strings"

	"github.com/omniql-engine/sqlkit/dialect"
	"github.com/omniql-engine/sqlkit/errs"
	"github.com/omniql-engine/sqlkit/expr"
	"github.com/omniql-engine/sqlkit/query"
	"github.com/omniql-engine/sqlkit/schema"
)

// Statement is any rooted tree this package can render.
type Statement interface{}

// Render renders tree for d, returning the SQL text.
func Render(tree Statement, d dialect.Dialect) (string, error) {
	r := &renderer{d: d}
	switch t := tree.(type) {
	case *query.Read:
		var b strings.Builder
		if err := r.renderRead(&b, t); err != nil {
			return "", err
		}
		return b.String(), nil
	case *query.Insert:
		return r.renderInsert(t)
	case *query.Update:
		return r.renderUpdate(t)
	case *query.Delete:
		return r.renderDelete(t)
	default:
		return "", errs.New(errs.UnsupportedForDialect, "render: unsupported statement type %T", tree)
	}
}

// RenderAndValidate renders tree and, if d also implements
// dialect.Validator, parses the result against a real grammar before
// returning it (spec §6 sugar; never called implicitly by Render itself).
func RenderAndValidate(tree Statement, d dialect.Dialect) (string, error) {
	sql, err := Render(tree, d)
	if err != nil {
		return "", err
	}
	if v, ok := d.(dialect.Validator); ok {
		if err := v.Validate(sql); err != nil {
			return "", fmt.Errorf("render: dialect rejected generated SQL: %w", err)
		}
	}
	return sql, nil
}

type renderer struct {
	d dialect.Dialect
}

// ---------------------------------------------------------------------------
// Read
// ---------------------------------------------------------------------------

func (r *renderer) renderRead(b *strings.Builder, read *query.Read) error {
	if read.SetOpKind() != "" {
		if err := r.renderRead(b, read.SetLeft()); err != nil {
			return err
		}
		b.WriteString(" ")
		b.WriteString(read.SetOpKind())
		b.WriteString(" ")
		return r.renderRead(b, read.SetRight())
	}

	if lit := read.Literal(); lit != nil {
		return r.renderValues(b, lit)
	}

	if len(read.CTEs()) > 0 {
		b.WriteString("WITH ")
		for i, c := range read.CTEs() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(r.d.QuoteIdent(c.Name()))
			b.WriteString(" AS (")
			if err := r.renderRead(b, c.Body()); err != nil {
				return err
			}
			b.WriteString(")")
		}
		b.WriteString(" ")
	}

	b.WriteString("SELECT ")
	if read.IsDistinct() {
		b.WriteString("DISTINCT ")
	}
	sel := read.Selection()
	if sel == nil {
		return errs.New(errs.EmptySelection, "render: Read has no SELECT list")
	}
	for i, e := range sel.Columns() {
		if i > 0 {
			b.WriteString(", ")
		}
		s, err := r.renderSelected(e)
		if err != nil {
			return err
		}
		b.WriteString(s)
	}

	b.WriteString(" FROM ")
	srcSQL, err := r.renderSource(read.Source())
	if err != nil {
		return err
	}
	b.WriteString(srcSQL)

	if w := read.WhereExpr(); w != nil {
		s, err := r.renderExpr(w, precLowest)
		if err != nil {
			return err
		}
		b.WriteString(" WHERE ")
		b.WriteString(s)
	}

	if keys := read.GroupByKeys(); len(keys) > 0 {
		b.WriteString(" GROUP BY ")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			s, err := r.renderExpr(k, precLowest)
			if err != nil {
				return err
			}
			b.WriteString(s)
		}
	}

	if h := read.HavingExpr(); h != nil {
		s, err := r.renderExpr(h, precLowest)
		if err != nil {
			return err
		}
		b.WriteString(" HAVING ")
		b.WriteString(s)
	}

	if keys := read.OrderByKeys(); len(keys) > 0 {
		b.WriteString(" ORDER BY ")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			s, err := r.renderExpr(k.Expr, precLowest)
			if err != nil {
				return err
			}
			b.WriteString(s)
			b.WriteString(" ")
			b.WriteString(string(k.Direction))
			if k.Nulls != "" {
				b.WriteString(" ")
				b.WriteString(string(k.Nulls))
			}
		}
	}

	if limitSQL := r.d.RenderLimit(read.LimitValue(), read.OffsetValue()); limitSQL != "" {
		b.WriteString(" ")
		b.WriteString(limitSQL)
	}
	return nil
}

func (r *renderer) renderValues(b *strings.Builder, lit *query.LiteralRows) error {
	b.WriteString("VALUES ")
	for i, row := range lit.Rows() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j, e := range row {
			if j > 0 {
				b.WriteString(", ")
			}
			s, err := r.renderExpr(e, precLowest)
			if err != nil {
				return err
			}
			b.WriteString(s)
		}
		b.WriteString(")")
	}
	return nil
}

func (r *renderer) renderSelected(e expr.Expr) (string, error) {
	if al, ok := e.(*expr.AliasedNode); ok {
		inner, err := r.renderExpr(al.E, precLowest)
		if err != nil {
			return "", err
		}
		return inner + " AS " + r.d.QuoteIdent(al.Label), nil
	}
	return r.renderExpr(e, precLowest)
}

func (r *renderer) renderSource(src query.TableSource) (string, error) {
	switch s := src.(type) {
	case *schema.Table:
		return r.renderTable(s), nil
	case *query.Join:
		left, err := r.renderSource(s.Left)
		if err != nil {
			return "", err
		}
		right, err := r.renderSource(s.Right)
		if err != nil {
			return "", err
		}
		on, err := r.renderExpr(s.On, precLowest)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s JOIN %s ON %s", left, s.Kind, right, on), nil
	case *query.LiftedTable:
		return r.renderTable(s.Table), nil
	default:
		if name, ok := query.CTEName(src); ok {
			return r.d.QuoteIdent(name), nil
		}
		return "", errs.New(errs.UnsupportedForDialect, "render: unsupported table source %T", src)
	}
}

func (r *renderer) renderTable(t *schema.Table) string {
	name := r.d.QuoteIdent(t.Name())
	if alias := t.RelationAlias(); alias != "" {
		return name + " " + r.d.QuoteIdent(alias)
	}
	return name
}
