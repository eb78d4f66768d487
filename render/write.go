package render

import (
	"fmt"
	"strings"

	"github.com/omniql-engine/sqlkit/query"
)

func (r *renderer) renderInsert(ins *query.Insert) (string, error) {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(r.renderTable(ins.Table()))
	b.WriteString(" (")
	cols := ins.Columns()
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.d.QuoteIdent(c.Name))
	}
	b.WriteString(")")

	switch {
	case ins.FromSelectSource() != nil:
		b.WriteString(" ")
		if err := r.renderRead(&b, ins.FromSelectSource()); err != nil {
			return "", err
		}
	default:
		b.WriteString(" VALUES ")
		for i, row := range ins.Rows() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("(")
			for j, v := range row {
				if j > 0 {
					b.WriteString(", ")
				}
				s, err := r.renderExpr(v, precLowest)
				if err != nil {
					return "", err
				}
				b.WriteString(s)
			}
			b.WriteString(")")
		}
	}

	if conflict := ins.Conflict(); conflict != nil {
		sql, err := r.renderUpsert(conflict)
		if err != nil {
			return "", err
		}
		b.WriteString(" ")
		b.WriteString(sql)
	}

	return b.String(), nil
}

// renderUpsert renders the ANSI-ish ON CONFLICT (...) DO UPDATE/NOTHING form
// that Postgres and SQLite share (spec §5 supplement). MySQL's ON DUPLICATE
// KEY UPDATE spelling is structurally different (no conflict-target list)
// and is not rendered: every dialect, MySQL included, gets this ON CONFLICT
// form, and no UnsupportedForDialect error is raised for MySQL.
func (r *renderer) renderUpsert(u *query.Upsert) (string, error) {
	var b strings.Builder
	b.WriteString("ON CONFLICT (")
	for i, c := range u.Target {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.d.QuoteIdent(c.Name))
	}
	b.WriteString(") ")
	if len(u.Assignments) == 0 {
		b.WriteString("DO NOTHING")
		return b.String(), nil
	}
	b.WriteString("DO UPDATE SET ")
	for i, a := range u.Assignments {
		if i > 0 {
			b.WriteString(", ")
		}
		s, err := r.renderExpr(a.Value, precLowest)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s = %s", r.d.QuoteIdent(a.Column.Name), s)
	}
	return b.String(), nil
}

func (r *renderer) renderUpdate(u *query.Update) (string, error) {
	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(r.renderTable(u.Table()))
	b.WriteString(" SET ")
	for i, a := range u.Assignments() {
		if i > 0 {
			b.WriteString(", ")
		}
		s, err := r.renderExpr(a.Value, precLowest)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s = %s", r.d.QuoteIdent(a.Column.Name), s)
	}
	if w := u.WhereExpr(); w != nil {
		s, err := r.renderExpr(w, precLowest)
		if err != nil {
			return "", err
		}
		b.WriteString(" WHERE ")
		b.WriteString(s)
	}
	return b.String(), nil
}

func (r *renderer) renderDelete(d *query.Delete) (string, error) {
	var b strings.Builder
	b.WriteString("DELETE FROM ")
	b.WriteString(r.renderTable(d.Table()))
	if w := d.WhereExpr(); w != nil {
		s, err := r.renderExpr(w, precLowest)
		if err != nil {
			return "", err
		}
		b.WriteString(" WHERE ")
		b.WriteString(s)
	}
	return b.String(), nil
}
