// Package sqlite implements the SQLite dialect.Dialect, grounded in the
// teacher's mapping.TypeMap["SQLite"] table: SQLite has no native Boolean
// or temporal types, storing both as INTEGER/TEXT (dynamic typing), which
// this dialect's literal rendering mirrors.
package sqlite

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/omniql-engine/sqlkit/types"
)

// SQLite is the stateless SQLite dialect. It has no dedicated SQL parser
// in the example corpus, so it ships no Validate hook (spec §6: Validate is
// optional per dialect).
type SQLite struct{}

func (SQLite) Name() string { return "SQLite" }

func (SQLite) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// BooleanLiteral spells SQLite's dynamic-typing convention: 1/0, matching
// mapping.TypeMap["SQLite"]["BOOLEAN"] == "INTEGER".
func (SQLite) BooleanLiteral(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func (SQLite) RenderLimit(limit, offset *int) string {
	var b strings.Builder
	if limit != nil {
		fmt.Fprintf(&b, "LIMIT %d", *limit)
	} else if offset != nil {
		// SQLite requires a LIMIT clause before OFFSET; -1 means unbounded.
		b.WriteString("LIMIT -1")
	}
	if offset != nil {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "OFFSET %d", *offset)
	}
	return b.String()
}

func (SQLite) RenderFunction(name string, args []string) (string, bool) {
	switch name {
	case "CEIL":
		// SQLite's core has no CEIL; emulate as the truncated integer plus 1
		// when x has a fractional part above it (CAST truncates toward zero).
		if len(args) != 1 {
			return "", false
		}
		x := args[0]
		return fmt.Sprintf("(CAST((%s) AS INTEGER) + ((%s) > CAST((%s) AS INTEGER)))", x, x, x), true
	default:
		return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", ")), true
	}
}

func (SQLite) RenderLiteral(v types.Value) (string, bool) {
	if v.Null {
		return "NULL", true
	}
	switch v.Tag.Base().Kind() {
	case types.Bool:
		return SQLite{}.BooleanLiteral(v.V.(bool)), true
	case types.Byte, types.Short, types.Int, types.Long:
		return fmt.Sprintf("%d", v.V), true
	case types.Float, types.Double:
		return strconv.FormatFloat(toFloat64(v.V), 'g', -1, 64), true
	case types.BigDecimal:
		return v.V.(string), true
	case types.Char:
		return quoteString(string(v.V.(rune))), true
	case types.String, types.UUID:
		return quoteString(toString(v.V)), true
	case types.ByteArray:
		return fmt.Sprintf("x'%x'", v.V.([]byte)), true
	case types.LocalDate, types.LocalTime, types.LocalDateTime, types.Instant, types.OffsetTime, types.OffsetDateTime, types.ZonedDateTime:
		return SQLite{}.TemporalLiteral(v), true
	default:
		return "", false
	}
}

// TemporalLiteral formats every temporal kind as TEXT, matching SQLite's
// mapping.TypeMap convention (TIMESTAMP/DATETIME/DATE/TIME all map to TEXT).
func (SQLite) TemporalLiteral(v types.Value) string {
	t, ok := v.V.(interface{ Format(string) string })
	if !ok {
		return "NULL"
	}
	switch v.Tag.Base().Kind() {
	case types.LocalDate:
		return quoteString(t.Format("2006-01-02"))
	case types.LocalTime, types.OffsetTime:
		return quoteString(t.Format("15:04:05"))
	default:
		return quoteString(t.Format("2006-01-02 15:04:05"))
	}
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}
