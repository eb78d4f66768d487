// Package postgres implements the PostgreSQL dialect.Dialect, grounded in
// the teacher's engine/translator/postgres.go identifier-quoting and
// mapping.TypeMap["PostgreSQL"] literal conventions, with syntax validated
// against a real Postgres grammar via pg_query_go.
package postgres

import (
	"fmt"
	"strconv"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v5"

	"github.com/omniql-engine/sqlkit/types"
)

// Postgres is the stateless PostgreSQL dialect.
type Postgres struct{}

func (Postgres) Name() string { return "PostgreSQL" }

// QuoteIdent double-quotes an identifier, escaping embedded quotes by
// doubling them (standard SQL identifier-quoting, what the teacher's
// translator produced for every relation/column name it emitted).
func (Postgres) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (Postgres) BooleanLiteral(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func (Postgres) RenderLimit(limit, offset *int) string {
	var b strings.Builder
	if limit != nil {
		fmt.Fprintf(&b, "LIMIT %d", *limit)
	}
	if offset != nil {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "OFFSET %d", *offset)
	}
	return b.String()
}

func (Postgres) RenderFunction(name string, args []string) (string, bool) {
	// The baseline function table's names already match Postgres spelling.
	return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", ")), true
}

func (Postgres) RenderLiteral(v types.Value) (string, bool) {
	if v.Null {
		return "NULL", true
	}
	switch v.Tag.Base().Kind() {
	case types.Bool:
		return Postgres{}.BooleanLiteral(v.V.(bool)), true
	case types.Byte, types.Short, types.Int, types.Long:
		return fmt.Sprintf("%d", v.V), true
	case types.Float, types.Double:
		return strconv.FormatFloat(toFloat64(v.V), 'g', -1, 64), true
	case types.BigDecimal:
		return v.V.(string), true
	case types.Char:
		return quoteString(string(v.V.(rune))), true
	case types.String:
		return quoteString(v.V.(string)), true
	case types.UUID:
		return quoteString(v.V.(string)), true
	case types.ByteArray:
		return fmt.Sprintf(`'\x%x'`, v.V.([]byte)), true
	case types.LocalDate, types.LocalTime, types.LocalDateTime, types.Instant, types.OffsetTime, types.OffsetDateTime, types.ZonedDateTime:
		return Postgres{}.TemporalLiteral(v), true
	default:
		return "", false
	}
}

func (Postgres) TemporalLiteral(v types.Value) string {
	t, ok := v.V.(interface{ Format(string) string })
	if !ok {
		return "NULL"
	}
	switch v.Tag.Base().Kind() {
	case types.LocalDate:
		return quoteString(t.Format("2006-01-02"))
	case types.LocalTime:
		return quoteString(t.Format("15:04:05"))
	case types.LocalDateTime:
		return quoteString(t.Format("2006-01-02 15:04:05"))
	case types.Instant, types.OffsetDateTime, types.ZonedDateTime:
		return quoteString(t.Format("2006-01-02 15:04:05.999999-07:00"))
	case types.OffsetTime:
		return quoteString(t.Format("15:04:05.999999-07:00"))
	default:
		return quoteString(t.Format(rfc3339))
	}
}

const rfc3339 = "2006-01-02T15:04:05Z07:00"

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
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

// Validate checks rendered SQL against the real Postgres grammar (identical
// approach to the teacher's ValidatePostgreSQL).
func (Postgres) Validate(sql string) error {
	_, err := pg_query.Parse(sql)
	return err
}
