// Package dialect declares the narrow hook surface a SQL dialect must
// implement for the renderer to target it, and nothing more — the renderer
// never inspects a Dialect value beyond calling these hooks (the teacher's
// own discipline, carried over from its per-database translator tables in
// mapping/types.go and mapping/operators.go).
package dialect

import "github.com/omniql-engine/sqlkit/types"

// Dialect is the six-hook surface spec §6 requires: identifier quoting,
// literal rendering, LIMIT/OFFSET syntax, function-name translation, the
// spelling of TRUE/FALSE, and temporal literal formatting.
type Dialect interface {
	// Name identifies the dialect for error messages and dispatch tables.
	Name() string

	// QuoteIdent quotes a single identifier (table, column, or alias name).
	QuoteIdent(name string) string

	// RenderLiteral formats a scalar value (NULL included) for inline use,
	// or returns ok=false when the dialect cannot spell it, which the
	// renderer reports as an errs.UnsupportedForDialect error.
	RenderLiteral(v types.Value) (sql string, ok bool)

	// RenderLimit formats the LIMIT/OFFSET tail. Either may be nil.
	RenderLimit(limit, offset *int) string

	// RenderFunction translates a baseline function call to this dialect's
	// spelling (e.g. SQLite, which lacks CEIL, emulates it with other
	// functions); ok=false means the dialect has no equivalent.
	RenderFunction(name string, args []string) (sql string, ok bool)

	// BooleanLiteral spells TRUE/FALSE (SQLite has no Boolean type: it uses
	// 1/0, per teacher's mapping.TypeMap["SQLite"]["BOOLEAN"] == "INTEGER").
	BooleanLiteral(b bool) string

	// TemporalLiteral formats a temporal value's literal text.
	TemporalLiteral(v types.Value) string
}

// Validator is implemented by dialects that can check their own rendered
// SQL against a real parser before execution (spec §6's optional validation
// step, grounded in the teacher's engine/validator package).
type Validator interface {
	Validate(sql string) error
}
