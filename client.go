// Package sqlkit ties the typed relational algebra together into something
// runnable: a DB wraps a driver.ConnectionProvider, a driver.StatementExecutor,
// and a target dialect.Dialect, and knows how to render a query.Read/Insert/
// Update/Delete tree, submit it, and (for reads) decode the resulting cursor.
//
// Grounded in the teacher's client.go Client/WrapSQL/Query shape (wrap a
// connection, dispatch on statement kind, wrap every external error with
// fmt.Errorf("...: %w", ...)) but rebuilt around the typed builder tree
// instead of a parsed OmniQL string, and scoped to the one relational
// collaborator spec §1 keeps in scope — the MongoDB/Redis paths the teacher
// dispatched to have no analog here (see DESIGN.md).
package sqlkit

import (
	"context"
	"fmt"

	"github.com/omniql-engine/sqlkit/decode"
	"github.com/omniql-engine/sqlkit/dialect"
	"github.com/omniql-engine/sqlkit/driver"
	"github.com/omniql-engine/sqlkit/errs"
	"github.com/omniql-engine/sqlkit/query"
	"github.com/omniql-engine/sqlkit/render"
)

// DB wraps a connection provider and statement executor for one SQL dialect.
type DB struct {
	pool     driver.ConnectionProvider
	exec     driver.StatementExecutor
	dialect  dialect.Dialect
	validate bool
}

// Open wraps pool/exec for the given dialect (teacher's WrapSQL, generalized
// from a dbType string switch to an injected dialect.Dialect value).
func Open(pool driver.ConnectionProvider, exec driver.StatementExecutor, d dialect.Dialect) *DB {
	return &DB{pool: pool, exec: exec, dialect: d}
}

// WithValidation turns on RenderAndValidate for every statement this DB
// renders, for dialects that implement dialect.Validator (spec §6 sugar).
func (db *DB) WithValidation(on bool) *DB {
	db.validate = on
	return db
}

func (db *DB) renderStatement(stmt render.Statement) (string, error) {
	if db.validate {
		return render.RenderAndValidate(stmt, db.dialect)
	}
	return render.Render(stmt, db.dialect)
}

// Query renders r, runs it, and decodes each row into f. The row stream
// terminates — and Query returns — at the first render, execution, or
// decoding error (spec §7); the connection and cursor are released on every
// exit path (spec §5).
func (db *DB) Query(ctx context.Context, r *query.Read, f func(decode.Row) error) error {
	sql, err := db.renderStatement(r)
	if err != nil {
		return fmt.Errorf("sqlkit: render error: %w", err)
	}

	conn, err := db.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("sqlkit: acquire connection: %w", err)
	}
	defer conn.Release()

	cur, err := db.exec.Query(ctx, conn, sql)
	if err != nil {
		return &errs.ExecutionError{Kind: "StatementFailed", SQL: sql, Cause: err}
	}

	if err := decode.Decode(cur, r.Shape(), f); err != nil {
		return fmt.Errorf("sqlkit: decode error: %w", err)
	}
	return nil
}

// QueryAll renders r, runs it, and collects every row.
func (db *DB) QueryAll(ctx context.Context, r *query.Read) ([]decode.Row, error) {
	var rows []decode.Row
	err := db.Query(ctx, r, func(row decode.Row) error {
		rows = append(rows, row)
		return nil
	})
	return rows, err
}

// Exec renders and runs an Insert, Update, or Delete tree, returning the
// number of rows the driver reports affected (spec §6's exec operation).
func (db *DB) Exec(ctx context.Context, stmt render.Statement) (int64, error) {
	sql, err := db.renderStatement(stmt)
	if err != nil {
		return 0, fmt.Errorf("sqlkit: render error: %w", err)
	}

	conn, err := db.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("sqlkit: acquire connection: %w", err)
	}
	defer conn.Release()

	n, err := db.exec.Exec(ctx, conn, sql)
	if err != nil {
		return 0, &errs.ExecutionError{Kind: "StatementFailed", SQL: sql, Cause: err}
	}
	return n, nil
}
