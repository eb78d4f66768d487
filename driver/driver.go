// Package driver declares the narrow external-collaborator surface spec §6
// names: a connection provider, a statement executor, and the cursor a
// query produces. sqlkit's core never depends on database/sql directly —
// it depends on these three interfaces, so any blocking driver (the
// concrete database/sql adapter in package sqldriver, a test fake, a
// connection-pool wrapper the caller already owns) can stand in.
package driver

import (
	"context"
	"time"
)

// ConnectionProvider is a capability with one operation: scoped acquisition
// of a connection with guaranteed release on all exit paths (spec §6).
// Implementations hand back a Conn whose Release must run exactly once,
// including on every error and cancellation path.
type ConnectionProvider interface {
	Acquire(ctx context.Context) (Conn, error)
}

// Conn is a single physical connection borrowed from a ConnectionProvider.
// Release returns it to the pool (or closes it, for a non-pooled provider).
type Conn interface {
	Release()
}

// StatementExecutor is the two operations the core uses against an acquired
// connection (spec §6): exec for INSERT/UPDATE/DELETE, query for SELECT.
type StatementExecutor interface {
	// Exec runs sql against conn and reports the number of rows affected.
	Exec(ctx context.Context, conn Conn, sql string) (rowsAffected int64, err error)
	// Query runs sql against conn and returns a forward-only Cursor over the
	// result. The cursor's Close must run on every exit path, including
	// early cancellation — callers that do not fully drain the cursor are
	// still responsible for closing it (spec §5: cancellation releases the
	// cursor and returns the connection to its pool).
	Query(ctx context.Context, conn Conn, sql string) (Cursor, error)
}

// Cursor is an externally owned, forward-only position over a result set
// (spec §6/Glossary). Column getters are keyed by 1-based ordinal, matching
// the SQL convention the row decoder assumes.
type Cursor interface {
	// Next advances to the next row, returning false at end-of-stream or on
	// error (callers check Err afterward, matching database/sql.Rows).
	Next() bool
	// Err returns the first error encountered by Next, if any.
	Err() error
	// Close releases the cursor. Safe to call multiple times.
	Close() error
	// Closed reports whether Close has already run — decode.Decode checks
	// this up front (spec §4.7 step 1: "Verify cursor is open; else Closed
	// error").
	Closed() bool

	MetadataColumnCount() int
	MetadataColumnType(ordinal int) string
	MetadataColumnName(ordinal int) string

	GetBool(ordinal int) (v bool, null bool, err error)
	GetByte(ordinal int) (v int8, null bool, err error)
	GetShort(ordinal int) (v int16, null bool, err error)
	GetInt(ordinal int) (v int32, null bool, err error)
	GetLong(ordinal int) (v int64, null bool, err error)
	GetFloat(ordinal int) (v float32, null bool, err error)
	GetDouble(ordinal int) (v float64, null bool, err error)
	GetBigDecimal(ordinal int) (v string, null bool, err error)
	GetString(ordinal int) (v string, null bool, err error)
	GetBytes(ordinal int) (v []byte, null bool, err error)
	// GetTimestamp returns the driver's timestamp primitive; decode.Decode
	// normalizes it into whichever temporal Go type the target tag needs
	// (spec §4.7: "Temporal extractions normalize through the driver's
	// timestamp primitive").
	GetTimestamp(ordinal int) (v Timestamp, null bool, err error)
}

// Timestamp is the driver's single timestamp primitive. Loc is the offset
// the driver reported, or nil when the driver gave no offset information
// (decode.Decode then anchors OffsetDateTime/OffsetTime/ZonedDateTime at UTC,
// per spec §4.7).
type Timestamp struct {
	UTC time.Time
	Loc *time.Location
}
