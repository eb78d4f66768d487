package types

import (
	"fmt"
	"time"
)

// Value is a dynamically-typed scalar carried by a Literal expression or
// produced by the row decoder. The row decoder stores the Go types listed
// below; a literal holds whatever Go value it was built from (expr.Lit, for
// instance, stores a Go int under the Int tag).
type Value struct {
	Tag Tag
	// Null is true for a NULL value of a Nullable tag.
	Null bool
	// V holds the Go-native representation:
	//   Bool           -> bool
	//   Byte           -> int8
	//   Short          -> int16
	//   Int            -> int32
	//   Long           -> int64
	//   Float          -> float32
	//   Double         -> float64
	//   BigDecimal     -> string (decimal textual form, full precision)
	//   Char           -> rune
	//   String         -> string
	//   ByteArray      -> []byte
	//   UUID           -> string (canonical 8-4-4-4-12 form)
	//   LocalDate      -> time.Time (UTC; literals render the date part only,
	//                     and the decoder does not zero the time of day)
	//   LocalTime      -> time.Time (UTC; literals render the time of day
	//                     only, and the decoder does not zero the date)
	//   LocalDateTime  -> time.Time (no offset)
	//   Instant        -> time.Time (UTC instant)
	//   OffsetTime     -> time.Time (offset preserved)
	//   OffsetDateTime -> time.Time (offset preserved)
	//   ZonedDateTime  -> time.Time (zone preserved)
	//   DialectSpecific -> dialect-defined (opaque to the core)
	V any
}

// Lit constructs a non-null Value of the given tag and Go value. It performs
// no validation: v is stored as given. expr.Lit instead infers the tag from
// v's Go type, panicking for a Go type it cannot map to a tag.
func Lit(tag Tag, v any) Value {
	return Value{Tag: tag, V: v}
}

// NullOf constructs the NULL value of Nullable(tag). Calling it with a
// non-nullable tag panics: NULL only has a legal Value under a Nullable tag.
func NullOf(tag Tag) Value {
	if !tag.IsNullable() {
		panic(fmt.Sprintf("types: NullOf called with non-nullable tag %s", tag))
	}
	return Value{Tag: tag, Null: true}
}

// Time is a convenience helper for constructing temporal Values.
func Time(tag Tag, t time.Time) Value {
	return Value{Tag: tag, V: t}
}
