// Package types defines the closed set of scalar type tags that both the
// renderer and the row decoder key off of.
package types

import "fmt"

// Kind is the closed enumeration of supported scalar types.
type Kind uint8

const (
	Bool Kind = iota
	Byte
	Short
	Int
	Long
	Float
	Double
	BigDecimal
	Char
	String
	ByteArray
	UUID
	LocalDate
	LocalTime
	LocalDateTime
	Instant
	OffsetTime
	OffsetDateTime
	ZonedDateTime
	dialectSpecificKind
	nullableKind
)

var kindNames = map[Kind]string{
	Bool:           "Bool",
	Byte:           "Byte",
	Short:          "Short",
	Int:            "Int",
	Long:           "Long",
	Float:          "Float",
	Double:         "Double",
	BigDecimal:     "BigDecimal",
	Char:           "Char",
	String:         "String",
	ByteArray:      "ByteArray",
	UUID:           "UUID",
	LocalDate:      "LocalDate",
	LocalTime:      "LocalTime",
	LocalDateTime:  "LocalDateTime",
	Instant:        "Instant",
	OffsetTime:     "OffsetTime",
	OffsetDateTime: "OffsetDateTime",
	ZonedDateTime:  "ZonedDateTime",
}

// Tag is a closed tag drawn from the scalar type universe, plus the
// Nullable(tag) and DialectSpecific(name) wrappers. Tag is comparable and
// may be used as a map key.
type Tag struct {
	kind    Kind
	inner   *Tag   // set when kind == nullableKind
	dialect string // set when kind == dialectSpecificKind
}

// Of constructs a plain (non-nullable) tag for one of the closed scalar kinds.
func Of(k Kind) Tag {
	if k == nullableKind || k == dialectSpecificKind {
		panic("types: Of must not be called with a wrapper kind")
	}
	return Tag{kind: k}
}

// DialectSpecific constructs a tag whose extraction/rendering is delegated
// to a dialect-provided handler named by d.
func DialectSpecific(d string) Tag {
	return Tag{kind: dialectSpecificKind, dialect: d}
}

// Nullable smart-constructs a nullable wrapper around t. Nullable(Nullable(t))
// collapses to Nullable(t) rather than nesting — double-wrap is forbidden by
// construction, not by a separate runtime check.
func Nullable(t Tag) Tag {
	if t.kind == nullableKind {
		return t
	}
	inner := t
	return Tag{kind: nullableKind, inner: &inner}
}

// IsNullable reports whether t is a Nullable(_) wrapper.
func (t Tag) IsNullable() bool { return t.kind == nullableKind }

// IsDialectSpecific reports whether t is a DialectSpecific(_) tag.
func (t Tag) IsDialectSpecific() bool { return t.kind == dialectSpecificKind }

// DialectName returns the handler name for a DialectSpecific tag, or "" otherwise.
func (t Tag) DialectName() string { return t.dialect }

// Unwrap returns the wrapped tag for Nullable(t) and ok=true; otherwise
// returns t unchanged and ok=false.
func (t Tag) Unwrap() (inner Tag, ok bool) {
	if t.kind != nullableKind {
		return t, false
	}
	return *t.inner, true
}

// Base returns the non-nullable tag underneath any number of Nullable
// wrappers (at most one, by construction).
func (t Tag) Base() Tag {
	if inner, ok := t.Unwrap(); ok {
		return inner
	}
	return t
}

// Kind returns the scalar kind for a non-wrapper tag. Calling it on a
// Nullable or DialectSpecific tag returns the wrapper's sentinel kind.
func (t Tag) Kind() Kind { return t.kind }

func (t Tag) String() string {
	switch t.kind {
	case nullableKind:
		return "Nullable(" + t.inner.String() + ")"
	case dialectSpecificKind:
		return fmt.Sprintf("DialectSpecific(%s)", t.dialect)
	default:
		if name, ok := kindNames[t.kind]; ok {
			return name
		}
		return "Unknown"
	}
}

// Equal reports structural equality between two tags.
func (t Tag) Equal(other Tag) bool {
	if t.kind != other.kind {
		return false
	}
	switch t.kind {
	case nullableKind:
		return t.inner.Equal(*other.inner)
	case dialectSpecificKind:
		return t.dialect == other.dialect
	default:
		return true
	}
}

// IsNumeric reports whether the tag (after stripping Nullable) is one of
// the arithmetic-eligible scalar kinds. At minimum Double is supported;
// Int/Long/BigDecimal widen to Double for arithmetic purposes (see
// spec §9 Open Questions — wider numeric arithmetic is a known gap).
func (t Tag) IsNumeric() bool {
	switch t.Base().kind {
	case Byte, Short, Int, Long, Float, Double, BigDecimal:
		return true
	default:
		return false
	}
}

// IsTemporal reports whether the tag (after stripping Nullable) denotes one
// of the date/time kinds handled by the decoder's timestamp normalization.
func (t Tag) IsTemporal() bool {
	switch t.Base().kind {
	case LocalDate, LocalTime, LocalDateTime, Instant, OffsetTime, OffsetDateTime, ZonedDateTime:
		return true
	default:
		return false
	}
}

// Convenience constructors for the closed scalar kinds.
func TBool() Tag          { return Of(Bool) }
func TByte() Tag          { return Of(Byte) }
func TShort() Tag         { return Of(Short) }
func TInt() Tag           { return Of(Int) }
func TLong() Tag          { return Of(Long) }
func TFloat() Tag         { return Of(Float) }
func TDouble() Tag        { return Of(Double) }
func TBigDecimal() Tag    { return Of(BigDecimal) }
func TChar() Tag          { return Of(Char) }
func TString() Tag        { return Of(String) }
func TByteArray() Tag     { return Of(ByteArray) }
func TUUID() Tag          { return Of(UUID) }
func TLocalDate() Tag     { return Of(LocalDate) }
func TLocalTime() Tag     { return Of(LocalTime) }
func TLocalDateTime() Tag { return Of(LocalDateTime) }
func TInstant() Tag       { return Of(Instant) }
func TOffsetTime() Tag    { return Of(OffsetTime) }
func TOffsetDateTime() Tag{ return Of(OffsetDateTime) }
func TZonedDateTime() Tag { return Of(ZonedDateTime) }
