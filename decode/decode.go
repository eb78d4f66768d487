// Package decode implements the row decoder (spec §4.7/C7): given a cursor
// and the ordered type tags a selection statically predicts, it extracts
// each row and delivers it to the caller's mapper. Grounded in the teacher's
// client.go rowsToMaps (ordinal-keyed column scan, defer rows.Close, wrap
// scan errors) but rebuilt against the tag-indexed extraction primitive spec
// §4.1/§4.7 asks for instead of a driver.Value map.
package decode

import (
	"time"

	"github.com/omniql-engine/sqlkit/driver"
	"github.com/omniql-engine/sqlkit/errs"
	"github.com/omniql-engine/sqlkit/types"
)

// Row is one decoded row: values in selection order, one per tag in Shape.
type Row struct {
	Values []types.Value
}

// Decode reads every remaining row from cur, extracting the columns named by
// shape (1-based ordinal, left to right) and calling f for each decoded row.
// The stream terminates — and Decode returns — at the first error, per spec
// §7's "the row stream terminates with its first error"; cur.Close always
// runs, including on the error and cancellation paths (spec §5).
func Decode(cur driver.Cursor, shape []types.Tag, f func(Row) error) (err error) {
	if cur.Closed() {
		return &errs.DecodeError{Kind: "Closed"}
	}
	defer func() {
		closeErr := cur.Close()
		if err == nil {
			err = closeErr
		}
	}()

	for cur.Next() {
		row, decErr := decodeRow(cur, shape)
		if decErr != nil {
			return decErr
		}
		if err = f(row); err != nil {
			return err
		}
	}
	if cur.Err() != nil {
		return cur.Err()
	}
	return nil
}

// DecodeAll drains the entire cursor into a slice, for callers that don't
// need row-at-a-time streaming.
func DecodeAll(cur driver.Cursor, shape []types.Tag) ([]Row, error) {
	var rows []Row
	err := Decode(cur, shape, func(r Row) error {
		rows = append(rows, r)
		return nil
	})
	return rows, err
}

func decodeRow(cur driver.Cursor, shape []types.Tag) (Row, error) {
	values := make([]types.Value, len(shape))
	for i, tag := range shape {
		ordinal := i + 1 // SQL is 1-based (spec §4.7 step 2)
		if ordinal > cur.MetadataColumnCount() {
			return Row{}, &errs.DecodeError{Kind: "MissingColumn", Ordinal: ordinal}
		}
		v, err := extract(tag, cur, ordinal)
		if err != nil {
			return Row{}, err
		}
		values[i] = v
	}
	return Row{Values: values}, nil
}

// extract is the tag-indexed decode primitive spec §4.1 calls for: it
// dispatches to the cursor's typed getter matching tag's base kind, applies
// the outer-join NULL policy (spec §4.7's "Outer-join NULL policy"), and
// normalizes temporal extractions through the driver's timestamp primitive.
func extract(tag types.Tag, cur driver.Cursor, ordinal int) (types.Value, error) {
	if tag.IsDialectSpecific() {
		return types.Value{}, &errs.DecodeError{
			Kind: "UnexpectedType", Ordinal: ordinal,
			Expected: tag.String(), Actual: "no core extractor for DialectSpecific tags",
		}
	}

	base := tag.Base()
	nullable := tag.IsNullable()

	unexpectedNull := func() (types.Value, error) {
		if nullable {
			return types.Value{Tag: tag, Null: true}, nil
		}
		return types.Value{}, &errs.DecodeError{Kind: "UnexpectedNull", Ordinal: ordinal}
	}

	switch base.Kind() {
	case types.Bool:
		v, null, err := cur.GetBool(ordinal)
		if err != nil {
			return types.Value{}, wrapUnexpectedType(ordinal, tag, err)
		}
		if null {
			return unexpectedNull()
		}
		return types.Value{Tag: tag, V: v}, nil

	case types.Byte:
		v, null, err := cur.GetByte(ordinal)
		if err != nil {
			return types.Value{}, wrapUnexpectedType(ordinal, tag, err)
		}
		if null {
			return unexpectedNull()
		}
		return types.Value{Tag: tag, V: v}, nil

	case types.Short:
		v, null, err := cur.GetShort(ordinal)
		if err != nil {
			return types.Value{}, wrapUnexpectedType(ordinal, tag, err)
		}
		if null {
			return unexpectedNull()
		}
		return types.Value{Tag: tag, V: v}, nil

	case types.Int:
		v, null, err := cur.GetInt(ordinal)
		if err != nil {
			return types.Value{}, wrapUnexpectedType(ordinal, tag, err)
		}
		if null {
			return unexpectedNull()
		}
		return types.Value{Tag: tag, V: v}, nil

	case types.Long:
		v, null, err := cur.GetLong(ordinal)
		if err != nil {
			return types.Value{}, wrapUnexpectedType(ordinal, tag, err)
		}
		if null {
			return unexpectedNull()
		}
		return types.Value{Tag: tag, V: v}, nil

	case types.Float:
		v, null, err := cur.GetFloat(ordinal)
		if err != nil {
			return types.Value{}, wrapUnexpectedType(ordinal, tag, err)
		}
		if null {
			return unexpectedNull()
		}
		return types.Value{Tag: tag, V: v}, nil

	case types.Double:
		v, null, err := cur.GetDouble(ordinal)
		if err != nil {
			return types.Value{}, wrapUnexpectedType(ordinal, tag, err)
		}
		if null {
			return unexpectedNull()
		}
		return types.Value{Tag: tag, V: v}, nil

	case types.BigDecimal:
		v, null, err := cur.GetBigDecimal(ordinal)
		if err != nil {
			return types.Value{}, wrapUnexpectedType(ordinal, tag, err)
		}
		if null {
			return unexpectedNull()
		}
		return types.Value{Tag: tag, V: v}, nil

	case types.Char:
		v, null, err := cur.GetString(ordinal)
		if err != nil {
			return types.Value{}, wrapUnexpectedType(ordinal, tag, err)
		}
		if null {
			return unexpectedNull()
		}
		r := []rune(v)
		if len(r) == 0 {
			return types.Value{}, &errs.DecodeError{Kind: "UnexpectedType", Ordinal: ordinal, Expected: "Char", Actual: "empty string"}
		}
		return types.Value{Tag: tag, V: r[0]}, nil

	case types.String, types.UUID:
		v, null, err := cur.GetString(ordinal)
		if err != nil {
			return types.Value{}, wrapUnexpectedType(ordinal, tag, err)
		}
		if null {
			return unexpectedNull()
		}
		return types.Value{Tag: tag, V: v}, nil

	case types.ByteArray:
		v, null, err := cur.GetBytes(ordinal)
		if err != nil {
			return types.Value{}, wrapUnexpectedType(ordinal, tag, err)
		}
		if null {
			return unexpectedNull()
		}
		return types.Value{Tag: tag, V: v}, nil

	case types.LocalDate, types.LocalTime, types.LocalDateTime, types.Instant,
		types.OffsetTime, types.OffsetDateTime, types.ZonedDateTime:
		ts, null, err := cur.GetTimestamp(ordinal)
		if err != nil {
			return types.Value{}, wrapUnexpectedType(ordinal, tag, err)
		}
		if null {
			return unexpectedNull()
		}
		return types.Value{Tag: tag, V: normalizeTemporal(base.Kind(), ts)}, nil

	default:
		return types.Value{}, &errs.DecodeError{Kind: "UnexpectedType", Ordinal: ordinal, Expected: tag.String(), Actual: "unsupported tag kind"}
	}
}

// normalizeTemporal derives the Go-native view spec §4.7 prescribes:
// LocalDate/LocalTime/LocalDateTime read the timestamp's local (UTC, here —
// no separate "local" clock is available from the driver) view; Instant
// reads its instant (UTC) view; OffsetDateTime/OffsetTime/ZonedDateTime
// anchor at UTC unless the driver reported an offset.
func normalizeTemporal(kind types.Kind, ts driver.Timestamp) time.Time {
	switch kind {
	case types.LocalDate, types.LocalTime, types.LocalDateTime, types.Instant:
		return ts.UTC
	case types.OffsetDateTime, types.OffsetTime, types.ZonedDateTime:
		if ts.Loc != nil {
			return ts.UTC.In(ts.Loc)
		}
		return ts.UTC
	default:
		return ts.UTC
	}
}

func wrapUnexpectedType(ordinal int, tag types.Tag, err error) error {
	return &errs.DecodeError{Kind: "UnexpectedType", Ordinal: ordinal, Expected: tag.String(), Actual: err.Error()}
}
