package decode_test

import (
	"errors"
	"testing"
	"time"

	"github.com/omniql-engine/sqlkit/decode"
	"github.com/omniql-engine/sqlkit/driver"
	"github.com/omniql-engine/sqlkit/errs"
	"github.com/omniql-engine/sqlkit/types"
)

// fakeCursor is a minimal in-memory driver.Cursor for testing the decoder
// without a real database/sql driver.
type fakeCursor struct {
	cols   []string
	rows   [][]any // nil cell means SQL NULL
	pos    int
	closed bool
}

func (c *fakeCursor) Next() bool {
	if c.closed || c.pos >= len(c.rows) {
		return false
	}
	c.pos++
	return true
}
func (c *fakeCursor) Err() error   { return nil }
func (c *fakeCursor) Close() error { c.closed = true; return nil }
func (c *fakeCursor) Closed() bool { return c.closed }

func (c *fakeCursor) MetadataColumnCount() int             { return len(c.cols) }
func (c *fakeCursor) MetadataColumnType(i int) string      { return "" }
func (c *fakeCursor) MetadataColumnName(i int) string      { return c.cols[i-1] }

func (c *fakeCursor) cell(ordinal int) any { return c.rows[c.pos-1][ordinal-1] }

func (c *fakeCursor) GetBool(o int) (bool, bool, error) {
	v := c.cell(o)
	if v == nil {
		return false, true, nil
	}
	return v.(bool), false, nil
}
func (c *fakeCursor) GetByte(o int) (int8, bool, error) {
	v := c.cell(o)
	if v == nil {
		return 0, true, nil
	}
	return v.(int8), false, nil
}
func (c *fakeCursor) GetShort(o int) (int16, bool, error) {
	v := c.cell(o)
	if v == nil {
		return 0, true, nil
	}
	return v.(int16), false, nil
}
func (c *fakeCursor) GetInt(o int) (int32, bool, error) {
	v := c.cell(o)
	if v == nil {
		return 0, true, nil
	}
	return v.(int32), false, nil
}
func (c *fakeCursor) GetLong(o int) (int64, bool, error) {
	v := c.cell(o)
	if v == nil {
		return 0, true, nil
	}
	return v.(int64), false, nil
}
func (c *fakeCursor) GetFloat(o int) (float32, bool, error) {
	v := c.cell(o)
	if v == nil {
		return 0, true, nil
	}
	return v.(float32), false, nil
}
func (c *fakeCursor) GetDouble(o int) (float64, bool, error) {
	v := c.cell(o)
	if v == nil {
		return 0, true, nil
	}
	return v.(float64), false, nil
}
func (c *fakeCursor) GetBigDecimal(o int) (string, bool, error) {
	v := c.cell(o)
	if v == nil {
		return "", true, nil
	}
	return v.(string), false, nil
}
func (c *fakeCursor) GetString(o int) (string, bool, error) {
	v := c.cell(o)
	if v == nil {
		return "", true, nil
	}
	return v.(string), false, nil
}
func (c *fakeCursor) GetBytes(o int) ([]byte, bool, error) {
	v := c.cell(o)
	if v == nil {
		return nil, true, nil
	}
	return v.([]byte), false, nil
}
func (c *fakeCursor) GetTimestamp(o int) (driver.Timestamp, bool, error) {
	v := c.cell(o)
	if v == nil {
		return driver.Timestamp{}, true, nil
	}
	return v.(driver.Timestamp), false, nil
}

func TestDecodeBasicRows(t *testing.T) {
	cur := &fakeCursor{
		cols: []string{"first_name", "last_name"},
		rows: [][]any{
			{"Terrence", "Smith"},
			{"Ada", "Lovelace"},
		},
	}
	shape := []types.Tag{types.TString(), types.TString()}

	rows, err := decode.DecodeAll(cur, shape)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Values[0].V != "Terrence" || rows[0].Values[1].V != "Smith" {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if !cur.closed {
		t.Fatal("expected cursor to be closed after Decode")
	}
}

func TestDecodeNullableOuterJoinColumn(t *testing.T) {
	cur := &fakeCursor{
		cols: []string{"order_date"},
		rows: [][]any{{nil}},
	}
	shape := []types.Tag{types.Nullable(types.TLocalDate())}

	rows, err := decode.DecodeAll(cur, shape)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rows[0].Values[0].Null {
		t.Fatal("expected a NULL value for the Nullable column")
	}
}

func TestDecodeUnexpectedNullOnNonNullableColumn(t *testing.T) {
	cur := &fakeCursor{
		cols: []string{"first_name"},
		rows: [][]any{{nil}},
	}
	shape := []types.Tag{types.TString()}

	_, err := decode.DecodeAll(cur, shape)
	var de *errs.DecodeError
	if !errors.As(err, &de) || de.Kind != "UnexpectedNull" {
		t.Fatalf("expected UnexpectedNull, got %v", err)
	}
}

func TestDecodeMissingColumn(t *testing.T) {
	cur := &fakeCursor{
		cols: []string{"first_name"},
		rows: [][]any{{"Ada"}},
	}
	shape := []types.Tag{types.TString(), types.TString()}

	_, err := decode.DecodeAll(cur, shape)
	var de *errs.DecodeError
	if !errors.As(err, &de) || de.Kind != "MissingColumn" {
		t.Fatalf("expected MissingColumn, got %v", err)
	}
}

func TestDecodeClosedCursor(t *testing.T) {
	cur := &fakeCursor{cols: []string{"x"}, closed: true}
	_, err := decode.DecodeAll(cur, []types.Tag{types.TInt()})
	var de *errs.DecodeError
	if !errors.As(err, &de) || de.Kind != "Closed" {
		t.Fatalf("expected Closed, got %v", err)
	}
}

func TestDecodeStopsAtFirstMapperError(t *testing.T) {
	cur := &fakeCursor{
		cols: []string{"n"},
		rows: [][]any{{int32(1)}, {int32(2)}, {int32(3)}},
	}
	shape := []types.Tag{types.TInt()}

	boom := errors.New("boom")
	var seen int
	err := decode.Decode(cur, shape, func(r decode.Row) error {
		seen++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom error, got %v", err)
	}
	if seen != 1 {
		t.Fatalf("expected exactly 1 row delivered before stopping, got %d", seen)
	}
	if !cur.closed {
		t.Fatal("expected cursor close even after mapper error")
	}
}

func TestDecodeTemporalNormalization(t *testing.T) {
	instant := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	cur := &fakeCursor{
		cols: []string{"dob"},
		rows: [][]any{{driver.Timestamp{UTC: instant}}},
	}
	shape := []types.Tag{types.TLocalDate()}

	rows, err := decode.DecodeAll(cur, shape)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := rows[0].Values[0].V.(time.Time)
	if !got.Equal(instant) {
		t.Fatalf("got %v, want %v", got, instant)
	}
}
