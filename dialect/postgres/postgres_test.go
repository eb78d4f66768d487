package postgres

import (
	"testing"

	"github.com/omniql-engine/sqlkit/types"
)

func TestQuoteIdentEscapesQuotes(t *testing.T) {
	got := Postgres{}.QuoteIdent(`weird"name`)
	want := `"weird""name"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderLiteralString(t *testing.T) {
	sql, ok := Postgres{}.RenderLiteral(types.Lit(types.TString(), "O'Brien"))
	if !ok {
		t.Fatal("expected ok=true for String")
	}
	if sql != `'O''Brien'` {
		t.Fatalf("got %q", sql)
	}
}

func TestRenderLiteralNull(t *testing.T) {
	sql, ok := Postgres{}.RenderLiteral(types.NullOf(types.Nullable(types.TInt())))
	if !ok || sql != "NULL" {
		t.Fatalf("got %q, %v", sql, ok)
	}
}

func TestValidateRejectsBadSQL(t *testing.T) {
	if err := (Postgres{}).Validate("SELEC 1"); err == nil {
		t.Fatal("expected a parse error for malformed SQL")
	}
}

func TestValidateAcceptsGoodSQL(t *testing.T) {
	if err := (Postgres{}).Validate(`SELECT 1`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
