package render_test

import (
	"testing"

	"github.com/omniql-engine/sqlkit/dialect/postgres"
	"github.com/omniql-engine/sqlkit/expr"
	"github.com/omniql-engine/sqlkit/query"
	"github.com/omniql-engine/sqlkit/render"
	"github.com/omniql-engine/sqlkit/schema"
	"github.com/omniql-engine/sqlkit/types"
)

// Schema grounded in spec §8's end-to-end scenario fixtures.
func usersTable() *schema.Table {
	return schema.Empty().
		Add("usr_id", types.TInt()).
		Add("dob", types.TLocalDate()).
		Add("first_name", types.TString()).
		Add("last_name", types.TString()).
		Table("users")
}

func ordersTable() *schema.Table {
	return schema.Empty().
		Add("order_id", types.TInt()).
		Add("usr_id", types.TInt()).
		Add("order_date", types.TLocalDate()).
		Table("orders")
}

func orderDetailsTable() *schema.Table {
	return schema.Empty().
		Add("order_id", types.TInt()).
		Add("product_id", types.TInt()).
		Add("quantity", types.TDouble()).
		Add("unit_price", types.TDouble()).
		Table("order_details")
}

func mustRender(t *testing.T, stmt render.Statement) string {
	t.Helper()
	sql, err := render.Render(stmt, postgres.Postgres{})
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	return sql
}

// S1: select(first_name ++ last_name).from(users)
func TestS1PlainSelect(t *testing.T) {
	users := usersTable()
	r := query.From(users).Select(users.Col("first_name"), users.Col("last_name"))
	got := mustRender(t, r)
	want := `SELECT "users"."first_name", "users"."last_name" FROM "users"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// S2: aliased selection renders AS, same shape as S1 modulo alias.
func TestS2AliasedSelect(t *testing.T) {
	users := usersTable()
	r := query.From(users).Select(
		expr.As(users.Col("first_name"), "first"),
		expr.As(users.Col("last_name"), "last"),
	)
	got := mustRender(t, r)
	want := `SELECT "users"."first_name" AS "first", "users"."last_name" AS "last" FROM "users"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// S3: select ... orderBy(last.asc, first.desc).limit(2)
func TestS3OrderByLimit(t *testing.T) {
	users := usersTable()
	r := query.From(users).
		Select(users.Col("first_name"), users.Col("last_name")).
		OrderBy(users.Col("last_name").Asc(), users.Col("first_name").Desc()).
		Limit(2)
	got := mustRender(t, r)
	want := `SELECT "users"."first_name", "users"."last_name" FROM "users" ORDER BY "users"."last_name" ASC, "users"."first_name" DESC LIMIT 2`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// S4: deleteFrom(users).where(first_name === lit("Terrence"))
func TestS4Delete(t *testing.T) {
	users := usersTable()
	d := query.DeleteFrom(users).Where(users.Col("first_name").Eq(expr.Lit("Terrence")))
	got := mustRender(t, d)
	want := `DELETE FROM "users" WHERE "users"."first_name" = 'Terrence'`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// S5: deleteFrom(users).where(first_name in (...))
func TestS5DeleteIn(t *testing.T) {
	users := usersTable()
	d := query.DeleteFrom(users).Where(
		expr.In(users.Col("first_name"), expr.Lit("Fred"), expr.Lit("Terrance")),
	)
	got := mustRender(t, d)
	want := `DELETE FROM "users" WHERE "users"."first_name" IN ('Fred', 'Terrance')`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// S6: left outer join, Nullable lifting on the weak side.
func TestS6LeftOuterJoin(t *testing.T) {
	users := usersTable()
	orders := ordersTable()
	src := query.JoinOn(query.LeftOuter, users, orders,
		orders.Col("usr_id").Eq(users.Col("usr_id")))

	weakOrders := query.WeakSide(orders)
	r := query.From(src).Select(
		users.Col("first_name"), users.Col("last_name"), weakOrders.Col("order_date"),
	)
	got := mustRender(t, r)
	want := `SELECT "users"."first_name", "users"."last_name", "orders"."order_date" FROM "users" LEFT OUTER JOIN "orders" ON "orders"."usr_id" = "users"."usr_id"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if !weakOrders.Col("order_date").Type().IsNullable() {
		t.Fatal("expected order_date read through the weak side to be Nullable")
	}
}

// Weak-side enforcement: a LEFT OUTER join's right side must be read
// through WeakSide; a direct, non-lifted reference fails at construction
// time rather than silently reaching decode and failing there instead.
func TestS6DirectWeakSideReferenceWithoutLiftPanics(t *testing.T) {
	users := usersTable()
	orders := ordersTable()
	src := query.JoinOn(query.LeftOuter, users, orders,
		orders.Col("usr_id").Eq(users.Col("usr_id")))

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic: orders.order_date read directly through the weak side without WeakSide")
		}
	}()
	query.From(src).Select(users.Col("first_name"), orders.Col("order_date"))
}

// S7: group-by legality — omitting a key from GroupBy panics.
func TestS7GroupByOmittingKeyPanics(t *testing.T) {
	users := usersTable()
	orders := ordersTable()
	details := orderDetailsTable()

	src := query.JoinOn(query.Inner, users, orders, orders.Col("usr_id").Eq(users.Col("usr_id")))
	src = query.JoinOn(query.LeftOuter, src, details, orders.Col("order_id").Eq(details.Col("order_id")))

	// order_details is the weak side of the LEFT OUTER join, so its columns
	// are read through WeakSide.
	weakDetails := query.WeakSide(details)
	r := query.From(src).Select(
		users.Col("usr_id"),
		users.Col("first_name"),
		users.Col("last_name"),
		expr.As(expr.Agg(expr.Sum, expr.Binary(expr.Mul, weakDetails.Col("quantity"), weakDetails.Col("unit_price"))), "total_spend"),
	)

	defer func() {
		if recover() == nil {
			t.Fatal("expected GroupByLegalityViolation panic when last_name is omitted from GROUP BY")
		}
	}()
	r.GroupBy(users.Col("usr_id"), users.Col("first_name"))
}

func TestS7GroupByWithAllKeysSucceeds(t *testing.T) {
	users := usersTable()
	orders := ordersTable()
	details := orderDetailsTable()

	src := query.JoinOn(query.Inner, users, orders, orders.Col("usr_id").Eq(users.Col("usr_id")))
	src = query.JoinOn(query.LeftOuter, src, details, orders.Col("order_id").Eq(details.Col("order_id")))

	weakDetails := query.WeakSide(details)
	r := query.From(src).Select(
		users.Col("usr_id"),
		users.Col("first_name"),
		users.Col("last_name"),
		expr.As(expr.Agg(expr.Sum, expr.Binary(expr.Mul, weakDetails.Col("quantity"), weakDetails.Col("unit_price"))), "total_spend"),
	).GroupBy(users.Col("usr_id"), users.Col("first_name"), users.Col("last_name"))

	got := mustRender(t, r)
	want := `SELECT "users"."usr_id", "users"."first_name", "users"."last_name", SUM("order_details"."quantity" * "order_details"."unit_price") AS "total_spend" FROM "users" INNER JOIN "orders" ON "orders"."usr_id" = "users"."usr_id" LEFT OUTER JOIN "order_details" ON "orders"."order_id" = "order_details"."order_id" GROUP BY "users"."usr_id", "users"."first_name", "users"."last_name"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// Group-by legality also admits a bare literal and a pure function composed
// entirely of the grouping keys, not only the key expressions themselves.
func TestGroupByAllowsLiteralAndPureFunctionOfKeys(t *testing.T) {
	users := usersTable()
	r := query.From(users).
		Select(
			users.Col("first_name"),
			users.Col("last_name"),
			expr.Lit("constant"),
			expr.Concat(users.Col("first_name"), users.Col("last_name")),
		).
		GroupBy(users.Col("first_name"), users.Col("last_name"))

	got := mustRender(t, r)
	want := `SELECT "users"."first_name", "users"."last_name", 'constant', CONCAT("users"."first_name", "users"."last_name") FROM "users" GROUP BY "users"."first_name", "users"."last_name"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// Boundary: empty selection is rejected at construction.
func TestEmptySelectionRejected(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty selection")
		}
	}()
	query.Select()
}

// Boundary: LIMIT 0 renders.
func TestLimitZeroRenders(t *testing.T) {
	users := usersTable()
	r := query.From(users).Select(users.Col("first_name")).Limit(0)
	got := mustRender(t, r)
	want := `SELECT "users"."first_name" FROM "users" LIMIT 0`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// Boundary: COUNT(*) renders without an argument.
func TestCountAllRenders(t *testing.T) {
	users := usersTable()
	r := query.From(users).Select(expr.As(expr.CountAll(), "n"))
	got := mustRender(t, r)
	want := `SELECT COUNT(*) AS "n" FROM "users"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// Precedence: parenthesization around a lower-precedence child.
func TestPrecedenceParenthesizesMultiplicationOverAddition(t *testing.T) {
	users := usersTable()
	e := expr.Binary(expr.Mul,
		expr.Binary(expr.Add, expr.Lit(1), expr.Lit(2)),
		expr.Lit(3),
	)
	r := query.From(users).Select(e)
	got := mustRender(t, r)
	want := `SELECT (1 + 2) * 3 FROM "users"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// Insert/Update render sanity, beyond the spec's Read-focused scenarios.
func TestInsertRender(t *testing.T) {
	users := usersTable()
	ins := query.InsertInto(users, users.Col("usr_id"), users.Col("first_name")).
		Values([]expr.Expr{expr.Lit(int32(1)), expr.Lit("Ada")})
	got := mustRender(t, ins)
	want := `INSERT INTO "users" ("usr_id", "first_name") VALUES (1, 'Ada')`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestUpdateRender(t *testing.T) {
	users := usersTable()
	u := query.UpdateTable(users, query.Set(users.Col("first_name"), expr.Lit("Ada"))).
		Where(users.Col("usr_id").Eq(expr.Lit(int32(1))))
	got := mustRender(t, u)
	want := `UPDATE "users" SET "first_name" = 'Ada' WHERE "users"."usr_id" = 1`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestUnionRendersBothSides(t *testing.T) {
	users := usersTable()
	left := query.From(users).Select(users.Col("first_name"))
	right := query.From(users).Select(users.Col("last_name"))
	got := mustRender(t, left.UnionAll(right))
	want := `SELECT "users"."first_name" FROM "users" UNION ALL SELECT "users"."last_name" FROM "users"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
