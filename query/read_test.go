package query

import (
	"testing"

	"github.com/omniql-engine/sqlkit/errs"
	"github.com/omniql-engine/sqlkit/expr"
	"github.com/omniql-engine/sqlkit/schema"
	"github.com/omniql-engine/sqlkit/types"
)

func usersTable() *schema.Table {
	cols := schema.Empty().
		Add("id", types.TLong()).
		Add("name", types.TString()).
		Add("age", types.TInt()).
		Add("manager_id", types.Nullable(types.TLong()))
	return cols.Table("users")
}

func ordersTable() *schema.Table {
	cols := schema.Empty().
		Add("id", types.TLong()).
		Add("user_id", types.TLong()).
		Add("total", types.TDouble())
	return cols.Table("orders")
}

func TestReadBasicSelectWhere(t *testing.T) {
	users := usersTable()
	r := From(users).
		Select(users.Col("id"), users.Col("name")).
		Where(users.Col("age").Gt(expr.Lit(18)))

	if r.Selection().Len() != 2 {
		t.Fatalf("expected 2 selected columns, got %d", r.Selection().Len())
	}
	if r.WhereExpr() == nil {
		t.Fatal("expected a WHERE predicate")
	}
}

func TestReadRejectsOutOfScopeColumn(t *testing.T) {
	users := usersTable()
	orders := ordersTable()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-scope column reference")
		}
	}()
	From(users).Select(orders.Col("total"))
}

func TestGroupByLegality(t *testing.T) {
	orders := ordersTable()
	r := From(orders).
		Select(orders.Col("user_id"), expr.Agg(expr.Sum, orders.Col("total"))).
		GroupBy(orders.Col("user_id"))

	if len(r.GroupByKeys()) != 1 {
		t.Fatalf("expected 1 group-by key, got %d", len(r.GroupByKeys()))
	}
}

func TestGroupByLegalityViolation(t *testing.T) {
	orders := ordersTable()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic: ungrouped, non-aggregated column in SELECT")
		}
	}()
	From(orders).
		Select(orders.Col("id"), expr.Agg(expr.Sum, orders.Col("total"))).
		GroupBy(orders.Col("user_id"))
}

func TestHavingWithoutGroupByPanics(t *testing.T) {
	orders := ordersTable()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic: HAVING without GROUP BY")
		}
	}()
	From(orders).
		Select(expr.Agg(expr.Sum, orders.Col("total"))).
		Having(orders.Col("total").Gt(expr.Lit(0.0)))
}

func TestNegativeLimitPanics(t *testing.T) {
	orders := ordersTable()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic: negative LIMIT")
		}
	}()
	From(orders).Select(orders.Col("id")).Limit(-1)
}

func TestUnionRequiresMatchingShape(t *testing.T) {
	users := usersTable()
	orders := ordersTable()

	left := From(users).Select(users.Col("id"))
	right := From(orders).Select(orders.Col("id"), orders.Col("total"))

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic: mismatched UNION shape")
		}
	}()
	left.Union(right)
}

func TestUnionAllMatchingShape(t *testing.T) {
	users := usersTable()
	orders := ordersTable()

	left := From(users).Select(users.Col("id"))
	right := From(orders).Select(orders.Col("id"))

	combined := left.UnionAll(right)
	if combined.SetOpKind() != string(unionAll) {
		t.Fatalf("expected UNION ALL, got %q", combined.SetOpKind())
	}
}

func TestJoinAndWeakSideLift(t *testing.T) {
	users := usersTable()
	orders := ordersTable()

	j := JoinOn(LeftOuter, orders, WeakSide(users), orders.Col("user_id").Eq(users.Col("id")))
	sel := From(j).Select(orders.Col("id"), WeakSide(users).Col("name"))

	shape := sel.Selection().Shape()
	if !shape[1].IsNullable() {
		t.Fatal("expected the weak-side column to be lifted to Nullable")
	}
}

func TestJoinWeakSideRequiresExplicitLift(t *testing.T) {
	users := usersTable()
	orders := ordersTable()

	j := JoinOn(LeftOuter, orders, users, orders.Col("user_id").Eq(users.Col("id")))

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic: direct reference to a weak-side column without WeakSide")
		}
		if err, ok := r.(*errs.ConstructionError); !ok || err.Kind != errs.UnliftedWeakSideColumn {
			t.Fatalf("expected UnliftedWeakSideColumn, got %v", r)
		}
	}()
	From(j).Select(orders.Col("id"), users.Col("name"))
}

func TestInSelectRequiresSingleColumn(t *testing.T) {
	users := usersTable()
	orders := ordersTable()

	sub := From(orders).Select(orders.Col("id"), orders.Col("user_id"))
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic: multi-column subquery in IN")
		}
	}()
	InSelect(users.Col("id"), sub)
}

func TestWithCTE(t *testing.T) {
	orders := ordersTable()
	totals := From(orders).
		Select(orders.Col("user_id"), expr.Agg(expr.Sum, orders.Col("total"))).
		GroupBy(orders.Col("user_id"))

	cte := With("user_totals", totals, "user_id", "total")
	r := From(cte.AsSource()).Select(cte.Col("user_id"), cte.Col("total")).With(cte)

	if len(r.CTEs()) != 1 {
		t.Fatalf("expected 1 CTE, got %d", len(r.CTEs()))
	}
}
