package query

import (
	"testing"

	"github.com/omniql-engine/sqlkit/expr"
)

func TestInsertValuesShapeCheck(t *testing.T) {
	users := usersTable()
	ins := InsertInto(users, users.Col("id"), users.Col("name"))
	ins.Values([]expr.Expr{expr.Lit(int64(1)), expr.Lit("ada")})

	if len(ins.Rows()) != 1 {
		t.Fatalf("expected 1 row, got %d", len(ins.Rows()))
	}
}

func TestInsertValuesArityMismatchPanics(t *testing.T) {
	users := usersTable()
	ins := InsertInto(users, users.Col("id"), users.Col("name"))
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on arity mismatch")
		}
	}()
	ins.Values([]expr.Expr{expr.Lit(int64(1))})
}

func TestInsertFromSelectShapeCheck(t *testing.T) {
	users := usersTable()
	orders := ordersTable()
	sub := From(orders).Select(orders.Col("user_id"), orders.Col("total"))

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic: INSERT...SELECT shape mismatch against (id,name) columns")
		}
	}()
	InsertInto(users, users.Col("id"), users.Col("name")).FromSelect(sub)
}

func TestUpdateDuplicateAssignmentPanics(t *testing.T) {
	users := usersTable()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic: column assigned twice")
		}
	}()
	UpdateTable(users,
		Set(users.Col("name"), expr.Lit("a")),
		Set(users.Col("name"), expr.Lit("b")),
	)
}

func TestUpdateWhere(t *testing.T) {
	users := usersTable()
	u := UpdateTable(users, Set(users.Col("name"), expr.Lit("ada"))).
		Where(users.Col("id").Eq(expr.Lit(int64(1))))

	if u.WhereExpr() == nil {
		t.Fatal("expected a WHERE predicate")
	}
}

func TestDeleteWhere(t *testing.T) {
	users := usersTable()
	d := DeleteFrom(users).Where(users.Col("age").Lt(expr.Lit(18)))
	if d.WhereExpr() == nil {
		t.Fatal("expected a WHERE predicate")
	}
}

func TestUpsertOnConflict(t *testing.T) {
	users := usersTable()
	ins := InsertInto(users, users.Col("id"), users.Col("name")).
		Values([]expr.Expr{expr.Lit(int64(1)), expr.Lit("ada")}).
		OnConflict(DoUpdate([]*expr.ColumnRef{users.Col("id")}, Set(users.Col("name"), expr.Lit("ada lovelace"))))

	if ins.Conflict() == nil {
		t.Fatal("expected conflict clause to be attached")
	}
}
