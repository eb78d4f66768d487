package query

import (
	"testing"

	"github.com/omniql-engine/sqlkit/expr"
)

func TestSelectionShapeAndAggregateDetection(t *testing.T) {
	orders := ordersTable()
	sel := Select(orders.Col("id"), expr.Agg(expr.Sum, orders.Col("total")))

	if sel.Len() != 2 {
		t.Fatalf("expected width 2, got %d", sel.Len())
	}
	if !sel.HasAggregate() {
		t.Fatal("expected HasAggregate to report true")
	}
}

func TestSelectRequiresAtLeastOneExpression(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty selection")
		}
	}()
	Select()
}
