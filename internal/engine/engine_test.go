package engine

import (
	"errors"
	"testing"

	"github.com/sg243/retailql/internal/domain/data"
	"github.com/sg243/retailql/internal/parser"
	"github.com/sg243/retailql/internal/plan"
)

func deliveryTable() data.Table {
	return data.Table{
		Columns: []string{"delivery_days"},
		Rows: []data.Row{
			{"delivery_days": 2.0},
			{"delivery_days": 4.0},
			{"delivery_days": 6.0},
		},
	}
}

func TestExecuteAvgWithAlias(t *testing.T) {
	eng := New()
	res, err := eng.Execute("SELECT AVG(delivery_days) AS avg_delivery_time FROM data", deliveryTable())
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if len(res.Columns) != 1 || res.Columns[0] != "avg_delivery_time" {
		t.Fatalf("unexpected columns: %v", res.Columns)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(res.Rows))
	}
	if got := res.Rows[0]["avg_delivery_time"]; got != 4.0 {
		t.Errorf("expected 4, got %v", got)
	}
}

func TestExecuteSyntaxErrorLeavesTableAlone(t *testing.T) {
	eng := New()
	table := deliveryTable()

	_, err := eng.Execute("SELECT FRM data", table)
	if err == nil {
		t.Fatal("expected syntax error, got nil")
	}
	var syntaxErr *parser.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Errorf("expected *parser.SyntaxError, got %T (%v)", err, err)
	}

	if len(table.Rows) != 3 {
		t.Errorf("table changed after failed query: %d rows", len(table.Rows))
	}
}

func TestExecuteSemanticError(t *testing.T) {
	eng := New()
	_, err := eng.Execute("SELECT SUM(nope) FROM data", deliveryTable())
	if err == nil {
		t.Fatal("expected semantic error, got nil")
	}
	var semErr *plan.SemanticError
	if !errors.As(err, &semErr) {
		t.Errorf("expected *plan.SemanticError, got %T (%v)", err, err)
	}
}

func TestPlanWithoutExecuting(t *testing.T) {
	eng := New()
	p, err := eng.Plan("SELECT COUNT(*) FROM data", deliveryTable())
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	if p.NodeType() != "SELECT" {
		t.Errorf("unexpected node type %q", p.NodeType())
	}
}
