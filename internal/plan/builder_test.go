package plan

import (
	"errors"
	"strings"
	"testing"

	"github.com/sg243/retailql/internal/domain/data"
	"github.com/sg243/retailql/internal/parser"
)

func testTable() data.Table {
	return data.Table{
		Columns: []string{"category", "brand", "price", "quantity", "delivery_days"},
	}
}

func buildQuery(t *testing.T, query string) *QueryPlan {
	t.Helper()
	stmt, err := parser.Parse(query)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	p, err := Build(stmt, testTable())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	return p
}

func TestBuildStarExpandsInHeaderOrder(t *testing.T) {
	p := buildQuery(t, "SELECT * FROM data")

	want := []string{"category", "brand", "price", "quantity", "delivery_days"}
	got := p.Columns()
	if len(got) != len(want) {
		t.Fatalf("expected %d columns, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("columns[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestBuildAggregateOutputNames(t *testing.T) {
	p := buildQuery(t, "SELECT COUNT(*), SUM(price), AVG(delivery_days) AS avg_delivery_time FROM data")

	want := []string{"count(*)", "sum(price)", "avg_delivery_time"}
	got := p.Columns()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("columns[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
	if !p.HasAggregates() {
		t.Error("expected HasAggregates to be true")
	}
}

func TestBuildRoundWrapsAggregate(t *testing.T) {
	p := buildQuery(t, "SELECT ROUND(AVG(price), 2) FROM data")

	it := p.Items[0]
	if it.Kind != AggregateItem || it.Func != AggAvg {
		t.Fatalf("expected AVG aggregate item, got %+v", it)
	}
	if it.Round == nil || *it.Round != 2 {
		t.Errorf("expected Round=2, got %v", it.Round)
	}
	if it.Output != "round(avg(price), 2)" {
		t.Errorf("unexpected output name %q", it.Output)
	}
}

func TestBuildPredicateTree(t *testing.T) {
	p := buildQuery(t, "SELECT * FROM data WHERE category = 'Shoes' AND price > 50")

	and, ok := p.Filter.(*And)
	if !ok {
		t.Fatalf("expected And root, got %T", p.Filter)
	}
	left, ok := and.Left.(*Compare)
	if !ok || left.Column != "category" || left.Op != OpEq {
		t.Errorf("unexpected left compare: %+v", and.Left)
	}
	right, ok := and.Right.(*Compare)
	if !ok || right.Column != "price" || right.Op != OpGt {
		t.Errorf("unexpected right compare: %+v", and.Right)
	}
}

func TestBuildSemanticErrors(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"unknown projected column", "SELECT nope FROM data"},
		{"unknown aggregate target", "SELECT SUM(nope) FROM data"},
		{"unknown function", "SELECT MEDIAN(price) FROM data"},
		{"star arg outside COUNT", "SELECT SUM(*) FROM data"},
		{"unknown filter column", "SELECT * FROM data WHERE nope = 1"},
		{"unknown group column", "SELECT * FROM data GROUP BY nope"},
		{"order by non-output column", "SELECT category FROM data ORDER BY price"},
		{"wrong source table", "SELECT * FROM sales"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := parser.Parse(tt.query)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			_, err = Build(stmt, testTable())
			if err == nil {
				t.Fatalf("expected semantic error for %q, got nil", tt.query)
			}
			var semErr *SemanticError
			if !errors.As(err, &semErr) {
				t.Errorf("expected *SemanticError, got %T (%v)", err, err)
			}
		})
	}
}

func TestBuildOrderByAlias(t *testing.T) {
	p := buildQuery(t, "SELECT SUM(price) AS revenue FROM data GROUP BY category ORDER BY revenue DESC")
	if len(p.OrderBy) != 1 || p.OrderBy[0].Column != "revenue" || !p.OrderBy[0].Desc {
		t.Errorf("unexpected order keys: %+v", p.OrderBy)
	}
}

func TestPlanString(t *testing.T) {
	p := buildQuery(t, "SELECT category, COUNT(*) FROM data WHERE price > 10 GROUP BY category LIMIT 3")
	rendered := p.String()
	for _, want := range []string{"scan data", "filter price > 10", "group by category", "limit 3"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("plan rendering missing %q:\n%s", want, rendered)
		}
	}
}
