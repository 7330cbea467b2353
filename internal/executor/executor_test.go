package executor

import (
	"testing"

	"github.com/sg243/retailql/internal/domain/data"
	"github.com/sg243/retailql/internal/parser"
	"github.com/sg243/retailql/internal/plan"
)

func salesTable() data.Table {
	columns := []string{"category", "brand", "price", "quantity", "delivery_days"}
	rows := []data.Row{
		{"category": "Shoes", "brand": "NIKE", "price": 100.0, "quantity": int64(2), "delivery_days": 2.0},
		{"category": "Apparel", "brand": "ADIDAS", "price": 40.0, "quantity": int64(1), "delivery_days": 4.0},
		{"category": "Shoes", "brand": "PUMA", "price": 80.0, "quantity": int64(3), "delivery_days": 6.0},
		{"category": "Apparel", "brand": "NIKE", "price": 60.0, "quantity": int64(5), "delivery_days": 3.0},
	}
	return data.Table{Columns: columns, Rows: rows}
}

func run(t *testing.T, query string, table data.Table) *Result {
	t.Helper()
	stmt, err := parser.Parse(query)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	p, err := plan.Build(stmt, table)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	res, err := Execute(p, table)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	return res
}

func TestCountStar(t *testing.T) {
	table := salesTable()

	res := run(t, "SELECT COUNT(*) FROM data", table)
	if len(res.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(res.Rows))
	}
	if got := res.Rows[0]["count(*)"]; got != int64(4) {
		t.Errorf("expected count 4, got %v", got)
	}

	res = run(t, "SELECT COUNT(*) FROM data WHERE category = 'Shoes'", table)
	if got := res.Rows[0]["count(*)"]; got != int64(2) {
		t.Errorf("expected filtered count 2, got %v", got)
	}
}

func TestSumAndAvg(t *testing.T) {
	table := salesTable()

	res := run(t, "SELECT SUM(quantity) FROM data", table)
	if got := res.Rows[0]["sum(quantity)"]; got != 11.0 {
		t.Errorf("expected sum 11, got %v", got)
	}

	res = run(t, "SELECT AVG(delivery_days) AS avg_delivery_time FROM data WHERE brand = 'NIKE'", table)
	// delivery_days for NIKE rows: 2 and 3
	if got := res.Rows[0]["avg_delivery_time"]; got != 2.5 {
		t.Errorf("expected avg 2.5, got %v", got)
	}
}

func TestAvgExcludesNonNumericFromDenominator(t *testing.T) {
	table := data.Table{
		Columns: []string{"delivery_days"},
		Rows: []data.Row{
			{"delivery_days": 2.0},
			{"delivery_days": "oops"},
			{"delivery_days": 4.0},
			{"delivery_days": 6.0},
		},
	}
	res := run(t, "SELECT AVG(delivery_days) AS avg_delivery_time FROM data", table)
	if got := res.Rows[0]["avg_delivery_time"]; got != 4.0 {
		t.Errorf("expected avg 4 over the three numeric cells, got %v", got)
	}
}

func TestGroupByFirstSeenOrder(t *testing.T) {
	table := salesTable()
	res := run(t, "SELECT category, COUNT(*) FROM data GROUP BY category", table)

	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(res.Rows))
	}
	// Shoes appears first in the input, so its group comes first.
	if res.Rows[0]["category"] != "Shoes" || res.Rows[1]["category"] != "Apparel" {
		t.Errorf("group order not first-seen: %v, %v", res.Rows[0]["category"], res.Rows[1]["category"])
	}

	total := int64(0)
	for _, row := range res.Rows {
		total += row["count(*)"].(int64)
	}
	if total != int64(len(table.Rows)) {
		t.Errorf("per-group counts sum to %d, expected %d", total, len(table.Rows))
	}
}

func TestGroupedSumWithOrderAndLimit(t *testing.T) {
	table := salesTable()
	res := run(t, "SELECT category, SUM(price) AS revenue FROM data GROUP BY category ORDER BY revenue DESC LIMIT 1", table)

	if len(res.Rows) != 1 {
		t.Fatalf("expected 1 row after limit, got %d", len(res.Rows))
	}
	if res.Rows[0]["category"] != "Shoes" || res.Rows[0]["revenue"] != 180.0 {
		t.Errorf("expected Shoes/180, got %v/%v", res.Rows[0]["category"], res.Rows[0]["revenue"])
	}
}

func TestOrderByNumericAware(t *testing.T) {
	table := data.Table{
		Columns: []string{"name", "price"},
		Rows: []data.Row{
			{"name": "a", "price": "9"},
			{"name": "b", "price": "100"},
			{"name": "c", "price": "20"},
		},
	}
	res := run(t, "SELECT name, price FROM data ORDER BY price", table)

	want := []string{"a", "c", "b"} // 9 < 20 < 100, not lexicographic
	for i, w := range want {
		if res.Rows[i]["name"] != w {
			t.Errorf("row %d: expected %q, got %v", i, w, res.Rows[i]["name"])
		}
	}
}

func TestOrderByStableTieBreak(t *testing.T) {
	table := data.Table{
		Columns: []string{"name", "rank"},
		Rows: []data.Row{
			{"name": "first", "rank": 1.0},
			{"name": "second", "rank": 1.0},
			{"name": "third", "rank": 1.0},
		},
	}
	res := run(t, "SELECT name, rank FROM data ORDER BY rank", table)
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if res.Rows[i]["name"] != w {
			t.Errorf("row %d: expected %q, got %v (sort not stable)", i, w, res.Rows[i]["name"])
		}
	}
}

func TestWhereTypedComparison(t *testing.T) {
	table := salesTable()

	tests := []struct {
		query string
		want  int
	}{
		{"SELECT * FROM data WHERE price > 50", 3},
		{"SELECT * FROM data WHERE price >= 100", 1},
		{"SELECT * FROM data WHERE brand = 'NIKE'", 2},
		{"SELECT * FROM data WHERE brand != 'NIKE'", 2},
		{"SELECT * FROM data WHERE category = 'Shoes' AND price < 100", 1},
		{"SELECT * FROM data WHERE quantity <= 2", 2},
	}
	for _, tt := range tests {
		res := run(t, tt.query, table)
		if len(res.Rows) != tt.want {
			t.Errorf("%s: expected %d rows, got %d", tt.query, tt.want, len(res.Rows))
		}
	}
}

func TestMinMax(t *testing.T) {
	table := salesTable()
	res := run(t, "SELECT MIN(price), MAX(price) FROM data", table)
	if got := res.Rows[0]["min(price)"]; got != 40.0 {
		t.Errorf("expected min 40, got %v", got)
	}
	if got := res.Rows[0]["max(price)"]; got != 100.0 {
		t.Errorf("expected max 100, got %v", got)
	}
}

func TestRoundAggregate(t *testing.T) {
	table := data.Table{
		Columns: []string{"price"},
		Rows: []data.Row{
			{"price": 10.0},
			{"price": 11.0},
			{"price": 11.0},
		},
	}
	res := run(t, "SELECT ROUND(AVG(price), 1) AS avg_price FROM data", table)
	if got := res.Rows[0]["avg_price"]; got != 10.7 {
		t.Errorf("expected 10.7, got %v", got)
	}
}

func TestLimitZeroAndOversized(t *testing.T) {
	table := salesTable()

	res := run(t, "SELECT * FROM data LIMIT 0", table)
	if len(res.Rows) != 0 {
		t.Errorf("LIMIT 0: expected 0 rows, got %d", len(res.Rows))
	}

	res = run(t, "SELECT * FROM data LIMIT 100", table)
	if len(res.Rows) != 4 {
		t.Errorf("oversized LIMIT: expected all 4 rows, got %d", len(res.Rows))
	}
}

func TestInputTableNotMutated(t *testing.T) {
	table := salesTable()
	before := table.Copy()

	run(t, "SELECT category, SUM(price) FROM data GROUP BY category ORDER BY category", table)

	for i, row := range table.Rows {
		for k, v := range before.Rows[i] {
			if row[k] != v {
				t.Fatalf("row %d column %q mutated: %v -> %v", i, k, v, row[k])
			}
		}
	}
}

func TestDeterministicAcrossRuns(t *testing.T) {
	table := salesTable()
	query := "SELECT brand, COUNT(*), SUM(price) FROM data GROUP BY brand"

	first := run(t, query, table)
	for i := 0; i < 10; i++ {
		again := run(t, query, table)
		for r := range first.Rows {
			if first.Rows[r]["brand"] != again.Rows[r]["brand"] {
				t.Fatalf("run %d: group order changed: %v vs %v", i, first.Rows[r]["brand"], again.Rows[r]["brand"])
			}
		}
	}
}

func TestPlainColumnUnderGroupByTakesFirstRowValue(t *testing.T) {
	table := salesTable()
	res := run(t, "SELECT category, brand FROM data GROUP BY category", table)

	// First Shoes row carries NIKE, first Apparel row carries ADIDAS.
	if res.Rows[0]["brand"] != "NIKE" || res.Rows[1]["brand"] != "ADIDAS" {
		t.Errorf("expected first-row values NIKE/ADIDAS, got %v/%v", res.Rows[0]["brand"], res.Rows[1]["brand"])
	}
}
