// Package executor walks a query plan over an in-memory table and
// produces a fresh result table. The input table is only read, never
// mutated, and results are deterministic: grouping preserves
// first-seen order and sorting is stable.
package executor

import (
	"fmt"

	"github.com/sg243/retailql/internal/domain/data"
	"github.com/sg243/retailql/internal/plan"
)

// Result is the output of one query execution. It is created fresh per
// run and never mutated after return.
type Result struct {
	Columns []string
	Rows    []data.Row
	Message string
}

// Execute runs the plan against the table.
func Execute(p *plan.QueryPlan, table data.Table) (*Result, error) {
	filtered := filterRows(p.Filter, table.Rows)

	var rows []data.Row
	switch {
	case len(p.GroupBy) > 0:
		rows = executeGrouped(p, filtered)
	case p.HasAggregates():
		rows = []data.Row{projectGroup(p.Items, filtered)}
	default:
		rows = make([]data.Row, len(filtered))
		for i, src := range filtered {
			rows[i] = projectRow(p.Items, src)
		}
	}

	sortRows(rows, p.OrderBy)

	if p.Limit != nil && int64(len(rows)) > *p.Limit {
		rows = rows[:*p.Limit]
	}

	return &Result{
		Columns: p.Columns(),
		Rows:    rows,
		Message: fmt.Sprintf("Returned %d rows", len(rows)),
	}, nil
}

// filterRows evaluates the predicate tree against each row. A nil
// predicate passes everything.
func filterRows(pred plan.PredicateNode, rows []data.Row) []data.Row {
	if pred == nil {
		return rows
	}
	out := make([]data.Row, 0, len(rows))
	for _, row := range rows {
		if evalPredicate(pred, row) {
			out = append(out, row)
		}
	}
	return out
}

func evalPredicate(pred plan.PredicateNode, row data.Row) bool {
	switch p := pred.(type) {
	case *plan.And:
		return evalPredicate(p.Left, row) && evalPredicate(p.Right, row)
	case *plan.Compare:
		return evalCompare(p, row)
	}
	return false
}

// evalCompare applies typed comparison: numeric when both sides
// coerce to a number, string otherwise. Absent cells never match.
func evalCompare(cmp *plan.Compare, row data.Row) bool {
	val, ok := row[cmp.Column]
	if !ok {
		return false
	}

	ord, comparable := compareValues(val, cmp.Value)
	if !comparable {
		return false
	}
	switch cmp.Op {
	case plan.OpEq:
		return ord == 0
	case plan.OpNeq:
		return ord != 0
	case plan.OpLt:
		return ord < 0
	case plan.OpLte:
		return ord <= 0
	case plan.OpGt:
		return ord > 0
	case plan.OpGte:
		return ord >= 0
	}
	return false
}

// compareValues orders two cell values. Numeric comparison applies
// when both sides coerce; otherwise both render to strings.
func compareValues(a, b any) (int, bool) {
	af, aok := data.ToFloat(a)
	bf, bok := data.ToFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}

	as := data.Stringify(a)
	bs := data.Stringify(b)
	switch {
	case as < bs:
		return -1, true
	case as > bs:
		return 1, true
	default:
		return 0, true
	}
}

// executeGrouped partitions the filtered rows by the grouping-column
// tuple, preserving first-seen order, then projects one row per group.
func executeGrouped(p *plan.QueryPlan, rows []data.Row) []data.Row {
	type group struct {
		rows []data.Row
	}

	var order []string
	groups := make(map[string]*group)

	for _, row := range rows {
		key := groupKey(p.GroupBy, row)
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
			order = append(order, key)
		}
		g.rows = append(g.rows, row)
	}

	out := make([]data.Row, 0, len(order))
	for _, key := range order {
		out = append(out, projectGroup(p.Items, groups[key].rows))
	}
	return out
}

// groupKey renders the grouping tuple with an unprintable separator so
// distinct tuples cannot collide.
func groupKey(cols []string, row data.Row) string {
	key := ""
	for i, col := range cols {
		if i > 0 {
			key += "\x00"
		}
		key += row.String(col)
	}
	return key
}

// projectRow builds one output row from one source row (plain
// projection, no aggregates).
func projectRow(items []plan.Item, src data.Row) data.Row {
	out := make(data.Row, len(items))
	for _, it := range items {
		v, ok := src[it.Column]
		if !ok {
			continue
		}
		out[it.Output] = applyRound(v, it.Round)
	}
	return out
}

// projectGroup builds one output row for a group of source rows. Plain
// columns take the first row's value; aggregate items compute over the
// whole group.
func projectGroup(items []plan.Item, rows []data.Row) data.Row {
	out := make(data.Row, len(items))
	for _, it := range items {
		var v any
		if it.Kind == plan.AggregateItem {
			v = aggregate(it, rows)
		} else if len(rows) > 0 {
			v = rows[0][it.Column]
		}
		out[it.Output] = applyRound(v, it.Round)
	}
	return out
}
