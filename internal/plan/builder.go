// Package plan lowers a parsed SELECT statement into an executable
// query plan, validating every referenced column and function against
// the table schema on the way.
package plan

import (
	"fmt"
	"strings"

	"github.com/sg243/retailql/internal/domain/data"
	"github.com/sg243/retailql/internal/parser/ast"
)

// SourceName is the only table a query may read from.
const SourceName = "data"

var aggFuncs = map[string]AggFunc{
	"SUM":   AggSum,
	"AVG":   AggAvg,
	"COUNT": AggCount,
	"MIN":   AggMin,
	"MAX":   AggMax,
}

// Build lowers stmt into a QueryPlan over the given table schema.
// Violations surface as *SemanticError.
func Build(stmt *ast.SelectStatement, table data.Table) (*QueryPlan, error) {
	if !strings.EqualFold(stmt.TableName.Value, SourceName) {
		return nil, newSemanticError("source", stmt.TableName.Value, "only \"data\" can be queried")
	}

	p := &QueryPlan{Source: SourceName, Limit: stmt.Limit}

	items, err := buildItems(stmt.Items, table)
	if err != nil {
		return nil, err
	}
	p.Items = items

	if stmt.Where != nil {
		filter, err := buildPredicate(stmt.Where, table)
		if err != nil {
			return nil, err
		}
		p.Filter = filter
	}

	for _, g := range stmt.GroupBy {
		if !table.HasColumn(g.Value) {
			return nil, newSemanticError("column", g.Value, "GROUP BY target not in table")
		}
		p.GroupBy = append(p.GroupBy, g.Value)
	}

	outputs := make(map[string]bool, len(p.Items))
	for _, it := range p.Items {
		outputs[it.Output] = true
	}
	for _, key := range stmt.OrderBy {
		if !outputs[key.Column.Value] {
			return nil, newSemanticError("order target", key.Column.Value, "ORDER BY must name an output column")
		}
		p.OrderBy = append(p.OrderBy, OrderKey{Column: key.Column.Value, Desc: key.Desc})
	}

	return p, nil
}

func buildItems(items []ast.SelectItem, table data.Table) ([]Item, error) {
	// '*' expands to every table column, in header order, so the
	// output stays deterministic.
	if len(items) == 1 {
		if _, ok := items[0].Expr.(*ast.Star); ok {
			out := make([]Item, len(table.Columns))
			for i, col := range table.Columns {
				out[i] = Item{Kind: ColumnItem, Column: col, Output: col}
			}
			return out, nil
		}
	}

	out := make([]Item, 0, len(items))
	for _, astItem := range items {
		item, err := buildItem(astItem, table)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func buildItem(astItem ast.SelectItem, table data.Table) (Item, error) {
	item, err := buildItemExpr(astItem.Expr, table)
	if err != nil {
		return Item{}, err
	}
	if astItem.Alias != "" {
		item.Output = astItem.Alias
	}
	return item, nil
}

func buildItemExpr(expr ast.Expression, table data.Table) (Item, error) {
	switch e := expr.(type) {
	case *ast.Identifier:
		if !table.HasColumn(e.Value) {
			return Item{}, newSemanticError("column", e.Value, "")
		}
		return Item{Kind: ColumnItem, Column: e.Value, Output: e.Value}, nil

	case *ast.FunctionCall:
		name := strings.ToUpper(e.Name)
		if name == "ROUND" {
			return buildRound(e, table)
		}
		fn, ok := aggFuncs[name]
		if !ok {
			return Item{}, newSemanticError("function", e.Name, "")
		}
		item := Item{Kind: AggregateItem, Func: fn}
		if e.StarArg {
			if fn != AggCount {
				return Item{}, newSemanticError("function", e.Name, "only COUNT accepts *")
			}
			item.Star = true
			item.Output = "count(*)"
			return item, nil
		}
		if len(e.Args) != 1 {
			return Item{}, newSemanticError("function", e.Name, "expects exactly one column")
		}
		arg, ok := e.Args[0].(*ast.Identifier)
		if !ok {
			return Item{}, newSemanticError("function", e.Name, "argument must be a column")
		}
		if !table.HasColumn(arg.Value) {
			return Item{}, newSemanticError("column", arg.Value, "")
		}
		item.Column = arg.Value
		item.Output = fmt.Sprintf("%s(%s)", strings.ToLower(name), arg.Value)
		return item, nil

	default:
		return Item{}, newSemanticError("function", expr.String(), "unsupported projection")
	}
}

// buildRound lowers ROUND(expr, n). The inner expression may be an
// aggregate call or a plain column; rounding applies to its value.
func buildRound(call *ast.FunctionCall, table data.Table) (Item, error) {
	if len(call.Args) != 2 {
		return Item{}, newSemanticError("function", "ROUND", "expects (expression, digits)")
	}
	digitsLit, ok := call.Args[1].(*ast.Literal)
	if !ok || digitsLit.Kind != ast.LiteralInt {
		return Item{}, newSemanticError("function", "ROUND", "digit count must be an integer literal")
	}
	digits := int(digitsLit.Value.(int64))

	inner, err := buildItemExpr(call.Args[0], table)
	if err != nil {
		return Item{}, err
	}
	if inner.Round != nil {
		return Item{}, newSemanticError("function", "ROUND", "cannot nest ROUND")
	}
	inner.Round = &digits
	inner.Output = fmt.Sprintf("round(%s, %d)", inner.Output, digits)
	return inner, nil
}

func buildPredicate(expr ast.Expression, table data.Table) (PredicateNode, error) {
	bin, ok := expr.(*ast.BinaryExpression)
	if !ok {
		return nil, newSemanticError("column", expr.String(), "unsupported predicate")
	}

	if bin.Operator == "AND" {
		left, err := buildPredicate(bin.Left, table)
		if err != nil {
			return nil, err
		}
		right, err := buildPredicate(bin.Right, table)
		if err != nil {
			return nil, err
		}
		return &And{Left: left, Right: right}, nil
	}

	ident, ok := bin.Left.(*ast.Identifier)
	if !ok {
		return nil, newSemanticError("column", bin.Left.String(), "predicate left side must be a column")
	}
	if !table.HasColumn(ident.Value) {
		return nil, newSemanticError("column", ident.Value, "")
	}
	lit, ok := bin.Right.(*ast.Literal)
	if !ok {
		return nil, newSemanticError("column", bin.Right.String(), "predicate right side must be a literal")
	}

	return &Compare{Column: ident.Value, Op: CompareOp(bin.Operator), Value: lit.Value}, nil
}
