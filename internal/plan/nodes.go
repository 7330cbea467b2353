package plan

import (
	"fmt"
	"strings"
)

// AggFunc identifies an aggregate function.
type AggFunc string

const (
	AggSum   AggFunc = "SUM"
	AggAvg   AggFunc = "AVG"
	AggCount AggFunc = "COUNT"
	AggMin   AggFunc = "MIN"
	AggMax   AggFunc = "MAX"
)

// ItemKind tags a projection item.
type ItemKind int

const (
	ColumnItem ItemKind = iota
	AggregateItem
)

// Item is one output column of the plan.
type Item struct {
	Kind   ItemKind
	Column string  // source column; "" for COUNT(*)
	Func   AggFunc // set for AggregateItem
	Star   bool    // COUNT(*)
	Round  *int    // ROUND digits wrapping the value, nil when absent
	Output string  // output column name (alias or derived)
}

func (it Item) String() string {
	var inner string
	switch it.Kind {
	case AggregateItem:
		arg := it.Column
		if it.Star {
			arg = "*"
		}
		inner = fmt.Sprintf("%s(%s)", strings.ToLower(string(it.Func)), arg)
	default:
		inner = it.Column
	}
	if it.Round != nil {
		inner = fmt.Sprintf("round(%s, %d)", inner, *it.Round)
	}
	if it.Output != inner {
		return fmt.Sprintf("%s AS %s", inner, it.Output)
	}
	return inner
}

// CompareOp is a predicate comparison operator.
type CompareOp string

const (
	OpEq  CompareOp = "="
	OpNeq CompareOp = "!="
	OpLt  CompareOp = "<"
	OpLte CompareOp = "<="
	OpGt  CompareOp = ">"
	OpGte CompareOp = ">="
)

// PredicateNode is a node in the filter tree.
type PredicateNode interface {
	predicateNode()
	String() string
}

// Compare matches rows where a column relates to a literal.
type Compare struct {
	Column string
	Op     CompareOp
	Value  any // string, int64, float64 or bool literal
}

func (c *Compare) predicateNode() {}
func (c *Compare) String() string {
	return fmt.Sprintf("%s %s %v", c.Column, c.Op, c.Value)
}

// And matches rows that satisfy both children.
type And struct {
	Left, Right PredicateNode
}

func (a *And) predicateNode() {}
func (a *And) String() string {
	return fmt.Sprintf("(%s AND %s)", a.Left.String(), a.Right.String())
}

// OrderKey is one ordering key over an output column.
type OrderKey struct {
	Column string
	Desc   bool
}

func (o OrderKey) String() string {
	if o.Desc {
		return o.Column + " DESC"
	}
	return o.Column + " ASC"
}

// QueryPlan is the executable representation of a parsed query.
type QueryPlan struct {
	Source  string
	Items   []Item
	Filter  PredicateNode // nil means all rows pass
	GroupBy []string
	OrderBy []OrderKey
	Limit   *int64 // nil means no limit
}

// HasAggregates reports whether any projection item aggregates.
func (p *QueryPlan) HasAggregates() bool {
	for _, it := range p.Items {
		if it.Kind == AggregateItem {
			return true
		}
	}
	return false
}

// Columns returns the output column names in order.
func (p *QueryPlan) Columns() []string {
	cols := make([]string, len(p.Items))
	for i, it := range p.Items {
		cols[i] = it.Output
	}
	return cols
}

// NodeType returns the type identifier (for debugging/logging)
func (p *QueryPlan) NodeType() string { return "SELECT" }

// String renders an EXPLAIN-style view of the plan.
func (p *QueryPlan) String() string {
	var b strings.Builder
	b.WriteString("scan " + p.Source)
	if p.Filter != nil {
		b.WriteString("\n  filter " + p.Filter.String())
	}
	if len(p.GroupBy) > 0 {
		b.WriteString("\n  group by " + strings.Join(p.GroupBy, ", "))
	}
	items := make([]string, len(p.Items))
	for i, it := range p.Items {
		items[i] = it.String()
	}
	b.WriteString("\n  project " + strings.Join(items, ", "))
	if len(p.OrderBy) > 0 {
		keys := make([]string, len(p.OrderBy))
		for i, k := range p.OrderBy {
			keys[i] = k.String()
		}
		b.WriteString("\n  order by " + strings.Join(keys, ", "))
	}
	if p.Limit != nil {
		b.WriteString(fmt.Sprintf("\n  limit %d", *p.Limit))
	}
	return b.String()
}
