package ast

import (
	"bytes"
	"fmt"
	"strings"
)

// Node is the base interface for all AST nodes
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement represents a standalone SQL statement
type Statement interface {
	Node
	statementNode()
}

// Expression represents a value or operation
type Expression interface {
	Node
	expressionNode()
}

// LiteralKind tags the runtime type carried by a Literal
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralInt
	LiteralFloat
	LiteralBool
)

// Identifier represents a column or table name
type Identifier struct {
	TokenLiteralValue string
	Value             string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.TokenLiteralValue }
func (i *Identifier) String() string       { return i.Value }

// Literal represents a fixed value (string, number, bool)
type Literal struct {
	TokenLiteralValue string
	Value             interface{} // string, int64, float64, bool
	Kind              LiteralKind
}

func (l *Literal) expressionNode()      {}
func (l *Literal) TokenLiteral() string { return l.TokenLiteralValue }
func (l *Literal) String() string       { return l.TokenLiteralValue }

// Star represents the bare '*' projection
type Star struct{}

func (s *Star) expressionNode()      {}
func (s *Star) TokenLiteral() string { return "*" }
func (s *Star) String() string       { return "*" }

// FunctionCall represents an aggregate or scalar call like SUM(price)
// or ROUND(AVG(price), 2). StarArg marks COUNT(*).
type FunctionCall struct {
	Name    string
	Args    []Expression
	StarArg bool
}

func (f *FunctionCall) expressionNode()      {}
func (f *FunctionCall) TokenLiteral() string { return f.Name }
func (f *FunctionCall) String() string {
	if f.StarArg {
		return fmt.Sprintf("%s(*)", strings.ToLower(f.Name))
	}
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", strings.ToLower(f.Name), strings.Join(args, ", "))
}

// BinaryExpression: Left Operator Right (e.g. price > 100, a AND b)
type BinaryExpression struct {
	Left     Expression
	Operator string
	Right    Expression
}

func (e *BinaryExpression) expressionNode()      {}
func (e *BinaryExpression) TokenLiteral() string { return e.Operator }
func (e *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Operator, e.Right.String())
}

// SelectItem is one projection entry with an optional alias
type SelectItem struct {
	Expr  Expression
	Alias string
}

func (s SelectItem) String() string {
	if s.Alias != "" {
		return fmt.Sprintf("%s AS %s", s.Expr.String(), s.Alias)
	}
	return s.Expr.String()
}

// OrderKey is one ORDER BY entry
type OrderKey struct {
	Column *Identifier
	Desc   bool
}

func (o OrderKey) String() string {
	if o.Desc {
		return o.Column.String() + " DESC"
	}
	return o.Column.String() + " ASC"
}

// SelectStatement:
// SELECT items FROM table [WHERE expr] [GROUP BY cols] [ORDER BY keys] [LIMIT n]
type SelectStatement struct {
	Items     []SelectItem
	TableName *Identifier
	Where     Expression // nil when absent
	GroupBy   []*Identifier
	OrderBy   []OrderKey
	Limit     *int64 // nil when absent
}

func (s *SelectStatement) statementNode()       {}
func (s *SelectStatement) TokenLiteral() string { return "SELECT" }
func (s *SelectStatement) String() string {
	var out bytes.Buffer
	out.WriteString("SELECT ")
	for i, item := range s.Items {
		out.WriteString(item.String())
		if i < len(s.Items)-1 {
			out.WriteString(", ")
		}
	}
	out.WriteString(" FROM ")
	out.WriteString(s.TableName.String())
	if s.Where != nil {
		out.WriteString(" WHERE ")
		out.WriteString(s.Where.String())
	}
	if len(s.GroupBy) > 0 {
		out.WriteString(" GROUP BY ")
		for i, g := range s.GroupBy {
			out.WriteString(g.String())
			if i < len(s.GroupBy)-1 {
				out.WriteString(", ")
			}
		}
	}
	if len(s.OrderBy) > 0 {
		out.WriteString(" ORDER BY ")
		for i, o := range s.OrderBy {
			out.WriteString(o.String())
			if i < len(s.OrderBy)-1 {
				out.WriteString(", ")
			}
		}
	}
	if s.Limit != nil {
		out.WriteString(fmt.Sprintf(" LIMIT %d", *s.Limit))
	}
	return out.String()
}
