// Package parser turns a token stream into a SelectStatement AST.
// The grammar is the read-only subset the dashboard issues:
//
//	SELECT proj FROM data [WHERE pred] [GROUP BY cols]
//	  [ORDER BY col [ASC|DESC]] [LIMIT n]
package parser

import (
	"strconv"

	"github.com/sg243/retailql/internal/parser/ast"
	"github.com/sg243/retailql/internal/parser/lexer"
)

type Parser struct {
	tokens  []lexer.Token
	curPos  int
	curTok  lexer.Token
	peekTok lexer.Token
}

func New(tokens []lexer.Token) *Parser {
	p := &Parser{tokens: tokens, curPos: 0}
	// Read two tokens to set curTok and peekTok
	p.nextToken()
	p.nextToken()
	return p
}

// Parse tokenizes and parses a query string in one step.
// Both lexing and parsing failures come back as *SyntaxError.
func Parse(query string) (*ast.SelectStatement, error) {
	tokens, err := lexer.Tokenize(query)
	if err != nil {
		return nil, &SyntaxError{Expected: "a valid token", Got: err.Error()}
	}
	return New(tokens).ParseSelect()
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	if p.curPos < len(p.tokens) {
		p.peekTok = p.tokens[p.curPos]
		p.curPos++
	} else {
		p.peekTok = lexer.Token{Type: lexer.EOF}
	}
}

func (p *Parser) errExpected(expected string) *SyntaxError {
	return newSyntaxError(p.curTok.Line, p.curTok.Column, p.curTok.Literal, expected)
}

// ParseSelect parses a complete SELECT statement and requires the
// input to end afterwards (optionally with a semicolon).
func (p *Parser) ParseSelect() (*ast.SelectStatement, error) {
	if p.curTok.Type != lexer.SELECT {
		return nil, p.errExpected("SELECT")
	}
	p.nextToken()

	stmt := &ast.SelectStatement{}

	items, err := p.parseSelectItems()
	if err != nil {
		return nil, err
	}
	stmt.Items = items

	if p.curTok.Type != lexer.FROM {
		return nil, p.errExpected("FROM")
	}
	p.nextToken()

	if p.curTok.Type != lexer.IDENTIFIER {
		return nil, p.errExpected("table name")
	}
	stmt.TableName = &ast.Identifier{TokenLiteralValue: p.curTok.Literal, Value: p.curTok.Literal}
	p.nextToken()

	if p.curTok.Type == lexer.WHERE {
		p.nextToken()
		expr, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		stmt.Where = expr
	}

	if p.curTok.Type == lexer.GROUP {
		p.nextToken()
		if p.curTok.Type != lexer.BY {
			return nil, p.errExpected("BY after GROUP")
		}
		p.nextToken()
		cols, err := p.parseIdentifierList()
		if err != nil {
			return nil, err
		}
		stmt.GroupBy = cols
	}

	if p.curTok.Type == lexer.ORDER {
		p.nextToken()
		if p.curTok.Type != lexer.BY {
			return nil, p.errExpected("BY after ORDER")
		}
		p.nextToken()
		keys, err := p.parseOrderKeys()
		if err != nil {
			return nil, err
		}
		stmt.OrderBy = keys
	}

	if p.curTok.Type == lexer.LIMIT {
		p.nextToken()
		if p.curTok.Type != lexer.NUMBER {
			return nil, p.errExpected("row count after LIMIT")
		}
		n, err := strconv.ParseInt(p.curTok.Literal, 10, 64)
		if err != nil || n < 0 {
			return nil, p.errExpected("a non-negative integer after LIMIT")
		}
		stmt.Limit = &n
		p.nextToken()
	}

	if p.curTok.Type == lexer.SEMICOLON {
		p.nextToken()
	}

	if p.curTok.Type != lexer.EOF {
		return nil, p.errExpected("end of query")
	}

	return stmt, nil
}

// parseSelectItems parses '*' or a comma-separated projection list.
// '*' is only valid on its own.
func (p *Parser) parseSelectItems() ([]ast.SelectItem, error) {
	if p.curTok.Type == lexer.ASTERISK {
		p.nextToken()
		if p.curTok.Type == lexer.COMMA {
			return nil, p.errExpected("FROM ('*' cannot be combined with other projections)")
		}
		return []ast.SelectItem{{Expr: &ast.Star{}}}, nil
	}

	var items []ast.SelectItem
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		if p.curTok.Type != lexer.COMMA {
			return items, nil
		}
		p.nextToken()
	}
}

func (p *Parser) parseSelectItem() (ast.SelectItem, error) {
	expr, err := p.parseProjectionExpr()
	if err != nil {
		return ast.SelectItem{}, err
	}

	item := ast.SelectItem{Expr: expr}
	if p.curTok.Type == lexer.AS {
		p.nextToken()
		if p.curTok.Type != lexer.IDENTIFIER {
			return ast.SelectItem{}, p.errExpected("alias after AS")
		}
		item.Alias = p.curTok.Literal
		p.nextToken()
	}
	return item, nil
}

// parseProjectionExpr parses a column reference or a function call.
// An identifier followed by '(' is a call; the function name is
// validated later, during planning.
func (p *Parser) parseProjectionExpr() (ast.Expression, error) {
	if p.curTok.Type != lexer.IDENTIFIER {
		return nil, p.errExpected("column or function")
	}
	name := p.curTok.Literal

	if p.peekTok.Type != lexer.PAREN_OPEN {
		p.nextToken()
		return &ast.Identifier{TokenLiteralValue: name, Value: name}, nil
	}

	// Function call
	p.nextToken() // onto '('
	p.nextToken() // past '('
	call := &ast.FunctionCall{Name: name}

	if p.curTok.Type == lexer.ASTERISK {
		call.StarArg = true
		p.nextToken()
	} else {
		for {
			arg, err := p.parseCallArg()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if p.curTok.Type != lexer.COMMA {
				break
			}
			p.nextToken()
		}
	}

	if p.curTok.Type != lexer.PAREN_CLOSE {
		return nil, p.errExpected(")")
	}
	p.nextToken()
	return call, nil
}

// parseCallArg parses a function argument: a nested call, a column
// reference or a numeric literal (for ROUND's digit count).
func (p *Parser) parseCallArg() (ast.Expression, error) {
	switch p.curTok.Type {
	case lexer.IDENTIFIER:
		return p.parseProjectionExpr()
	case lexer.NUMBER:
		return p.parseNumber()
	default:
		return nil, p.errExpected("column, function call or number")
	}
}

// parsePredicate parses col op literal ('AND' col op literal)* into a
// left-associative AND tree.
func (p *Parser) parsePredicate() (ast.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.curTok.Type == lexer.AND {
		p.nextToken()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Left: left, Operator: "AND", Right: right}
	}
	return left, nil
}

var comparisonOps = map[lexer.TokenType]string{
	lexer.EQUALS:     "=",
	lexer.NOT_EQUALS: "!=",
	lexer.LESS:       "<",
	lexer.LESS_EQ:    "<=",
	lexer.GREATER:    ">",
	lexer.GREATER_EQ: ">=",
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	if p.curTok.Type != lexer.IDENTIFIER {
		return nil, p.errExpected("column name")
	}
	left := &ast.Identifier{TokenLiteralValue: p.curTok.Literal, Value: p.curTok.Literal}
	p.nextToken()

	op, ok := comparisonOps[p.curTok.Type]
	if !ok {
		return nil, p.errExpected("comparison operator")
	}
	p.nextToken()

	right, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}

	return &ast.BinaryExpression{Left: left, Operator: op, Right: right}, nil
}

func (p *Parser) parseLiteral() (ast.Expression, error) {
	switch p.curTok.Type {
	case lexer.STRING:
		val := p.curTok.Literal
		p.nextToken()
		return &ast.Literal{TokenLiteralValue: val, Value: val, Kind: ast.LiteralString}, nil
	case lexer.NUMBER:
		return p.parseNumber()
	case lexer.TRUE:
		p.nextToken()
		return &ast.Literal{TokenLiteralValue: "TRUE", Value: true, Kind: ast.LiteralBool}, nil
	case lexer.FALSE:
		p.nextToken()
		return &ast.Literal{TokenLiteralValue: "FALSE", Value: false, Kind: ast.LiteralBool}, nil
	default:
		return nil, p.errExpected("literal value")
	}
}

func (p *Parser) parseNumber() (ast.Expression, error) {
	valStr := p.curTok.Literal
	p.nextToken()
	if i, err := strconv.ParseInt(valStr, 10, 64); err == nil {
		return &ast.Literal{TokenLiteralValue: valStr, Value: i, Kind: ast.LiteralInt}, nil
	}
	if f, err := strconv.ParseFloat(valStr, 64); err == nil {
		return &ast.Literal{TokenLiteralValue: valStr, Value: f, Kind: ast.LiteralFloat}, nil
	}
	return nil, p.errExpected("a number")
}

func (p *Parser) parseIdentifierList() ([]*ast.Identifier, error) {
	var identifiers []*ast.Identifier

	if p.curTok.Type != lexer.IDENTIFIER {
		return nil, p.errExpected("column name")
	}
	identifiers = append(identifiers, &ast.Identifier{TokenLiteralValue: p.curTok.Literal, Value: p.curTok.Literal})
	p.nextToken()

	for p.curTok.Type == lexer.COMMA {
		p.nextToken()
		if p.curTok.Type != lexer.IDENTIFIER {
			return nil, p.errExpected("column name after comma")
		}
		identifiers = append(identifiers, &ast.Identifier{TokenLiteralValue: p.curTok.Literal, Value: p.curTok.Literal})
		p.nextToken()
	}

	return identifiers, nil
}

func (p *Parser) parseOrderKeys() ([]ast.OrderKey, error) {
	var keys []ast.OrderKey
	for {
		if p.curTok.Type != lexer.IDENTIFIER {
			return nil, p.errExpected("column name")
		}
		key := ast.OrderKey{Column: &ast.Identifier{TokenLiteralValue: p.curTok.Literal, Value: p.curTok.Literal}}
		p.nextToken()

		switch p.curTok.Type {
		case lexer.ASC:
			p.nextToken()
		case lexer.DESC:
			key.Desc = true
			p.nextToken()
		}
		keys = append(keys, key)

		if p.curTok.Type != lexer.COMMA {
			return keys, nil
		}
		p.nextToken()
	}
}
