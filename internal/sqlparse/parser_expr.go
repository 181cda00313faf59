package sqlparse

import "strings"

// Operator precedence levels, lowest first.
const (
	precLowest = iota
	precOr
	precAnd
	precNot
	precCompare  // = != < > <= >= LIKE IN IS BETWEEN
	precAdditive // + - ||
	precMultiply // * / %
	precUnary
)

func tokenPrecedence(t TokenType) int {
	switch t {
	case TOKEN_OR:
		return precOr
	case TOKEN_AND:
		return precAnd
	case TOKEN_EQ, TOKEN_NE, TOKEN_LT, TOKEN_GT, TOKEN_LE, TOKEN_GE,
		TOKEN_LIKE, TOKEN_IN, TOKEN_IS, TOKEN_BETWEEN, TOKEN_NOT:
		return precCompare
	case TOKEN_PLUS, TOKEN_MINUS, TOKEN_DPIPE:
		return precAdditive
	case TOKEN_STAR, TOKEN_SLASH, TOKEN_MOD:
		return precMultiply
	default:
		return precLowest
	}
}

// parseExpr parses an expression with precedence climbing.
func (p *Parser) parseExpr() (Expr, error) {
	return p.parseBinary(precLowest)
}

func (p *Parser) parseBinary(minPrec int) (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		prec := tokenPrecedence(p.cur.Type)
		if prec <= minPrec {
			return left, nil
		}

		switch p.cur.Type {
		case TOKEN_IS:
			// IS [NOT] NULL
			p.next()
			if p.curIs(TOKEN_NOT) {
				p.next()
			}
			if err := p.expect(TOKEN_NULL, "NULL"); err != nil {
				return nil, err
			}
			left = &BinaryExpr{Left: left, Op: "IS", Right: &Literal{Value: "NULL"}}

		case TOKEN_BETWEEN:
			p.next()
			low, err := p.parseBinary(precCompare)
			if err != nil {
				return nil, err
			}
			if err := p.expect(TOKEN_AND, "AND"); err != nil {
				return nil, err
			}
			high, err := p.parseBinary(precCompare)
			if err != nil {
				return nil, err
			}
			left = &BinaryExpr{Left: left, Op: "BETWEEN", Right: &BinaryExpr{Left: low, Op: "AND", Right: high}}

		case TOKEN_NOT:
			// NOT IN / NOT LIKE / NOT BETWEEN as infix.
			p.next()
			continue

		case TOKEN_IN:
			p.next()
			right, err := p.parseInList()
			if err != nil {
				return nil, err
			}
			left = &BinaryExpr{Left: left, Op: "IN", Right: right}

		default:
			op := strings.ToUpper(p.cur.Literal)
			p.next()
			right, err := p.parseBinary(prec)
			if err != nil {
				return nil, err
			}
			left = &BinaryExpr{Left: left, Op: op, Right: right}
		}
	}
}

// parseInList parses the right side of IN: a subquery or a literal list.
func (p *Parser) parseInList() (Expr, error) {
	if err := p.expect(TOKEN_LPAREN, "("); err != nil {
		return nil, err
	}
	if p.curIs(TOKEN_SELECT) || p.curIs(TOKEN_WITH) {
		sel, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_RPAREN, ")"); err != nil {
			return nil, err
		}
		return &SubqueryExpr{Select: sel}, nil
	}

	list := &ParenExpr{}
	first := true
	for !p.curIs(TOKEN_RPAREN) && !p.curIs(TOKEN_EOF) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if first {
			list.Expr = e
			first = false
		}
		if p.curIs(TOKEN_COMMA) {
			p.next()
		}
	}
	if err := p.expect(TOKEN_RPAREN, ")"); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *Parser) parseUnary() (Expr, error) {
	switch p.cur.Type {
	case TOKEN_NOT:
		p.next()
		inner, err := p.parseBinary(precNot)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: "NOT", Expr: inner}, nil
	case TOKEN_MINUS:
		p.next()
		inner, err := p.parseBinary(precUnary)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: "-", Expr: inner}, nil
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() (Expr, error) {
	switch p.cur.Type {
	case TOKEN_NUMBER, TOKEN_STRING:
		lit := &Literal{Value: p.cur.Literal}
		p.next()
		return lit, nil

	case TOKEN_NULL:
		p.next()
		return &Literal{Value: "NULL"}, nil

	case TOKEN_CASE:
		return p.parseCase()

	case TOKEN_EXISTS:
		p.next()
		if err := p.expect(TOKEN_LPAREN, "("); err != nil {
			return nil, err
		}
		sel, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_RPAREN, ")"); err != nil {
			return nil, err
		}
		return &SubqueryExpr{Select: sel}, nil

	case TOKEN_LPAREN:
		p.next()
		if p.curIs(TOKEN_SELECT) || p.curIs(TOKEN_WITH) {
			sel, err := p.parseSelect()
			if err != nil {
				return nil, err
			}
			if err := p.expect(TOKEN_RPAREN, ")"); err != nil {
				return nil, err
			}
			return &SubqueryExpr{Select: sel}, nil
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_RPAREN, ")"); err != nil {
			return nil, err
		}
		return &ParenExpr{Expr: inner}, nil

	case TOKEN_IDENT:
		return p.parseIdentExpr()

	default:
		return nil, p.errorf("unexpected token in expression")
	}
}

// parseIdentExpr parses a column reference (possibly qualified) or a
// function call.
func (p *Parser) parseIdentExpr() (Expr, error) {
	name := p.cur.Literal
	p.next()

	if p.curIs(TOKEN_LPAREN) {
		return p.parseFuncCall(name)
	}

	if p.curIs(TOKEN_DOT) {
		p.next()
		if !p.curIs(TOKEN_IDENT) {
			return nil, p.errorf("expected column after '.'")
		}
		col := &ColumnRef{Table: name, Name: p.cur.Literal}
		p.next()
		return col, nil
	}

	return &ColumnRef{Name: name}, nil
}

func (p *Parser) parseFuncCall(name string) (Expr, error) {
	if err := p.expect(TOKEN_LPAREN, "("); err != nil {
		return nil, err
	}
	fn := &FuncCall{Name: name}

	if p.curIs(TOKEN_DISTINCT) {
		fn.Distinct = true
		p.next()
	}
	if p.curIs(TOKEN_STAR) {
		fn.Star = true
		p.next()
		if err := p.expect(TOKEN_RPAREN, ")"); err != nil {
			return nil, err
		}
		return fn, nil
	}

	for !p.curIs(TOKEN_RPAREN) && !p.curIs(TOKEN_EOF) {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fn.Args = append(fn.Args, arg)
		if p.curIs(TOKEN_COMMA) {
			p.next()
		}
	}
	if err := p.expect(TOKEN_RPAREN, ")"); err != nil {
		return nil, err
	}
	return fn, nil
}

func (p *Parser) parseCase() (Expr, error) {
	if err := p.expect(TOKEN_CASE, "CASE"); err != nil {
		return nil, err
	}
	caseExpr := &CaseExpr{}

	if !p.curIs(TOKEN_WHEN) {
		operand, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		caseExpr.Operand = operand
	}

	for p.curIs(TOKEN_WHEN) {
		p.next()
		when, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_THEN, "THEN"); err != nil {
			return nil, err
		}
		then, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		caseExpr.Whens = append(caseExpr.Whens, CaseWhen{When: when, Then: then})
	}

	if p.curIs(TOKEN_ELSE) {
		p.next()
		elseExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		caseExpr.Else = elseExpr
	}

	if err := p.expect(TOKEN_END, "END"); err != nil {
		return nil, err
	}
	return caseExpr, nil
}
