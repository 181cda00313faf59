package sqlparse

import (
	"fmt"
	"strings"
)

// ParseError reports a syntax error with the offending token.
type ParseError struct {
	Message string
	Token   Token
}

func (e *ParseError) Error() string {
	if e.Token.Literal != "" {
		return fmt.Sprintf("%s near %q", e.Message, e.Token.Literal)
	}
	return e.Message
}

// Parser is a recursive-descent parser over the lexer's token stream.
type Parser struct {
	lexer *Lexer
	cur   Token
	peek  Token
}

// NewParser creates a parser for the given SQL text.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.next()
	p.next()
	return p
}

// Parse parses a single SQL statement.
func Parse(input string) (Statement, error) {
	return NewParser(input).ParseStatement()
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) curIs(t TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t TokenType) bool { return p.peek.Type == t }

func (p *Parser) expect(t TokenType, what string) error {
	if !p.curIs(t) {
		return &ParseError{Message: "expected " + what, Token: p.cur}
	}
	p.next()
	return nil
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Message: fmt.Sprintf(format, args...), Token: p.cur}
}

// ParseStatement parses one statement and stops at EOF or ';'.
func (p *Parser) ParseStatement() (Statement, error) {
	switch p.cur.Type {
	case TOKEN_SELECT, TOKEN_WITH, TOKEN_LPAREN:
		return p.parseSelect()
	case TOKEN_INSERT:
		return p.parseInsert()
	case TOKEN_CREATE:
		return p.parseCreate()
	default:
		return nil, p.errorf("unsupported statement")
	}
}


func (p *Parser) parseSelect() (*SelectStmt, error) {
	var ctes []CTE
	if p.curIs(TOKEN_WITH) {
		p.next()
		for {
			name := p.cur.Literal
			if err := p.expect(TOKEN_IDENT, "CTE name"); err != nil {
				return nil, err
			}
			if err := p.expect(TOKEN_AS, "AS"); err != nil {
				return nil, err
			}
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
			ctes = append(ctes, CTE{Name: name, Select: sel})
			if !p.curIs(TOKEN_COMMA) {
				break
			}
			p.next()
		}
	}

	// Parenthesized select body.
	if p.curIs(TOKEN_LPAREN) {
		p.next()
		sel, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_RPAREN, ")"); err != nil {
			return nil, err
		}
		sel.ctes = append(ctes, sel.ctes...)
		return sel, nil
	}

	sel, err := p.parseSelectCore()
	if err != nil {
		return nil, err
	}
	sel.ctes = ctes

	for p.curIs(TOKEN_UNION) {
		p.next()
		if p.curIs(TOKEN_ALL) || p.curIs(TOKEN_DISTINCT) {
			p.next()
		}
		right, err := p.parseSelectCore()
		if err != nil {
			return nil, err
		}
		sel.Unions = append(sel.Unions, right)
	}
	return sel, nil
}

func (p *Parser) parseSelectCore() (*SelectStmt, error) {
	if err := p.expect(TOKEN_SELECT, "SELECT"); err != nil {
		return nil, err
	}

	sel := &SelectStmt{}
	if p.curIs(TOKEN_DISTINCT) {
		sel.Distinct = true
		p.next()
	} else if p.curIs(TOKEN_ALL) {
		p.next()
	}

	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		sel.Items = append(sel.Items, item)
		if !p.curIs(TOKEN_COMMA) {
			break
		}
		p.next()
	}

	if p.curIs(TOKEN_FROM) {
		p.next()
		from, err := p.parseFromClause()
		if err != nil {
			return nil, err
		}
		sel.From = from
	}

	if p.curIs(TOKEN_WHERE) {
		p.next()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		sel.Where = where
	}

	if p.curIs(TOKEN_GROUP) {
		p.next()
		if err := p.expect(TOKEN_BY, "BY"); err != nil {
			return nil, err
		}
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			sel.GroupBy = append(sel.GroupBy, e)
			if !p.curIs(TOKEN_COMMA) {
				break
			}
			p.next()
		}
	}

	if p.curIs(TOKEN_HAVING) {
		p.next()
		having, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		sel.Having = having
	}

	// ORDER BY / LIMIT / OFFSET carry no lineage; parse and discard.
	if p.curIs(TOKEN_ORDER) {
		p.next()
		if err := p.expect(TOKEN_BY, "BY"); err != nil {
			return nil, err
		}
		for {
			if _, err := p.parseExpr(); err != nil {
				return nil, err
			}
			if p.curIs(TOKEN_ASC) || p.curIs(TOKEN_DESC) {
				p.next()
			}
			if !p.curIs(TOKEN_COMMA) {
				break
			}
			p.next()
		}
	}
	for p.curIs(TOKEN_LIMIT) || p.curIs(TOKEN_OFFSET) {
		p.next()
		if !p.curIs(TOKEN_NUMBER) {
			return nil, p.errorf("expected number")
		}
		p.next()
	}

	return sel, nil
}

func (p *Parser) parseSelectItem() (SelectItem, error) {
	if p.curIs(TOKEN_STAR) {
		p.next()
		return SelectItem{Star: true}, nil
	}
	// table.* qualifier
	if p.curIs(TOKEN_IDENT) && p.peekIs(TOKEN_DOT) {
		saveCur, savePeek, saveLexer := p.cur, p.peek, *p.lexer
		table := p.cur.Literal
		p.next()
		p.next()
		if p.curIs(TOKEN_STAR) {
			p.next()
			return SelectItem{Star: true, Table: table}, nil
		}
		p.cur, p.peek, *p.lexer = saveCur, savePeek, saveLexer
	}

	expr, err := p.parseExpr()
	if err != nil {
		return SelectItem{}, err
	}
	item := SelectItem{Expr: expr}

	if p.curIs(TOKEN_AS) {
		p.next()
		if !p.curIs(TOKEN_IDENT) {
			return SelectItem{}, p.errorf("expected alias")
		}
		item.Alias = p.cur.Literal
		p.next()
	} else if p.curIs(TOKEN_IDENT) {
		// Bare alias.
		item.Alias = p.cur.Literal
		p.next()
	}
	return item, nil
}

func (p *Parser) parseFromClause() (*FromClause, error) {
	source, err := p.parseTableRef()
	if err != nil {
		return nil, err
	}
	from := &FromClause{Source: source}

	for {
		joinType := ""
		switch {
		case p.curIs(TOKEN_JOIN):
			joinType = "INNER"
			p.next()
		case p.curIs(TOKEN_INNER) && p.peekIs(TOKEN_JOIN):
			joinType = "INNER"
			p.next()
			p.next()
		case p.curIs(TOKEN_CROSS) && p.peekIs(TOKEN_JOIN):
			joinType = "CROSS"
			p.next()
			p.next()
		case p.curIs(TOKEN_LEFT) || p.curIs(TOKEN_RIGHT) || p.curIs(TOKEN_FULL):
			joinType = strings.ToUpper(p.cur.Literal)
			p.next()
			if p.curIs(TOKEN_OUTER) {
				p.next()
			}
			if err := p.expect(TOKEN_JOIN, "JOIN"); err != nil {
				return nil, err
			}
		case p.curIs(TOKEN_COMMA):
			// Implicit cross join.
			joinType = "CROSS"
			p.next()
		default:
			return from, nil
		}

		right, err := p.parseTableRef()
		if err != nil {
			return nil, err
		}
		join := Join{Type: joinType, Right: right}

		if p.curIs(TOKEN_ON) {
			p.next()
			on, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			join.On = on
		} else if p.curIs(TOKEN_USING) {
			p.next()
			if err := p.expect(TOKEN_LPAREN, "("); err != nil {
				return nil, err
			}
			for !p.curIs(TOKEN_RPAREN) && !p.curIs(TOKEN_EOF) {
				p.next()
			}
			if err := p.expect(TOKEN_RPAREN, ")"); err != nil {
				return nil, err
			}
		}
		from.Joins = append(from.Joins, join)
	}
}

func (p *Parser) parseTableRef() (TableRef, error) {
	if p.curIs(TOKEN_LPAREN) {
		p.next()
		sel, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_RPAREN, ")"); err != nil {
			return nil, err
		}
		sub := &Subquery{Select: sel}
		if p.curIs(TOKEN_AS) {
			p.next()
		}
		if p.curIs(TOKEN_IDENT) {
			sub.Alias = p.cur.Literal
			p.next()
		}
		return sub, nil
	}

	name, err := p.parseTableName()
	if err != nil {
		return nil, err
	}
	if p.curIs(TOKEN_AS) {
		p.next()
		if !p.curIs(TOKEN_IDENT) {
			return nil, p.errorf("expected table alias")
		}
		name.Alias = p.cur.Literal
		p.next()
	} else if p.curIs(TOKEN_IDENT) {
		name.Alias = p.cur.Literal
		p.next()
	}
	return name, nil
}

func (p *Parser) parseTableName() (*TableName, error) {
	if !p.curIs(TOKEN_IDENT) {
		return nil, p.errorf("expected table name")
	}
	name := &TableName{Name: p.cur.Literal}
	p.next()
	if p.curIs(TOKEN_DOT) {
		p.next()
		if !p.curIs(TOKEN_IDENT) {
			return nil, p.errorf("expected table name after '.'")
		}
		name.Schema = name.Name
		name.Name = p.cur.Literal
		p.next()
	}
	return name, nil
}

func (p *Parser) parseInsert() (*InsertStmt, error) {
	if err := p.expect(TOKEN_INSERT, "INSERT"); err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_INTO, "INTO"); err != nil {
		return nil, err
	}
	table, err := p.parseTableName()
	if err != nil {
		return nil, err
	}
	stmt := &InsertStmt{Table: *table}

	if p.curIs(TOKEN_LPAREN) {
		p.next()
		for {
			if !p.curIs(TOKEN_IDENT) {
				return nil, p.errorf("expected column name")
			}
			stmt.Columns = append(stmt.Columns, p.cur.Literal)
			p.next()
			if !p.curIs(TOKEN_COMMA) {
				break
			}
			p.next()
		}
		if err := p.expect(TOKEN_RPAREN, ")"); err != nil {
			return nil, err
		}
	}

	switch p.cur.Type {
	case TOKEN_SELECT, TOKEN_WITH, TOKEN_LPAREN:
		sel, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		stmt.Select = sel
	case TOKEN_VALUES:
		// VALUES rows carry no lineage; skip the remainder.
		for !p.curIs(TOKEN_EOF) && !p.curIs(TOKEN_SEMICOLON) {
			p.next()
		}
	default:
		return nil, p.errorf("expected SELECT or VALUES")
	}
	return stmt, nil
}

func (p *Parser) parseCreate() (*CreateStmt, error) {
	if err := p.expect(TOKEN_CREATE, "CREATE"); err != nil {
		return nil, err
	}
	if p.curIs(TOKEN_OR) {
		p.next()
		if err := p.expect(TOKEN_REPLACE, "REPLACE"); err != nil {
			return nil, err
		}
	}

	stmt := &CreateStmt{}
	switch p.cur.Type {
	case TOKEN_TABLE:
		p.next()
	case TOKEN_VIEW:
		stmt.View = true
		p.next()
	default:
		return nil, p.errorf("expected TABLE or VIEW")
	}

	if p.curIs(TOKEN_IF) {
		// IF NOT EXISTS
		p.next()
		if err := p.expect(TOKEN_NOT, "NOT"); err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_EXISTS, "EXISTS"); err != nil {
			return nil, err
		}
	}

	table, err := p.parseTableName()
	if err != nil {
		return nil, err
	}
	stmt.Table = *table

	if p.curIs(TOKEN_AS) {
		p.next()
		sel, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		stmt.Select = sel
		return stmt, nil
	}

	// Bare CREATE TABLE (col defs): no lineage; skip the remainder.
	for !p.curIs(TOKEN_EOF) && !p.curIs(TOKEN_SEMICOLON) {
		p.next()
	}
	return stmt, nil
}
