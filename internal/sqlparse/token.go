// Package sqlparse provides a small SQL lexer, AST, and recursive-descent
// parser scoped to the statement classes the lineage extractor cares about:
// SELECT, INSERT ... SELECT, CREATE TABLE ... AS SELECT, and
// CREATE VIEW ... AS SELECT. Dialect differences (mysql, postgres,
// bigquery) only affect identifier quoting here; the grammar subset is
// common to all of them.
package sqlparse

import "strings"

// TokenType represents the type of a lexical token.
type TokenType int

// TOKEN_EOF and friends enumerate all token types produced by the lexer.
const (
	TOKEN_EOF     TokenType = iota // end of input
	TOKEN_ILLEGAL                  // unexpected character

	TOKEN_IDENT  // identifier
	TOKEN_NUMBER // 123, 45.67
	TOKEN_STRING // 'hello'

	TOKEN_PLUS      // +
	TOKEN_MINUS     // -
	TOKEN_STAR      // *
	TOKEN_SLASH     // /
	TOKEN_MOD       // %
	TOKEN_DPIPE     // ||
	TOKEN_EQ        // =
	TOKEN_NE        // != or <>
	TOKEN_LT        // <
	TOKEN_GT        // >
	TOKEN_LE        // <=
	TOKEN_GE        // >=
	TOKEN_DOT       // .
	TOKEN_COMMA     // ,
	TOKEN_SEMICOLON // ;
	TOKEN_LPAREN    // (
	TOKEN_RPAREN    // )

	// TOKEN_ALL and below are SQL keywords (alphabetical).
	TOKEN_ALL
	TOKEN_AND
	TOKEN_AS
	TOKEN_ASC
	TOKEN_BETWEEN
	TOKEN_BY
	TOKEN_CASE
	TOKEN_CREATE
	TOKEN_CROSS
	TOKEN_DESC
	TOKEN_DISTINCT
	TOKEN_ELSE
	TOKEN_END
	TOKEN_EXISTS
	TOKEN_FROM
	TOKEN_FULL
	TOKEN_GROUP
	TOKEN_HAVING
	TOKEN_IF
	TOKEN_IN
	TOKEN_INNER
	TOKEN_INSERT
	TOKEN_INTO
	TOKEN_IS
	TOKEN_JOIN
	TOKEN_LEFT
	TOKEN_LIKE
	TOKEN_LIMIT
	TOKEN_NOT
	TOKEN_NULL
	TOKEN_OFFSET
	TOKEN_ON
	TOKEN_OR
	TOKEN_ORDER
	TOKEN_OUTER
	TOKEN_REPLACE
	TOKEN_RIGHT
	TOKEN_SELECT
	TOKEN_TABLE
	TOKEN_THEN
	TOKEN_UNION
	TOKEN_USING
	TOKEN_VALUES
	TOKEN_VIEW
	TOKEN_WHEN
	TOKEN_WHERE
	TOKEN_WITH
)

// Token is one lexical token.
type Token struct {
	Type    TokenType
	Literal string
}

var keywords = map[string]TokenType{
	"all":      TOKEN_ALL,
	"and":      TOKEN_AND,
	"as":       TOKEN_AS,
	"asc":      TOKEN_ASC,
	"between":  TOKEN_BETWEEN,
	"by":       TOKEN_BY,
	"case":     TOKEN_CASE,
	"create":   TOKEN_CREATE,
	"cross":    TOKEN_CROSS,
	"desc":     TOKEN_DESC,
	"distinct": TOKEN_DISTINCT,
	"else":     TOKEN_ELSE,
	"end":      TOKEN_END,
	"exists":   TOKEN_EXISTS,
	"from":     TOKEN_FROM,
	"full":     TOKEN_FULL,
	"group":    TOKEN_GROUP,
	"having":   TOKEN_HAVING,
	"if":       TOKEN_IF,
	"in":       TOKEN_IN,
	"inner":    TOKEN_INNER,
	"insert":   TOKEN_INSERT,
	"into":     TOKEN_INTO,
	"is":       TOKEN_IS,
	"join":     TOKEN_JOIN,
	"left":     TOKEN_LEFT,
	"like":     TOKEN_LIKE,
	"limit":    TOKEN_LIMIT,
	"not":      TOKEN_NOT,
	"null":     TOKEN_NULL,
	"offset":   TOKEN_OFFSET,
	"on":       TOKEN_ON,
	"or":       TOKEN_OR,
	"order":    TOKEN_ORDER,
	"outer":    TOKEN_OUTER,
	"replace":  TOKEN_REPLACE,
	"right":    TOKEN_RIGHT,
	"select":   TOKEN_SELECT,
	"table":    TOKEN_TABLE,
	"then":     TOKEN_THEN,
	"union":    TOKEN_UNION,
	"using":    TOKEN_USING,
	"values":   TOKEN_VALUES,
	"view":     TOKEN_VIEW,
	"when":     TOKEN_WHEN,
	"where":    TOKEN_WHERE,
	"with":     TOKEN_WITH,
}

// lookupIdent maps an identifier to its keyword token type, if any.
func lookupIdent(ident string) TokenType {
	if tok, ok := keywords[strings.ToLower(ident)]; ok {
		return tok
	}
	return TOKEN_IDENT
}
