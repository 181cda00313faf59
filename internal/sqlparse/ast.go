package sqlparse

// Statement is any parsed top-level SQL statement.
type Statement interface {
	stmtNode()
}

// SelectStmt is a SELECT statement (possibly the body of an INSERT/CREATE).
// Set operations are flattened: Unions holds any UNION'd select cores after
// the first.
type SelectStmt struct {
	Distinct bool
	Items    []SelectItem
	From     *FromClause
	Where    Expr
	GroupBy  []Expr
	Having   Expr
	Unions   []*SelectStmt

	ctes []CTE
}

// CTE is a named WITH subquery. CTE names are not external tables and are
// excluded from source-table collection by the lineage extractor.
type CTE struct {
	Name   string
	Select *SelectStmt
}

// CTEs returns the WITH clauses attached to this select, outermost first.
func (s *SelectStmt) CTEs() []CTE { return s.ctes }

func (*SelectStmt) stmtNode() {}

// InsertStmt is INSERT INTO table [(cols)] SELECT ... | VALUES ...
type InsertStmt struct {
	Table   TableName
	Columns []string
	Select  *SelectStmt // nil for INSERT ... VALUES
}

func (*InsertStmt) stmtNode() {}

// CreateStmt is CREATE [OR REPLACE] TABLE|VIEW name [AS SELECT ...].
type CreateStmt struct {
	Table  TableName
	View   bool
	Select *SelectStmt // nil for a bare column-list CREATE TABLE
}

func (*CreateStmt) stmtNode() {}

// SelectItem is one output expression of a SELECT list.
type SelectItem struct {
	Expr  Expr
	Alias string
	Star  bool   // SELECT *
	Table string // qualifier for table.* items
}

// FromClause holds the primary source and any joins.
type FromClause struct {
	Source TableRef
	Joins  []Join
}

// Join is one JOIN'd table reference.
type Join struct {
	Type  string // "INNER", "LEFT", "RIGHT", "FULL", "CROSS"
	Right TableRef
	On    Expr
}

// TableRef is a table name or a derived (subquery) table.
type TableRef interface {
	tableRefNode()
}

// TableName is a possibly schema-qualified table reference.
type TableName struct {
	Schema string
	Name   string
	Alias  string
}

func (*TableName) tableRefNode() {}

// Subquery is a parenthesized SELECT used as a table source.
type Subquery struct {
	Select *SelectStmt
	Alias  string
}

func (*Subquery) tableRefNode() {}

// Expr is any expression node.
type Expr interface {
	exprNode()
}

// ColumnRef is a possibly table-qualified column reference.
type ColumnRef struct {
	Table string
	Name  string
}

func (*ColumnRef) exprNode() {}

// FuncCall is a function invocation, e.g. SUM(amount) or COUNT(*).
type FuncCall struct {
	Name     string
	Args     []Expr
	Star     bool // COUNT(*)
	Distinct bool
}

func (*FuncCall) exprNode() {}

// Literal is a string, number, or NULL literal.
type Literal struct {
	Value string
}

func (*Literal) exprNode() {}

// BinaryExpr is a binary operation.
type BinaryExpr struct {
	Left  Expr
	Op    string
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr is a prefix operation (NOT, -).
type UnaryExpr struct {
	Op   string
	Expr Expr
}

func (*UnaryExpr) exprNode() {}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	Expr Expr
}

func (*ParenExpr) exprNode() {}

// CaseExpr is a CASE ... WHEN ... THEN ... [ELSE ...] END expression.
type CaseExpr struct {
	Operand Expr
	Whens   []CaseWhen
	Else    Expr
}

// CaseWhen is one WHEN/THEN arm of a CaseExpr.
type CaseWhen struct {
	When Expr
	Then Expr
}

func (*CaseExpr) exprNode() {}

// SubqueryExpr is a scalar or IN/EXISTS subquery inside an expression.
type SubqueryExpr struct {
	Select *SelectStmt
}

func (*SubqueryExpr) exprNode() {}
