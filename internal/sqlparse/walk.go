package sqlparse

import "strings"

// StatementType classifies a parsed statement for the lineage pipeline.
type StatementType string

const (
	StmtSelect     StatementType = "SELECT"
	StmtInsert     StatementType = "INSERT"
	StmtCreate     StatementType = "CREATE"
	StmtCreateView StatementType = "CREATE_VIEW"
	StmtUnknown    StatementType = "UNKNOWN"
)

// Classify returns the statement type of a parsed statement.
func Classify(stmt Statement) StatementType {
	switch s := stmt.(type) {
	case *SelectStmt:
		return StmtSelect
	case *InsertStmt:
		return StmtInsert
	case *CreateStmt:
		if s.View {
			return StmtCreateView
		}
		return StmtCreate
	default:
		return StmtUnknown
	}
}

// TargetTable returns the written-to table of an INSERT or CREATE
// statement, or "" for reads.
func TargetTable(stmt Statement) string {
	switch s := stmt.(type) {
	case *InsertStmt:
		return s.Table.Name
	case *CreateStmt:
		return s.Table.Name
	default:
		return ""
	}
}

// CollectSourceTables returns the deduplicated set of tables read by the
// statement: every FROM and JOIN reference, recursing through subqueries,
// set operations, CTE bodies, and expression-level subqueries. CTE names
// themselves are excluded — they are intermediate results, not sources.
// The result preserves first-seen order.
func CollectSourceTables(stmt Statement) []string {
	c := &tableCollector{
		seen:     make(map[string]struct{}),
		cteNames: make(map[string]struct{}),
	}
	switch s := stmt.(type) {
	case *SelectStmt:
		c.walkSelect(s)
	case *InsertStmt:
		if s.Select != nil {
			c.walkSelect(s.Select)
		}
	case *CreateStmt:
		if s.Select != nil {
			c.walkSelect(s.Select)
		}
	}
	return c.tables
}

type tableCollector struct {
	tables   []string
	seen     map[string]struct{}
	cteNames map[string]struct{}
}

func (c *tableCollector) add(name *TableName) {
	if name == nil || name.Name == "" {
		return
	}
	if _, isCTE := c.cteNames[strings.ToLower(name.Name)]; isCTE && name.Schema == "" {
		return
	}
	full := name.Name
	if name.Schema != "" {
		full = name.Schema + "." + name.Name
	}
	key := strings.ToLower(full)
	if _, dup := c.seen[key]; dup {
		return
	}
	c.seen[key] = struct{}{}
	c.tables = append(c.tables, full)
}

func (c *tableCollector) walkSelect(sel *SelectStmt) {
	if sel == nil {
		return
	}
	for _, w := range sel.ctes {
		c.cteNames[strings.ToLower(w.Name)] = struct{}{}
		c.walkSelect(w.Select)
	}
	if sel.From != nil {
		c.walkTableRef(sel.From.Source)
		for _, j := range sel.From.Joins {
			c.walkTableRef(j.Right)
			c.walkExpr(j.On)
		}
	}
	for _, item := range sel.Items {
		c.walkExpr(item.Expr)
	}
	c.walkExpr(sel.Where)
	for _, g := range sel.GroupBy {
		c.walkExpr(g)
	}
	c.walkExpr(sel.Having)
	for _, u := range sel.Unions {
		c.walkSelect(u)
	}
}

func (c *tableCollector) walkTableRef(ref TableRef) {
	switch t := ref.(type) {
	case *TableName:
		c.add(t)
	case *Subquery:
		c.walkSelect(t.Select)
	}
}

func (c *tableCollector) walkExpr(expr Expr) {
	switch e := expr.(type) {
	case nil:
	case *BinaryExpr:
		c.walkExpr(e.Left)
		c.walkExpr(e.Right)
	case *UnaryExpr:
		c.walkExpr(e.Expr)
	case *ParenExpr:
		c.walkExpr(e.Expr)
	case *FuncCall:
		for _, a := range e.Args {
			c.walkExpr(a)
		}
	case *CaseExpr:
		c.walkExpr(e.Operand)
		for _, w := range e.Whens {
			c.walkExpr(w.When)
			c.walkExpr(w.Then)
		}
		c.walkExpr(e.Else)
	case *SubqueryExpr:
		c.walkSelect(e.Select)
	}
}

// aggregateFunctions is the set of function names treated as aggregations
// when tagging column transformations.
var aggregateFunctions = map[string]struct{}{
	"sum": {}, "avg": {}, "count": {}, "min": {}, "max": {},
	"total": {}, "group_concat": {}, "string_agg": {}, "array_agg": {},
	"stddev": {}, "variance": {}, "median": {},
}

// IsAggregate reports whether expr is (or wraps nothing but) an aggregate
// function call.
func IsAggregate(expr Expr) bool {
	switch e := expr.(type) {
	case *FuncCall:
		_, ok := aggregateFunctions[strings.ToLower(e.Name)]
		return ok
	case *ParenExpr:
		return IsAggregate(e.Expr)
	default:
		return false
	}
}

// OutputName returns the externally visible name of a select item: its
// alias when present, otherwise the referenced column name, otherwise the
// lower-cased function name, otherwise "".
func OutputName(item SelectItem) string {
	if item.Alias != "" {
		return item.Alias
	}
	return exprName(item.Expr)
}

// SourceName returns the name of the underlying source column for a select
// item, or a rendered form for computed expressions.
func SourceName(item SelectItem) string {
	switch e := item.Expr.(type) {
	case *ColumnRef:
		return e.Name
	case *ParenExpr:
		if col, ok := e.Expr.(*ColumnRef); ok {
			return col.Name
		}
	case *FuncCall:
		// Single-column function: name the column it consumes.
		if len(e.Args) == 1 {
			if col, ok := e.Args[0].(*ColumnRef); ok {
				return col.Name
			}
		}
		return renderFunc(e)
	}
	return exprName(item.Expr)
}

func exprName(expr Expr) string {
	switch e := expr.(type) {
	case *ColumnRef:
		return e.Name
	case *FuncCall:
		return strings.ToLower(e.Name)
	case *ParenExpr:
		return exprName(e.Expr)
	default:
		return ""
	}
}

func renderFunc(fn *FuncCall) string {
	if fn.Star {
		return strings.ToUpper(fn.Name) + "(*)"
	}
	parts := make([]string, 0, len(fn.Args))
	for _, a := range fn.Args {
		if col, ok := a.(*ColumnRef); ok {
			parts = append(parts, col.Name)
		}
	}
	return strings.ToUpper(fn.Name) + "(" + strings.Join(parts, ", ") + ")"
}
