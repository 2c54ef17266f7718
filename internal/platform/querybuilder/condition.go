package querybuilder

// Condition is one predicate joined with AND in a WHERE clause.
type Condition interface {
	write(w *sqlWriter)
}

type cmpCondition struct {
	column string
	op     string
	value  any
}

func (c cmpCondition) write(w *sqlWriter) {
	w.raw(c.column, " ", c.op, " ")
	w.bind(c.value)
}

func Eq(column string, value any) Condition  { return cmpCondition{column, "=", value} }
func Gte(column string, value any) Condition { return cmpCondition{column, ">=", value} }
func Lt(column string, value any) Condition  { return cmpCondition{column, "<", value} }

type inCondition struct {
	column string
	values []any
}

// In renders "1=0" for an empty value list so the query matches nothing.
func In(column string, values []any) Condition {
	return inCondition{column: column, values: values}
}

func (c inCondition) write(w *sqlWriter) {
	if len(c.values) == 0 {
		w.raw("1=0")
		return
	}
	w.raw(c.column, " IN (")
	for i, v := range c.values {
		if i > 0 {
			w.raw(", ")
		}
		w.bind(v)
	}
	w.raw(")")
}

type exprCondition struct {
	expr string
	args []any
}

// Expr is a raw predicate with '?' placeholders.
func Expr(expr string, args ...any) Condition {
	return exprCondition{expr: expr, args: args}
}

func (c exprCondition) write(w *sqlWriter) {
	w.expr(c.expr, c.args)
}
