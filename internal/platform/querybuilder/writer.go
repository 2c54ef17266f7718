package querybuilder

import (
	"strconv"
	"strings"
)

// sqlWriter accumulates SQL text and positional args, numbering $n placeholders in order.
type sqlWriter struct {
	buf  strings.Builder
	args []any
}

func (w *sqlWriter) raw(parts ...string) {
	for _, p := range parts {
		w.buf.WriteString(p)
	}
}

func (w *sqlWriter) bind(value any) {
	w.args = append(w.args, value)
	w.buf.WriteString("$")
	w.buf.WriteString(strconv.Itoa(len(w.args)))
}

// expr writes expr replacing each '?' with the next bound arg. Extra '?' are kept literally.
func (w *sqlWriter) expr(expr string, args []any) {
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(args) {
			w.bind(args[next])
			next++
			continue
		}
		w.buf.WriteByte(expr[i])
	}
}

func (w *sqlWriter) where(conds []Condition) {
	if len(conds) == 0 {
		return
	}
	w.raw(" WHERE ")
	for i, c := range conds {
		if i > 0 {
			w.raw(" AND ")
		}
		c.write(w)
	}
}

func (w *sqlWriter) list(keyword string, parts []string) {
	if len(parts) == 0 {
		return
	}
	w.raw(" ", keyword, " ", strings.Join(parts, ", "))
}

func (w *sqlWriter) intClause(keyword string, n int) {
	if n <= 0 {
		return
	}
	w.raw(" ", keyword, " ", strconv.Itoa(n))
}

func (w *sqlWriter) result() (string, []any) {
	return w.buf.String(), w.args
}
