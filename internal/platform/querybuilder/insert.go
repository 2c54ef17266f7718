package querybuilder

import (
	"errors"
	"fmt"
	"strings"
)

type InsertBuilder struct {
	table     string
	columns   []string
	rows      [][]any
	conflict  []string
	updateAll bool
	returning []string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// OnConflictUpdateAll overwrites every non-key column with the incoming row.
func (b *InsertBuilder) OnConflictUpdateAll(keys ...string) *InsertBuilder {
	b.conflict = append([]string(nil), keys...)
	b.updateAll = true
	return b
}

func (b *InsertBuilder) Returning(exprs ...string) *InsertBuilder {
	b.returning = append(b.returning, exprs...)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errors.New("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, errors.New("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, errors.New("insert values are required")
	}

	var w sqlWriter
	w.raw("INSERT INTO ", b.table, " (", strings.Join(b.columns, ", "), ") VALUES ")
	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			w.raw(", ")
		}
		w.raw("(")
		for i, value := range row {
			if i > 0 {
				w.raw(", ")
			}
			w.bind(value)
		}
		w.raw(")")
	}

	if len(b.conflict) > 0 {
		b.writeConflict(&w)
	}
	w.list("RETURNING", b.returning)

	query, args := w.result()
	return query, args, nil
}

func (b *InsertBuilder) writeConflict(w *sqlWriter) {
	keys := make(map[string]struct{}, len(b.conflict))
	for _, k := range b.conflict {
		keys[k] = struct{}{}
	}
	sets := make([]string, 0, len(b.columns))
	for _, col := range b.columns {
		if _, isKey := keys[col]; isKey {
			continue
		}
		sets = append(sets, col+" = EXCLUDED."+col)
	}
	w.raw(" ON CONFLICT (", strings.Join(b.conflict, ", "), ")")
	if !b.updateAll || len(sets) == 0 {
		w.raw(" DO NOTHING")
		return
	}
	w.raw(" DO UPDATE SET ", strings.Join(sets, ", "))
}
