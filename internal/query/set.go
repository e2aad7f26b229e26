package query

import (
	"fmt"
	"strings"
)

// Assignments accumulates "column = $n" pairs for a partial UPDATE.
type Assignments struct {
	cols []string
	args []interface{}
}

// Add assigns value to column. A nil value writes NULL.
func (a *Assignments) Add(column string, value interface{}) {
	a.cols = append(a.cols, column)
	a.args = append(a.args, value)
}

// Len reports how many columns are assigned.
func (a *Assignments) Len() int { return len(a.cols) }

// SQL renders "a = $1, b = $2".
func (a *Assignments) SQL() string {
	parts := make([]string, len(a.cols))
	for i, column := range a.cols {
		parts[i] = fmt.Sprintf("%s = $%d", column, i+1)
	}
	return strings.Join(parts, ", ")
}

// Args returns the assigned values in placeholder order.
func (a *Assignments) Args() []interface{} {
	out := make([]interface{}, len(a.args))
	copy(out, a.args)
	return out
}

// Next is the placeholder index following the assignments, for WHERE clauses.
func (a *Assignments) Next() int { return len(a.args) + 1 }
