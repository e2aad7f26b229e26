package query

import (
	"fmt"
	"strings"
	"time"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Where accumulates AND-ed predicates with PostgreSQL positional arguments.
// The zero value is ready to use. The same Where feeds both the page query and
// the count query so the two always agree.
type Where struct {
	conds []string
	args  []interface{}
}

func (w *Where) bind(value interface{}) string {
	w.args = append(w.args, value)
	return fmt.Sprintf("$%d", len(w.args))
}

// Eq adds "column = value".
func (w *Where) Eq(column string, value interface{}) {
	w.conds = append(w.conds, fmt.Sprintf("%s = %s", column, w.bind(value)))
}

// ContainsAny adds a case-insensitive substring match of term against any of
// the columns. Blank terms are ignored.
func (w *Where) ContainsAny(term string, columns ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return
	}
	placeholder := w.bind("%" + likeEscaper.Replace(term) + "%")
	parts := make([]string, len(columns))
	for i, column := range columns {
		parts[i] = fmt.Sprintf("%s ILIKE %s", column, placeholder)
	}
	w.conds = append(w.conds, "("+strings.Join(parts, " OR ")+")")
}

// Between adds an inclusive range on column; nil bounds are open.
func (w *Where) Between(column string, from, to *time.Time) {
	if from != nil {
		w.conds = append(w.conds, fmt.Sprintf("%s >= %s", column, w.bind(*from)))
	}
	if to != nil {
		w.conds = append(w.conds, fmt.Sprintf("%s <= %s", column, w.bind(*to)))
	}
}

// Len reports how many predicates were added.
func (w *Where) Len() int { return len(w.conds) }

// SQL renders " WHERE a AND b", or "" when there are no predicates.
func (w *Where) SQL() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// Args returns the bound arguments in placeholder order.
func (w *Where) Args() []interface{} {
	out := make([]interface{}, len(w.args))
	copy(out, w.args)
	return out
}
