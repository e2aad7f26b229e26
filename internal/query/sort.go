package query

import "strings"

// Sortable maps public sort keys (as sent by clients) to SQL expressions.
type Sortable map[string]string

// OrderBy renders an ORDER BY body for p. Unknown keys fall back to
// fallbackKey and a missing direction falls back to fallbackOrder. tieBreak
// (usually the primary key) is appended in the same direction so rows with
// equal sort keys come back in a stable order.
func (s Sortable) OrderBy(p Params, fallbackKey, fallbackOrder, tieBreak string) string {
	column, ok := s[p.SortBy()]
	if !ok {
		column = s[fallbackKey]
	}
	dir := p.Order()
	if dir == "" {
		dir = fallbackOrder
	}
	dir = strings.ToUpper(dir)

	clause := column + " " + dir
	if tieBreak != "" && column != tieBreak {
		clause += ", " + tieBreak + " " + dir
	}
	return clause
}
