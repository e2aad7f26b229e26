// Package query turns flat list parameters into SQL predicates, ordering and
// a page envelope. Every list endpoint in the service goes through it.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 25
	MaxPageSize     = 100

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Params is an immutable pagination and sort request. Out-of-range values are
// clamped when the value is built, never rejected.
type Params struct {
	page     int
	pageSize int
	sortBy   string
	order    string
}

// NewParams clamps page and pageSize and normalises the sort direction.
func NewParams(page, pageSize int, sortBy, order string) Params {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	order = strings.ToLower(strings.TrimSpace(order))
	if order != OrderAsc && order != OrderDesc {
		order = ""
	}
	return Params{page: page, pageSize: pageSize, sortBy: strings.TrimSpace(sortBy), order: order}
}

// FromValues reads page, pageSize, sortBy and order from query-string values.
// Non-numeric numbers fall back to their defaults.
func FromValues(values url.Values) Params {
	return NewParams(
		atoiOr(values.Get("page"), DefaultPage),
		atoiOr(values.Get("pageSize"), DefaultPageSize),
		values.Get("sortBy"),
		values.Get("order"),
	)
}

// Page returns the 1-based page number.
func (p Params) Page() int {
	if p.page < 1 {
		return DefaultPage
	}
	return p.page
}

// PageSize returns the clamped page size.
func (p Params) PageSize() int {
	if p.pageSize < 1 {
		return DefaultPageSize
	}
	return p.pageSize
}

// Offset is (page-1)*pageSize.
func (p Params) Offset() int { return (p.Page() - 1) * p.PageSize() }

// Limit is the page size.
func (p Params) Limit() int { return p.PageSize() }

// SortBy returns the requested sort key, possibly empty.
func (p Params) SortBy() string { return p.sortBy }

// Order returns "asc", "desc" or "" when unspecified.
func (p Params) Order() string { return p.order }

// WithSort returns a copy with the sort key and direction replaced.
func (p Params) WithSort(sortBy, order string) Params {
	return NewParams(p.Page(), p.PageSize(), sortBy, order)
}

// WithWindow returns a copy with a different page window.
func (p Params) WithWindow(page, pageSize int) Params {
	return NewParams(page, pageSize, p.sortBy, p.order)
}

func atoiOr(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
