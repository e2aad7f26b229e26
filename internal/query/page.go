package query

// Page is the list envelope returned by every paginated endpoint.
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// NewPage wraps one window of results. data is never encoded as null.
func NewPage[T any](data []T, total int, p Params) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data:       data,
		Total:      total,
		Page:       p.Page(),
		PageSize:   p.PageSize(),
		TotalPages: TotalPages(total, p.PageSize()),
	}
}

// TotalPages is ceil(total/pageSize); an empty result has zero pages.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
