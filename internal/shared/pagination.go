package shared

import "math"

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// PageDescriptor is the JSON shape returned to API callers for paginated
// listings.
type PageDescriptor struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	Data        any `json:"data"`
}

// Describe wraps rows with pagination metadata for JSON responses.
func (p Pagination) Describe(rows any) PageDescriptor {
	last := p.TotalPages
	if last < 1 {
		last = 1
	}
	return PageDescriptor{
		CurrentPage: p.Page,
		LastPage:    last,
		PerPage:     p.PerPage,
		Total:       p.Total,
		Data:        rows,
	}
}
