package shared

const (
	// DefaultPage is the first page of any listing.
	DefaultPage = 1
	// DefaultLimit is the page size used when the caller supplies none.
	DefaultLimit = 10

	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListFilters represents standard list page filters.
type ListFilters struct {
	Page     int
	Limit    int
	Search   string
	SortBy   string
	SortDir  string
	IsActive *bool

	// Type narrows note template listings to one template type.
	Type string
}

// Offset computes the row offset for the current page.
func (f ListFilters) Offset() int {
	page := f.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := f.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	return (page - 1) * limit
}
