package models

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Limit  int
}

// Normalize applies defaults and clamps the limit.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// Pagination is the metadata block returned with every paginated listing.
type Pagination struct {
	CurrentPage     int   `json:"currentPage"`
	TotalPages      int   `json:"totalPages"`
	TotalItems      int64 `json:"totalItems"`
	ItemsPerPage    int   `json:"itemsPerPage"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// NewPagination computes the metadata for a normalized page and a total row count.
func NewPagination(p Page, total int64) Pagination {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Pagination{
		CurrentPage:     p.Number,
		TotalPages:      totalPages,
		TotalItems:      total,
		ItemsPerPage:    p.Limit,
		HasNextPage:     p.Number < totalPages,
		HasPreviousPage: p.Number > 1,
	}
}

// Paginated is a page of items with its metadata.
type Paginated[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}
