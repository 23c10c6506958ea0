package catalog

import (
	"errors"
	"fmt"
)

// ErrInvalidPagination is returned when page or limit is not a positive
// integer. It is a caller error and is rejected before any query runs.
var ErrInvalidPagination = errors.New("invalid pagination")

const (
	// DefaultLimit is the page size used when the caller supplies none.
	DefaultLimit = 20
)

// Page is an offset-based pagination request.
type Page struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// DefaultPage returns the first page with the default limit.
func DefaultPage() Page {
	return Page{Page: 1, Limit: DefaultLimit}
}

// Validate rejects non-positive page or limit values.
func (p Page) Validate() error {
	if p.Page < 1 {
		return fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidPagination, p.Page)
	}
	if p.Limit < 1 {
		return fmt.Errorf("%w: limit must be >= 1, got %d", ErrInvalidPagination, p.Limit)
	}
	return nil
}

// Offset returns the number of rows to skip: (page-1)*limit.
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination is the envelope returned alongside every paginated list.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination builds the response envelope for a page and total count.
func NewPagination(p Page, total int64) Pagination {
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Pagination{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: pages,
	}
}
