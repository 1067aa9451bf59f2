package domain

const (
	CatalogPageSize = 12
	BlogPageSize    = 9
	AdminPageSize   = 20
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps number and size to usable values.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = AdminPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// Paginated is one page of results plus the total count across all pages.
type Paginated[T any] struct {
	Items []T `json:"items"`
	Page  int `json:"page"`
	Size  int `json:"per_page"`
	Total int `json:"total"`
}

// NewPaginated never returns a nil Items slice.
func NewPaginated[T any](items []T, p Page, total int) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{Items: items, Page: p.Number, Size: p.Size, Total: total}
}

func (p Paginated[T]) Pages() int {
	if p.Size <= 0 || p.Total == 0 {
		return 0
	}
	return (p.Total + p.Size - 1) / p.Size
}

func (p Paginated[T]) HasNext() bool { return p.Page < p.Pages() }
