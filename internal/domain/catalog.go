package domain

import (
	"strings"
	"time"
	"unicode"
)

// Category groups products in the catalog.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Product represents an item for sale.
type Product struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description,omitempty"`
	ShortDescription string    `json:"short_description,omitempty"`
	Price            Money     `json:"price"`
	StockQuantity    int       `json:"stock_quantity"`
	ImageURL         string    `json:"image_url,omitempty"`
	IsActive         bool      `json:"is_active"`
	ViewsCount       int       `json:"views_count"`
	CategoryID       int64     `json:"category_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Available reports whether quantity units can be ordered.
func (p *Product) Available(quantity int) error {
	if !p.IsActive {
		return ErrProductUnavailable
	}
	if quantity > p.StockQuantity {
		return ErrInsufficientStock
	}
	return nil
}

// ProductFilter narrows a product listing. Public listings set ActiveOnly.
type ProductFilter struct {
	CategorySlug string
	Search       string
	ActiveOnly   bool
	Page         Page
}

// Slugify lowercases s and joins its letter and digit runs with dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
