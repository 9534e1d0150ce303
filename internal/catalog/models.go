package catalog

import (
	"context"
	"fmt"
	"slices"
)

// Product represents a product in the catalog. A nil Price means "contact for price".
type Product struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Brand    string   `json:"brand"`
	Category string   `json:"category"`
	Price    *float64 `json:"price,omitempty"`
	Images   []string `json:"images"`
	InStock  bool     `json:"in_stock"`
}

// HasPrice reports whether the product carries a price
func (p Product) HasPrice() bool {
	return p.Price != nil
}

// sortPrice is the price used for ordering; unpriced products order as 0
func (p Product) sortPrice() float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}

// PriceRange is an inclusive [Min, Max] bound
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// NewPriceRange returns a range with Min <= Max, swapping the bounds if needed
func NewPriceRange(min, max float64) PriceRange {
	if min > max {
		min, max = max, min
	}
	return PriceRange{Min: min, Max: max}
}

// Contains reports whether price lies within the inclusive bounds
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// FilterCriteria is the combined set of filter selections.
// Empty Brands or Categories match every product.
type FilterCriteria struct {
	Search     string     `json:"search"`
	Brands     []string   `json:"brands"`
	Categories []string   `json:"categories"`
	Price      PriceRange `json:"price"`
}

// Clone returns a copy that shares no slices with c
func (c FilterCriteria) Clone() FilterCriteria {
	c.Brands = slices.Clone(c.Brands)
	c.Categories = slices.Clone(c.Categories)
	return c
}

// Equal compares two criteria, treating brand and category lists as ordered
func (c FilterCriteria) Equal(o FilterCriteria) bool {
	return c.Search == o.Search &&
		c.Price == o.Price &&
		slices.Equal(c.Brands, o.Brands) &&
		slices.Equal(c.Categories, o.Categories)
}

// SortKey selects the ordering applied after filtering
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortNameAsc   SortKey = "name_asc"
)

// ParseSortKey validates s; an empty string selects relevance
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case "":
		return SortRelevance, nil
	case SortRelevance, SortPriceAsc, SortPriceDesc, SortNameAsc:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// DataService is the record source the catalog reads from
type DataService interface {
	ListProducts(ctx context.Context) ([]Product, error)
	ListBrands(ctx context.Context) ([]string, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// FetchError wraps a failed DataService call
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
