package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter returns the products matching every criterion, in input order.
// The input slice is never modified or aliased.
func Filter(products []Product, c FilterCriteria) []Product {
	fold := cases.Fold()
	needle := fold.String(c.Search)
	brands := toSet(c.Brands)
	categories := toSet(c.Categories)

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if needle != "" && !strings.Contains(fold.String(p.Name), needle) {
			continue
		}
		if len(brands) > 0 {
			if _, ok := brands[p.Brand]; !ok {
				continue
			}
		}
		if len(categories) > 0 {
			if _, ok := categories[p.Category]; !ok {
				continue
			}
		}
		// unpriced products are not subject to the price filter
		if p.Price != nil && !c.Price.Contains(*p.Price) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// priceBounds returns [0, highest price] over the priced products
func priceBounds(products []Product) PriceRange {
	var max float64
	for _, p := range products {
		if p.Price != nil && *p.Price > max {
			max = *p.Price
		}
	}
	return PriceRange{Min: 0, Max: max}
}
