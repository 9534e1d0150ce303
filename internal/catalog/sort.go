package catalog

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sorter orders filtered products. Name ordering follows the collation rules of Lang.
type Sorter struct {
	Lang language.Tag
}

// NewSorter parses lang as a BCP 47 tag, falling back to English
func NewSorter(lang string) Sorter {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return Sorter{Lang: tag}
}

// Sort orders products with the English collation
func Sort(products []Product, key SortKey) []Product {
	return Sorter{Lang: language.English}.Sort(products, key)
}

// Sort returns a new, stably ordered slice; ties keep their input order
func (s Sorter) Sort(products []Product, key SortKey) []Product {
	out := slices.Clone(products)
	if out == nil {
		out = []Product{}
	}

	switch key {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b Product) int {
			return cmp.Compare(a.sortPrice(), b.sortPrice())
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b Product) int {
			return cmp.Compare(b.sortPrice(), a.sortPrice())
		})
	case SortNameAsc:
		// a Collator keeps scratch buffers, so each call gets its own
		col := collate.New(s.Lang)
		slices.SortStableFunc(out, func(a, b Product) int {
			return col.CompareString(a.Name, b.Name)
		})
	}
	return out
}
