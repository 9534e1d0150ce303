package catalog

import "slices"

// View is the read model handed to the presentation layer
type View struct {
	Status      Status         `json:"status"`
	Error       string         `json:"error,omitempty"`
	Items       []Product      `json:"items"`
	Total       int            `json:"total"`
	CatalogSize int            `json:"catalog_size"`
	Page        int            `json:"page"`
	PageSize    int            `json:"page_size"`
	TotalPages  int            `json:"total_pages"`
	PageNumbers []PageNumber   `json:"page_numbers"`
	Empty       bool           `json:"empty"`
	Criteria    FilterCriteria `json:"criteria"`
	Staged      FilterCriteria `json:"staged"`
	Sort        SortKey        `json:"sort"`
	Bounds      PriceRange     `json:"bounds"`
	Brands      []string       `json:"brands"`
	Categories  []string       `json:"categories"`
}

// Derive runs filter, sort and paginate over s. It is recomputed on every call.
func (srt Sorter) Derive(s State) View {
	v := View{
		Status:      s.Status,
		Items:       []Product{},
		CatalogSize: len(s.Products),
		Page:        1,
		PageSize:    s.PageSize,
		PageNumbers: []PageNumber{},
		Criteria:    emptySets(s.Criteria),
		Staged:      emptySets(s.Staged),
		Sort:        s.Sort,
		Bounds:      s.Bounds,
		Brands:      orEmpty(slices.Clone(s.Brands)),
		Categories:  orEmpty(slices.Clone(s.Categories)),
	}
	if s.Err != nil {
		v.Error = s.Err.Error()
	}
	if !s.loaded {
		return v
	}

	page := Paginate(srt.Sort(Filter(s.Products, s.Criteria), s.Sort), s.PageSize, s.Page)
	v.Items = page.Items
	v.Total = page.Total
	v.Page = page.Page
	v.PageSize = page.PageSize
	v.TotalPages = page.TotalPages
	if pn := PageNumbers(page.TotalPages, page.Page); pn != nil {
		v.PageNumbers = pn
	}
	v.Empty = page.Total == 0
	return v
}

func emptySets(c FilterCriteria) FilterCriteria {
	c = c.Clone()
	c.Brands = orEmpty(c.Brands)
	c.Categories = orEmpty(c.Categories)
	return c
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
