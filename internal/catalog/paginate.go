package catalog

import (
	"fmt"
	"strconv"
)

// DefaultPageSize is the number of products shown per page
const DefaultPageSize = 10

// Page is one slice of an ordered product list
type Page struct {
	Items      []Product `json:"items"`
	Total      int       `json:"total"`
	TotalPages int       `json:"total_pages"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
}

// Paginate slices products into the requested page. The page is clamped into
// [1, TotalPages]; an empty list yields TotalPages 0 and Page 1.
func Paginate(products []Product, pageSize, page int) Page {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	total := len(products)
	totalPages := (total + pageSize - 1) / pageSize

	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)

	items := make([]Product, end-start)
	copy(items, products[start:end])

	return Page{
		Items:      items,
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
	}
}

// PageNumber is an entry of the compact page selector. Ellipsis marks a gap.
type PageNumber int

// Ellipsis stands for a run of hidden page numbers
const Ellipsis PageNumber = 0

func (n PageNumber) MarshalJSON() ([]byte, error) {
	if n == Ellipsis {
		return []byte(`"…"`), nil
	}
	return []byte(strconv.Itoa(int(n))), nil
}

func (n *PageNumber) UnmarshalJSON(b []byte) error {
	if string(b) == `"…"` {
		*n = Ellipsis
		return nil
	}
	v, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("page number: %w", err)
	}
	*n = PageNumber(v)
	return nil
}

func (n PageNumber) String() string {
	if n == Ellipsis {
		return "…"
	}
	return strconv.Itoa(int(n))
}

// PageNumbers returns the compact page selector for the current page.
// No controls are returned when there are no pages.
func PageNumbers(totalPages, current int) []PageNumber {
	if totalPages < 1 {
		return nil
	}

	if totalPages <= 5 {
		out := make([]PageNumber, totalPages)
		for i := range out {
			out[i] = PageNumber(i + 1)
		}
		return out
	}

	n := PageNumber(totalPages)
	c := PageNumber(current)
	switch {
	case current <= 3:
		return []PageNumber{1, 2, 3, 4, Ellipsis, n}
	case current >= totalPages-2:
		return []PageNumber{1, Ellipsis, n - 3, n - 2, n - 1, n}
	default:
		return []PageNumber{1, Ellipsis, c - 1, c, c + 1, Ellipsis, n}
	}
}
