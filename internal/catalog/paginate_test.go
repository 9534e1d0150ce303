package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginateScenario(t *testing.T) {
	products := numbered(25)

	p1 := Paginate(products, 10, 1)
	assert.Equal(t, 3, p1.TotalPages)
	assert.Equal(t, ids(products[0:10]), ids(p1.Items))

	p3 := Paginate(products, 10, 3)
	assert.Equal(t, ids(products[20:25]), ids(p3.Items))
	assert.Len(t, p3.Items, 5)
}

func TestPaginateClamps(t *testing.T) {
	products := numbered(25)

	assert.Equal(t, 3, Paginate(products, 10, 99).Page)
	assert.Equal(t, 1, Paginate(products, 10, 0).Page)
	assert.Equal(t, 1, Paginate(products, 10, -4).Page)
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate(nil, 10, 3)
	assert.Equal(t, 0, p.TotalPages)
	assert.Equal(t, 1, p.Page)
	assert.Empty(t, p.Items)
	assert.Nil(t, PageNumbers(p.TotalPages, p.Page))
}

func TestPaginateRoundTrip(t *testing.T) {
	c := FilterCriteria{Search: "item", Price: PriceRange{Min: 2, Max: 40}}
	ordered := Sort(Filter(numbered(37), c), SortPriceDesc)

	for size := 1; size <= 40; size++ {
		first := Paginate(ordered, size, 1)
		var joined []Product
		for page := 1; page <= first.TotalPages; page++ {
			p := Paginate(ordered, size, page)
			assert.Equal(t, page, p.Page)
			joined = append(joined, p.Items...)
		}
		require.Equal(t, ids(ordered), ids(joined), "page size %d", size)
	}
}

func TestPageNumbers(t *testing.T) {
	E := Ellipsis
	cases := []struct {
		total, current int
		want           []PageNumber
	}{
		{10, 1, []PageNumber{1, 2, 3, 4, E, 10}},
		{10, 3, []PageNumber{1, 2, 3, 4, E, 10}},
		{10, 4, []PageNumber{1, E, 3, 4, 5, E, 10}},
		{10, 5, []PageNumber{1, E, 4, 5, 6, E, 10}},
		{10, 7, []PageNumber{1, E, 6, 7, 8, E, 10}},
		{10, 8, []PageNumber{1, E, 7, 8, 9, 10}},
		{10, 10, []PageNumber{1, E, 7, 8, 9, 10}},
		{6, 3, []PageNumber{1, 2, 3, 4, E, 6}},
		{6, 4, []PageNumber{1, E, 3, 4, 5, 6}},
		{5, 5, []PageNumber{1, 2, 3, 4, 5}},
		{3, 1, []PageNumber{1, 2, 3}},
		{3, 3, []PageNumber{1, 2, 3}},
		{1, 1, []PageNumber{1}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PageNumbers(tc.total, tc.current), "total=%d current=%d", tc.total, tc.current)
	}
	assert.Nil(t, PageNumbers(0, 1))
}

func TestPageNumberJSON(t *testing.T) {
	b, err := json.Marshal(PageNumbers(10, 5))
	require.NoError(t, err)
	assert.JSONEq(t, `[1,"…",4,5,6,"…",10]`, string(b))
}

func TestPageNumberJSONRoundTrip(t *testing.T) {
	var got []PageNumber
	require.NoError(t, json.Unmarshal([]byte(`[1,"…",7,8,9,10]`), &got))
	assert.Equal(t, PageNumbers(10, 10), got)
}
