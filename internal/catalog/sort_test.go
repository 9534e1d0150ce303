package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortRelevanceKeepsOrder(t *testing.T) {
	products := fixture()
	assert.Equal(t, ids(products), ids(Sort(products, SortRelevance)))
}

func TestSortByPrice(t *testing.T) {
	products := fixture()

	// unpriced "3" orders as 0; "4" and "6" tie at 25 and keep input order
	assert.Equal(t, []string{"3", "4", "6", "2", "1", "5"}, ids(Sort(products, SortPriceAsc)))
	assert.Equal(t, []string{"5", "1", "2", "4", "6", "3"}, ids(Sort(products, SortPriceDesc)))
}

func TestSortUnpricedBeforeOne(t *testing.T) {
	products := []Product{
		{ID: "one", Name: "One", Price: price(1)},
		{ID: "none", Name: "None"},
	}
	assert.Equal(t, []string{"none", "one"}, ids(Sort(products, SortPriceAsc)))
}

func TestSortByNameUsesCollation(t *testing.T) {
	products := []Product{
		{ID: "1", Name: "zebra"},
		{ID: "2", Name: "Éclair"},
		{ID: "3", Name: "apple"},
		{ID: "4", Name: "Banana"},
		{ID: "5", Name: "apple"},
	}
	sorted := Sort(products, SortNameAsc)
	assert.Equal(t, []string{"3", "5", "4", "2", "1"}, ids(sorted))

	assert.Equal(t, ids(sorted), ids(Sort(sorted, SortNameAsc)))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	products := fixture()
	before := ids(products)
	_ = Sort(products, SortPriceDesc)
	assert.Equal(t, before, ids(products))
}

func TestParseSortKey(t *testing.T) {
	k, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortRelevance, k)

	k, err = ParseSortKey("price_desc")
	require.NoError(t, err)
	assert.Equal(t, SortPriceDesc, k)

	_, err = ParseSortKey("rating")
	assert.Error(t, err)
}

func TestNewSorterFallsBack(t *testing.T) {
	assert.Equal(t, "en", NewSorter("not a tag!").Lang.String())
	assert.Equal(t, "sv", NewSorter("sv").Lang.String())
}
