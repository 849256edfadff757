package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoquote/motoquote/internal/catalog"
)

func testHeaders() map[int64]catalog.Header {
	return HeaderIndex([]catalog.Header{
		{ID: 1, CategoryKey: "Showroom", HeaderKey: "Ex-Showroom", Priority: 1},
		{ID: 2, CategoryKey: "Tax", HeaderKey: "RTO Tax", Priority: 2},
		{ID: 3, CategoryKey: "Insurance", HeaderKey: "Comprehensive", Priority: 3},
	})
}

func TestResolvePricesFiltersByBranch(t *testing.T) {
	model := catalog.Model{
		Name: "Shine100",
		Prices: []catalog.Price{
			{HeaderID: 1, BranchID: 10, Value: 80000},
			{HeaderID: 1, BranchID: 20, Value: 81000},
			{HeaderID: 2, BranchID: 10, Value: 6000},
		},
	}

	res := ResolvePrices(model, 10, testHeaders())

	require.Len(t, res.Prices, 2)
	assert.Equal(t, "Ex-Showroom", res.Prices[0].HeaderKey)
	assert.Equal(t, 80000.0, res.Prices[0].Value)
	assert.Equal(t, "RTO Tax", res.Prices[1].HeaderKey)
	assert.Zero(t, res.Duplicates)
}

func TestResolvePricesEmptyForForeignBranch(t *testing.T) {
	model := catalog.Model{Prices: []catalog.Price{{HeaderID: 1, BranchID: 10, Value: 80000}}}
	res := ResolvePrices(model, 99, testHeaders())
	assert.Empty(t, res.Prices)
}

func TestResolvePricesKeepsDanglingHeaderValue(t *testing.T) {
	model := catalog.Model{
		Prices: []catalog.Price{{HeaderID: 777, BranchID: 10, Value: 4500}},
	}

	res := ResolvePrices(model, 10, testHeaders())

	require.Len(t, res.Prices, 1)
	assert.Equal(t, DeletedHeaderKey, res.Prices[0].HeaderKey)
	assert.Equal(t, DeletedCategoryKey, res.Prices[0].CategoryKey)
	assert.Zero(t, res.Prices[0].Priority)
	assert.Equal(t, 4500.0, res.Prices[0].Value)
}

func TestResolvePricesFirstDuplicateWins(t *testing.T) {
	model := catalog.Model{
		Prices: []catalog.Price{
			{HeaderID: 1, BranchID: 10, Value: 80000},
			{HeaderID: 1, BranchID: 10, Value: 99999},
		},
	}

	res := ResolvePrices(model, 10, testHeaders())

	require.Len(t, res.Prices, 1)
	assert.Equal(t, 80000.0, res.Prices[0].Value)
	assert.Equal(t, 1, res.Duplicates)
}

func TestResolvePricesOrderedByPriority(t *testing.T) {
	model := catalog.Model{
		Prices: []catalog.Price{
			{HeaderID: 3, BranchID: 10, Value: 9000},
			{HeaderID: 1, BranchID: 10, Value: 80000},
			{HeaderID: 2, BranchID: 10, Value: 6000},
		},
	}

	res := ResolvePrices(model, 10, testHeaders())

	require.Len(t, res.Prices, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{res.Prices[0].Priority, res.Prices[1].Priority, res.Prices[2].Priority})
}
