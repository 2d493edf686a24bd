package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intRange(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}

func TestPaginateTwelveItemsTwoPages(t *testing.T) {
	items := intRange(12)

	page1 := Paginate(items, "1")
	assert.Len(t, page1.Items, 10)
	assert.Equal(t, 1, page1.Number)
	assert.Equal(t, 2, page1.TotalPages)
	assert.Equal(t, 12, page1.Total)
	assert.True(t, page1.HasNext)
	assert.False(t, page1.HasPrevious)

	page2 := Paginate(items, "2")
	assert.Len(t, page2.Items, 2)
	assert.False(t, page2.HasNext)
	assert.True(t, page2.HasPrevious)
}

func TestPaginateFallsBackToNearestValidPage(t *testing.T) {
	items := intRange(25)

	// Non-numeric and below-range requests land on page 1.
	assert.Equal(t, 1, Paginate(items, "").Number)
	assert.Equal(t, 1, Paginate(items, "banana").Number)
	assert.Equal(t, 1, Paginate(items, "0").Number)
	assert.Equal(t, 1, Paginate(items, "-3").Number)

	// Above-range requests land on the last page.
	last := Paginate(items, "99")
	assert.Equal(t, 3, last.Number)
	assert.Len(t, last.Items, 5)
	assert.False(t, last.HasNext)
}

func TestPaginateEmptyCollection(t *testing.T) {
	page := Paginate([]int{}, "1")
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasNext)
	assert.False(t, page.HasPrevious)
}

func TestPaginatePreservesOrder(t *testing.T) {
	items := intRange(12)
	page1 := Paginate(items, "1")
	assert.Equal(t, 0, page1.Items[0])
	assert.Equal(t, 9, page1.Items[9])
	page2 := Paginate(items, "2")
	assert.Equal(t, []int{10, 11}, page2.Items)
}
