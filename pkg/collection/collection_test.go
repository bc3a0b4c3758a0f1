package collection

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type item struct {
	name  string
	price float64
}

func TestMap(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, Map([]string{"a", "b"}, strings.ToUpper))
	assert.Empty(t, Map([]string{}, strings.ToUpper))
}

func TestFilter(t *testing.T) {
	even := Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })
	assert.Equal(t, []int{2, 4}, even)

	none := Filter([]int{1, 3}, func(n int) bool { return n%2 == 0 })
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]int{1, 2}, func(n int) bool { return n == 2 }))
	assert.False(t, Contains(nil, func(n int) bool { return true }))
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []int{3, 1, 2}, Unique([]int{3, 1, 3, 2, 1}))
}

func TestSortBy_StableAndCopying(t *testing.T) {
	in := []item{{"a", 3}, {"b", 1}, {"c", 3}, {"d", 1}}

	out := SortBy(in, func(x, y item) bool { return x.price < y.price })

	assert.Equal(t, []item{{"b", 1}, {"d", 1}, {"a", 3}, {"c", 3}}, out)
	assert.Equal(t, "a", in[0].name, "input left untouched")
}
