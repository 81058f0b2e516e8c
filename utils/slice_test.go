package utils

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	even := Filter([]int{1, 2, 3, 4, 5}, func(n int) bool { return n%2 == 0 })
	assert.Equal(t, []int{2, 4}, even)

	none := Filter([]int{1, 3}, func(n int) bool { return n%2 == 0 })
	assert.Empty(t, none)
}

func TestMap(t *testing.T) {
	got := Map([]int{1, 2, 3}, strconv.Itoa)
	assert.Equal(t, []string{"1", "2", "3"}, got)
}

func TestFind(t *testing.T) {
	got := Find([]string{"0001", "0002", "0003"}, func(s string) bool { return s == "0002" })
	if assert.NotNil(t, got) {
		assert.Equal(t, "0002", *got)
	}

	assert.Nil(t, Find([]string{"0001"}, func(s string) bool { return s == "0009" }))
}

func TestGroupBy(t *testing.T) {
	groups := GroupBy([]string{"a1", "a2", "b1"}, func(s string) string { return s[:1] })
	assert.Len(t, groups, 2)
	assert.Equal(t, []string{"a1", "a2"}, groups["a"])
	assert.Equal(t, []string{"b1"}, groups["b"])
}
