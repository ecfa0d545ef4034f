package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleStats 构造三个同名但分类集合不同的统计，用于验证合并律。
func sampleStats() (*Stats, *Stats, *Stats) {
	a := &Stats{Name: "Rust", Files: 1, TotalLines: 25, BlankLines: 2,
		Categories: map[Category]int64{Functions: 2, Variables: 4, Loops: 3}}
	b := &Stats{Name: "Rust", Files: 3, TotalLines: 100, BlankLines: 10,
		Categories: map[Category]int64{Functions: 7, Loops: 1}}
	c := &Stats{Name: "Rust", Files: 2, TotalLines: 40, BlankLines: 0,
		Categories: map[Category]int64{Variables: 5, Templates: 1}}
	return a, b, c
}

func TestMergeSumsFields(t *testing.T) {
	a, b, _ := sampleStats()

	merged := Merge(a, b)

	assert.Equal(t, int64(4), merged.Files)
	assert.Equal(t, int64(125), merged.TotalLines)
	assert.Equal(t, int64(12), merged.BlankLines)
	assert.Equal(t, int64(9), merged.Count(Functions))
	assert.Equal(t, int64(4), merged.Count(Variables))
	assert.Equal(t, int64(4), merged.Count(Loops))
	assert.Equal(t, int64(0), merged.Count(Defines))

	// 入参保持不变
	assert.Equal(t, int64(1), a.Files)
	assert.Equal(t, int64(2), a.Count(Functions))
}

func TestMergeIsAssociativeAndCommutative(t *testing.T) {
	a, b, c := sampleStats()

	left := Merge(Merge(a, b), c)
	right := Merge(a, Merge(b, c))
	swapped := Merge(b, Merge(a, c))

	require.Equal(t, left, right)
	require.Equal(t, left, swapped)
	require.Equal(t, Merge(a, b), Merge(b, a))
}

func TestMergeKeepsUnionOfCategories(t *testing.T) {
	_, b, c := sampleStats()

	merged := Merge(b, c)

	assert.True(t, merged.Tracks(Templates))
	assert.True(t, merged.Tracks(Variables))
	assert.False(t, merged.Tracks(Defines))
}

func TestMergeMismatchedNamesPanics(t *testing.T) {
	a := NewStats("Rust")
	b := NewStats("C")

	require.Panics(t, func() { Merge(a, b) })
	require.Panics(t, func() { a.Add(b) })
}

func TestMergeWithoutCategoriesStaysNotApplicable(t *testing.T) {
	a := &Stats{Name: "Json", Files: 1, TotalLines: 3}
	b := &Stats{Name: "Json", Files: 1, TotalLines: 5, BlankLines: 1}

	merged := Merge(a, b)

	assert.Nil(t, merged.Categories)
	assert.False(t, merged.Tracks(Functions))
}

func TestAggregateAddInsertsCopy(t *testing.T) {
	agg := Aggregate{}
	source := &Stats{Name: "C", Files: 1, Categories: map[Category]int64{Loops: 1}}

	agg.Add(source)
	agg.Add(source)

	require.Len(t, agg, 1)
	assert.Equal(t, int64(2), agg["C"].Files)
	assert.Equal(t, int64(2), agg["C"].Count(Loops))
	assert.Equal(t, int64(1), source.Files, "source must not be aliased")
}

func TestAggregateMergeIsOrderIndependent(t *testing.T) {
	a, b, c := sampleStats()
	json := &Stats{Name: "Json", Files: 2, TotalLines: 10}

	first := Aggregate{}
	first.Add(a)
	first.Add(json)
	second := Aggregate{}
	second.Add(b)
	third := Aggregate{}
	third.Add(c)

	forward := Aggregate{}
	forward.Merge(first)
	forward.Merge(second)
	forward.Merge(third)

	backward := Aggregate{}
	backward.Merge(third)
	backward.Merge(second)
	backward.Merge(first)

	require.Equal(t, forward, backward)
}

func TestTotalTracksSummaryCategories(t *testing.T) {
	agg := Aggregate{}
	agg.Add(&Stats{Name: "C++", Files: 1, TotalLines: 29, BlankLines: 8,
		Categories: map[Category]int64{Functions: 2, Variables: 4, Loops: 4, Templates: 1, Defines: 1}})
	agg.Add(&Stats{Name: "Json", Files: 2, TotalLines: 10, BlankLines: 1})
	agg.Add(&Stats{Name: BinaryName, Files: 1})

	total := Total(agg)

	assert.Equal(t, TotalName, total.Name)
	assert.Equal(t, int64(4), total.Files)
	assert.Equal(t, int64(39), total.TotalLines)
	assert.Equal(t, int64(9), total.BlankLines)
	assert.Equal(t, int64(2), total.Count(Functions))
	assert.Equal(t, int64(4), total.Count(Variables))
	assert.Equal(t, int64(4), total.Count(Loops))
	assert.False(t, total.Tracks(Templates))
}

func TestTotalOfEmptyAggregateHasZeroSummary(t *testing.T) {
	total := Total(Aggregate{})

	for _, category := range SummaryCategories {
		assert.True(t, total.Tracks(category))
		assert.Zero(t, total.Count(category))
	}
}

func TestSortedOrdersByName(t *testing.T) {
	agg := Aggregate{}
	agg.Add(NewStats("Rust"))
	agg.Add(NewStats("C"))
	agg.Add(NewStats("Json"))

	names := make([]string, 0, len(agg))
	for _, stats := range agg.Sorted() {
		names = append(names, stats.Name)
	}

	assert.Equal(t, []string{"C", "Json", "Rust"}, names)
}

func TestParseCategory(t *testing.T) {
	category, err := ParseCategory("  loops ")
	require.NoError(t, err)
	assert.Equal(t, Loops, category)

	_, err = ParseCategory("classes")
	require.Error(t, err)

	text, err := Defines.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Defines", string(text))
}
