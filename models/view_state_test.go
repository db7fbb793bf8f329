package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestParsePeriod(t *testing.T) {
	cases := map[string]Period{
		"hour":   PeriodHour,
		" Day ":  PeriodDay,
		"week":   PeriodWeek,
		"MONTH":  PeriodMonth,
		"year":   PeriodYear,
		"U":      PeriodHour,
		"v":      PeriodDay,
		"W":      PeriodWeek,
		"m":      PeriodMonth,
		"J":      PeriodYear,
	}
	for in, want := range cases {
		got, err := ParsePeriod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePeriod("decade")
	assert.Error(t, err)
}

func TestParseSortMethod(t *testing.T) {
	m, err := ParseSortMethod("Alphabetical")
	require.NoError(t, err)
	assert.Equal(t, SortAlphabetical, m)

	_, err = ParseSortMethod("random")
	assert.Error(t, err)
}

func TestVisibilityIncludes(t *testing.T) {
	assert.True(t, VisibilityActive.Includes(LifecycleStateActive))
	assert.False(t, VisibilityActive.Includes(LifecycleStateArchived))
	assert.True(t, VisibilityArchived.Includes(LifecycleStateArchived))
	assert.False(t, VisibilityArchived.Includes(LifecycleStateDeleted))
	assert.False(t, VisibilityActive.Includes(LifecycleStateDeleted))
}

func TestViewStateNormalize(t *testing.T) {
	v := ViewState{Sort: "bogus", Period: PeriodYear, Compact: true}.Normalize(DefaultViewState())
	assert.Equal(t, SortManual, v.Sort)
	assert.Equal(t, PeriodYear, v.Period)
	assert.Equal(t, VisibilityActive, v.Visibility)
	assert.True(t, v.Compact)
}
