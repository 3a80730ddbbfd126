package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterCriterion(t *testing.T) {
	cases := []struct {
		name   string
		filter Filter
		want   Criterion
		ok     bool
	}{
		{name: "empty", filter: Filter{}, ok: false},
		{name: "blank values are absent", filter: Filter{Name: "  ", Cuisine: "\t"}, ok: false},
		{name: "name only", filter: Filter{Name: "Pizza"}, want: Criterion{Key: FilterName, Value: "Pizza"}, ok: true},
		{name: "cuisine only", filter: Filter{Cuisine: "Italian"}, want: Criterion{Key: FilterCuisine, Value: "Italian"}, ok: true},
		{name: "zipcode only", filter: Filter{Zipcode: "10462"}, want: Criterion{Key: FilterZipcode, Value: "10462"}, ok: true},
		{name: "name wins over cuisine and zipcode", filter: Filter{Name: "Pizza", Cuisine: "Italian", Zipcode: "10462"}, want: Criterion{Key: FilterName, Value: "Pizza"}, ok: true},
		{name: "cuisine wins over zipcode", filter: Filter{Cuisine: "Italian", Zipcode: "10462"}, want: Criterion{Key: FilterCuisine, Value: "Italian"}, ok: true},
		{name: "blank name falls through", filter: Filter{Name: " ", Zipcode: "10462"}, want: Criterion{Key: FilterZipcode, Value: "10462"}, ok: true},
		{name: "value is trimmed", filter: Filter{Cuisine: " Thai "}, want: Criterion{Key: FilterCuisine, Value: "Thai"}, ok: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.filter.Criterion()
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestFilterCriterionIgnoresLowerPrecedenceKeys(t *testing.T) {
	base, _ := Filter{Cuisine: "Italian"}.Criterion()
	for _, zip := range []string{"", "10462", "11225"} {
		got, ok := Filter{Cuisine: "Italian", Zipcode: zip}.Criterion()
		require.True(t, ok)
		require.Equal(t, base, got)
	}
}

func TestPagingWindow(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p := Paging{}.Normalize()
		require.Equal(t, 0, p.Page)
		require.Equal(t, DefaultPageSize, p.PageSize)
	})
	t.Run("negative page clamps to zero", func(t *testing.T) {
		p := Paging{Page: -3, PageSize: 5}
		require.Equal(t, int64(0), p.Skip())
		require.Equal(t, int64(5), p.Limit())
	})
	t.Run("second page of twenty", func(t *testing.T) {
		p := Paging{Page: 1, PageSize: 20}
		require.Equal(t, int64(20), p.Skip())
		require.Equal(t, int64(20), p.Limit())
	})
	t.Run("non-positive size uses default", func(t *testing.T) {
		p := Paging{Page: 2, PageSize: 0}
		require.Equal(t, int64(40), p.Skip())
		require.Equal(t, int64(DefaultPageSize), p.Limit())
	})
}

func TestEmptyPage(t *testing.T) {
	page := EmptyPage(Paging{Page: 3, PageSize: -1})
	require.NotNil(t, page.Items)
	require.Empty(t, page.Items)
	require.Zero(t, page.Total)
	require.Equal(t, 3, page.Page)
	require.Equal(t, DefaultPageSize, page.PageSize)
	require.False(t, page.Degraded())

	page.Err = ErrNotBound
	require.True(t, page.Degraded())
}

func TestQueryErrorClassification(t *testing.T) {
	cause := errors.New("connection reset")
	var err error = &QueryError{Op: "list", Stage: StageCount, Err: cause}
	wrapped := fmt.Errorf("listing: %w", err)

	require.ErrorIs(t, wrapped, ErrQuery)
	require.ErrorIs(t, wrapped, cause)
	require.NotErrorIs(t, wrapped, ErrNotBound)

	var qe *QueryError
	require.ErrorAs(t, wrapped, &qe)
	require.Equal(t, StageCount, qe.Stage)
	require.Equal(t, "list: count: connection reset", qe.Error())
}
