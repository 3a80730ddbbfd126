package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sngm3741/restreviews/api/internal/restaurants/domain"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

type stubQueries struct {
	page       domain.RestaurantPage
	restaurant *domain.Restaurant
	detailErr  error
	cuisines   domain.CuisineList

	gotFilter domain.Filter
	gotPaging domain.Paging
	gotID     string
}

func (s *stubQueries) List(_ context.Context, filter domain.Filter, paging domain.Paging) domain.RestaurantPage {
	s.gotFilter, s.gotPaging = filter, paging
	return s.page
}

func (s *stubQueries) Detail(_ context.Context, id string) (*domain.Restaurant, error) {
	s.gotID = id
	return s.restaurant, s.detailErr
}

func (s *stubQueries) Cuisines(context.Context) domain.CuisineList {
	return s.cuisines
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var coder cli.ExitCoder
	require.True(t, errors.As(err, &coder), "expected an exit error, got %v", err)
	return coder.ExitCode()
}

func TestRunList(t *testing.T) {
	t.Run("prints the page", func(t *testing.T) {
		svc := &stubQueries{page: domain.RestaurantPage{
			Items:    []domain.Restaurant{{ID: "5eb3d668b31de5d588f4292a", Name: "Golden Kitchen", Cuisine: "Chinese"}},
			Total:    1,
			Page:     0,
			PageSize: 20,
		}}
		filter := domain.Filter{Cuisine: "Chinese"}
		paging := domain.Paging{Page: 0, PageSize: 20}

		var out bytes.Buffer
		require.NoError(t, runList(context.Background(), svc, &out, filter, paging, true))
		require.Equal(t, filter, svc.gotFilter)
		require.Equal(t, paging, svc.gotPaging)

		var body map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &body))
		require.EqualValues(t, 1, body["totalResults"])
		require.EqualValues(t, 20, body["entriesPerPage"])
		require.Len(t, body["restaurants"], 1)
	})

	t.Run("degraded page is printed and tolerated", func(t *testing.T) {
		page := domain.EmptyPage(domain.Paging{})
		page.Err = domain.ErrNotBound
		svc := &stubQueries{page: page}

		var out bytes.Buffer
		require.NoError(t, runList(context.Background(), svc, &out, domain.Filter{}, domain.Paging{}, false))
		require.Contains(t, out.String(), `"restaurants": []`)
	})

	t.Run("degraded page fails in strict mode", func(t *testing.T) {
		page := domain.EmptyPage(domain.Paging{})
		page.Err = domain.ErrNotBound
		svc := &stubQueries{page: page}

		var out bytes.Buffer
		err := runList(context.Background(), svc, &out, domain.Filter{}, domain.Paging{}, true)
		require.Equal(t, 1, exitCode(t, err))
	})
}

func TestRunGet(t *testing.T) {
	t.Run("prints the restaurant with reviews", func(t *testing.T) {
		svc := &stubQueries{restaurant: &domain.Restaurant{
			ID:      "5eb3d668b31de5d588f4292a",
			Name:    "Golden Kitchen",
			Reviews: []domain.Review{{ID: "r1", Text: "Great food"}},
		}}

		var out bytes.Buffer
		require.NoError(t, runGet(context.Background(), svc, &out, "5eb3d668b31de5d588f4292a"))
		require.Equal(t, "5eb3d668b31de5d588f4292a", svc.gotID)
		require.Contains(t, out.String(), `"Great food"`)
	})

	t.Run("not found prints null", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runGet(context.Background(), &stubQueries{}, &out, "5eb3d668b31de5d588f4292a"))
		require.Equal(t, "null\n", out.String())
	})

	t.Run("lookup failure exits non-zero", func(t *testing.T) {
		svc := &stubQueries{detailErr: domain.ErrInvalidID}

		var out bytes.Buffer
		err := runGet(context.Background(), svc, &out, "nope")
		require.Equal(t, 1, exitCode(t, err))
		require.Empty(t, out.String())
	})
}

func TestRunCuisines(t *testing.T) {
	t.Run("prints values", func(t *testing.T) {
		svc := &stubQueries{cuisines: domain.CuisineList{Values: []string{"American", "Italian"}}}

		var out bytes.Buffer
		require.NoError(t, runCuisines(context.Background(), svc, &out, false))

		var body struct {
			Cuisines []string `json:"cuisines"`
		}
		require.NoError(t, json.Unmarshal(out.Bytes(), &body))
		require.Equal(t, []string{"American", "Italian"}, body.Cuisines)
	})

	t.Run("degraded list fails in strict mode", func(t *testing.T) {
		svc := &stubQueries{cuisines: domain.CuisineList{Values: []string{}, Err: domain.ErrNotBound}}

		var out bytes.Buffer
		err := runCuisines(context.Background(), svc, &out, true)
		require.Equal(t, 1, exitCode(t, err))
		require.Contains(t, out.String(), `"cuisines": []`)
	})
}
