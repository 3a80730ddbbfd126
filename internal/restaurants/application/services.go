package application

import (
	"context"
	"time"

	"github.com/sngm3741/restreviews/api/internal/metrics"
	"github.com/sngm3741/restreviews/api/internal/restaurants/domain"
)

// RestaurantRepository abstracts read access to restaurants and their reviews.
// List and Cuisines are fail-soft: they report failures through the result's
// Err field. FindByID returns (nil, nil) when nothing matches.
type RestaurantRepository interface {
	List(ctx context.Context, filter domain.Filter, paging domain.Paging) domain.RestaurantPage
	FindByID(ctx context.Context, id string) (*domain.Restaurant, error)
	Cuisines(ctx context.Context) domain.CuisineList
}

// RestaurantQueryService describes restaurant read use-cases.
type RestaurantQueryService interface {
	List(ctx context.Context, filter domain.Filter, paging domain.Paging) domain.RestaurantPage
	Detail(ctx context.Context, id string) (*domain.Restaurant, error)
	Cuisines(ctx context.Context) domain.CuisineList
}

// Operation labels used for metrics.
const (
	OperationList     = "list"
	OperationDetail   = "detail"
	OperationCuisines = "cuisines"
)

// restaurantQueryService is the concrete implementation of RestaurantQueryService.
type restaurantQueryService struct {
	repo RestaurantRepository
}

// NewRestaurantQueryService creates a new restaurant query service.
func NewRestaurantQueryService(repo RestaurantRepository) RestaurantQueryService {
	return &restaurantQueryService{repo: repo}
}

func (s *restaurantQueryService) List(ctx context.Context, filter domain.Filter, paging domain.Paging) domain.RestaurantPage {
	started := time.Now()
	page := s.repo.List(ctx, filter, paging)
	metrics.ObserveQuery(OperationList, outcomeOf(page.Err), started)
	return page
}

func (s *restaurantQueryService) Detail(ctx context.Context, id string) (*domain.Restaurant, error) {
	started := time.Now()
	restaurant, err := s.repo.FindByID(ctx, id)
	switch {
	case err != nil:
		metrics.ObserveQuery(OperationDetail, metrics.OutcomeError, started)
	case restaurant == nil:
		metrics.ObserveQuery(OperationDetail, metrics.OutcomeNotFound, started)
	default:
		metrics.ObserveQuery(OperationDetail, metrics.OutcomeOK, started)
	}
	return restaurant, err
}

func (s *restaurantQueryService) Cuisines(ctx context.Context) domain.CuisineList {
	started := time.Now()
	list := s.repo.Cuisines(ctx)
	metrics.ObserveQuery(OperationCuisines, outcomeOf(list.Err), started)
	return list
}

func outcomeOf(err error) string {
	if err != nil {
		return metrics.OutcomeDegraded
	}
	return metrics.OutcomeOK
}
