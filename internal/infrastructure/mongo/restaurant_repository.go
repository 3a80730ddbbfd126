package mongo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/sngm3741/restreviews/api/internal/restaurants/application"
	"github.com/sngm3741/restreviews/api/internal/restaurants/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// JoinMode selects how reviews are attached to a restaurant detail.
type JoinMode string

const (
	// JoinPipeline runs a single aggregation with a correlated $lookup.
	JoinPipeline JoinMode = "pipeline"
	// JoinSequential fetches the restaurant, then its reviews, for stores without $lookup.
	JoinSequential JoinMode = "sequential"
)

// ParseJoinMode maps a configuration value to a JoinMode, defaulting to JoinPipeline.
func ParseJoinMode(raw string) JoinMode {
	if JoinMode(strings.ToLower(strings.TrimSpace(raw))) == JoinSequential {
		return JoinSequential
	}
	return JoinPipeline
}

const (
	opList     = "list restaurants"
	opDetail   = "restaurant detail"
	opCuisines = "list cuisines"
)

var _ application.RestaurantRepository = (*RestaurantRepository)(nil)

// RestaurantRepository implements application.RestaurantRepository using MongoDB.
// Listing and cuisine enumeration never return an error: failures come back as
// an empty result carrying the classified cause. Detail lookups return errors.
type RestaurantRepository struct {
	restaurants      *CollectionHandle
	reviewCollection string
	joinMode         JoinMode
	logger           *log.Logger
}

// NewRestaurantRepository builds a repository over the restaurants handle.
// reviewCollection names the sibling collection in the same database.
func NewRestaurantRepository(restaurants *CollectionHandle, reviewCollection string, joinMode JoinMode, logger *log.Logger) *RestaurantRepository {
	if logger == nil {
		logger = log.Default()
	}
	if joinMode == "" {
		joinMode = JoinPipeline
	}
	return &RestaurantRepository{
		restaurants:      restaurants,
		reviewCollection: strings.TrimSpace(reviewCollection),
		joinMode:         joinMode,
		logger:           logger,
	}
}

// List returns one page of restaurants matching filter along with the
// unpaginated total for the same predicate.
func (r *RestaurantRepository) List(ctx context.Context, filter domain.Filter, paging domain.Paging) domain.RestaurantPage {
	page := domain.EmptyPage(paging)

	coll, err := r.restaurants.Collection()
	if err != nil {
		r.logger.Printf("unable to list restaurants: %v", err)
		page.Err = err
		return page
	}

	predicate := listPredicate(filter)
	cursor, err := coll.Find(ctx, predicate, listOptions(filter, paging))
	if err != nil {
		r.logger.Printf("unable to issue find command: %v", err)
		page.Err = &domain.QueryError{Op: opList, Stage: domain.StageFind, Err: err}
		return page
	}
	defer cursor.Close(ctx)

	items := make([]domain.Restaurant, 0)
	for cursor.Next(ctx) {
		var doc RestaurantDocument
		if err := cursor.Decode(&doc); err != nil {
			return r.degradeList(page, domain.StageDecode, err)
		}
		items = append(items, mapRestaurantDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return r.degradeList(page, domain.StageDecode, err)
	}

	total, err := coll.CountDocuments(ctx, predicate)
	if err != nil {
		return r.degradeList(page, domain.StageCount, err)
	}

	page.Items = items
	page.Total = total
	return page
}

func (r *RestaurantRepository) degradeList(page domain.RestaurantPage, stage domain.Stage, err error) domain.RestaurantPage {
	r.logger.Printf("unable to convert cursor to page or count restaurants (%s): %v", stage, err)
	page.Items = []domain.Restaurant{}
	page.Total = 0
	page.Err = &domain.QueryError{Op: opList, Stage: stage, Err: err}
	return page
}

// FindByID returns the restaurant with its reviews sorted most recent first,
// or nil when no restaurant has the id.
func (r *RestaurantRepository) FindByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		r.logger.Printf("restaurant detail rejected id=%q: %v", id, err)
		return nil, fmt.Errorf("%w %q: %w", domain.ErrInvalidID, id, err)
	}

	coll, err := r.restaurants.Collection()
	if err != nil {
		r.logger.Printf("restaurant detail failed id=%q: %v", id, err)
		return nil, err
	}

	var doc *RestaurantDocument
	if r.joinMode == JoinSequential {
		doc, err = r.findJoinedSequential(ctx, coll, objectID)
	} else {
		doc, err = r.findJoinedPipeline(ctx, coll, objectID)
	}
	if err != nil {
		r.logger.Printf("restaurant detail failed id=%q: %v", id, err)
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	restaurant := mapRestaurantDocument(*doc)
	return &restaurant, nil
}

func (r *RestaurantRepository) findJoinedPipeline(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID) (*RestaurantDocument, error) {
	cursor, err := coll.Aggregate(ctx, detailPipeline(id, r.reviewCollection))
	if err != nil {
		return nil, &domain.QueryError{Op: opDetail, Stage: domain.StageAggregate, Err: err}
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, &domain.QueryError{Op: opDetail, Stage: domain.StageAggregate, Err: err}
		}
		return nil, nil
	}

	var doc RestaurantDocument
	if err := cursor.Decode(&doc); err != nil {
		return nil, &domain.QueryError{Op: opDetail, Stage: domain.StageDecode, Err: err}
	}
	doc.Reviews = attachReviews(doc.ID, doc.Reviews)
	return &doc, nil
}

func (r *RestaurantRepository) findJoinedSequential(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID) (*RestaurantDocument, error) {
	var doc RestaurantDocument
	err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.QueryError{Op: opDetail, Stage: domain.StageFind, Err: err}
	}

	reviews := coll.Database().Collection(r.reviewCollection)
	cursor, err := reviews.Find(ctx, reviewsPredicate(id), reviewsByRecency())
	if err != nil {
		return nil, &domain.QueryError{Op: opDetail, Stage: domain.StageFind, Err: err}
	}
	defer cursor.Close(ctx)

	docs := make([]ReviewDocument, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, &domain.QueryError{Op: opDetail, Stage: domain.StageDecode, Err: err}
	}
	doc.Reviews = attachReviews(doc.ID, docs)
	return &doc, nil
}

// Cuisines returns the distinct cuisine values in datastore order.
func (r *RestaurantRepository) Cuisines(ctx context.Context) domain.CuisineList {
	list := domain.CuisineList{Values: []string{}}

	coll, err := r.restaurants.Collection()
	if err != nil {
		r.logger.Printf("unable to get cuisines: %v", err)
		list.Err = err
		return list
	}

	values, err := coll.Distinct(ctx, "cuisine", bson.M{})
	if err != nil {
		r.logger.Printf("unable to get cuisines: %v", err)
		list.Err = &domain.QueryError{Op: opCuisines, Stage: domain.StageDistinct, Err: err}
		return list
	}

	for _, v := range values {
		if cuisine, ok := v.(string); ok {
			list.Values = append(list.Values, cuisine)
		}
	}
	return list
}
