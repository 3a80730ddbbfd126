package mongo

import (
	"sort"

	"github.com/sngm3741/restreviews/api/internal/restaurants/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// listPredicate は優先順位 name > cuisine > zipcode で 1 つだけ条件を選び Mongo フィルタへ変換する。
// 条件が無ければ全件一致の空フィルタを返す。
func listPredicate(filter domain.Filter) bson.M {
	criterion, ok := filter.Criterion()
	if !ok {
		return bson.M{}
	}
	switch criterion.Key {
	case domain.FilterName:
		return bson.M{"$text": bson.M{"$search": criterion.Value}}
	case domain.FilterCuisine:
		return bson.M{"cuisine": bson.M{"$eq": criterion.Value}}
	case domain.FilterZipcode:
		return bson.M{"address.zipcode": bson.M{"$eq": criterion.Value}}
	}
	return bson.M{}
}

// listOptions applies the page window. Text matches are ordered by relevance,
// everything else keeps natural order.
func listOptions(filter domain.Filter, paging domain.Paging) *options.FindOptions {
	opts := options.Find().SetSkip(paging.Skip()).SetLimit(paging.Limit())
	if criterion, ok := filter.Criterion(); ok && criterion.Key == domain.FilterName {
		opts.SetSort(bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}})
	}
	return opts
}

// detailPipeline は _id 一致 → reviews への相関サブクエリ → date 降順 → reviews フィールドへの格納を行う。
func detailPipeline(id primitive.ObjectID, reviewCollection string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$lookup", Value: bson.M{
			"from": reviewCollection,
			"let":  bson.M{"id": "$_id"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$restaurant_id", "$$id"}}}},
				bson.M{"$sort": bson.D{{Key: "date", Value: -1}}},
			},
			"as": "reviews",
		}}},
		{{Key: "$addFields", Value: bson.M{"reviews": "$reviews"}}},
	}
}

func reviewsPredicate(restaurantID primitive.ObjectID) bson.M {
	return bson.M{"restaurant_id": restaurantID}
}

func reviewsByRecency() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
}

// attachReviews keeps only reviews that point at parentID and orders them
// most recent first. The result is never nil.
func attachReviews(parentID primitive.ObjectID, reviews []ReviewDocument) []ReviewDocument {
	attached := make([]ReviewDocument, 0, len(reviews))
	for _, review := range reviews {
		if review.RestaurantID != parentID {
			continue
		}
		attached = append(attached, review)
	}
	sort.SliceStable(attached, func(i, j int) bool {
		return attached[i].Date.After(attached[j].Date)
	})
	return attached
}
