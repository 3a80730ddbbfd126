package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RestaurantIndexes are required by the listing predicates. The text index
// backs the name search; $text fails without it.
func RestaurantIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: "text"}},
			Options: options.Index().SetName("txt_restaurant_name"),
		},
		{
			Keys:    bson.D{{Key: "cuisine", Value: 1}},
			Options: options.Index().SetName("idx_restaurant_cuisine"),
		},
		{
			Keys:    bson.D{{Key: "address.zipcode", Value: 1}},
			Options: options.Index().SetName("idx_restaurant_zipcode"),
		},
	}
}

// ReviewIndexes back the correlated sub-query of the detail join.
func ReviewIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "restaurant_id", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("idx_review_restaurant_date"),
		},
	}
}

// EnsureIndexes は読み取り経路が依存するインデックスを作成する。既存の同名インデックスは Mongo 側で無視される。
func EnsureIndexes(ctx context.Context, db *mongo.Database, restaurantCollection, reviewCollection string) error {
	if _, err := db.Collection(restaurantCollection).Indexes().CreateMany(ctx, RestaurantIndexes()); err != nil {
		return err
	}
	if _, err := db.Collection(reviewCollection).Indexes().CreateMany(ctx, ReviewIndexes()); err != nil {
		return err
	}
	return nil
}
