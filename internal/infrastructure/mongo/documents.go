package mongo

import (
	"time"

	"github.com/sngm3741/restreviews/api/internal/restaurants/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RestaurantDocument は restaurants コレクションのスキーマ。Reviews は $lookup で付与される一時フィールド。
type RestaurantDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	RestaurantID string             `bson:"restaurant_id,omitempty"`
	Name         string             `bson:"name"`
	Cuisine      string             `bson:"cuisine"`
	Borough      string             `bson:"borough,omitempty"`
	Address      AddressDocument    `bson:"address"`
	Grades       []GradeDocument    `bson:"grades,omitempty"`
	Reviews      []ReviewDocument   `bson:"reviews,omitempty"`
}

// AddressDocument は住所の埋め込みドキュメント。coord は [経度, 緯度]。
type AddressDocument struct {
	Building string    `bson:"building,omitempty"`
	Coord    []float64 `bson:"coord,omitempty"`
	Street   string    `bson:"street,omitempty"`
	Zipcode  string    `bson:"zipcode,omitempty"`
}

// GradeDocument は衛生検査の評価 1 件分。
type GradeDocument struct {
	Date  time.Time `bson:"date"`
	Grade string    `bson:"grade"`
	Score int       `bson:"score"`
}

// ReviewDocument は reviews コレクションのスキーマ。restaurant_id が親レストランの _id を指す。
type ReviewDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	RestaurantID primitive.ObjectID `bson:"restaurant_id"`
	UserID       string             `bson:"user_id,omitempty"`
	Name         string             `bson:"name,omitempty"`
	Text         string             `bson:"text"`
	Date         time.Time          `bson:"date"`
}

func mapRestaurantDocument(doc RestaurantDocument) domain.Restaurant {
	grades := make([]domain.Grade, 0, len(doc.Grades))
	for _, g := range doc.Grades {
		grades = append(grades, domain.Grade{Date: g.Date, Grade: g.Grade, Score: g.Score})
	}

	restaurant := domain.Restaurant{
		ID:           doc.ID.Hex(),
		RestaurantID: doc.RestaurantID,
		Name:         doc.Name,
		Cuisine:      doc.Cuisine,
		Borough:      doc.Borough,
		Address: domain.Address{
			Building: doc.Address.Building,
			Street:   doc.Address.Street,
			Zipcode:  doc.Address.Zipcode,
			Coord:    append([]float64(nil), doc.Address.Coord...),
		},
		Grades: grades,
	}
	if doc.Reviews != nil {
		restaurant.Reviews = mapReviewDocuments(doc.Reviews)
	}
	return restaurant
}

func mapReviewDocuments(docs []ReviewDocument) []domain.Review {
	reviews := make([]domain.Review, 0, len(docs))
	for _, doc := range docs {
		reviews = append(reviews, domain.Review{
			ID:           doc.ID.Hex(),
			RestaurantID: doc.RestaurantID.Hex(),
			UserID:       doc.UserID,
			Name:         doc.Name,
			Text:         doc.Text,
			Date:         doc.Date,
		})
	}
	return reviews
}
