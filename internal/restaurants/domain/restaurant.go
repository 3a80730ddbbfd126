package domain

import "time"

// Restaurant represents a restaurant record, optionally carrying its joined reviews.
type Restaurant struct {
	ID           string   `json:"id"`
	RestaurantID string   `json:"restaurantId,omitempty"`
	Name         string   `json:"name"`
	Cuisine      string   `json:"cuisine"`
	Borough      string   `json:"borough,omitempty"`
	Address      Address  `json:"address"`
	Grades       []Grade  `json:"grades,omitempty"`
	Reviews      []Review `json:"reviews,omitempty"`
}

// Address is the structured location of a restaurant.
type Address struct {
	Building string    `json:"building,omitempty"`
	Street   string    `json:"street,omitempty"`
	Zipcode  string    `json:"zipcode,omitempty"`
	Coord    []float64 `json:"coord,omitempty"`
}

// Grade is a single inspection grade.
type Grade struct {
	Date  time.Time `json:"date"`
	Grade string    `json:"grade"`
	Score int       `json:"score"`
}

// Review is a user review attached to a restaurant by RestaurantID.
type Review struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurantId"`
	UserID       string    `json:"userId,omitempty"`
	Name         string    `json:"name,omitempty"`
	Text         string    `json:"text"`
	Date         time.Time `json:"date"`
}
