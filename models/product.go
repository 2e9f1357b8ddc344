package models

import "time"

// Categories is the closed set of product categories.
var Categories = []string{
	"Electronics",
	"Cameras",
	"Laptops",
	"Accessories",
	"Headphones",
	"Computers",
	"Graphics Cards",
	"Memory Cards",
	"USB",
	"Chargers",
	"LED",
	"Tablets",
	"Smartphones",
}

// Review is embedded in its product. At most one review per user per product;
// a second submission overwrites the first in place.
type Review struct {
	ReviewID string  `json:"_id" bson:"reviewid"`
	UserID   string  `json:"user" bson:"user"`
	Name     string  `json:"name" bson:"name"`
	Rating   float64 `json:"rating" bson:"rating"`
	Comment  string  `json:"comment,omitempty" bson:"comment,omitempty"`
}

type Product struct {
	ProductID    string    `json:"_id" bson:"productid"`
	Name         string    `json:"name" bson:"name"`
	Price        float64   `json:"price" bson:"price"`
	Description  string    `json:"description" bson:"description"`
	Ratings      float64   `json:"ratings" bson:"ratings"`
	Images       []Image   `json:"images" bson:"images"`
	Category     string    `json:"category" bson:"category"`
	Seller       string    `json:"seller" bson:"seller"`
	Stock        int       `json:"stock" bson:"stock"`
	NumOfReviews int       `json:"numOfReviews" bson:"numOfReviews"`
	Reviews      []Review  `json:"reviews" bson:"reviews"`
	UserID       string    `json:"user" bson:"user"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
	// Stored but never filtered on by any read path.
	DeletedAt *time.Time `json:"deletedAt" bson:"deletedAt"`
}
