package models

import "time"

// Order statuses form a closed set; OrderDelivered is terminal.
const (
	OrderProcessing = "Processing"
	OrderShipped    = "Shipped"
	OrderDelivered  = "Delivered"
)

// OrderItem snapshots a product line at purchase time; price is captured,
// not re-read live.
type OrderItem struct {
	Name     string  `json:"name" bson:"name"`
	Quantity int     `json:"quantity" bson:"quantity"`
	Image    string  `json:"image" bson:"image"`
	Price    float64 `json:"price" bson:"price"`
	Product  string  `json:"product" bson:"product"`
}

type ShippingInfo struct {
	Address    string `json:"address" bson:"address"`
	City       string `json:"city" bson:"city"`
	PhoneNo    string `json:"phoneNo" bson:"phoneNo"`
	PostalCode string `json:"postalCode" bson:"postalCode"`
	Country    string `json:"country" bson:"country"`
}

// PaymentInfo is the opaque capture confirmation reference.
type PaymentInfo struct {
	ID     string `json:"id" bson:"id"`
	Status string `json:"status" bson:"status"`
}

type Order struct {
	OrderID       string       `json:"_id" bson:"orderid"`
	OrderItems    []OrderItem  `json:"orderItems" bson:"orderItems"`
	ShippingInfo  ShippingInfo `json:"shippingInfo" bson:"shippingInfo"`
	ItemsPrice    float64      `json:"itemsPrice" bson:"itemsPrice"`
	TaxPrice      float64      `json:"taxPrice" bson:"taxPrice"`
	ShippingPrice float64      `json:"shippingPrice" bson:"shippingPrice"`
	TotalPrice    float64      `json:"totalPrice" bson:"totalPrice"`
	PaymentInfo   PaymentInfo  `json:"paymentInfo" bson:"paymentInfo"`
	OrderStatus   string       `json:"orderStatus" bson:"orderStatus"`
	PaidAt        time.Time    `json:"paidAt" bson:"paidAt"`
	DeliveredAt   *time.Time   `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
	UserID        string       `json:"user" bson:"user"`
	CreatedAt     time.Time    `json:"createdAt" bson:"createdAt"`
}

// Index represents a catalog mutation event published to the event channel.
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id"`
	ItemType   string `json:"item_type"`
}
