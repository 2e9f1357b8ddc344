package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Image is an external asset reference (asset-host id plus public URL).
type Image struct {
	PublicID string `json:"public_id" bson:"public_id"`
	URL      string `json:"url" bson:"url"`
}

// CartItem is a cart line owned by a user. The product reference is weak:
// deleting the product does not cascade into carts.
type CartItem struct {
	Product  string `json:"product" bson:"product"`
	Quantity int    `json:"quantity" bson:"quantity"`
}

type User struct {
	UserID    string     `json:"userid" bson:"userid"`
	Name      string     `json:"name" bson:"name"`
	Email     string     `json:"email" bson:"email"`
	Password  string     `json:"-" bson:"password"` // bcrypt hash, never serialized
	Role      string     `json:"role" bson:"role"`
	Avatar    Image      `json:"avatar" bson:"avatar"`
	CartItems []CartItem `json:"cartItems" bson:"cartItems"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`

	ResetPasswordToken  string    `json:"-" bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpire time.Time `json:"-" bson:"resetPasswordExpire,omitempty"`
}
