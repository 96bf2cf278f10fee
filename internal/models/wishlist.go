package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Wishlist is owned by exactly one user; items are a set of product ids.
type Wishlist struct {
	ID     primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID   `bson:"userId" json:"userId"`
	Items  []primitive.ObjectID `bson:"items" json:"items"`
}
