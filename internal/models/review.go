package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Review holds one user's rating of one product. The store enforces at
// most one per (user, product) pair.
type Review struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User    primitive.ObjectID `bson:"user" json:"user"`
	Product primitive.ObjectID `bson:"product" json:"product"`
	Rating  int                `bson:"rating" json:"rating"`
	Review  string             `bson:"review,omitempty" json:"review,omitempty"`
}
