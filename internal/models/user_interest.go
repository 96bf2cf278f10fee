package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserInterest accumulates search terms and viewed products per user and
// only exists to drive recommendations.
type UserInterest struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID   `bson:"userId" json:"userId"`
	Searches       []string             `bson:"searches" json:"searches"`
	ViewedProducts []primitive.ObjectID `bson:"viewedProducts" json:"viewedProducts"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}
