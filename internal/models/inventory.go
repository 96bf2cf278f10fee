package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Inventory tracks stock one-to-one with a product. The quantity is only
// ever decremented through a conditional update, so it cannot go negative.
type Inventory struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID       primitive.ObjectID `bson:"productId" json:"productId"`
	QuantityInStock int                `bson:"quantityInStock" json:"quantityInStock"`
	RestockDate     *time.Time         `bson:"restockDate,omitempty" json:"restockDate,omitempty"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
