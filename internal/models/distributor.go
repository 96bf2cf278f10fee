package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Distributor struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	ContactPerson    string             `bson:"contactPerson" json:"contactPerson"`
	Phone            string             `bson:"phone" json:"phone"`
	Email            string             `bson:"email" json:"email"`
	Address          string             `bson:"address,omitempty" json:"address,omitempty"`
	SupplyCategories []string           `bson:"supplyCategories" json:"supplyCategories"`
	IsActive         bool               `bson:"isActive" json:"isActive"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
