package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Supply categories shared by suppliers and distributors.
var SupplyCategories = []string{"vegetables", "meat", "dairy", "beverages", "bakery", "other"}

func IsValidSupplyCategory(category string) bool {
	for _, c := range SupplyCategories {
		if c == category {
			return true
		}
	}
	return false
}

type Supplier struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Phone       string              `bson:"phone" json:"phone"`
	Email       string              `bson:"email" json:"email"`
	Address     string              `bson:"address,omitempty" json:"address,omitempty"`
	Supplies    []string            `bson:"supplies" json:"supplies"`
	Distributor *primitive.ObjectID `bson:"distributor,omitempty" json:"distributor,omitempty"`
	IsActive    bool                `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}
