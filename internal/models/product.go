package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title           string               `bson:"title" json:"title"`
	Image           string               `bson:"image,omitempty" json:"image,omitempty"`
	Description     string               `bson:"description" json:"description"`
	Price           float64              `bson:"price" json:"price"`
	Discount        float64              `bson:"discount" json:"discount"`
	Category        primitive.ObjectID   `bson:"category,omitempty" json:"category,omitempty"`
	Featured        bool                 `bson:"featured" json:"featured"`
	NewRelease      bool                 `bson:"newRelease" json:"newRelease"`
	Inventory       *primitive.ObjectID  `bson:"inventory,omitempty" json:"inventory,omitempty"`
	Reviews         []primitive.ObjectID `bson:"reviews,omitempty" json:"reviews,omitempty"`
	AverageRating   float64              `bson:"averageRating" json:"averageRating"`
	DiscountedPrice float64              `bson:"-" json:"discountedPrice"`
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
}

// DiscountedPrice computes price * (1 - discount/100) rounded to 2 decimals.
func DiscountedPrice(price, discount float64) float64 {
	return math.Round(price*(1-discount/100)*100) / 100
}

// WithDerived fills fields that are computed, not stored.
func (p Product) WithDerived() Product {
	p.DiscountedPrice = DiscountedPrice(p.Price, p.Discount)
	return p
}
