package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DiscountCode is redeemable once per user until its expiry date.
// MaxUses is stored for reporting but not enforced against the total
// redemption count.
type DiscountCode struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Code               string               `bson:"code" json:"code"`
	DiscountPercentage float64              `bson:"discountPercentage" json:"discountPercentage"`
	ExpiryDate         time.Time            `bson:"expiryDate" json:"expiryDate"`
	MinPurchase        float64              `bson:"minPurchase" json:"minPurchase"`
	MaxUses            int                  `bson:"maxUses" json:"maxUses"`
	UsedBy             []primitive.ObjectID `bson:"usedBy" json:"usedBy"`
}
