package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a store customer account.
type User struct {
	ID                   primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name                 string              `bson:"name" json:"name"`
	Email                string              `bson:"email" json:"email"`
	PasswordHash         string              `bson:"password" json:"-"`
	Image                string              `bson:"image,omitempty" json:"image,omitempty"`
	Address              string              `bson:"address,omitempty" json:"address,omitempty"`
	Phone                string              `bson:"phone,omitempty" json:"phone,omitempty"`
	ResetPasswordToken   string              `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpires *time.Time          `bson:"resetPasswordExpires,omitempty" json:"-"`
	Cart                 *primitive.ObjectID `bson:"cart,omitempty" json:"cart,omitempty"`
	Wishlist             *primitive.ObjectID `bson:"wishlist,omitempty" json:"wishlist,omitempty"`
	CreatedAt            time.Time           `bson:"createdAt" json:"createdAt"`
}
