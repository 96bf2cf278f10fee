package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Back-office roles. Role checks always re-read the persisted record,
// never the token claim.
const (
	RoleAdmin   = "admin"
	RoleEditor  = "editor"
	RoleManager = "manager"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleManager:
		return true
	}
	return false
}

// Admin represents a back-office account.
type Admin struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                 string             `bson:"name" json:"name"`
	Email                string             `bson:"email" json:"email"`
	PasswordHash         string             `bson:"password" json:"-"`
	Role                 string             `bson:"role" json:"role"`
	IsRoot               bool               `bson:"isRoot" json:"isRoot"`
	ResetPasswordToken   string             `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpires *time.Time         `bson:"resetPasswordExpires,omitempty" json:"-"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
}
