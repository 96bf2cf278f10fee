package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotificationOrder      = "order"
	NotificationPermission = "permission"
)

// Notification is an append-only audit entry for the admin dashboard.
// The seen flag is global, not per admin.
type Notification struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name,omitempty" json:"name,omitempty"`
	Message string             `bson:"message" json:"message"`
	Type    string             `bson:"type" json:"type"`
	Time    time.Time          `bson:"time" json:"time"`
	Seen    bool               `bson:"seen" json:"seen"`
}
