package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"

	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// OrderItem is a snapshot of a requested line at order time, not a live
// reference. Unit price is not recorded; see the product document for the
// price that applied.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

type Order struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID  `bson:"userId" json:"userId"`
	Products      []OrderItem         `bson:"products" json:"products"`
	TotalAmount   float64             `bson:"totalAmount" json:"totalAmount"`
	PaymentStatus string              `bson:"paymentStatus" json:"paymentStatus"`
	OrderStatus   string              `bson:"orderStatus" json:"orderStatus"`
	PaymentID     *primitive.ObjectID `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

func IsValidPaymentStatus(status string) bool {
	return status == PaymentStatusUnpaid || status == PaymentStatusPaid
}

func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}
