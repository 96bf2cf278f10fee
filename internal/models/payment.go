package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentMethodDebitCard = "Debit Card"
	PaymentMethodCOD       = "COD"

	PaymentPending   = "Pending"
	PaymentCompleted = "Completed"
	PaymentFailed    = "Failed"
	PaymentRefunded  = "Refunded"
)

type Payment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID        primitive.ObjectID `bson:"orderId" json:"orderId"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	PaymentMethod  string             `bson:"paymentMethod" json:"paymentMethod"`
	TransactionID  string             `bson:"transactionId" json:"transactionId"`
	PaymentStatus  string             `bson:"paymentStatus" json:"paymentStatus"`
	Amount         float64            `bson:"amount" json:"amount"`
	PaymentDetails map[string]any     `bson:"paymentDetails,omitempty" json:"paymentDetails,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
