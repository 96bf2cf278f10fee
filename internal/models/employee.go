package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Employee struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name       string              `bson:"name" json:"name"`
	CNIC       string              `bson:"cnic" json:"cnic"`
	Email      string              `bson:"email" json:"email"`
	Phone      string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Position   string              `bson:"position,omitempty" json:"position,omitempty"`
	Salary     float64             `bson:"salary,omitempty" json:"salary,omitempty"`
	HireDate   time.Time           `bson:"hireDate" json:"hireDate"`
	Department *primitive.ObjectID `bson:"department,omitempty" json:"department,omitempty"`
	Address    string              `bson:"address,omitempty" json:"address,omitempty"`
	IsActive   bool                `bson:"isActive" json:"isActive"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time           `bson:"updatedAt" json:"updatedAt"`
}
