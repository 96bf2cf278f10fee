package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"cafefresco/internal/models"
)

type paymentIntentRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

// CreatePaymentIntent asks Stripe for a payment intent and hands the client
// secret back to the storefront. Amounts are in the smallest currency unit.
func CreatePaymentIntent() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /stripe/payment-intent"
		defer handlePanic(c, route)

		var req paymentIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
			respondWithError(c, http.StatusBadRequest, route, "Invalid amount provided")
			return
		}

		params := &stripe.PaymentIntentParams{
			Amount:   stripe.Int64(req.Amount),
			Currency: stripe.String(string(stripe.CurrencyUSD)),
		}

		intent, err := paymentintent.New(params)
		if err != nil {
			log.Println("[PAYMENT] [ERROR] stripe intent creation failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"clientSecret": intent.ClientSecret})
	}
}

type createPaymentRequest struct {
	OrderID        string         `json:"orderId" binding:"required"`
	PaymentMethod  string         `json:"paymentMethod" binding:"required"`
	TransactionID  string         `json:"transactionId"`
	Amount         float64        `json:"amount" binding:"required"`
	PaymentDetails map[string]any `json:"paymentDetails"`
}

// CreatePayment records a payment against an order. Cash on delivery starts
// out pending, everything else is recorded completed.
func CreatePayment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /stripe/payment/create"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		var req createPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		orderID, err := primitive.ObjectIDFromHex(req.OrderID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid order ID")
			return
		}
		if req.Amount <= 0 {
			respondWithError(c, http.StatusBadRequest, route, "Invalid amount provided")
			return
		}

		status := models.PaymentCompleted
		if req.PaymentMethod == models.PaymentMethodCOD {
			status = models.PaymentPending
		}

		payment := models.Payment{
			OrderID:        orderID,
			UserID:         userID,
			PaymentMethod:  req.PaymentMethod,
			TransactionID:  req.TransactionID,
			PaymentStatus:  status,
			Amount:         req.Amount,
			PaymentDetails: req.PaymentDetails,
			CreatedAt:      time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("payments").InsertOne(ctx, payment)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		payment.ID, _ = res.InsertedID.(primitive.ObjectID)

		c.JSON(http.StatusCreated, gin.H{
			"message": "Payment recorded successfully",
			"payment": payment,
		})
	}
}
