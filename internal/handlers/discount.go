package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"cafefresco/internal/models"
)

type createDiscountRequest struct {
	Code               string    `json:"code" binding:"required"`
	DiscountPercentage float64   `json:"discountPercentage" binding:"required"`
	ExpiryDate         time.Time `json:"expiryDate" binding:"required"`
	MinPurchase        float64   `json:"minPurchase"`
	MaxUses            int       `json:"maxUses"`
}

func CreateDiscountCode(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /discount/create"
		defer handlePanic(c, route)

		var req createDiscountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		code := strings.TrimSpace(req.Code)
		if code == "" {
			respondWithError(c, http.StatusBadRequest, route, "code is required")
			return
		}
		if req.DiscountPercentage <= 0 || req.DiscountPercentage > 100 {
			respondWithError(c, http.StatusBadRequest, route, "discountPercentage must be between 0 and 100")
			return
		}

		discount := models.DiscountCode{
			Code:               code,
			DiscountPercentage: req.DiscountPercentage,
			ExpiryDate:         req.ExpiryDate,
			MinPurchase:        req.MinPurchase,
			MaxUses:            req.MaxUses,
			UsedBy:             []primitive.ObjectID{},
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("discountcodes").InsertOne(ctx, discount)
		if err != nil {
			if isDuplicateKeyError(err) {
				respondWithError(c, http.StatusBadRequest, route, "Discount code already exists")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		discount.ID, _ = res.InsertedID.(primitive.ObjectID)

		c.JSON(http.StatusCreated, gin.H{"message": "Discount code created successfully", "code": discount})
	}
}

type updateDiscountRequest struct {
	DiscountPercentage float64   `json:"discountPercentage" binding:"required"`
	ExpiryDate         time.Time `json:"expiryDate" binding:"required"`
	MinPurchase        float64   `json:"minPurchase"`
	MaxUses            int       `json:"maxUses"`
}

// UpdateDiscountCode replaces the terms of an existing code. The code string
// itself is immutable.
func UpdateDiscountCode(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /discount/update/:id"
		defer handlePanic(c, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid discount code ID")
			return
		}

		var req updateDiscountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.DiscountPercentage <= 0 || req.DiscountPercentage > 100 {
			respondWithError(c, http.StatusBadRequest, route, "discountPercentage must be between 0 and 100")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.DiscountCode
		err = db.Collection("discountcodes").FindOneAndUpdate(ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{
				"discountPercentage": req.DiscountPercentage,
				"expiryDate":         req.ExpiryDate,
				"minPurchase":        req.MinPurchase,
				"maxUses":            req.MaxUses,
			}},
			mongoFindOneAndUpdateAfter(),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Discount code not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Discount code updated successfully", "code": updated})
	}
}

type applyDiscountRequest struct {
	Code      string  `json:"code" binding:"required"`
	CartTotal float64 `json:"cartTotal" binding:"required"`
}

// ApplyDiscountCode validates a code at checkout and marks it used by the
// caller. The usedBy push is conditional on the user not being in the list
// yet, so a double submit cannot record the same user twice.
func ApplyDiscountCode(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /discount/apply"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		var req applyDiscountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var discount models.DiscountCode
		err := db.Collection("discountcodes").FindOne(ctx, bson.M{"code": strings.TrimSpace(req.Code)}).Decode(&discount)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusBadRequest, route, "Invalid discount code")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		if time.Now().After(discount.ExpiryDate) {
			respondWithError(c, http.StatusBadRequest, route, "Discount code has expired")
			return
		}
		for _, used := range discount.UsedBy {
			if used == userID {
				respondWithError(c, http.StatusBadRequest, route, "You have already used this discount code")
				return
			}
		}
		if req.CartTotal < discount.MinPurchase {
			respondWithError(c, http.StatusBadRequest, route, fmt.Sprintf("Minimum purchase should be %g", discount.MinPurchase))
			return
		}

		discountAmount := req.CartTotal * discount.DiscountPercentage / 100
		newTotal := req.CartTotal - discountAmount

		res, err := db.Collection("discountcodes").UpdateOne(ctx,
			bson.M{"_id": discount.ID, "usedBy": bson.M{"$ne": userID}},
			bson.M{"$push": bson.M{"usedBy": userID}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		if res.ModifiedCount == 0 {
			respondWithError(c, http.StatusBadRequest, route, "You have already used this discount code")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":        "Discount applied successfully",
			"discountAmount": discountAmount,
			"newTotal":       newTotal,
		})
	}
}

func DeleteDiscountCode(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /discount/delete/:id"
		defer handlePanic(c, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid discount code ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("discountcodes").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		if res.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "Discount code not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Discount code deleted successfully"})
	}
}

func GetDiscountCodes(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /discount/fetch"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("discountcodes").Find(ctx, bson.M{})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server Error")
			return
		}

		codes, err := decodeAll[models.DiscountCode](ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server Error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"allCode": codes})
	}
}
