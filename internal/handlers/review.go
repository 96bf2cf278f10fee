package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"cafefresco/internal/models"
)

type addReviewRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Review string `json:"review"`
}

// averageRating computes the arithmetic mean of all ratings, 0 when there
// are none.
func averageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	total := 0
	for _, r := range ratings {
		total += r
	}
	return float64(total) / float64(len(ratings))
}

// AddReview records one review per (user, product) and recomputes the
// product's stored average from all reviews of that product.
func AddReview(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /review/add/:productId"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		productID, err := objectIDParam(c, "productId")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid product ID")
			return
		}

		var req addReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.Rating < 1 || req.Rating > 5 {
			respondWithError(c, http.StatusBadRequest, route, "Rating must be between 1 and 5")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("products").CountDocuments(ctx, bson.M{"_id": productID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		if count == 0 {
			respondWithError(c, http.StatusNotFound, route, "Product not found")
			return
		}

		review := models.Review{
			User:    userID,
			Product: productID,
			Rating:  req.Rating,
			Review:  strings.TrimSpace(req.Review),
		}

		res, err := db.Collection("reviews").InsertOne(ctx, review)
		if err != nil {
			// The unique (user, product) index backs the one-review rule.
			if isDuplicateKeyError(err) {
				respondWithError(c, http.StatusBadRequest, route, "You have already reviewed this product")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		review.ID, _ = res.InsertedID.(primitive.ObjectID)

		cursor, err := db.Collection("reviews").Find(ctx, bson.M{"product": productID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		all, err := decodeAll[models.Review](ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		ratings := make([]int, 0, len(all))
		for _, r := range all {
			ratings = append(ratings, r.Rating)
		}

		_, err = db.Collection("products").UpdateByID(ctx, productID, bson.M{
			"$push": bson.M{"reviews": review.ID},
			"$set":  bson.M{"averageRating": averageRating(ratings)},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Review added successfully", "review": review})
	}
}

// reviewView joins the reviewer's name for display.
type reviewView struct {
	models.Review `bson:",inline"`
	UserDoc       *struct {
		Name string `bson:"name" json:"name"`
	} `bson:"userDoc,omitempty" json:"userDoc,omitempty"`
}

func GetProductReviews(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /review/all/:productId"
		defer handlePanic(c, route)

		productID, err := objectIDParam(c, "productId")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid product ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		pipeline := []bson.M{
			{"$match": bson.M{"product": productID}},
			{"$lookup": bson.M{
				"from":         "users",
				"localField":   "user",
				"foreignField": "_id",
				"as":           "userDoc",
			}},
			{"$unwind": bson.M{"path": "$userDoc", "preserveNullAndEmptyArrays": true}},
		}

		cursor, err := db.Collection("reviews").Aggregate(ctx, pipeline)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		reviews, err := decodeAll[reviewView](ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		c.JSON(http.StatusOK, reviews)
	}
}
