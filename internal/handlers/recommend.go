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
	"go.mongodb.org/mongo-driver/mongo/options"

	"cafefresco/internal/models"
)

const recommendationSize = 6

// lastN returns the trailing n elements of values, fewer when the slice is
// shorter.
func lastN(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

// SearchProducts finds products by title and, when the caller identifies
// themselves, records the search term in their interest profile.
func SearchProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user-Interest/search"
		defer handlePanic(c, route)

		query := strings.TrimSpace(c.Query("query"))
		if query == "" {
			respondWithError(c, http.StatusBadRequest, route, "query is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if userIDStr := c.Query("userId"); userIDStr != "" {
			if userID, err := primitive.ObjectIDFromHex(userIDStr); err == nil {
				_, err := db.Collection("userinterests").UpdateOne(ctx,
					bson.M{"userId": userID},
					bson.M{"$push": bson.M{"searches": query}},
					options.Update().SetUpsert(true),
				)
				if err != nil {
					// Interest logging never blocks the search itself.
					respondWithError(c, http.StatusInternalServerError, route, "Error in search")
					return
				}
			}
		}

		pipeline := append([]bson.M{{"$match": bson.M{"title": regexFilter(query)}}}, productLookupStages()...)
		cursor, err := db.Collection("products").Aggregate(ctx, pipeline)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Error in search")
			return
		}

		products, err := decodeAll[productView](ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Error in search")
			return
		}

		c.JSON(http.StatusOK, withDerivedViews(products))
	}
}

type viewProductRequest struct {
	UserID    string `json:"userId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
}

// ViewProduct records a product view in the user's interest profile. The
// viewed set is kept duplicate free.
func ViewProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user-Interest/view-product"
		defer handlePanic(c, route)

		var req viewProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		userID, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid user ID")
			return
		}
		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid product ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		_, err = db.Collection("userinterests").UpdateOne(ctx,
			bson.M{"userId": userID},
			bson.M{"$addToSet": bson.M{"viewedProducts": productID}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Error logging product view")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product viewed logged successfully"})
	}
}

// Recommend builds up to six suggestions: first a random sample of products
// matching the user's last three searches, then a backfill sampled from the
// categories of products they have viewed.
func Recommend(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user-Interest/recommend/:userId"
		defer handlePanic(c, route)

		userID, err := objectIDParam(c, "userId")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid user ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var history models.UserInterest
		err = db.Collection("userinterests").FindOne(ctx, bson.M{"userId": userID}).Decode(&history)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "No user history found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Error fetching recommendations")
			return
		}

		recommendations := []productView{}
		seen := map[primitive.ObjectID]bool{}

		recentSearches := lastN(history.Searches, 3)
		if len(recentSearches) > 0 {
			patterns := make(bson.A, 0, len(recentSearches))
			for _, term := range recentSearches {
				patterns = append(patterns, primitive.Regex{Pattern: term, Options: "i"})
			}

			sampled, err := sampledProducts(ctx, db, bson.M{"title": bson.M{"$in": patterns}}, recommendationSize)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "Error fetching recommendations")
				return
			}
			for _, p := range sampled {
				if !seen[p.ID] {
					seen[p.ID] = true
					recommendations = append(recommendations, p)
				}
			}
		}

		if len(recommendations) < recommendationSize && len(history.ViewedProducts) > 0 {
			cursor, err := db.Collection("products").Find(ctx,
				bson.M{"_id": bson.M{"$in": history.ViewedProducts}},
			)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "Error fetching recommendations")
				return
			}
			viewed, err := decodeAll[models.Product](ctx, cursor)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "Error fetching recommendations")
				return
			}

			categories := make([]primitive.ObjectID, 0, len(viewed))
			for _, p := range viewed {
				if !p.Category.IsZero() {
					categories = append(categories, p.Category)
				}
			}

			if len(categories) > 0 {
				sampled, err := sampledProducts(ctx, db,
					bson.M{"category": bson.M{"$in": categories}},
					recommendationSize-len(recommendations),
				)
				if err != nil {
					respondWithError(c, http.StatusInternalServerError, route, "Error fetching recommendations")
					return
				}
				for _, p := range sampled {
					if !seen[p.ID] {
						seen[p.ID] = true
						recommendations = append(recommendations, p)
					}
				}
			}
		}

		c.JSON(http.StatusOK, recommendations)
	}
}
