package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"cafefresco/internal/models"
)

func emptyWishlist(userID primitive.ObjectID) models.Wishlist {
	return models.Wishlist{UserID: userID, Items: []primitive.ObjectID{}}
}

// loadOrCreateWishlist mirrors loadOrCreateCart for the wishlist document.
func loadOrCreateWishlist(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) (*models.Wishlist, error) {
	var user models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return nil, err
	}

	if user.Wishlist != nil {
		var wl models.Wishlist
		err = db.Collection("wishlists").FindOne(ctx, bson.M{"_id": *user.Wishlist}).Decode(&wl)
		if err == nil {
			return &wl, nil
		}
		if err != mongo.ErrNoDocuments {
			return nil, err
		}
	}

	wl := emptyWishlist(userID)
	res, err := db.Collection("wishlists").InsertOne(ctx, wl)
	if err != nil {
		return nil, err
	}
	wl.ID, _ = res.InsertedID.(primitive.ObjectID)

	_, err = db.Collection("users").UpdateByID(ctx, userID, bson.M{"$set": bson.M{"wishlist": wl.ID}})
	if err != nil {
		return nil, err
	}
	return &wl, nil
}

func AddToWishlist(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /wishlist/add/:productId"
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

		wl, err := loadOrCreateWishlist(ctx, db, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		// $addToSet keeps the wishlist duplicate free.
		_, err = db.Collection("wishlists").UpdateByID(ctx, wl.ID, bson.M{
			"$addToSet": bson.M{"items": productID},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product added to wishlist"})
	}
}

func GetWishlist(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /wishlist/all"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		wl, err := loadOrCreateWishlist(ctx, db, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		products := []productView{}
		if len(wl.Items) > 0 {
			pipeline := append([]bson.M{{"$match": bson.M{"_id": bson.M{"$in": wl.Items}}}}, productLookupStages()...)
			cursor, err := db.Collection("products").Aggregate(ctx, pipeline)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "Server error")
				return
			}
			products, err = decodeAll[productView](ctx, cursor)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "Server error")
				return
			}
			products = withDerivedViews(products)
		}

		c.JSON(http.StatusOK, gin.H{"wishlistId": wl.ID, "items": products})
	}
}

func RemoveFromWishlist(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /wishlist/remove/:productId"
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

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		wl, err := loadOrCreateWishlist(ctx, db, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		res, err := db.Collection("wishlists").UpdateByID(ctx, wl.ID, bson.M{
			"$pull": bson.M{"items": productID},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		if res.ModifiedCount == 0 {
			respondWithError(c, http.StatusBadRequest, route, "Product not found in wishlist")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product removed from wishlist"})
	}
}
