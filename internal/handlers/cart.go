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

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// emptyCart builds the document inserted on a user's first cart touch. Items
// starts as an empty array so list pushes never hit a null field.
func emptyCart(userID primitive.ObjectID) models.Cart {
	return models.Cart{UserID: userID, Items: []models.CartItem{}}
}

// loadOrCreateCart returns the user's cart, lazily creating an empty one and
// linking it from the user document on first use.
func loadOrCreateCart(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) (*models.Cart, error) {
	var user models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return nil, err
	}

	if user.Cart != nil {
		var cart models.Cart
		err = db.Collection("carts").FindOne(ctx, bson.M{"_id": *user.Cart}).Decode(&cart)
		if err == nil {
			return &cart, nil
		}
		if err != mongo.ErrNoDocuments {
			return nil, err
		}
		// Dangling reference, fall through and recreate.
	}

	cart := emptyCart(userID)
	res, err := db.Collection("carts").InsertOne(ctx, cart)
	if err != nil {
		return nil, err
	}
	cart.ID, _ = res.InsertedID.(primitive.ObjectID)

	_, err = db.Collection("users").UpdateByID(ctx, userID, bson.M{"$set": bson.M{"cart": cart.ID}})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart merges the quantity into an existing line or appends a new one.
func AddToCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/add"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		var req cartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid product ID")
			return
		}
		quantity := req.Quantity
		if quantity <= 0 {
			quantity = 1
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

		cart, err := loadOrCreateCart(ctx, db, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		merged := false
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cart.Items[i].Quantity += quantity
				merged = true
				break
			}
		}
		if !merged {
			cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: quantity})
		}

		_, err = db.Collection("carts").UpdateByID(ctx, cart.ID, bson.M{"$set": bson.M{"items": cart.Items}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product added to cart", "cart": cart})
	}
}

// cartLineView is one cart line with its product joined in.
type cartLineView struct {
	ProductID primitive.ObjectID `json:"productId"`
	Quantity  int                `json:"quantity"`
	Product   *productView       `json:"product,omitempty"`
}

// GetCart returns the cart with each line's product populated. Lines whose
// product has been deleted are returned without a product document.
func GetCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart/all"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadOrCreateCart(ctx, db, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		ids := make([]primitive.ObjectID, 0, len(cart.Items))
		for _, item := range cart.Items {
			ids = append(ids, item.ProductID)
		}

		byID := map[primitive.ObjectID]productView{}
		if len(ids) > 0 {
			pipeline := append([]bson.M{{"$match": bson.M{"_id": bson.M{"$in": ids}}}}, productLookupStages()...)
			cursor, err := db.Collection("products").Aggregate(ctx, pipeline)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "Server error")
				return
			}
			products, err := decodeAll[productView](ctx, cursor)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "Server error")
				return
			}
			for _, p := range withDerivedViews(products) {
				byID[p.ID] = p
			}
		}

		lines := make([]cartLineView, 0, len(cart.Items))
		for _, item := range cart.Items {
			line := cartLineView{ProductID: item.ProductID, Quantity: item.Quantity}
			if p, ok := byID[item.ProductID]; ok {
				pc := p
				line.Product = &pc
			}
			lines = append(lines, line)
		}

		c.JSON(http.StatusOK, gin.H{"cartId": cart.ID, "items": lines})
	}
}

func RemoveFromCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/remove/:productId"
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

		cart, err := loadOrCreateCart(ctx, db, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		res, err := db.Collection("carts").UpdateByID(ctx, cart.ID, bson.M{
			"$pull": bson.M{"items": bson.M{"productId": productID}},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		if res.ModifiedCount == 0 {
			respondWithError(c, http.StatusBadRequest, route, "Product not found in cart")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product removed from cart"})
	}
}

// UpdateCartQuantity sets the quantity of an existing line. Quantity zero or
// below removes the line.
func UpdateCartQuantity(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /cart/update"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		var req cartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid product ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadOrCreateCart(ctx, db, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		if req.Quantity <= 0 {
			res, err := db.Collection("carts").UpdateByID(ctx, cart.ID, bson.M{
				"$pull": bson.M{"items": bson.M{"productId": productID}},
			})
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "Server error")
				return
			}
			if res.ModifiedCount == 0 {
				respondWithError(c, http.StatusBadRequest, route, "Product not found in cart")
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Product removed from cart"})
			return
		}

		res, err := db.Collection("carts").UpdateOne(ctx,
			bson.M{"_id": cart.ID, "items.productId": productID},
			bson.M{"$set": bson.M{"items.$.quantity": req.Quantity}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusBadRequest, route, "Product not found in cart")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Cart updated successfully"})
	}
}
