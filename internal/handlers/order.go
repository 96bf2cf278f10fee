package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"cafefresco/internal/models"
)

type createOrderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type createOrderRequest struct {
	Products    []createOrderItemRequest `json:"products" binding:"required"`
	TotalAmount float64                  `json:"totalAmount" binding:"required"`
	Payment     string                   `json:"payment"`
}

type outOfStockError struct {
	ProductID primitive.ObjectID
	Requested int
}

func (e outOfStockError) Error() string {
	return "not enough stock for product " + e.ProductID.Hex()
}

type productNotFoundError struct {
	ProductID primitive.ObjectID
}

func (e productNotFoundError) Error() string {
	return "product not found"
}

// CreateOrder places an order inside a transaction: every line's inventory is
// decremented with a stock-guarded conditional update, the order document is
// inserted, and the ordered lines are removed from the user's cart. Any
// failure rolls the whole thing back.
func CreateOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /order/create"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		userID, ok := userIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		order, err := buildOrderFromRequest(req)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		order.UserID = userID

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var user models.User
		err = db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
		if err == mongo.ErrNoDocuments || (err == nil && user.Cart == nil) {
			respondWithError(c, http.StatusNotFound, route, "User or cart not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Failed to create order")
			return
		}

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Failed to create order")
			return
		}
		defer session.EndSession(ctx)

		orderedIDs := make([]primitive.ObjectID, 0, len(order.Products))
		for _, item := range order.Products {
			orderedIDs = append(orderedIDs, item.ProductID)
		}

		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			for _, item := range order.Products {
				count, err := db.Collection("products").CountDocuments(sessCtx, bson.M{"_id": item.ProductID})
				if err != nil {
					return nil, err
				}
				if count == 0 {
					return nil, productNotFoundError{ProductID: item.ProductID}
				}

				// The stock guard in the filter makes the decrement safe
				// under concurrent orders.
				filter := bson.M{
					"productId":       item.ProductID,
					"quantityInStock": bson.M{"$gte": item.Quantity},
				}
				update := bson.M{
					"$inc": bson.M{"quantityInStock": -item.Quantity},
					"$set": bson.M{"updatedAt": time.Now()},
				}
				res, err := db.Collection("inventories").UpdateOne(sessCtx, filter, update)
				if err != nil {
					return nil, err
				}
				if res.MatchedCount == 0 {
					return nil, outOfStockError{ProductID: item.ProductID, Requested: item.Quantity}
				}
			}

			res, err := db.Collection("orders").InsertOne(sessCtx, order)
			if err != nil {
				return nil, err
			}
			if id, ok := res.InsertedID.(primitive.ObjectID); ok {
				order.ID = id
			}

			_, err = db.Collection("carts").UpdateByID(sessCtx, *user.Cart, bson.M{
				"$pull": bson.M{"items": bson.M{"productId": bson.M{"$in": orderedIDs}}},
			})
			if err != nil {
				return nil, err
			}
			return nil, nil
		})
		if err != nil {
			var stockErr outOfStockError
			if errors.As(err, &stockErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"message":   "Not enough stock",
					"productId": stockErr.ProductID.Hex(),
					"requested": stockErr.Requested,
				})
				return
			}
			var notFoundErr productNotFoundError
			if errors.As(err, &notFoundErr) {
				c.JSON(http.StatusNotFound, gin.H{
					"message":   "Product not found",
					"productId": notFoundErr.ProductID.Hex(),
				})
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "Failed to create order")
			return
		}

		insertNotification(ctx, db, user.Name, fmt.Sprintf("Order received from %s", user.Name), models.NotificationOrder)

		log.Println("[ORDER] [INFO] order created for user:", userID.Hex())
		c.JSON(http.StatusCreated, gin.H{"message": "Order created successfully", "order": order})
	}
}

func buildOrderFromRequest(req createOrderRequest) (models.Order, error) {
	if len(req.Products) == 0 {
		return models.Order{}, errors.New("at least one product is required")
	}
	if req.TotalAmount <= 0 {
		return models.Order{}, errors.New("total amount must be greater than zero")
	}

	paymentStatus := req.Payment
	if paymentStatus == "" {
		paymentStatus = models.PaymentStatusUnpaid
	}
	if !models.IsValidPaymentStatus(paymentStatus) {
		return models.Order{}, errors.New("invalid payment status")
	}

	items := make([]models.OrderItem, 0, len(req.Products))
	for _, item := range req.Products {
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return models.Order{}, errors.New("invalid productId")
		}
		if item.Quantity <= 0 {
			return models.Order{}, errors.New("quantity must be greater than zero")
		}
		items = append(items, models.OrderItem{ProductID: productID, Quantity: item.Quantity})
	}

	now := time.Now()
	return models.Order{
		Products:      items,
		TotalAmount:   req.TotalAmount,
		PaymentStatus: paymentStatus,
		OrderStatus:   models.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

type updateOrderStatusRequest struct {
	OrderID       string `json:"orderId" binding:"required"`
	PaymentStatus string `json:"paymentStatus"`
	OrderStatus   string `json:"orderStatus"`
}

func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /order/update-status"
		defer handlePanic(c, route)

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		orderID, err := primitive.ObjectIDFromHex(req.OrderID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid order ID")
			return
		}

		updates := bson.M{}
		if req.PaymentStatus != "" {
			if !models.IsValidPaymentStatus(req.PaymentStatus) {
				respondWithError(c, http.StatusBadRequest, route, "Invalid payment status value")
				return
			}
			updates["paymentStatus"] = req.PaymentStatus
		}
		if req.OrderStatus != "" {
			if !models.IsValidOrderStatus(req.OrderStatus) {
				respondWithError(c, http.StatusBadRequest, route, "Invalid order status value")
				return
			}
			updates["orderStatus"] = req.OrderStatus
		}
		if len(updates) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "Nothing to update")
			return
		}
		updates["updatedAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOneAndUpdate(ctx,
			bson.M{"_id": orderID},
			bson.M{"$set": updates},
			mongoFindOneAndUpdateAfter(),
		).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Failed to update order status")
			return
		}

		if _, adminName, ok := adminFromContext(c); ok {
			insertNotification(ctx, db, adminName, fmt.Sprintf("%s update order status", adminName), models.NotificationOrder)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "order": order})
	}
}

// orderView joins the buyer and product titles for the admin listing.
type orderView struct {
	models.Order `bson:",inline"`
	UserDoc      *struct {
		Name  string `bson:"name" json:"name"`
		Email string `bson:"email" json:"email"`
	} `bson:"userDoc,omitempty" json:"userDoc,omitempty"`
	ProductDocs []struct {
		ID    primitive.ObjectID `bson:"_id" json:"id"`
		Title string             `bson:"title" json:"title"`
		Price float64            `bson:"price" json:"price"`
	} `bson:"productDocs,omitempty" json:"productDocs,omitempty"`
}

func orderLookupStages() []bson.M {
	return []bson.M{
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "userDoc",
		}},
		{"$unwind": bson.M{"path": "$userDoc", "preserveNullAndEmptyArrays": true}},
		{"$lookup": bson.M{
			"from":         "products",
			"localField":   "products.productId",
			"foreignField": "_id",
			"as":           "productDocs",
		}},
	}
}

// orderPeriodFilter maps optional year/month query values onto a createdAt
// range. Month alone means that month of the current year.
func orderPeriodFilter(yearStr, monthStr string) (bson.M, error) {
	if yearStr == "" && monthStr == "" {
		return nil, nil
	}

	now := time.Now()
	year := now.Year()
	if yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil || y < 1 {
			return nil, errors.New("invalid year")
		}
		year = y
	}

	if monthStr != "" {
		m, err := strconv.Atoi(monthStr)
		if err != nil || m < 1 || m > 12 {
			return nil, errors.New("invalid month")
		}
		start := time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
		return bson.M{"$gte": start, "$lt": start.AddDate(0, 1, 0)}, nil
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return bson.M{"$gte": start, "$lt": start.AddDate(1, 0, 0)}, nil
}

func FetchOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /order/fetch"
		defer handlePanic(c, route)

		query := bson.M{}

		if search := c.Query("search"); search != "" {
			id, err := primitive.ObjectIDFromHex(search)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "Invalid order ID")
				return
			}
			query["_id"] = id
		}

		createdAt, err := orderPeriodFilter(c.Query("year"), c.Query("month"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		if createdAt != nil {
			query["createdAt"] = createdAt
		}

		if status := c.Query("status"); status != "" {
			if !models.IsValidOrderStatus(status) {
				respondWithError(c, http.StatusBadRequest, route, "Invalid order status")
				return
			}
			query["orderStatus"] = status
		}

		if paymentStatus := c.Query("paymentStatus"); paymentStatus != "" {
			if !models.IsValidPaymentStatus(paymentStatus) {
				respondWithError(c, http.StatusBadRequest, route, "Invalid payment status")
				return
			}
			query["paymentStatus"] = paymentStatus
		}

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		skip := (page - 1) * limit

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		pipeline := []bson.M{{"$match": query}}
		pipeline = append(pipeline, orderLookupStages()...)
		pipeline = append(pipeline,
			bson.M{"$sort": bson.M{"createdAt": -1}},
			bson.M{"$skip": skip},
			bson.M{"$limit": limit},
		)

		cursor, err := db.Collection("orders").Aggregate(ctx, pipeline)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Failed to fetch orders")
			return
		}

		orders, err := decodeAll[orderView](ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Failed to fetch orders")
			return
		}
		if len(orders) == 0 {
			respondWithError(c, http.StatusNotFound, route, "No orders found for this query")
			return
		}

		total, err := db.Collection("orders").CountDocuments(ctx, query)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Failed to fetch orders")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"message":     "Orders fetched successfully",
			"page":        page,
			"limit":       limit,
			"totalOrders": total,
			"totalPages":  int(math.Ceil(float64(total) / float64(limit))),
			"orders":      orders,
		})
	}
}

// OrderHistory lists all orders placed by one user, newest first.
func OrderHistory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /order/history/:userId"
		defer handlePanic(c, route)

		userID, err := objectIDParam(c, "userId")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid user ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		pipeline := []bson.M{{"$match": bson.M{"userId": userID}}}
		pipeline = append(pipeline, orderLookupStages()...)
		pipeline = append(pipeline, bson.M{"$sort": bson.M{"createdAt": -1}})

		cursor, err := db.Collection("orders").Aggregate(ctx, pipeline)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Failed to fetch order history")
			return
		}

		orders, err := decodeAll[orderView](ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Failed to fetch order history")
			return
		}

		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

// OrderStats aggregates revenue and order counts over completed orders.
// Without filters it covers the current month; all=true covers everything.
func OrderStats(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /order/stats"
		defer handlePanic(c, route)

		filter := bson.M{"orderStatus": models.OrderStatusCompleted}
		period := "All-time"

		if c.Query("all") == "" {
			createdAt, err := orderPeriodFilter(c.Query("year"), c.Query("month"))
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, err.Error())
				return
			}
			if createdAt == nil {
				now := time.Now()
				start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
				createdAt = bson.M{"$gte": start, "$lt": start.AddDate(0, 1, 0)}
			}
			filter["createdAt"] = createdAt
			period = "Filtered"
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		pipeline := []bson.M{
			{"$match": filter},
			{"$group": bson.M{
				"_id":          nil,
				"totalRevenue": bson.M{"$sum": "$totalAmount"},
				"totalOrders":  bson.M{"$sum": 1},
			}},
		}

		cursor, err := db.Collection("orders").Aggregate(ctx, pipeline)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Error fetching revenue stats")
			return
		}

		type statsRow struct {
			TotalRevenue float64 `bson:"totalRevenue"`
			TotalOrders  int     `bson:"totalOrders"`
		}
		rows, err := decodeAll[statsRow](ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Error fetching revenue stats")
			return
		}

		var stats statsRow
		if len(rows) > 0 {
			stats = rows[0]
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Revenue stats fetched successfully",
			"totalRevenue":  stats.TotalRevenue,
			"totalOrders":   stats.TotalOrders,
			"filterApplied": period,
		})
	}
}

type setTransactionRequest struct {
	PaymentID string `json:"paymentId" binding:"required"`
}

// SetTransaction links a payment document to an existing order.
func SetTransaction(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /order/set-transaction/:orderId"
		defer handlePanic(c, route)

		orderID, err := objectIDParam(c, "orderId")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid order ID")
			return
		}

		var req setTransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Payment ID is required")
			return
		}
		paymentID, err := primitive.ObjectIDFromHex(req.PaymentID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid payment ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOneAndUpdate(ctx,
			bson.M{"_id": orderID},
			bson.M{"$set": bson.M{"paymentId": paymentID, "updatedAt": time.Now()}},
			mongoFindOneAndUpdateAfter(),
		).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Payment ID updated successfully", "order": order})
	}
}
