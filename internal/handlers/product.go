package handlers

import (
	"context"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"cafefresco/internal/models"
)

// productView is a product with its category and inventory joined in, the
// shape list endpoints return.
type productView struct {
	models.Product `bson:",inline"`
	CategoryDoc    *models.Category  `bson:"categoryDoc,omitempty" json:"categoryDoc,omitempty"`
	InventoryDoc   *models.Inventory `bson:"inventoryDoc,omitempty" json:"inventoryDoc,omitempty"`
}

func withDerivedViews(views []productView) []productView {
	for i := range views {
		views[i].Product = views[i].Product.WithDerived()
	}
	return views
}

func productLookupStages() []bson.M {
	return []bson.M{
		{"$lookup": bson.M{
			"from":         "categories",
			"localField":   "category",
			"foreignField": "_id",
			"as":           "categoryDoc",
		}},
		{"$unwind": bson.M{"path": "$categoryDoc", "preserveNullAndEmptyArrays": true}},
		{"$lookup": bson.M{
			"from":         "inventories",
			"localField":   "_id",
			"foreignField": "productId",
			"as":           "inventoryDoc",
		}},
		{"$unwind": bson.M{"path": "$inventoryDoc", "preserveNullAndEmptyArrays": true}},
	}
}

type productFormInput struct {
	Title       string
	Description string
	Price       float64
	PriceSet    bool
	Discount    float64
	DiscountSet bool
	Category    string
	Featured    bool
	FeaturedSet bool
	NewRelease  bool
	NewRelSet   bool
	Stock       int
	StockSet    bool
}

func parseProductForm(c *gin.Context) (productFormInput, error) {
	input := productFormInput{
		Title:       strings.TrimSpace(c.PostForm("title")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Category:    strings.TrimSpace(c.PostForm("category")),
	}

	if value, ok := c.GetPostForm("price"); ok {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return productFormInput{}, err
		}
		input.Price = parsed
		input.PriceSet = true
	}
	if value, ok := c.GetPostForm("discount"); ok {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return productFormInput{}, err
		}
		input.Discount = parsed
		input.DiscountSet = true
	}
	if value, ok := c.GetPostForm("featured"); ok {
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return productFormInput{}, err
		}
		input.Featured = parsed
		input.FeaturedSet = true
	}
	if value, ok := c.GetPostForm("newRelease"); ok {
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return productFormInput{}, err
		}
		input.NewRelease = parsed
		input.NewRelSet = true
	}
	if value, ok := c.GetPostForm("stock"); ok {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return productFormInput{}, err
		}
		input.Stock = parsed
		input.StockSet = true
	}

	return input, nil
}

func validateProductFields(price, discount float64) (string, bool) {
	if price < 0 {
		return "Price must not be negative", false
	}
	if discount < 0 || discount > 100 {
		return "Discount must be between 0 and 100", false
	}
	return "", true
}

func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /product/add"
		defer handlePanic(c, route)

		input, err := parseProductForm(c)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid form values")
			return
		}

		if input.Title == "" || input.Description == "" || !input.PriceSet {
			respondWithError(c, http.StatusBadRequest, route, "Title, description, and price are required")
			return
		}
		if msg, ok := validateProductFields(input.Price, input.Discount); !ok {
			respondWithError(c, http.StatusBadRequest, route, msg)
			return
		}

		categoryID, err := primitive.ObjectIDFromHex(input.Category)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid category ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("categories").CountDocuments(ctx, bson.M{"_id": categoryID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}
		if count == 0 {
			respondWithError(c, http.StatusNotFound, route, "Category not found")
			return
		}

		imagePath := ""
		if file, err := c.FormFile("image"); err == nil {
			imagePath, err = saveImage(file, "product")
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, err.Error())
				return
			}
		} else {
			log.Println("[PRODUCT] [INFO] no image uploaded")
		}

		product := models.Product{
			Title:       input.Title,
			Image:       imagePath,
			Description: input.Description,
			Price:       input.Price,
			Discount:    input.Discount,
			Category:    categoryID,
			Featured:    input.Featured,
			NewRelease:  input.NewRelease,
			CreatedAt:   time.Now(),
		}

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}
		product.ID, _ = res.InsertedID.(primitive.ObjectID)

		inventory := models.Inventory{
			ProductID:       product.ID,
			QuantityInStock: input.Stock,
			UpdatedAt:       time.Now(),
		}
		invRes, err := db.Collection("inventories").InsertOne(ctx, inventory)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}
		if invID, ok := invRes.InsertedID.(primitive.ObjectID); ok {
			product.Inventory = &invID
			_, _ = db.Collection("products").UpdateByID(ctx, product.ID, bson.M{"$set": bson.M{"inventory": invID}})
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Product added successfully",
			"product": product.WithDerived(),
		})
	}
}

func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /product/update/:id"
		defer handlePanic(c, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid product ID")
			return
		}

		input, err := parseProductForm(c)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid form values")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var existing models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&existing)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		updates := bson.M{}
		if input.Title != "" {
			updates["title"] = input.Title
		}
		if input.Description != "" {
			updates["description"] = input.Description
		}
		if input.PriceSet {
			updates["price"] = input.Price
		}
		if input.DiscountSet {
			updates["discount"] = input.Discount
		}
		if input.FeaturedSet {
			updates["featured"] = input.Featured
		}
		if input.NewRelSet {
			updates["newRelease"] = input.NewRelease
		}
		if input.Category != "" {
			categoryID, err := primitive.ObjectIDFromHex(input.Category)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "Invalid category ID")
				return
			}
			updates["category"] = categoryID
		}

		price := existing.Price
		discount := existing.Discount
		if input.PriceSet {
			price = input.Price
		}
		if input.DiscountSet {
			discount = input.Discount
		}
		if msg, ok := validateProductFields(price, discount); !ok {
			respondWithError(c, http.StatusBadRequest, route, msg)
			return
		}

		if file, err := c.FormFile("image"); err == nil {
			imagePath, err := saveImage(file, "product")
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, err.Error())
				return
			}
			if existing.Image != "" {
				if err := safeDeleteUpload(existing.Image); err != nil {
					log.Println("[PRODUCT] [WARN] old image cleanup failed:", err)
				}
			}
			updates["image"] = imagePath
		}

		// Stock rides along on product updates and lands in the
		// inventory record, created on the fly if missing.
		if input.StockSet {
			now := time.Now()
			var inv models.Inventory
			err := db.Collection("inventories").FindOneAndUpdate(ctx,
				bson.M{"productId": id},
				bson.M{"$set": bson.M{"quantityInStock": input.Stock, "updatedAt": now}},
				mongoFindOneAndUpdateAfter().SetUpsert(true),
			).Decode(&inv)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
				return
			}
			if existing.Inventory == nil {
				updates["inventory"] = inv.ID
			}
		}

		var updated models.Product
		err = db.Collection("products").FindOneAndUpdate(ctx,
			bson.M{"_id": id},
			bson.M{"$set": updates},
			mongoFindOneAndUpdateAfter(),
		).Decode(&updated)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Product updated successfully",
			"product": updated.WithDerived(),
		})
	}
}

func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /product/delete/:id"
		defer handlePanic(c, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid product ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		if _, err := db.Collection("products").DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}
		_, _ = db.Collection("inventories").DeleteOne(ctx, bson.M{"productId": id})

		if product.Image != "" {
			if err := safeDeleteUpload(product.Image); err != nil {
				log.Println("[PRODUCT] [WARN] image cleanup failed:", err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product and related inventory deleted successfully"})
	}
}

func GetAllProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /product/all"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("products").Aggregate(ctx, productLookupStages())
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		products, err := decodeAll[productView](ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		c.JSON(http.StatusOK, withDerivedViews(products))
	}
}

// sampledProducts returns a random sample of products matching the filter,
// with category joined in.
func sampledProducts(ctx context.Context, db *mongo.Database, filter bson.M, size int) ([]productView, error) {
	pipeline := []bson.M{
		{"$match": filter},
		{"$sample": bson.M{"size": size}},
	}
	pipeline = append(pipeline, productLookupStages()...)

	cursor, err := db.Collection("products").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	views, err := decodeAll[productView](ctx, cursor)
	if err != nil {
		return nil, err
	}
	return withDerivedViews(views), nil
}

func GetNewReleases(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /product/new-releases"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		products, err := sampledProducts(ctx, db, bson.M{"newRelease": true}, 8)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func GetFeaturedProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /product/featured"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		products, err := sampledProducts(ctx, db, bson.M{"featured": true}, 8)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func FetchProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /product/fetch"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination")
			return
		}

		filter := bson.M{}
		if category := strings.TrimSpace(c.Query("category")); category != "" {
			if categoryID, err := primitive.ObjectIDFromHex(category); err == nil {
				filter["category"] = categoryID
			}
		}
		if name := strings.TrimSpace(c.Query("name")); name != "" {
			filter["title"] = regexFilter(name)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("products").CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		pipeline := []bson.M{{"$match": filter}}
		switch c.Query("sort") {
		case "low":
			pipeline = append(pipeline, bson.M{"$sort": bson.M{"price": 1}})
		case "high":
			pipeline = append(pipeline, bson.M{"$sort": bson.M{"price": -1}})
		}
		pipeline = append(pipeline,
			bson.M{"$skip": (page - 1) * limit},
			bson.M{"$limit": limit},
		)
		pipeline = append(pipeline, productLookupStages()...)

		cursor, err := db.Collection("products").Aggregate(ctx, pipeline)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		products, err := decodeAll[productView](ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"total":      total,
			"page":       page,
			"totalPages": int64(math.Ceil(float64(total) / float64(limit))),
			"products":   withDerivedViews(products),
		})
	}
}

func GetProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /product/:id"
		defer handlePanic(c, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid product ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		pipeline := append([]bson.M{{"$match": bson.M{"_id": id}}}, productLookupStages()...)
		cursor, err := db.Collection("products").Aggregate(ctx, pipeline)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		products, err := decodeAll[productView](ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}
		if len(products) == 0 {
			respondWithError(c, http.StatusNotFound, route, "Product not found")
			return
		}

		c.JSON(http.StatusOK, withDerivedViews(products)[0])
	}
}

type updateInventoryRequest struct {
	QuantityInStock *int `json:"quantityInStock" binding:"required"`
}

// UpdateInventory restocks one product: sets the quantity and stamps the
// restock date.
func UpdateInventory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /product/inventory/update/:id"
		defer handlePanic(c, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid product ID")
			return
		}

		var req updateInventoryRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.QuantityInStock == nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid or missing stock quantity")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		var inventory models.Inventory
		err = db.Collection("inventories").FindOneAndUpdate(ctx,
			bson.M{"productId": id},
			bson.M{"$set": bson.M{
				"quantityInStock": *req.QuantityInStock,
				"restockDate":     now,
				"updatedAt":       now,
			}},
			mongoFindOneAndUpdateAfter(),
		).Decode(&inventory)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Product inventory not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error while updating stock")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Stock updated successfully", "inventory": inventory})
	}
}
