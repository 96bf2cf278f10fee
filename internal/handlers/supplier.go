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

type supplierRequest struct {
	Name        string   `json:"name" binding:"required"`
	Phone       string   `json:"phone" binding:"required"`
	Email       string   `json:"email" binding:"required,email"`
	Address     string   `json:"address"`
	Supplies    []string `json:"supplies" binding:"required"`
	Distributor string   `json:"distributor"`
	IsActive    *bool    `json:"isActive"`
}

func (r supplierRequest) toModel() (models.Supplier, error) {
	for _, s := range r.Supplies {
		if !models.IsValidSupplyCategory(s) {
			return models.Supplier{}, errInvalidSupplyCategory
		}
	}

	supplier := models.Supplier{
		Name:     strings.TrimSpace(r.Name),
		Phone:    strings.TrimSpace(r.Phone),
		Email:    strings.ToLower(strings.TrimSpace(r.Email)),
		Address:  strings.TrimSpace(r.Address),
		Supplies: r.Supplies,
		IsActive: true,
	}
	if r.IsActive != nil {
		supplier.IsActive = *r.IsActive
	}
	if r.Distributor != "" {
		id, err := primitive.ObjectIDFromHex(r.Distributor)
		if err != nil {
			return models.Supplier{}, errInvalidDistributorID
		}
		supplier.Distributor = &id
	}
	return supplier, nil
}

var (
	errInvalidSupplyCategory = supplierError("invalid supply category")
	errInvalidDistributorID  = supplierError("invalid distributor ID")
)

type supplierError string

func (e supplierError) Error() string { return string(e) }

func CreateSupplier(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /supplier/create"
		defer handlePanic(c, route)

		var req supplierRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		supplier, err := req.toModel()
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		now := time.Now()
		supplier.CreatedAt = now
		supplier.UpdatedAt = now

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("suppliers").InsertOne(ctx, supplier)
		if err != nil {
			if isDuplicateKeyError(err) {
				respondWithError(c, http.StatusBadRequest, route, "Supplier email already registered")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		supplier.ID, _ = res.InsertedID.(primitive.ObjectID)

		c.JSON(http.StatusCreated, supplier)
	}
}

func UpdateSupplier(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /supplier/update/:id"
		defer handlePanic(c, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid supplier ID")
			return
		}

		var req supplierRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		supplier, err := req.toModel()
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		updates := bson.M{
			"name":      supplier.Name,
			"phone":     supplier.Phone,
			"email":     supplier.Email,
			"address":   supplier.Address,
			"supplies":  supplier.Supplies,
			"isActive":  supplier.IsActive,
			"updatedAt": time.Now(),
		}
		if supplier.Distributor != nil {
			updates["distributor"] = *supplier.Distributor
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Supplier
		err = db.Collection("suppliers").FindOneAndUpdate(ctx,
			bson.M{"_id": id},
			bson.M{"$set": updates},
			mongoFindOneAndUpdateAfter(),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Supplier not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

func DeleteSupplier(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /supplier/delete/:id"
		defer handlePanic(c, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid supplier ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("suppliers").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		if res.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "Supplier not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Supplier deleted successfully"})
	}
}

// supplierView joins the linked distributor for the listing.
type supplierView struct {
	models.Supplier `bson:",inline"`
	DistributorDoc  *models.Distributor `bson:"distributorDoc,omitempty" json:"distributorDoc,omitempty"`
}

func FetchSuppliers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /supplier/"
		defer handlePanic(c, route)

		filter := bson.M{}
		if distributor := c.Query("distributor"); distributor != "" {
			id, err := primitive.ObjectIDFromHex(distributor)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "Invalid distributor ID")
				return
			}
			filter["distributor"] = id
		}
		if supplies := c.Query("supplies"); supplies != "" {
			filter["supplies"] = supplies
		}
		if isActive := c.Query("isActive"); isActive != "" {
			filter["isActive"] = isActive == "true"
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		pipeline := []bson.M{
			{"$match": filter},
			{"$lookup": bson.M{
				"from":         "distributors",
				"localField":   "distributor",
				"foreignField": "_id",
				"as":           "distributorDoc",
			}},
			{"$unwind": bson.M{"path": "$distributorDoc", "preserveNullAndEmptyArrays": true}},
		}

		cursor, err := db.Collection("suppliers").Aggregate(ctx, pipeline)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		suppliers, err := decodeAll[supplierView](ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
	}
}
