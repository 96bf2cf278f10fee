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

type distributorRequest struct {
	Name             string   `json:"name" binding:"required"`
	ContactPerson    string   `json:"contactPerson" binding:"required"`
	Phone            string   `json:"phone" binding:"required"`
	Email            string   `json:"email" binding:"required,email"`
	Address          string   `json:"address"`
	SupplyCategories []string `json:"supplyCategories" binding:"required"`
	IsActive         *bool    `json:"isActive"`
}

func (r distributorRequest) toModel() (models.Distributor, error) {
	for _, category := range r.SupplyCategories {
		if !models.IsValidSupplyCategory(category) {
			return models.Distributor{}, errInvalidSupplyCategory
		}
	}

	distributor := models.Distributor{
		Name:             strings.TrimSpace(r.Name),
		ContactPerson:    strings.TrimSpace(r.ContactPerson),
		Phone:            strings.TrimSpace(r.Phone),
		Email:            strings.ToLower(strings.TrimSpace(r.Email)),
		Address:          strings.TrimSpace(r.Address),
		SupplyCategories: r.SupplyCategories,
		IsActive:         true,
	}
	if r.IsActive != nil {
		distributor.IsActive = *r.IsActive
	}
	return distributor, nil
}

func CreateDistributor(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /distributer/create"
		defer handlePanic(c, route)

		var req distributorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		distributor, err := req.toModel()
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		now := time.Now()
		distributor.CreatedAt = now
		distributor.UpdatedAt = now

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("distributors").InsertOne(ctx, distributor)
		if err != nil {
			if isDuplicateKeyError(err) {
				respondWithError(c, http.StatusBadRequest, route, "Distributor email already registered")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		distributor.ID, _ = res.InsertedID.(primitive.ObjectID)

		c.JSON(http.StatusCreated, distributor)
	}
}

func UpdateDistributor(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /distributer/update/:id"
		defer handlePanic(c, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid distributor ID")
			return
		}

		var req distributorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		distributor, err := req.toModel()
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Distributor
		err = db.Collection("distributors").FindOneAndUpdate(ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{
				"name":             distributor.Name,
				"contactPerson":    distributor.ContactPerson,
				"phone":            distributor.Phone,
				"email":            distributor.Email,
				"address":          distributor.Address,
				"supplyCategories": distributor.SupplyCategories,
				"isActive":         distributor.IsActive,
				"updatedAt":        time.Now(),
			}},
			mongoFindOneAndUpdateAfter(),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Distributor not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

func DeleteDistributor(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /distributer/delete/:id"
		defer handlePanic(c, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid distributor ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("distributors").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		if res.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "Distributor not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Distributor deleted successfully"})
	}
}

func FetchDistributors(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /distributer/"
		defer handlePanic(c, route)

		filter := bson.M{}
		if category := c.Query("supplyCategory"); category != "" {
			filter["supplyCategories"] = bson.M{"$in": []string{category}}
		}
		if name := c.Query("name"); name != "" {
			filter["name"] = regexFilter(name)
		}
		if isActive := c.Query("isActive"); isActive != "" {
			filter["isActive"] = isActive == "true"
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("distributors").Find(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		distributors, err := decodeAll[models.Distributor](ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"distributors": distributors})
	}
}
