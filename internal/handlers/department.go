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

type departmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func AddDepartment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /department/add"
		defer handlePanic(c, route)

		var req departmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Department name is required.")
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			respondWithError(c, http.StatusBadRequest, route, "Department name is required.")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("departments").CountDocuments(ctx, bson.M{"name": name})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error. Please try again later.")
			return
		}
		if count > 0 {
			respondWithError(c, http.StatusConflict, route, "Department already exists.")
			return
		}

		department := models.Department{
			Name:        name,
			Description: strings.TrimSpace(req.Description),
			CreatedAt:   time.Now(),
		}

		res, err := db.Collection("departments").InsertOne(ctx, department)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error. Please try again later.")
			return
		}
		department.ID, _ = res.InsertedID.(primitive.ObjectID)

		c.JSON(http.StatusCreated, gin.H{"message": "Successfully added department", "department": department})
	}
}

func UpdateDepartment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /department/update/:id"
		defer handlePanic(c, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid department ID.")
			return
		}

		var req departmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Department name is required.")
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			respondWithError(c, http.StatusBadRequest, route, "Department name is required.")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("departments").CountDocuments(ctx, bson.M{
			"name": name,
			"_id":  bson.M{"$ne": id},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error. Please try again later.")
			return
		}
		if count > 0 {
			respondWithError(c, http.StatusConflict, route, "Another department with this name already exists.")
			return
		}

		updates := bson.M{"name": name}
		if desc := strings.TrimSpace(req.Description); desc != "" {
			updates["description"] = desc
		}

		var updated models.Department
		err = db.Collection("departments").FindOneAndUpdate(ctx,
			bson.M{"_id": id},
			bson.M{"$set": updates},
			mongoFindOneAndUpdateAfter(),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Department not found.")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error. Please try again later.")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Department updated successfully", "department": updated})
	}
}

func DeleteDepartment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /department/delete/:id"
		defer handlePanic(c, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid department ID.")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("departments").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error. Please try again later.")
			return
		}
		if res.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "Department not found.")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Department deleted successfully."})
	}
}

func FetchDepartments(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /department/fetch"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("departments").Find(ctx, bson.M{},
			options.Find().SetSort(bson.M{"createdAt": -1}),
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error. Please try again later.")
			return
		}

		departments, err := decodeAll[models.Department](ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error. Please try again later.")
			return
		}

		c.JSON(http.StatusOK, gin.H{"departments": departments})
	}
}
