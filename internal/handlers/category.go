package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"cafefresco/internal/models"
)

func CreateCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /category/add"
		defer handlePanic(c, route)

		title := strings.TrimSpace(c.PostForm("title"))
		if title == "" {
			respondWithError(c, http.StatusBadRequest, route, "Title is required")
			return
		}
		description := strings.TrimSpace(c.PostForm("description"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("categories").CountDocuments(ctx, bson.M{"title": title})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}
		if count > 0 {
			respondWithError(c, http.StatusBadRequest, route, "Category already exists")
			return
		}

		imagePath := ""
		if file, err := c.FormFile("image"); err == nil {
			imagePath, err = saveImage(file, "category")
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, err.Error())
				return
			}
		} else {
			log.Println("[CATEGORY] [WARN] no category image uploaded")
		}

		category := models.Category{
			Title:       title,
			Image:       imagePath,
			Description: description,
		}

		res, err := db.Collection("categories").InsertOne(ctx, category)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}
		category.ID, _ = res.InsertedID.(primitive.ObjectID)

		c.JSON(http.StatusCreated, gin.H{
			"message":  "Category created successfully",
			"category": category,
		})
	}
}

func UpdateCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /category/update/:id"
		defer handlePanic(c, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid category ID")
			return
		}

		title := strings.TrimSpace(c.PostForm("title"))
		description := strings.TrimSpace(c.PostForm("description"))
		file, fileErr := c.FormFile("image")

		if title == "" && description == "" && fileErr != nil {
			respondWithError(c, http.StatusBadRequest, route, "At least one field is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var existing models.Category
		err = db.Collection("categories").FindOne(ctx, bson.M{"_id": id}).Decode(&existing)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Category not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		updates := bson.M{}
		if title != "" {
			updates["title"] = title
		}
		if description != "" {
			updates["description"] = description
		}

		if fileErr == nil {
			imagePath, err := saveImage(file, "category")
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, err.Error())
				return
			}
			if existing.Image != "" {
				if err := safeDeleteUpload(existing.Image); err != nil {
					log.Println("[CATEGORY] [WARN] old image cleanup failed:", err)
				}
			}
			updates["image"] = imagePath
		}

		var updated models.Category
		err = db.Collection("categories").FindOneAndUpdate(ctx,
			bson.M{"_id": id},
			bson.M{"$set": updates},
			mongoFindOneAndUpdateAfter(),
		).Decode(&updated)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "Category updated successfully",
			"category": updated,
		})
	}
}

func DeleteCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /category/delete/:id"
		defer handlePanic(c, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid category ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var category models.Category
		err = db.Collection("categories").FindOne(ctx, bson.M{"_id": id}).Decode(&category)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Category not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		if _, err := db.Collection("categories").DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		if category.Image != "" {
			if err := safeDeleteUpload(category.Image); err != nil {
				log.Println("[CATEGORY] [WARN] image cleanup failed:", err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "Category and associated image deleted successfully"})
	}
}

func GetCategories(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /category/fetch"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("categories").Find(ctx, bson.M{})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		categories, err := decodeAll[models.Category](ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":    "Categories fetched successfully",
			"categories": categories,
		})
	}
}

func GetCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /category/:id"
		defer handlePanic(c, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid category ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var category models.Category
		err = db.Collection("categories").FindOne(ctx, bson.M{"_id": id}).Decode(&category)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "category not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		c.JSON(http.StatusOK, category)
	}
}
