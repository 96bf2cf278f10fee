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

type employeeRequest struct {
	Name       string    `json:"name" binding:"required"`
	CNIC       string    `json:"cnic" binding:"required"`
	Email      string    `json:"email" binding:"required,email"`
	Phone      string    `json:"phone"`
	Position   string    `json:"position"`
	Salary     float64   `json:"salary"`
	HireDate   time.Time `json:"hireDate"`
	Department string    `json:"department" binding:"required"`
	Address    string    `json:"address"`
}

// departmentExists verifies the referenced department record.
func departmentExists(ctx context.Context, db *mongo.Database, id primitive.ObjectID) (bool, error) {
	count, err := db.Collection("departments").CountDocuments(ctx, bson.M{"_id": id})
	return count > 0, err
}

func RegisterEmployee(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /employee/register"
		defer handlePanic(c, route)

		var req employeeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Missing required fields: CNIC or Department.")
			return
		}

		departmentID, err := primitive.ObjectIDFromHex(req.Department)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid Department ID.")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		exists, err := departmentExists(ctx, db, departmentID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error. Please try again later.")
			return
		}
		if !exists {
			respondWithError(c, http.StatusNotFound, route, "Department not found.")
			return
		}

		hireDate := req.HireDate
		if hireDate.IsZero() {
			hireDate = time.Now()
		}

		now := time.Now()
		employee := models.Employee{
			Name:       strings.TrimSpace(req.Name),
			CNIC:       strings.TrimSpace(req.CNIC),
			Email:      strings.ToLower(strings.TrimSpace(req.Email)),
			Phone:      req.Phone,
			Position:   req.Position,
			Salary:     req.Salary,
			HireDate:   hireDate,
			Department: &departmentID,
			Address:    req.Address,
			IsActive:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		res, err := db.Collection("employees").InsertOne(ctx, employee)
		if err != nil {
			if isDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, route, "CNIC already registered.")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "Server error. Please try again later.")
			return
		}
		employee.ID, _ = res.InsertedID.(primitive.ObjectID)

		c.JSON(http.StatusCreated, gin.H{"message": "Employee registered successfully", "employee": employee})
	}
}

func UpdateEmployee(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /employee/update/:id"
		defer handlePanic(c, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid employee ID.")
			return
		}

		var req employeeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid data. CNIC is required.")
			return
		}

		departmentID, err := primitive.ObjectIDFromHex(req.Department)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid department ID.")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		exists, err := departmentExists(ctx, db, departmentID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error. Please try again later.")
			return
		}
		if !exists {
			respondWithError(c, http.StatusNotFound, route, "Department not found.")
			return
		}

		cnic := strings.TrimSpace(req.CNIC)
		count, err := db.Collection("employees").CountDocuments(ctx, bson.M{
			"cnic": cnic,
			"_id":  bson.M{"$ne": id},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error. Please try again later.")
			return
		}
		if count > 0 {
			respondWithError(c, http.StatusConflict, route, "CNIC already in use by another employee.")
			return
		}

		updates := bson.M{
			"name":       strings.TrimSpace(req.Name),
			"cnic":       cnic,
			"email":      strings.ToLower(strings.TrimSpace(req.Email)),
			"phone":      req.Phone,
			"position":   req.Position,
			"salary":     req.Salary,
			"department": departmentID,
			"address":    req.Address,
			"updatedAt":  time.Now(),
		}
		if !req.HireDate.IsZero() {
			updates["hireDate"] = req.HireDate
		}

		var updated models.Employee
		err = db.Collection("employees").FindOneAndUpdate(ctx,
			bson.M{"_id": id},
			bson.M{"$set": updates},
			mongoFindOneAndUpdateAfter(),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Employee not found.")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error. Please try again later.")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Employee data successfully updated", "employee": updated})
	}
}

func DeleteEmployee(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /employee/delete/:id"
		defer handlePanic(c, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid employee ID.")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("employees").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error. Please try again later.")
			return
		}
		if res.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "Employee does not exist")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
	}
}

// employeeView joins the department name for the listing.
type employeeView struct {
	models.Employee `bson:",inline"`
	DepartmentDoc   *struct {
		Name string `bson:"name" json:"name"`
	} `bson:"departmentDoc,omitempty" json:"departmentDoc,omitempty"`
}

func FetchEmployees(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /employee/fetch"
		defer handlePanic(c, route)

		query := bson.M{}
		if cnic := c.Query("cnic"); cnic != "" {
			query["cnic"] = regexFilter(cnic)
		}
		if department := c.Query("department"); department != "" {
			departmentID, err := primitive.ObjectIDFromHex(department)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "Invalid department ID.")
				return
			}
			query["department"] = departmentID
		}

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		skip := (page - 1) * limit

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("employees").CountDocuments(ctx, query)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error. Please try again later.")
			return
		}

		pipeline := []bson.M{
			{"$match": query},
			{"$lookup": bson.M{
				"from":         "departments",
				"localField":   "department",
				"foreignField": "_id",
				"as":           "departmentDoc",
			}},
			{"$unwind": bson.M{"path": "$departmentDoc", "preserveNullAndEmptyArrays": true}},
			{"$skip": skip},
			{"$limit": limit},
		}

		cursor, err := db.Collection("employees").Aggregate(ctx, pipeline)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error. Please try again later.")
			return
		}

		employees, err := decodeAll[employeeView](ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error. Please try again later.")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"total":     total,
			"page":      page,
			"limit":     limit,
			"employees": employees,
		})
	}
}
