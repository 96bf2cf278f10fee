package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"cafefresco/internal/config"
	"cafefresco/internal/models"
)

type RegisterAdminRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func RegisterAdmin(db *mongo.Database, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/register"
		defer handlePanic(c, route)

		var req RegisterAdminRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if err := validate.Var(email, "required,email"); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid email format")
			return
		}
		if len(req.Password) < 5 {
			respondWithError(c, http.StatusBadRequest, route, "Password must be at least 5 characters long")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		admin := models.Admin{
			Name:         strings.TrimSpace(req.Name),
			Email:        email,
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
			CreatedAt:    time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("admins").InsertOne(ctx, admin)
		if err != nil {
			if isDuplicateKeyError(err) {
				respondWithError(c, http.StatusBadRequest, route, "Email already exists")
				return
			}
			log.Println("[AUTH] [ERROR] admin insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		adminID, _ := res.InsertedID.(primitive.ObjectID)

		token, err := issueAdminToken(adminID, admin.Name, admin.Role, cfg.JWTSecret, cfg.TokenTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}
		setSessionCookie(c, adminCookie, token, cfg.TokenTTL, cfg)

		c.JSON(http.StatusCreated, gin.H{
			"message": "Admin registered successfully!",
			"admin":   gin.H{"name": admin.Name, "role": admin.Role, "email": admin.Email},
			"token":   token,
		})
	}
}

func LoginAdmin(db *mongo.Database, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/login"
		defer handlePanic(c, route)

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Email and password are required")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var admin models.Admin
		err := db.Collection("admins").FindOne(ctx, bson.M{"email": email}).Decode(&admin)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusBadRequest, route, "Email not found")
			return
		}
		if err != nil {
			log.Println("[AUTH] [ERROR] admin lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid credentials")
			return
		}

		token, err := issueAdminToken(admin.ID, admin.Name, admin.Role, cfg.JWTSecret, cfg.TokenTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		setSessionCookie(c, adminCookie, token, cfg.TokenTTL, cfg)

		log.Println("[AUTH] [INFO] admin login succeeded:", admin.Email)
		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"admin":   gin.H{"name": admin.Name, "role": admin.Role},
			"token":   token,
		})
	}
}

func LogoutAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		clearSessionCookie(c, adminCookie)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}

type CreatePermissionRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// CreatePermission lets a role-admin provision another back-office
// account with an explicit role.
func CreatePermission(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/create-permission"
		defer handlePanic(c, route)

		_, actorName, ok := adminFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		var req CreatePermissionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if !models.IsValidRole(req.Role) {
			respondWithError(c, http.StatusBadRequest, route, "Invalid role")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Error adding admin")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		admin := models.Admin{
			Name:         strings.TrimSpace(req.Name),
			Email:        email,
			PasswordHash: string(hash),
			Role:         req.Role,
			CreatedAt:    time.Now(),
		}

		res, err := db.Collection("admins").InsertOne(ctx, admin)
		if err != nil {
			if isDuplicateKeyError(err) {
				respondWithError(c, http.StatusBadRequest, route, "Admin with this email already exists")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "Error adding admin")
			return
		}
		admin.ID, _ = res.InsertedID.(primitive.ObjectID)

		insertNotification(ctx, db, actorName,
			fmt.Sprintf("%s granted %s to %s", actorName, req.Role, email),
			models.NotificationPermission)

		c.JSON(http.StatusCreated, gin.H{
			"message": fmt.Sprintf("New %s added successfully!", req.Role),
			"admin":   admin,
		})
	}
}

type UpdatePermissionRequest struct {
	Email string `json:"email" binding:"required"`
	Role  string `json:"role" binding:"required"`
}

func UpdatePermission(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/update-permission"
		defer handlePanic(c, route)

		_, actorName, ok := adminFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		var req UpdatePermissionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Email and role are required.")
			return
		}
		if !models.IsValidRole(req.Role) {
			respondWithError(c, http.StatusBadRequest, route, "Invalid role")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var admin models.Admin
		err := db.Collection("admins").FindOne(ctx, bson.M{"email": email}).Decode(&admin)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Admin with this email does not exist.")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error.")
			return
		}

		if admin.Role == req.Role {
			c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Role is already set to '%s'.", req.Role)})
			return
		}

		_, err = db.Collection("admins").UpdateByID(ctx, admin.ID, bson.M{"$set": bson.M{"role": req.Role}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error.")
			return
		}

		insertNotification(ctx, db, actorName,
			fmt.Sprintf("%s updated %s's permission to %s.", actorName, email, req.Role),
			models.NotificationPermission)

		c.JSON(http.StatusOK, gin.H{"message": "Permission updated successfully.", "updatedRole": req.Role})
	}
}

type DeletePermissionRequest struct {
	Email string `json:"email" binding:"required"`
}

func DeletePermission(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/delete-permission"
		defer handlePanic(c, route)

		_, actorName, ok := adminFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		var req DeletePermissionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Email is required.")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var admin models.Admin
		err := db.Collection("admins").FindOne(ctx, bson.M{"email": email}).Decode(&admin)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Admin with this email not found.")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error while deleting permission.")
			return
		}

		// The root admin can never be removed.
		if admin.IsRoot {
			respondWithError(c, http.StatusForbidden, route, "Cannot delete a root admin.")
			return
		}

		if _, err := db.Collection("admins").DeleteOne(ctx, bson.M{"_id": admin.ID}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error while deleting permission.")
			return
		}

		insertNotification(ctx, db, actorName,
			fmt.Sprintf("%s removed permission from %s.", actorName, email),
			models.NotificationPermission)

		c.JSON(http.StatusOK, gin.H{"message": "Admin permission successfully deleted."})
	}
}

func GetAllAdmins(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/all"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("admins").Find(ctx, bson.M{})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Error fetching admins")
			return
		}

		admins, err := decodeAll[models.Admin](ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Error fetching admins")
			return
		}

		c.JSON(http.StatusOK, admins)
	}
}

func DeleteAdmin(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/delete/:id"
		defer handlePanic(c, route)

		actorID, _, ok := adminFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid admin id")
			return
		}

		if actorID == id {
			respondWithError(c, http.StatusForbidden, route, "You cannot delete your own account!")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var admin models.Admin
		err = db.Collection("admins").FindOne(ctx, bson.M{"_id": id}).Decode(&admin)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Admin not found!")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Error deleting admin")
			return
		}

		if admin.IsRoot {
			respondWithError(c, http.StatusForbidden, route, "Cannot delete a root admin.")
			return
		}

		if _, err := db.Collection("admins").DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Error deleting admin")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Admin deleted successfully!"})
	}
}

// GetNotifications returns today's unseen notifications, newest first. The
// seen flag is global: one admin marking the feed seen hides it for all.
func GetNotifications(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/notify"
		defer handlePanic(c, route)

		now := time.Now()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("notifications").Find(ctx,
			bson.M{
				"time": bson.M{"$gte": startOfDay},
				"seen": false,
			},
			options.Find().SetSort(bson.D{{Key: "time", Value: -1}}),
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		notifications, err := decodeAll[models.Notification](ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		c.JSON(http.StatusOK, notifications)
	}
}

func MarkNotificationsSeen(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/mark-seen"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("notifications").UpdateMany(ctx,
			bson.M{"seen": false},
			bson.M{"$set": bson.M{"seen": true}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		if res.ModifiedCount == 0 {
			c.JSON(http.StatusOK, gin.H{"message": "No unseen notifications to update."})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":      "All notifications marked as seen",
			"updatedCount": res.ModifiedCount,
		})
	}
}
