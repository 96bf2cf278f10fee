package handlers

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"cafefresco/internal/config"
	"cafefresco/internal/models"
)

var validate = validator.New()

type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func RegisterUser(db *mongo.Database, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user/register"
		defer handlePanic(c, route)

		var req RegisterUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if len(email) < 3 {
			respondWithError(c, http.StatusBadRequest, route, "Email must be at least 3 characters long")
			return
		}
		if err := validate.Var(email, "required,email"); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid email format")
			return
		}
		if len(req.Password) < 5 {
			respondWithError(c, http.StatusBadRequest, route, "Password must be at least 5 characters long")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		user := models.User{
			Name:         strings.TrimSpace(req.Name),
			Email:        email,
			PasswordHash: string(hash),
			Address:      strings.TrimSpace(req.Address),
			Phone:        strings.TrimSpace(req.Phone),
			CreatedAt:    time.Now(),
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			if isDuplicateKeyError(err) {
				respondWithError(c, http.StatusBadRequest, route, "Email already exists")
				return
			}
			log.Println("[AUTH] [ERROR] user insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		userID, _ := res.InsertedID.(primitive.ObjectID)

		token, err := issueUserToken(userID, email, cfg.JWTSecret, cfg.TokenTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] register token generation failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}
		setSessionCookie(c, userCookie, token, cfg.TokenTTL, cfg)

		log.Println("[AUTH] [INFO] user registered:", email)
		c.JSON(http.StatusCreated, gin.H{
			"message": "User registered successfully!",
			"user":    gin.H{"name": user.Name, "email": user.Email},
		})
	}
}

func LoginUser(db *mongo.Database, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user/login"
		defer handlePanic(c, route)

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Email and password are required")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusBadRequest, route, "Email not found")
			return
		}
		if err != nil {
			log.Println("[AUTH] [ERROR] user lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(strings.TrimSpace(req.Password))); err != nil {
			log.Println("[AUTH] [ERROR] login invalid credentials for user")
			respondWithError(c, http.StatusBadRequest, route, "Invalid credentials")
			return
		}

		token, err := issueUserToken(user.ID, user.Email, cfg.JWTSecret, cfg.TokenTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] login token generation failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		setSessionCookie(c, userCookie, token, cfg.TokenTTL, cfg)

		log.Println("[AUTH] [INFO] user login succeeded:", user.Email)
		c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token})
	}
}

func LogoutUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		clearSessionCookie(c, userCookie)
		c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
	}
}

type UpdateProfileRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func UpdateProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /user/update-profile"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		if req.Name != "" && len(req.Name) < 3 {
			respondWithError(c, http.StatusBadRequest, route, "Name must be at least 3 characters long")
			return
		}
		if req.Email != "" {
			if err := validate.Var(req.Email, "email"); err != nil {
				respondWithError(c, http.StatusBadRequest, route, "Invalid email format")
				return
			}
		}

		updates := bson.M{}
		if req.Name != "" {
			updates["name"] = strings.TrimSpace(req.Name)
		}
		if req.Email != "" {
			updates["email"] = strings.ToLower(strings.TrimSpace(req.Email))
		}
		if req.Address != "" {
			updates["address"] = strings.TrimSpace(req.Address)
		}
		if req.Phone != "" {
			updates["phone"] = strings.TrimSpace(req.Phone)
		}
		if len(updates) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "Nothing to update")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOneAndUpdate(
			ctx,
			bson.M{"_id": userID},
			bson.M{"$set": updates},
			mongoFindOneAndUpdateAfter(),
		).Decode(&user)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "User not found")
			return
		}
		if err != nil {
			if isDuplicateKeyError(err) {
				respondWithError(c, http.StatusBadRequest, route, "Email already exists")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"user": gin.H{
				"name":    user.Name,
				"email":   user.Email,
				"address": user.Address,
				"phone":   user.Phone,
			},
			"message": "User profile updated successfully",
		})
	}
}

func UploadUserImage(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user/upload-image"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		file, err := c.FormFile("image")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Image is required")
			return
		}

		imagePath, err := saveImage(file, "user")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		_, err = db.Collection("users").UpdateByID(ctx, userID, bson.M{"$set": bson.M{"image": imagePath}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Profile picture updated", "avatar": imagePath})
	}
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ForgotPassword issues a one-time reset token: the plain token goes out
// by mail, only its sha256 digest is stored.
func ForgotPassword(db *mongo.Database, mailer *Mailer, cfg config.Config, collection, resetPathPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := "POST /" + resetPathPrefix + "/forgot-password"
		defer handlePanic(c, route)

		var req forgotPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Email is required.")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection(collection).CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		if count == 0 {
			respondWithError(c, http.StatusNotFound, route, "User not found")
			return
		}

		buf := make([]byte, 20)
		if _, err := rand.Read(buf); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		resetToken := hex.EncodeToString(buf)
		digest := sha256.Sum256([]byte(resetToken))
		expires := time.Now().Add(10 * time.Minute)

		_, err = db.Collection(collection).UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{
			"resetPasswordToken":   hex.EncodeToString(digest[:]),
			"resetPasswordExpires": expires,
		}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		resetURL := fmt.Sprintf("%s/%s/reset-password/%s", cfg.ResetURLBase, resetPathPrefix, resetToken)
		if err := mailer.Send(email, "Password Reset Request", resetEmailBody(resetURL)); err != nil {
			log.Println("[MAIL] [ERROR] reset mail failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Failed to send reset email")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent!"})
	}
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required"`
}

func ResetPassword(db *mongo.Database, collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST reset-password"
		defer handlePanic(c, route)

		var req resetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "newPassword is required")
			return
		}

		digest := sha256.Sum256([]byte(strings.TrimSpace(c.Param("token"))))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		res, err := db.Collection(collection).UpdateOne(ctx,
			bson.M{
				"resetPasswordToken":   hex.EncodeToString(digest[:]),
				"resetPasswordExpires": bson.M{"$gt": time.Now()},
			},
			bson.M{
				"$set":   bson.M{"password": string(hash)},
				"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""},
			},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusBadRequest, route, "Invalid or expired token")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password reset successful!"})
	}
}

func GetAllUsers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user/all"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("users").CountDocuments(ctx, bson.M{})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server Error")
			return
		}

		cursor, err := db.Collection("users").Find(ctx, bson.M{},
			mongoFindSkipLimit((page-1)*limit, limit))
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server Error")
			return
		}

		users, err := decodeAll[models.User](ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server Error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"data":        users,
			"totalUsers":  total,
			"currentPage": page,
			"totalPages":  int64(math.Ceil(float64(total) / float64(limit))),
		})
	}
}

func SearchUsers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user/search"
		defer handlePanic(c, route)

		query := strings.TrimSpace(c.Query("query"))
		if query == "" {
			respondWithError(c, http.StatusBadRequest, route, "Missing search query")
			return
		}

		conditions := []bson.M{
			{"name": regexFilter(query)},
			{"email": regexFilter(query)},
			{"phone": regexFilter(query)},
		}
		if id, err := primitive.ObjectIDFromHex(query); err == nil {
			conditions = append(conditions, bson.M{"_id": id})
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("users").Find(ctx, bson.M{"$or": conditions})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}

		users, err := decodeAll[models.User](ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal Server Error")
			return
		}
		if len(users) == 0 {
			respondWithError(c, http.StatusNotFound, route, "User not found")
			return
		}

		c.JSON(http.StatusOK, users)
	}
}

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

func Contact(mailer *Mailer, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user/contact"
		defer handlePanic(c, route)

		var req contactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "All fields are required.")
			return
		}

		body := fmt.Sprintf(`<h3>Contact Details</h3>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Phone:</strong> %s</p>
<p><strong>Message:</strong><br/>%s</p>`, req.Name, req.Email, req.Phone, req.Message)

		if err := mailer.Send(cfg.MailFrom, "New Contact Form: "+req.Subject, body); err != nil {
			log.Println("[MAIL] [ERROR] contact mail failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Failed to send message")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Message sent successfully!"})
	}
}
