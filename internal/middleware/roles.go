package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"cafefresco/internal/models"
)

// AuthorizeRoles gates an endpoint on the admin's persisted role. The
// record is re-loaded on every request so a role downgrade takes effect
// immediately, not at token expiry.
func AuthorizeRoles(db *mongo.Database, roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		value, exists := c.Get("adminId")
		adminID, ok := value.(primitive.ObjectID)
		if !exists || !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized: No Admin Found"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var admin models.Admin
		err := db.Collection("admins").FindOne(ctx, bson.M{"_id": adminID}).Decode(&admin)
		if err == mongo.ErrNoDocuments {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Admin Not Found"})
			return
		}
		if err != nil {
			log.Println("[AUTH] [ERROR] role lookup failed:", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}

		if _, ok := allowed[admin.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden: Access Denied"})
			return
		}

		// Handlers read the fresh record, not the token snapshot.
		c.Set("adminName", admin.Name)
		c.Set("adminRole", admin.Role)
		c.Next()
	}
}
