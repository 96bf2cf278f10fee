package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"cafefresco/internal/config"
	"cafefresco/internal/middleware"
)

// issueUserToken signs a customer session claim. Tokens expire after the
// configured TTL (15 days by default); there is no refresh, expiry forces
// re-login.
func issueUserToken(userID primitive.ObjectID, email, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID.Hex(),
		"email":  email,
		"exp":    time.Now().Add(ttl).Unix(),
		"iat":    time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// issueAdminToken signs an admin session claim. Name and role are cached
// in the claim for display; authorization re-reads the record.
func issueAdminToken(adminID primitive.ObjectID, name, role, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": adminID.Hex(),
		"name":   name,
		"role":   role,
		"exp":    time.Now().Add(ttl).Unix(),
		"iat":    time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func setSessionCookie(c *gin.Context, name, token string, ttl time.Duration, cfg config.Config) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(name, token, int(ttl.Seconds()), "/", "", cfg.IsProduction(), true)
}

func clearSessionCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1, "/", "", false, true)
}

// Cookie names re-exported so handlers avoid importing middleware at every
// call site.
const (
	userCookie  = middleware.UserCookie
	adminCookie = middleware.AdminCookie
)
