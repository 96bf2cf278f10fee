package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func updateProfileRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.PUT("/user/update-profile", func(c *gin.Context) {
		c.Set("userId", primitive.NewObjectID())
	}, UpdateProfile(nil))
	return r
}

func TestUpdateProfileRejectsEmptyBody(t *testing.T) {
	r := updateProfileRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/user/update-profile", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body did not parse: %v", err)
	}
	if body["message"] != "Nothing to update" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestUpdateProfileRejectsShortName(t *testing.T) {
	r := updateProfileRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/user/update-profile", strings.NewReader(`{"name":"ab"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}

func TestUpdateProfileRejectsBadEmail(t *testing.T) {
	r := updateProfileRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/user/update-profile", strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}
