package handlers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func parseTestToken(t *testing.T, signed string) jwt.MapClaims {
	t.Helper()
	token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token did not parse: %v", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected map claims")
	}
	return claims
}

func TestIssueUserTokenRoundtrip(t *testing.T) {
	userID := primitive.NewObjectID()
	signed, err := issueUserToken(userID, "jo@example.com", testSecret, 15*24*time.Hour)
	if err != nil {
		t.Fatalf("issueUserToken returned error: %v", err)
	}

	claims := parseTestToken(t, signed)
	if claims["userId"] != userID.Hex() {
		t.Fatalf("expected userId %s, got %v", userID.Hex(), claims["userId"])
	}
	if claims["email"] != "jo@example.com" {
		t.Fatalf("unexpected email claim: %v", claims["email"])
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatal("expected numeric exp claim")
	}
	if time.Unix(int64(exp), 0).Before(time.Now().Add(14 * 24 * time.Hour)) {
		t.Fatal("expected expiry roughly 15 days out")
	}
}

func TestIssueAdminTokenCarriesNameAndRole(t *testing.T) {
	adminID := primitive.NewObjectID()
	signed, err := issueAdminToken(adminID, "Root Admin", "admin", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("issueAdminToken returned error: %v", err)
	}

	claims := parseTestToken(t, signed)
	if claims["userId"] != adminID.Hex() {
		t.Fatalf("expected userId %s, got %v", adminID.Hex(), claims["userId"])
	}
	if claims["name"] != "Root Admin" || claims["role"] != "admin" {
		t.Fatalf("unexpected identity claims: %v", claims)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	signed, err := issueUserToken(primitive.NewObjectID(), "x@example.com", "other-secret", time.Hour)
	if err != nil {
		t.Fatalf("issueUserToken returned error: %v", err)
	}
	token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err == nil && token.Valid {
		t.Fatal("expected verification failure with wrong secret")
	}
}
