package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEmptyCartDocumentShape(t *testing.T) {
	userID := primitive.NewObjectID()

	raw, err := bson.Marshal(emptyCart(userID))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if got, ok := doc["userId"].(primitive.ObjectID); !ok || got != userID {
		t.Fatalf("userId field = %v, want %v", doc["userId"], userID)
	}
	items, ok := doc["items"].(bson.A)
	if !ok {
		t.Fatalf("items field = %T, want array", doc["items"])
	}
	if len(items) != 0 {
		t.Fatalf("new cart has %d items, want 0", len(items))
	}
}

func TestEmptyWishlistDocumentShape(t *testing.T) {
	userID := primitive.NewObjectID()

	raw, err := bson.Marshal(emptyWishlist(userID))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if got, ok := doc["userId"].(primitive.ObjectID); !ok || got != userID {
		t.Fatalf("userId field = %v, want %v", doc["userId"], userID)
	}
	items, ok := doc["items"].(bson.A)
	if !ok {
		t.Fatalf("items field = %T, want array", doc["items"])
	}
	if len(items) != 0 {
		t.Fatalf("new wishlist has %d items, want 0", len(items))
	}
}
