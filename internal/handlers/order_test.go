package handlers

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"cafefresco/internal/models"
)

func TestBuildOrderFromRequestDefaults(t *testing.T) {
	productID := primitive.NewObjectID()
	order, err := buildOrderFromRequest(createOrderRequest{
		Products:    []createOrderItemRequest{{ProductID: productID.Hex(), Quantity: 2}},
		TotalAmount: 49.98,
	})
	if err != nil {
		t.Fatalf("buildOrderFromRequest returned error: %v", err)
	}
	if order.PaymentStatus != models.PaymentStatusUnpaid {
		t.Fatalf("expected default payment status unpaid, got %q", order.PaymentStatus)
	}
	if order.OrderStatus != models.OrderStatusPending {
		t.Fatalf("expected new orders to be pending, got %q", order.OrderStatus)
	}
	if len(order.Products) != 1 || order.Products[0].ProductID != productID {
		t.Fatalf("expected one line for %s, got %+v", productID.Hex(), order.Products)
	}
}

func TestBuildOrderFromRequestRejectsBadInput(t *testing.T) {
	valid := primitive.NewObjectID().Hex()
	tests := []struct {
		name string
		req  createOrderRequest
	}{
		{"no products", createOrderRequest{TotalAmount: 10}},
		{"zero total", createOrderRequest{
			Products: []createOrderItemRequest{{ProductID: valid, Quantity: 1}},
		}},
		{"bad product id", createOrderRequest{
			Products:    []createOrderItemRequest{{ProductID: "not-an-id", Quantity: 1}},
			TotalAmount: 10,
		}},
		{"zero quantity", createOrderRequest{
			Products:    []createOrderItemRequest{{ProductID: valid, Quantity: 0}},
			TotalAmount: 10,
		}},
		{"bad payment status", createOrderRequest{
			Products:    []createOrderItemRequest{{ProductID: valid, Quantity: 1}},
			TotalAmount: 10,
			Payment:     "maybe",
		}},
	}
	for _, tt := range tests {
		if _, err := buildOrderFromRequest(tt.req); err == nil {
			t.Errorf("%s: expected error, got none", tt.name)
		}
	}
}

func TestOrderPeriodFilterYearAndMonth(t *testing.T) {
	filter, err := orderPeriodFilter("2024", "2")
	if err != nil {
		t.Fatalf("orderPeriodFilter returned error: %v", err)
	}
	start := filter["$gte"].(time.Time)
	end := filter["$lt"].(time.Time)
	if start != time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected start: %v", start)
	}
	if end != time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected end: %v", end)
	}
}

func TestOrderPeriodFilterYearOnly(t *testing.T) {
	filter, err := orderPeriodFilter("2023", "")
	if err != nil {
		t.Fatalf("orderPeriodFilter returned error: %v", err)
	}
	if filter["$gte"].(time.Time).Year() != 2023 {
		t.Fatalf("expected range to start in 2023, got %v", filter["$gte"])
	}
	if filter["$lt"].(time.Time).Year() != 2024 {
		t.Fatalf("expected range to end at 2024, got %v", filter["$lt"])
	}
}

func TestOrderPeriodFilterEmpty(t *testing.T) {
	filter, err := orderPeriodFilter("", "")
	if err != nil {
		t.Fatalf("orderPeriodFilter returned error: %v", err)
	}
	if filter != nil {
		t.Fatalf("expected nil filter, got %v", filter)
	}
}

func TestOrderPeriodFilterInvalid(t *testing.T) {
	for _, tt := range []struct{ year, month string }{
		{"abc", ""},
		{"", "13"},
		{"2024", "0"},
	} {
		if _, err := orderPeriodFilter(tt.year, tt.month); err == nil {
			t.Errorf("orderPeriodFilter(%q, %q): expected error", tt.year, tt.month)
		}
	}
}

func TestOrderPeriodFilterIsBSONRange(t *testing.T) {
	filter, err := orderPeriodFilter("2024", "6")
	if err != nil {
		t.Fatalf("orderPeriodFilter returned error: %v", err)
	}
	if _, ok := interface{}(filter).(bson.M); !ok {
		t.Fatal("expected a bson.M range")
	}
}
