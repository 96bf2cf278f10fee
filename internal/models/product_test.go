package models

import "testing"

func TestDiscountedPrice(t *testing.T) {
	tests := []struct {
		price    float64
		discount float64
		want     float64
	}{
		{100, 0, 100},
		{100, 25, 75},
		{100, 100, 0},
		{19.99, 10, 17.99},
		{9.99, 33, 6.69},
	}
	for _, tt := range tests {
		if got := DiscountedPrice(tt.price, tt.discount); got != tt.want {
			t.Errorf("DiscountedPrice(%v, %v) = %v, want %v", tt.price, tt.discount, got, tt.want)
		}
	}
}

func TestWithDerivedSetsDiscountedPrice(t *testing.T) {
	p := Product{Price: 200, Discount: 50}
	derived := p.WithDerived()
	if derived.DiscountedPrice != 100 {
		t.Fatalf("expected discounted price 100, got %v", derived.DiscountedPrice)
	}
	if p.DiscountedPrice != 0 {
		t.Fatal("WithDerived must not mutate the receiver")
	}
}

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range []string{OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled} {
		if !IsValidOrderStatus(status) {
			t.Errorf("expected %q to be valid", status)
		}
	}
	if IsValidOrderStatus("shipped") {
		t.Error("expected unknown status to be invalid")
	}
}

func TestIsValidPaymentStatus(t *testing.T) {
	if !IsValidPaymentStatus(PaymentStatusPaid) || !IsValidPaymentStatus(PaymentStatusUnpaid) {
		t.Fatal("expected paid and unpaid to be valid")
	}
	if IsValidPaymentStatus("refunded") {
		t.Fatal("expected refunded to be invalid as an order payment status")
	}
}

func TestIsValidSupplyCategory(t *testing.T) {
	if !IsValidSupplyCategory("dairy") {
		t.Fatal("expected dairy to be a valid supply category")
	}
	if IsValidSupplyCategory("electronics") {
		t.Fatal("expected electronics to be invalid")
	}
}

func TestAdminRoles(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleEditor, RoleManager} {
		if !IsValidRole(role) {
			t.Errorf("expected %q to be a valid role", role)
		}
	}
	if IsValidRole("superuser") {
		t.Error("expected superuser to be invalid")
	}
}
