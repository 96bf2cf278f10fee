package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSupplierRequestToModel(t *testing.T) {
	distributorID := primitive.NewObjectID()
	req := supplierRequest{
		Name:        "  Fresh Farms  ",
		Phone:       "0300-1234567",
		Email:       "Contact@FreshFarms.PK",
		Supplies:    []string{"vegetables", "dairy"},
		Distributor: distributorID.Hex(),
	}

	supplier, err := req.toModel()
	if err != nil {
		t.Fatalf("toModel returned error: %v", err)
	}
	if supplier.Name != "Fresh Farms" {
		t.Fatalf("expected trimmed name, got %q", supplier.Name)
	}
	if supplier.Email != "contact@freshfarms.pk" {
		t.Fatalf("expected lowercased email, got %q", supplier.Email)
	}
	if supplier.Distributor == nil || *supplier.Distributor != distributorID {
		t.Fatalf("expected distributor link, got %v", supplier.Distributor)
	}
	if !supplier.IsActive {
		t.Fatal("expected new suppliers to default to active")
	}
}

func TestSupplierRequestToModelRejectsBadCategory(t *testing.T) {
	req := supplierRequest{
		Name:     "Fresh Farms",
		Phone:    "0300-1234567",
		Email:    "contact@freshfarms.pk",
		Supplies: []string{"vegetables", "gadgets"},
	}
	if _, err := req.toModel(); err == nil {
		t.Fatal("expected error for unknown supply category")
	}
}

func TestSupplierRequestToModelRejectsBadDistributorID(t *testing.T) {
	req := supplierRequest{
		Name:        "Fresh Farms",
		Phone:       "0300-1234567",
		Email:       "contact@freshfarms.pk",
		Supplies:    []string{"dairy"},
		Distributor: "nope",
	}
	if _, err := req.toModel(); err == nil {
		t.Fatal("expected error for malformed distributor ID")
	}
}

func TestDistributorRequestToModelHonorsIsActive(t *testing.T) {
	inactive := false
	req := distributorRequest{
		Name:             "Metro Distribution",
		ContactPerson:    "A. Khan",
		Phone:            "021-555",
		Email:            "ops@metro.pk",
		SupplyCategories: []string{"beverages"},
		IsActive:         &inactive,
	}

	distributor, err := req.toModel()
	if err != nil {
		t.Fatalf("toModel returned error: %v", err)
	}
	if distributor.IsActive {
		t.Fatal("expected explicit isActive=false to be honored")
	}
}
