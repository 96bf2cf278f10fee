package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestValidateProductFields(t *testing.T) {
	tests := []struct {
		price    float64
		discount float64
		ok       bool
	}{
		{10, 0, true},
		{0, 0, true},
		{10, 100, true},
		{-1, 0, false},
		{10, -5, false},
		{10, 101, false},
	}
	for _, tt := range tests {
		if _, ok := validateProductFields(tt.price, tt.discount); ok != tt.ok {
			t.Errorf("validateProductFields(%v, %v) ok=%v, want %v", tt.price, tt.discount, ok, tt.ok)
		}
	}
}

func TestParseProductFormTracksSetFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	_ = writer.WriteField("title", "Flat White")
	_ = writer.WriteField("price", "4.50")
	_ = writer.WriteField("featured", "true")
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/product/add", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	input, err := parseProductForm(c)
	if err != nil {
		t.Fatalf("parseProductForm returned error: %v", err)
	}
	if input.Title != "Flat White" {
		t.Fatalf("expected title to be parsed, got %q", input.Title)
	}
	if !input.PriceSet || input.Price != 4.50 {
		t.Fatalf("expected price 4.50 set, got %+v", input)
	}
	if !input.FeaturedSet || !input.Featured {
		t.Fatalf("expected featured=true set, got %+v", input)
	}
	if input.DiscountSet || input.StockSet || input.NewRelSet {
		t.Fatalf("expected absent fields to stay unset, got %+v", input)
	}
}

func TestParseProductFormRejectsBadNumbers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	_ = writer.WriteField("price", "four euros")
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/product/add", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	if _, err := parseProductForm(c); err == nil {
		t.Fatal("expected error for non-numeric price")
	}
}
