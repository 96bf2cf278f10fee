package handlers

import "testing"

func TestParsePaginationParamsDefaults(t *testing.T) {
	page, limit, err := parsePaginationParams("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != 1 || limit != 10 {
		t.Fatalf("expected defaults 1/10, got %d/%d", page, limit)
	}
}

func TestParsePaginationParamsExplicit(t *testing.T) {
	page, limit, err := parsePaginationParams("3", "25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != 3 || limit != 25 {
		t.Fatalf("expected 3/25, got %d/%d", page, limit)
	}
}

func TestParsePaginationParamsInvalid(t *testing.T) {
	tests := []struct{ page, limit string }{
		{"0", ""},
		{"-1", ""},
		{"abc", ""},
		{"", "0"},
		{"", "x"},
	}
	for _, tt := range tests {
		if _, _, err := parsePaginationParams(tt.page, tt.limit); err == nil {
			t.Errorf("parsePaginationParams(%q, %q): expected error", tt.page, tt.limit)
		}
	}
}

func TestLowerCamel(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Email", "email"},
		{"PaymentStatus", "paymentStatus"},
		{"", ""},
		{"a", "a"},
	}
	for _, tt := range tests {
		if got := lowerCamel(tt.in); got != tt.want {
			t.Errorf("lowerCamel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
