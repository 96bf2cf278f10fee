package handlers

import "testing"

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    float64
	}{
		{"empty", nil, 0},
		{"single", []int{4}, 4},
		{"mixed", []int{4, 5}, 4.5},
		{"full spread", []int{1, 2, 3, 4, 5}, 3},
	}
	for _, tt := range tests {
		if got := averageRating(tt.ratings); got != tt.want {
			t.Errorf("%s: averageRating(%v) = %v, want %v", tt.name, tt.ratings, got, tt.want)
		}
	}
}
