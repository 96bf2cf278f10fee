package handlers

import (
	"reflect"
	"testing"
)

func TestLastN(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		n      int
		want   []string
	}{
		{"shorter than n", []string{"latte"}, 3, []string{"latte"}},
		{"exactly n", []string{"a", "b", "c"}, 3, []string{"a", "b", "c"}},
		{"longer than n", []string{"a", "b", "c", "d", "e"}, 3, []string{"c", "d", "e"}},
		{"empty", nil, 3, nil},
	}
	for _, tt := range tests {
		got := lastN(tt.values, tt.n)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: lastN(%v, %d) = %v, want %v", tt.name, tt.values, tt.n, got, tt.want)
		}
	}
}
