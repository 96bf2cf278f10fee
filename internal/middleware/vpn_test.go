package middleware

import "testing"

func TestIPPatterns(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"203.0.113.7", true},
		{"10.1.2.3", true},
		{"2001:db8::1", true},
		{"fe80::1ff:fe23:4567:890a", true},
		{"not-an-ip", false},
		{"203.0.113", false},
		{"", false},
	}
	for _, tt := range tests {
		got := ipv4Pattern.MatchString(tt.ip) || ipv6Pattern.MatchString(tt.ip)
		if got != tt.want {
			t.Errorf("ip %q: matched=%v, want %v", tt.ip, got, tt.want)
		}
	}
}

func TestIsLocalAddress(t *testing.T) {
	for _, ip := range []string{"127.0.0.1", "::1", "::ffff:127.0.0.1"} {
		if !isLocalAddress(ip) {
			t.Errorf("expected %q to be local", ip)
		}
	}
	if isLocalAddress("203.0.113.7") {
		t.Error("public address must not be treated as local")
	}
}
