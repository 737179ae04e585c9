package httpserver

import (
	"net/http/httptest"
	"testing"
)

func TestAllowOrigin(t *testing.T) {
	cases := []struct {
		name       string
		configured string
		reqOrigin  string
		want       bool
	}{
		{"empty config allows all", "", "https://evil.example", true},
		{"wildcard allows all", "*", "https://evil.example", true},
		{"exact match", "https://app.example.com", "https://app.example.com", true},
		{"case insensitive match", "https://app.example.com", "https://APP.example.COM", true},
		{"mismatch rejected", "https://app.example.com", "https://evil.example", false},
		{"localhost config accepts localhost", "http://localhost:3000", "http://localhost:5173", true},
		{"localhost config accepts loopback", "http://localhost:3000", "http://127.0.0.1:5173", true},
		{"localhost config rejects remote", "http://localhost:3000", "https://evil.example", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/v1/ws", nil)
			r.Header.Set("Origin", tc.reqOrigin)
			if got := allowOrigin(r, tc.configured); got != tc.want {
				t.Errorf("allowOrigin(%q, %q) = %v, want %v", tc.reqOrigin, tc.configured, got, tc.want)
			}
		})
	}
}
