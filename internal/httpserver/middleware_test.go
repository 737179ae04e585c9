package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stocksim/internal/auth"
	"stocksim/internal/httputil"

	"golang.org/x/crypto/bcrypt"
)

func TestWithAuthPutsSubjectInContext(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	svc := auth.NewService("stocksim", []byte("test-signing-key"), time.Hour, "Trader", hash)
	token, err := svc.Login("Trader", "secret-pass")
	if err != nil {
		t.Fatal(err)
	}

	var gotUser string
	h := WithAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := User(r)
		if !ok {
			t.Error("no user in request context")
		}
		gotUser = user
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"user": user})
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/account", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUser != "Trader" {
		t.Errorf("user = %q, want Trader", gotUser)
	}
}

func TestWithAuthRejectsMalformedHeader(t *testing.T) {
	svc := auth.NewService("stocksim", []byte("test-signing-key"), time.Hour, "Trader", nil)
	h := WithAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without valid token")
	}))

	for _, header := range []string{"", "Bearer", "Basic dXNlcjpwYXNz", "Bearer "} {
		req := httptest.NewRequest(http.MethodGet, "/v1/account", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, rec.Code)
		}
	}
}
