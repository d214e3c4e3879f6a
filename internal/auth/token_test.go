package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIssueAndParse(t *testing.T) {
	token, err := IssueToken(testSecret, "cli", time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != "cli" {
		t.Errorf("Subject = %q, want cli", claims.Subject)
	}
}

func TestParseRejects(t *testing.T) {
	good, _ := IssueToken(testSecret, "cli", time.Minute)
	expired, _ := IssueToken(testSecret, "cli", -time.Minute)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	foreignSigned, _ := foreign.SignedString([]byte(testSecret))

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Issuer: "apitray"})
	noExpSigned, _ := noExp.SignedString([]byte(testSecret))

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"empty", testSecret, ""},
		{"wrong secret", "another-secret-that-is-long-enough", good},
		{"expired", testSecret, expired},
		{"foreign issuer", testSecret, foreignSigned},
		{"no expiry", testSecret, noExpSigned},
		{"garbage", testSecret, "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseToken(tt.secret, tt.token); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/status", nil)
	r.Header.Set("Authorization", "Bearer abc")
	if got := TokenFromRequest(r); got != "abc" {
		t.Errorf("header token = %q", got)
	}

	r = httptest.NewRequest("GET", "/ws?token=xyz", nil)
	if got := TokenFromRequest(r); got != "xyz" {
		t.Errorf("query token = %q", got)
	}

	r = httptest.NewRequest("GET", "/api/status", nil)
	r.Header.Set("Authorization", "Basic abc")
	if got := TokenFromRequest(r); got != "" {
		t.Errorf("basic auth should not yield a token, got %q", got)
	}
}
