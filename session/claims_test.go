package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return s
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signedToken(t, jwt.MapClaims{
		"sub":     "ann@school.test",
		"role":    "ADMIN",
		"user_id": 7,
		"exp":     exp.Unix(),
	})

	c, err := ParseClaims(tok)
	if err != nil {
		t.Fatalf("ParseClaims: %v", err)
	}
	if c.Subject != "ann@school.test" || c.Role != "ADMIN" || c.UserID != 7 {
		t.Fatalf("claims = %+v", c)
	}
	if !c.ExpiresAt.Equal(exp) {
		t.Fatalf("ExpiresAt = %v, want %v", c.ExpiresAt, exp)
	}
	if c.Expired(time.Now()) {
		t.Fatalf("fresh token reported expired")
	}
	if !c.Expired(exp.Add(time.Second)) {
		t.Fatalf("token not expired after exp")
	}
}

func TestParseClaims_NoExpiry(t *testing.T) {
	c, err := ParseClaims(signedToken(t, jwt.MapClaims{"sub": "x"}))
	if err != nil {
		t.Fatalf("ParseClaims: %v", err)
	}
	if !c.ExpiresAt.IsZero() || c.Expired(time.Now()) {
		t.Fatalf("claims = %+v", c)
	}
}

func TestParseClaims_Invalid(t *testing.T) {
	for _, tok := range []string{"", "opaque-token", "a.b.c"} {
		if _, err := ParseClaims(tok); err == nil {
			t.Errorf("ParseClaims(%q) succeeded", tok)
		}
	}
}
