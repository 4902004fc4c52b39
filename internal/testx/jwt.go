// Package testx holds helpers shared by tests of several packages.
package testx

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var signingKey = []byte("test-signing-key")

// Claims mirrors what the marketplace backend puts into access tokens.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// MakeToken signs an HS256 token for role that expires at exp. A zero exp
// omits the claim.
func MakeToken(t testing.TB, role string, exp time.Time) string {
	t.Helper()

	claims := Claims{Role: role}
	claims.Subject = "user-1"
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}

	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// MakeMapToken signs arbitrary claims.
func MakeMapToken(t testing.TB, claims jwt.MapClaims) string {
	t.Helper()

	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}
