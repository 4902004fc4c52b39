package token

import (
	"encoding/json"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var segmentDecoder = jwt.NewParser()

// DecodeJWT returns the payload claims of token without verifying its
// signature. Any malformed input yields nil.
func DecodeJWT(token string) jwt.MapClaims {
	parts := strings.Split(token, ".")
	if len(parts) < 2 || parts[1] == "" {
		return nil
	}

	payload, err := segmentDecoder.DecodeSegment(parts[1])
	if err != nil {
		return nil
	}

	var claims jwt.MapClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil
	}
	return claims
}

// ExpiryMillis extracts the exp claim in milliseconds since epoch.
func ExpiryMillis(claims jwt.MapClaims) (int64, bool) {
	if claims == nil {
		return 0, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, false
	}
	return exp.UnixMilli(), true
}

// RoleOf returns the upper-cased role claim. Tokens carrying a "roles" array
// instead contribute its first element.
func RoleOf(claims jwt.MapClaims) string {
	if claims == nil {
		return ""
	}
	if role, ok := claims["role"].(string); ok && role != "" {
		return strings.ToUpper(role)
	}
	if roles, ok := claims["roles"].([]any); ok && len(roles) > 0 {
		if role, ok := roles[0].(string); ok {
			return strings.ToUpper(role)
		}
	}
	return ""
}
