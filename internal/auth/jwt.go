package auth

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"shop-catalog/internal/logger"
)

// Claims carries the roles granted to an operator token
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// ErrNoSecret is returned when tokens are checked without a configured secret
var ErrNoSecret = errors.New("jwt secret not configured")

// Verifier checks HMAC-signed bearer tokens
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier for the given shared secret
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// ParseToken validates tokenStr and returns its claims
func (v *Verifier) ParseToken(tokenStr string) (*Claims, error) {
	if len(v.secret) == 0 {
		return nil, ErrNoSecret
	}

	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// RequireAdmin rejects requests without a valid token carrying the admin role
func (v *Verifier) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr := GetBearerToken(r)
		if tokenStr == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := v.ParseToken(tokenStr)
		if err != nil {
			logger.Debugf("RequireAdmin: %v", err)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !HasRole(claims.Roles, "admin") {
			http.Error(w, "forbidden - admin role required", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

// GetBearerToken extracts the token from an "Authorization: Bearer" header
func GetBearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// HasRole checks if required is among userRoles
func HasRole(userRoles []string, required string) bool {
	return slices.Contains(userRoles, required)
}
