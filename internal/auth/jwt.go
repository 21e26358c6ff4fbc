package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carry the authenticated identity: the mobile number that logged in.
type Claims struct {
	Mobile string `json:"mobile"`
	jwt.RegisteredClaims
}

// JWTMiddleware issues and checks the session tokens that replace the old
// per-session authenticated flag: every pipeline request must present one.
type JWTMiddleware struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTMiddleware(secret string, ttl time.Duration) *JWTMiddleware {
	return &JWTMiddleware{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for a validated mobile identity.
func (m *JWTMiddleware) Issue(mobile string) (string, error) {
	now := time.Now()
	claims := Claims{
		Mobile: mobile,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   mobile,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Authenticate rejects requests without a valid bearer token and stores the
// identity in the request context.
func (m *JWTMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := extractBearerToken(r)
		if tokenStr == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
			writeError(w, http.StatusUnauthorized, "token expired")
			return
		}
		if claims.Mobile == "" {
			writeError(w, http.StatusUnauthorized, "invalid identity in token")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, claims.Mobile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type ctxKey string

const identityKey ctxKey = "identity"

// IdentityFromContext returns the authenticated mobile number, or "".
func IdentityFromContext(ctx context.Context) string {
	id, _ := ctx.Value(identityKey).(string)
	return id
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
