package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"Quill/internal/auth"
	"Quill/internal/core/authz"
)

// Context keys for storing caller information
type contextKey string

const (
	identityKey contextKey = "identity"
	claimsKey   contextKey = "jwt_claims"
)

// AuthMiddleware resolves bearer tokens into a caller identity.
// It never rejects a request: routes stay open and the services decide
// what an anonymous caller may do.
type AuthMiddleware struct {
	jwtSecret []byte
}

// NewAuthMiddleware creates a new auth middleware with the signing secret
func NewAuthMiddleware(jwtSecret []byte) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret}
}

// Attach parses the Authorization header if present and injects the
// resulting identity into the request context. Missing, malformed, or
// expired tokens leave the request anonymous.
func (m *AuthMiddleware) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		claims, err := auth.Verify(m.jwtSecret, token)
		if err != nil {
			// Invalid token - continue as anonymous
			log.Printf("[AUTH] token rejected: method=%s path=%s error=%v", r.Method, r.URL.Path, err)
			next.ServeHTTP(w, r)
			return
		}

		identity := authz.Identity{
			Authenticated: true,
			UserID:        claims.UserID,
			Role:          authz.ParseRole(claims.Role),
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		ctx = context.WithValue(ctx, claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetIdentity extracts the caller identity from the request context.
// Returns the zero identity for anonymous requests.
func GetIdentity(r *http.Request) authz.Identity {
	identity, _ := r.Context().Value(identityKey).(authz.Identity)
	return identity
}

// IdentityFromContext extracts the caller identity from a context
func IdentityFromContext(ctx context.Context) authz.Identity {
	identity, _ := ctx.Value(identityKey).(authz.Identity)
	return identity
}

// GetClaims extracts the JWT claims from the request context.
// Returns nil for anonymous requests.
func GetClaims(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(claimsKey).(*auth.Claims)
	return claims
}

// SetTestIdentity sets the caller identity in the context for testing
// purposes. This function should ONLY be used in tests.
func SetTestIdentity(ctx context.Context, identity authz.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}
