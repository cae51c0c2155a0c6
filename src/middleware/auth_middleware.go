package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"voicepay-server/src/logger"
	"voicepay-server/src/util"
)

type contextKey string

const (
	claimsKey    contextKey = "claims"
	requestIDKey contextKey = "request_id"
)

// ParseTokenFromRequest extracts and validates the bearer token, returning its claims
func ParseTokenFromRequest(r *http.Request, tokens *util.TokenIssuer) (*util.Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, fmt.Errorf("missing token")
	}

	tokenString := strings.TrimPrefix(header, "Bearer ")
	claims, err := tokens.Parse(tokenString)
	if err != nil {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func JWTAuthMiddleware(tokens *util.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := ParseTokenFromRequest(r, tokens)
			if err != nil {
				log := logger.FromContext(r.Context())
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected unauthenticated request")
				WriteJSON(w, http.StatusUnauthorized, map[string]any{
					"success": false,
					"message": err.Error(),
				})
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the session claims attached by JWTAuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*util.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*util.Claims)
	return claims, ok
}
