package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/useraccounts/useraccounts-go/internal/model"
	"github.com/useraccounts/useraccounts-go/internal/service"
)

type contextKey string

const payloadKey contextKey = "tokenPayload"

// TokenValidator checks an access token and returns the identity it carries.
type TokenValidator interface {
	ValidateAccessToken(token string) (model.TokenPayload, error)
}

// JWTAuth returns middleware that validates a Bearer token from the Authorization header.
func JWTAuth(v TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			token, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || token == "" {
				writeJSONError(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}

			payload, err := v.ValidateAccessToken(token)
			if err != nil {
				if errors.Is(err, service.ErrMalformedPayload) {
					writeJSONError(w, http.StatusUnauthorized, "invalid token payload")
					return
				}
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPayload(r.Context(), payload)))
		})
	}
}

// PayloadFromContext extracts the authenticated identity from the request context.
func PayloadFromContext(ctx context.Context) (model.TokenPayload, bool) {
	p, ok := ctx.Value(payloadKey).(model.TokenPayload)
	return p, ok
}

// WithPayload returns a copy of ctx carrying p.
func WithPayload(ctx context.Context, p model.TokenPayload) context.Context {
	return context.WithValue(ctx, payloadKey, p)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
