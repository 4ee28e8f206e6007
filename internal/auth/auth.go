// Package auth guards the admin API endpoints with JWT bearer tokens.
package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"score-enricher/internal/common/logging"
)

// Middleware returns a handler wrapper that requires a valid HS256 bearer
// token signed with secret. An empty secret disables the check entirely,
// which is the expected setup for single-operator local deployments.
func Middleware(secret string) func(http.Handler) http.Handler {
	logger := logging.GetGlobalLogger().WithFields(logging.String("component", "auth"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, err := extractBearer(r)
			if err != nil {
				unauthorized(w, err.Error())
				return
			}

			if err := validateToken(token, secret); err != nil {
				logger.Warn("Rejected admin request",
					logging.String("path", r.URL.Path),
					logging.String("remote_addr", r.RemoteAddr),
				)
				unauthorized(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractBearer pulls the token out of the Authorization header.
func extractBearer(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("missing authorization header")
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", fmt.Errorf("authorization header must be a bearer token")
	}
	return token, nil
}

// validateToken parses and verifies an HS256 token.
func validateToken(tokenString, secret string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return err
	}
	if !token.Valid {
		return fmt.Errorf("token is not valid")
	}
	return nil
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
