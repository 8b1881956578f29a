package middleware

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/kavyamurthy/logscope/internal/api/response"
)

const keyPrefixLen = 8

// Auth validates the Bearer API key against a bcrypt hash held in config.
// An empty hash disables authentication (development mode); requests are
// then rate-limited by remote address instead of key prefix.
type Auth struct {
	keyHash string
}

// NewAuth creates an Auth middleware comparing against keyHash.
func NewAuth(keyHash string) *Auth {
	return &Auth{keyHash: keyHash}
}

// Enabled reports whether a key hash is configured.
func (a *Auth) Enabled() bool { return a.keyHash != "" }

// Authenticate validates the Bearer token and stores the rate-limit identity
// in the request context.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			r = r.WithContext(setClientKey(r.Context(), r.RemoteAddr))
			next.ServeHTTP(w, r)
			return
		}

		rawKey := extractBearerToken(r)
		if rawKey == "" {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Missing or invalid Authorization header", nil)
			return
		}
		if len(rawKey) < keyPrefixLen {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Invalid API key format", nil)
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(a.keyHash), []byte(rawKey)) != nil {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Invalid API key", nil)
			return
		}

		r = r.WithContext(setClientKey(r.Context(), rawKey[:keyPrefixLen]))
		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
