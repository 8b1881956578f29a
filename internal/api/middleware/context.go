package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const clientKeyKey contextKey = "client_key"

// setClientKey stores the rate-limit identity for the request: the presented
// API key's prefix, or the remote address when auth is disabled.
func setClientKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, clientKeyKey, key)
}

func getClientKey(r *http.Request) (string, bool) {
	key, ok := r.Context().Value(clientKeyKey).(string)
	return key, ok
}

// ClientKey exposes the request's client identity to handlers that scope
// per-caller behavior, like stale-input tracking.
func ClientKey(r *http.Request) (string, bool) {
	return getClientKey(r)
}

// ExportedClientKeyKey returns the context key for the client key (for testing).
func ExportedClientKeyKey() contextKey {
	return clientKeyKey
}
