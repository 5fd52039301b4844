package auth

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/gartstein/partners/internal/directory/models"
)

type contextKey string

const (
	secretContextKey contextKey = "secret"
	clientContextKey contextKey = "client"
)

// SecretHeader carries the caller secret when it is not part of the request body.
const SecretHeader = "X-Password"

// HTTPMiddleware stores the caller secret and client identity on the request context.
// It never rejects a request; authorization happens in the services.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if secret := extractSecretFromHeader(r); secret != "" {
			ctx = WithSecret(ctx, secret)
		}
		ctx = context.WithValue(ctx, clientContextKey, models.ClientInfo{
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithSecret returns a copy of ctx carrying secret.
func WithSecret(ctx context.Context, secret string) context.Context {
	return context.WithValue(ctx, secretContextKey, secret)
}

// SecretFromContext returns the secret placed by HTTPMiddleware, if any.
func SecretFromContext(ctx context.Context) string {
	s, _ := ctx.Value(secretContextKey).(string)
	return s
}

// ClientFromContext returns the caller identity placed by HTTPMiddleware.
func ClientFromContext(ctx context.Context) models.ClientInfo {
	c, _ := ctx.Value(clientContextKey).(models.ClientInfo)
	return c
}

// extractSecretFromHeader returns the header secret verbatim, like a body secret.
func extractSecretFromHeader(r *http.Request) string {
	if v := r.Header.Get(SecretHeader); v != "" {
		return v
	}
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Password "); ok {
		return after
	}
	return ""
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the socket peer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
