package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gartstein/partners/internal/directory/models"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		wantSecret string
		wantClient models.ClientInfo
	}{
		{
			name:       "secret header and forwarded chain",
			headers:    map[string]string{SecretHeader: "pw1234", "X-Forwarded-For": "203.0.113.7, 10.0.0.1", "User-Agent": "test-agent"},
			remoteAddr: "10.0.0.2:5555",
			wantSecret: "pw1234",
			wantClient: models.ClientInfo{IPAddress: "203.0.113.7", UserAgent: "test-agent"},
		},
		{
			name:       "authorization scheme and real ip",
			headers:    map[string]string{"Authorization": "Password master", "X-Real-IP": "198.51.100.4"},
			remoteAddr: "10.0.0.2:5555",
			wantSecret: "master",
			wantClient: models.ClientInfo{IPAddress: "198.51.100.4"},
		},
		{
			name:       "secret kept verbatim",
			headers:    map[string]string{SecretHeader: " pw 1234 "},
			remoteAddr: "192.0.2.10:1234",
			wantSecret: " pw 1234 ",
			wantClient: models.ClientInfo{IPAddress: "192.0.2.10"},
		},
		{
			name:       "no headers",
			remoteAddr: "192.0.2.10:1234",
			wantClient: models.ClientInfo{IPAddress: "192.0.2.10"},
		},
		{
			name:       "bearer is ignored",
			headers:    map[string]string{"Authorization": "Bearer token"},
			remoteAddr: "192.0.2.10:1234",
			wantClient: models.ClientInfo{IPAddress: "192.0.2.10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSecret string
			var gotClient models.ClientInfo
			next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				gotSecret = SecretFromContext(r.Context())
				gotClient = ClientFromContext(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
			req.RemoteAddr = tt.remoteAddr
			req.Header.Del("User-Agent")
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			HTTPMiddleware(next).ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.wantSecret, gotSecret)
			assert.Equal(t, tt.wantClient, gotClient)
		})
	}
}

func TestSecretFromContext_Empty(t *testing.T) {
	assert.Equal(t, "", SecretFromContext(context.Background()))
	assert.Equal(t, "s", SecretFromContext(WithSecret(context.Background(), "s")))
}
