package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JonMunkholm/coltype/internal/config"
)

// ============================================================================
// APIKeyAuth Tests
// ============================================================================

func TestAPIKeyAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		cfg      config.SecurityConfig
		key      string
		wantCode int
		wantBody string
	}{
		{
			name:     "auth disabled passes",
			cfg:      config.SecurityConfig{RequireAPIKey: false},
			wantCode: http.StatusNoContent,
		},
		{
			name:     "missing key",
			cfg:      config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}},
			wantCode: http.StatusUnauthorized,
			wantBody: "AUTH_MISSING_KEY",
		},
		{
			name:     "wrong key",
			cfg:      config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}},
			key:      "nope",
			wantCode: http.StatusForbidden,
			wantBody: "AUTH_INVALID_KEY",
		},
		{
			name:     "second key accepted",
			cfg:      config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1", "k2"}},
			key:      "k2",
			wantCode: http.StatusNoContent,
		},
		{
			name:     "no keys configured rejects",
			cfg:      config.SecurityConfig{RequireAPIKey: true},
			key:      "anything",
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
			if tt.key != "" {
				req.Header.Set(APIKeyHeader, tt.key)
			}
			rec := httptest.NewRecorder()

			APIKeyAuth(&tt.cfg)(ok).ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", rec.Body.String(), tt.wantBody)
			}
			if rec.Code >= 400 && rec.Header().Get("Content-Type") != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestIsValidAPIKey(t *testing.T) {
	keys := []string{"alpha", "beta"}
	if !isValidAPIKey("beta", keys) {
		t.Error("beta should be valid")
	}
	if isValidAPIKey("bet", keys) {
		t.Error("prefix of a key should not be valid")
	}
	if isValidAPIKey("", nil) {
		t.Error("empty key with no keys should not be valid")
	}
}

// ============================================================================
// TrustedRealIP Tests
// ============================================================================

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name       string
		trusted    []string
		remoteAddr string
		realIP     string
		forwarded  string
		want       string
	}{
		{
			name:       "no trusted proxies ignores headers",
			remoteAddr: "203.0.113.5:4000",
			realIP:     "1.2.3.4",
			want:       "203.0.113.5:4000",
		},
		{
			name:       "untrusted source ignores headers",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "203.0.113.5:4000",
			realIP:     "1.2.3.4",
			want:       "203.0.113.5:4000",
		},
		{
			name:       "trusted CIDR uses X-Real-IP",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:4000",
			realIP:     "1.2.3.4",
			want:       "1.2.3.4",
		},
		{
			name:       "bare trusted address",
			trusted:    []string{"127.0.0.1"},
			remoteAddr: "127.0.0.1:4000",
			forwarded:  "198.51.100.7, 10.0.0.1",
			want:       "198.51.100.7",
		},
		{
			name:       "X-Real-IP wins over X-Forwarded-For",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.0.0.1:80",
			realIP:     "1.1.1.1",
			forwarded:  "2.2.2.2",
			want:       "1.1.1.1",
		},
		{
			name:       "invalid header keeps remote addr",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.0.0.1:80",
			realIP:     "not-an-ip",
			want:       "10.0.0.1:80",
		},
		{
			name:       "invalid CIDR entry skipped",
			trusted:    []string{"garbage", "10.0.0.0/8"},
			remoteAddr: "10.0.0.1:80",
			realIP:     "1.1.1.1",
			want:       "1.1.1.1",
		},
		{
			name:       "IPv6 proxy",
			trusted:    []string{"::1"},
			remoteAddr: "[::1]:8080",
			realIP:     "2001:db8::1",
			want:       "2001:db8::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

// ============================================================================
// Logger Tests
// ============================================================================

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK) // ignored
		_, _ = w.Write([]byte("hello"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}

	line := buf.String()
	for _, want := range []string{"method=POST", "path=/upload", "status=418", "bytes=5", "ip=192.0.2.1"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %q", line, want)
		}
	}
}
