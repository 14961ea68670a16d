// Package config loads application settings from environment variables,
// applies defaults, and validates everything on startup.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Classify ClassifyConfig
	History  HistoryConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including in-flight uploads (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// UploadConfig holds upload processing settings.
type UploadConfig struct {
	// MaxFileSize is the maximum accepted upload in bytes (default: 50MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"52428800"`

	// MaxConcurrent is the number of uploads classified in parallel (default: 5)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"5"`

	// MaxWaitTime is how long a request waits for a free slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`

	// Timeout bounds a single parse and classify pass (default: 50s)
	Timeout time.Duration `env:"UPLOAD_TIMEOUT" default:"50s"`

	// MaxPreviewRows caps the rows echoed back as data; 0 returns every row.
	MaxPreviewRows int `env:"UPLOAD_MAX_PREVIEW_ROWS" default:"0"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// UploadLimit is requests per minute for upload endpoints (default: 20)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"20"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects the /api routes with X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// ClassifyConfig tunes the column classifier.
type ClassifyConfig struct {
	// SampleSize is how many values the permissive date check inspects (default: 10)
	SampleSize int `env:"CLASSIFY_SAMPLE_SIZE" default:"10"`

	// Seed makes sampling deterministic when non-zero.
	Seed uint64 `env:"CLASSIFY_SAMPLE_SEED" default:"0"`
}

// HistoryConfig selects where classification runs are recorded.
type HistoryConfig struct {
	// Driver is memory, postgres, or sqlite (default: memory)
	Driver string `env:"HISTORY_DRIVER" default:"memory"`

	// URL is a PostgreSQL connection string or a SQLite file path.
	URL string `env:"HISTORY_URL" envAlt:"DATABASE_URL"`

	MaxConns int `env:"HISTORY_MAX_CONNS" default:"10"`
	MinConns int `env:"HISTORY_MIN_CONNS" default:"1"`

	// Retention is how long runs are kept before pruning (default: 720h)
	Retention time.Duration `env:"HISTORY_RETENTION" default:"720h"`

	// PruneSchedule is a cron spec for the prune job (default: @daily)
	PruneSchedule string `env:"HISTORY_PRUNE_SCHEDULE" default:"@daily"`

	// MemoryLimit caps the number of runs held by the memory driver (default: 500)
	MemoryLimit int `env:"HISTORY_MEMORY_LIMIT" default:"500"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
