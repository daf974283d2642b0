// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, persistence, quota, AI provider, identity and observability
// settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // RATE_LIMIT_TIMEZONE must resolve on minimal images
)

// Persistence backends.
const (
	DBSQLite   = "sqlite"
	DBPostgres = "postgres"
	DBMemory   = "memory"
)

// Quota counter backends.
const (
	StoreDB     = "db"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// AI providers.
const (
	AIMock   = "mock"
	AIClaude = "claude"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	Environment string  // OTEL_ENVIRONMENT (deployment.environment)
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// DBConfig selects the record store.
type DBConfig struct {
	Driver string // DB_DRIVER: sqlite|postgres|memory
	Path   string // DB_PATH (sqlite)
	URL    string // DATABASE_URL (postgres)
}

// QuotaConfig configures the per-identity daily limit.
type QuotaConfig struct {
	Store     string         // RATE_LIMIT_STORE: db|redis|memory
	RedisURL  string         // REDIS_URL
	AnonLimit int            // RATE_LIMIT_ANON
	AuthLimit int            // RATE_LIMIT_AUTH
	Timezone  string         // RATE_LIMIT_TIMEZONE (IANA name)
	Location  *time.Location // resolved from Timezone
}

// AIConfig selects and tunes the prescription generator.
type AIConfig struct {
	Provider  string        // AI_PROVIDER: mock|claude
	APIKey    string        // CLAUDE_API_KEY
	Model     string        // CLAUDE_MODEL
	BaseURL   string        // CLAUDE_BASE_URL
	Timeout   time.Duration // AI_TIMEOUT, per attempt
	MaxTokens int           // AI_MAX_TOKENS
}

// AuthConfig configures caller identity.
type AuthConfig struct {
	JWTSecret       string // JWT_SECRET; empty disables bearer tokens
	AllowUserHeader bool   // ALLOW_USER_HEADER: trust X-User-ID (demo only)
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // must exceed two AI attempts
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	LogRedact      bool   // use the PII-scrubbing access logger
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	DB    DBConfig
	Quota QuotaConfig
	AI    AIConfig
	Auth  AuthConfig

	// Burst limiting (token bucket, per process)
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables, applies defaults,
// normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 40*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		LogRedact:      getbool("LOG_REDACT", true),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		DB: DBConfig{
			Driver: strings.ToLower(getenv("DB_DRIVER", DBSQLite)),
			Path:   getenv("DB_PATH", "moodrx.db"),
			URL:    getenv("DATABASE_URL", ""),
		},
		Quota: QuotaConfig{
			Store:     strings.ToLower(getenv("RATE_LIMIT_STORE", StoreDB)),
			RedisURL:  getenv("REDIS_URL", "redis://localhost:6379/0"),
			AnonLimit: getint("RATE_LIMIT_ANON", 5),
			AuthLimit: getint("RATE_LIMIT_AUTH", 10),
			Timezone:  getenv("RATE_LIMIT_TIMEZONE", "UTC"),
		},
		AI: AIConfig{
			Provider:  strings.ToLower(getenv("AI_PROVIDER", AIMock)),
			APIKey:    getenv("CLAUDE_API_KEY", ""),
			Model:     getenv("CLAUDE_MODEL", "claude-sonnet-4-20250514"),
			BaseURL:   getenv("CLAUDE_BASE_URL", ""),
			Timeout:   getdur("AI_TIMEOUT", 15*time.Second),
			MaxTokens: getint("AI_MAX_TOKENS", 256),
		},
		Auth: AuthConfig{
			JWTSecret:       getenv("JWT_SECRET", ""),
			AllowUserHeader: getbool("ALLOW_USER_HEADER", false),
		},

		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "mood-rx-backend"),
			Environment: getenv("OTEL_ENVIRONMENT", "development"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}

	switch cfg.DB.Driver {
	case DBSQLite:
		if strings.TrimSpace(cfg.DB.Path) == "" {
			return cfg, errors.New("DB_PATH must not be empty")
		}
	case DBPostgres:
		if strings.TrimSpace(cfg.DB.URL) == "" {
			return cfg, errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	case DBMemory:
	default:
		return cfg, errors.New("DB_DRIVER must be one of: sqlite, postgres, memory")
	}

	switch cfg.Quota.Store {
	case StoreDB:
		if cfg.DB.Driver == DBMemory {
			return cfg, errors.New("RATE_LIMIT_STORE=db requires a SQL DB_DRIVER")
		}
	case StoreRedis:
		if strings.TrimSpace(cfg.Quota.RedisURL) == "" {
			return cfg, errors.New("REDIS_URL is required when RATE_LIMIT_STORE=redis")
		}
	case StoreMemory:
	default:
		return cfg, errors.New("RATE_LIMIT_STORE must be one of: db, redis, memory")
	}
	if cfg.Quota.AnonLimit < 1 || cfg.Quota.AuthLimit < 1 {
		return cfg, errors.New("RATE_LIMIT_ANON and RATE_LIMIT_AUTH must be >= 1")
	}
	loc, err := time.LoadLocation(cfg.Quota.Timezone)
	if err != nil {
		return cfg, fmt.Errorf("RATE_LIMIT_TIMEZONE: %w", err)
	}
	cfg.Quota.Location = loc

	switch cfg.AI.Provider {
	case AIMock:
	case AIClaude:
		if strings.TrimSpace(cfg.AI.APIKey) == "" {
			return cfg, errors.New("CLAUDE_API_KEY is required when AI_PROVIDER=claude")
		}
	default:
		return cfg, errors.New("AI_PROVIDER must be one of: mock, claude")
	}
	if cfg.AI.Timeout <= 0 {
		return cfg, errors.New("AI_TIMEOUT must be > 0")
	}
	if cfg.AI.MaxTokens <= 0 {
		return cfg, errors.New("AI_MAX_TOKENS must be > 0")
	}

	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
