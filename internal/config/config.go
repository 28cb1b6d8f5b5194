package config

import (
	"os"
	"strconv"
	"time"
)

// Reason policies decide which reason pair a submitted report carries.
const (
	// ReasonPolicyFixed always sends the SENSITIVE/OFFENSIVE pair regardless
	// of what the viewer picked in the selector.
	ReasonPolicyFixed = "fixed"
	// ReasonPolicySelected sends the category and subcategory from the form.
	ReasonPolicySelected = "selected"
)

// Config holds application configuration derived from environment variables.
type Config struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	RedisAddr    string
	ServiceName  string
	AppName      string
	// Lens GraphQL API
	LensAPIURL  string
	LensTimeout time.Duration
	// Fixed viewer for the MCP and CLI front ends
	LensViewerAddress string
	LensAccessToken   string
	// Session cookie handling
	SessionSecret string
	SessionCookie string
	SessionTTL    time.Duration
	// Report submission. ReasonPolicy is parsed by report.ParseReasonPolicy.
	ReasonPolicy            string
	RateLimitEnabled        bool
	RateLimitCapacity       int
	RateLimitRefillInterval time.Duration
	// Tracing configuration
	TracingEnabled    bool
	TempoEndpoint     string
	TracingSampleRate float64
}

// Load parses environment variables and returns a Config populated with
// defaults when variables are absent.
func Load() Config {
	cfg := Config{}

	cfg.Port = getenv("PORT", "8787")
	cfg.ReadTimeout = envDuration("READ_TIMEOUT", 5*time.Second)
	cfg.WriteTimeout = envDuration("WRITE_TIMEOUT", 10*time.Second)
	cfg.RedisAddr = getenv("REDIS_ADDR", "localhost:6379")
	cfg.ServiceName = getenv("SERVICE_NAME", "pubreport")
	cfg.AppName = getenv("APP_NAME", "Lenster")

	cfg.LensAPIURL = getenv("LENS_API_URL", "https://api.lens.dev")
	cfg.LensTimeout = envDuration("LENS_TIMEOUT", 10*time.Second)
	cfg.LensViewerAddress = getenv("LENS_VIEWER_ADDRESS", "")
	cfg.LensAccessToken = getenv("LENS_ACCESS_TOKEN", "")

	cfg.SessionSecret = getenv("SESSION_SECRET", "")
	cfg.SessionCookie = getenv("SESSION_COOKIE", "pubreport_session")
	cfg.SessionTTL = envDuration("SESSION_TTL", 24*time.Hour)

	cfg.ReasonPolicy = getenv("REPORT_REASON_POLICY", "fixed")
	cfg.RateLimitEnabled = envBool("RATE_LIMIT_ENABLED", true)
	// burst of 5, then one report every 12 seconds
	cfg.RateLimitCapacity = envInt("RATE_LIMIT_CAPACITY", 5)
	cfg.RateLimitRefillInterval = envDuration("RATE_LIMIT_REFILL_INTERVAL", 12*time.Second)

	// Tracing configuration
	cfg.TracingEnabled = envBool("TRACING_ENABLED", false)
	cfg.TempoEndpoint = getenv("TEMPO_ENDPOINT", "tempo:4317")
	cfg.TracingSampleRate = envFloat("TRACING_SAMPLE_RATE", 1.0)

	return cfg
}

// getenv returns the value of the environment variable if set, otherwise def.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envDuration parses an environment variable into a time.Duration.
// The value can be a duration string (e.g. "5s") or a number of seconds.
// If the variable is unset or invalid, def is returned.
func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

// envBool parses a boolean environment variable. Accepted values are those
// supported by strconv.ParseBool. When unset or invalid, def is returned.
func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return def
}

// envInt parses an integer environment variable. When unset or invalid, def is returned.
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	return def
}

// envFloat parses a float64 environment variable. When unset or invalid, def is returned.
func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return def
}
