package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// dashboard client
	APIBase         string        // backend base URL, e.g. "http://localhost:8080"
	SessionFile     string        // where the token is persisted
	LogDir          string        // logs directory
	LogLevel        string        // debug|info|warn|error
	PollInterval    time.Duration // list/detail refresh cadence
	HTTPTimeout     time.Duration // per request
	SlackWebhookURL string        // empty disables Slack alerts
	AlertCooldown   time.Duration // min gap between DOWN alerts per website
	AlertOnRecovery bool

	// reference backend
	Addr          string        // bind address, e.g. "127.0.0.1:8080" or ":8080" in Docker
	JWTSecret     string        // HS256 signing key
	TokenTTL      time.Duration // issued jwt lifetime
	CheckInterval time.Duration // how often every website is probed
	RetryAttempts int           // how many times to retry an HTTP check
	RetryBackoff  time.Duration // backoff between retries
	PublicRPM     int           // per-IP requests per minute on unauthenticated routes
	PublicBurst   int
}

// FromEnv reads the environment, after loading ./.env when one exists.
// Values already set in the environment win over the file.
func FromEnv() Config {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}

	sessionFile := os.Getenv("SESSION_FILE")
	if sessionFile == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = "."
		}
		sessionFile = filepath.Join(home, ".upmonitor", "session.json")
	}

	return Config{
		APIBase:         strings.TrimRight(getenv("API_BASE", "http://localhost:8080"), "/"),
		SessionFile:     sessionFile,
		LogDir:          getenv("LOG_DIR", "logs"),
		LogLevel:        strings.ToLower(getenv("LOG_LEVEL", "info")),
		PollInterval:    millis("POLL_INTERVAL_MS", 60*time.Second, false),
		HTTPTimeout:     millis("HTTP_TIMEOUT_MS", 10*time.Second, false),
		SlackWebhookURL: os.Getenv("SLACK_WEBHOOK_URL"),
		AlertCooldown:   millis("ALERT_COOLDOWN_MS", 5*time.Minute, true),
		AlertOnRecovery: boolean("ALERT_ON_RECOVERY", true),

		Addr:          getenv("API_ADDR", "127.0.0.1:8080"),
		JWTSecret:     getenv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:      minutes("TOKEN_TTL_MIN", 24*time.Hour),
		CheckInterval: millis("CHECK_INTERVAL_MS", 60*time.Second, false),
		RetryAttempts: positive("RETRY_ATTEMPTS", 2),
		RetryBackoff:  millis("RETRY_BACKOFF_MS", 300*time.Millisecond, true),
		PublicRPM:     positive("PUBLIC_RPM", 60),
		PublicBurst:   positive("PUBLIC_BURST", 10),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// millis parses a millisecond count. Zero is accepted only when allowZero.
func millis(key string, def time.Duration, allowZero bool) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms < 0 || (ms == 0 && !allowZero) {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func minutes(key string, def time.Duration) time.Duration {
	if n := positive(key, 0); n > 0 {
		return time.Duration(n) * time.Minute
	}
	return def
}

func positive(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func boolean(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
