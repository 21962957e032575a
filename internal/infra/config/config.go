package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env              string
	HTTPAddr         string
	BackendBaseURL   string
	BackendTimeout   time.Duration
	CookieDomain     string
	CookieSecure     bool
	CookieMaxAge     time.Duration
	MongoURI         string
	MongoDB          string
	KafkaBrokers     []string
	KafkaTopicPrefix string
	IdempotencyTTL   time.Duration
	RateLimitPerMin  int
	BreakerMaxFails  uint32
	BreakerCooldown  time.Duration
	S3Endpoint       string
	S3PublicEndpoint string
	S3AccessKey      string
	S3SecretKey      string
	S3Bucket         string
	S3UseSSL         bool
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		BackendBaseURL:   strings.TrimRight(os.Getenv("BACKEND_BASE_URL"), "/"),
		CookieDomain:     getEnv("COOKIE_DOMAIN", ""),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "bizbay"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		S3Endpoint:       getEnv("S3_ENDPOINT", "http://localhost:9000"),
		S3PublicEndpoint: getEnv("S3_PUBLIC_ENDPOINT", ""),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:      getEnv("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:         getEnv("S3_BUCKET", "bizbay-proofs"),
	}
	if cfg.BackendBaseURL == "" {
		return Config{}, fmt.Errorf("BACKEND_BASE_URL is required")
	}
	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		for _, raw := range strings.Split(brokers, ",") {
			if b := strings.TrimSpace(raw); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	backendTimeout, err := parseDurationEnv("BACKEND_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.BackendTimeout = backendTimeout

	cookieMaxAge, err := parseDurationEnv("COOKIE_MAX_AGE", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.CookieMaxAge = cookieMaxAge

	idempotencyTTL, err := parseDurationEnv("IDEMP_TTL", 168*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.IdempotencyTTL = idempotencyTTL

	cooldown, err := parseDurationEnv("BREAKER_COOLDOWN", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.BreakerCooldown = cooldown

	maxFails, err := parseIntEnv("BREAKER_MAX_FAILURES", 5)
	if err != nil {
		return Config{}, err
	}
	cfg.BreakerMaxFails = uint32(maxFails)

	perMin, err := parseIntEnv("RATE_LIMIT_PER_MINUTE", 300)
	if err != nil {
		return Config{}, err
	}
	cfg.RateLimitPerMin = perMin

	cookieSecure, err := parseBoolEnv("COOKIE_SECURE", cfg.Env != "dev" && cfg.Env != "local")
	if err != nil {
		return Config{}, err
	}
	cfg.CookieSecure = cookieSecure

	useSSL, err := parseBoolEnv("S3_USE_SSL", false)
	if err != nil {
		return Config{}, err
	}
	cfg.S3UseSSL = useSSL
	if cfg.S3PublicEndpoint == "" {
		cfg.S3PublicEndpoint = cfg.S3Endpoint
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s integer: %q", key, raw)
	}
	return v, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
