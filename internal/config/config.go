package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/noah-isme/cart-pricing/internal/pricing"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	LogFormat          string
	LogLevel           string
	MetricsNamespace   string
	MetricsEnabled     bool
	TracingEnabled     bool
	OTLPEndpoint       string
	TracingSampling    float64
	CORSAllowedOrigins []string
	QuoteRateLimit     string
	Pricing            pricing.Policy
}

// Load reads configuration from environment variables and optional .env files.
// Pricing overrides fall back to pricing.DefaultPolicy and are validated.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	def := pricing.DefaultPolicy()
	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		LogFormat:          valueOrDefault(k.String("LOG_FORMAT"), "json"),
		LogLevel:           valueOrDefault(k.String("LOG_LEVEL"), "info"),
		MetricsNamespace:   valueOrDefault(k.String("METRICS_NAMESPACE"), "cart_pricing"),
		MetricsEnabled:     parseBool(k.String("METRICS_ENABLED"), true),
		TracingEnabled:     parseBool(k.String("TRACING_ENABLED"), false),
		OTLPEndpoint:       strings.TrimSpace(k.String("OTLP_ENDPOINT")),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		QuoteRateLimit:     valueOrDefault(k.String("QUOTE_RATE_LIMIT"), "600-M"),
	}

	var err error
	if cfg.TracingSampling, err = parseFloat("TRACING_SAMPLING_RATIO", k.String("TRACING_SAMPLING_RATIO"), 1); err != nil {
		return nil, err
	}
	cfg.Pricing = pricing.Policy{Currency: valueOrDefault(k.String("PRICING_CURRENCY"), def.Currency)}
	floats := []struct {
		key      string
		dst      *float64
		fallback float64
	}{
		{"PRICING_TAX_RATE", &cfg.Pricing.TaxRate, def.TaxRate},
		{"PRICING_MEMBER_DISCOUNT_RATE", &cfg.Pricing.MemberDiscountRate, def.MemberDiscountRate},
		{"PRICING_BIG_SPENDER_THRESHOLD", &cfg.Pricing.BigSpenderThreshold, def.BigSpenderThreshold},
		{"PRICING_BIG_SPENDER_DISCOUNT", &cfg.Pricing.BigSpenderDiscount, def.BigSpenderDiscount},
		{"PRICING_COUPON_DISCOUNT_RATE", &cfg.Pricing.CouponDiscountRate, def.CouponDiscountRate},
	}
	for _, f := range floats {
		if *f.dst, err = parseFloat(f.key, k.String(f.key), f.fallback); err != nil {
			return nil, err
		}
	}
	if err := cfg.Pricing.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseFloat(key, value string, fallback float64) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func parseBool(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "t", "true", "yes", "on":
		return true
	case "0", "f", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
