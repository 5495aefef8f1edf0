package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the gateway. Read once at startup;
// read-only afterwards, so no locking is needed across requests.
type Config struct {
	Port      int
	Backends  BackendConfig
	Secret    string
	CORS      CORSConfig
	Cookie    CookieConfig
	Telemetry TelemetryConfig
}

// BackendConfig carries the base URL of each downstream service.
type BackendConfig struct {
	AuthURL string
	UserURL string
	LinkURL string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// CookieConfig controls the refresh-token cookie attributes.
type CookieConfig struct {
	Secure bool
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

// Load reads configuration from environment variables. The backend base
// URLs, the gateway secret and the listening port have no defaults: a
// gateway that cannot prove itself to its backends must not start, so Load
// fails naming every missing variable at once.
func Load() (*Config, error) {
	var missing []string
	require := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := &Config{
		Backends: BackendConfig{
			AuthURL: require("AUTH_SERVICE_URL"),
			UserURL: require("USER_SERVICE_URL"),
			LinkURL: require("LINK_SERVICE_URL"),
		},
		Secret: require("API_GATEWAY_SECRET"),
		CORS: CORSConfig{
			AllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Cookie: CookieConfig{
			Secure: envBool("COOKIE_SECURE", false),
		},
		Telemetry: TelemetryConfig{
			Enabled:      envBool("OTEL_ENABLED", false),
			OTLPEndpoint: envStr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:  envStr("OTEL_SERVICE_NAME", "shortify-gateway"),
		},
	}

	port := require("PORT")
	if len(missing) > 0 {
		return nil, fmt.Errorf("env not configured: missed %s", strings.Join(missing, ", "))
	}

	p, err := strconv.Atoi(port)
	if err != nil || p <= 0 {
		return nil, fmt.Errorf("env PORT is not a valid port: %q", port)
	}
	cfg.Port = p

	return cfg, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
