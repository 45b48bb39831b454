package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL string // KNOTES_DATABASE_URL (required)
	HTTPAddr    string // KNOTES_HTTP_ADDR (default ":8080")
	NATSURL     string // KNOTES_NATS_URL (optional, empty = no events)

	// Auth settings. Exactly one source must be configured: static tokens
	// or an external verify endpoint.
	AuthTokens map[string]string // KNOTES_AUTH_TOKENS ("token=tenant,token=tenant")
	AuthURL    string            // KNOTES_AUTH_URL (external verify endpoint)
	RedisURL   string            // KNOTES_REDIS_URL (optional token cache for AuthURL)

	// Image upload settings
	S3Bucket   string        // KNOTES_S3_BUCKET (enables uploads when set)
	S3Endpoint string        // KNOTES_S3_ENDPOINT (custom endpoint for MinIO)
	S3Region   string        // KNOTES_S3_REGION (default "us-east-1")
	UploadTTL  time.Duration // KNOTES_UPLOAD_URL_TTL (default 168h)
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL: os.Getenv("KNOTES_DATABASE_URL"),
		HTTPAddr:    envOrDefault("KNOTES_HTTP_ADDR", ":8080"),
		NATSURL:     os.Getenv("KNOTES_NATS_URL"),
		AuthURL:     os.Getenv("KNOTES_AUTH_URL"),
		RedisURL:    os.Getenv("KNOTES_REDIS_URL"),
		S3Bucket:    os.Getenv("KNOTES_S3_BUCKET"),
		S3Endpoint:  os.Getenv("KNOTES_S3_ENDPOINT"),
		S3Region:    envOrDefault("KNOTES_S3_REGION", "us-east-1"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("KNOTES_DATABASE_URL is required")
	}

	if raw := os.Getenv("KNOTES_AUTH_TOKENS"); raw != "" {
		tokens, err := parseTokens(raw)
		if err != nil {
			return nil, fmt.Errorf("KNOTES_AUTH_TOKENS: %w", err)
		}
		c.AuthTokens = tokens
	}
	if len(c.AuthTokens) == 0 && c.AuthURL == "" {
		return nil, fmt.Errorf("either KNOTES_AUTH_TOKENS or KNOTES_AUTH_URL is required")
	}
	if len(c.AuthTokens) > 0 && c.AuthURL != "" {
		return nil, fmt.Errorf("KNOTES_AUTH_TOKENS and KNOTES_AUTH_URL are mutually exclusive")
	}

	ttlStr := envOrDefault("KNOTES_UPLOAD_URL_TTL", "168h")
	d, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("KNOTES_UPLOAD_URL_TTL: %w", err)
	}
	c.UploadTTL = d

	return c, nil
}

// parseTokens parses "token=tenant,token=tenant" pairs.
func parseTokens(raw string) (map[string]string, error) {
	tokens := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		token, tenant, ok := strings.Cut(pair, "=")
		if !ok || token == "" || tenant == "" {
			return nil, fmt.Errorf("malformed pair %q, want token=tenant", pair)
		}
		tokens[token] = tenant
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("no token=tenant pairs")
	}
	return tokens, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
