package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("KNOTES_DATABASE_URL", "postgres://localhost/knotes")
	t.Setenv("KNOTES_AUTH_TOKENS", "tok-alice=alice")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", c.HTTPAddr)
	}
	if c.S3Region != "us-east-1" {
		t.Errorf("S3Region = %q", c.S3Region)
	}
	if c.UploadTTL != 168*time.Hour {
		t.Errorf("UploadTTL = %v", c.UploadTTL)
	}
	if c.NATSURL != "" || c.S3Bucket != "" {
		t.Errorf("optional settings not empty: %+v", c)
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("KNOTES_DATABASE_URL", "")
	t.Setenv("KNOTES_AUTH_TOKENS", "tok-alice=alice")

	if _, err := Load(); err == nil {
		t.Error("expected error without KNOTES_DATABASE_URL")
	}
}

func TestLoad_TokenPairs(t *testing.T) {
	setRequired(t)
	t.Setenv("KNOTES_AUTH_TOKENS", "tok-alice=alice, tok-bob=bob")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := map[string]string{"tok-alice": "alice", "tok-bob": "bob"}
	if len(c.AuthTokens) != len(want) {
		t.Fatalf("AuthTokens = %v", c.AuthTokens)
	}
	for token, tenant := range want {
		if c.AuthTokens[token] != tenant {
			t.Errorf("AuthTokens[%q] = %q, want %q", token, c.AuthTokens[token], tenant)
		}
	}
}

func TestLoad_MalformedTokenPair(t *testing.T) {
	setRequired(t)
	t.Setenv("KNOTES_AUTH_TOKENS", "tok-without-tenant")

	if _, err := Load(); err == nil {
		t.Error("expected error for malformed pair")
	}
}

func TestLoad_NoAuthSource(t *testing.T) {
	t.Setenv("KNOTES_DATABASE_URL", "postgres://localhost/knotes")
	t.Setenv("KNOTES_AUTH_TOKENS", "")
	t.Setenv("KNOTES_AUTH_URL", "")

	if _, err := Load(); err == nil {
		t.Error("expected error without any auth source")
	}
}

func TestLoad_BothAuthSources(t *testing.T) {
	setRequired(t)
	t.Setenv("KNOTES_AUTH_URL", "https://id.example.com/verify")

	if _, err := Load(); err == nil {
		t.Error("expected error with both auth sources configured")
	}
}

func TestLoad_AuthURLOnly(t *testing.T) {
	t.Setenv("KNOTES_DATABASE_URL", "postgres://localhost/knotes")
	t.Setenv("KNOTES_AUTH_TOKENS", "")
	t.Setenv("KNOTES_AUTH_URL", "https://id.example.com/verify")
	t.Setenv("KNOTES_REDIS_URL", "redis://localhost:6379/0")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.AuthURL == "" || c.RedisURL == "" {
		t.Errorf("config = %+v", c)
	}
}

func TestLoad_BadUploadTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("KNOTES_UPLOAD_URL_TTL", "nonsense")

	if _, err := Load(); err == nil {
		t.Error("expected error for unparseable TTL")
	}
}
