package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("STORE_BACKEND", "file")

	cfg, err := fromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetWeightsFile() != "data/weights.json" {
		t.Fatalf("unexpected weights file %q", cfg.GetWeightsFile())
	}
	if cfg.GetRoofDataCacheTTL() != 24*time.Hour {
		t.Fatalf("expected 24h roof cache ttl, got %s", cfg.GetRoofDataCacheTTL())
	}
	if cfg.IsRedisEnabled() {
		t.Fatalf("redis must be disabled without REDIS_URL")
	}
}

func TestFromEnvPostgresRequiresDatabaseURL(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")

	if _, err := fromEnv(); err == nil {
		t.Fatalf("expected error when DATABASE_URL is missing")
	}
}

func TestFromEnvRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "s3")

	if _, err := fromEnv(); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestFromEnvGateNeedsSecret(t *testing.T) {
	t.Setenv("STORE_BACKEND", "file")
	t.Setenv("GATE_PASSPHRASE", "sunshine")
	t.Setenv("GATE_TOKEN_SECRET", "")

	if _, err := fromEnv(); err == nil {
		t.Fatalf("expected error when gate secret is missing")
	}

	t.Setenv("GATE_TOKEN_SECRET", "secret")
	cfg, err := fromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.IsGateEnabled() {
		t.Fatalf("expected gate enabled")
	}
}

func TestFromEnvWildcardCORSForbidsCredentials(t *testing.T) {
	t.Setenv("STORE_BACKEND", "file")
	t.Setenv("CORS_ORIGINS", "https://a.example, *")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	if _, err := fromEnv(); err == nil {
		t.Fatalf("expected error for wildcard origin with credentials")
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" a, ,b ,c")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected split result %v", got)
	}
}
