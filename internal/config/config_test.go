package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPAddr != ":8080" {
		t.Errorf("http_addr = %q", cfg.Server.HTTPAddr)
	}
	if cfg.Cache.TTL != 10*time.Minute || cfg.Cache.Backend != CacheMemory {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Source.Driver != DriverREST || cfg.Source.Timeout != 15*time.Second {
		t.Errorf("source = %+v", cfg.Source)
	}
}

func TestLoadSecretsFromBareEnv(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co")
	t.Setenv("SUPABASE_KEY", "anon-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Supabase.URL != "https://abc.supabase.co" || cfg.Supabase.Key != "anon-key" {
		t.Errorf("supabase = %+v", cfg.Supabase)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFileAndPrefixedEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "supabase:\n  url: https://file.supabase.co\n  key: file-key\ncache:\n  ttl: 2m\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PIVOT_SERVER_HTTP_ADDR", ":9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Supabase.Key != "file-key" || cfg.Cache.TTL != 2*time.Minute {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Server.HTTPAddr != ":9090" {
		t.Errorf("env override not applied: %q", cfg.Server.HTTPAddr)
	}
}

func TestValidateMissingSecrets(t *testing.T) {
	for _, name := range []string{"SUPABASE_URL", "SUPABASE_KEY", "PIVOT_SUPABASE_URL", "PIVOT_SUPABASE_KEY"} {
		t.Setenv(name, "")
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load with absent file: %v", err)
	}

	err = cfg.Validate()
	if err == nil {
		t.Fatal("Validate: expected error without secrets")
	}
	for _, want := range []string{"supabase.url", "supabase.key"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestValidatePostgresDriver(t *testing.T) {
	cfg := Config{
		Source: SourceConfig{Driver: DriverPostgres},
		Cache:  CacheConfig{Backend: CacheMemory},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error without dsn")
	}
	cfg.DB.DSN = "postgres://localhost/predictions"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
