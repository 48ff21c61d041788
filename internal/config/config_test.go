package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleYAML = `server:
  port: 8080
database:
  driver: mysql
  host: localhost
  port: 3306
  user: app
  password: secret
  name: wearcheck
openai:
  apiKey: file-key
  model: gpt-4o
  mode: chat
limits:
  maxImageMB: 20
auth:
  adminKeys:
    ops: admin-key
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
	if cfg.Database.Driver != "mysql" || cfg.Database.Name != "wearcheck" {
		t.Fatalf("database section mismatch: %+v", cfg.Database)
	}
	if cfg.OpenAI.APIKey != "file-key" || cfg.OpenAI.Mode != "chat" {
		t.Fatalf("openai section mismatch: %+v", cfg.OpenAI)
	}
	if cfg.Auth.AdminKeys["ops"] != "admin-key" {
		t.Fatalf("auth section mismatch: %+v", cfg.Auth)
	}
}

func TestLoad_EnvOverridesCredential(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OpenAI.APIKey != "env-key" {
		t.Fatalf("env credential not applied: %q", cfg.OpenAI.APIKey)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestMySQLDSN(t *testing.T) {
	cfg, _ := Load(writeConfig(t, sampleYAML))
	dsn := cfg.MySQLDSN()
	if !strings.Contains(dsn, "app:secret@tcp(localhost:3306)/wearcheck") {
		t.Fatalf("unexpected dsn: %s", dsn)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Fatalf("dsn must enable parseTime: %s", dsn)
	}
}

func TestPostgresDSN_DefaultSSLMode(t *testing.T) {
	cfg, _ := Load(writeConfig(t, sampleYAML))
	dsn := cfg.PostgresDSN()
	if !strings.Contains(dsn, "sslmode=disable") {
		t.Fatalf("expected sslmode default: %s", dsn)
	}
	if !strings.Contains(dsn, "dbname=wearcheck") {
		t.Fatalf("unexpected dsn: %s", dsn)
	}
}
