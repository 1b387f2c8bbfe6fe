package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.KeyStoreDir == "" {
		t.Error("KeyStoreDir is empty")
	}
	if cfg.Directory.Retries != 3 {
		t.Errorf("Retries = %d, want 3", cfg.Directory.Retries)
	}
	if cfg.Directory.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr = %q, want %q", cfg.Directory.ListenAddr, DefaultListenAddr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadFile_TOML(t *testing.T) {
	path := writeFile(t, "sealbox.toml", `
key_store_dir = "/tmp/keys"

[directory]
url = "https://keys.example.com"
token = "tok"
retries = 5

[log]
level = "debug"
format = "json"
`)

	cfg := Default()
	if err := cfg.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.KeyStoreDir != "/tmp/keys" {
		t.Errorf("KeyStoreDir = %q", cfg.KeyStoreDir)
	}
	if cfg.Directory.URL != "https://keys.example.com" || cfg.Directory.Token != "tok" || cfg.Directory.Retries != 5 {
		t.Errorf("Directory = %+v", cfg.Directory)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Directory.RateBurst != 20 {
		t.Errorf("RateBurst = %d, want default 20", cfg.Directory.RateBurst)
	}
	if !cfg.Log.JSON() {
		t.Error("Log.JSON() = false, want true")
	}
}

func TestLoadFile_YAML(t *testing.T) {
	for _, ext := range []string{".yaml", ".yml"} {
		path := writeFile(t, "sealbox"+ext, `
key_store_dir: /srv/keys
directory:
  url: http://localhost:8787
  listen_addr: 127.0.0.1:9000
log:
  level: info
`)
		cfg := Default()
		if err := cfg.LoadFile(path); err != nil {
			t.Fatalf("LoadFile(%s) error = %v", ext, err)
		}
		if cfg.KeyStoreDir != "/srv/keys" || cfg.Directory.URL != "http://localhost:8787" {
			t.Errorf("%s: cfg = %+v", ext, cfg)
		}
		if cfg.Directory.ListenAddr != "127.0.0.1:9000" {
			t.Errorf("%s: ListenAddr = %q", ext, cfg.Directory.ListenAddr)
		}
		level, _ := cfg.Log.SlogLevel()
		if level != slog.LevelInfo {
			t.Errorf("%s: level = %v, want info", ext, level)
		}
	}
}

func TestLoadFile_Errors(t *testing.T) {
	cfg := Default()

	if err := cfg.LoadFile(writeFile(t, "sealbox.json", "{}")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("LoadFile(.json) error = %v, want ErrUnsupportedFormat", err)
	}
	if err := cfg.LoadFile(writeFile(t, "bad.toml", "key_store_dir = ")); err == nil {
		t.Error("LoadFile(bad TOML): expected error")
	}
	if err := cfg.LoadFile(writeFile(t, "bad.yaml", "directory: [unclosed")); err == nil {
		t.Error("LoadFile(bad YAML): expected error")
	}
	if err := cfg.LoadFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadFile(missing): expected error")
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(mapLookup(map[string]string{
		"SEALBOX_KEY_STORE_DIR":     "/env/keys",
		"SEALBOX_DIRECTORY_URL":     "https://env.example.com",
		"SEALBOX_DIRECTORY_TOKEN":   "env-token",
		"SEALBOX_DIRECTORY_RETRIES": " 1 ",
		"SEALBOX_DIRECTORY_RATE":    "2.5",
		"SEALBOX_LOG_LEVEL":         "error",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}

	if cfg.KeyStoreDir != "/env/keys" || cfg.Directory.URL != "https://env.example.com" || cfg.Directory.Token != "env-token" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Directory.Retries != 1 || cfg.Directory.RateLimit != 2.5 {
		t.Errorf("Directory = %+v", cfg.Directory)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestApplyEnv_InvalidNumbers(t *testing.T) {
	for _, env := range []map[string]string{
		{"SEALBOX_DIRECTORY_RETRIES": "many"},
		{"SEALBOX_DIRECTORY_RATE": "fast"},
	} {
		if err := Default().ApplyEnv(mapLookup(env)); err == nil {
			t.Errorf("ApplyEnv(%v): expected error", env)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative retries", func(c *Config) { c.Directory.Retries = -1 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate(): expected error")
			}
		})
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeFile(t, "sealbox.toml", "[directory]\nurl = \"https://file.example.com\"\n")
	t.Setenv("SEALBOX_DIRECTORY_URL", "https://env.example.com")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Directory.URL != "https://env.example.com" {
		t.Errorf("URL = %q, want environment to win", cfg.Directory.URL)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "SEALBOX_TEST_DOTENV=from-file\nSEALBOX_TEST_PRESET=from-file\n")
	t.Setenv("SEALBOX_TEST_PRESET", "from-env")
	t.Setenv("SEALBOX_TEST_DOTENV", "")
	os.Unsetenv("SEALBOX_TEST_DOTENV")

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("SEALBOX_TEST_DOTENV"); got != "from-file" {
		t.Errorf("SEALBOX_TEST_DOTENV = %q, want from-file", got)
	}
	if got := os.Getenv("SEALBOX_TEST_PRESET"); got != "from-env" {
		t.Errorf("SEALBOX_TEST_PRESET = %q, want existing value kept", got)
	}
}
