package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "SEALBOX_"

// DefaultListenAddr is the default address of the development directory server.
const DefaultListenAddr = ":8787"

// ErrUnsupportedFormat is returned for config files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config holds the sealbox command settings.
type Config struct {
	KeyStoreDir string          `toml:"key_store_dir" yaml:"key_store_dir"`
	Directory   DirectoryConfig `toml:"directory" yaml:"directory"`
	Log         LogConfig       `toml:"log" yaml:"log"`
}

// DirectoryConfig configures the public-key directory client and server.
type DirectoryConfig struct {
	URL        string  `toml:"url" yaml:"url"`
	Token      string  `toml:"token" yaml:"token"`
	Retries    int     `toml:"retries" yaml:"retries"`
	RateLimit  float64 `toml:"rate_limit" yaml:"rate_limit"`
	RateBurst  int     `toml:"rate_burst" yaml:"rate_burst"`
	ListenAddr string  `toml:"listen_addr" yaml:"listen_addr"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		KeyStoreDir: defaultKeyStoreDir(),
		Directory: DirectoryConfig{
			Retries:    3,
			RateLimit:  10,
			RateBurst:  20,
			ListenAddr: DefaultListenAddr,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

func defaultKeyStoreDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".sealbox", "keys")
	}
	return filepath.Join(dir, "sealbox", "keys")
}

// Load returns the defaults overlaid with the file at path and the process
// environment. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile decodes the file at path over cfg.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("parse TOML config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse YAML config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return nil
}

// ApplyEnv overrides settings from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}

	str("KEY_STORE_DIR", &c.KeyStoreDir)
	str("DIRECTORY_URL", &c.Directory.URL)
	str("DIRECTORY_TOKEN", &c.Directory.Token)
	str("LISTEN_ADDR", &c.Directory.ListenAddr)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	if v, ok := lookup(EnvPrefix + "DIRECTORY_RETRIES"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sDIRECTORY_RETRIES: %w", EnvPrefix, err)
		}
		c.Directory.Retries = n
	}
	if v, ok := lookup(EnvPrefix + "DIRECTORY_RATE"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%sDIRECTORY_RATE: %w", EnvPrefix, err)
		}
		c.Directory.RateLimit = f
	}
	return nil
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if c.Directory.Retries < 0 {
		return fmt.Errorf("directory.retries must be >= 0, got %d", c.Directory.Retries)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelWarn, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// JSON reports whether the JSON log format is selected.
func (l LogConfig) JSON() bool {
	return strings.EqualFold(l.Format, "json")
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}
