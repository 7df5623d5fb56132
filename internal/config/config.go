// Package config handles configuration loading for fast10k.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/komsit37/fast10k/internal/errs"
)

// Config is a value-typed snapshot of process-wide settings, loaded once at
// startup and immutable thereafter.
type Config struct {
	DatabasePath          string `mapstructure:"database_path"`
	DownloadDir           string `mapstructure:"download_dir"`
	EdinetAPIKey          string `mapstructure:"edinet_api_key" json:"-"`
	HTTPTimeoutSeconds    int    `mapstructure:"http_timeout_s"`
	UserAgent             string `mapstructure:"user_agent"`
	EdinetAPIDelayMs      int    `mapstructure:"edinet_api_delay_ms"`
	EdinetDownloadDelayMs int    `mapstructure:"edinet_download_delay_ms"`
	EdgarAPIDelayMs       int    `mapstructure:"edgar_api_delay_ms"`
	IndexStalenessDays    int    `mapstructure:"index_staleness_days"`
	DownloadConcurrency   int    `mapstructure:"download_concurrency"`
	LogLevel              string `mapstructure:"log_level"`
	LogFormat             string `mapstructure:"log_format"`
}

// Load reads configuration from file and environment variables.
// Config file search order:
//  1. ./config/fast10k.yaml (project root)
//  2. ~/.fast10k/fast10k.yaml (home directory)
//  3. /etc/fast10k/fast10k.yaml (system)
//
// Environment variables override config file values. Format:
// FAST10K_<KEY>, e.g. FAST10K_EDINET_API_KEY.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("fast10k")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".fast10k"))
	v.AddConfigPath("/etc/fast10k")

	v.SetEnvPrefix("FAST10K")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if key := os.Getenv("FAST10K_EDINET_API_KEY"); key != "" {
		cfg.EdinetAPIKey = key
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path, bypassing the
// default search path. Used by tests and by callers pinning an explicit
// config location.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("FAST10K")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if key := os.Getenv("FAST10K_EDINET_API_KEY"); key != "" {
		cfg.EdinetAPIKey = key
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database_path", "./fast10k.db")
	v.SetDefault("download_dir", "./downloads")
	v.SetDefault("http_timeout_s", 30)
	v.SetDefault("user_agent", "fast10k/0.1")
	v.SetDefault("edinet_api_delay_ms", 100)
	v.SetDefault("edinet_download_delay_ms", 200)
	v.SetDefault("edgar_api_delay_ms", 100)
	v.SetDefault("index_staleness_days", 2)
	v.SetDefault("download_concurrency", 8)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// validate fails loudly on unparsable integers or non-absolute paths that
// cannot be canonicalized. Integer fields come through
// viper/mapstructure already typed, so the only remaining check is that
// they weren't coerced into something nonsensical (negative delays, a zero
// timeout) and that the path fields resolve to an absolute form.
func validate(cfg *Config) error {
	if cfg.HTTPTimeoutSeconds <= 0 {
		return &errs.ConfigError{Key: "http_timeout_s", Detail: "must be a positive integer"}
	}
	if cfg.EdinetAPIDelayMs < 0 || cfg.EdinetDownloadDelayMs < 0 || cfg.EdgarAPIDelayMs < 0 {
		return &errs.ConfigError{Key: "*_delay_ms", Detail: "must be non-negative"}
	}
	if strings.TrimSpace(cfg.UserAgent) == "" {
		return &errs.ConfigError{Key: "user_agent", Detail: "must not be empty; SEC requires an identifying User-Agent"}
	}
	if cfg.DownloadConcurrency <= 0 {
		return &errs.ConfigError{Key: "download_concurrency", Detail: "must be a positive integer"}
	}
	if cfg.IndexStalenessDays < 0 {
		return &errs.ConfigError{Key: "index_staleness_days", Detail: "must be non-negative"}
	}

	abs, err := canonicalizeAbs(cfg.DatabasePath)
	if err != nil {
		return &errs.ConfigError{Key: "database_path", Detail: err.Error()}
	}
	cfg.DatabasePath = abs

	abs, err = canonicalizeAbs(cfg.DownloadDir)
	if err != nil {
		return &errs.ConfigError{Key: "download_dir", Detail: err.Error()}
	}
	cfg.DownloadDir = abs

	return nil
}

func canonicalizeAbs(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("must not be empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot canonicalize %q: %w", path, err)
	}
	return abs, nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
