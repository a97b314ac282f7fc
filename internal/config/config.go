package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	BaseURL            string        `mapstructure:"testrail_url"`
	Username           string        `mapstructure:"testrail_user"`
	Password           string        `mapstructure:"testrail_password"`
	InsecureSkipVerify bool          `mapstructure:"testrail_insecure_skip_verify"`
	TimeoutSeconds     int64         `mapstructure:"testrail_timeout_seconds"`
	Timeout            time.Duration `mapstructure:"-"`

	JournalType            string        `mapstructure:"journal_type"`
	JournalPath            string        `mapstructure:"journal_path"`
	JournalTTLSeconds      int64         `mapstructure:"journal_ttl_seconds"`
	JournalCleanupSeconds  int64         `mapstructure:"journal_cleanup_interval_seconds"`
	JournalLockTimeoutMS   int64         `mapstructure:"journal_lock_timeout_ms"`
	JournalTTL             time.Duration `mapstructure:"-"`
	JournalCleanupInterval time.Duration `mapstructure:"-"`
	JournalLockTimeout     time.Duration `mapstructure:"-"`

	PublishersFile        string        `mapstructure:"publishers_file"`
	PublishTimeoutSeconds int64         `mapstructure:"publish_timeout_seconds"`
	PublishTimeout        time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
// TESTRAIL_URL is required.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("TESTRAIL_URL is required")
	}
	return cfg, nil
}

// LoadLocal reads the same configuration as Load without requiring the
// TestRail connection settings, for commands that only touch local state.
func LoadLocal() (*Config, error) {
	return load()
}

func load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "testrail-gateway")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("testrail_url", "")
	v.SetDefault("testrail_user", "")
	v.SetDefault("testrail_password", "")
	v.SetDefault("testrail_insecure_skip_verify", false)
	v.SetDefault("testrail_timeout_seconds", 30)
	v.SetDefault("journal_type", "bbolt")
	v.SetDefault("journal_path", "./data/journal.db")
	v.SetDefault("journal_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("journal_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
	v.SetDefault("journal_lock_timeout_ms", 1000)
	v.SetDefault("publishers_file", "")
	v.SetDefault("publish_timeout_seconds", 10)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)

	if cfg.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid testrail_timeout_seconds (must be positive seconds)")
	}
	cfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second

	if cfg.JournalTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid journal_ttl_seconds (must be positive seconds)")
	}
	if cfg.JournalCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid journal_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.JournalTTL = time.Duration(cfg.JournalTTLSeconds) * time.Second
	cfg.JournalCleanupInterval = time.Duration(cfg.JournalCleanupSeconds) * time.Second

	if cfg.JournalLockTimeoutMS <= 0 {
		return nil, fmt.Errorf("invalid journal_lock_timeout_ms (must be positive milliseconds)")
	}
	cfg.JournalLockTimeout = time.Duration(cfg.JournalLockTimeoutMS) * time.Millisecond

	if cfg.PublishTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid publish_timeout_seconds (must be positive seconds)")
	}
	cfg.PublishTimeout = time.Duration(cfg.PublishTimeoutSeconds) * time.Second

	return &cfg, nil
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.Password != "" {
		c.Password = "***"
	}
	return c
}
