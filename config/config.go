package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConfig struct {
	Port            string
	DBDriver        string // sqlite|postgres
	DBPath          string
	DatabaseURL     string
	RedisAddr       string // empty selects the in-process cache
	RedisPassword   string
	RedisDB         int
	CacheTTL        time.Duration
	LogLevel        string
	LogFormat       string // console|json
	SeedDemo        bool
	ShutdownTimeout time.Duration
}

// Load reads .env (when present), then an optional agro.yaml in the working
// directory, then the environment. Environment values win.
func Load() (AppConfig, error) { return LoadFile("") }

// LoadFile is Load with an explicit yaml file instead of the agro.yaml lookup.
func LoadFile(path string) (AppConfig, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_path", "agro.db")
	v.SetDefault("database_url", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("cache_ttl", "30s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("seed_demo", false)
	v.SetDefault("shutdown_timeout", "10s")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("agro")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return AppConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := AppConfig{
		Port:            v.GetString("port"),
		DBDriver:        strings.ToLower(v.GetString("db_driver")),
		DBPath:          v.GetString("db_path"),
		DatabaseURL:     v.GetString("database_url"),
		RedisAddr:       v.GetString("redis_addr"),
		RedisPassword:   v.GetString("redis_password"),
		RedisDB:         v.GetInt("redis_db"),
		CacheTTL:        v.GetDuration("cache_ttl"),
		LogLevel:        strings.ToLower(v.GetString("log_level")),
		LogFormat:       strings.ToLower(v.GetString("log_format")),
		SeedDemo:        v.GetBool("seed_demo"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
	}
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c AppConfig) Validate() error {
	var errs []string

	if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
		errs = append(errs, fmt.Sprintf("PORT (%q) must be 1-65535", c.Port))
	}
	switch c.DBDriver {
	case "sqlite":
		if c.DBPath == "" {
			errs = append(errs, "DB_PATH is required for the sqlite driver")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required for the postgres driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("DB_DRIVER (%q) must be sqlite or postgres", c.DBDriver))
	}
	if c.RedisDB < 0 {
		errs = append(errs, "REDIS_DB must be non-negative")
	}
	if c.CacheTTL < 0 {
		errs = append(errs, "CACHE_TTL must be non-negative")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.LogLevel))
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be console or json", c.LogFormat))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, "SHUTDOWN_TIMEOUT must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c AppConfig) Addr() string { return ":" + c.Port }
