// Package config loads runtime settings from defaults, an optional YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

const (
	envPrefix        = "CATALOG"
	configFileEnv    = "CONFIG_FILE"
	StorageMemory    = "memory"
	StoragePostgres  = "postgres"
	defaultAddr      = ":8080"
	defaultRedisAddr = "localhost:6379"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Log       LogConfig
	Catalog   CatalogConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type StorageConfig struct {
	Driver      string
	DatabaseURL string
	Migrate     bool
}

type RedisConfig struct {
	Enabled bool
	Addr    string
}

type LogConfig struct {
	Level string
}

// CatalogConfig holds the intake rule and display settings.
type CatalogConfig struct {
	DailyLimit     int
	Locale         string
	CurrencySymbol string
}

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", defaultAddr)
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("storage.driver", StorageMemory)
	v.SetDefault("storage.migrate", true)
	v.SetDefault("database.url", "")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", defaultRedisAddr)
	v.SetDefault("log.level", "info")
	v.SetDefault("catalog.daily_limit", 500)
	v.SetDefault("catalog.locale", "en-US")
	v.SetDefault("catalog.currency_symbol", "$")
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.rps", 1.0)
	v.SetDefault("ratelimit.burst", 3)
}

// Load resolves configuration. Precedence: environment, then the file named
// by CONFIG_FILE, then defaults.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database.url", envPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return Config{}, fmt.Errorf("bind database url: %w", err)
	}

	if path := strings.TrimSpace(os.Getenv(configFileEnv)); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := Config{
		Server: ServerConfig{
			Addr:            v.GetString("http.addr"),
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(strings.TrimSpace(v.GetString("storage.driver"))),
			DatabaseURL: v.GetString("database.url"),
			Migrate:     v.GetBool("storage.migrate"),
		},
		Redis: RedisConfig{
			Enabled: v.GetBool("redis.enabled"),
			Addr:    v.GetString("redis.addr"),
		},
		Log: LogConfig{Level: v.GetString("log.level")},
		Catalog: CatalogConfig{
			DailyLimit:     v.GetInt("catalog.daily_limit"),
			Locale:         v.GetString("catalog.locale"),
			CurrencySymbol: v.GetString("catalog.currency_symbol"),
		},
		RateLimit: RateLimitConfig{
			Enabled: v.GetBool("ratelimit.enabled"),
			RPS:     v.GetFloat64("ratelimit.rps"),
			Burst:   v.GetInt("ratelimit.burst"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects inconsistent settings.
func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if strings.TrimSpace(c.Storage.DatabaseURL) == "" {
			errs = append(errs, errors.New("database.url is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}
	if c.Redis.Enabled && strings.TrimSpace(c.Redis.Addr) == "" {
		errs = append(errs, errors.New("redis.addr is required when redis is enabled"))
	}
	if c.Catalog.DailyLimit <= 0 {
		errs = append(errs, errors.New("catalog.daily_limit must be positive"))
	}
	if _, err := language.Parse(c.Catalog.Locale); err != nil {
		errs = append(errs, fmt.Errorf("catalog.locale: %w", err))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("ratelimit.rps and ratelimit.burst must be positive"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("http.shutdown_timeout must be positive"))
	}
	return errors.Join(errs...)
}

// LocaleTag returns the parsed catalog locale, falling back to en-US.
func (c CatalogConfig) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}
