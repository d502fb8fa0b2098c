package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	Engine  EngineConfig  `yaml:"engine" mapstructure:"engine"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Replay  ReplayConfig  `yaml:"replay" mapstructure:"replay"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// CatalogConfig selects and configures the category store.
type CatalogConfig struct {
	Driver      string     `yaml:"driver" mapstructure:"driver"`
	Path        string     `yaml:"path" mapstructure:"path"`
	DatabaseURL string     `yaml:"database_url" mapstructure:"database_url"`
	Pool        PoolConfig `yaml:"pool" mapstructure:"pool"`

	// ConnectAttempts bounds how often a database catalog is dialed and
	// migrated before startup fails.
	ConnectAttempts int           `yaml:"connect_attempts" mapstructure:"connect_attempts"`
	ConnectBackoff  time.Duration `yaml:"connect_backoff" mapstructure:"connect_backoff"`
}

// PoolConfig tunes the Postgres connection pool.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// EngineConfig holds elicitation policy.
type EngineConfig struct {
	PositionalFallback  bool      `yaml:"positional_fallback" mapstructure:"positional_fallback"`
	OpenEndedMultiplier float64   `yaml:"open_ended_multiplier" mapstructure:"open_ended_multiplier"`
	MandatoryWeight     float64   `yaml:"mandatory_weight" mapstructure:"mandatory_weight"`
	ImportanceTiers     []float64 `yaml:"importance_tiers" mapstructure:"importance_tiers"`
	SkipUntieredSweep   bool      `yaml:"skip_untiered_sweep" mapstructure:"skip_untiered_sweep"`
	CurrencyMarkers     []string  `yaml:"currency_markers" mapstructure:"currency_markers"`
	DefaultLocale       string    `yaml:"default_locale" mapstructure:"default_locale"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
	CORSOrigins    []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// ReplayConfig configures transcript replay.
type ReplayConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ELICIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("catalog.driver", "file")
	v.SetDefault("catalog.path", "categories.yaml")
	v.SetDefault("catalog.pool.max_conns", 10)
	v.SetDefault("catalog.pool.min_conns", 2)
	v.SetDefault("catalog.connect_attempts", 3)
	v.SetDefault("catalog.connect_backoff", "500ms")
	v.SetDefault("engine.positional_fallback", false)
	v.SetDefault("engine.open_ended_multiplier", 2.0)
	v.SetDefault("engine.mandatory_weight", 0.9)
	v.SetDefault("engine.importance_tiers", []float64{0.6, 0.5})
	v.SetDefault("engine.skip_untiered_sweep", false)
	v.SetDefault("engine.currency_markers", []string{"$", "₺"})
	v.SetDefault("engine.default_locale", "en")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit_rps", 20.0)
	v.SetDefault("server.rate_limit_burst", 40)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("replay.concurrency", 8)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode needs. Modes: "turn",
// "serve", "replay", "categories".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "turn", "categories":
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Server.RateLimitRPS < 0 {
			errs = append(errs, "server.rate_limit_rps must be >= 0")
		}
	case "replay":
		if c.Replay.Concurrency < 1 || c.Replay.Concurrency > 64 {
			errs = append(errs, "replay.concurrency must be between 1 and 64")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Catalog.Driver {
	case "file", "sqlite":
		if c.Catalog.Path == "" {
			errs = append(errs, fmt.Sprintf("catalog.path is required for driver %q", c.Catalog.Driver))
		}
	case "postgres":
		if c.Catalog.DatabaseURL == "" {
			errs = append(errs, "catalog.database_url is required for driver \"postgres\"")
		}
	default:
		errs = append(errs, fmt.Sprintf("catalog.driver %q is not one of file, sqlite, postgres", c.Catalog.Driver))
	}

	if c.Catalog.ConnectAttempts < 0 {
		errs = append(errs, "catalog.connect_attempts must be >= 0")
	}

	e := c.Engine
	if e.OpenEndedMultiplier <= 1 {
		errs = append(errs, "engine.open_ended_multiplier must be > 1")
	}
	if e.MandatoryWeight <= 0 {
		errs = append(errs, "engine.mandatory_weight must be > 0")
	}
	for i, tier := range e.ImportanceTiers {
		if tier <= 0 {
			errs = append(errs, fmt.Sprintf("engine.importance_tiers[%d] must be > 0", i))
		}
		if i > 0 && tier > e.ImportanceTiers[i-1] {
			errs = append(errs, "engine.importance_tiers must be descending")
		}
	}
	switch strings.ToLower(strings.TrimSpace(e.DefaultLocale)) {
	case "en", "tr":
	default:
		errs = append(errs, fmt.Sprintf("engine.default_locale %q is not supported", e.DefaultLocale))
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
