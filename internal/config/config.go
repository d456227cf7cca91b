package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/iamasit07/connectfour/internal/domain"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Host and Port locate the server the client plays against.
	Host string `env:"CONNECTFOUR_HOST" yaml:"host"`
	Port int    `env:"CONNECTFOUR_PORT" yaml:"port"`

	// ListenAddr and HTTPAddr are where cmd/server accepts TCP and websocket
	// players.
	ListenAddr string `env:"CONNECTFOUR_LISTEN_ADDR" yaml:"listen_addr"`
	HTTPAddr   string `env:"CONNECTFOUR_HTTP_ADDR" yaml:"http_addr"`

	MinColumns int `env:"CONNECTFOUR_MIN_COLUMNS" yaml:"min_columns"`
	MaxColumns int `env:"CONNECTFOUR_MAX_COLUMNS" yaml:"max_columns"`
	MinRows    int `env:"CONNECTFOUR_MIN_ROWS" yaml:"min_rows"`
	MaxRows    int `env:"CONNECTFOUR_MAX_ROWS" yaml:"max_rows"`

	BotDifficulty string `env:"CONNECTFOUR_BOT_DIFFICULTY" yaml:"bot_difficulty"`
	BotDepth      int    `env:"CONNECTFOUR_BOT_DEPTH" yaml:"bot_depth"`

	IdleTimeout     time.Duration `env:"CONNECTFOUR_IDLE_TIMEOUT" yaml:"idle_timeout"`
	CleanupInterval time.Duration `env:"CONNECTFOUR_CLEANUP_INTERVAL" yaml:"cleanup_interval"`

	Debug      bool   `env:"CONNECTFOUR_DEBUG" yaml:"debug"`
	ConfigFile string `env:"CONNECTFOUR_CONFIG_FILE" yaml:"-"`
}

func Default() Config {
	b := domain.DefaultBounds
	return Config{
		Host:            "localhost",
		Port:            4444,
		ListenAddr:      ":4444",
		HTTPAddr:        ":8080",
		MinColumns:      b.MinColumns,
		MaxColumns:      b.MaxColumns,
		MinRows:         b.MinRows,
		MaxRows:         b.MaxRows,
		BotDifficulty:   "hard",
		BotDepth:        5,
		IdleTimeout:     10 * time.Minute,
		CleanupInterval: time.Minute,
	}
}

// Load reads .env if present, then the process environment. A YAML file
// named by CONNECTFOUR_CONFIG_FILE sits between the defaults and the
// environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return LoadFrom(nil)
}

// LoadFrom is Load without .env handling. A nil environment means the
// process environment.
func LoadFrom(environment map[string]string) (Config, error) {
	cfg := Default()
	opts := env.Options{Environment: environment}

	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.ConfigFile != "" {
		if err := cfg.overlay(cfg.ConfigFile); err != nil {
			return Config{}, err
		}
		// the environment wins over the file
		if err := env.ParseWithOptions(&cfg, opts); err != nil {
			return Config{}, fmt.Errorf("parse env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	switch {
	case c.MinColumns < 1 || c.MinRows < 1:
		return fmt.Errorf("%w: board minimums must be positive", domain.ErrConfig)
	case c.MinColumns > c.MaxColumns:
		return fmt.Errorf("%w: min columns %d above max %d", domain.ErrConfig, c.MinColumns, c.MaxColumns)
	case c.MinRows > c.MaxRows:
		return fmt.Errorf("%w: min rows %d above max %d", domain.ErrConfig, c.MinRows, c.MaxRows)
	case c.Port < 0 || c.Port > 65535:
		return fmt.Errorf("%w: port %d outside 0-65535", domain.ErrConfig, c.Port)
	case c.IdleTimeout <= 0 || c.CleanupInterval <= 0:
		return fmt.Errorf("%w: idle timeout and cleanup interval must be positive", domain.ErrConfig)
	}
	return nil
}

func (c Config) Bounds() domain.Bounds {
	return domain.Bounds{
		MinColumns: c.MinColumns,
		MaxColumns: c.MaxColumns,
		MinRows:    c.MinRows,
		MaxRows:    c.MaxRows,
	}
}

// ServerAddr is the host:port the client dials.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
