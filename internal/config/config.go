package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Store drivers
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Store   StoreConfig   `toml:"store"`
	Palette PaletteConfig `toml:"palette"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	StaticDir    string        `toml:"static_dir"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	IdleTimeout  time.Duration `toml:"idle_timeout"`
}

// StoreConfig selects and locates the content store
type StoreConfig struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
	Seed   string `toml:"seed"`
	Watch  bool   `toml:"watch"`
}

// PaletteConfig tunes the image color sampler
type PaletteConfig struct {
	Timeout     time.Duration `toml:"timeout"`
	Concurrency int           `toml:"concurrency"`
	MaxBytes    int64         `toml:"max_bytes"`
	Cache       bool          `toml:"cache"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Verbose bool `toml:"verbose"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			StaticDir:    "static",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Store: StoreConfig{
			Driver: DriverSQLite,
			Path:   "data/portfolio.db",
			Seed:   "data/projects.yaml",
		},
		Palette: PaletteConfig{
			Timeout:     10 * time.Second,
			Concurrency: 6,
			MaxBytes:    20 << 20,
			Cache:       true,
		},
	}
}

// Load reads the TOML file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("PORTFOLIO_DB"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("PORTFOLIO_SEED"); v != "" {
		c.Store.Seed = v
	}
	if v, err := strconv.ParseBool(os.Getenv("PORTFOLIO_VERBOSE")); err == nil {
		c.Logging.Verbose = v
	}
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.Path == "" {
			return errors.New("config: store.path is required for the sqlite driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown store.driver %q", c.Store.Driver)
	}
	if c.Store.Watch && c.Store.Seed == "" {
		return errors.New("config: store.watch needs store.seed")
	}
	if c.Server.Addr == "" {
		return errors.New("config: server.addr is required")
	}
	if c.Palette.Timeout < 0 || c.Palette.Concurrency < 0 || c.Palette.MaxBytes < 0 {
		return errors.New("config: palette settings must not be negative")
	}
	return nil
}
