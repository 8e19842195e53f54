// Package config loads the znactl configuration: defaults, then an optional
// TOML file, then environment variables (optionally read from a .env file).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hengadev/errsx"
	"github.com/joho/godotenv"
)

const (
	EnvAddress    = "ZNA_ADDRESS"
	EnvNetwork    = "ZNA_NETWORK"
	EnvBufferSize = "ZNA_READ_BUFFER_SIZE"
	EnvArrays     = "ZNA_ARRAYS"
)

type Config struct {
	Network        string
	Address        string
	DialTimeout    time.Duration
	ReadBufferSize int
	// Arrays enables materialization of array fields on receive.
	Arrays   bool
	Count    int
	Interval time.Duration
}

func Default() Config {
	return Config{
		Network:        "tcp",
		Address:        "127.0.0.1:7450",
		DialTimeout:    5 * time.Second,
		ReadBufferSize: 4096,
		Count:          1,
	}
}

type fileConfig struct {
	Network        string `toml:"network"`
	Address        string `toml:"address"`
	DialTimeout    string `toml:"dial_timeout"`
	ReadBufferSize int    `toml:"read_buffer_size"`
	Arrays         bool   `toml:"arrays"`
	Count          int    `toml:"count"`
	Interval       string `toml:"interval"`
}

// Load resolves the configuration. An empty path skips the TOML file; a
// missing envFile is ignored.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	}

	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func applyFile(cfg *Config, path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load znactl config: %w", err)
	}

	if meta.IsDefined("network") {
		cfg.Network = strings.TrimSpace(raw.Network)
	}
	if meta.IsDefined("address") {
		cfg.Address = strings.TrimSpace(raw.Address)
	}
	if meta.IsDefined("dial_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.DialTimeout))
		if err != nil {
			return fmt.Errorf("parse dial_timeout: %w", err)
		}
		cfg.DialTimeout = d
	}
	if meta.IsDefined("read_buffer_size") {
		cfg.ReadBufferSize = raw.ReadBufferSize
	}
	if meta.IsDefined("arrays") {
		cfg.Arrays = raw.Arrays
	}
	if meta.IsDefined("count") {
		cfg.Count = raw.Count
	}
	if meta.IsDefined("interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Interval))
		if err != nil {
			return fmt.Errorf("parse interval: %w", err)
		}
		cfg.Interval = d
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvNetwork)); v != "" {
		cfg.Network = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAddress)); v != "" {
		cfg.Address = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBufferSize)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvBufferSize, err)
		}
		cfg.ReadBufferSize = n
	}
	if v := strings.TrimSpace(os.Getenv(EnvArrays)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvArrays, err)
		}
		cfg.Arrays = b
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs errsx.Map
	switch c.Network {
	case "tcp", "tcp4", "tcp6", "unix":
	default:
		errs.Set("network", fmt.Errorf("unsupported network %q", c.Network))
	}
	if c.Network != "unix" {
		if _, _, err := net.SplitHostPort(c.Address); err != nil {
			errs.Set("address", err)
		}
	} else if c.Address == "" {
		errs.Set("address", errors.New("empty socket path"))
	}
	if c.DialTimeout <= 0 {
		errs.Set("dial_timeout", fmt.Errorf("must be positive, got %s", c.DialTimeout))
	}
	if c.ReadBufferSize < 16 {
		errs.Set("read_buffer_size", fmt.Errorf("must be at least 16, got %d", c.ReadBufferSize))
	}
	if c.Count < 0 {
		errs.Set("count", fmt.Errorf("must not be negative, got %d", c.Count))
	}
	if c.Interval < 0 {
		errs.Set("interval", fmt.Errorf("must not be negative, got %s", c.Interval))
	}
	return errs.AsError()
}
