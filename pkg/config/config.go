// Package config loads server settings for the calculator from a YAML file
// and the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lemonberrylabs/calc/pkg/store"
)

// Environment variables that override file settings.
const (
	EnvHost        = "CALC_HOST"
	EnvPort        = "CALC_PORT"
	EnvGRPCPort    = "CALC_GRPC_PORT"
	EnvHistorySize = "CALC_HISTORY_SIZE"
	EnvLogLevel    = "CALC_LOG_LEVEL"
)

// Config holds the settings of the serve command.
type Config struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	GRPCPort    int    `yaml:"grpcPort"`
	HistorySize int    `yaml:"historySize"`
	LogLevel    string `yaml:"logLevel"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Host:        "0.0.0.0",
		Port:        8787,
		GRPCPort:    8788,
		HistorySize: store.DefaultCapacity,
		LogLevel:    "info",
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), and then environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvPort, &c.Port},
		{EnvGRPCPort, &c.GRPCPort},
		{EnvHistorySize, &c.HistorySize},
	}
	for _, e := range ints {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", e.key, v, err)
		}
		*e.dst = n
	}
	return nil
}

// Validate checks that ports, history size and log level are usable.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.GRPCPort <= 0 || c.GRPCPort > 65535 {
		return fmt.Errorf("invalid grpc port %d", c.GRPCPort)
	}
	if c.Port == c.GRPCPort {
		return fmt.Errorf("port and grpc port must differ (both %d)", c.Port)
	}
	if c.HistorySize <= 0 {
		return fmt.Errorf("invalid history size %d", c.HistorySize)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GRPCAddr returns the gRPC listen address.
func (c *Config) GRPCAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.GRPCPort)
}
