// Package config loads the arbor CLI configuration from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RedisAddrEnv overrides Redis.Addr when set.
const RedisAddrEnv = "ARBOR_REDIS_ADDR"

// Config is the CLI configuration.
type Config struct {
	LogLevel   string           `yaml:"log_level"`
	Server     ServerConfig     `yaml:"server"`
	Redis      RedisConfig      `yaml:"redis"`
	Generation GenerationConfig `yaml:"generation"`
}

// ServerConfig configures the HTTP and SSE listeners.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	MCPAddr string `yaml:"mcp_addr"`
}

// RedisConfig configures the Redis result store. An empty Addr keeps
// results in memory.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// GenerationConfig bounds generation requests.
type GenerationConfig struct {
	MaxIterations int           `yaml:"max_iterations"`
	LockTTL       time.Duration `yaml:"lock_ttl"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel: "info",
		Server: ServerConfig{
			Addr:    ":8080",
			MCPAddr: ":8081",
		},
		Redis: RedisConfig{
			Prefix: "arbor:result:",
			TTL:    24 * time.Hour,
		},
		Generation: GenerationConfig{
			MaxIterations: 8,
			LockTTL:       time.Minute,
		},
	}
}

// Load reads path over the defaults. An empty path or a missing file
// yields the defaults. The environment is applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if addr := os.Getenv(RedisAddrEnv); addr != "" {
		cfg.Redis.Addr = addr
	}

	return cfg, cfg.Validate()
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	if c.Generation.MaxIterations < 0 {
		return fmt.Errorf("generation.max_iterations must not be negative")
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("redis.ttl must not be negative")
	}
	if c.Generation.LockTTL <= 0 {
		return fmt.Errorf("generation.lock_ttl must be positive")
	}
	return nil
}
