// Package config loads redsift's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gwalsh/redsift/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile  = "config.yaml"
	DefaultStoragePath = "data/redsift.db"
	DefaultListenAddr  = ":8080"
	DefaultLimit       = 50
	DefaultSort        = domain.SortHot
)

// Config holds the tool-wide defaults. CLI flags override individual fields.
type Config struct {
	Search  SearchConfig  `yaml:"search"`
	Storage StorageConfig `yaml:"storage"`
	Serve   ServeConfig   `yaml:"serve"`
}

type SearchConfig struct {
	Subreddits  []string `yaml:"subreddits"`
	Keywords    []string `yaml:"keywords"`
	Limit       int      `yaml:"limit"`
	Sort        string   `yaml:"sort"`
	MinScore    int      `yaml:"min_score"`
	Parallelism int      `yaml:"parallelism"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// Dir returns the config directory, honoring REDSIFT_CONFIG_DIR.
func Dir() (string, error) {
	if dir := os.Getenv("REDSIFT_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".redsift"), nil
}

// Load reads config.yaml from dir, applies defaults, and validates. A missing
// file is not an error: the zero config with defaults applied is returned.
func Load(dir string) (*Config, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("config dir is required")
	}

	cfg := &Config{}
	path := filepath.Join(dir, DefaultConfigFile)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.applyDefaults(dir)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults(dir string) {
	if c.Search.Limit == 0 {
		c.Search.Limit = DefaultLimit
	}
	if c.Search.Sort == "" {
		c.Search.Sort = string(DefaultSort)
	}
	if c.Storage.Path == "" {
		c.Storage.Path = filepath.Join(dir, DefaultStoragePath)
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultListenAddr
	}
}

func (c *Config) validate() error {
	if !domain.Sort(c.Search.Sort).Valid() {
		return fmt.Errorf("unknown sort %q (use hot, new, top, or rising)", c.Search.Sort)
	}
	if c.Search.Limit < 0 {
		return fmt.Errorf("limit must be positive, got %d", c.Search.Limit)
	}
	return nil
}
