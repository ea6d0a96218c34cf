// Package config assembles runtime settings from defaults, an optional YAML
// file and environment variables. Command-line flags are applied last by the
// commands themselves.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/citematch/internal/sources"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultRows      = 10
	DefaultUserAgent = "citematch/0.1 (+https://github.com/lehigh-university-libraries/citematch)"
	DefaultCacheTTL  = 24 * time.Hour
)

// Config holds the settings of both sources and the fetch cache
type Config struct {
	Crossref sources.Config `yaml:"crossref"`
	WorldCat sources.Config `yaml:"worldcat"`
	Cache    CacheConfig    `yaml:"cache"`
}

// CacheConfig controls the on-disk fetch cache. An empty path disables it.
type CacheConfig struct {
	Path string        `yaml:"path"`
	TTL  time.Duration `yaml:"ttl"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Crossref: sources.Config{
			BaseURL:   sources.DefaultCrossrefURL,
			Timeout:   DefaultTimeout,
			UserAgent: DefaultUserAgent,
			Rows:      DefaultRows,
		},
		WorldCat: sources.Config{
			BaseURL:   sources.DefaultWorldCatURL,
			Timeout:   DefaultTimeout,
			UserAgent: DefaultUserAgent,
		},
		Cache: CacheConfig{TTL: DefaultCacheTTL},
	}
}

// Load returns the defaults overlaid with the YAML file at path (when path is
// not empty) and then with the process environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile overlays the settings found in a YAML file
func (c *Config) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays settings from environment variables
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("CROSSREF_URL"); v != "" {
		c.Crossref.BaseURL = v
	}
	if v := getenv("CROSSREF_MAILTO"); v != "" {
		c.Crossref.Mailto = v
	}
	if v := getenv("CROSSREF_ROWS"); v != "" {
		rows, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CROSSREF_ROWS %q: %w", v, err)
		}
		c.Crossref.Rows = rows
	}
	if v := getenv("WORLDCAT_URL"); v != "" {
		c.WorldCat.BaseURL = v
	}
	if v := getenv("CITEMATCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CITEMATCH_TIMEOUT %q: %w", v, err)
		}
		c.Crossref.Timeout = d
		c.WorldCat.Timeout = d
	}
	if v := getenv("CITEMATCH_USER_AGENT"); v != "" {
		c.Crossref.UserAgent = v
		c.WorldCat.UserAgent = v
	}
	if v := getenv("CITEMATCH_CACHE"); v != "" {
		c.Cache.Path = v
	}
	if v := getenv("CITEMATCH_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CITEMATCH_CACHE_TTL %q: %w", v, err)
		}
		c.Cache.TTL = d
	}
	return nil
}

// Validate rejects settings the sources cannot work with
func (c Config) Validate() error {
	var errs []error
	for name, sc := range map[string]sources.Config{"crossref": c.Crossref, "worldcat": c.WorldCat} {
		if strings.TrimSpace(sc.BaseURL) == "" {
			errs = append(errs, fmt.Errorf("%s: base_url is required", name))
		}
		if sc.Timeout <= 0 {
			errs = append(errs, fmt.Errorf("%s: timeout must be positive, got %s", name, sc.Timeout))
		}
	}
	if c.Crossref.Rows <= 0 {
		errs = append(errs, fmt.Errorf("crossref: rows must be positive, got %d", c.Crossref.Rows))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("cache: ttl must not be negative, got %s", c.Cache.TTL))
	}
	return errors.Join(errs...)
}
