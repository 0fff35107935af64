// Package config loads service configuration from a YAML/JSON file
// with environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the full service configuration.
type Config struct {
	Port        int             `koanf:"port"`
	DBPath      string          `koanf:"db_path"`
	CatalogPath string          `koanf:"catalog_path"` // empty = built-in catalog
	Seed        int64           `koanf:"seed"`         // 0 = time-based seed
	Planning    PlanningConfig  `koanf:"planning"`
	Lifecycle   LifecycleConfig `koanf:"lifecycle"`
}

// PlanningConfig tunes the session scheduler.
type PlanningConfig struct {
	// WeeksAhead bounds the normal scheduling window.
	WeeksAhead int `koanf:"weeks_ahead"`
}

// LifecycleConfig tunes the background lifecycle scheduler and the
// attendance simulation.
type LifecycleConfig struct {
	Enabled         bool    `koanf:"enabled"`
	IntervalMinutes int     `koanf:"interval_minutes"`
	PassProbability float64 `koanf:"pass_probability"` // 0 = default 0.9
}

// SetDefaults fills unset fields with production defaults.
func (c *Config) SetDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.DBPath == "" {
		c.DBPath = "compliance.db"
	}
	if c.Planning.WeeksAhead == 0 {
		c.Planning.WeeksAhead = 8
	}
	if c.Lifecycle.IntervalMinutes == 0 {
		c.Lifecycle.IntervalMinutes = 60
	}
}

// Load reads configuration from path (YAML or JSON, by extension) and
// applies COMPLIANCE_-prefixed environment overrides
// (COMPLIANCE_LIFECYCLE__ENABLED=true -> lifecycle.enabled). An empty
// path yields the defaults with env overrides only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", path)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("COMPLIANCE_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "compliance_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	return &cfg, nil
}
