// Package config provides configuration loading, defaults, and validation
// for the ConserveIQ engine.
package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all engine settings.
const envPrefix = "CONSERVIQ"

// envKeys lists every scalar setting so environment overrides survive
// Unmarshal.  Viper only merges env values for keys it already knows about,
// so each key is bound explicitly; AutomaticEnv alone is not enough.
var envKeys = []string{
	"server.port", "server.mode",
	"server.read_timeout", "server.write_timeout", "server.shutdown_timeout",
	"log.level", "log.format",
	"cache.backend",
	"cache.redis.addr", "cache.redis.password", "cache.redis.db",
	"cache.redis.key_prefix", "cache.redis.dial_timeout", "cache.redis.default_ttl",
	"analysis.cluster_radius_km", "analysis.cluster_margin_deg", "analysis.isolated_margin_deg",
	"analysis.corridor_max_distance_km", "analysis.corridor_top_n",
	"analysis.simulation_runs", "analysis.simulation_years",
	"analysis.bootstrap_resamples", "analysis.seed",
}

// newViper builds a pre-configured viper instance: YAML file type,
// CONSERVIQ_ env prefix, env bindings for every known key, and a key
// replacer mapping "." → "_" so "server.port" resolves to
// "CONSERVIQ_SERVER_PORT".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads the YAML file at configPath, merges CONSERVIQ_* environment
// overrides, applies engine defaults for unset fields, and validates the
// result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from CONSERVIQ_* environment
// variables and engine defaults, with no config file required.  Preferred
// for containerised deployments.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed
// Config whenever the file changes on disk.  The engine uses this to
// hot-reload the species table; the analysis service invalidates its result
// cache in full when a new table arrives.
//
// Watch is non-blocking; a background goroutine is managed by viper.  A
// changed file that fails to parse or validate is skipped so the engine
// never enters a broken state.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read; callers are expected to have called Load first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad wraps Load and panics on error.  Intended for main() where a
// config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
