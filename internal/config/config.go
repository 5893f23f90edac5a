// Package config defines all configuration structures for the ConserveIQ
// engine.  No I/O or parsing logic lives here — only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// RedisConfig holds connection parameters for the optional shared
// analysis-result cache.
type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	DefaultTTL  time.Duration `mapstructure:"default_ttl"`
}

// CacheConfig selects and parameterises the analysis-result cache backend.
type CacheConfig struct {
	Backend string      `mapstructure:"backend"` // "memory" | "redis"
	Redis   RedisConfig `mapstructure:"redis"`
}

// AnalysisConfig holds the tunables of the analytics pipeline.  Every value
// has an engine default; overriding is only needed for calibration.
type AnalysisConfig struct {
	// ClusterRadiusKm is the great-circle adjacency radius for density
	// clustering and neighbor counting.
	ClusterRadiusKm float64 `mapstructure:"cluster_radius_km"`

	// ClusterMarginDeg expands a density cluster's bounding box on every side.
	ClusterMarginDeg float64 `mapstructure:"cluster_margin_deg"`

	// IsolatedMarginDeg is the smaller buffer applied around isolated points.
	IsolatedMarginDeg float64 `mapstructure:"isolated_margin_deg"`

	// CorridorMaxDistanceKm is the maximum centroid distance for a corridor
	// recommendation between two priority areas.
	CorridorMaxDistanceKm float64 `mapstructure:"corridor_max_distance_km"`

	// CorridorTopN bounds how many top-priority areas are paired for
	// corridor evaluation.
	CorridorTopN int `mapstructure:"corridor_top_n"`

	// SimulationRuns is the Monte-Carlo run count per species.
	SimulationRuns int `mapstructure:"simulation_runs"`

	// SimulationYears is the projection horizon per run.
	SimulationYears int `mapstructure:"simulation_years"`

	// BootstrapResamples caps the phylogenetic bootstrap resample count.
	BootstrapResamples int `mapstructure:"bootstrap_resamples"`

	// Seed is the base seed for all stochastic components.  Zero selects a
	// time-derived seed; tests set a fixed value for reproducibility.
	Seed int64 `mapstructure:"seed"`
}

// SpeciesParams is the per-species constants table entry supplied by domain
// experts: demographic parameters for viability simulation and synthesis
// factors for population estimation.
type SpeciesParams struct {
	CommonName string `mapstructure:"common_name"`

	// GrowthRate is the deterministic per-year population multiplier.
	GrowthRate float64 `mapstructure:"growth_rate"`

	// CarryingCapacity is the habitat ceiling for the simulated population.
	CarryingCapacity float64 `mapstructure:"carrying_capacity"`

	// DensityFactor is the expected individuals per occurrence record.
	DensityFactor float64 `mapstructure:"density_factor"`

	// CriticalFloor is the population size below which an area is rated
	// critical regardless of other factors.
	CriticalFloor float64 `mapstructure:"critical_floor"`

	// ConservationStatus is the qualitative IUCN-style status label.
	ConservationStatus string `mapstructure:"conservation_status"`

	// PopulationTrend is the qualitative trend label ("declining", "stable",
	// "increasing").
	PopulationTrend string `mapstructure:"population_trend"`
}

// Config is the root configuration structure for the engine.
type Config struct {
	Server   ServerConfig             `mapstructure:"server"`
	Log      LogConfig                `mapstructure:"log"`
	Cache    CacheConfig              `mapstructure:"cache"`
	Analysis AnalysisConfig           `mapstructure:"analysis"`
	Species  map[string]SpeciesParams `mapstructure:"species"`
}

// SpeciesOrDefault returns the configured parameters for the species key, or
// the engine-wide fallback entry when the species is not in the table.
func (c *Config) SpeciesOrDefault(key string) SpeciesParams {
	if p, ok := c.Species[key]; ok {
		return p
	}
	return FallbackSpeciesParams()
}

// Validate performs semantic validation of the fully-populated Config.  It
// returns the first error encountered; any error is fatal at startup.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}

	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("config: cache.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("config: cache.backend %q is invalid; expected memory|redis", c.Cache.Backend)
	}

	a := c.Analysis
	if a.ClusterRadiusKm <= 0 {
		return fmt.Errorf("config: analysis.cluster_radius_km must be > 0, got %v", a.ClusterRadiusKm)
	}
	if a.CorridorMaxDistanceKm <= 0 {
		return fmt.Errorf("config: analysis.corridor_max_distance_km must be > 0, got %v", a.CorridorMaxDistanceKm)
	}
	if a.CorridorTopN < 2 {
		return fmt.Errorf("config: analysis.corridor_top_n must be ≥ 2, got %d", a.CorridorTopN)
	}
	if a.SimulationRuns < 1 {
		return fmt.Errorf("config: analysis.simulation_runs must be ≥ 1, got %d", a.SimulationRuns)
	}
	if a.SimulationYears < 1 {
		return fmt.Errorf("config: analysis.simulation_years must be ≥ 1, got %d", a.SimulationYears)
	}
	if a.BootstrapResamples < 1 {
		return fmt.Errorf("config: analysis.bootstrap_resamples must be ≥ 1, got %d", a.BootstrapResamples)
	}

	for key, sp := range c.Species {
		if sp.GrowthRate <= 0 {
			return fmt.Errorf("config: species.%s.growth_rate must be > 0, got %v", key, sp.GrowthRate)
		}
		if sp.CarryingCapacity <= 0 {
			return fmt.Errorf("config: species.%s.carrying_capacity must be > 0, got %v", key, sp.CarryingCapacity)
		}
		if sp.DensityFactor <= 0 {
			return fmt.Errorf("config: species.%s.density_factor must be > 0, got %v", key, sp.DensityFactor)
		}
		if sp.CriticalFloor < 0 {
			return fmt.Errorf("config: species.%s.critical_floor must be ≥ 0, got %v", key, sp.CriticalFloor)
		}
	}

	return nil
}
