package config

import "time"

// ApplyDefaults fills every unset field of cfg with the engine defaults.
// Explicitly set values are never overwritten.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.Redis.KeyPrefix == "" {
		cfg.Cache.Redis.KeyPrefix = "conserviq:"
	}
	if cfg.Cache.Redis.DialTimeout == 0 {
		cfg.Cache.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Cache.Redis.DefaultTTL == 0 {
		cfg.Cache.Redis.DefaultTTL = time.Hour
	}

	if cfg.Analysis.ClusterRadiusKm == 0 {
		cfg.Analysis.ClusterRadiusKm = 25
	}
	if cfg.Analysis.ClusterMarginDeg == 0 {
		cfg.Analysis.ClusterMarginDeg = 0.05
	}
	if cfg.Analysis.IsolatedMarginDeg == 0 {
		cfg.Analysis.IsolatedMarginDeg = 0.01
	}
	if cfg.Analysis.CorridorMaxDistanceKm == 0 {
		cfg.Analysis.CorridorMaxDistanceKm = 50
	}
	if cfg.Analysis.CorridorTopN == 0 {
		cfg.Analysis.CorridorTopN = 10
	}
	if cfg.Analysis.SimulationRuns == 0 {
		cfg.Analysis.SimulationRuns = 1000
	}
	if cfg.Analysis.SimulationYears == 0 {
		cfg.Analysis.SimulationYears = 100
	}
	if cfg.Analysis.BootstrapResamples == 0 {
		cfg.Analysis.BootstrapResamples = 10
	}

	if len(cfg.Species) == 0 {
		cfg.Species = DefaultSpeciesTable()
	}
}

// DefaultSpeciesTable returns the built-in species constants for the
// Mesoamerican wetland corridor this engine was calibrated on.  Deployments
// covering other regions supply their own table via configuration.
func DefaultSpeciesTable() map[string]SpeciesParams {
	return map[string]SpeciesParams{
		"panthera_onca": {
			CommonName:         "Jaguar",
			GrowthRate:         1.02,
			CarryingCapacity:   400,
			DensityFactor:      4,
			CriticalFloor:      50,
			ConservationStatus: "near_threatened",
			PopulationTrend:    "declining",
		},
		"tapirus_bairdii": {
			CommonName:         "Baird's tapir",
			GrowthRate:         1.01,
			CarryingCapacity:   300,
			DensityFactor:      3,
			CriticalFloor:      40,
			ConservationStatus: "endangered",
			PopulationTrend:    "declining",
		},
		"ateles_geoffroyi": {
			CommonName:         "Geoffroy's spider monkey",
			GrowthRate:         1.05,
			CarryingCapacity:   800,
			DensityFactor:      8,
			CriticalFloor:      100,
			ConservationStatus: "endangered",
			PopulationTrend:    "declining",
		},
		"crocodylus_acutus": {
			CommonName:         "American crocodile",
			GrowthRate:         1.03,
			CarryingCapacity:   500,
			DensityFactor:      5,
			CriticalFloor:      60,
			ConservationStatus: "vulnerable",
			PopulationTrend:    "stable",
		},
		"trichechus_manatus": {
			CommonName:         "West Indian manatee",
			GrowthRate:         1.01,
			CarryingCapacity:   250,
			DensityFactor:      2,
			CriticalFloor:      35,
			ConservationStatus: "vulnerable",
			PopulationTrend:    "declining",
		},
		"jabiru_mycteria": {
			CommonName:         "Jabiru stork",
			GrowthRate:         1.04,
			CarryingCapacity:   600,
			DensityFactor:      6,
			CriticalFloor:      80,
			ConservationStatus: "near_threatened",
			PopulationTrend:    "stable",
		},
	}
}

// FallbackSpeciesParams is the conservative entry used for species absent
// from the configured table.
func FallbackSpeciesParams() SpeciesParams {
	return SpeciesParams{
		CommonName:         "unknown",
		GrowthRate:         1.0,
		CarryingCapacity:   500,
		DensityFactor:      5,
		CriticalFloor:      50,
		ConservationStatus: "data_deficient",
		PopulationTrend:    "unknown",
	}
}
