package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/geowild/ConserveIQ/internal/config"
	"github.com/geowild/ConserveIQ/internal/domain/area"
	"github.com/geowild/ConserveIQ/internal/domain/density"
	"github.com/geowild/ConserveIQ/internal/domain/genetics"
	"github.com/geowild/ConserveIQ/internal/domain/occurrence"
	"github.com/geowild/ConserveIQ/internal/domain/priority"
	"github.com/geowild/ConserveIQ/internal/domain/viability"
	"github.com/geowild/ConserveIQ/internal/infrastructure/cache"
	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/logging"
	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/prometheus"
	"github.com/geowild/ConserveIQ/pkg/errors"
	"github.com/geowild/ConserveIQ/pkg/types/common"
)

// Service is the pipeline orchestrator.  It owns the ingested inputs, the
// memoized result cache, and the domain components, and serves the three
// read-only aggregate queries.
type Service struct {
	cfg     *config.Config
	cache   cache.Cache
	metrics *prometheus.EngineMetrics
	logger  logging.Logger

	analyzer    *density.Analyzer
	simulator   *viability.Simulator
	treeBuilder *genetics.TreeBuilder

	mu      sync.RWMutex
	points  []*occurrence.Point
	samples []*genetics.Sample

	// generation counts input and config replacements.  Cache keys carry it
	// so a computation that snapshotted superseded state stores under a key
	// no current query reads.
	generation uint64
}

// ReloadConfig installs a fresh configuration (species table, analysis
// tunables) and invalidates every cached analysis, since recalibrated
// constants change every derived result.
func (s *Service) ReloadConfig(ctx context.Context, cfg *config.Config) error {
	analyzer, err := density.NewAnalyzer(cfg.Analysis.ClusterRadiusKm, s.logger)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cfg = cfg
	s.analyzer = analyzer
	s.treeBuilder = genetics.NewTreeBuilder(
		cfg.Analysis.BootstrapResamples, cfg.Analysis.Seed, s.logger)
	s.generation++
	s.mu.Unlock()

	if err := s.cache.InvalidateAll(ctx); err != nil {
		return err
	}
	s.logger.Info("configuration reloaded, caches invalidated")
	return nil
}

// NewService constructs the orchestrator.  metrics may be nil for callers
// that do not scrape.
func NewService(cfg *config.Config, c cache.Cache, metrics *prometheus.EngineMetrics, logger logging.Logger) (*Service, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.Named("analysis")

	analyzer, err := density.NewAnalyzer(cfg.Analysis.ClusterRadiusKm, logger)
	if err != nil {
		return nil, err
	}

	return &Service{
		cfg:       cfg,
		cache:     c,
		metrics:   metrics,
		logger:    logger,
		analyzer:  analyzer,
		simulator: viability.NewSimulator(logger),
		treeBuilder: genetics.NewTreeBuilder(
			cfg.Analysis.BootstrapResamples, cfg.Analysis.Seed, logger),
	}, nil
}

// SetInputs replaces the ingested occurrence points and genomic samples and
// invalidates every cached analysis in full.  Partial invalidation is not
// supported: fresh input means all three analyses are stale.
func (s *Service) SetInputs(ctx context.Context, points []*occurrence.Point, samples []*genetics.Sample) error {
	s.mu.Lock()
	s.points = append([]*occurrence.Point(nil), points...)
	s.samples = append([]*genetics.Sample(nil), samples...)
	s.generation++
	s.mu.Unlock()

	if err := s.cache.InvalidateAll(ctx); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.InputRecordsGauge.WithLabelValues("occurrences").Set(float64(len(points)))
		s.metrics.InputRecordsGauge.WithLabelValues("samples").Set(float64(len(samples)))
	}
	s.logger.Info("inputs replaced, caches invalidated",
		logging.Int("occurrences", len(points)), logging.Int("samples", len(samples)))
	return nil
}

// snapshotState is a consistent view of the inputs and the reload-sensitive
// components, taken under the read lock.  The slices are shared but never
// mutated by the pipeline.
type snapshotState struct {
	points   []*occurrence.Point
	samples  []*genetics.Sample
	cfg      *config.Config
	analyzer *density.Analyzer
	tree     *genetics.TreeBuilder
	gen      uint64
}

func (s *Service) snapshot() snapshotState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotState{
		points:   s.points,
		samples:  s.samples,
		cfg:      s.cfg,
		analyzer: s.analyzer,
		tree:     s.treeBuilder,
		gen:      s.generation,
	}
}

// cacheKey scopes an analysis kind to one input/config generation.  A
// computation that began before an input or config swap stores its result
// under the superseded generation's key, so it can never satisfy a query
// issued after the swap.
func cacheKey(kind string, gen uint64) string {
	return fmt.Sprintf("%s:g%d", kind, gen)
}

// query serves one analysis kind through the cache, recording hit/miss and
// duration metrics.  The state snapshot and the cache key are taken
// together, so the loader computes over exactly the inputs its key names.
func (s *Service) query(ctx context.Context, kind string, dest interface{},
	compute func(ctx context.Context, st snapshotState) (interface{}, error)) error {

	st := s.snapshot()
	start := time.Now()
	hit := true
	err := s.cache.GetOrSet(ctx, cacheKey(kind, st.gen), dest, 0, func(ctx context.Context) (interface{}, error) {
		hit = false
		return compute(ctx, st)
	})
	if s.metrics != nil {
		if err == nil && hit {
			s.metrics.AnalysisCacheHits.WithLabelValues(kind).Inc()
		} else if !hit {
			s.metrics.AnalysisCacheMisses.WithLabelValues(kind).Inc()
		}
		s.metrics.ObserveAnalysis(kind, time.Since(start), err)
	}
	return err
}

// DiversityAnalysis returns per-species diversity profiles plus the
// cross-species summary.  Empty input yields an empty-but-valid result.
func (s *Service) DiversityAnalysis(ctx context.Context) (*DiversityAnalysis, error) {
	var out DiversityAnalysis
	err := s.query(ctx, KeyDiversity, &out, func(_ context.Context, st snapshotState) (interface{}, error) {
		return s.computeDiversity(st), nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PhylogeneticAnalysis returns the distance matrix, grouping tree, and
// bootstrap support values over the current genomic samples.
func (s *Service) PhylogeneticAnalysis(ctx context.Context) (*genetics.PhylogeneticAnalysis, error) {
	var out genetics.PhylogeneticAnalysis
	err := s.query(ctx, KeyPhylogenetic, &out, func(_ context.Context, st snapshotState) (interface{}, error) {
		return st.tree.Build(st.samples), nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ConservationAnalysis runs the full spatial-plus-demographic pipeline:
// density clustering, area synthesis, per-species viability, ranking, and
// corridor recommendation.
func (s *Service) ConservationAnalysis(ctx context.Context) (*ConservationAnalysis, error) {
	var out ConservationAnalysis
	err := s.query(ctx, KeyConservation, &out, s.computeConservation)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) computeDiversity(st snapshotState) *DiversityAnalysis {
	samples := st.samples
	status := func(sp common.Species) (string, string) {
		p := st.cfg.SpeciesOrDefault(string(sp))
		return p.ConservationStatus, p.PopulationTrend
	}

	profiles := make(map[common.Species]*genetics.DiversityProfile)
	grouped := genetics.BySpecies(samples)
	for _, sp := range genetics.SpeciesOf(samples) {
		profiles[sp] = genetics.BuildProfile(sp, grouped[sp], status)
	}

	// Species known only from occurrence records still get a profile,
	// flagged insufficient with zeroed indices.
	for _, sp := range occurrence.SpeciesOf(st.points) {
		if _, ok := profiles[sp]; !ok {
			profiles[sp] = genetics.BuildProfile(sp, nil, status)
		}
	}

	summary := DiversitySummary{SpeciesCount: len(profiles), TotalSamples: len(samples)}
	sampled := 0
	dominant := 0
	for _, sp := range genetics.SpeciesOf(samples) {
		if n := len(grouped[sp]); n > dominant ||
			(n == dominant && sp < summary.DominantSpecies) {
			summary.DominantSpecies = sp
			dominant = n
		}
	}
	for _, p := range profiles {
		if p.SampleSize == 0 {
			continue
		}
		sampled++
		summary.MeanShannon += p.ShannonIndex
		summary.MeanSimpson += p.SimpsonIndex
		summary.MeanGeneticDiversity += p.AvgGeneticDiversity
	}
	if sampled > 0 {
		summary.MeanShannon /= float64(sampled)
		summary.MeanSimpson /= float64(sampled)
		summary.MeanGeneticDiversity /= float64(sampled)
	}

	return &DiversityAnalysis{Profiles: profiles, Summary: summary, GeneratedAt: time.Now().UTC()}
}

func (s *Service) computeConservation(ctx context.Context, st snapshotState) (interface{}, error) {
	densityRes, err := st.analyzer.Analyze(st.points)
	if err != nil {
		return nil, err
	}

	areas := s.synthesizer(st.cfg, st.samples).Synthesize(densityRes)

	results, err := s.simulateAll(ctx, st)
	if err != nil {
		return nil, err
	}

	floor := func(sp common.Species) float64 {
		return st.cfg.SpeciesOrDefault(string(sp)).CriticalFloor
	}
	records := priority.NewRanker(floor, s.logger).Rank(areas, results)
	corridors := priority.NewCorridorRecommender(
		st.cfg.Analysis.CorridorMaxDistanceKm, st.cfg.Analysis.CorridorTopN, s.logger).
		Recommend(records)

	actions := make(map[common.Species][]viability.Action, len(results))
	for sp, res := range results {
		actions[sp] = res.RecommendedActions
	}

	return &ConservationAnalysis{
		Spatial: &SpatialAnalysis{
			Areas:         areas,
			Corridors:     corridors,
			ClusterCount:  len(densityRes.Clusters),
			IsolatedCount: len(densityRes.Isolated),
		},
		Viability:   results,
		Priorities:  records,
		Actions:     actions,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// synthesizer wires the configured species table and the sample-derived
// diversity lookup into an area synthesizer.
func (s *Service) synthesizer(cfg *config.Config, samples []*genetics.Sample) *area.Synthesizer {
	factors := func(sp common.Species) area.SpeciesFactors {
		p := cfg.SpeciesOrDefault(string(sp))
		return area.SpeciesFactors{DensityFactor: p.DensityFactor, CriticalFloor: p.CriticalFloor}
	}

	diversityBySpecies := meanDiversityBySpecies(samples)
	diversity := func(sp common.Species) (float64, bool) {
		v, ok := diversityBySpecies[sp]
		return v, ok
	}

	return area.NewSynthesizer(factors, diversity,
		cfg.Analysis.ClusterMarginDeg, cfg.Analysis.IsolatedMarginDeg, s.logger)
}

// simulateAll runs one viability simulation per species present in the
// occurrence data.  Species are independent and simulate concurrently.
func (s *Service) simulateAll(ctx context.Context, st snapshotState) (map[common.Species]*viability.Result, error) {
	speciesList := occurrence.SpeciesOf(st.points)
	diversityBySpecies := meanDiversityBySpecies(st.samples)

	counts := make(map[common.Species]int)
	for _, p := range st.points {
		counts[p.Species]++
	}

	var mu sync.Mutex
	results := make(map[common.Species]*viability.Result, len(speciesList))

	g, ctx := errgroup.WithContext(ctx)
	for _, sp := range speciesList {
		sp := sp
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			params := paramsFor(st.cfg, sp, counts[sp], diversityBySpecies)

			start := time.Now()
			res, err := s.simulator.Simulate(params)
			if err != nil {
				return errors.Wrapf(err, errors.ErrCodeSimFailed,
					"viability simulation failed for %s", sp)
			}
			if s.metrics != nil {
				s.metrics.SimulationRunsTotal.WithLabelValues(string(sp)).Add(float64(params.Runs))
				s.metrics.SimulationDuration.WithLabelValues(string(sp)).Observe(time.Since(start).Seconds())
			}

			mu.Lock()
			results[sp] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// paramsFor assembles one species' simulation parameters from the species
// table, the occurrence counts, and sampled genetic diversity.
func paramsFor(cfg *config.Config, sp common.Species, occurrences int, diversity map[common.Species]float64) *viability.Params {
	p := cfg.SpeciesOrDefault(string(sp))

	gd, ok := diversity[sp]
	if !ok {
		gd = area.NeutralGeneticDiversity
	}

	return &viability.Params{
		Species:          sp,
		InitialSize:      float64(occurrences) * p.DensityFactor,
		GrowthRate:       p.GrowthRate,
		CarryingCapacity: p.CarryingCapacity,
		GeneticDiversity: gd,
		Years:            cfg.Analysis.SimulationYears,
		Runs:             cfg.Analysis.SimulationRuns,
		Seed:             cfg.Analysis.Seed,
	}
}

func meanDiversityBySpecies(samples []*genetics.Sample) map[common.Species]float64 {
	sums := make(map[common.Species]float64)
	counts := make(map[common.Species]int)
	for _, smp := range samples {
		sums[smp.Species] += smp.GeneticDiversity
		counts[smp.Species]++
	}
	out := make(map[common.Species]float64, len(sums))
	for sp, sum := range sums {
		out[sp] = sum / float64(counts[sp])
	}
	return out
}
