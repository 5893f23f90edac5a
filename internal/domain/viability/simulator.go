// Package viability implements the stochastic population-viability
// simulator: Monte-Carlo projections of per-species population trajectories
// under environmental and demographic noise, yielding extinction
// probabilities and recommended conservation actions.
package viability

import (
	"math"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/logging"
	"github.com/geowild/ConserveIQ/pkg/errors"
	"github.com/geowild/ConserveIQ/pkg/types/common"
)

// Simulation behavior constants.
const (
	// envVariationMin/Max bound the per-year environmental multiplier.
	envVariationMin = 0.9
	envVariationMax = 1.1

	// diversityProtectionThreshold is the genetic-diversity level above
	// which no growth penalty applies.
	diversityProtectionThreshold = 0.5

	// lowDiversityGrowthPenalty multiplies the growth rate for populations
	// at or below the protection threshold.
	lowDiversityGrowthPenalty = 0.9

	// demographicNoiseFloor is the population size below which demographic
	// stochasticity is added.
	demographicNoiseFloor = 50

	// extinctionThreshold ends a run early once crossed.
	extinctionThreshold = 1.0
)

// Params holds one species' simulation inputs.
type Params struct {
	Species          common.Species
	InitialSize      float64
	GrowthRate       float64
	CarryingCapacity float64
	GeneticDiversity float64
	Years            int
	Runs             int

	// Seed fixes the random streams for reproducibility.  Each run derives
	// its own stream from Seed so runs stay independent under parallel
	// execution.  Zero means time-based seeding.
	Seed int64
}

// Validate rejects caller-contract violations.  Bad parameters indicate a
// collaborator bug and fail fast rather than degrading.
func (p *Params) Validate() error {
	if p.Species == "" {
		return errors.New(errors.ErrCodeSimParamsInvalid, "species must not be empty")
	}
	if p.InitialSize < 0 {
		return errors.Newf(errors.ErrCodeSimParamsInvalid,
			"initial size must be non-negative, got %.2f", p.InitialSize)
	}
	if p.GrowthRate < 0 {
		return errors.Newf(errors.ErrCodeSimParamsInvalid,
			"growth rate must be non-negative, got %.4f", p.GrowthRate)
	}
	if p.CarryingCapacity <= 0 {
		return errors.Newf(errors.ErrCodeSimParamsInvalid,
			"carrying capacity must be positive, got %.2f", p.CarryingCapacity)
	}
	if p.Years < 1 {
		return errors.Newf(errors.ErrCodeSimParamsInvalid,
			"years must be at least 1, got %d", p.Years)
	}
	if p.Runs < 1 {
		return errors.Newf(errors.ErrCodeSimParamsInvalid,
			"runs must be at least 1, got %d", p.Runs)
	}
	return nil
}

// Result is the per-species output of the simulator.
type Result struct {
	Species common.Species `json:"species"`

	// ExtinctionProbability is the fraction of runs that went extinct.
	ExtinctionProbability float64 `json:"extinction_probability"`

	// MeanTrajectory holds, per simulated year, the mean population size
	// across the runs still alive that year.  Its length is the longest
	// surviving run's length, at most the simulated year count.
	MeanTrajectory []float64 `json:"mean_trajectory"`

	RecommendedActions []Action `json:"recommended_actions"`

	Runs  int `json:"runs"`
	Years int `json:"years"`
}

// Simulator runs Monte-Carlo population projections.  Runs execute in
// parallel; each run owns an independent seeded random stream, so results
// are reproducible for a fixed seed regardless of scheduling.
type Simulator struct {
	logger logging.Logger
}

// NewSimulator constructs a Simulator.
func NewSimulator(logger logging.Logger) *Simulator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Simulator{logger: logger.Named("viability")}
}

// Simulate runs p.Runs independent projections of p.Years years each and
// aggregates them into extinction probability and a mean trajectory.
func (s *Simulator) Simulate(p *Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	trajectories := make([][]float64, p.Runs)
	var g errgroup.Group
	g.SetLimit(maxParallelRuns(p.Runs))
	for run := 0; run < p.Runs; run++ {
		run := run
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed + int64(run)))
			trajectories[run] = simulateRun(p, rng)
			return nil
		})
	}
	// Run funcs never return errors; Wait only synchronizes.
	_ = g.Wait()

	extinct := 0
	longest := 0
	for _, traj := range trajectories {
		if len(traj) > longest {
			longest = len(traj)
		}
		if len(traj) < p.Years || traj[len(traj)-1] < extinctionThreshold {
			extinct++
		}
	}
	extProb := float64(extinct) / float64(p.Runs)

	// Mean over alive runs only: a run that collapsed in year k stops
	// contributing from year k+1 on instead of dragging the mean with
	// padded zeros.
	sums := make([]float64, longest)
	counts := make([]int, longest)
	for _, traj := range trajectories {
		for year, size := range traj {
			sums[year] += size
			counts[year]++
		}
	}
	mean := make([]float64, longest)
	for year := range mean {
		if counts[year] > 0 {
			mean[year] = sums[year] / float64(counts[year])
		}
	}

	s.logger.Debug("viability simulation complete",
		logging.String("species", string(p.Species)),
		logging.Int("runs", p.Runs),
		logging.Float64("extinction_probability", extProb))

	return &Result{
		Species:               p.Species,
		ExtinctionProbability: extProb,
		MeanTrajectory:        mean,
		RecommendedActions:    RecommendActions(extProb, p.GeneticDiversity),
		Runs:                  p.Runs,
		Years:                 p.Years,
	}, nil
}

// simulateRun projects a single population trajectory.  The year loop
// terminates early once the population crosses the extinction threshold.
func simulateRun(p *Params, rng *rand.Rand) []float64 {
	size := p.InitialSize
	traj := make([]float64, 0, p.Years)
	for year := 0; year < p.Years; year++ {
		env := envVariationMin + rng.Float64()*(envVariationMax-envVariationMin)
		genetic := 1.0
		if p.GeneticDiversity <= diversityProtectionThreshold {
			genetic = lowDiversityGrowthPenalty
		}
		size *= p.GrowthRate * env * genetic
		if size > p.CarryingCapacity {
			size = p.CarryingCapacity
		}
		if size < demographicNoiseFloor {
			size += (rng.Float64() - 0.5) * math.Sqrt(size)
		}
		if size < 0 {
			size = 0
		}
		traj = append(traj, size)
		if size < extinctionThreshold {
			break
		}
	}
	return traj
}

// maxParallelRuns bounds the worker count so huge run counts do not spawn a
// goroutine apiece.
func maxParallelRuns(runs int) int {
	const limit = 32
	if runs < limit {
		return runs
	}
	return limit
}
