package viability

import (
	"github.com/geowild/ConserveIQ/pkg/types/common"
)

// Action recommendation thresholds.
const (
	captiveBreedingThreshold = 0.5
	corridorThreshold        = 0.2
	geneticRescueThreshold   = 0.3
)

// Action is a recommended conservation intervention derived from a species'
// viability result.
type Action struct {
	Priority  common.Priority `json:"priority"`
	Action    string          `json:"action"`
	Rationale string          `json:"rationale"`
}

// RecommendActions maps an extinction probability and genetic diversity to
// the fixed intervention rule set.  The monitoring recommendation is always
// present, so the result is never empty.
func RecommendActions(extinctionProbability, geneticDiversity float64) []Action {
	var actions []Action

	if extinctionProbability > captiveBreedingThreshold {
		actions = append(actions, Action{
			Priority:  common.PriorityCritical,
			Action:    "establish captive breeding program",
			Rationale: "extinction probability exceeds 50% under current conditions",
		})
	}
	if geneticDiversity < geneticRescueThreshold {
		actions = append(actions, Action{
			Priority:  common.PriorityHigh,
			Action:    "genetic rescue via translocation",
			Rationale: "genetic diversity below the inbreeding-depression threshold",
		})
	}
	if extinctionProbability > corridorThreshold {
		actions = append(actions, Action{
			Priority:  common.PriorityMedium,
			Action:    "establish habitat corridors",
			Rationale: "elevated extinction risk benefits from connectivity between populations",
		})
	}
	actions = append(actions, Action{
		Priority:  common.PriorityLow,
		Action:    "ongoing population monitoring",
		Rationale: "baseline surveillance to detect trajectory changes",
	})
	return actions
}
