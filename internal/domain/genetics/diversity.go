package genetics

import (
	"math"

	"github.com/geowild/ConserveIQ/pkg/types/common"
)

// Data-quality flags attached to a DiversityProfile.
const (
	ProfileQualityOK           = "ok"
	ProfileQualityInsufficient = "insufficient"
)

// DiversityProfile is the per-species output of the diversity calculator.
type DiversityProfile struct {
	Species    common.Species `json:"species"`
	SampleSize int            `json:"sample_size"`

	ShannonIndex float64 `json:"shannon_index"`
	SimpsonIndex float64 `json:"simpson_index"`

	// NucleotideFreqs maps each base (A, T, C, G) to its proportion across
	// all sequences of the species.  All zeros when no bases were counted.
	NucleotideFreqs map[string]float64 `json:"nucleotide_freqs"`

	// AvgGeneticDiversity is the mean of the samples' diversity scalars.
	AvgGeneticDiversity float64 `json:"avg_genetic_diversity"`

	ConservationStatus string `json:"conservation_status"`
	PopulationTrend    string `json:"population_trend"`

	// DataQuality is "insufficient" when no samples were available; such
	// profiles carry well-defined zero indices rather than failing.
	DataQuality string `json:"data_quality"`
}

// ShannonIndex computes H = -Σ (f/T)·ln(f/T) over the positive frequency
// values.  Zero-total input yields 0.
func ShannonIndex(values []float64) float64 {
	var total float64
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}
	if total <= 0 {
		return 0
	}
	var h float64
	for _, v := range values {
		if v > 0 {
			p := v / total
			h -= p * math.Log(p)
		}
	}
	return h
}

// SimpsonIndex computes the Simpson index of diversity D = 1 - Σ (f/T)².
// Zero-total input yields 0.
func SimpsonIndex(values []float64) float64 {
	var total float64
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}
	if total <= 0 {
		return 0
	}
	var sumSq float64
	for _, v := range values {
		if v > 0 {
			p := v / total
			sumSq += p * p
		}
	}
	return 1 - sumSq
}

// NucleotideComposition counts A, T, C, G occurrences across sequences and
// normalises to proportions.  Non-ACGT symbols (gaps, ambiguity codes,
// lowercase noise) are ignored.  When nothing countable is present, all
// proportions are zero.
func NucleotideComposition(sequences []string) map[string]float64 {
	counts := map[string]float64{"A": 0, "T": 0, "C": 0, "G": 0}
	var total float64
	for _, seq := range sequences {
		for i := 0; i < len(seq); i++ {
			switch seq[i] {
			case 'A':
				counts["A"]++
			case 'T':
				counts["T"]++
			case 'C':
				counts["C"]++
			case 'G':
				counts["G"]++
			default:
				continue
			}
			total++
		}
	}
	if total > 0 {
		for base := range counts {
			counts[base] /= total
		}
	}
	return counts
}

// StatusFunc resolves a species to its qualitative conservation status and
// population trend from the configured species table.
type StatusFunc func(common.Species) (status, trend string)

// BuildProfile computes the full diversity profile for one species.  Zero
// samples yield a neutral insufficient-data record, never an error.
func BuildProfile(species common.Species, samples []*Sample, status StatusFunc) *DiversityProfile {
	st, trend := status(species)
	p := &DiversityProfile{
		Species:            species,
		SampleSize:         len(samples),
		NucleotideFreqs:    map[string]float64{"A": 0, "T": 0, "C": 0, "G": 0},
		ConservationStatus: st,
		PopulationTrend:    trend,
		DataQuality:        ProfileQualityInsufficient,
	}
	if len(samples) == 0 {
		return p
	}

	values := make([]float64, len(samples))
	sequences := make([]string, len(samples))
	var sum float64
	for i, s := range samples {
		values[i] = s.GeneticDiversity
		sequences[i] = s.Sequence
		sum += s.GeneticDiversity
	}

	p.ShannonIndex = ShannonIndex(values)
	p.SimpsonIndex = SimpsonIndex(values)
	p.NucleotideFreqs = NucleotideComposition(sequences)
	p.AvgGeneticDiversity = sum / float64(len(samples))
	p.DataQuality = ProfileQualityOK
	return p
}
