package genetics

import "math"

// jcSaturation is the mismatch fraction beyond which the Jukes-Cantor
// logarithm is undefined or numerically unstable; distances saturate at the
// cap instead.
const jcSaturation = 0.75

// jcCap is the distance reported for saturated sequence pairs.
const jcCap = 1.0

// JukesCantorDistance returns the Jukes-Cantor corrected genetic distance
// between two sequences, compared over the shorter sequence's length.
//
// d = -0.75 · ln(1 - 4p/3) for mismatch fraction p < 0.75; saturated pairs
// report the 1.0 cap rather than NaN or a negative value.  Two sequences
// with no comparable positions report distance 0.
func JukesCantorDistance(a, b string) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}

	mismatches := 0
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			mismatches++
		}
	}
	p := float64(mismatches) / float64(n)
	if p >= jcSaturation {
		return jcCap
	}
	d := -0.75 * math.Log(1-4*p/3)
	if d < 0 {
		return 0
	}
	return d
}

// DistanceMatrix computes the n×n symmetric Jukes-Cantor distance matrix
// over samples, with a zero diagonal.  Empty input yields an empty matrix.
func DistanceMatrix(samples []*Sample) [][]float64 {
	n := len(samples)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := JukesCantorDistance(samples[i].Sequence, samples[j].Sequence)
			m[i][j] = d
			m[j][i] = d
		}
	}
	return m
}
