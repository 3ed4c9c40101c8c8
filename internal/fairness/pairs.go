package fairness

import (
	"math"

	"lottolab/domain/core"
	"lottolab/internal/numeric"
)

// varianceFloor treats smaller variances as zero.
const varianceFloor = 1e-12

// PairSignificance tests, for every unordered pair of numbers, whether the
// pair appears together in more draws than independence would predict.
//
// Marginals are p_i = freq_i/draws. Under independence the co-occurrence
// count is modelled as Binomial(draws, p_i·p_j) and the upper tail is taken
// from the normal approximation with a 0.5 continuity correction. Treating
// draws as independent trials ignores the negative correlation of sampling
// six distinct numbers; this is an accepted simplification.
//
// Pairs whose marginal is 0 or 1, or whose variance vanishes, carry no
// signal and get p = 1. An all-zero frequency vector is insufficient data,
// not 990 such pairs. Results are ordered by (A, B) and always number 990.
func PairSignificance(co [][]int, freq []int, draws int) ([]PairResult, error) {
	if err := validateFrequency(freq); err != nil {
		return nil, err
	}
	if err := validateCooccurrence(co); err != nil {
		return nil, err
	}
	if draws < 0 {
		return nil, core.NewInvalidArgumentError("draw count %d is negative", draws)
	}
	if draws == 0 {
		return nil, core.NewInsufficientDataError("pair test needs at least one draw")
	}
	seen := 0
	for i, c := range freq {
		if c > draws {
			return nil, core.NewInvalidArgumentError("number %d appears %d times in %d draws", i+1, c, draws)
		}
		seen += c
	}
	if seen == 0 {
		return nil, core.NewInsufficientDataError("pair test needs at least one observed number")
	}

	n := float64(draws)
	marginal := make([]float64, Categories)
	for i, c := range freq {
		marginal[i] = float64(c) / n
	}

	results := make([]PairResult, 0, Pairs)
	for i := 0; i < Categories-1; i++ {
		for j := i + 1; j < Categories; j++ {
			results = append(results, testPair(len(results), i, j, co[i][j], marginal[i], marginal[j], n))
		}
	}
	return results, nil
}

func testPair(index, i, j, observed int, pi, pj, n float64) PairResult {
	r := PairResult{
		Index:    index,
		A:        i + 1,
		B:        j + 1,
		Observed: observed,
		PValue:   1,
	}

	pp := pi * pj
	r.Expected = n * pp
	if r.Expected > 0 {
		r.Lift = float64(observed) / r.Expected
	}

	if degenerate(pi) || degenerate(pj) {
		return r
	}
	variance := n * pp * (1 - pp)
	if variance < varianceFloor {
		return r
	}

	r.Z = (float64(observed) - r.Expected - 0.5) / math.Sqrt(variance)
	r.PValue = numeric.Clamp01(numeric.NormalSF(r.Z))
	return r
}

func degenerate(p float64) bool {
	return p <= 0 || p >= 1
}

func validateCooccurrence(co [][]int) error {
	if len(co) != Categories {
		return core.NewInvalidArgumentError("co-occurrence matrix has %d rows, want %d", len(co), Categories)
	}
	for i, row := range co {
		if len(row) != Categories {
			return core.NewInvalidArgumentError("co-occurrence row %d has %d columns, want %d", i+1, len(row), Categories)
		}
	}
	for i := 0; i < Categories; i++ {
		for j := i + 1; j < Categories; j++ {
			if co[i][j] < 0 {
				return core.NewInvalidArgumentError("co-occurrence of (%d,%d) is negative", i+1, j+1)
			}
			if co[i][j] != co[j][i] {
				return core.NewInvalidArgumentError("co-occurrence matrix is not symmetric at (%d,%d)", i+1, j+1)
			}
		}
	}
	return nil
}

// PairIndex returns the position of the pair (a, b) of 1-based numbers in
// the ordering produced by PairSignificance, or -1 if the pair is invalid.
func PairIndex(a, b int) int {
	if a > b {
		a, b = b, a
	}
	if a < 1 || b > Categories || a == b {
		return -1
	}
	i, j := a-1, b-1
	// Rows before i contribute (Categories-1) + ... + (Categories-i) pairs.
	return i*(2*Categories-i-1)/2 + (j - i - 1)
}
