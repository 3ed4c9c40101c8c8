package fairness

import (
	"lottolab/domain/core"
	"lottolab/internal/numeric"
)

// UniformityTest checks whether the observed frequencies deviate from a
// uniform distribution over the 45 numbers (each with probability 1/45).
//
// total is the number of observations N, which must equal the sum of freq.
// The p-value uses the Wilson–Hilferty normal approximation of the
// chi-square upper tail with 44 degrees of freedom.
func UniformityTest(freq []int, total int) (UniformityResult, error) {
	if err := validateFrequency(freq); err != nil {
		return UniformityResult{}, err
	}
	if total < 0 {
		return UniformityResult{}, core.NewInvalidArgumentError("total observations %d is negative", total)
	}
	if total == 0 {
		return UniformityResult{}, core.NewInsufficientDataError("uniformity test needs at least one observation")
	}

	sum := 0
	for _, c := range freq {
		sum += c
	}
	if sum != total {
		return UniformityResult{}, core.NewInvalidArgumentError("frequencies sum to %d, expected %d", sum, total)
	}

	expected := float64(total) / Categories
	stat := 0.0
	for _, c := range freq {
		d := float64(c) - expected
		stat += d * d / expected
	}

	return UniformityResult{
		Statistic:        stat,
		DegreesOfFreedom: DegreesOfFreedom,
		PValue:           numeric.ChiSquareSF(stat, DegreesOfFreedom),
		Total:            total,
		Expected:         expected,
	}, nil
}

func validateFrequency(freq []int) error {
	if len(freq) != Categories {
		return core.NewInvalidArgumentError("frequency vector has length %d, want %d", len(freq), Categories)
	}
	for i, c := range freq {
		if c < 0 {
			return core.NewInvalidArgumentError("frequency of number %d is negative (%d)", i+1, c)
		}
	}
	return nil
}
