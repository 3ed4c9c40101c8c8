// Package fairness implements the statistical fairness diagnostics for draw
// histories: a chi-square uniformity test over the 45 numbers, a one-sided
// co-occurrence significance test for every number pair, and
// Benjamini–Hochberg false discovery rate control over the pair tests.
//
// All functions are pure. They read their inputs, allocate fresh outputs and
// keep no state, so they can be called concurrently.
package fairness

import "lottolab/domain/draw"

const (
	// Categories is the number of distinct ball numbers under test.
	Categories = draw.MaxNumber
	// DegreesOfFreedom of the uniformity test.
	DegreesOfFreedom = Categories - 1
	// Pairs is the number of unordered number pairs, C(45, 2).
	Pairs = draw.PairCount
	// DefaultFDR is the false discovery rate used when none is configured.
	DefaultFDR = 0.05
)

// UniformityResult is the outcome of the chi-square uniformity test.
type UniformityResult struct {
	Statistic        float64 `json:"statistic"`
	DegreesOfFreedom int     `json:"degrees_of_freedom"`
	PValue           float64 `json:"p_value"`
	Total            int     `json:"total"`
	Expected         float64 `json:"expected"`
}

// PairResult is the significance test for one unordered number pair.
// A and B are ball numbers (1-based) with A < B.
type PairResult struct {
	Index    int     `json:"index"`
	A        int     `json:"a"`
	B        int     `json:"b"`
	Observed int     `json:"observed"`
	Expected float64 `json:"expected"`
	Z        float64 `json:"z"`
	PValue   float64 `json:"p_value"`
	// Lift is Observed/Expected; zero when nothing is expected.
	Lift float64 `json:"lift"`

	// Populated by ApplyFDR.
	QValue      float64 `json:"q_value,omitempty"`
	Threshold   float64 `json:"threshold,omitempty"`
	Significant bool    `json:"significant"`
}

// FDRDecision is the Benjamini–Hochberg outcome for one raw p-value.
type FDRDecision struct {
	Index int `json:"index"`
	// Rank is the 1-based position of the p-value in ascending order.
	Rank int `json:"rank"`
	// Threshold is (Rank/m)·q, the cut-off the p-value was compared with.
	Threshold float64 `json:"threshold"`
	// QValue is the BH-adjusted p-value.
	QValue      float64 `json:"q_value"`
	Significant bool    `json:"significant"`
}
