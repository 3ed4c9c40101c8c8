package fairness

import (
	"math"
	"sort"

	"lottolab/domain/core"
)

// FDRCorrect applies the Benjamini–Hochberg step-up procedure at false
// discovery rate q to the raw p-values and returns one decision per input,
// in input order.
//
// p-values are ranked ascending; equal p-values keep their input order
// (the input index is an explicit secondary sort key). The largest rank r
// with p_(r) <= (r/m)·q is found and every rank <= r is significant.
func FDRCorrect(pvalues []float64, q float64) ([]FDRDecision, error) {
	if math.IsNaN(q) || q <= 0 || q > 1 {
		return nil, core.NewInvalidArgumentError("false discovery rate %v outside (0, 1]", q)
	}
	m := len(pvalues)
	if m == 0 {
		return []FDRDecision{}, nil
	}
	for i, p := range pvalues {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, core.NewInvalidArgumentError("p-value %d is %v, outside [0, 1]", i, p)
		}
	}

	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		pa, pb := pvalues[order[a]], pvalues[order[b]]
		if pa != pb {
			return pa < pb
		}
		return order[a] < order[b]
	})

	mf := float64(m)
	cutoff := 0
	for rank := m; rank >= 1; rank-- {
		if pvalues[order[rank-1]] <= float64(rank)/mf*q {
			cutoff = rank
			break
		}
	}

	decisions := make([]FDRDecision, m)
	running := 1.0
	for rank := m; rank >= 1; rank-- {
		idx := order[rank-1]
		adjusted := pvalues[idx] * mf / float64(rank)
		if adjusted < running {
			running = adjusted
		}
		decisions[idx] = FDRDecision{
			Index:       idx,
			Rank:        rank,
			Threshold:   float64(rank) / mf * q,
			QValue:      running,
			Significant: rank <= cutoff,
		}
	}
	return decisions, nil
}

// ApplyFDR runs FDRCorrect over the pair p-values and returns a copy of the
// pairs with QValue, Threshold and Significant filled in.
func ApplyFDR(pairs []PairResult, q float64) ([]PairResult, error) {
	pvalues := make([]float64, len(pairs))
	for i, p := range pairs {
		pvalues[i] = p.PValue
	}
	decisions, err := FDRCorrect(pvalues, q)
	if err != nil {
		return nil, err
	}

	out := make([]PairResult, len(pairs))
	copy(out, pairs)
	for i, d := range decisions {
		out[i].QValue = d.QValue
		out[i].Threshold = d.Threshold
		out[i].Significant = d.Significant
	}
	return out, nil
}

// SignificantPairs returns the significant pairs ordered by q-value, then
// by pair index.
func SignificantPairs(pairs []PairResult) []PairResult {
	out := make([]PairResult, 0)
	for _, p := range pairs {
		if p.Significant {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].QValue != out[j].QValue {
			return out[i].QValue < out[j].QValue
		}
		return out[i].Index < out[j].Index
	})
	return out
}
