// Package recommend produces number picks from simple frequency heuristics.
// None of these strategies has predictive value for a fair draw; they exist
// so the dashboard can show how hot/cold style picks look.
package recommend

import (
	"math/rand"
	"sort"

	"lottolab/domain/draw"
	"lottolab/internal/analysis"
)

const (
	// DefaultPick is the number of main balls in a ticket.
	DefaultPick = draw.MainCount
	balancedOdd = 3
	balancedLow = 3
	lowCutoff   = 22
)

// Strategy names a pick heuristic.
type Strategy string

const (
	StrategyHot            Strategy = "hot"
	StrategyCold           Strategy = "cold"
	StrategyBalanced       Strategy = "balanced"
	StrategyWeightedRecent Strategy = "weighted_recent"
)

// Ticket is one suggested set of numbers with its composition.
type Ticket struct {
	Strategy Strategy              `json:"strategy"`
	Numbers  []int                 `json:"numbers"`
	Features analysis.DrawFeatures `json:"features"`
}

// Composition describes a pick the same way draws are described.
func Composition(nums []int) analysis.DrawFeatures {
	return analysis.Composition(nums)
}

// NewTicket wraps a pick with its composition.
func NewTicket(s Strategy, nums []int) Ticket {
	return Ticket{Strategy: s, Numbers: nums, Features: Composition(nums)}
}

// ranked returns the numbers 1..45 ordered by frequency; ties keep the
// smaller number first.
func ranked(freq []int, descending bool) []int {
	nums := make([]int, draw.MaxNumber)
	for i := range nums {
		nums[i] = i + 1
	}
	count := func(n int) int {
		if n-1 < len(freq) {
			return freq[n-1]
		}
		return 0
	}
	sort.SliceStable(nums, func(a, b int) bool {
		ca, cb := count(nums[a]), count(nums[b])
		if descending {
			return ca > cb
		}
		return ca < cb
	})
	return nums
}

// pickK takes the first k distinct numbers from ordered and, when fewer are
// available, tops up with random numbers not yet chosen. Output is sorted.
func pickK(ordered []int, k int, rng *rand.Rand) []int {
	seen := make(map[int]bool, len(ordered))
	uniq := make([]int, 0, k)
	for _, n := range ordered {
		if seen[n] || n < 1 || n > draw.MaxNumber {
			continue
		}
		seen[n] = true
		uniq = append(uniq, n)
		if len(uniq) == k {
			break
		}
	}
	if len(uniq) < k {
		rest := make([]int, 0, draw.MaxNumber)
		for n := 1; n <= draw.MaxNumber; n++ {
			if !seen[n] {
				rest = append(rest, n)
			}
		}
		rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
		uniq = append(uniq, rest[:k-len(uniq)]...)
	}
	sort.Ints(uniq)
	return uniq
}

func clampK(k int) int {
	if k <= 0 {
		return DefaultPick
	}
	if k > draw.MaxNumber {
		return draw.MaxNumber
	}
	return k
}

// Hot picks the k most frequent numbers.
func Hot(freq []int, k int, rng *rand.Rand) []int {
	return pickK(ranked(freq, true), clampK(k), rng)
}

// Cold picks the k least frequent numbers.
func Cold(freq []int, k int, rng *rand.Rand) []int {
	return pickK(ranked(freq, false), clampK(k), rng)
}

// Balanced walks the numbers from most to least frequent and keeps those
// that do not push the pick past 3 odd or 3 low (<= 22) numbers, then fills
// any remaining slots by frequency.
func Balanced(freq []int, k int) []int {
	k = clampK(k)
	order := ranked(freq, true)
	pick := make([]int, 0, k)
	chosen := make(map[int]bool, k)
	odd, low := 0, 0

	for _, n := range order {
		if len(pick) == k {
			break
		}
		o, l := n%2, 0
		if n <= lowCutoff {
			l = 1
		}
		if odd+o <= balancedOdd && low+l <= balancedLow {
			pick = append(pick, n)
			chosen[n] = true
			odd += o
			low += l
		}
	}
	for _, n := range order {
		if len(pick) == k {
			break
		}
		if !chosen[n] {
			pick = append(pick, n)
			chosen[n] = true
		}
	}
	sort.Ints(pick)
	return pick
}

// WeightedRecent samples k numbers without replacement, weighting each
// number by 1 + its count over the last lookback draws.
func WeightedRecent(h draw.History, lookback, k int, includeBonus bool, rng *rand.Rand) []int {
	k = clampK(k)
	weights := make([]float64, draw.MaxNumber)
	for i := range weights {
		weights[i] = 1
	}
	for _, d := range h.Tail(lookback) {
		for _, n := range d.Balls(includeBonus) {
			if n >= 1 && n <= draw.MaxNumber {
				weights[n-1]++
			}
		}
	}

	pick := make([]int, 0, k)
	for len(pick) < k {
		total := 0.0
		for _, w := range weights {
			total += w
		}
		r := rng.Float64() * total
		chosen := -1
		for i, w := range weights {
			if w == 0 {
				continue
			}
			chosen = i
			if r < w {
				break
			}
			r -= w
		}
		pick = append(pick, chosen+1)
		weights[chosen] = 0
	}
	sort.Ints(pick)
	return pick
}

// BonusCandidates returns up to topk bonus numbers seen most often over the
// last lookback draws, most frequent first; ties favour the smaller number.
func BonusCandidates(h draw.History, lookback, topk int) []int {
	counts := make([]int, draw.MaxNumber)
	for _, d := range h.Tail(lookback) {
		if d.Bonus >= 1 && d.Bonus <= draw.MaxNumber {
			counts[d.Bonus-1]++
		}
	}
	out := make([]int, 0, topk)
	for _, n := range ranked(counts, true) {
		if len(out) == topk || counts[n-1] == 0 {
			break
		}
		out = append(out, n)
	}
	return out
}
