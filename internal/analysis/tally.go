package analysis

import (
	"lottolab/domain/draw"

	"gonum.org/v1/gonum/stat/combin"
)

// Frequency counts how often each number 1..45 appears. Index i holds the
// count for number i+1. Out-of-range balls are ignored.
func Frequency(h draw.History, includeBonus bool) []int {
	freq := make([]int, draw.MaxNumber)
	for _, d := range h {
		for _, n := range d.Balls(includeBonus) {
			if n >= 1 && n <= draw.MaxNumber {
				freq[n-1]++
			}
		}
	}
	return freq
}

// Observations is the number of balls counted by Frequency for a valid history.
func Observations(h draw.History, includeBonus bool) int {
	return len(h) * draw.NumbersPerDraw(includeBonus)
}

// Presence returns a draw × 45 indicator matrix: row r, column i is 1 when
// number i+1 appeared in draw r.
func Presence(h draw.History, includeBonus bool) [][]uint8 {
	out := make([][]uint8, len(h))
	for r, d := range h {
		row := make([]uint8, draw.MaxNumber)
		for _, n := range d.Balls(includeBonus) {
			if n >= 1 && n <= draw.MaxNumber {
				row[n-1] = 1
			}
		}
		out[r] = row
	}
	return out
}

// DrawPresence counts, per number, the draws in which the number appeared.
// Unlike Frequency a number is counted at most once per draw.
func DrawPresence(h draw.History, includeBonus bool) []int {
	counts := make([]int, draw.MaxNumber)
	for _, row := range Presence(h, includeBonus) {
		for i, v := range row {
			counts[i] += int(v)
		}
	}
	return counts
}

// Cooccurrence returns the symmetric 45×45 matrix of draws in which both
// numbers appeared. The diagonal is zero.
func Cooccurrence(h draw.History, includeBonus bool) [][]int {
	co := make([][]int, draw.MaxNumber)
	for i := range co {
		co[i] = make([]int, draw.MaxNumber)
	}
	present := make([]int, 0, draw.MainCount+1)
	for _, row := range Presence(h, includeBonus) {
		present = present[:0]
		for i, v := range row {
			if v == 1 {
				present = append(present, i)
			}
		}
		for a := 0; a < len(present); a++ {
			for b := a + 1; b < len(present); b++ {
				co[present[a]][present[b]]++
				co[present[b]][present[a]]++
			}
		}
	}
	return co
}

// ExactPairProbability is the probability that a specific pair appears in
// one draw of m distinct numbers from 45: C(43, m-2) / C(45, m).
// It is the exact baseline for pair counts and is reported alongside the
// marginal-based expectation used by the fairness tests.
func ExactPairProbability(m int) float64 {
	if m < 2 || m > draw.MaxNumber {
		return 0
	}
	return float64(combin.Binomial(draw.MaxNumber-2, m-2)) / float64(combin.Binomial(draw.MaxNumber, m))
}
