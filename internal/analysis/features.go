package analysis

import (
	"fmt"
	"sort"

	"lottolab/domain/draw"

	"github.com/montanaflynn/stats"
)

// LowCutoff splits numbers into low (<= 22) and high (> 22).
const LowCutoff = 22

// DrawFeatures are the per-draw composition features shown on the dashboard.
type DrawFeatures struct {
	DrawNo         int  `json:"draw_no"`
	Sum            int  `json:"sum"`
	Range          int  `json:"range"`
	OddCount       int  `json:"odd_count"`
	LowCount       int  `json:"low_count"`
	HasConsecutive bool `json:"has_consecutive"`
	LastDigitMode  int  `json:"last_digit_mode"`
}

// Composition computes the features of one set of main numbers.
func Composition(nums []int) DrawFeatures {
	f := DrawFeatures{}
	if len(nums) == 0 {
		return f
	}
	sorted := append([]int(nil), nums...)
	sort.Ints(sorted)

	var digits [10]int
	for i, n := range sorted {
		f.Sum += n
		if n%2 == 1 {
			f.OddCount++
		}
		if n <= LowCutoff {
			f.LowCount++
		}
		if i > 0 && n-sorted[i-1] == 1 {
			f.HasConsecutive = true
		}
		digits[n%10]++
	}
	f.Range = sorted[len(sorted)-1] - sorted[0]

	// Ties resolve to the smallest digit.
	for d := 1; d < 10; d++ {
		if digits[d] > digits[f.LastDigitMode] {
			f.LastDigitMode = d
		}
	}
	return f
}

// BuildFeatures derives DrawFeatures for every draw (main numbers only).
func BuildFeatures(h draw.History) []DrawFeatures {
	out := make([]DrawFeatures, len(h))
	for i, d := range h {
		f := Composition(d.Numbers[:])
		f.DrawNo = d.No
		out[i] = f
	}
	return out
}

// LastDigitHistogram counts main numbers by their last decimal digit.
func LastDigitHistogram(h draw.History) [10]int {
	var hist [10]int
	for _, d := range h {
		for _, n := range d.Numbers {
			hist[n%10]++
		}
	}
	return hist
}

// FeatureSummary is a descriptive summary of one feature across draws.
type FeatureSummary struct {
	Name   string  `json:"name"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// SummarizeFeatures summarizes sum, range, odd and low counts across draws.
func SummarizeFeatures(features []DrawFeatures) ([]FeatureSummary, error) {
	if len(features) == 0 {
		return nil, nil
	}
	columns := []struct {
		name string
		get  func(DrawFeatures) int
	}{
		{"sum", func(f DrawFeatures) int { return f.Sum }},
		{"range", func(f DrawFeatures) int { return f.Range }},
		{"odd_count", func(f DrawFeatures) int { return f.OddCount }},
		{"low_count", func(f DrawFeatures) int { return f.LowCount }},
	}

	out := make([]FeatureSummary, 0, len(columns))
	for _, col := range columns {
		data := make([]float64, len(features))
		for i, f := range features {
			data[i] = float64(col.get(f))
		}
		s, err := summarize(col.name, data)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func summarize(name string, data []float64) (FeatureSummary, error) {
	mean, err := stats.Mean(data)
	if err != nil {
		return FeatureSummary{}, fmt.Errorf("mean of %s: %w", name, err)
	}
	stdDev, _ := stats.StandardDeviation(data)
	median, _ := stats.Median(data)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	q25, _ := stats.Percentile(data, 25)
	q75, _ := stats.Percentile(data, 75)

	return FeatureSummary{
		Name:   name,
		Mean:   mean,
		StdDev: stdDev,
		Median: median,
		Min:    min,
		Max:    max,
		Q25:    q25,
		Q75:    q75,
	}, nil
}
