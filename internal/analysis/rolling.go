package analysis

import (
	"lottolab/domain/draw"
)

// RollingRow is the per-number frequency over the window ending at DrawNo.
type RollingRow struct {
	DrawNo int   `json:"draw_no"`
	Counts []int `json:"counts"`
}

// RollingFrequency computes, for every draw, the frequency vector over the
// trailing window of at most `window` draws ending at that draw. The counts
// are maintained incrementally, adding the entering draw and removing the
// one that leaves.
func RollingFrequency(h draw.History, window int, includeBonus bool) []RollingRow {
	if window <= 0 {
		window = 1
	}
	out := make([]RollingRow, 0, len(h))
	counts := make([]int, draw.MaxNumber)
	for i, d := range h {
		for _, n := range d.Balls(includeBonus) {
			if n >= 1 && n <= draw.MaxNumber {
				counts[n-1]++
			}
		}
		if leave := i - window; leave >= 0 {
			for _, n := range h[leave].Balls(includeBonus) {
				if n >= 1 && n <= draw.MaxNumber {
					counts[n-1]--
				}
			}
		}
		snapshot := make([]int, draw.MaxNumber)
		copy(snapshot, counts)
		out = append(out, RollingRow{DrawNo: d.No, Counts: snapshot})
	}
	return out
}

// Trend returns the rolling count series for a single number.
func Trend(rows []RollingRow, number int) []int {
	if number < 1 || number > draw.MaxNumber {
		return nil
	}
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Counts[number-1]
	}
	return out
}
