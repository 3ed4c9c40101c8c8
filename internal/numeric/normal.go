// Package numeric holds the distribution approximations used by the
// fairness diagnostics. It has no dependency on a statistics library.
//
// Error bounds: NormalCDF and NormalSF are computed from math.Erfc, whose
// relative error is below 1e-15 over the whole real line, so the absolute
// error of both functions stays below 1e-15 for any finite z. The upper tail
// is evaluated directly (not as 1 - CDF) so p-values near zero keep their
// relative precision down to the float64 underflow point (about z = 38).
package numeric

import "math"

// NormalCDF returns Φ(z), the standard normal cumulative distribution.
func NormalCDF(z float64) float64 {
	if math.IsNaN(z) {
		return math.NaN()
	}
	return 0.5 * math.Erfc(-z/math.Sqrt2)
}

// NormalSF returns 1 - Φ(z), the standard normal upper tail.
func NormalSF(z float64) float64 {
	if math.IsNaN(z) {
		return math.NaN()
	}
	return 0.5 * math.Erfc(z/math.Sqrt2)
}

// WilsonHilfertyZ maps a chi-square variate x with k degrees of freedom to
// an approximately standard normal variate:
//
//	z = ((x/k)^(1/3) - (1 - 2/(9k))) / sqrt(2/(9k))
func WilsonHilfertyZ(x, k float64) float64 {
	v := 2.0 / (9.0 * k)
	return (math.Cbrt(x/k) - (1 - v)) / math.Sqrt(v)
}

// ChiSquareSF approximates P(X >= x) for X ~ χ²(k) with the Wilson–Hilferty
// transform. The result is clamped to [0, 1].
func ChiSquareSF(x, k float64) float64 {
	if x <= 0 {
		return 1
	}
	return Clamp01(NormalSF(WilsonHilfertyZ(x, k)))
}

// Clamp01 clamps p into [0, 1].
func Clamp01(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
