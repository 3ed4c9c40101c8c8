package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestNormalCDFMatchesGonum(t *testing.T) {
	for z := -8.0; z <= 8.0; z += 0.05 {
		want := distuv.UnitNormal.CDF(z)
		if got := NormalCDF(z); math.Abs(got-want) > 1e-12 {
			t.Fatalf("NormalCDF(%v) = %v, want %v", z, got, want)
		}
		if got := NormalSF(z); math.Abs(got-(1-want)) > 1e-12 {
			t.Fatalf("NormalSF(%v) = %v, want %v", z, got, 1-want)
		}
	}
}

func TestNormalKnownValues(t *testing.T) {
	assert.InDelta(t, 0.5, NormalCDF(0), 1e-15)
	assert.InDelta(t, 0.5, NormalSF(0), 1e-15)
	assert.InDelta(t, 0.975002104851780, NormalCDF(1.96), 1e-12)
	assert.InDelta(t, 0.001349898031630, NormalSF(3), 1e-12)
	assert.Equal(t, 1.0, NormalCDF(math.Inf(1)))
	assert.Equal(t, 0.0, NormalSF(math.Inf(1)))
	assert.True(t, math.IsNaN(NormalCDF(math.NaN())))
}

func TestNormalSFKeepsTailPrecision(t *testing.T) {
	// 1 - Φ(10) underflows to 0 when computed as a difference.
	sf := NormalSF(10)
	assert.Greater(t, sf, 0.0)
	assert.InEpsilon(t, 7.619853024160527e-24, sf, 1e-9)
}

func TestChiSquareSFTracksExactDistribution(t *testing.T) {
	const k = 44.0
	chi := distuv.ChiSquared{K: k}
	for _, x := range []float64{20, 30, 44, 55, 65, 80, 100} {
		exact := 1 - chi.CDF(x)
		approx := ChiSquareSF(x, k)
		// Wilson–Hilferty is accurate to a few parts in 1e4 at 44 df.
		assert.InDelta(t, exact, approx, 2e-3, "x=%v", x)
	}
	assert.Equal(t, 1.0, ChiSquareSF(0, k))
}

func TestWilsonHilfertyZAtMean(t *testing.T) {
	// At x = k the cube root term is 1 and z = (2/(9k)) / sqrt(2/(9k)).
	k := 44.0
	v := 2 / (9 * k)
	assert.InDelta(t, v/math.Sqrt(v), WilsonHilfertyZ(k, k), 1e-12)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-1e-18))
	assert.Equal(t, 1.0, Clamp01(1.0000001))
	assert.Equal(t, 0.25, Clamp01(0.25))
}
