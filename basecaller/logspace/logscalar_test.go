package logspace

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTrip(t *testing.T) {
	for _, p := range []float64{0, 1e-300, 1e-9, 0.25, 0.5, 0.999, 1} {
		assert.InDelta(t, p, FromProb(p).Prob(), 1e-12, "p=%g", p)
	}
	assert.True(t, FromProb(0).IsZero())
	assert.True(t, FromProb(-1).IsZero())
	assert.True(t, FromProb(math.NaN()).IsZero())
	assert.Equal(t, One, FromProb(1))
}

func TestIdentities(t *testing.T) {
	x := FromProb(0.3)
	assert.Equal(t, x, Zero.Add(x))
	assert.Equal(t, x, x.Add(Zero))
	assert.True(t, Zero.Mul(x).IsZero())
	assert.True(t, x.Mul(Zero).IsZero())
	assert.True(t, Zero.Mul(Zero).IsZero())
	assert.True(t, Zero.Add(Zero).IsZero())
	assert.Equal(t, x, One.Mul(x))
	assert.False(t, math.IsNaN(Zero.Mul(FromLog(math.Inf(1))).Log()))
}

func TestAddCommutativeAssociative(t *testing.T) {
	a, b, c := FromProb(0.1), FromProb(0.2), FromProb(0.05)
	assert.InDelta(t, a.Add(b).Log(), b.Add(a).Log(), 1e-12)
	assert.InDelta(t, a.Add(b).Add(c).Log(), a.Add(b.Add(c)).Log(), 1e-12)
	assert.InDelta(t, 0.35, a.Add(b).Add(c).Prob(), 1e-12)
	assert.InDelta(t, 0.02, a.Mul(b).Prob(), 1e-12)
}

func TestAddNoUnderflow(t *testing.T) {
	// exp(-2000) underflows float64; log space keeps the sum exact.
	a, b := FromLog(-2000), FromLog(-2000)
	assert.InDelta(t, -2000+math.Ln2, a.Add(b).Log(), 1e-9)
}

func TestSum(t *testing.T) {
	assert.True(t, Sum().IsZero())
	assert.Equal(t, FromProb(0.4), Sum(FromProb(0.4)))
	assert.InDelta(t, 0.6, Sum(FromProb(0.1), FromProb(0.2), FromProb(0.3)).Prob(), 1e-12)
	assert.True(t, Sum(Zero, Zero).IsZero())
	assert.InDelta(t, 0.2, Sum(Zero, FromProb(0.2)).Prob(), 1e-12)
}

func TestCompare(t *testing.T) {
	lo, hi := FromProb(0.1), FromProb(0.9)
	assert.True(t, lo.Less(hi))
	assert.False(t, hi.Less(lo))
	assert.Equal(t, -1, lo.Compare(hi))
	assert.Equal(t, 1, hi.Compare(lo))
	assert.Equal(t, 0, lo.Compare(lo))
	assert.True(t, Zero.Less(FromProb(1e-300)))
	assert.Equal(t, -1, Zero.Compare(lo))
}
