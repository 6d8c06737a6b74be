package logspace

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// LogScalar is a non-negative real number stored as its natural logarithm.
// The zero value of the Go type is One (log 1 = 0), so use Zero explicitly
// when a probability of 0 is meant.
type LogScalar float64

var (
	// Zero represents probability 0.
	Zero = LogScalar(math.Inf(-1))
	// One represents probability 1.
	One = LogScalar(0)
)

// FromProb converts a real value p >= 0 into log space.
// Negative and NaN inputs map to Zero.
func FromProb(p float64) LogScalar {
	if !(p > 0) { // also catches NaN
		return Zero
	}
	return LogScalar(math.Log(p))
}

// FromLog wraps a value that is already a natural logarithm.
func FromLog(l float64) LogScalar {
	if math.IsNaN(l) {
		return Zero
	}
	return LogScalar(l)
}

// Prob converts back to the represented real value.
func (a LogScalar) Prob() float64 { return math.Exp(float64(a)) }

// Log returns the stored logarithm.
func (a LogScalar) Log() float64 { return float64(a) }

// IsZero reports whether a represents probability 0.
func (a LogScalar) IsZero() bool { return math.IsInf(float64(a), -1) }

// Mul returns the log-domain product a*b.
func (a LogScalar) Mul(b LogScalar) LogScalar {
	if a.IsZero() || b.IsZero() {
		return Zero
	}
	return a + b
}

// Add returns the log-domain sum a+b using log-sum-exp.
func (a LogScalar) Add(b LogScalar) LogScalar {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	hi, lo := a, b
	if lo > hi {
		hi, lo = lo, hi
	}
	return hi + LogScalar(math.Log1p(math.Exp(float64(lo-hi))))
}

// Sum adds any number of log-domain values. An empty sum is Zero.
func Sum(xs ...LogScalar) LogScalar {
	switch len(xs) {
	case 0:
		return Zero
	case 1:
		return xs[0]
	}
	raw := make([]float64, len(xs))
	for i, x := range xs {
		raw[i] = float64(x)
	}
	return FromLog(floats.LogSumExp(raw))
}

// Less reports whether a represents a strictly smaller value than b.
func (a LogScalar) Less(b LogScalar) bool { return a < b }

// Compare returns -1, 0 or +1 ordering a against b by represented value.
func (a LogScalar) Compare(b LogScalar) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (a LogScalar) String() string {
	if a.IsZero() {
		return "log(0)"
	}
	return "log:" + strconv.FormatFloat(float64(a), 'g', 6, 64)
}
