package hmm

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"Nanopore-HMM-Basecaller/basecaller/logspace"
)

// Emitter gives the likelihood of a scaled measurement in a non-initial state.
type Emitter interface {
	Emission(state int, x float64) logspace.LogScalar
}

// EmissionFunc adapts a plain function to Emitter.
type EmissionFunc func(state int, x float64) logspace.LogScalar

// Emission calls f(state, x).
func (f EmissionFunc) Emission(state int, x float64) logspace.LogScalar { return f(state, x) }

// GaussianEmission models each k-mer's current level as a normal distribution.
type GaussianEmission struct {
	dists []distuv.Normal // dists[InitialState] is unused
}

// NewGaussianEmission takes the mean and stdev of every k-mer state in space.
func NewGaussianEmission(space *StateSpace) *GaussianEmission {
	dists := make([]distuv.Normal, space.NumStates())
	for s := 1; s < space.NumStates(); s++ {
		r := space.Record(s)
		dists[s] = distuv.Normal{Mu: r.Mean, Sigma: r.Stdev}
	}
	return &GaussianEmission{dists: dists}
}

// Emission returns the log density of x under the state's Gaussian.
// The initial state emits nothing; asking for it is a programming error.
func (g *GaussianEmission) Emission(state int, x float64) logspace.LogScalar {
	if state == InitialState {
		panic(fmt.Sprintf("hmm: emission requested for the initial state (x=%g)", x))
	}
	return logspace.FromLog(g.dists[state].LogProb(x))
}
