package config

import (
	"fmt"
	"math"

	"Nanopore-HMM-Basecaller/basecaller/common"
)

// Transition parameters
const (
	DefaultProbStay = 0.1
	DefaultProbSkip = 0.3
)

// Signal calibration defaults (identity transform)
const (
	DefaultScale = 1.0
	DefaultShift = 0.0
)

// Model constraints
const (
	MinKmerLength   = 3 // skip edges drop two leading bases
	DefaultAlphabet = "" // infer from the model table
	RowSumTolerance = 1e-9
)

// Decoding parameters
const (
	DefaultWorkers = 4
	DefaultSamples = 0
	DefaultSeed    = 1
)

// Completeness selects what happens when a transition's destination k-mer
// is missing from the model.
type Completeness int

const (
	// Strict rejects models with any missing move or skip destination.
	Strict Completeness = iota
	// Renormalize spreads each group's mass over the destinations that exist
	// and rescales the row to sum to one.
	Renormalize
)

func (c Completeness) String() string {
	switch c {
	case Strict:
		return "strict"
	case Renormalize:
		return "renormalize"
	default:
		return fmt.Sprintf("completeness(%d)", int(c))
	}
}

// Params is the immutable decoding configuration. Build it once, validate it
// and pass it by value.
type Params struct {
	ProbStay     float64
	ProbSkip     float64
	Scale        float64
	Shift        float64
	AutoScale    bool   // estimate Scale/Shift per read instead of using the fixed values
	Alphabet     string // declared alphabet; empty means infer from k-mers
	Completeness Completeness
}

// Default returns the parameters used when nothing is overridden.
func Default() Params {
	return Params{
		ProbStay:     DefaultProbStay,
		ProbSkip:     DefaultProbSkip,
		Scale:        DefaultScale,
		Shift:        DefaultShift,
		Alphabet:     DefaultAlphabet,
		Completeness: Strict,
	}
}

// ProbMove is the total probability of advancing by exactly one base.
func (p Params) ProbMove() float64 { return 1 - p.ProbStay - p.ProbSkip }

// Validate checks the open-interval constraints on the probabilities and the
// calibration.
func (p Params) Validate() error {
	if !(p.ProbStay > 0 && p.ProbStay < 1) {
		return fmt.Errorf("%w: stay probability %g not in (0,1)", common.ErrInvalidConfiguration, p.ProbStay)
	}
	if !(p.ProbSkip > 0 && p.ProbSkip < 1) {
		return fmt.Errorf("%w: skip probability %g not in (0,1)", common.ErrInvalidConfiguration, p.ProbSkip)
	}
	if p.ProbStay+p.ProbSkip >= 1 {
		return fmt.Errorf("%w: stay %g + skip %g leaves no move probability", common.ErrInvalidConfiguration, p.ProbStay, p.ProbSkip)
	}
	if !(p.Scale > 0) || math.IsInf(p.Scale, 0) {
		return fmt.Errorf("%w: scale %g must be positive and finite", common.ErrInvalidConfiguration, p.Scale)
	}
	if math.IsNaN(p.Shift) || math.IsInf(p.Shift, 0) {
		return fmt.Errorf("%w: shift %g must be finite", common.ErrInvalidConfiguration, p.Shift)
	}
	switch p.Completeness {
	case Strict, Renormalize:
	default:
		return fmt.Errorf("%w: unknown completeness policy %d", common.ErrInvalidConfiguration, int(p.Completeness))
	}
	return nil
}
