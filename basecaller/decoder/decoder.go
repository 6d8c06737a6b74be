// Package decoder runs the Viterbi and Forward dynamic programs over a
// k-mer HMM. A Decoder holds no mutable state, so one value can serve any
// number of goroutines decoding different reads.
package decoder

import (
	"Nanopore-HMM-Basecaller/basecaller/hmm"
)

// Decoder pairs a transition graph with an emission model.
type Decoder struct {
	trans *hmm.Transitions
	emit  hmm.Emitter
}

// New returns a decoder over the given transitions and emissions.
func New(trans *hmm.Transitions, emit hmm.Emitter) *Decoder {
	return &Decoder{trans: trans, emit: emit}
}

// ForModel returns a decoder over a loaded model.
func ForModel(m *hmm.Model) *Decoder {
	return New(m.Trans, m.Emit)
}

// NumStates returns the size of the state space being decoded.
func (d *Decoder) NumStates() int { return d.trans.NumStates() }
