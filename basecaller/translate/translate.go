// Package translate turns a decoded state path back into bases.
package translate

import (
	"fmt"
	"strings"

	"Nanopore-HMM-Basecaller/basecaller/common"
	"Nanopore-HMM-Basecaller/basecaller/hmm"
)

// Kind is the transition type between two consecutive states of a path.
type Kind int

const (
	Init Kind = iota // initial state -> first k-mer, emits the whole k-mer
	Stay             // same state, emits nothing
	Move             // advance by one base
	Skip             // advance by two bases
)

func (k Kind) String() string {
	switch k {
	case Init:
		return "init"
	case Stay:
		return "stay"
	case Move:
		return "move"
	case Skip:
		return "skip"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Translator maps state paths over one state space to base sequences.
type Translator struct {
	space *hmm.StateSpace
}

// New returns a translator for paths decoded over space.
func New(space *hmm.StateSpace) *Translator {
	return &Translator{space: space}
}

// Classify returns the transition type of from -> to. A self transition is a
// stay even for homopolymers; a one-base shift is preferred over a two-base
// one when both fit.
func (tr *Translator) Classify(from, to int) (Kind, error) {
	if to == hmm.InitialState || to < 0 || to >= tr.space.NumStates() || from < 0 || from >= tr.space.NumStates() {
		return 0, fmt.Errorf("%w: invalid transition %d -> %d", common.ErrDecodingConsistency, from, to)
	}
	if from == hmm.InitialState {
		return Init, nil
	}
	if from == to {
		return Stay, nil
	}
	a, b := tr.space.Kmer(from), tr.space.Kmer(to)
	switch {
	case hmm.Shifted(a, b, 1):
		return Move, nil
	case hmm.Shifted(a, b, 2):
		return Skip, nil
	}
	return 0, fmt.Errorf("%w: %s -> %s is neither a move nor a skip", common.ErrDecodingConsistency, a, b)
}

// Translate concatenates the bases contributed by every transition of path.
// path[0] must be the initial state and no later entry may return to it.
func (tr *Translator) Translate(path []int) (string, error) {
	if len(path) == 0 {
		return "", nil
	}
	if path[0] != hmm.InitialState {
		return "", fmt.Errorf("%w: path starts in state %d, not the initial state", common.ErrDecodingConsistency, path[0])
	}
	k := tr.space.K()
	var sb strings.Builder
	sb.Grow(len(path) + k)
	for t := 1; t < len(path); t++ {
		kind, err := tr.Classify(path[t-1], path[t])
		if err != nil {
			return "", fmt.Errorf("t=%d: %w", t, err)
		}
		kmer := tr.space.Kmer(path[t])
		switch kind {
		case Init:
			sb.WriteString(kmer)
		case Move:
			sb.WriteString(kmer[k-1:])
		case Skip:
			sb.WriteString(kmer[k-2:])
		}
	}
	return sb.String(), nil
}
