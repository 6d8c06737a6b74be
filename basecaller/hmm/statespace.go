package hmm

import (
	"fmt"
	"math"

	"Nanopore-HMM-Basecaller/basecaller/common"
	"Nanopore-HMM-Basecaller/basecaller/config"
)

// InitialState is the index of the silent start state. It has no k-mer and
// no emission.
const InitialState = 0

// StateSpace maps k-mers to dense state indices. State 0 is the initial
// state; k-mer states follow in model table order starting at 1.
type StateSpace struct {
	k        int
	alphabet Alphabet
	records  []common.Record // records[0] is a placeholder for the initial state
	index    map[string]int
}

// NewStateSpace validates the model records and assigns state indices.
// An empty alphabet is inferred from the characters of the k-mers.
func NewStateSpace(records []common.Record, alphabet string) (*StateSpace, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no k-mer records", common.ErrMalformedModel)
	}

	k := len(records[0].Kmer)
	if k < config.MinKmerLength {
		return nil, fmt.Errorf("%w: k-mer length %d is below the minimum of %d", common.ErrMalformedModel, k, config.MinKmerLength)
	}

	if alphabet == "" {
		var all []byte
		for _, r := range records {
			all = append(all, r.Kmer...)
		}
		alphabet = string(all)
	}
	alpha := NewAlphabet(alphabet)

	ss := &StateSpace{
		k:        k,
		alphabet: alpha,
		records:  make([]common.Record, 1, len(records)+1),
		index:    make(map[string]int, len(records)),
	}
	for line, r := range records {
		if len(r.Kmer) != k {
			return nil, fmt.Errorf("%w: record %d: k-mer %q has length %d, want %d", common.ErrMalformedModel, line+1, r.Kmer, len(r.Kmer), k)
		}
		if pos := alpha.firstInvalid(r.Kmer); pos >= 0 {
			return nil, fmt.Errorf("%w: record %d: k-mer %q has symbol %q outside alphabet %q", common.ErrMalformedModel, line+1, r.Kmer, r.Kmer[pos], alpha.Symbols())
		}
		if _, dup := ss.index[r.Kmer]; dup {
			return nil, fmt.Errorf("%w: record %d: duplicate k-mer %q", common.ErrMalformedModel, line+1, r.Kmer)
		}
		if math.IsNaN(r.Mean) || math.IsInf(r.Mean, 0) {
			return nil, fmt.Errorf("%w: record %d: k-mer %q has non-finite mean", common.ErrMalformedModel, line+1, r.Kmer)
		}
		if !(r.Stdev > 0) || math.IsInf(r.Stdev, 0) {
			return nil, fmt.Errorf("%w: record %d: k-mer %q has invalid stdev %g", common.ErrMalformedModel, line+1, r.Kmer, r.Stdev)
		}
		ss.index[r.Kmer] = len(ss.records)
		ss.records = append(ss.records, r)
	}
	return ss, nil
}

// NumStates returns the number of states including the initial state.
func (s *StateSpace) NumStates() int { return len(s.records) }

// NumKmers returns the number of k-mer states.
func (s *StateSpace) NumKmers() int { return len(s.records) - 1 }

// K returns the k-mer length.
func (s *StateSpace) K() int { return s.k }

// Alphabet returns the model alphabet.
func (s *StateSpace) Alphabet() Alphabet { return s.alphabet }

// Kmer returns the k-mer of a state; the initial state has none.
func (s *StateSpace) Kmer(state int) string { return s.records[state].Kmer }

// State looks up the index of a k-mer.
func (s *StateSpace) State(kmer string) (int, bool) {
	i, ok := s.index[kmer]
	return i, ok
}

// Record returns the emission parameters of a k-mer state.
func (s *StateSpace) Record(state int) common.Record { return s.records[state] }

// Means returns the mean level of every k-mer state, in state order.
func (s *StateSpace) Means() []float64 {
	means := make([]float64, 0, s.NumKmers())
	for _, r := range s.records[1:] {
		means = append(means, r.Mean)
	}
	return means
}
