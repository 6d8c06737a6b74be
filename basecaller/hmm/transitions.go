package hmm

import (
	"fmt"
	"math"
	"sort"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"Nanopore-HMM-Basecaller/basecaller/common"
	"Nanopore-HMM-Basecaller/basecaller/config"
	"Nanopore-HMM-Basecaller/basecaller/logspace"
)

// Edge is a weighted transition between two states, used to hand-build a graph.
type Edge struct {
	From int
	To   int
	P    logspace.LogScalar
}

// Arc is one entry of an adjacency list: the neighbouring state and the
// transition probability.
type Arc struct {
	State int
	P     logspace.LogScalar
}

// Gaps counts transition destinations that were missing from the model and
// therefore received no edge.
type Gaps struct {
	Move int
	Skip int
}

// Total returns the number of missing destinations.
func (g Gaps) Total() int { return g.Move + g.Skip }

// Transitions is the sparse transition graph of the HMM. Outgoing lists are
// sorted by destination and incoming lists by predecessor, so every walk over
// them is deterministic. It is immutable once built.
type Transitions struct {
	out  [][]Arc
	in   [][]Arc
	gaps Gaps
}

// NewTransitions builds the init/stay/skip/move topology over space.
// Coincident edges (a homopolymer's self loop is both a stay and a move) have
// their probabilities added.
func NewTransitions(space *StateSpace, params config.Params) (*Transitions, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	n := space.NumStates()
	a := space.Alphabet().Size()
	rows := make([]map[int]float64, n)

	// Uniform prior over the starting k-mer
	rows[InitialState] = make(map[int]float64, space.NumKmers())
	initProb := 1 / float64(space.NumKmers())
	for s := 1; s < n; s++ {
		rows[InitialState][s] = initProb
	}

	var gaps Gaps
	for s := 1; s < n; s++ {
		kmer := space.Kmer(s)
		row := make(map[int]float64, a*a+a+1)
		rows[s] = row

		row[s] += params.ProbStay

		skips, missingSkip := existing(space, successors(kmer, 2, space.Alphabet()))
		moves, missingMove := existing(space, successors(kmer, 1, space.Alphabet()))

		if params.Completeness == config.Strict {
			if len(missingMove) > 0 {
				return nil, fmt.Errorf("%w: k-mer %q has no move successor %q", common.ErrMalformedModel, kmer, missingMove[0])
			}
			if len(missingSkip) > 0 {
				return nil, fmt.Errorf("%w: k-mer %q has no skip successor %q", common.ErrMalformedModel, kmer, missingSkip[0])
			}
		}
		gaps.Move += len(missingMove)
		gaps.Skip += len(missingSkip)
		if glog.V(2) && len(missingMove)+len(missingSkip) > 0 {
			glog.Infof("k-mer %s: missing move successors %v, skip successors %v", kmer, missingMove, missingSkip)
		}

		for _, to := range skips {
			row[to] += params.ProbSkip / float64(len(skips))
		}
		for _, to := range moves {
			row[to] += params.ProbMove() / float64(len(moves))
		}

		// A group with no destination at all leaves the row short.
		if total := rowTotal(row); math.Abs(total-1) > config.RowSumTolerance {
			for to := range row {
				row[to] /= total
			}
		}
	}
	if gaps.Total() > 0 {
		glog.Warningf("model has %d missing move and %d missing skip destinations; rows renormalized", gaps.Move, gaps.Skip)
	}

	t, err := fromRows(rows)
	if err != nil {
		return nil, err
	}
	t.gaps = gaps
	if glog.V(1) {
		glog.Infof("built transitions: %d states, %d edges", n, t.NumEdges())
	}
	return t, nil
}

// NewTransitionsFromEdges builds a graph from explicit edges. Repeated edges
// are summed. Every state with outgoing edges must have a row summing to one,
// and no edge may enter the initial state.
func NewTransitionsFromEdges(numStates int, edges []Edge) (*Transitions, error) {
	if numStates < 2 {
		return nil, fmt.Errorf("%w: need the initial state and at least one other, got %d states", common.ErrMalformedModel, numStates)
	}
	rows := make([]map[int]float64, numStates)
	for _, e := range edges {
		if e.From < 0 || e.From >= numStates || e.To < 0 || e.To >= numStates {
			return nil, fmt.Errorf("%w: edge %d->%d out of range for %d states", common.ErrMalformedModel, e.From, e.To, numStates)
		}
		if e.To == InitialState {
			return nil, fmt.Errorf("%w: edge %d->%d enters the initial state", common.ErrMalformedModel, e.From, e.To)
		}
		if e.P.IsZero() {
			continue
		}
		if rows[e.From] == nil {
			rows[e.From] = make(map[int]float64)
		}
		rows[e.From][e.To] += e.P.Prob()
	}
	return fromRows(rows)
}

// existing splits candidate k-mers into the states present in the model and
// the k-mers that are missing.
func existing(space *StateSpace, kmers []string) (states []int, missing []string) {
	for _, k := range kmers {
		if s, ok := space.State(k); ok {
			states = append(states, s)
		} else {
			missing = append(missing, k)
		}
	}
	return states, missing
}

func rowTotal(row map[int]float64) float64 {
	vals := make([]float64, 0, len(row))
	for _, p := range row {
		vals = append(vals, p)
	}
	sort.Float64s(vals) // fixed summation order
	return floats.Sum(vals)
}

// fromRows converts real-valued rows into sorted adjacency lists and checks
// that each non-empty row is a distribution.
func fromRows(rows []map[int]float64) (*Transitions, error) {
	n := len(rows)
	t := &Transitions{
		out: make([][]Arc, n),
		in:  make([][]Arc, n),
	}
	for from, row := range rows {
		if len(row) == 0 {
			continue
		}
		if total := rowTotal(row); math.Abs(total-1) > config.RowSumTolerance {
			return nil, fmt.Errorf("%w: outgoing probabilities of state %d sum to %.12f", common.ErrInvalidConfiguration, from, total)
		}
		arcs := make([]Arc, 0, len(row))
		for to, p := range row {
			arcs = append(arcs, Arc{State: to, P: logspace.FromProb(p)})
		}
		sort.Slice(arcs, func(i, j int) bool { return arcs[i].State < arcs[j].State })
		t.out[from] = arcs
	}
	// Ascending `from` keeps each incoming list sorted by predecessor.
	for from, arcs := range t.out {
		for _, arc := range arcs {
			t.in[arc.State] = append(t.in[arc.State], Arc{State: from, P: arc.P})
		}
	}
	return t, nil
}

// NumStates returns the number of states the graph spans.
func (t *Transitions) NumStates() int { return len(t.out) }

// NumEdges returns the number of non-zero transitions.
func (t *Transitions) NumEdges() int {
	n := 0
	for _, arcs := range t.out {
		n += len(arcs)
	}
	return n
}

// Outgoing returns the successors of a state sorted by index.
// The slice must not be modified.
func (t *Transitions) Outgoing(state int) []Arc { return t.out[state] }

// Incoming returns the predecessors of a state sorted by index.
// The slice must not be modified.
func (t *Transitions) Incoming(state int) []Arc { return t.in[state] }

// Prob returns the transition probability from -> to, Zero if there is no edge.
func (t *Transitions) Prob(from, to int) logspace.LogScalar {
	arcs := t.out[from]
	i := sort.Search(len(arcs), func(i int) bool { return arcs[i].State >= to })
	if i < len(arcs) && arcs[i].State == to {
		return arcs[i].P
	}
	return logspace.Zero
}

// RowSum returns the real-space sum of a state's outgoing probabilities.
func (t *Transitions) RowSum(state int) float64 {
	vals := make([]float64, len(t.out[state]))
	for i, arc := range t.out[state] {
		vals[i] = arc.P.Prob()
	}
	return floats.Sum(vals)
}

// Gaps reports the destinations that were missing when the graph was built.
func (t *Transitions) Gaps() Gaps { return t.gaps }

// Dense returns the full [from][to] matrix of real probabilities. It is
// quadratic in the number of states and meant for inspection only.
func (t *Transitions) Dense() *mat.Dense {
	n := t.NumStates()
	d := mat.NewDense(n, n, nil)
	for from, arcs := range t.out {
		for _, arc := range arcs {
			d.Set(from, arc.State, arc.P.Prob())
		}
	}
	return d
}
