package decoder

import (
	"context"

	"Nanopore-HMM-Basecaller/basecaller/common"
	"Nanopore-HMM-Basecaller/basecaller/hmm"
	"Nanopore-HMM-Basecaller/basecaller/logspace"
)

// Table is a [state][time] matrix of forward probabilities.
type Table struct {
	n, T  int
	cells []logspace.LogScalar // state-major: cells[s*T+t]
}

func newTable(n, T int) *Table {
	cells := make([]logspace.LogScalar, n*T)
	for i := range cells {
		cells[i] = logspace.Zero
	}
	return &Table{n: n, T: T, cells: cells}
}

// NumStates returns the number of rows.
func (tb *Table) NumStates() int { return tb.n }

// Len returns the number of time steps.
func (tb *Table) Len() int { return tb.T }

// At returns the forward probability of being in state s at time t having
// emitted obs[1..t].
func (tb *Table) At(s, t int) logspace.LogScalar { return tb.cells[s*tb.T+t] }

func (tb *Table) set(s, t int, v logspace.LogScalar) { tb.cells[s*tb.T+t] = v }

// Column returns a copy of all state probabilities at time t.
func (tb *Table) Column(t int) []logspace.LogScalar {
	col := make([]logspace.LogScalar, tb.n)
	for s := range col {
		col[s] = tb.At(s, t)
	}
	return col
}

// Total returns the probability of the whole observation sequence, summed
// over every final state.
func (tb *Table) Total() logspace.LogScalar {
	return logspace.Sum(tb.Column(tb.T - 1)...)
}

// Forward fills the full forward table for obs. It has the same shape as
// Viterbi with the maximisation replaced by log-domain addition.
func (d *Decoder) Forward(ctx context.Context, obs []float64) (*Table, error) {
	T := len(obs)
	if T == 0 {
		return nil, common.ErrEmptyObservations
	}
	n := d.trans.NumStates()
	tb := newTable(n, T)
	tb.set(hmm.InitialState, 0, logspace.One)

	for t := 1; t < T; t++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for l := 1; l < n; l++ {
			sum := logspace.Zero
			for _, arc := range d.trans.Incoming(l) {
				sum = sum.Add(tb.At(arc.State, t-1).Mul(arc.P))
			}
			if sum.IsZero() {
				continue
			}
			tb.set(l, t, sum.Mul(d.emit.Emission(l, obs[t])))
		}
	}
	return tb, nil
}
