package decoder

import (
	"context"
	"fmt"

	"Nanopore-HMM-Basecaller/basecaller/common"
	"Nanopore-HMM-Basecaller/basecaller/hmm"
	"Nanopore-HMM-Basecaller/basecaller/logspace"
)

// Result is a decoded state path and its joint log probability.
type Result struct {
	Path  []int // Path[0] is always hmm.InitialState
	Score logspace.LogScalar
}

// Viterbi returns the most probable state path for obs. obs[0] is absorbed by
// the silent initial state; emissions are scored from obs[1] on.
//
// Only two score columns are kept; the back-pointer table holds one row per
// time step. Ties go to the lowest-index predecessor and, at termination, to
// the lowest-index state.
func (d *Decoder) Viterbi(ctx context.Context, obs []float64) (*Result, error) {
	T := len(obs)
	if T == 0 {
		return nil, common.ErrEmptyObservations
	}
	n := d.trans.NumStates()

	prev := make([]logspace.LogScalar, n)
	cur := make([]logspace.LogScalar, n)
	for s := range prev {
		prev[s] = logspace.Zero
	}
	prev[hmm.InitialState] = logspace.One

	back := make([][]int32, T) // back[t][l] = best predecessor of l at time t
	for t := 1; t < T; t++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ptr := make([]int32, n)
		cur[hmm.InitialState] = logspace.Zero
		ptr[hmm.InitialState] = -1
		for l := 1; l < n; l++ {
			best, arg := logspace.Zero, -1
			for _, arc := range d.trans.Incoming(l) {
				cand := prev[arc.State].Mul(arc.P)
				if best.Less(cand) {
					best, arg = cand, arc.State
				}
			}
			ptr[l] = int32(arg)
			if arg < 0 {
				cur[l] = logspace.Zero
				continue
			}
			cur[l] = best.Mul(d.emit.Emission(l, obs[t]))
		}
		back[t] = ptr
		prev, cur = cur, prev
	}

	last, score := hmm.InitialState, prev[hmm.InitialState]
	for s := 1; s < n; s++ {
		if score.Less(prev[s]) {
			last, score = s, prev[s]
		}
	}
	if score.IsZero() {
		return nil, fmt.Errorf("%w: no state path explains the %d observations", common.ErrDecodingConsistency, T)
	}

	path := make([]int, T)
	path[T-1] = last
	for t := T - 1; t >= 1; t-- {
		p := back[t][path[t]]
		if p < 0 {
			return nil, fmt.Errorf("%w: broken back pointer at t=%d, state %d", common.ErrDecodingConsistency, t, path[t])
		}
		path[t-1] = int(p)
	}
	return &Result{Path: path, Score: score}, nil
}

// PathScore returns the joint log probability of a given path and obs under
// the decoder's model. It is Zero when the path uses a missing transition.
func (d *Decoder) PathScore(path []int, obs []float64) (logspace.LogScalar, error) {
	if len(path) != len(obs) {
		return logspace.Zero, fmt.Errorf("path has %d states for %d observations", len(path), len(obs))
	}
	if len(path) == 0 {
		return logspace.Zero, common.ErrEmptyObservations
	}
	if path[0] != hmm.InitialState {
		return logspace.Zero, nil
	}
	score := logspace.One
	for t := 1; t < len(path); t++ {
		score = score.Mul(d.trans.Prob(path[t-1], path[t]))
		if score.IsZero() {
			return logspace.Zero, nil
		}
		score = score.Mul(d.emit.Emission(path[t], obs[t]))
	}
	return score, nil
}
