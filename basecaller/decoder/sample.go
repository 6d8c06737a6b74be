package decoder

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"Nanopore-HMM-Basecaller/basecaller/common"
	"Nanopore-HMM-Basecaller/basecaller/logspace"
)

// Sample draws n state paths from the posterior encoded in a forward table by
// stochastic traceback. The same seed always yields the same paths.
func (d *Decoder) Sample(ctx context.Context, tb *Table, n int, seed uint64) ([][]int, error) {
	if tb == nil || tb.Len() == 0 {
		return nil, common.ErrEmptyObservations
	}
	if tb.NumStates() != d.trans.NumStates() {
		return nil, fmt.Errorf("forward table has %d states, model has %d", tb.NumStates(), d.trans.NumStates())
	}
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	T := tb.Len()

	states := make([]int, tb.NumStates())
	for s := range states {
		states[s] = s
	}
	final, err := categorical(states, tb.Column(T-1), src)
	if err != nil {
		return nil, err
	}

	paths := make([][]int, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := make([]int, T)
		path[T-1] = final.draw()
		for t := T - 1; t >= 1; t-- {
			l := path[t]
			arcs := d.trans.Incoming(l)
			preds := make([]int, len(arcs))
			weights := make([]logspace.LogScalar, len(arcs))
			for j, arc := range arcs {
				preds[j] = arc.State
				weights[j] = tb.At(arc.State, t-1).Mul(arc.P)
			}
			c, err := categorical(preds, weights, src)
			if err != nil {
				return nil, fmt.Errorf("%w: state %d at t=%d has no weighted predecessor", common.ErrDecodingConsistency, l, t)
			}
			path[t-1] = c.draw()
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// choice draws one of a fixed set of states.
type choice struct {
	states []int
	dist   distuv.Categorical
}

func (c choice) draw() int { return c.states[int(c.dist.Rand())] }

// categorical turns log weights into a categorical distribution over states.
// Weights are shifted by their maximum before exponentiation so that tiny
// forward probabilities do not all underflow to zero.
func categorical(states []int, logw []logspace.LogScalar, src rand.Source) (choice, error) {
	top := logspace.Zero
	for _, w := range logw {
		if top.Less(w) {
			top = w
		}
	}
	if top.IsZero() {
		return choice{}, fmt.Errorf("%w: all weights are zero", common.ErrDecodingConsistency)
	}
	w := make([]float64, len(logw))
	for i, lw := range logw {
		if !lw.IsZero() {
			w[i] = math.Exp(lw.Log() - top.Log())
		}
	}
	return choice{states: states, dist: distuv.NewCategorical(w, src)}, nil
}
