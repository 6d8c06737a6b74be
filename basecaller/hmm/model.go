package hmm

import (
	"github.com/golang/glog"

	"Nanopore-HMM-Basecaller/basecaller/common"
	"Nanopore-HMM-Basecaller/basecaller/config"
)

// Model bundles everything built once from a pore model table. All parts are
// read-only and may be shared by concurrent decodes.
type Model struct {
	Space *StateSpace
	Trans *Transitions
	Emit  *GaussianEmission
}

// NewModel validates params, builds the state space, the transition graph
// and the Gaussian emissions.
func NewModel(records []common.Record, params config.Params) (*Model, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	space, err := NewStateSpace(records, params.Alphabet)
	if err != nil {
		return nil, err
	}
	trans, err := NewTransitions(space, params)
	if err != nil {
		return nil, err
	}
	glog.Infof("loaded model: k=%d, alphabet %s, %d k-mers, %d transitions", space.K(), space.Alphabet().Symbols(), space.NumKmers(), trans.NumEdges())
	return &Model{
		Space: space,
		Trans: trans,
		Emit:  NewGaussianEmission(space),
	}, nil
}
