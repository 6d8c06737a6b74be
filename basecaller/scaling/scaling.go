// Package scaling maps raw pore current measurements onto the level scale of
// a pore model with an affine calibration.
package scaling

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"Nanopore-HMM-Basecaller/basecaller/common"
	"Nanopore-HMM-Basecaller/basecaller/config"
)

// Calibration is the affine map raw = Scale*scaled + Shift.
type Calibration struct {
	Scale float64
	Shift float64
}

// Identity leaves measurements unchanged.
var Identity = Calibration{Scale: config.DefaultScale, Shift: config.DefaultShift}

// FromParams takes the fixed calibration out of the decoding parameters.
func FromParams(p config.Params) Calibration {
	return Calibration{Scale: p.Scale, Shift: p.Shift}
}

// Validate checks that the calibration is invertible.
func (c Calibration) Validate() error {
	if !(c.Scale > 0) || math.IsInf(c.Scale, 0) || math.IsNaN(c.Shift) || math.IsInf(c.Shift, 0) {
		return fmt.Errorf("%w: calibration scale=%g shift=%g", common.ErrInvalidConfiguration, c.Scale, c.Shift)
	}
	return nil
}

// Apply returns (x - Shift) / Scale for every raw measurement.
func (c Calibration) Apply(raw []float64) []float64 {
	scaled := make([]float64, len(raw))
	for i, x := range raw {
		scaled[i] = (x - c.Shift) / c.Scale
	}
	return scaled
}

// Estimate matches the mean and standard deviation of the events to those of
// the model's k-mer levels (method of moments).
func Estimate(events, levels []float64) (Calibration, error) {
	if len(events) == 0 {
		return Calibration{}, common.ErrEmptyObservations
	}
	if len(events) < 2 || len(levels) < 2 {
		return Calibration{}, fmt.Errorf("%w: need at least two events and two model levels to estimate scaling", common.ErrInvalidConfiguration)
	}
	evMean, evStd := stat.MeanStdDev(events, nil)
	mdMean, mdStd := stat.MeanStdDev(levels, nil)
	if !(evStd > 0) || !(mdStd > 0) {
		return Calibration{}, fmt.Errorf("%w: zero variance (events %g, model %g)", common.ErrInvalidConfiguration, evStd, mdStd)
	}
	scale := evStd / mdStd
	c := Calibration{Scale: scale, Shift: evMean - scale*mdMean}
	return c, c.Validate()
}
