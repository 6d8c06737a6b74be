package segments

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"Nanopore-HMM-Basecaller/basecaller/common"
)

func TestCollapse(t *testing.T) {
	path := []int{0, 4, 4, 7, 9, 9, 9, 4}
	segs := Collapse(path)
	assert.Equal(t, []common.Segment{
		{State: 4, Start: 1, End: 2},
		{State: 7, Start: 3, End: 3},
		{State: 9, Start: 4, End: 6},
		{State: 4, Start: 7, End: 7},
	}, segs)
	assert.Equal(t, path, Expand(segs))
	assert.InDelta(t, 7.0/4, MeanDwell(segs), 1e-12)
}

func TestCollapseShort(t *testing.T) {
	assert.Empty(t, Collapse(nil))
	assert.Empty(t, Collapse([]int{0}))
	assert.Equal(t, []int{0}, Expand(nil))
	assert.Equal(t, 0.0, MeanDwell(nil))
}
