package segments

import (
	"Nanopore-HMM-Basecaller/basecaller/common"
	"Nanopore-HMM-Basecaller/basecaller/hmm"
)

// Collapse turns a decoded path into dwell segments: maximal runs of the same
// state. Segments are sorted by Start and use inclusive time indices. The
// initial state (path[0]) is not a dwell and is left out.
func Collapse(path []int) []common.Segment {
	if len(path) <= 1 {
		return []common.Segment{}
	}

	segs := []common.Segment{{State: path[1], Start: 1, End: 1}}
	for t := 2; t < len(path); t++ {
		current := &segs[len(segs)-1] // Pointer to the open segment
		if path[t] == current.State {
			current.End = t
			continue
		}
		segs = append(segs, common.Segment{State: path[t], Start: t, End: t})
	}
	return segs
}

// Expand is the inverse of Collapse: it rebuilds the path, initial state included.
func Expand(segs []common.Segment) []int {
	if len(segs) == 0 {
		return []int{hmm.InitialState}
	}
	path := make([]int, segs[len(segs)-1].End+1)
	path[0] = hmm.InitialState
	for _, seg := range segs {
		for t := seg.Start; t <= seg.End; t++ {
			path[t] = seg.State
		}
	}
	return path
}

// MeanDwell returns the average number of events per segment.
func MeanDwell(segs []common.Segment) float64 {
	if len(segs) == 0 {
		return 0.0
	}
	total := 0
	for _, seg := range segs {
		total += seg.Len()
	}
	return float64(total) / float64(len(segs))
}
