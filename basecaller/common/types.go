package common

// Record is one row of a pore model table: the expected current level
// distribution for a single k-mer. Extra columns in the table are ignored.
type Record struct {
	Kmer  string
	Mean  float64
	Stdev float64
}

// Segment is a run of consecutive time steps spent in one state.
// Start and End are 0-based inclusive time indices.
type Segment struct {
	State int
	Start int
	End   int
}

// Len returns the number of time steps covered by the segment.
func (s Segment) Len() int { return s.End - s.Start + 1 }

// Read is a named sequence of raw (unscaled) event measurements.
type Read struct {
	ID     string
	Events []float64
}

// Call is the basecalling result for one read.
type Call struct {
	ID        string
	Sequence  string
	Path      []int     // decoded state index per event, Path[0] is the initial state
	LogProb   float64   // log joint probability of Path and the events
	Segments  []Segment // dwell runs of Path, initial state excluded
	GCContent float64
	Scale     float64 // calibration actually applied
	Shift     float64
	Samples   []string // optional sequences from stochastic tracebacks
}
