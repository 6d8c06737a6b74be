package caller

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Nanopore-HMM-Basecaller/basecaller/common"
	"Nanopore-HMM-Basecaller/basecaller/config"
	"Nanopore-HMM-Basecaller/basecaller/hmm"
	"Nanopore-HMM-Basecaller/basecaller/metrics"
)

func testModel(t *testing.T, params config.Params) *hmm.Model {
	t.Helper()
	kmers := hmm.EnumerateKmers("ACGT", 3)
	records := make([]common.Record, len(kmers))
	for i, km := range kmers {
		records[i] = common.Record{Kmer: km, Mean: 50 + 5*float64(i), Stdev: 1}
	}
	m, err := hmm.NewModel(records, params)
	require.NoError(t, err)
	return m
}

// eventsFor simulates noiseless events for seq, dwelling twice on the first k-mer.
func eventsFor(t *testing.T, m *hmm.Model, seq string, scale, shift float64) []float64 {
	t.Helper()
	k := m.Space.K()
	events := []float64{0} // absorbed by the initial state
	for i := 0; i+k <= len(seq); i++ {
		s, ok := m.Space.State(seq[i : i+k])
		require.True(t, ok)
		level := scale*m.Space.Record(s).Mean + shift
		events = append(events, level)
		if i == 0 {
			events = append(events, level)
		}
	}
	return events
}

func TestCallRecoversSequence(t *testing.T) {
	params := config.Default()
	params.Scale, params.Shift = 2, 10
	m := testModel(t, params)
	reg := prometheus.NewRegistry()
	met := metrics.New(reg)
	b, err := New(m, params, Options{Metrics: met})
	require.NoError(t, err)

	seq := "ACGTTGCAAC"
	call, err := b.Call(context.Background(), common.Read{ID: "r1", Events: eventsFor(t, m, seq, 2, 10)})
	require.NoError(t, err)
	assert.Equal(t, "r1", call.ID)
	assert.Equal(t, seq, call.Sequence)
	assert.Equal(t, hmm.InitialState, call.Path[0])
	assert.Len(t, call.Segments, len(seq)-2)
	assert.Equal(t, 2, call.Segments[0].Len())
	assert.InDelta(t, 0.5, call.GCContent, 1e-12)
	assert.Equal(t, 2.0, call.Scale)
	assert.Equal(t, 10.0, call.Shift)
	assert.Empty(t, call.Samples)

	assert.Equal(t, 1.0, testutil.ToFloat64(met.Decodes.WithLabelValues(metrics.Viterbi, "ok")))
	assert.Equal(t, float64(len(seq)), testutil.ToFloat64(met.Bases))
}

func TestCallAssignsIDAndSamples(t *testing.T) {
	params := config.Default()
	m := testModel(t, params)
	b, err := New(m, params, Options{Samples: 4, Seed: 11})
	require.NoError(t, err)

	events := eventsFor(t, m, "GATTACA", 1, 0)
	call, err := b.Call(context.Background(), common.Read{Events: events})
	require.NoError(t, err)
	assert.Len(t, call.ID, 36)
	assert.Equal(t, "GATTACA", call.Sequence)
	require.Len(t, call.Samples, 4)
	for _, s := range call.Samples {
		assert.NotEmpty(t, s)
	}

	again, err := b.Call(context.Background(), common.Read{ID: call.ID, Events: events})
	require.NoError(t, err)
	assert.Equal(t, call.Samples, again.Samples)
}

func TestCallAutoScaleFallsBack(t *testing.T) {
	params := config.Default()
	params.AutoScale = true
	m := testModel(t, params)
	b, err := New(m, params, Options{})
	require.NoError(t, err)

	// Constant events cannot be calibrated; the fixed identity is used.
	call, err := b.Call(context.Background(), common.Read{ID: "flat", Events: []float64{60, 60, 60}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, call.Scale)
	assert.Equal(t, 0.0, call.Shift)

	call, err = b.Call(context.Background(), common.Read{ID: "var", Events: eventsFor(t, m, "ACGTTGCAAC", 1, 0)})
	require.NoError(t, err)
	assert.Greater(t, call.Scale, 0.0)
	assert.NotEmpty(t, call.Sequence)
}

func TestCallErrors(t *testing.T) {
	params := config.Default()
	m := testModel(t, params)
	b, err := New(m, params, Options{})
	require.NoError(t, err)

	_, err = b.Call(context.Background(), common.Read{ID: "empty"})
	assert.ErrorIs(t, err, common.ErrEmptyObservations)

	bad := params
	bad.ProbSkip = 0.95
	_, err = New(m, bad, Options{})
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
	_, err = New(m, params, Options{Samples: -1})
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
}

func TestCallAll(t *testing.T) {
	params := config.Default()
	m := testModel(t, params)
	b, err := New(m, params, Options{})
	require.NoError(t, err)

	seqs := []string{"ACGTTGCAAC", "", "TTTGACCA", "CAGGA"}
	reads := make([]common.Read, len(seqs))
	for i, s := range seqs {
		reads[i].ID = s
		if s != "" {
			reads[i].Events = eventsFor(t, m, s, 1, 0)
		}
	}

	var done atomic.Int32
	calls, err := b.CallAll(context.Background(), reads, 2, func(*common.Call) { done.Add(1) })
	require.NoError(t, err)
	require.Len(t, calls, len(reads))
	assert.Equal(t, int32(len(reads)), done.Load())
	assert.Nil(t, calls[1])
	for i, s := range seqs {
		if s == "" {
			continue
		}
		assert.Equal(t, s, calls[i].Sequence)
	}
}

func TestCallAllCancelled(t *testing.T) {
	params := config.Default()
	m := testModel(t, params)
	b, err := New(m, params, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reads := []common.Read{{ID: "r", Events: eventsFor(t, m, "ACGTA", 1, 0)}}
	_, err = b.CallAll(ctx, reads, 0, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
