package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Nanopore-HMM-Basecaller/basecaller/common"
	"Nanopore-HMM-Basecaller/basecaller/hmm"
)

func space(t *testing.T, k int) *hmm.StateSpace {
	t.Helper()
	var records []common.Record
	for i, km := range hmm.EnumerateKmers("ACGT", k) {
		records = append(records, common.Record{Kmer: km, Mean: float64(i), Stdev: 1})
	}
	ss, err := hmm.NewStateSpace(records, "")
	require.NoError(t, err)
	return ss
}

func states(t *testing.T, ss *hmm.StateSpace, kmers ...string) []int {
	t.Helper()
	path := []int{hmm.InitialState}
	for _, km := range kmers {
		s, ok := ss.State(km)
		require.True(t, ok, km)
		path = append(path, s)
	}
	return path
}

func TestMoveOnlyRoundTrip(t *testing.T) {
	ss := space(t, 5)
	tr := New(ss)
	seq := "ACGTTGCAAGTCCA"
	var kmers []string
	for i := 0; i+5 <= len(seq); i++ {
		kmers = append(kmers, seq[i:i+5])
	}
	got, err := tr.Translate(states(t, ss, kmers...))
	require.NoError(t, err)
	assert.Equal(t, seq, got)
}

func TestStaySkipMove(t *testing.T) {
	ss := space(t, 3)
	tr := New(ss)
	// ACG, stay, move to CGT, skip to TAC, stay, move to ACC
	got, err := tr.Translate(states(t, ss, "ACG", "ACG", "CGT", "TAC", "TAC", "ACC"))
	require.NoError(t, err)
	assert.Equal(t, "ACGT"+"AC"+"C", got)
}

func TestHomopolymerSelfLoopIsStay(t *testing.T) {
	ss := space(t, 3)
	tr := New(ss)
	got, err := tr.Translate(states(t, ss, "AAA", "AAA", "AAC"))
	require.NoError(t, err)
	assert.Equal(t, "AAAC", got)
}

func TestClassify(t *testing.T) {
	ss := space(t, 4)
	tr := New(ss)
	p := states(t, ss, "ACGT", "CGTA", "TAGG", "TAGG")
	cases := []struct {
		from, to int
		want     Kind
	}{
		{p[0], p[1], Init},
		{p[1], p[2], Move},
		{p[2], p[3], Skip},
		{p[3], p[4], Stay},
	}
	for _, c := range cases {
		got, err := tr.Classify(c.from, c.to)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}
	assert.Equal(t, "skip", Skip.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}

func TestTranslateErrors(t *testing.T) {
	ss := space(t, 3)
	tr := New(ss)

	got, err := tr.Translate(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = tr.Translate([]int{hmm.InitialState})
	require.NoError(t, err)
	assert.Empty(t, got)

	acg, _ := ss.State("ACG")
	_, err = tr.Translate([]int{acg, acg})
	assert.ErrorIs(t, err, common.ErrDecodingConsistency)

	// ACG -> TTT shares no bases
	_, err = tr.Translate(states(t, ss, "ACG", "TTT"))
	assert.ErrorIs(t, err, common.ErrDecodingConsistency)

	_, err = tr.Translate([]int{hmm.InitialState, acg, hmm.InitialState})
	assert.ErrorIs(t, err, common.ErrDecodingConsistency)

	_, err = tr.Translate([]int{hmm.InitialState, 1000})
	assert.ErrorIs(t, err, common.ErrDecodingConsistency)
}
