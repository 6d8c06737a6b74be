package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReverseComplement(t *testing.T) {
	assert.Equal(t, "ACGT", ReverseComplement("ACGT"))
	assert.Equal(t, "TTGCA", ReverseComplement("TGCAA"))
	assert.Equal(t, "NA", ReverseComplement("UX"))
	assert.Equal(t, "", ReverseComplement(""))
}

func TestCalculateGCContent(t *testing.T) {
	assert.Equal(t, 0.0, CalculateGCContent(""))
	assert.Equal(t, 0.5, CalculateGCContent("ACGT"))
	assert.Equal(t, 1.0, CalculateGCContent("gGcC"))
	assert.InDelta(t, 1.0/3, CalculateGCContent("ATG"), 1e-12)
}
