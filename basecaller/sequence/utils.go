package sequence

import "strings"

// ReverseComplement returns the reverse complement of a called sequence.
func ReverseComplement(seq string) string {
	complement := map[byte]byte{
		'A': 'T', 'T': 'A',
		'C': 'G', 'G': 'C',
		'U': 'A', // RNA pores
		'N': 'N',
	}
	var sb strings.Builder
	sb.Grow(len(seq))
	for i := len(seq) - 1; i >= 0; i-- {
		if c, ok := complement[seq[i]]; ok {
			sb.WriteByte(c)
		} else {
			sb.WriteByte('N') // Default for unknown bases
		}
	}
	return sb.String()
}

// CalculateGCContent calculates the GC fraction of a sequence.
func CalculateGCContent(seq string) float64 {
	if len(seq) == 0 {
		return 0.0
	}
	gcCount := 0
	for _, base := range seq {
		if base == 'G' || base == 'C' || base == 'g' || base == 'c' { // Case-insensitive
			gcCount++
		}
	}
	return float64(gcCount) / float64(len(seq))
}
