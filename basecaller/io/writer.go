package io

import (
	"bufio"
	"fmt"
	"io"

	"Nanopore-HMM-Basecaller/basecaller/common"
)

// FASTALineWidth is the number of bases per sequence line.
const FASTALineWidth = 80

// WriteFASTA writes one record per call, sampled sequences included as
// "<id>_sample<i>" records.
func WriteFASTA(w io.Writer, calls []*common.Call) error {
	bw := bufio.NewWriter(w)
	for _, c := range calls {
		if c == nil {
			continue
		}
		header := fmt.Sprintf("%s len=%d events=%d logp=%.4f gc=%.4f", c.ID, len(c.Sequence), len(c.Path), c.LogProb, c.GCContent)
		writeRecord(bw, header, c.Sequence)
		for i, s := range c.Samples {
			writeRecord(bw, fmt.Sprintf("%s_sample%d len=%d", c.ID, i, len(s)), s)
		}
	}
	return bw.Flush()
}

func writeRecord(bw *bufio.Writer, header, seq string) {
	fmt.Fprintf(bw, ">%s\n", header)
	for i := 0; i < len(seq); i += FASTALineWidth {
		end := min(i+FASTALineWidth, len(seq))
		bw.WriteString(seq[i:end])
		bw.WriteByte('\n')
	}
}
