package hmm

import "sort"

// Alphabet is the ordered set of bases a model is built over.
// Symbols are kept sorted so state construction is deterministic.
type Alphabet struct {
	symbols []byte
	index   [256]int16 // -1 when absent
}

// NewAlphabet builds an alphabet from the distinct bytes of s.
func NewAlphabet(s string) Alphabet {
	var a Alphabet
	for i := range a.index {
		a.index[i] = -1
	}
	seen := make(map[byte]bool, len(s))
	for i := 0; i < len(s); i++ {
		if !seen[s[i]] {
			seen[s[i]] = true
			a.symbols = append(a.symbols, s[i])
		}
	}
	sort.Slice(a.symbols, func(i, j int) bool { return a.symbols[i] < a.symbols[j] })
	for i, b := range a.symbols {
		a.index[b] = int16(i)
	}
	return a
}

// Size returns the number of symbols.
func (a Alphabet) Size() int { return len(a.symbols) }

// Symbols returns the alphabet as a sorted string.
func (a Alphabet) Symbols() string { return string(a.symbols) }

// Contains reports whether b belongs to the alphabet.
func (a Alphabet) Contains(b byte) bool { return a.index[b] >= 0 }

// Index returns the position of b in the sorted alphabet, or -1.
func (a Alphabet) Index(b byte) int { return int(a.index[b]) }

// Symbol returns the i-th symbol.
func (a Alphabet) Symbol(i int) byte { return a.symbols[i] }

// firstInvalid returns the index of the first byte of s outside the alphabet, or -1.
func (a Alphabet) firstInvalid(s string) int {
	for i := 0; i < len(s); i++ {
		if !a.Contains(s[i]) {
			return i
		}
	}
	return -1
}

// Shifted reports whether `to` is `from` advanced by n bases, i.e. the last
// len-n bases of from equal the first len-n bases of to.
func Shifted(from, to string, n int) bool {
	k := len(from)
	if len(to) != k || n < 0 || n > k {
		return false
	}
	return from[n:] == to[:k-n]
}

// successors enumerates every k-mer obtained by dropping n leading bases of
// kmer and appending n bases from the alphabet, in alphabet order.
func successors(kmer string, n int, a Alphabet) []string {
	prefixes := []string{kmer[n:]}
	for step := 0; step < n; step++ {
		next := make([]string, 0, len(prefixes)*a.Size())
		for _, p := range prefixes {
			for _, b := range a.symbols {
				next = append(next, p+string(b))
			}
		}
		prefixes = next
	}
	return prefixes
}

// EnumerateKmers lists every k-mer over the alphabet in lexicographic order.
func EnumerateKmers(alphabet string, k int) []string {
	a := NewAlphabet(alphabet)
	if k <= 0 || a.Size() == 0 {
		return nil
	}
	kmers := []string{""}
	for i := 0; i < k; i++ {
		next := make([]string, 0, len(kmers)*a.Size())
		for _, p := range kmers {
			for _, b := range a.symbols {
				next = append(next, p+string(b))
			}
		}
		kmers = next
	}
	return kmers
}
