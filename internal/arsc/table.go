package arsc

// Package arsc computes atomic residue-specific composition metrics
// (N-ARSC, C-ARSC, S-ARSC) and the average residue molecular weight from
// amino-acid occurrence counts.
//
// Atom counts refer to the side chain (Baudouin-Cornu et al. 2001, Mende et
// al. 2017); molecular weights are free amino-acid weights.

import "sort"

// Residue holds the per-residue properties used by the weighted averages.
type Residue struct {
	Symbol byte
	N      float64 // side-chain nitrogen atoms
	S      float64 // side-chain sulfur atoms
	C      float64 // side-chain carbon atoms
	MW     float64 // molecular weight (Da)
}

// residues is indexed by uppercase ASCII symbol. B and Z are the means of
// D/N and E/Q respectively.
var residues = [256]*Residue{
	'K': {Symbol: 'K', N: 1, S: 0, MW: 146.1882, C: 4},
	'R': {Symbol: 'R', N: 3, S: 0, MW: 174.2017, C: 4},
	'H': {Symbol: 'H', N: 2, S: 0, MW: 155.1552, C: 4},
	'D': {Symbol: 'D', N: 0, S: 0, MW: 133.1032, C: 2},
	'E': {Symbol: 'E', N: 0, S: 0, MW: 147.1299, C: 3},
	'N': {Symbol: 'N', N: 1, S: 0, MW: 132.1184, C: 2},
	'Q': {Symbol: 'Q', N: 1, S: 0, MW: 146.1451, C: 3},
	'S': {Symbol: 'S', N: 0, S: 0, MW: 105.0930, C: 1},
	'T': {Symbol: 'T', N: 0, S: 0, MW: 119.1197, C: 2},
	'Y': {Symbol: 'Y', N: 0, S: 0, MW: 181.1894, C: 7},
	'A': {Symbol: 'A', N: 0, S: 0, MW: 89.0935, C: 1},
	'V': {Symbol: 'V', N: 0, S: 0, MW: 117.1469, C: 3},
	'L': {Symbol: 'L', N: 0, S: 0, MW: 131.1736, C: 4},
	'I': {Symbol: 'I', N: 0, S: 0, MW: 131.1736, C: 4},
	'P': {Symbol: 'P', N: 0, S: 0, MW: 115.1310, C: 3},
	'F': {Symbol: 'F', N: 0, S: 0, MW: 165.1900, C: 7},
	'M': {Symbol: 'M', N: 0, S: 1, MW: 149.2124, C: 3},
	'W': {Symbol: 'W', N: 1, S: 0, MW: 204.2262, C: 9},
	'G': {Symbol: 'G', N: 0, S: 0, MW: 75.0669, C: 0},
	'C': {Symbol: 'C', N: 0, S: 1, MW: 121.1590, C: 1},
	'U': {Symbol: 'U', N: 0, S: 0, MW: 168.07, C: 1},
	'J': {Symbol: 'J', N: 0, S: 0, MW: 131.1736, C: 4},
	'B': {Symbol: 'B', N: 0.5, S: 0, MW: 132.6108, C: 2},
	'Z': {Symbol: 'Z', N: 0.5, S: 0, MW: 146.6375, C: 3},
}

// symbols lists the table symbols in sorted order.
var symbols = func() []byte {
	var out []byte
	for i, r := range residues {
		if r != nil {
			out = append(out, byte(i))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}()

// Lookup returns the properties of symbol. Lowercase symbols are accepted.
// The second result is false for symbols not in the table.
func Lookup(symbol byte) (Residue, bool) {
	r := residues[upper(symbol)]
	if r == nil {
		return Residue{}, false
	}
	return *r, true
}

// Symbols returns the table symbols in ascending order. The caller owns the
// returned slice.
func Symbols() []byte {
	out := make([]byte, len(symbols))
	copy(out, symbols)
	return out
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
