// Package nucleotide computes base composition and GC content of
// nucleotide sequences.
package nucleotide

import "math"

// Counts tallies the four canonical bases. U is counted as T; ambiguity
// codes and other symbols are tallied in Other and excluded from the
// fractions.
type Counts struct {
	A, T, G, C int64
	Other      int64
}

// Add counts the bases of seq, case-insensitively.
func (c *Counts) Add(seq []byte) {
	for _, b := range seq {
		switch b {
		case 'A', 'a':
			c.A++
		case 'T', 't', 'U', 'u':
			c.T++
		case 'G', 'g':
			c.G++
		case 'C', 'c':
			c.C++
		default:
			c.Other++
		}
	}
}

// Bases returns the number of canonical bases counted.
func (c Counts) Bases() int64 { return c.A + c.T + c.G + c.C }

// Composition holds base fractions over canonical bases. When Defined
// reports false, every fraction is NaN.
type Composition struct {
	Length int // all counted symbols
	A      float64
	T      float64
	G      float64
	C      float64
	GC     float64

	defined bool
}

// Defined reports whether at least one canonical base was counted.
func (c Composition) Defined() bool { return c.defined }

// Compute derives the base composition of c.
func Compute(c Counts) Composition {
	comp := Composition{Length: int(c.Bases() + c.Other)}
	n := c.Bases()
	if n == 0 {
		nan := math.NaN()
		comp.A, comp.T, comp.G, comp.C, comp.GC = nan, nan, nan, nan, nan
		return comp
	}
	t := float64(n)
	comp.A = float64(c.A) / t
	comp.T = float64(c.T) / t
	comp.G = float64(c.G) / t
	comp.C = float64(c.C) / t
	comp.GC = float64(c.G+c.C) / t
	comp.defined = true
	return comp
}
