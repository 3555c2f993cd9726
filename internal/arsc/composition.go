package arsc

import (
	"bytes"
	"math"
)

// Counts is an occurrence table indexed by byte value. The zero value is
// ready to use.
type Counts [256]int64

// Add counts every byte of seq as is. Callers are expected to pass cleaned
// sequences (see Clean).
func (c *Counts) Add(seq []byte) {
	for _, b := range seq {
		c[b]++
	}
}

// Merge adds the occurrences held in o.
func (c *Counts) Merge(o *Counts) {
	for i, n := range o {
		c[i] += n
	}
}

// Total returns the number of counted symbols, known or not.
func (c *Counts) Total() int64 {
	var t int64
	for _, n := range c {
		t += n
	}
	return t
}

// Clean uppercases seq in place and drops trailing stop symbols ('*').
// A '*' inside the sequence is kept and later counted as an unknown symbol,
// so it lowers the metrics like any other unknown residue.
func Clean(seq []byte) []byte {
	for i, b := range seq {
		seq[i] = upper(b)
	}
	return bytes.TrimRight(seq, "*")
}

// Composition holds the weighted averages derived from a set of counts.
// When Defined reports false, the four metrics are NaN and Fractions is nil.
type Composition struct {
	Length    int
	NARSC     float64
	CARSC     float64
	SARSC     float64
	AvgResMW  float64
	Fractions map[byte]float64 // every table symbol, absent ones at 0
	Unknown   []byte           // distinct symbols missing from the table, sorted

	defined bool
}

// Defined reports whether the composition carries metric values.
func (c Composition) Defined() bool { return c.defined }

// Compute derives the composition of c.
//
// Every metric is Σ count[a]*property[a] over table symbols divided by the
// total number of counted symbols. Unknown symbols therefore lower all four
// metrics and the fractions; this matches the published ARSC scripts.
// A composition with no table symbol at all is undefined.
func Compute(c *Counts) Composition {
	total := c.Total()
	comp := Composition{Length: int(total)}

	var n, s, cb, mw float64
	var known int64
	for i, cnt := range c {
		if cnt == 0 {
			continue
		}
		r := residues[i]
		if r == nil {
			comp.Unknown = append(comp.Unknown, byte(i))
			continue
		}
		known += cnt
		w := float64(cnt)
		n += w * r.N
		s += w * r.S
		cb += w * r.C
		mw += w * r.MW
	}

	if total == 0 || known == 0 {
		comp.NARSC, comp.CARSC, comp.SARSC, comp.AvgResMW = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return comp
	}

	t := float64(total)
	comp.NARSC = n / t
	comp.CARSC = cb / t
	comp.SARSC = s / t
	comp.AvgResMW = mw / t
	comp.Fractions = make(map[byte]float64, len(symbols))
	for _, sym := range symbols {
		comp.Fractions[sym] = float64(c[sym]) / t
	}
	comp.defined = true
	return comp
}

// ComputeSeq is a shorthand for counting a single cleaned sequence.
func ComputeSeq(seq []byte) Composition {
	var c Counts
	c.Add(seq)
	return Compute(&c)
}
