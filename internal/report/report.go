// Package report turns pipeline results into tab-separated output,
// optionally filtered by length and summarised per metric.
package report

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/stsnsn/quickARSC/internal/arsc"
	"github.com/stsnsn/quickARSC/internal/nucleotide"
	"github.com/stsnsn/quickARSC/internal/pipeline"
)

// DefaultPrecision is the number of decimals used for floating columns.
const DefaultPrecision = 6

// Options controls which rows and columns are rendered.
type Options struct {
	PerSequence bool // one row per record instead of per file
	Composition bool // append one fraction column per residue symbol
	Nucleotide  bool // prepend genomic GC and base fraction columns
	NoHeader    bool
	Precision   int
	MinLength   int // inclusive; 0 disables
	MaxLength   int // inclusive; 0 disables
}

func (o Options) precision() int {
	if o.Precision < 0 {
		return DefaultPrecision
	}
	return o.Precision
}

// Row is one output line.
type Row struct {
	Query       string
	SequenceID  string
	Composition arsc.Composition
	Bases       *nucleotide.Composition
}

// HasNucleotide reports whether any successful result carries base
// composition.
func HasNucleotide(results []pipeline.Result) bool {
	for _, r := range results {
		if r.OK() && r.Bases != nil {
			return true
		}
	}
	return false
}

// Rows flattens results into output rows. Failed results are dropped and
// the length filter is applied.
func Rows(results []pipeline.Result, opts Options) []Row {
	var rows []Row
	keep := func(length int) bool {
		if opts.MinLength > 0 && length < opts.MinLength {
			return false
		}
		if opts.MaxLength > 0 && length > opts.MaxLength {
			return false
		}
		return true
	}
	for _, res := range results {
		if !res.OK() {
			continue
		}
		if res.Whole != nil {
			if keep(res.Whole.Length) {
				rows = append(rows, Row{Query: res.Name, Composition: *res.Whole, Bases: res.Bases})
			}
			continue
		}
		for _, s := range res.Sequences {
			if keep(s.Composition.Length) {
				rows = append(rows, Row{Query: res.Name, SequenceID: s.ID, Composition: s.Composition, Bases: res.Bases})
			}
		}
	}
	return rows
}

// Metric column names.
const (
	ColQuery       = "query"
	ColSequenceID  = "sequence_id"
	ColGC          = "genomic_GC"
	ColNARSC       = "N_ARSC"
	ColCARSC       = "C_ARSC"
	ColSARSC       = "S_ARSC"
	ColAvgResMW    = "AvgResMW"
	ColLength      = "length"
	ColTotalLength = "TotalLength"
)

var baseColumns = []string{"base_A", "base_T", "base_G", "base_C"}

func lengthColumn(opts Options) string {
	if opts.PerSequence {
		return ColLength
	}
	return ColTotalLength
}

// Columns returns the header fields for opts.
func Columns(opts Options) []string {
	cols := []string{ColQuery}
	if opts.PerSequence {
		cols = append(cols, ColSequenceID)
	}
	if opts.Nucleotide {
		cols = append(cols, ColGC)
		cols = append(cols, baseColumns...)
	}
	cols = append(cols, ColNARSC, ColCARSC, ColSARSC, ColAvgResMW, lengthColumn(opts))
	if opts.Composition {
		for _, s := range arsc.Symbols() {
			cols = append(cols, string(s))
		}
	}
	return cols
}

// Write renders rows as TSV. Undefined values are written as 0.
func Write(w io.Writer, rows []Row, opts Options) error {
	bw := bufio.NewWriter(w)
	if !opts.NoHeader {
		if _, err := bw.WriteString(strings.Join(Columns(opts), "\t") + "\n"); err != nil {
			return err
		}
	}
	prec := opts.precision()
	f := func(v float64) string { return formatFloat(v, prec) }
	symbols := arsc.Symbols()

	fields := make([]string, 0, len(Columns(opts)))
	for _, r := range rows {
		fields = append(fields[:0], r.Query)
		if opts.PerSequence {
			fields = append(fields, r.SequenceID)
		}
		if opts.Nucleotide {
			b := r.Bases
			if b == nil {
				b = &nucleotide.Composition{}
			}
			fields = append(fields, f(b.GC), f(b.A), f(b.T), f(b.G), f(b.C))
		}
		c := r.Composition
		fields = append(fields, f(c.NARSC), f(c.CARSC), f(c.SARSC), f(c.AvgResMW), strconv.Itoa(c.Length))
		if opts.Composition {
			for _, s := range symbols {
				// a nil map (undefined composition) yields 0
				fields = append(fields, f(c.Fractions[s]))
			}
		}
		if _, err := bw.WriteString(strings.Join(fields, "\t") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func formatFloat(v float64, prec int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}
