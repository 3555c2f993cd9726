package pipeline

import (
	"github.com/stsnsn/quickARSC/internal/arsc"
	"github.com/stsnsn/quickARSC/internal/nucleotide"
)

// Kind tells how a file's content was interpreted.
type Kind int

const (
	KindProtein Kind = iota
	KindNucleotide
)

func (k Kind) String() string {
	if k == KindNucleotide {
		return "nucleotide"
	}
	return "protein"
}

// SequenceResult is the composition of one record in per-sequence mode.
type SequenceResult struct {
	ID          string
	Composition arsc.Composition
}

// Result is the outcome of processing one input file. When Err is set the
// other payload fields are empty. Otherwise Whole is set in whole-file mode
// and Sequences in per-sequence mode; Bases is set for nucleotide input.
type Result struct {
	Name      string
	Path      string
	Kind      Kind
	Whole     *arsc.Composition
	Sequences []SequenceResult
	Bases     *nucleotide.Composition
	Err       error
}

// OK reports whether the file was processed without error.
func (r Result) OK() bool { return r.Err == nil }

func failed(in Input, kind Kind, err error) Result {
	return Result{Name: in.Name, Path: in.Path, Kind: kind, Err: err}
}
