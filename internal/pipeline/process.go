package pipeline

// Package pipeline runs the per-file ARSC computation: input discovery,
// content classification, the protein and nucleotide paths, and a bounded
// worker pool that keeps results in discovery order.

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/stsnsn/quickARSC/internal/arsc"
	"github.com/stsnsn/quickARSC/internal/detect"
	"github.com/stsnsn/quickARSC/internal/fasta"
	"github.com/stsnsn/quickARSC/internal/genepred"
	"github.com/stsnsn/quickARSC/internal/nucleotide"
)

// Mode selects how input content is interpreted.
type Mode int

const (
	ModeAuto       Mode = iota // classify each file
	ModeProtein                // always protein
	ModeNucleotide             // always nucleotide, needs a Predictor
)

// Options configures Process and Run.
type Options struct {
	Mode        Mode
	PerSequence bool
	Detect      detect.Options
	// Predictor translates nucleotide input. When nil, files taking the
	// nucleotide path fail with genepred.ErrToolNotFound.
	Predictor genepred.Predictor
	Threads   int
	Logger    *log.Logger
	// OnDone is called from worker goroutines after each file.
	OnDone func(Result)
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

// Process computes the result for a single input. Failures are returned in
// Result.Err, including panics raised by the parser or the Predictor;
// Process never returns partial results.
func Process(ctx context.Context, in Input, opts Options) (res Result) {
	logger := opts.logger().With("file", in.Name)

	kind := KindProtein
	defer func() {
		if r := recover(); r != nil {
			logger.Error("recovered from panic", "panic", r)
			res = failed(in, kind, fmt.Errorf("panic: %v", r))
		}
	}()

	switch opts.Mode {
	case ModeNucleotide:
		kind = KindNucleotide
	case ModeAuto:
		if detect.IsNucleotideFile(in.Path, opts.Detect) {
			kind = KindNucleotide
			logger.Debug("detected nucleotide content")
		}
	}

	var err error
	if kind == KindNucleotide {
		res, err = processNucleotide(ctx, in, opts)
	} else {
		res, err = processProtein(in, opts)
	}
	if err != nil {
		return failed(in, kind, err)
	}
	res.Name, res.Path, res.Kind = in.Name, in.Path, kind

	if unknown := unknownSymbols(res); len(unknown) > 0 {
		logger.Warn("ignored characters not in the residue table", "chars", string(unknown))
	}
	return res
}

func processProtein(in Input, opts Options) (Result, error) {
	rc, err := fasta.Open(in.Path)
	if err != nil {
		return Result{}, fmt.Errorf("open: %w", err)
	}
	defer rc.Close()

	acc := accumulator{perSequence: opts.PerSequence}
	r := fasta.NewReader(rc)
	for r.Next() {
		acc.add(r.Record())
	}
	if err := r.Err(); err != nil {
		return Result{}, fmt.Errorf("read fasta: %w", err)
	}
	return acc.result(), nil
}

func processNucleotide(ctx context.Context, in Input, opts Options) (Result, error) {
	if opts.Predictor == nil {
		return Result{}, genepred.ErrToolNotFound
	}
	records, err := fasta.ReadFile(in.Path)
	if err != nil {
		return Result{}, fmt.Errorf("read fasta: %w", err)
	}

	var bc nucleotide.Counts
	for _, rec := range records {
		bc.Add(rec.Seq)
	}
	bases := nucleotide.Compute(bc)

	var genes []fasta.Record
	if len(records) > 0 {
		if genes, err = opts.Predictor.Predict(ctx, records); err != nil {
			if errors.Is(err, genepred.ErrToolNotFound) {
				return Result{}, err
			}
			return Result{}, fmt.Errorf("gene prediction: %w", err)
		}
	}

	acc := accumulator{perSequence: opts.PerSequence}
	for _, g := range genes {
		acc.add(g)
	}
	res := acc.result()
	res.Bases = &bases
	return res, nil
}

// accumulator collects residue counts over the records of one file.
type accumulator struct {
	perSequence bool
	total       arsc.Counts
	seqs        []SequenceResult
}

func (a *accumulator) add(rec fasta.Record) {
	seq := arsc.Clean(rec.Seq)
	if a.perSequence {
		a.seqs = append(a.seqs, SequenceResult{ID: rec.ID, Composition: arsc.ComputeSeq(seq)})
		return
	}
	a.total.Add(seq)
}

func (a *accumulator) result() Result {
	if a.perSequence {
		if a.seqs == nil {
			a.seqs = []SequenceResult{}
		}
		return Result{Sequences: a.seqs}
	}
	whole := arsc.Compute(&a.total)
	return Result{Whole: &whole}
}

// unknownSymbols returns the distinct unknown symbols over the whole file.
func unknownSymbols(res Result) []byte {
	if res.Whole != nil {
		return res.Whole.Unknown
	}
	var seen [256]bool
	var out []byte
	for _, s := range res.Sequences {
		for _, b := range s.Composition.Unknown {
			seen[b] = true
		}
	}
	for i, ok := range seen {
		if ok {
			out = append(out, byte(i))
		}
	}
	return out
}
