package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stsnsn/quickARSC/internal/fasta"
	"github.com/stsnsn/quickARSC/internal/genepred"
)

const twoProteins = ">s1\nMAVK*\n>s2\nGGG\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func quietOptions() Options {
	return Options{Logger: log.New(io.Discard)}
}

// stubPredictor translates every record to a fixed protein.
type stubPredictor struct {
	protein string
	err     error
	calls   atomic.Int32
}

func (s *stubPredictor) Predict(_ context.Context, recs []fasta.Record) ([]fasta.Record, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	out := make([]fasta.Record, len(recs))
	for i, r := range recs {
		out[i] = fasta.Record{ID: r.ID + "_1", Seq: []byte(s.protein)}
	}
	return out, nil
}

// panicPredictor fails the way a broken Predictor implementation would.
type panicPredictor struct{}

func (panicPredictor) Predict(context.Context, []fasta.Record) ([]fasta.Record, error) {
	panic("index out of range")
}

func TestGenomeName(t *testing.T) {
	cases := []struct {
		path string
		name string
		ok   bool
	}{
		{"dir/GCF_000005845.2.faa", "GCF_000005845.2", true},
		{"x.faa.gz", "x", true},
		{"genome.fna", "genome", true},
		{"genome.FASTA.GZ", "genome", true},
		{"notes.txt", "", false},
		{"archive.tar.gz", "", false},
		{"plain.gz", "", false},
	}
	for _, c := range cases {
		name, ok := GenomeName(c.path)
		assert.Equal(t, c.ok, ok, c.path)
		assert.Equal(t, c.name, name, c.path)
	}
}

func TestDiscoverFile(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.faa", twoProteins)

	inputs, isDir, err := Discover(p)
	require.NoError(t, err)
	assert.False(t, isDir)
	assert.Equal(t, []Input{{Path: p, Name: "a"}}, inputs)

	bad := writeFile(t, dir, "a.txt", twoProteins)
	_, _, err = Discover(bad)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = Discover(filepath.Join(dir, "missing.faa"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDiscoverDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.faa.gz", "")
	writeFile(t, dir, "a.faa", twoProteins)
	writeFile(t, dir, "readme.md", "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.faa"), 0o755))

	inputs, isDir, err := Discover(dir)
	require.NoError(t, err)
	assert.True(t, isDir)
	require.Len(t, inputs, 2)
	assert.Equal(t, "a", inputs[0].Name)
	assert.Equal(t, "b", inputs[1].Name)

	_, _, err = Discover(t.TempDir())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProcessWholeFile(t *testing.T) {
	p := writeFile(t, t.TempDir(), "g.faa", twoProteins)
	opts := quietOptions()
	opts.Mode = ModeProtein

	res := Process(context.Background(), Input{Path: p, Name: "g"}, opts)
	require.NoError(t, res.Err)
	require.NotNil(t, res.Whole)
	assert.Nil(t, res.Sequences)
	assert.Nil(t, res.Bases)
	assert.Equal(t, KindProtein, res.Kind)
	assert.Equal(t, "g", res.Name)

	w := res.Whole
	require.True(t, w.Defined())
	assert.Equal(t, 7, w.Length)
	assert.InDelta(t, 1.0/7, w.NARSC, 1e-12)
	assert.InDelta(t, 1.0/7, w.SARSC, 1e-12)
	assert.Greater(t, w.CARSC, 0.0)
	assert.Greater(t, w.AvgResMW, 0.0)
}

func TestProcessPerSequence(t *testing.T) {
	p := writeFile(t, t.TempDir(), "g.faa", twoProteins)
	opts := quietOptions()
	opts.PerSequence = true

	res := Process(context.Background(), Input{Path: p, Name: "g"}, opts)
	require.NoError(t, res.Err)
	assert.Nil(t, res.Whole)
	require.Len(t, res.Sequences, 2)
	assert.Equal(t, "s1", res.Sequences[0].ID)
	assert.Equal(t, 4, res.Sequences[0].Composition.Length)
	assert.Equal(t, "s2", res.Sequences[1].ID)
	assert.Equal(t, 3, res.Sequences[1].Composition.Length)
}

func TestProcessIsRepeatable(t *testing.T) {
	p := writeFile(t, t.TempDir(), "g.faa", twoProteins)
	in := Input{Path: p, Name: "g"}
	a := Process(context.Background(), in, quietOptions())
	b := Process(context.Background(), in, quietOptions())
	assert.Equal(t, a, b)
}

func TestProcessEmptyFile(t *testing.T) {
	p := writeFile(t, t.TempDir(), "empty.faa", "")
	res := Process(context.Background(), Input{Path: p, Name: "empty"}, quietOptions())
	require.NoError(t, res.Err)
	require.NotNil(t, res.Whole)
	assert.False(t, res.Whole.Defined())
}

func TestProcessBrokenGzip(t *testing.T) {
	p := writeFile(t, t.TempDir(), "bad.faa.gz", "\x1f\x8bgarbage")
	res := Process(context.Background(), Input{Path: p, Name: "bad"}, quietOptions())
	require.Error(t, res.Err)
	assert.False(t, res.OK())
	assert.Nil(t, res.Whole)
}

func TestProcessNucleotideWithoutTool(t *testing.T) {
	p := writeFile(t, t.TempDir(), "g.fna", ">c\n"+strings.Repeat("ATGC", 300)+"\n")
	res := Process(context.Background(), Input{Path: p, Name: "g"}, quietOptions())
	assert.Equal(t, KindNucleotide, res.Kind)
	assert.ErrorIs(t, res.Err, genepred.ErrToolNotFound)
}

func TestProcessNucleotide(t *testing.T) {
	p := writeFile(t, t.TempDir(), "g.fna", ">c1\n"+strings.Repeat("GGCA", 200)+"\n>c2\nATAT\n")
	pred := &stubPredictor{protein: "MAVK*"}
	opts := quietOptions()
	opts.Predictor = pred

	res := Process(context.Background(), Input{Path: p, Name: "g"}, opts)
	require.NoError(t, res.Err)
	assert.Equal(t, KindNucleotide, res.Kind)
	assert.Equal(t, int32(1), pred.calls.Load())

	require.NotNil(t, res.Bases)
	assert.Equal(t, 804, res.Bases.Length)
	assert.InDelta(t, 600.0/804, res.Bases.GC, 1e-12)

	require.NotNil(t, res.Whole)
	assert.Equal(t, 8, res.Whole.Length)
}

func TestProcessForcedProteinSkipsDetection(t *testing.T) {
	p := writeFile(t, t.TempDir(), "g.fna", ">c\n"+strings.Repeat("ATGC", 300)+"\n")
	pred := &stubPredictor{protein: "M"}
	opts := quietOptions()
	opts.Mode = ModeProtein
	opts.Predictor = pred

	res := Process(context.Background(), Input{Path: p, Name: "g"}, opts)
	require.NoError(t, res.Err)
	assert.Equal(t, KindProtein, res.Kind)
	assert.Zero(t, pred.calls.Load())
	assert.Equal(t, 1200, res.Whole.Length)
}

func TestProcessForcedNucleotide(t *testing.T) {
	p := writeFile(t, t.TempDir(), "g.faa", twoProteins)
	pred := &stubPredictor{err: errors.New("prodigal exploded")}
	opts := quietOptions()
	opts.Mode = ModeNucleotide
	opts.Predictor = pred

	res := Process(context.Background(), Input{Path: p, Name: "g"}, opts)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "prodigal exploded")
	assert.Equal(t, KindNucleotide, res.Kind)
}

func TestProcessWarnsUnknownOncePerFile(t *testing.T) {
	p := writeFile(t, t.TempDir(), "g.faa", ">a\nMAXK\n>b\nGXOG\n>c\nOOK\n")
	var buf bytes.Buffer
	opts := Options{Mode: ModeProtein, PerSequence: true, Logger: log.New(&buf)}

	res := Process(context.Background(), Input{Path: p, Name: "g"}, opts)
	require.NoError(t, res.Err)
	require.Len(t, res.Sequences, 3)

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "ignored characters not in the residue table"), out)
	assert.Contains(t, out, "file=g")
	assert.Contains(t, out, "chars=OX")
}

func TestProcessNoWarningForKnownSymbols(t *testing.T) {
	p := writeFile(t, t.TempDir(), "g.faa", twoProteins)
	var buf bytes.Buffer
	opts := Options{Mode: ModeProtein, Logger: log.New(&buf)}

	res := Process(context.Background(), Input{Path: p, Name: "g"}, opts)
	require.NoError(t, res.Err)
	assert.NotContains(t, buf.String(), "ignored characters")
}

func TestProcessRecoversPredictorPanic(t *testing.T) {
	p := writeFile(t, t.TempDir(), "g.fna", ">c\n"+strings.Repeat("ATGC", 300)+"\n")
	opts := quietOptions()
	opts.Predictor = panicPredictor{}

	res := Process(context.Background(), Input{Path: p, Name: "g"}, opts)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "panic: index out of range")
	assert.Equal(t, KindNucleotide, res.Kind)
	assert.Equal(t, "g", res.Name)
	assert.Nil(t, res.Whole)
	assert.Nil(t, res.Bases)
}

func TestRunContainsPanics(t *testing.T) {
	dir := t.TempDir()
	inputs := []Input{
		{Path: writeFile(t, dir, "a.faa", twoProteins), Name: "a"},
		{Path: writeFile(t, dir, "b.fna", ">c\n"+strings.Repeat("ATGC", 300)+"\n"), Name: "b"},
		{Path: writeFile(t, dir, "c.faa", twoProteins), Name: "c"},
	}
	opts := quietOptions()
	opts.Predictor = panicPredictor{}
	opts.Threads = 2

	results := Run(context.Background(), inputs, opts)
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
}

func TestRunKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var inputs []Input
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("g%02d", i)
		content := fmt.Sprintf(">s\n%s\n", strings.Repeat("A", i+1))
		if i == 7 {
			name = "broken"
			content = "\x1f\x8bnot gzip"
		}
		p := writeFile(t, dir, name+".faa", content)
		inputs = append(inputs, Input{Path: p, Name: name})
	}

	var done atomic.Int32
	opts := quietOptions()
	opts.Mode = ModeProtein
	opts.Threads = 4
	opts.OnDone = func(Result) { done.Add(1) }

	results := Run(context.Background(), inputs, opts)
	require.Len(t, results, len(inputs))
	assert.Equal(t, int32(len(inputs)), done.Load())
	for i, r := range results {
		assert.Equal(t, inputs[i].Name, r.Name)
		if i == 7 {
			assert.Error(t, r.Err)
			continue
		}
		require.NoError(t, r.Err)
		assert.Equal(t, i+1, r.Whole.Length)
	}
}

func TestRunNoInputs(t *testing.T) {
	assert.Empty(t, Run(context.Background(), nil, quietOptions()))
}
