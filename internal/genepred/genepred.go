package genepred

// Package genepred wraps an external gene prediction tool (prodigal) that
// turns nucleotide FASTA records into translated protein records. The
// biological work stays in the external tool; this package only manages
// temporary files and the process.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/stsnsn/quickARSC/internal/fasta"
)

// DefaultTool is looked up in PATH when no explicit path is configured.
const DefaultTool = "prodigal"

// ErrToolNotFound is returned when the gene prediction executable cannot be
// located.
var ErrToolNotFound = errors.New("gene prediction tool not found")

// Predictor turns nucleotide records into predicted protein records.
type Predictor interface {
	Predict(ctx context.Context, records []fasta.Record) ([]fasta.Record, error)
}

// Find resolves the prodigal executable. An empty name means DefaultTool.
func Find(name string) (string, error) {
	if name == "" {
		name = DefaultTool
	}
	p, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return p, nil
}

// Prodigal runs the prodigal executable at Path. Mode is passed to -p
// ("single" or "meta"); empty leaves prodigal's default. A zero Timeout
// lets the process run until it exits.
type Prodigal struct {
	Path    string
	Mode    string
	Timeout time.Duration
}

// Predict writes records to a private temporary directory, runs prodigal on
// it and returns the translated genes. The directory is removed before
// returning.
func (p *Prodigal) Predict(ctx context.Context, records []fasta.Record) ([]fasta.Record, error) {
	if p == nil || p.Path == "" {
		return nil, ErrToolNotFound
	}
	dir, err := os.MkdirTemp("", "quickarsc-genepred-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "input.fna")
	f, err := os.Create(in)
	if err != nil {
		return nil, err
	}
	if err := fasta.Write(f, records); err != nil {
		f.Close()
		return nil, fmt.Errorf("write temp fasta: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	proteins := filepath.Join(dir, "proteins.faa")
	args := []string{"-i", in, "-a", proteins, "-o", filepath.Join(dir, "genes.gff"), "-f", "gff", "-q"}
	if p.Mode != "" {
		args = append(args, "-p", p.Mode)
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, p.Path, args...)
	cmd.WaitDelay = time.Second
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p.Path), ctx.Err())
		}
		return nil, fmt.Errorf("%s failed: %w%s", filepath.Base(p.Path), err, lastLine(out))
	}

	genes, err := fasta.ReadFile(proteins)
	if err != nil {
		return nil, fmt.Errorf("read predicted proteins: %w", err)
	}
	return genes, nil
}

// lastLine formats the last non-empty line of tool output for error messages.
func lastLine(out []byte) string {
	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return ""
	}
	if i := bytes.LastIndexByte(out, '\n'); i >= 0 {
		out = out[i+1:]
	}
	return ": " + strings.TrimSpace(string(out))
}
