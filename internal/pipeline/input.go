package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidInput is returned by Discover for paths that cannot be processed.
var ErrInvalidInput = errors.New("invalid input")

// Extensions lists the accepted FASTA extensions. Each may be followed by
// ".gz".
var Extensions = []string{".faa", ".fna", ".ffn", ".fa", ".fas", ".fasta"}

// Input is one FASTA file to process.
type Input struct {
	Path string
	Name string // base name without .gz and FASTA extension
}

// Discover expands path into the inputs to process. A directory yields its
// FASTA files (non-recursive, sorted by name); a file must carry one of
// Extensions. The second result reports whether path is a directory.
func Discover(path string) ([]Input, bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, fmt.Errorf("%w: input path does not exist: %s", ErrInvalidInput, path)
		}
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !fi.IsDir() {
		name, ok := GenomeName(path)
		if !ok {
			return nil, false, fmt.Errorf("%w: input must be a FASTA file (%s[.gz]): %s",
				ErrInvalidInput, strings.Join(Extensions, ", "), path)
		}
		return []Input{{Path: path, Name: name}}, false, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	var inputs []Input
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := GenomeName(e.Name()); ok {
			inputs = append(inputs, Input{Path: filepath.Join(path, e.Name()), Name: name})
		}
	}
	if len(inputs) == 0 {
		return nil, true, fmt.Errorf("%w: no FASTA files found in %s", ErrInvalidInput, path)
	}
	return inputs, true, nil
}

// GenomeName strips the directory, an optional .gz suffix and the FASTA
// extension from path. The second result is false when path does not carry
// an accepted extension.
func GenomeName(path string) (string, bool) {
	base := filepath.Base(path)
	stem := base
	if strings.EqualFold(filepath.Ext(stem), ".gz") {
		stem = stem[:len(stem)-len(".gz")]
	}
	ext := filepath.Ext(stem)
	for _, e := range Extensions {
		if strings.EqualFold(ext, e) {
			return stem[:len(stem)-len(ext)], true
		}
	}
	return "", false
}
