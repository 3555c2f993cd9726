// Package detect guesses whether FASTA content is nucleotide or protein
// sequence by sampling the first letters after the header lines.
package detect

import (
	"bufio"
	"io"

	"github.com/stsnsn/quickARSC/internal/fasta"
)

const (
	DefaultSampleSize = 1000
	DefaultThreshold  = 0.95
)

// Options tunes the heuristic. Zero fields take the defaults.
type Options struct {
	SampleSize int
	Threshold  float64
}

func (o Options) withDefaults() Options {
	if o.SampleSize <= 0 {
		o.SampleSize = DefaultSampleSize
	}
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	return o
}

var nucleotide = [256]bool{'A': true, 'T': true, 'G': true, 'C': true, 'U': true, 'N': true}

// IsNucleotide reports whether the sampled letters of r are at least
// Threshold A/T/G/C/U/N. Header lines are skipped and only ASCII letters are
// sampled. An empty sample or a read failure yields false, so unreadable
// input is treated as protein.
func IsNucleotide(r io.Reader, opts Options) bool {
	opts = opts.withDefaults()
	sample := make([]byte, 0, opts.SampleSize)

	br := bufio.NewReader(r)
	for len(sample) < opts.SampleSize {
		line, err := br.ReadSlice('\n')
		if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
			return false
		}
		// a long line read in pieces is a header only if its first piece was
		if len(line) > 0 && line[0] == '>' {
			if err == bufio.ErrBufferFull {
				if !skipLine(br) {
					return false
				}
			}
			if err == io.EOF {
				break
			}
			continue
		}
		for _, b := range line {
			if isLetter(b) {
				sample = append(sample, b&^0x20) // uppercase
				if len(sample) == opts.SampleSize {
					break
				}
			}
		}
		if err == io.EOF {
			break
		}
	}
	if len(sample) == 0 {
		return false
	}

	var hits int
	for _, b := range sample {
		if nucleotide[b] {
			hits++
		}
	}
	return float64(hits)/float64(len(sample)) >= opts.Threshold
}

// IsNucleotideFile opens path (gzip aware) and applies IsNucleotide. Open
// failures yield false.
func IsNucleotideFile(path string, opts Options) bool {
	rc, err := fasta.Open(path)
	if err != nil {
		return false
	}
	defer rc.Close()
	return IsNucleotide(rc, opts)
}

// skipLine discards the remainder of an overlong line.
func skipLine(br *bufio.Reader) bool {
	for {
		_, err := br.ReadSlice('\n')
		switch err {
		case nil, io.EOF:
			return true
		case bufio.ErrBufferFull:
			continue
		default:
			return false
		}
	}
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
