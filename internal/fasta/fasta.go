package fasta

// Package fasta reads and writes FASTA formatted data. Parsing is delegated
// to biogo; this package adds transparent gzip handling and a flat record
// type that the rest of the project works with.

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	biofasta "github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// Record represents a single FASTA record. ID is the first word of the
// header line, Description the remainder.
type Record struct {
	ID          string
	Description string
	Seq         []byte
}

// Header returns the header line without the leading '>'.
func (r Record) Header() string {
	if r.Description == "" {
		return r.ID
	}
	return r.ID + " " + r.Description
}

var gzipMagic = []byte{0x1f, 0x8b}

// Open opens path for reading. Gzip compressed content is detected from the
// leading magic bytes rather than the file extension.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(f)
	magic, _ := br.Peek(len(gzipMagic))
	if len(magic) < len(gzipMagic) || magic[0] != gzipMagic[0] || magic[1] != gzipMagic[1] {
		return readCloser{Reader: br, closers: []io.Closer{f}}, nil
	}
	gz, err := gzip.NewReader(br)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("gzip %s: %w", path, err)
	}
	return readCloser{Reader: gz, closers: []io.Closer{gz, f}}, nil
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc readCloser) Close() error {
	var err error
	for _, c := range rc.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Reader iterates over the records of a FASTA stream.
type Reader struct {
	sc  *seqio.Scanner
	rec Record
}

// NewReader returns a Reader consuming r. The alphabet is only used as a
// container for letters; no symbol validation takes place.
func NewReader(r io.Reader) *Reader {
	template := linear.NewSeq("", nil, alphabet.Protein)
	return &Reader{sc: seqio.NewScanner(biofasta.NewReader(r, template))}
}

// Next advances to the next record. It returns false at the end of the input
// or on error; check Err afterwards.
func (r *Reader) Next() bool {
	if !r.sc.Next() {
		return false
	}
	s, ok := r.sc.Seq().(*linear.Seq)
	if !ok {
		r.rec = Record{}
		return false
	}
	seq := make([]byte, len(s.Seq))
	for i, l := range s.Seq {
		seq[i] = byte(l)
	}
	r.rec = Record{ID: s.ID, Description: s.Desc, Seq: seq}
	return true
}

// Record returns the record read by the last successful call to Next.
// The record is not reused by the Reader.
func (r *Reader) Record() Record { return r.rec }

// Err returns the first non-EOF error met while reading.
func (r *Reader) Err() error { return r.sc.Error() }

// ReadAll reads every record from r.
func ReadAll(r io.Reader) ([]Record, error) {
	fr := NewReader(r)
	var records []Record
	for fr.Next() {
		records = append(records, fr.Record())
	}
	return records, fr.Err()
}

// ReadFile reads every record of the (possibly gzipped) file at path.
func ReadFile(path string) ([]Record, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadAll(rc)
}

// Write writes records to w, one sequence line per record.
func Write(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if _, err := fmt.Fprintf(bw, ">%s\n%s\n", rec.Header(), rec.Seq); err != nil {
			return err
		}
	}
	return bw.Flush()
}
