package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrNoHeader is returned by Read when the report has no query column.
var ErrNoHeader = errors.New("report has no header")

// Table is a report read back from TSV.
type Table struct {
	Columns []string
	Records [][]string

	index map[string]int
}

// Read parses a TSV report written by Write. The header is required.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) == 0 || header[0] != ColQuery {
		return nil, ErrNoHeader
	}

	t := &Table{Columns: header, index: make(map[string]int, len(header))}
	for i, c := range header {
		t.index[c] = i
	}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(t.Records)+1, err)
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

// Has reports whether the table carries column col.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Get returns the raw value of col in row i.
func (t *Table) Get(i int, col string) (string, bool) {
	j, ok := t.index[col]
	if !ok || i < 0 || i >= len(t.Records) {
		return "", false
	}
	return t.Records[i][j], true
}

// Float returns col in row i as a number.
func (t *Table) Float(i int, col string) (float64, bool) {
	s, ok := t.Get(i, col)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// PerSequence reports whether rows are single records.
func (t *Table) PerSequence() bool { return t.Has(ColSequenceID) }
