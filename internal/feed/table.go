// Package feed reads the flat tables of a transit feed and the manual colour
// list, and joins line identifiers to the agencies operating them.
package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedRow is returned when a row lacks a column the reader needs.
var ErrMalformedRow = errors.New("malformed feed row")

// row is one record addressed by header column name. The first missing
// column is remembered in err.
type row struct {
	table  string
	line   int
	fields []string
	idx    map[string]int
	err    error
}

func (r *row) get(col string) string {
	i, ok := r.idx[col]
	if !ok || i >= len(r.fields) {
		if r.err == nil {
			r.err = fmt.Errorf("%w: %s line %d: missing column %q", ErrMalformedRow, r.table, r.line, col)
		}
		return ""
	}
	return r.fields[i]
}

// eachRow reads a comma separated table with a header row. Lines starting
// with '#' and blank lines are skipped. Values and column names are taken
// verbatim; surrounding whitespace is part of the value. Rows may be shorter than the header;
// that only fails when fn asks for a missing column.
func eachRow(rd io.Reader, table string, fn func(r *row)) error {
	reader := csv.NewReader(rd)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s header: %w", table, err)
	}
	idx := makeIndex(header)

	for {
		fields, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", table, err)
		}
		line, _ := reader.FieldPos(0)
		r := &row{table: table, line: line, fields: fields, idx: idx}
		fn(r)
		if r.err != nil {
			return r.err
		}
	}
}

func makeIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		idx[h] = i
	}
	return idx
}
