// Package csv converts between delimited text and rows of dynamic values.
package csv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	jsonfmt "github.com/reoring/typemix/format/json"
)

// WriteOptions selects the output dialect.
type WriteOptions struct {
	Header bool // Emit the field names as the first record.
	Tab    bool // Separate cells with tabs instead of commas.
	CRLF   bool // Terminate records with \r\n instead of \n.
}

// ReadOptions controls Read.
type ReadOptions struct {
	// Fields names the columns. When empty the first record is the header.
	Fields []string
	// Comma is the cell separator; 0 picks tab or comma from the first line.
	Comma rune
}

// Write renders rows as delimited text with one column per field. Keys of a
// row that are not listed in fields are ignored; missing or nil cells are
// empty. Nested maps and lists are written inline as single-quoted JSON.
// When fields is empty the sorted union of all row keys is used.
func Write(rows []map[string]any, fields []string, opt WriteOptions) ([]byte, error) {
	if len(fields) == 0 {
		fields = Columns(rows)
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if opt.Tab {
		w.Comma = '\t'
	}
	w.UseCRLF = opt.CRLF
	if opt.Header {
		if err := w.Write(fields); err != nil {
			return nil, fmt.Errorf("csv: write header: %w", err)
		}
	}
	rec := make([]string, len(fields))
	for i, row := range rows {
		for j, f := range fields {
			rec[j] = jsonfmt.Inline(row[f])
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("csv: write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv: flush: %w", err)
	}
	return buf.Bytes(), nil
}

// Columns returns the sorted union of the keys of rows.
func Columns(rows []map[string]any) []string {
	seen := map[string]struct{}{}
	for _, r := range rows {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Read parses delimited text into rows keyed by field name. Cells are
// strings; leading spaces after a separator are dropped. Short records leave
// the trailing fields absent and surplus cells are discarded.
func Read(data []byte, opt ReadOptions) ([]map[string]any, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = opt.Comma
	if r.Comma == 0 {
		r.Comma = Sniff(data)
	}
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	fields := opt.Fields
	if len(fields) == 0 {
		head, err := r.Read()
		if errors.Is(err, io.EOF) {
			return []map[string]any{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read header: %w", err)
		}
		fields = head
	}
	rows := []map[string]any{}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read: %w", err)
		}
		row := make(map[string]any, len(fields))
		for i, f := range fields {
			if i < len(rec) {
				row[f] = rec[i]
			}
		}
		rows = append(rows, row)
	}
}

// Sniff picks tab when the first line contains more tabs than commas.
func Sniff(data []byte) rune {
	line := string(data)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if strings.Count(line, "\t") > strings.Count(line, ",") {
		return '\t'
	}
	return ','
}
