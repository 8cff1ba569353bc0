// Package table reads and writes the CSV files ranked by topsis. Cells are
// kept as the exact strings read so a written table reproduces its input
// columns unchanged.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Read when the input path does not exist.
var ErrNotFound = errors.New("file not found")

// ErrNoColumns is returned for input with no header row at all.
var ErrNoColumns = errors.New("no columns to parse from file")

const utf8BOM = "\ufeff"

// Table is a header row plus data rows. Every row has len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Read loads the CSV file at path.
func Read(path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a CSV document. The first record is the header; rows whose
// field count differs from the header are rejected.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoColumns
	}
	if err != nil {
		return nil, err
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return &Table{Header: header, Rows: rows}, nil
}

// Column returns the cells of column j in row order.
func (t *Table) Column(j int) []string {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if j < len(row) {
			out[i] = row[j]
		}
	}
	return out
}

// AppendColumn adds a named column in place. values must hold one cell per row.
func (t *Table) AppendColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("append column %q: %d values for %d rows", name, len(values), len(t.Rows))
	}
	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	return nil
}

// Encode writes the table as CSV.
func (t *Table) Encode(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteFile writes the table to path atomically: the CSV goes to a temp file
// in the same directory which is then renamed over path.
func WriteFile(path string, t *Table) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".topsis-*.csv")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if err := t.Encode(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
