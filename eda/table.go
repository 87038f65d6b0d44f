package eda

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"

	"github.com/YuminosukeSato/edakit/pkg/errors"
)

// IndexColumn is the header of the column holding the dataset name.
const IndexColumn = "dataset"

// DefaultColumns are the descriptive columns of a new summary table.
var DefaultColumns = []string{
	"description",
	"n features",
	"n samples",
	"f/n ratio",     // enough samples for the number of features?
	"noise",         // missing values, duplicated targets
	"stats",         // how much variance is there in the data?
	"class balance", // are target classes balanced?
	"outliers",
	"skewness",     // non-normal features hurt KNN, SVC, ...
	"correlations", // highly correlated features may be redundant
	"DR potential", // dimensionality reduction potential
}

// Table is a string-valued table indexed by dataset name. An empty cell is NA.
type Table struct {
	columns []string
	index   []string
	cells   map[string]map[string]string
}

// NewTable returns an empty table with the given columns.
func NewTable(columns ...string) *Table {
	return &Table{
		columns: slices.Clone(columns),
		cells:   make(map[string]map[string]string),
	}
}

// NewDefaultTable returns an empty table with DefaultColumns.
func NewDefaultTable() *Table {
	return NewTable(DefaultColumns...)
}

// Columns returns the column names, excluding the index.
func (t *Table) Columns() []string { return slices.Clone(t.columns) }

// Names returns the dataset names in row order.
func (t *Table) Names() []string { return slices.Clone(t.index) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.index) }

// Has reports whether a row exists for name.
func (t *Table) Has(name string) bool {
	_, ok := t.cells[name]
	return ok
}

// HasColumn reports whether column exists.
func (t *Table) HasColumn(column string) bool {
	return slices.Contains(t.columns, column)
}

// Get returns the cell at (name, column). ok is false when the row or the
// column does not exist.
func (t *Table) Get(name, column string) (value string, ok bool) {
	row, exists := t.cells[name]
	if !exists || !t.HasColumn(column) {
		return "", false
	}
	return row[column], true
}

// IsNA reports whether the cell is missing or empty.
func (t *Table) IsNA(name, column string) bool {
	v, ok := t.Get(name, column)
	return !ok || v == ""
}

// Set writes a cell, adding the row and the column when they are missing.
func (t *Table) Set(name, column, value string) {
	t.AddColumn(column)
	row, ok := t.cells[name]
	if !ok {
		row = make(map[string]string)
		t.cells[name] = row
		t.index = append(t.index, name)
	}
	row[column] = value
}

// AddColumn appends column with NA values. Existing columns are left alone.
func (t *Table) AddColumn(column string) {
	if !t.HasColumn(column) {
		t.columns = append(t.columns, column)
	}
}

// AddRow adds an all-NA row for name if it is missing.
func (t *Table) AddRow(name string) {
	if !t.Has(name) {
		t.cells[name] = make(map[string]string)
		t.index = append(t.index, name)
	}
}

// Drop removes the row for name.
func (t *Table) Drop(name string) {
	if !t.Has(name) {
		return
	}
	delete(t.cells, name)
	t.index = slices.DeleteFunc(t.index, func(n string) bool { return n == name })
}

// Row returns a one-row table holding the row for name, or nil.
func (t *Table) Row(name string) *Table {
	row, ok := t.cells[name]
	if !ok {
		return nil
	}
	out := NewTable(t.columns...)
	out.AddRow(name)
	for k, v := range row {
		out.cells[name][k] = v
	}
	return out
}

// Concat returns the rows of t followed by the rows of other. Columns are the
// union of both, in first-seen order. A name present in both keeps the row of
// other.
func (t *Table) Concat(other *Table) *Table {
	out := NewTable(t.columns...)
	for _, tbl := range []*Table{t, other} {
		if tbl == nil {
			continue
		}
		for _, c := range tbl.columns {
			out.AddColumn(c)
		}
		for _, name := range tbl.index {
			out.Drop(name)
			out.AddRow(name)
			for k, v := range tbl.cells[name] {
				out.cells[name][k] = v
			}
		}
	}
	return out
}

// ReadTable parses a CSV whose first column is IndexColumn.
func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parse summary table")
	}
	if len(records) == 0 {
		return nil, errors.NewValueError("eda.ReadTable", "missing header row")
	}
	header := records[0]
	if len(header) == 0 || header[0] != IndexColumn {
		return nil, errors.NewValueError("eda.ReadTable", fmt.Sprintf("first column must be %q", IndexColumn))
	}

	t := NewTable(header[1:]...)
	for line, rec := range records[1:] {
		if len(rec) == 0 || rec[0] == "" {
			return nil, errors.NewValueError("eda.ReadTable", fmt.Sprintf("row %d has no dataset name", line+1))
		}
		name := rec[0]
		t.Drop(name)
		t.AddRow(name)
		for j, c := range t.columns {
			if j+1 < len(rec) {
				t.cells[name][c] = rec[j+1]
			}
		}
	}
	return t, nil
}

// Write encodes t as CSV with IndexColumn first.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{IndexColumn}, t.columns...)); err != nil {
		return errors.WithStack(err)
	}
	for _, name := range t.index {
		rec := make([]string, 0, len(t.columns)+1)
		rec = append(rec, name)
		for _, c := range t.columns {
			rec = append(rec, t.cells[name][c])
		}
		if err := cw.Write(rec); err != nil {
			return errors.WithStack(err)
		}
	}
	cw.Flush()
	return errors.WithStack(cw.Error())
}

// Records returns the header and rows as strings, index column first.
func (t *Table) Records() [][]string {
	out := [][]string{append([]string{IndexColumn}, t.columns...)}
	for _, name := range t.index {
		rec := []string{name}
		for _, c := range t.columns {
			rec = append(rec, t.cells[name][c])
		}
		out = append(out, rec)
	}
	return out
}
