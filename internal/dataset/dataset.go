// Package dataset holds the immutable column-oriented table every engine
// consumes, the square result matrix they produce, and the shared error
// taxonomy.
package dataset

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Dataset is an ordered set of uniquely named numeric columns of equal length.
// It is never modified after construction.
type Dataset struct {
	names []string
	cols  [][]float64
	index map[string]int
}

// New validates and copies the given columns.
func New(names []string, cols [][]float64) (*Dataset, error) {
	if len(names) == 0 || len(cols) == 0 {
		return nil, Invalid("dataset", "no columns")
	}
	if len(names) != len(cols) {
		return nil, Invalid("dataset", "%d names for %d columns", len(names), len(cols))
	}
	rows := len(cols[0])
	if rows == 0 {
		return nil, Invalid("dataset", "no rows")
	}
	ds := &Dataset{
		names: make([]string, len(names)),
		cols:  make([][]float64, len(cols)),
		index: make(map[string]int, len(names)),
	}
	for i, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return nil, Invalid("column name", "column %d has an empty name", i)
		}
		if _, dup := ds.index[n]; dup {
			return nil, Invalid("column name", "duplicate column %q", n)
		}
		if len(cols[i]) != rows {
			return nil, Invalid("dataset", "column %q has %d rows, expected %d", n, len(cols[i]), rows)
		}
		ds.names[i] = n
		ds.index[n] = i
		c := make([]float64, rows)
		copy(c, cols[i])
		ds.cols[i] = c
	}
	return ds, nil
}

// FromMap builds a Dataset from a name→values map using order for column order.
func FromMap(order []string, m map[string][]float64) (*Dataset, error) {
	cols := make([][]float64, len(order))
	for i, n := range order {
		v, ok := m[n]
		if !ok {
			return nil, &UnknownNameError{Kind: "column", Name: n}
		}
		cols[i] = v
	}
	return New(order, cols)
}

// Names returns a copy of the column names in order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

func (d *Dataset) NumCols() int { return len(d.cols) }

func (d *Dataset) NumRows() int { return len(d.cols[0]) }

// Name returns the name of column i.
func (d *Dataset) Name(i int) string { return d.names[i] }

// Column returns column i. The slice is shared and must not be modified.
func (d *Dataset) Column(i int) []float64 { return d.cols[i] }

// Index returns the position of the named column.
func (d *Dataset) Index(name string) (int, bool) {
	i, ok := d.index[name]
	return i, ok
}

// ColumnByName looks up a column by name.
func (d *Dataset) ColumnByName(name string) ([]float64, error) {
	i, ok := d.index[name]
	if !ok {
		return nil, &UnknownNameError{Kind: "column", Name: name, Known: d.Names()}
	}
	return d.cols[i], nil
}

// Row copies row r across all columns.
func (d *Dataset) Row(r int) []float64 {
	out := make([]float64, len(d.cols))
	for j, c := range d.cols {
		out[j] = c[r]
	}
	return out
}

// Dense returns a rows × columns copy of the data.
func (d *Dataset) Dense() *mat.Dense {
	m := mat.NewDense(d.NumRows(), d.NumCols(), nil)
	for j, c := range d.cols {
		m.SetCol(j, c)
	}
	return m
}

// Derive builds a Dataset of identical shape whose columns are produced by fn.
// fn receives a read-only column and must return a new slice of the same length.
func (d *Dataset) Derive(fn func(col []float64) []float64) (*Dataset, error) {
	cols := make([][]float64, len(d.cols))
	for i, c := range d.cols {
		out := fn(c)
		if len(out) != len(c) {
			return nil, fmt.Errorf("derive column %q: %w", d.names[i], Invalid("dataset", "length changed from %d to %d", len(c), len(out)))
		}
		cols[i] = out
	}
	return &Dataset{names: d.Names(), cols: cols, index: d.index}, nil
}

// Present returns the non-NaN values of x in order. Missing cells are NaN.
func Present(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
