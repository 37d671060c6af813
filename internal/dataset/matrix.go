package dataset

import "gonum.org/v1/gonum/mat"

// Matrix is a square table of pairwise results labelled by column name on both axes.
type Matrix struct {
	name      string
	labels    []string
	index     map[string]int
	data      *mat.Dense
	symmetric bool
}

// NewMatrix wraps values (row-major, len(labels)² entries). values may be nil.
func NewMatrix(name string, labels []string, values []float64, symmetric bool) *Matrix {
	n := len(labels)
	l := make([]string, n)
	copy(l, labels)
	idx := make(map[string]int, n)
	for i, s := range l {
		idx[s] = i
	}
	var data *mat.Dense
	if n > 0 {
		data = mat.NewDense(n, n, values)
	}
	return &Matrix{name: name, labels: l, index: idx, data: data, symmetric: symmetric}
}

func (m *Matrix) Name() string { return m.name }

// Labels returns a copy of the axis labels.
func (m *Matrix) Labels() []string {
	out := make([]string, len(m.labels))
	copy(out, m.labels)
	return out
}

func (m *Matrix) Len() int { return len(m.labels) }

// Symmetric reports whether M[i][j] == M[j][i] holds by construction.
func (m *Matrix) Symmetric() bool { return m.symmetric }

func (m *Matrix) At(i, j int) float64 { return m.data.At(i, j) }

func (m *Matrix) set(i, j int, v float64) { m.data.Set(i, j, v) }

// Value looks up a cell by row and column label.
func (m *Matrix) Value(row, col string) (float64, error) {
	i, ok := m.index[row]
	if !ok {
		return 0, &UnknownNameError{Kind: "column", Name: row, Known: m.Labels()}
	}
	j, ok := m.index[col]
	if !ok {
		return 0, &UnknownNameError{Kind: "column", Name: col, Known: m.Labels()}
	}
	return m.data.At(i, j), nil
}

// Row copies row i.
func (m *Matrix) Row(i int) []float64 {
	return mat.Row(nil, i, m.data)
}

// Dense returns a copy of the underlying matrix.
func (m *Matrix) Dense() *mat.Dense {
	if m.data == nil {
		return nil
	}
	return mat.DenseCopyOf(m.data)
}

// Values returns the matrix as nested slices, Values[i][j].
func (m *Matrix) Values() [][]float64 {
	out := make([][]float64, m.Len())
	for i := range out {
		out[i] = m.Row(i)
	}
	return out
}
