package dataset

import (
	"context"
	"fmt"
)

// Pairwise describes a column-pair analysis as independent cells.
// Cell returns one value per layer; Diagonal does the same for i == j.
type Pairwise struct {
	Layers    []string
	Symmetric []bool
	Diagonal  func(i int) []float64
	Cell      func(i, j int) []float64
	// Mirror, when set, computes only the upper triangle and copies it down.
	// Each layer may transform the mirrored value (e.g. negate an antisymmetric statistic).
	Mirror func(layer int, v float64) float64
}

// ProgressFunc receives the number of finished cells out of total.
type ProgressFunc func(done, total int)

// Build evaluates every cell of pw over ds.
func Build(ds *Dataset, pw Pairwise) []*Matrix {
	out, _ := BuildContext(context.Background(), ds, pw, nil)
	return out
}

// BuildContext evaluates pw cell by cell, checking ctx between cells.
// A cancelled context yields no partial result.
func BuildContext(ctx context.Context, ds *Dataset, pw Pairwise, progress ProgressFunc) ([]*Matrix, error) {
	n := ds.NumCols()
	labels := ds.Names()
	out := make([]*Matrix, len(pw.Layers))
	for l, name := range pw.Layers {
		sym := l < len(pw.Symmetric) && pw.Symmetric[l]
		out[l] = NewMatrix(name, labels, nil, sym)
	}
	total := n * n
	if pw.Mirror != nil {
		total = n * (n + 1) / 2
	}
	done := 0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if pw.Mirror != nil && j < i {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("pairwise %v: %w", pw.Layers, err)
			}
			var vals []float64
			if i == j && pw.Diagonal != nil {
				vals = pw.Diagonal(i)
			} else {
				vals = pw.Cell(i, j)
			}
			for l := range out {
				out[l].set(i, j, vals[l])
				if pw.Mirror != nil && i != j {
					out[l].set(j, i, pw.Mirror(l, vals[l]))
				}
			}
			done++
			if progress != nil {
				progress(done, total)
			}
		}
	}
	return out, nil
}

// Same is a Mirror that copies values unchanged.
func Same(_ int, v float64) float64 { return v }
