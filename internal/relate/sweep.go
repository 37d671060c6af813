package relate

import (
	"context"
	"fmt"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

// SweepLimits bounds the predictor triplets visited by Sweep3D: the first
// predictor index is below First, the second below Second, the third below Third.
type SweepLimits struct {
	First, Second, Third int
}

// DefaultSweepLimits visits at most ten triplets drawn from the first five columns.
var DefaultSweepLimits = SweepLimits{First: 3, Second: 4, Third: 5}

// Unbounded visits every triplet.
func Unbounded() SweepLimits {
	const maxInt = int(^uint(0) >> 1)
	return SweepLimits{First: maxInt, Second: maxInt, Third: maxInt}
}

// Sweep holds multi-predictor regression R² for each predictor set and response.
type Sweep struct {
	Degree    int
	Arity     int
	Responses []string
	Rows      []SweepRow
	// Evaluated predictor sets out of Possible; Truncated when fewer were visited.
	Evaluated int
	Possible  int
	Truncated bool
}

// SweepRow is one predictor set. R2 aligns with Sweep.Responses; a response that
// is one of the predictors scores 1.
type SweepRow struct {
	Key        string
	Predictors []string
	R2         []float64
}

// KeySeparator joins predictor names into a row key.
const KeySeparator = "__"

// Value returns the R² of response for the predictor set key.
func (s *Sweep) Value(key, response string) (float64, error) {
	col := -1
	for i, r := range s.Responses {
		if r == response {
			col = i
			break
		}
	}
	if col < 0 {
		return 0, &dataset.UnknownNameError{Kind: "column", Name: response, Known: s.Responses}
	}
	for _, row := range s.Rows {
		if row.Key == key {
			return row.R2[col], nil
		}
	}
	return 0, &dataset.UnknownNameError{Kind: "predictor set", Name: key}
}

// Sweep2D fits every unordered predictor pair against every response.
func Sweep2D(ctx context.Context, ds *dataset.Dataset, degree int, progress dataset.ProgressFunc) (*Sweep, error) {
	n := ds.NumCols()
	var sets [][]int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sets = append(sets, []int{i, j})
		}
	}
	return sweep(ctx, ds, 2, degree, sets, len(sets), progress)
}

// Sweep3D fits predictor triplets within limits against every response.
func Sweep3D(ctx context.Context, ds *dataset.Dataset, degree int, limits SweepLimits, progress dataset.ProgressFunc) (*Sweep, error) {
	if limits.First < 1 || limits.Second < 2 || limits.Third < 3 {
		return nil, dataset.Invalid("sweep limits", "need first>=1, second>=2, third>=3, got %d/%d/%d", limits.First, limits.Second, limits.Third)
	}
	n := ds.NumCols()
	var sets [][]int
	for i := 0; i < min(limits.First, n); i++ {
		for j := i + 1; j < min(limits.Second, n); j++ {
			for k := j + 1; k < min(limits.Third, n); k++ {
				sets = append(sets, []int{i, j, k})
			}
		}
	}
	possible := n * (n - 1) * (n - 2) / 6
	return sweep(ctx, ds, 3, degree, sets, possible, progress)
}

func sweep(ctx context.Context, ds *dataset.Dataset, arity, degree int, sets [][]int, possible int, progress dataset.ProgressFunc) (*Sweep, error) {
	if degree < 1 {
		return nil, dataset.Invalid("degree", "must be >= 1, got %d", degree)
	}
	names := ds.Names()
	s := &Sweep{
		Degree:    degree,
		Arity:     arity,
		Responses: names,
		Evaluated: len(sets),
		Possible:  possible,
		Truncated: len(sets) < possible,
	}
	total := len(sets) * len(names)
	done := 0
	for _, set := range sets {
		xs := make([][]float64, len(set))
		pn := make([]string, len(set))
		in := make(map[int]bool, len(set))
		for k, idx := range set {
			xs[k] = ds.Column(idx)
			pn[k] = names[idx]
			in[idx] = true
		}
		row := SweepRow{Key: strings.Join(pn, KeySeparator), Predictors: pn, R2: make([]float64, len(names))}
		for y := range names {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("regression sweep: %w", err)
			}
			if in[y] {
				row.R2[y] = 1
			} else {
				f, err := FitPolynomial(xs, pn, ds.Column(y), degree)
				if err != nil {
					return nil, fmt.Errorf("fit %s -> %s: %w", row.Key, names[y], err)
				}
				row.R2[y] = f.R2
			}
			done++
			if progress != nil {
				progress(done, total)
			}
		}
		s.Rows = append(s.Rows, row)
	}
	return s, nil
}
