package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/KaramelBytes/datalens-cli/internal/describe"
	"github.com/KaramelBytes/datalens-cli/internal/relate"
	"github.com/KaramelBytes/datalens-cli/internal/similarity"
	"github.com/google/uuid"
)

// Params carries the tunables of every analysis.
type Params struct {
	MaxDegree  int     // regression 1D degree search
	Degree     int     // regression 2D/3D
	MinkowskiP float64 // Minkowski order
	Bins       int     // Jaccard discretization
	Trim       float64 // trimmed mean fraction
	// EqualVariance selects the pooled Student t-test; false runs Welch's test.
	EqualVariance bool
	Sweep         relate.SweepLimits
}

// DefaultParams returns the defaults for every analysis.
func DefaultParams() Params {
	return Params{
		MaxDegree:     relate.DefaultMaxDegree,
		Degree:        relate.DefaultDegree,
		MinkowskiP:    similarity.DefaultMinkowskiP,
		Bins:          similarity.DefaultBins,
		Trim:          describe.DefaultTrim,
		EqualVariance: true,
		Sweep:         relate.DefaultSweepLimits,
	}
}

// Validate rejects parameters no analysis could run with.
func (p Params) Validate() error {
	switch {
	case p.MaxDegree < 1:
		return dataset.Invalid("max degree", "must be >= 1, got %d", p.MaxDegree)
	case p.Degree < 1:
		return dataset.Invalid("degree", "must be >= 1, got %d", p.Degree)
	case !(p.MinkowskiP > 0):
		return dataset.Invalid("minkowski p", "must be > 0, got %g", p.MinkowskiP)
	case p.Bins < 1:
		return dataset.Invalid("bins", "must be >= 1, got %d", p.Bins)
	case p.Trim < 0 || p.Trim >= 0.5:
		return dataset.Invalid("trim", "must be in [0, 0.5), got %g", p.Trim)
	case p.Sweep.First < 1 || p.Sweep.Second < 2 || p.Sweep.Third < 3:
		return dataset.Invalid("sweep limits", "need first>=1, second>=2, third>=3, got %d/%d/%d",
			p.Sweep.First, p.Sweep.Second, p.Sweep.Third)
	}
	return nil
}

// Result is the outcome of one analysis. Exactly one of Matrices, Table and
// Sweep is set.
type Result struct {
	ID       string
	Kind     Kind
	Variant  string
	Matrices []*dataset.Matrix
	Table    *describe.Table
	Sweep    *relate.Sweep
	Elapsed  time.Duration
}

// Matrix returns the result layer with the given name, or nil.
func (r *Result) Matrix(name string) *dataset.Matrix {
	for _, m := range r.Matrices {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

// Run evaluates kind over ds. Pairwise analyses check ctx between cells and
// report progress; a cancelled run returns no result.
func Run(ctx context.Context, ds *dataset.Dataset, kind Kind, p Params, progress dataset.ProgressFunc) (*Result, error) {
	if ds == nil {
		return nil, dataset.Invalid("dataset", "nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	res := &Result{ID: uuid.NewString(), Kind: kind}

	switch kind {
	case Describe:
		t, err := describe.Dataset(ds, describe.Options{Trim: p.Trim})
		if err != nil {
			return nil, err
		}
		res.Table = t
		if progress != nil {
			progress(1, 1)
		}
	case Regression2D:
		s, err := relate.Sweep2D(ctx, ds, p.Degree, progress)
		if err != nil {
			return nil, err
		}
		res.Sweep = s
	case Regression3D:
		s, err := relate.Sweep3D(ctx, ds, p.Degree, p.Sweep, progress)
		if err != nil {
			return nil, err
		}
		res.Sweep = s
	default:
		pw, err := cells(ds, kind, p)
		if err != nil {
			return nil, err
		}
		ms, err := dataset.BuildContext(ctx, ds, pw, progress)
		if err != nil {
			return nil, err
		}
		res.Matrices = ms
	}
	res.Elapsed = time.Since(start)
	return res, nil
}

// cells maps a pairwise kind to its cell description.
func cells(ds *dataset.Dataset, kind Kind, p Params) (dataset.Pairwise, error) {
	switch kind {
	case FTest:
		return relate.FTestCells(ds), nil
	case TTest:
		return relate.TTestCells(ds, relate.TTestOptions{Welch: !p.EqualVariance}), nil
	case Covariance:
		return relate.CovarianceCells(ds), nil
	case Correlation:
		return relate.CorrelationCells(ds), nil
	case RSquared:
		return relate.RSquaredCells(ds), nil
	case Pearson:
		return relate.PearsonCells(ds), nil
	case Regression1D:
		return relate.Regression1DCells(ds, p.MaxDegree)
	case Euclidean:
		return similarity.EuclideanCells(ds), nil
	case Manhattan:
		return similarity.ManhattanCells(ds), nil
	case Minkowski:
		return similarity.MinkowskiCells(ds, p.MinkowskiP)
	case Chebyshev:
		return similarity.ChebyshevCells(ds), nil
	case Cosine:
		return similarity.CosineCells(ds), nil
	case Jaccard:
		return similarity.JaccardCells(ds, p.Bins)
	}
	return dataset.Pairwise{}, fmt.Errorf("%s is not a pairwise analysis: %w", kind, dataset.ErrUnknownName)
}
