package relate

import (
	"math"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// CovarianceCells describes the sample covariance matrix.
func CovarianceCells(ds *dataset.Dataset) dataset.Pairwise {
	return dataset.Pairwise{
		Layers:    []string{NameCovariance},
		Symmetric: []bool{true},
		Diagonal: func(i int) []float64 {
			return []float64{stat.Variance(ds.Column(i), nil)}
		},
		Cell: func(i, j int) []float64 {
			return []float64{stat.Covariance(ds.Column(i), ds.Column(j), nil)}
		},
		Mirror: dataset.Same,
	}
}

// Covariance returns the sample covariance matrix; the diagonal holds variances.
func Covariance(ds *dataset.Dataset) *dataset.Matrix {
	return dataset.Build(ds, CovarianceCells(ds))[0]
}

// pearson is the correlation of x and y clamped to [-1, 1].
// A constant input yields NaN.
func pearson(x, y []float64) float64 {
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return math.NaN()
	}
	return math.Max(-1, math.Min(1, r))
}

// CorrelationCells describes the Pearson correlation matrix.
func CorrelationCells(ds *dataset.Dataset) dataset.Pairwise {
	return dataset.Pairwise{
		Layers:    []string{NameCorrelation},
		Symmetric: []bool{true},
		Diagonal:  func(int) []float64 { return []float64{1} },
		Cell: func(i, j int) []float64 {
			return []float64{pearson(ds.Column(i), ds.Column(j))}
		},
		Mirror: dataset.Same,
	}
}

// Correlation returns the Pearson correlation matrix with a unit diagonal.
func Correlation(ds *dataset.Dataset) *dataset.Matrix {
	return dataset.Build(ds, CorrelationCells(ds))[0]
}

// RSquaredCells describes the squared correlation matrix.
func RSquaredCells(ds *dataset.Dataset) dataset.Pairwise {
	return dataset.Pairwise{
		Layers:    []string{NameRSquared},
		Symmetric: []bool{true},
		Diagonal:  func(int) []float64 { return []float64{1} },
		Cell: func(i, j int) []float64 {
			r := pearson(ds.Column(i), ds.Column(j))
			return []float64{r * r}
		},
		Mirror: dataset.Same,
	}
}

// RSquared returns the elementwise square of the correlation matrix.
func RSquared(ds *dataset.Dataset) *dataset.Matrix {
	return dataset.Build(ds, RSquaredCells(ds))[0]
}

// PearsonCells describes the correlation and two-sided p-value matrices.
func PearsonCells(ds *dataset.Dataset) dataset.Pairwise {
	n := float64(ds.NumRows())
	return dataset.Pairwise{
		Layers:    []string{NamePearsonR, NamePearsonP},
		Symmetric: []bool{true, true},
		Diagonal:  func(int) []float64 { return []float64{1, 0} },
		Cell: func(i, j int) []float64 {
			r := pearson(ds.Column(i), ds.Column(j))
			return []float64{r, pearsonP(r, n)}
		},
		Mirror: dataset.Same,
	}
}

// Pearson returns the correlation matrix and its p-values.
func Pearson(ds *dataset.Dataset) (r, p *dataset.Matrix) {
	ms := dataset.Build(ds, PearsonCells(ds))
	return ms[0], ms[1]
}

// pearsonP tests r against zero with n-2 degrees of freedom.
func pearsonP(r, n float64) float64 {
	switch {
	case math.IsNaN(r) || n < 2:
		return math.NaN()
	case n == 2:
		return 1
	case math.Abs(r) >= 1:
		return 0
	}
	df := n - 2
	t := r * math.Sqrt(df/(1-r*r))
	return twoSidedP(t, df)
}
