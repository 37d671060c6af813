// Package relate computes pairwise relationship matrices between columns:
// variance and mean tests, covariance, correlation and polynomial regression fits.
package relate

import (
	"math"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Matrix names.
const (
	NameFTest       = "F-Test"
	NameTStatistic  = "T-Test (t)"
	NameTPValue     = "T-Test (p)"
	NameCovariance  = "Covariance"
	NameCorrelation = "Correlation"
	NameRSquared    = "R²"
	NamePearsonR    = "Pearson r"
	NamePearsonP    = "Pearson p-value"
	NameRegression  = "Regression 1D (R²)"
)

// TTestOptions selects the two-sample t-test variant.
type TTestOptions struct {
	// Welch uses the unequal-variance test. The default is the pooled Student test.
	Welch bool
}

func variances(ds *dataset.Dataset) []float64 {
	v := make([]float64, ds.NumCols())
	for i := range v {
		v[i] = stat.Variance(ds.Column(i), nil)
	}
	return v
}

// FTestCells describes the variance-ratio matrix F[i][j] = var(i) / var(j).
func FTestCells(ds *dataset.Dataset) dataset.Pairwise {
	vars := variances(ds)
	return dataset.Pairwise{
		Layers:    []string{NameFTest},
		Symmetric: []bool{false},
		Cell: func(i, j int) []float64 {
			return []float64{varianceRatio(vars[i], vars[j])}
		},
	}
}

// FTest returns the variance-ratio matrix.
func FTest(ds *dataset.Dataset) *dataset.Matrix {
	return dataset.Build(ds, FTestCells(ds))[0]
}

func varianceRatio(vi, vj float64) float64 {
	if vj > 0 {
		return vi / vj
	}
	if vi > 0 {
		return math.Inf(1)
	}
	return 1
}

// TTestCells describes the two-sample t statistic and two-sided p-value matrices.
func TTestCells(ds *dataset.Dataset, opt TTestOptions) dataset.Pairwise {
	n := float64(ds.NumRows())
	means := make([]float64, ds.NumCols())
	for i := range means {
		means[i] = stat.Mean(ds.Column(i), nil)
	}
	vars := variances(ds)
	return dataset.Pairwise{
		Layers:    []string{NameTStatistic, NameTPValue},
		Symmetric: []bool{false, true},
		Diagonal:  func(int) []float64 { return []float64{0, 1} },
		Cell: func(i, j int) []float64 {
			t, p := twoSampleT(means[i], means[j], vars[i], vars[j], n, n, opt.Welch)
			return []float64{t, p}
		},
		Mirror: func(layer int, v float64) float64 {
			if layer == 0 {
				return -v
			}
			return v
		},
	}
}

// TTest returns the t statistic and p-value matrices.
func TTest(ds *dataset.Dataset, opt TTestOptions) (t, p *dataset.Matrix) {
	ms := dataset.Build(ds, TTestCells(ds, opt))
	return ms[0], ms[1]
}

func twoSampleT(m1, m2, v1, v2, n1, n2 float64, welch bool) (t, p float64) {
	var se2, df float64
	if welch {
		a, b := v1/n1, v2/n2
		se2 = a + b
		df = se2 * se2 / (a*a/(n1-1) + b*b/(n2-1))
	} else {
		df = n1 + n2 - 2
		pooled := ((n1-1)*v1 + (n2-1)*v2) / df
		se2 = pooled * (1/n1 + 1/n2)
	}
	diff := m1 - m2
	if math.IsNaN(se2) || math.IsNaN(diff) {
		return math.NaN(), math.NaN()
	}
	if se2 == 0 {
		if diff == 0 {
			return math.NaN(), math.NaN()
		}
		return math.Copysign(math.Inf(1), diff), 0
	}
	t = diff / math.Sqrt(se2)
	return t, twoSidedP(t, df)
}

// twoSidedP is P(|T| >= |t|) for Student's t with df degrees of freedom.
func twoSidedP(t, df float64) float64 {
	if math.IsNaN(t) || math.IsNaN(df) || df <= 0 {
		return math.NaN()
	}
	if math.IsInf(t, 0) {
		return 0
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.Survival(math.Abs(t))
	return math.Min(p, 1)
}
