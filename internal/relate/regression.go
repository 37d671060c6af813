package relate

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultMaxDegree bounds the 1D degree search.
	DefaultMaxDegree = 5
	// DefaultDegree is used by multi-predictor fits.
	DefaultDegree = 2

	rankTolerance = 1e-12
)

// Fit is the result of a least-squares polynomial regression.
type Fit struct {
	// Coefficients align with Features; the intercept is separate.
	Coefficients []float64
	Intercept    float64
	Features     []string
	Degree       int
	R2           float64
}

// Term is a polynomial feature: Powers[k] is the exponent of predictor k.
type Term struct {
	Powers []int
}

// Terms lists every monomial of total degree 1..degree over k predictors,
// graded by degree and lexicographic within a degree.
func Terms(k, degree int) []Term {
	var out []Term
	for d := 1; d <= degree; d++ {
		combos(k, d, 0, nil, func(idx []int) {
			p := make([]int, k)
			for _, i := range idx {
				p[i]++
			}
			out = append(out, Term{Powers: p})
		})
	}
	return out
}

// combos yields non-decreasing index sequences of length d drawn from [start, k).
func combos(k, d, start int, prefix []int, yield func([]int)) {
	if d == 0 {
		yield(prefix)
		return
	}
	for i := start; i < k; i++ {
		combos(k, d-1, i, append(prefix, i), yield)
	}
}

// Name renders the term with predictor names, e.g. "a^2 b".
func (t Term) Name(names []string) string {
	var parts []string
	for i, p := range t.Powers {
		switch {
		case p == 1:
			parts = append(parts, names[i])
		case p > 1:
			parts = append(parts, fmt.Sprintf("%s^%d", names[i], p))
		}
	}
	return strings.Join(parts, " ")
}

func (t Term) eval(xs [][]float64, row int) float64 {
	v := 1.0
	for i, p := range t.Powers {
		for e := 0; e < p; e++ {
			v *= xs[i][row]
		}
	}
	return v
}

// FitPolynomial regresses y on every polynomial term of the predictors xs up to degree.
func FitPolynomial(xs [][]float64, names []string, y []float64, degree int) (Fit, error) {
	if degree < 1 {
		return Fit{}, dataset.Invalid("degree", "must be >= 1, got %d", degree)
	}
	if len(xs) == 0 || len(xs) != len(names) {
		return Fit{}, dataset.Invalid("predictors", "%d columns for %d names", len(xs), len(names))
	}
	n := len(y)
	if n == 0 {
		return Fit{}, dataset.Invalid("response", "no rows")
	}
	for i, x := range xs {
		if len(x) != n {
			return Fit{}, dataset.Invalid("predictors", "%q has %d rows, expected %d", names[i], len(x), n)
		}
	}
	terms := Terms(len(xs), degree)
	p := len(terms)
	design := mat.NewDense(n, p, nil)
	for r := 0; r < n; r++ {
		for c, t := range terms {
			design.Set(r, c, t.eval(xs, r))
		}
	}
	fit := Fit{Features: make([]string, p), Degree: degree}
	for c, t := range terms {
		fit.Features[c] = t.Name(names)
	}
	fit.Coefficients, fit.Intercept = leastSquares(design, y)

	pred := make([]float64, n)
	for r := 0; r < n; r++ {
		pred[r] = fit.Intercept + floats.Dot(design.RawRowView(r), fit.Coefficients)
	}
	fit.R2 = rSquaredScore(y, pred)
	return fit, nil
}

// leastSquares solves y ≈ X·b + c with an intercept. Columns are centred and
// scaled to unit norm before the SVD solve, so the rank cut-off is relative
// to comparable singular values.
func leastSquares(x *mat.Dense, y []float64) (coef []float64, intercept float64) {
	n, p := x.Dims()
	coef = make([]float64, p)
	ymean := stat.Mean(y, nil)
	xmean := make([]float64, p)
	scale := make([]float64, p)
	xc := mat.NewDense(n, p, nil)
	col := make([]float64, n)
	for c := 0; c < p; c++ {
		mat.Col(col, c, x)
		xmean[c] = stat.Mean(col, nil)
		floats.AddConst(-xmean[c], col)
		scale[c] = floats.Norm(col, 2)
		if scale[c] > 0 {
			floats.Scale(1/scale[c], col)
		}
		xc.SetCol(c, col)
	}
	yc := make([]float64, n)
	copy(yc, y)
	floats.AddConst(-ymean, yc)

	var svd mat.SVD
	if ok := svd.Factorize(xc, mat.SVDThin); ok {
		if rank := svd.Rank(rankTolerance); rank > 0 {
			var b mat.VecDense
			svd.SolveVecTo(&b, mat.NewVecDense(n, yc), rank)
			for c := 0; c < p; c++ {
				if scale[c] > 0 {
					coef[c] = b.AtVec(c) / scale[c]
				}
			}
		}
	}
	intercept = ymean - floats.Dot(coef, xmean)
	return coef, intercept
}

// rSquaredScore is 1 - SSres/SStot; a constant response scores 1 only when predicted exactly.
func rSquaredScore(y, pred []float64) float64 {
	mean := stat.Mean(y, nil)
	var ssRes, ssTot float64
	for i := range y {
		d := y[i] - pred[i]
		ssRes += d * d
		m := y[i] - mean
		ssTot += m * m
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// Fit1D tries degrees 1..maxDegree and keeps the highest in-sample R².
// Ties keep the lower degree.
func Fit1D(x, y []float64, name string, maxDegree int) (Fit, error) {
	if maxDegree < 1 {
		return Fit{}, dataset.Invalid("max degree", "must be >= 1, got %d", maxDegree)
	}
	best := Fit{R2: math.Inf(-1)}
	for d := 1; d <= maxDegree; d++ {
		f, err := FitPolynomial([][]float64{x}, []string{name}, y, d)
		if err != nil {
			return Fit{}, err
		}
		if f.R2 > best.R2 || best.Features == nil {
			best = f
		}
	}
	return best, nil
}

// Fit2D regresses y on a full degree-d polynomial of two predictors.
func Fit2D(x1, x2, y []float64, names [2]string, degree int) (Fit, error) {
	return FitPolynomial([][]float64{x1, x2}, names[:], y, degree)
}

// Fit3D regresses y on a full degree-d polynomial of three predictors.
func Fit3D(x1, x2, x3, y []float64, names [3]string, degree int) (Fit, error) {
	return FitPolynomial([][]float64{x1, x2, x3}, names[:], y, degree)
}

// Regression1DCells describes the matrix whose cell [i][j] is the best 1D
// polynomial R² predicting column j from column i.
func Regression1DCells(ds *dataset.Dataset, maxDegree int) (dataset.Pairwise, error) {
	if maxDegree < 1 {
		return dataset.Pairwise{}, dataset.Invalid("max degree", "must be >= 1, got %d", maxDegree)
	}
	return dataset.Pairwise{
		Layers:    []string{NameRegression},
		Symmetric: []bool{false},
		Diagonal:  func(int) []float64 { return []float64{1} },
		Cell: func(i, j int) []float64 {
			f, err := Fit1D(ds.Column(i), ds.Column(j), ds.Name(i), maxDegree)
			if err != nil {
				return []float64{math.NaN()}
			}
			return []float64{f.R2}
		},
	}, nil
}

// Regression1D returns the best-fit 1D polynomial R² matrix.
func Regression1D(ds *dataset.Dataset, maxDegree int) (*dataset.Matrix, error) {
	pw, err := Regression1DCells(ds, maxDegree)
	if err != nil {
		return nil, err
	}
	return dataset.Build(ds, pw)[0], nil
}
