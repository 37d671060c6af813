package relate

import (
	"context"
	"math"
	"testing"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDS(t *testing.T, names []string, cols ...[]float64) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(names, cols)
	require.NoError(t, err)
	return ds
}

func scaled(t *testing.T) *dataset.Dataset {
	return newDS(t, []string{"a", "b", "c"},
		[]float64{1, 2, 3, 4, 5},
		[]float64{2, 4, 6, 8, 10},
		[]float64{2, 1, 4, 3, 7},
	)
}

func TestCorrelationAndCovariance(t *testing.T) {
	ds := scaled(t)
	corr := Correlation(ds)
	v, err := corr.Value("a", "b")
	require.NoError(t, err)
	assert.InDelta(t, 1, v, 1e-12)

	cov := Covariance(ds)
	v, err = cov.Value("a", "b")
	require.NoError(t, err)
	assert.InDelta(t, 5, v, 1e-12)
	assert.InDelta(t, 2.5, cov.At(0, 0), 1e-12)
	assert.True(t, cov.Symmetric())

	r2 := RSquared(ds)
	n := corr.Len()
	for i := 0; i < n; i++ {
		assert.Equal(t, 1.0, corr.At(i, i))
		for j := 0; j < n; j++ {
			assert.Equal(t, corr.At(i, j), corr.At(j, i))
			assert.True(t, corr.At(i, j) >= -1 && corr.At(i, j) <= 1)
			assert.InDelta(t, corr.At(i, j)*corr.At(i, j), r2.At(i, j), 1e-12)
		}
	}
}

func TestCorrelationConstantColumn(t *testing.T) {
	ds := newDS(t, []string{"a", "flat"}, []float64{1, 2, 3}, []float64{4, 4, 4})
	corr := Correlation(ds)
	assert.True(t, math.IsNaN(corr.At(0, 1)))
	assert.Equal(t, 1.0, corr.At(1, 1))
	r, p := Pearson(ds)
	assert.True(t, math.IsNaN(r.At(1, 0)))
	assert.True(t, math.IsNaN(p.At(1, 0)))
}

func TestFTest(t *testing.T) {
	ds := scaled(t)
	f := FTest(ds)
	assert.InDelta(t, 0.25, f.At(0, 1), 1e-12)
	assert.InDelta(t, 4, f.At(1, 0), 1e-12)
	for i := 0; i < f.Len(); i++ {
		assert.InDelta(t, 1, f.At(i, i), 1e-12)
		for j := 0; j < f.Len(); j++ {
			assert.InDelta(t, 1, f.At(i, j)*f.At(j, i), 1e-9)
		}
	}
	assert.False(t, f.Symmetric())
}

func TestFTestZeroVariance(t *testing.T) {
	ds := newDS(t, []string{"a", "flat", "flat2"}, []float64{1, 2, 3}, []float64{4, 4, 4}, []float64{0, 0, 0})
	f := FTest(ds)
	assert.True(t, math.IsInf(f.At(0, 1), 1))
	assert.Equal(t, 0.0, f.At(1, 0))
	assert.Equal(t, 1.0, f.At(1, 2))
}

func TestTTestStudent(t *testing.T) {
	ds := scaled(t)
	tm, pm := TTest(ds, TTestOptions{})
	assert.InDelta(t, -3/math.Sqrt(2.5), tm.At(0, 1), 1e-12)
	assert.InDelta(t, 3/math.Sqrt(2.5), tm.At(1, 0), 1e-12)
	assert.InDelta(t, 0.09435, pm.At(0, 1), 1e-4)
	assert.Equal(t, pm.At(0, 1), pm.At(1, 0))
	assert.Equal(t, 0.0, tm.At(2, 2))
	assert.Equal(t, 1.0, pm.At(2, 2))
}

func TestTTestWelch(t *testing.T) {
	ds := scaled(t)
	tm, pm := TTest(ds, TTestOptions{Welch: true})
	// equal sizes give the same statistic with fewer degrees of freedom
	assert.InDelta(t, -3/math.Sqrt(2.5), tm.At(0, 1), 1e-12)
	assert.InDelta(t, 0.10753, pm.At(0, 1), 1e-4)
}

func TestTTestConstantColumns(t *testing.T) {
	ds := newDS(t, []string{"x", "y", "z"}, []float64{1, 1, 1}, []float64{2, 2, 2}, []float64{1, 1, 1})
	tm, pm := TTest(ds, TTestOptions{})
	assert.True(t, math.IsInf(tm.At(0, 1), -1))
	assert.Equal(t, 0.0, pm.At(0, 1))
	assert.True(t, math.IsNaN(tm.At(0, 2)))
}

func TestPearsonPValue(t *testing.T) {
	ds := scaled(t)
	r, p := Pearson(ds)
	assert.InDelta(t, 0.824163, r.At(0, 2), 1e-6)
	assert.InDelta(t, 0.086139, p.At(0, 2), 1e-4)
	assert.InDelta(t, 0, p.At(0, 1), 1e-12)
	assert.Equal(t, 1.0, r.At(0, 0))
	assert.Equal(t, 0.0, p.At(0, 0))

	two := newDS(t, []string{"a", "b"}, []float64{1, 2}, []float64{3, 1})
	_, p = Pearson(two)
	assert.Equal(t, 1.0, p.At(0, 1))
}

func TestTerms(t *testing.T) {
	names := func(k, d int, labels ...string) []string {
		var out []string
		for _, term := range Terms(k, d) {
			out = append(out, term.Name(labels))
		}
		return out
	}
	assert.Equal(t, []string{"a", "b", "a^2", "a b", "b^2"}, names(2, 2, "a", "b"))
	assert.Len(t, Terms(3, 2), 9)
	assert.Equal(t, []string{"x", "x^2", "x^3"}, names(1, 3, "x"))
}

func TestFitPolynomialExact(t *testing.T) {
	x := []float64{-2, -1, 0, 1, 2, 3}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 1 + 2*v + 3*v*v
	}
	f, err := FitPolynomial([][]float64{x}, []string{"x"}, y, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1, f.R2, 1e-9)
	assert.InDelta(t, 1, f.Intercept, 1e-8)
	assert.InDeltaSlice(t, []float64{2, 3}, f.Coefficients, 1e-8)
	assert.Equal(t, []string{"x", "x^2"}, f.Features)
}

func TestFit1DSelectsDegree(t *testing.T) {
	x := []float64{-2, -1, 0, 1, 2}
	y := []float64{4, 1, 0, 1, 4}
	lin, err := FitPolynomial([][]float64{x}, []string{"x"}, y, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0, lin.R2, 1e-9)

	best, err := Fit1D(x, y, "x", DefaultMaxDegree)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, best.Degree, 2)
	assert.InDelta(t, 1, best.R2, 1e-9)

	_, err = Fit1D(x, y, "x", 0)
	assert.ErrorIs(t, err, dataset.ErrInvalidInput)
}

func TestFitConstantResponse(t *testing.T) {
	f, err := FitPolynomial([][]float64{{1, 2, 3}}, []string{"x"}, []float64{7, 7, 7}, 2)
	require.NoError(t, err)
	assert.Equal(t, 1.0, f.R2)
	assert.InDelta(t, 7, f.Intercept, 1e-12)
}

func TestFit2DAnd3D(t *testing.T) {
	x1 := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	x2 := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	x3 := []float64{2, 7, 1, 8, 2, 8, 1, 8}
	y := make([]float64, len(x1))
	for i := range y {
		y[i] = x1[i]*x2[i] - x2[i]*x2[i] + 0.5
	}
	f, err := Fit2D(x1, x2, y, [2]string{"p", "q"}, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1, f.R2, 1e-9)
	assert.Equal(t, []string{"p", "q", "p^2", "p q", "q^2"}, f.Features)

	f3, err := Fit3D(x1, x2, x3, y, [3]string{"p", "q", "r"}, 1)
	require.NoError(t, err)
	assert.Len(t, f3.Coefficients, 3)
	assert.True(t, f3.R2 <= 1)
}

func TestRegression1DMatrix(t *testing.T) {
	ds := scaled(t)
	m, err := Regression1D(ds, DefaultMaxDegree)
	require.NoError(t, err)
	for i := 0; i < m.Len(); i++ {
		assert.Equal(t, 1.0, m.At(i, i))
	}
	assert.InDelta(t, 1, m.At(0, 1), 1e-9)
	_, err = Regression1D(ds, 0)
	assert.ErrorIs(t, err, dataset.ErrInvalidInput)
}

func TestSweep2D(t *testing.T) {
	ds := scaled(t)
	s, err := Sweep2D(context.Background(), ds, DefaultDegree, nil)
	require.NoError(t, err)
	require.Len(t, s.Rows, 3)
	assert.False(t, s.Truncated)
	assert.Equal(t, "a__b", s.Rows[0].Key)
	v, err := s.Value("a__b", "a")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	v, err = s.Value("a__c", "b")
	require.NoError(t, err)
	assert.InDelta(t, 1, v, 1e-9)
	_, err = s.Value("a__z", "b")
	assert.ErrorIs(t, err, dataset.ErrUnknownName)
}

func TestSweep3DLimits(t *testing.T) {
	cols := make([][]float64, 6)
	names := []string{"c0", "c1", "c2", "c3", "c4", "c5"}
	for c := range cols {
		cols[c] = make([]float64, 12)
		for r := range cols[c] {
			cols[c][r] = math.Sin(float64((c+1)*(r+1))) + float64(r)
		}
	}
	ds := newDS(t, names, cols...)

	var done, total int
	s, err := Sweep3D(context.Background(), ds, 1, DefaultSweepLimits, func(d, tot int) { done, total = d, tot })
	require.NoError(t, err)
	assert.Len(t, s.Rows, 10)
	assert.Equal(t, 20, s.Possible)
	assert.True(t, s.Truncated)
	assert.Equal(t, total, done)
	assert.Equal(t, 60, total)
	assert.Equal(t, "c0__c1__c2", s.Rows[0].Key)
	assert.Equal(t, "c2__c3__c4", s.Rows[9].Key)

	all, err := Sweep3D(context.Background(), ds, 1, Unbounded(), nil)
	require.NoError(t, err)
	assert.Len(t, all.Rows, 20)
	assert.False(t, all.Truncated)

	_, err = Sweep3D(context.Background(), ds, 1, SweepLimits{}, nil)
	assert.ErrorIs(t, err, dataset.ErrInvalidInput)
}

func TestSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Sweep2D(ctx, scaled(t), 2, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
