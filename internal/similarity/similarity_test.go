package similarity

import (
	"math"
	"testing"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scaled(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New([]string{"a", "b", "neg"}, [][]float64{
		{1, 2, 3, 4, 5},
		{2, 4, 6, 8, 10},
		{-1, -2, -3, -4, -5},
	})
	require.NoError(t, err)
	return ds
}

func TestDistances(t *testing.T) {
	ds := scaled(t)
	cases := []struct {
		name string
		m    *dataset.Matrix
		ab   float64
	}{
		{"euclidean", Euclidean(ds), math.Sqrt(55)},
		{"manhattan", Manhattan(ds), 15},
		{"chebyshev", Chebyshev(ds), 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := tc.m.Value("a", "b")
			require.NoError(t, err)
			assert.InDelta(t, tc.ab, v, 1e-12)
			for i := 0; i < tc.m.Len(); i++ {
				assert.Equal(t, 0.0, tc.m.At(i, i))
				for j := 0; j < tc.m.Len(); j++ {
					assert.Equal(t, tc.m.At(i, j), tc.m.At(j, i))
					assert.GreaterOrEqual(t, tc.m.At(i, j), 0.0)
				}
			}
		})
	}
}

func TestMinkowski(t *testing.T) {
	ds := scaled(t)
	m2, err := Minkowski(ds, DefaultMinkowskiP)
	require.NoError(t, err)
	assert.InDelta(t, Euclidean(ds).At(0, 1), m2.At(0, 1), 1e-12)

	m1, err := Minkowski(ds, 1)
	require.NoError(t, err)
	assert.InDelta(t, 15, m1.At(0, 1), 1e-12)

	m3, err := Minkowski(ds, 3)
	require.NoError(t, err)
	assert.InDelta(t, math.Cbrt(225), m3.At(0, 1), 1e-9)

	_, err = Minkowski(ds, 0)
	assert.ErrorIs(t, err, dataset.ErrInvalidInput)
	_, err = Minkowski(ds, math.NaN())
	assert.ErrorIs(t, err, dataset.ErrInvalidInput)
}

func TestCosine(t *testing.T) {
	ds := scaled(t)
	m := Cosine(ds)
	assert.InDelta(t, 1, m.At(0, 1), 1e-12)
	assert.InDelta(t, -1, m.At(0, 2), 1e-12)
	for i := 0; i < m.Len(); i++ {
		assert.Equal(t, 1.0, m.At(i, i))
		for j := 0; j < m.Len(); j++ {
			assert.Equal(t, m.At(i, j), m.At(j, i))
		}
	}
}

func TestCosineZeroVector(t *testing.T) {
	ds, err := dataset.New([]string{"x", "zero"}, [][]float64{{1, 2}, {0, 0}})
	require.NoError(t, err)
	m := Cosine(ds)
	assert.Equal(t, 0.0, m.At(0, 1))
	assert.Equal(t, 0.0, m.At(1, 1))
	assert.Equal(t, 1.0, m.At(0, 0))
}

func TestJaccard(t *testing.T) {
	u := []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 10}
	w := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	ds, err := dataset.New([]string{"u", "w", "w2"}, [][]float64{u, w, w})
	require.NoError(t, err)
	m, err := Jaccard(ds, DefaultBins)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, m.At(0, 1), 1e-12)
	assert.Equal(t, 1.0, m.At(1, 2))
	for i := 0; i < m.Len(); i++ {
		assert.Equal(t, 1.0, m.At(i, i))
		for j := 0; j < m.Len(); j++ {
			assert.True(t, m.At(i, j) >= 0 && m.At(i, j) <= 1)
		}
	}

	_, err = Jaccard(ds, 0)
	assert.ErrorIs(t, err, dataset.ErrInvalidInput)
}

func TestBinSet(t *testing.T) {
	assert.Len(t, binSet([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 10), 10)
	// constant columns occupy one bin
	assert.Len(t, binSet([]float64{3, 3, 3}, 10), 1)
	assert.Len(t, binSet([]float64{0, 0}, 4), 1)
	// NaN values are skipped
	set := binSet([]float64{math.NaN(), 1, 2}, 2)
	assert.Len(t, set, 2)
	assert.Empty(t, binSet([]float64{math.NaN()}, 2))
	assert.Equal(t, 0.0, jaccard(map[int]struct{}{}, map[int]struct{}{}))
}

func TestBinEdges(t *testing.T) {
	e := BinEdges([]float64{0, 10}, 5)
	require.Len(t, e, 6)
	assert.InDelta(t, -0.01, e[0], 1e-12)
	assert.Equal(t, 10.0, e[5])
	c := BinEdges([]float64{100, 100}, 2)
	assert.InDelta(t, 99.9, c[0], 1e-9)
	assert.InDelta(t, 100.1, c[2], 1e-9)
}
