package transform

import (
	"math"
	"testing"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func sample(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(
		[]string{"a", "b", "flat", "zero"},
		[][]float64{
			{1, 2, 3, 4, 5},
			{-4, 10, 2.5, 7, -1},
			{5, 5, 5, 5, 5},
			{0, 0, 0, 0, 0},
		},
	)
	require.NoError(t, err)
	return ds
}

func TestZTransform(t *testing.T) {
	out, err := Apply(sample(t), ZTransform)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		mean, std := stat.MeanStdDev(out.Column(i), nil)
		assert.InDelta(t, 0, mean, 1e-12)
		assert.InDelta(t, 1, std, 1e-12)
	}
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, out.Column(2))
}

func TestMinMax(t *testing.T) {
	out, err := Apply(sample(t), MinMax)
	require.NoError(t, err)
	b := out.Column(1)
	assert.Equal(t, 0.0, floats.Min(b))
	assert.Equal(t, 1.0, floats.Max(b))
	assert.Equal(t, 0.0, b[0])
	assert.Equal(t, 1.0, b[1])
	for _, v := range b {
		assert.True(t, v >= 0 && v <= 1)
	}
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, out.Column(2))
}

func TestRobust(t *testing.T) {
	out, err := Apply(sample(t), Robust)
	require.NoError(t, err)
	// median 3, IQR 2
	assert.InDeltaSlice(t, []float64{-1, -0.5, 0, 0.5, 1}, out.Column(0), 1e-12)
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, out.Column(2))
}

func TestMaxAbs(t *testing.T) {
	out, err := Apply(sample(t), MaxAbs)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-0.4, 1, 0.25, 0.7, -0.1}, out.Column(1), 1e-12)
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, out.Column(3))
}

func TestLog(t *testing.T) {
	out, err := Apply(sample(t), Log)
	require.NoError(t, err)
	b := out.Column(1)
	assert.InDelta(t, -math.Log(4), b[0], 1e-9)
	assert.InDelta(t, math.Log(10), b[1], 1e-9)
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, out.Column(3))
	// elementwise: a constant non-zero column maps to a constant
	for _, v := range out.Column(2) {
		assert.InDelta(t, math.Log(5), v, 1e-9)
	}
}

func TestApplyDoesNotMutate(t *testing.T) {
	ds := sample(t)
	_, err := All(ds)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, ds.Column(0))
}

func TestSingleRowIsZero(t *testing.T) {
	ds, err := dataset.New([]string{"a"}, [][]float64{{3}})
	require.NoError(t, err)
	for _, k := range []Kind{ZTransform, MinMax, Robust} {
		out, err := Apply(ds, k)
		require.NoError(t, err)
		assert.Equal(t, []float64{0}, out.Column(0), k.String())
	}
}

func TestMissingCells(t *testing.T) {
	nan := math.NaN()
	ds, err := dataset.New([]string{"a"}, [][]float64{{nan, 1, 2, 3, 4}})
	require.NoError(t, err)

	sd := math.Sqrt(5.0 / 3)
	cases := []struct {
		kind Kind
		want []float64
	}{
		{ZTransform, []float64{nan, -1.5 / sd, -0.5 / sd, 0.5 / sd, 1.5 / sd}},
		{MinMax, []float64{nan, 0, 1.0 / 3, 2.0 / 3, 1}},
		{Robust, []float64{nan, -1, -1.0 / 3, 1.0 / 3, 1}},
		{MaxAbs, []float64{nan, 0.25, 0.5, 0.75, 1}},
		{Log, []float64{nan, math.Log(1 + LogEpsilon), math.Log(2 + LogEpsilon), math.Log(3 + LogEpsilon), math.Log(4 + LogEpsilon)}},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			out, err := Apply(ds, tc.kind)
			require.NoError(t, err)
			got := out.Column(0)
			require.Len(t, got, len(tc.want))
			assert.True(t, math.IsNaN(got[0]), "missing cell must stay missing")
			for i := 1; i < len(got); i++ {
				assert.InDelta(t, tc.want[i], got[i], 1e-12, "row %d", i)
			}
		})
	}
}

func TestAllMissingColumn(t *testing.T) {
	nan := math.NaN()
	ds, err := dataset.New([]string{"a", "b"}, [][]float64{{nan, nan, nan}, {1, nan, 5}})
	require.NoError(t, err)
	for _, k := range Kinds {
		out, err := Apply(ds, k)
		require.NoError(t, err, k.String())
		for _, v := range out.Column(0) {
			assert.True(t, math.IsNaN(v), k.String())
		}
		assert.True(t, math.IsNaN(out.Column(1)[1]), k.String())
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("cube_root")
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrUnknownName)
	assert.Contains(t, err.Error(), "unknown transformation: cube_root")

	_, err = ApplyNamed(sample(t), "sqrt")
	assert.ErrorIs(t, err, dataset.ErrUnknownName)
}

func TestAll(t *testing.T) {
	all, err := All(sample(t))
	require.NoError(t, err)
	assert.Len(t, all, 5)
	for _, k := range Kinds {
		assert.Equal(t, 4, all[k].NumCols())
		assert.Equal(t, 5, all[k].NumRows())
	}
}
