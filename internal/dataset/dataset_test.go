package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidates(t *testing.T) {
	cases := []struct {
		name  string
		names []string
		cols  [][]float64
	}{
		{"no columns", nil, nil},
		{"no rows", []string{"a"}, [][]float64{{}}},
		{"length mismatch", []string{"a", "b"}, [][]float64{{1, 2}, {1}}},
		{"duplicate", []string{"a", "a"}, [][]float64{{1}, {2}}},
		{"empty name", []string{" "}, [][]float64{{1}}},
		{"names vs cols", []string{"a", "b"}, [][]float64{{1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.names, tc.cols)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
			var ve *ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

func TestNewCopiesInput(t *testing.T) {
	a := []float64{1, 2, 3}
	ds, err := New([]string{"a"}, [][]float64{a})
	require.NoError(t, err)
	a[0] = 100
	assert.Equal(t, 1.0, ds.Column(0)[0])
	assert.Equal(t, 3, ds.NumRows())
	assert.Equal(t, 1, ds.NumCols())
}

func TestAccessors(t *testing.T) {
	ds, err := FromMap([]string{"x", "y"}, map[string][]float64{"x": {1, 2}, "y": {3, 4}})
	require.NoError(t, err)
	i, ok := ds.Index("y")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, []float64{2, 4}, ds.Row(1))

	_, err = ds.ColumnByName("z")
	assert.True(t, errors.Is(err, ErrUnknownName))

	d := ds.Dense()
	r, c := d.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 3.0, d.At(0, 1))
}

func TestDerive(t *testing.T) {
	ds, err := New([]string{"a"}, [][]float64{{1, 2}})
	require.NoError(t, err)
	dbl, err := ds.Derive(func(c []float64) []float64 {
		out := make([]float64, len(c))
		for i, v := range c {
			out[i] = 2 * v
		}
		return out
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4}, dbl.Column(0))
	assert.Equal(t, []float64{1, 2}, ds.Column(0))

	_, err = ds.Derive(func(c []float64) []float64 { return c[:1] })
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuildMirrorsUpperTriangle(t *testing.T) {
	ds, err := New([]string{"a", "b", "c"}, [][]float64{{1}, {2}, {3}})
	require.NoError(t, err)
	calls := 0
	pw := Pairwise{
		Layers:    []string{"diff", "sum"},
		Symmetric: []bool{false, true},
		Diagonal:  func(int) []float64 { return []float64{0, -1} },
		Cell: func(i, j int) []float64 {
			calls++
			x, y := ds.Column(i)[0], ds.Column(j)[0]
			return []float64{x - y, x + y}
		},
		Mirror: func(l int, v float64) float64 {
			if l == 0 {
				return -v
			}
			return v
		},
	}
	var last, total int
	ms, err := BuildContext(context.Background(), ds, pw, func(d, tot int) { last, total = d, tot })
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 6, total)
	assert.Equal(t, 6, last)
	assert.Equal(t, -1.0, ms[0].At(0, 1))
	assert.Equal(t, 1.0, ms[0].At(1, 0))
	assert.Equal(t, 5.0, ms[1].At(2, 1))
	assert.Equal(t, -1.0, ms[1].At(2, 2))
	assert.False(t, ms[0].Symmetric())
	assert.True(t, ms[1].Symmetric())

	v, err := ms[1].Value("a", "c")
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)
	_, err = ms[1].Value("a", "nope")
	assert.ErrorIs(t, err, ErrUnknownName)
}

func TestBuildContextCancelled(t *testing.T) {
	ds, err := New([]string{"a", "b"}, [][]float64{{1}, {2}})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ms, err := BuildContext(ctx, ds, Pairwise{
		Layers: []string{"x"},
		Cell:   func(i, j int) []float64 { return []float64{1} },
	}, nil)
	assert.Nil(t, ms)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestErrorMessages(t *testing.T) {
	err := &UnknownNameError{Kind: "transformation", Name: "cube", Known: []string{"log", "minmax"}}
	assert.Equal(t, "unknown transformation: cube (use log|minmax)", err.Error())
	u := &UnavailableError{Source: "sklearn", Err: errors.New("not bundled")}
	assert.ErrorIs(t, u, ErrUnavailable)
	assert.Contains(t, u.Error(), "sklearn unavailable")
}
