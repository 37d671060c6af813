// Package similarity computes distance and similarity matrices between columns,
// treating each column as a vector over the rows.
package similarity

import (
	"math"
	"sort"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"gonum.org/v1/gonum/floats"
)

// Matrix names.
const (
	NameEuclidean = "Euclidean Distance"
	NameManhattan = "Manhattan Distance"
	NameMinkowski = "Minkowski Distance"
	NameChebyshev = "Chebyshev Distance"
	NameCosine    = "Cosine Similarity"
	NameJaccard   = "Jaccard Similarity"
)

const (
	// DefaultMinkowskiP is the Minkowski order when none is configured.
	DefaultMinkowskiP = 2.0
	// DefaultBins is the Jaccard discretization resolution.
	DefaultBins = 10
)

// distanceCells builds a zero-diagonal symmetric distance matrix of order l.
func distanceCells(ds *dataset.Dataset, name string, l float64) dataset.Pairwise {
	return dataset.Pairwise{
		Layers:    []string{name},
		Symmetric: []bool{true},
		Diagonal:  func(int) []float64 { return []float64{0} },
		Cell: func(i, j int) []float64 {
			return []float64{floats.Distance(ds.Column(i), ds.Column(j), l)}
		},
		Mirror: dataset.Same,
	}
}

// EuclideanCells describes the L2 distance matrix.
func EuclideanCells(ds *dataset.Dataset) dataset.Pairwise {
	return distanceCells(ds, NameEuclidean, 2)
}

// ManhattanCells describes the L1 distance matrix.
func ManhattanCells(ds *dataset.Dataset) dataset.Pairwise {
	return distanceCells(ds, NameManhattan, 1)
}

// ChebyshevCells describes the L∞ distance matrix.
func ChebyshevCells(ds *dataset.Dataset) dataset.Pairwise {
	return distanceCells(ds, NameChebyshev, math.Inf(1))
}

// MinkowskiCells describes the Lp distance matrix. p must be positive.
func MinkowskiCells(ds *dataset.Dataset, p float64) (dataset.Pairwise, error) {
	if !(p > 0) {
		return dataset.Pairwise{}, dataset.Invalid("minkowski p", "must be > 0, got %g", p)
	}
	return distanceCells(ds, NameMinkowski, p), nil
}

func Euclidean(ds *dataset.Dataset) *dataset.Matrix {
	return dataset.Build(ds, EuclideanCells(ds))[0]
}

func Manhattan(ds *dataset.Dataset) *dataset.Matrix {
	return dataset.Build(ds, ManhattanCells(ds))[0]
}

func Chebyshev(ds *dataset.Dataset) *dataset.Matrix {
	return dataset.Build(ds, ChebyshevCells(ds))[0]
}

func Minkowski(ds *dataset.Dataset, p float64) (*dataset.Matrix, error) {
	pw, err := MinkowskiCells(ds, p)
	if err != nil {
		return nil, err
	}
	return dataset.Build(ds, pw)[0], nil
}

// CosineCells describes the cosine similarity matrix. A zero vector has
// similarity 0 with everything, itself included.
func CosineCells(ds *dataset.Dataset) dataset.Pairwise {
	norms := make([]float64, ds.NumCols())
	for i := range norms {
		norms[i] = floats.Norm(ds.Column(i), 2)
	}
	return dataset.Pairwise{
		Layers:    []string{NameCosine},
		Symmetric: []bool{true},
		Diagonal: func(i int) []float64 {
			if norms[i] == 0 {
				return []float64{0}
			}
			return []float64{1}
		},
		Cell: func(i, j int) []float64 {
			if norms[i] == 0 || norms[j] == 0 {
				return []float64{0}
			}
			c := floats.Dot(ds.Column(i), ds.Column(j)) / (norms[i] * norms[j])
			return []float64{math.Max(-1, math.Min(1, c))}
		},
		Mirror: dataset.Same,
	}
}

func Cosine(ds *dataset.Dataset) *dataset.Matrix {
	return dataset.Build(ds, CosineCells(ds))[0]
}

// JaccardCells describes the Jaccard similarity of the occupied-bin sets of
// each column after equal-width discretization into bins intervals.
func JaccardCells(ds *dataset.Dataset, bins int) (dataset.Pairwise, error) {
	if bins < 1 {
		return dataset.Pairwise{}, dataset.Invalid("bins", "must be >= 1, got %d", bins)
	}
	sets := make([]map[int]struct{}, ds.NumCols())
	for i := range sets {
		sets[i] = binSet(ds.Column(i), bins)
	}
	return dataset.Pairwise{
		Layers:    []string{NameJaccard},
		Symmetric: []bool{true},
		Diagonal:  func(int) []float64 { return []float64{1} },
		Cell: func(i, j int) []float64 {
			return []float64{jaccard(sets[i], sets[j])}
		},
		Mirror: dataset.Same,
	}, nil
}

func Jaccard(ds *dataset.Dataset, bins int) (*dataset.Matrix, error) {
	pw, err := JaccardCells(ds, bins)
	if err != nil {
		return nil, err
	}
	return dataset.Build(ds, pw)[0], nil
}

func jaccard(a, b map[int]struct{}) float64 {
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// BinEdges returns bins+1 right-closed interval edges spanning x.
// The lowest edge is pushed down by 0.1% of the range so the minimum falls
// inside the first bin; a constant column is widened by 0.1% of its value.
func BinEdges(x []float64, bins int) []float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range x {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return nil
	}
	edges := make([]float64, bins+1)
	if lo == hi {
		d := 0.001 * math.Abs(lo)
		if lo == 0 {
			d = 0.001
		}
		floats.Span(edges, lo-d, hi+d)
		return edges
	}
	floats.Span(edges, lo, hi)
	edges[0] -= (hi - lo) * 0.001
	return edges
}

// binSet returns the set of bin indices occupied by x, ignoring NaN.
func binSet(x []float64, bins int) map[int]struct{} {
	set := make(map[int]struct{}, bins)
	edges := BinEdges(x, bins)
	if edges == nil {
		return set
	}
	for _, v := range x {
		if math.IsNaN(v) {
			continue
		}
		b := sort.SearchFloat64s(edges, v) - 1
		if b < 0 || b >= bins {
			continue
		}
		set[b] = struct{}{}
	}
	return set
}
