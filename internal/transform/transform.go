// Package transform rescales every column of a dataset independently.
package transform

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/KaramelBytes/datalens-cli/internal/describe"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Kind selects a transformation.
type Kind int

const (
	ZTransform Kind = iota
	MinMax
	Robust
	MaxAbs
	Log
)

// Kinds lists every transformation in display order.
var Kinds = []Kind{ZTransform, MinMax, Robust, MaxAbs, Log}

// LogEpsilon is added to |x| before taking the logarithm.
const LogEpsilon = 1e-10

func (k Kind) String() string {
	switch k {
	case ZTransform:
		return "z_transform"
	case MinMax:
		return "minmax"
	case Robust:
		return "robust"
	case MaxAbs:
		return "maxabs"
	case Log:
		return "log"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Title is the human-readable label used in reports.
func (k Kind) Title() string {
	switch k {
	case ZTransform:
		return "Z-Transform"
	case MinMax:
		return "Min-Max"
	case Robust:
		return "Robust Scaling"
	case MaxAbs:
		return "Max-Abs Scaling"
	case Log:
		return "Log Transform"
	}
	return k.String()
}

// Names returns the identifiers accepted by ParseKind.
func Names() []string {
	out := make([]string, len(Kinds))
	for i, k := range Kinds {
		out[i] = k.String()
	}
	return out
}

// ParseKind resolves a transformation identifier.
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, k := range Kinds {
		if k.String() == n {
			return k, nil
		}
	}
	switch n {
	case "z", "zscore", "z-score", "standard":
		return ZTransform, nil
	case "min-max", "normalize":
		return MinMax, nil
	}
	return 0, &dataset.UnknownNameError{Kind: "transformation", Name: name, Known: Names()}
}

// Apply returns a new dataset with k applied to every column.
func Apply(ds *dataset.Dataset, k Kind) (*dataset.Dataset, error) {
	var fn func([]float64) []float64
	switch k {
	case ZTransform:
		fn = zTransform
	case MinMax:
		fn = minMax
	case Robust:
		fn = robust
	case MaxAbs:
		fn = maxAbs
	case Log:
		fn = logSigned
	default:
		return nil, &dataset.UnknownNameError{Kind: "transformation", Name: k.String(), Known: Names()}
	}
	out, err := ds.Derive(fn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k, err)
	}
	return out, nil
}

// ApplyNamed resolves name and applies it.
func ApplyNamed(ds *dataset.Dataset, name string) (*dataset.Dataset, error) {
	k, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	return Apply(ds, k)
}

// All applies every transformation, keyed by Kind.
func All(ds *dataset.Dataset) (map[Kind]*dataset.Dataset, error) {
	out := make(map[Kind]*dataset.Dataset, len(Kinds))
	for _, k := range Kinds {
		t, err := Apply(ds, k)
		if err != nil {
			return nil, err
		}
		out[k] = t
	}
	return out, nil
}

// mapPresent applies fn to every non-NaN cell; NaN cells stay NaN.
func mapPresent(x []float64, fn func(float64) float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		if math.IsNaN(v) {
			out[i] = v
			continue
		}
		out[i] = fn(v)
	}
	return out
}

func zero(float64) float64 { return 0 }

func zTransform(x []float64) []float64 {
	p := dataset.Present(x)
	if len(p) == 0 {
		return mapPresent(x, zero)
	}
	mean, std := stat.MeanStdDev(p, nil)
	if !(std > 0) {
		return mapPresent(x, zero)
	}
	return mapPresent(x, func(v float64) float64 { return (v - mean) / std })
}

func minMax(x []float64) []float64 {
	p := dataset.Present(x)
	if len(p) == 0 {
		return mapPresent(x, zero)
	}
	lo, hi := floats.Min(p), floats.Max(p)
	if !(hi > lo) {
		return mapPresent(x, zero)
	}
	span := hi - lo
	return mapPresent(x, func(v float64) float64 { return (v - lo) / span })
}

func robust(x []float64) []float64 {
	p := dataset.Present(x)
	if len(p) == 0 {
		return mapPresent(x, zero)
	}
	sort.Float64s(p)
	iqr := describe.Quantile(p, 0.75) - describe.Quantile(p, 0.25)
	if !(iqr > 0) {
		return mapPresent(x, zero)
	}
	med, _ := stats.Median(stats.Float64Data(p))
	return mapPresent(x, func(v float64) float64 { return (v - med) / iqr })
}

func maxAbs(x []float64) []float64 {
	var m float64
	for _, v := range dataset.Present(x) {
		m = math.Max(m, math.Abs(v))
	}
	if !(m > 0) {
		return mapPresent(x, zero)
	}
	return mapPresent(x, func(v float64) float64 { return v / m })
}

// logSigned maps x to sign(x)·ln(|x|+ε); zero stays zero.
func logSigned(x []float64) []float64 {
	return mapPresent(x, func(v float64) float64 {
		switch {
		case v > 0:
			return math.Log(v + LogEpsilon)
		case v < 0:
			return -math.Log(-v + LogEpsilon)
		}
		return 0
	})
}
