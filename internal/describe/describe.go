// Package describe computes per-column descriptive statistics.
package describe

import (
	"math"
	"sort"
	"strconv"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Statistic identifies one of the descriptive statistics.
type Statistic int

const (
	ArithmeticMean Statistic = iota
	GeometricMean
	HarmonicMean
	TrimmedMean
	StandardDeviation
	Range
	IQR
	MAD
	CV
	StandardError
	Skewness
	Kurtosis

	numStatistics = int(Kurtosis) + 1
)

// All lists every statistic in report order.
var All = []Statistic{
	ArithmeticMean, GeometricMean, HarmonicMean, TrimmedMean,
	StandardDeviation, Range, IQR, MAD, CV, StandardError, Skewness, Kurtosis,
}

func (s Statistic) String() string {
	switch s {
	case ArithmeticMean:
		return "Arithmetic Mean"
	case GeometricMean:
		return "Geometric Mean"
	case HarmonicMean:
		return "Harmonic Mean"
	case TrimmedMean:
		return "Trimmed Mean"
	case StandardDeviation:
		return "Standard Deviation"
	case Range:
		return "Range"
	case IQR:
		return "IQR"
	case MAD:
		return "MAD"
	case CV:
		return "CV"
	case StandardError:
		return "Standard Error"
	case Skewness:
		return "Skewness"
	case Kurtosis:
		return "Kurtosis"
	}
	return "unknown"
}

// Label is String with the trimmed-mean fraction spelled out as a percentage.
func (s Statistic) Label(trim float64) string {
	if s != TrimmedMean {
		return s.String()
	}
	if trim == 0 {
		trim = DefaultTrim
	}
	pct := math.Round(trim*1e4) / 100
	return "Trimmed Mean (" + strconv.FormatFloat(pct, 'f', -1, 64) + "%)"
}

// DefaultTrim is the fraction cut from each tail for the trimmed mean.
const DefaultTrim = 0.05

// Options tunes the computation.
type Options struct {
	// Trim is the fraction removed from each tail by TrimmedMean; 0 selects DefaultTrim.
	Trim float64
}

// Summary holds the statistics of one column, indexed by Statistic.
type Summary [numStatistics]float64

// Get returns the value of s.
func (sm Summary) Get(s Statistic) float64 { return sm[s] }

// Column computes every statistic for a single column. NaN cells are
// missing values and are skipped; a column with no values left yields NaN
// for every statistic.
func Column(x []float64, opt Options) (Summary, error) {
	var sm Summary
	if len(x) == 0 {
		return sm, dataset.Invalid("column", "no values")
	}
	trim := opt.Trim
	if trim == 0 {
		trim = DefaultTrim
	}
	if trim < 0 || trim >= 0.5 {
		return sm, dataset.Invalid("trim", "must be in [0, 0.5), got %g", trim)
	}
	x = dataset.Present(x)
	if len(x) == 0 {
		for i := range sm {
			sm[i] = math.NaN()
		}
		return sm, nil
	}
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	mean, _ := stats.Mean(stats.Float64Data(x))
	std := stat.StdDev(x, nil)

	sm[ArithmeticMean] = mean
	sm[GeometricMean] = geometricMean(x)
	sm[HarmonicMean] = harmonicMean(x)
	sm[TrimmedMean] = trimmedMean(sorted, trim)
	sm[StandardDeviation] = std
	sm[Range] = floats.Max(x) - floats.Min(x)
	sm[IQR] = Quantile(sorted, 0.75) - Quantile(sorted, 0.25)
	sm[MAD] = meanAbsDev(x, mean)
	if mean == 0 {
		sm[CV] = math.Inf(1)
	} else {
		sm[CV] = std / math.Abs(mean)
	}
	sm[StandardError] = std / math.Sqrt(float64(len(x)))
	sm[Skewness] = skewness(x)
	sm[Kurtosis] = kurtosis(x)
	return sm, nil
}

func geometricMean(x []float64) float64 {
	var pos []float64
	for _, v := range x {
		if a := math.Abs(v); a > 0 {
			pos = append(pos, a)
		}
	}
	if len(pos) == 0 {
		return 0
	}
	return stat.GeometricMean(pos, nil)
}

func harmonicMean(x []float64) float64 {
	var pos []float64
	for _, v := range x {
		if v > 0 {
			pos = append(pos, v)
		}
	}
	if len(pos) == 0 {
		return 0
	}
	return stat.HarmonicMean(pos, nil)
}

// trimmedMean drops int(trim*n) values from each end of sorted.
func trimmedMean(sorted []float64, trim float64) float64 {
	cut := int(trim * float64(len(sorted)))
	return stat.Mean(sorted[cut:len(sorted)-cut], nil)
}

func meanAbsDev(x []float64, mean float64) float64 {
	var s float64
	for _, v := range x {
		s += math.Abs(v - mean)
	}
	return s / float64(len(x))
}

// skewness is the adjusted Fisher-Pearson coefficient.
func skewness(x []float64) float64 {
	if len(x) < 3 {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 {
		return 0
	}
	return stat.Skew(x, nil)
}

// kurtosis is the bias-corrected excess kurtosis.
func kurtosis(x []float64) float64 {
	if len(x) < 4 {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 {
		return 0
	}
	return stat.ExKurtosis(x, nil)
}

// Quantile interpolates linearly between the closest ranks of sorted.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
