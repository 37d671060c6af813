// Package generator produces synthetic datasets for exercising the engines.
package generator

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Method is a synthetic data generation method.
type Method int

const (
	Normal Method = iota
	Uniform
	Exponential
	MultivariateNormal
	Polynomial
)

// Methods lists every method in display order.
var Methods = []Method{Normal, Uniform, Exponential, MultivariateNormal, Polynomial}

func (m Method) String() string {
	switch m {
	case Normal:
		return "normal"
	case Uniform:
		return "uniform"
	case Exponential:
		return "exponential"
	case MultivariateNormal:
		return "multivariate_normal"
	case Polynomial:
		return "polynomial"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Title is the human label for the method.
func (m Method) Title() string {
	switch m {
	case Normal:
		return "Normal Distribution"
	case Uniform:
		return "Uniform Distribution"
	case Exponential:
		return "Exponential Distribution"
	case MultivariateNormal:
		return "Multivariate Normal (Correlated)"
	case Polynomial:
		return "Polynomial Relationships"
	}
	return m.String()
}

// Names returns the canonical method names.
func Names() []string {
	out := make([]string, len(Methods))
	for i, m := range Methods {
		out[i] = m.String()
	}
	return out
}

// ParseMethod resolves a method name. Hyphens and case are ignored.
func ParseMethod(name string) (Method, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	switch n {
	case "mvn", "multivariate", "correlated":
		return MultivariateNormal, nil
	case "poly":
		return Polynomial, nil
	case "exp":
		return Exponential, nil
	}
	for _, m := range Methods {
		if m.String() == n {
			return m, nil
		}
	}
	return 0, &dataset.UnknownNameError{Kind: "generation method", Name: name, Known: Names()}
}

// Params holds the knobs for every method; each method reads only its own.
type Params struct {
	Samples  int
	Features int

	Mean, Std   float64 // normal
	Low, High   float64 // uniform
	Scale       float64 // exponential, 1/lambda
	Correlation float64 // multivariate normal
	Degree      int     // polynomial
	NoiseStd    float64 // polynomial

	// Seed makes output reproducible. Zero draws a random seed.
	Seed uint64
}

// DefaultParams returns the default generation settings.
func DefaultParams() Params {
	return Params{
		Samples:     100,
		Features:    3,
		Std:         1,
		High:        1,
		Scale:       1,
		Correlation: 0.5,
		Degree:      2,
		NoiseStd:    0.1,
	}
}

// ColumnName is the name given to the i-th generated column.
func ColumnName(i int) string { return fmt.Sprintf("feature_%d", i) }

// Generate builds a Samples × Features dataset using method m.
func Generate(m Method, p Params) (*dataset.Dataset, error) {
	if p.Samples < 1 {
		return nil, dataset.Invalid("samples", "must be >= 1, got %d", p.Samples)
	}
	if p.Features < 1 {
		return nil, dataset.Invalid("features", "must be >= 1, got %d", p.Features)
	}
	seed := p.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)

	var cols [][]float64
	var err error
	switch m {
	case Normal:
		if !(p.Std >= 0) {
			return nil, dataset.Invalid("std", "must be >= 0, got %g", p.Std)
		}
		cols = draw(p, distuv.Normal{Mu: p.Mean, Sigma: p.Std, Src: src})
	case Uniform:
		if !(p.High > p.Low) {
			return nil, dataset.Invalid("uniform bounds", "high (%g) must exceed low (%g)", p.High, p.Low)
		}
		cols = draw(p, distuv.Uniform{Min: p.Low, Max: p.High, Src: src})
	case Exponential:
		if !(p.Scale > 0) {
			return nil, dataset.Invalid("scale", "must be > 0, got %g", p.Scale)
		}
		cols = draw(p, distuv.Exponential{Rate: 1 / p.Scale, Src: src})
	case MultivariateNormal:
		cols, err = correlated(p, src)
	case Polynomial:
		cols, err = polynomial(p, src)
	default:
		return nil, &dataset.UnknownNameError{Kind: "generation method", Name: m.String(), Known: Names()}
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, p.Features)
	for i := range names {
		names[i] = ColumnName(i)
	}
	return dataset.New(names, cols)
}

type sampler interface{ Rand() float64 }

// draw fills columns row-major so a given seed yields the same rows
// regardless of how columns are later sliced.
func draw(p Params, d sampler) [][]float64 {
	cols := make([][]float64, p.Features)
	for j := range cols {
		cols[j] = make([]float64, p.Samples)
	}
	for i := 0; i < p.Samples; i++ {
		for j := range cols {
			cols[j][i] = d.Rand()
		}
	}
	return cols
}

// correlated draws zero-mean unit-variance normals with a common pairwise
// correlation, via the Cholesky factor of the equicorrelation matrix.
func correlated(p Params, src rand.Source) ([][]float64, error) {
	k := p.Features
	rho := p.Correlation
	if math.IsNaN(rho) || rho >= 1 || (k > 1 && rho <= -1/float64(k-1)) {
		return nil, dataset.Invalid("correlation", "%g does not give a positive definite matrix for %d features", rho, k)
	}
	sigma := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			v := rho
			if i == j {
				v = 1
			}
			sigma.SetSym(i, j, v)
		}
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(sigma); !ok {
		return nil, dataset.Invalid("correlation", "matrix is not positive definite")
	}
	var l mat.TriDense
	chol.LTo(&l)

	std := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	z := mat.NewVecDense(k, nil)
	x := mat.NewVecDense(k, nil)
	cols := make([][]float64, k)
	for j := range cols {
		cols[j] = make([]float64, p.Samples)
	}
	for i := 0; i < p.Samples; i++ {
		for j := 0; j < k; j++ {
			z.SetVec(j, std.Rand())
		}
		x.MulVec(&l, z)
		for j := 0; j < k; j++ {
			cols[j][i] = x.AtVec(j)
		}
	}
	return cols, nil
}

// polynomial draws a base x ~ U(-10, 10) and returns feature i as
// x^((i mod degree)+1) plus normal noise.
func polynomial(p Params, src rand.Source) ([][]float64, error) {
	if p.Degree < 1 {
		return nil, dataset.Invalid("degree", "must be >= 1, got %d", p.Degree)
	}
	if !(p.NoiseStd >= 0) {
		return nil, dataset.Invalid("noise std", "must be >= 0, got %g", p.NoiseStd)
	}
	base := distuv.Uniform{Min: -10, Max: 10, Src: src}
	noise := distuv.Normal{Mu: 0, Sigma: p.NoiseStd, Src: src}
	x := make([]float64, p.Samples)
	for i := range x {
		x[i] = base.Rand()
	}
	cols := make([][]float64, p.Features)
	for j := range cols {
		power := float64(j%p.Degree + 1)
		cols[j] = make([]float64, p.Samples)
		for i, v := range x {
			cols[j][i] = math.Pow(v, power) + noise.Rand()
		}
	}
	return cols, nil
}
