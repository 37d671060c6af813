// Package analysis runs the statistics engines on behalf of the CLI: it names
// every analysis, evaluates them cancellably, batches them across dataset
// variants and renders the results.
package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/KaramelBytes/datalens-cli/internal/relate"
	"github.com/KaramelBytes/datalens-cli/internal/similarity"
)

// Kind identifies one analysis.
type Kind int

const (
	Describe Kind = iota

	FTest
	TTest
	Covariance
	Correlation
	RSquared
	Pearson
	Regression1D
	Regression2D
	Regression3D

	Euclidean
	Manhattan
	Minkowski
	Chebyshev
	Cosine
	Jaccard
)

// Category groups kinds by the engine that serves them.
type Category int

const (
	Descriptive Category = iota
	Relationship
	Similarity
)

func (c Category) String() string {
	switch c {
	case Descriptive:
		return "descriptive"
	case Relationship:
		return "relationship"
	case Similarity:
		return "similarity"
	}
	return "unknown"
}

// Kinds lists every analysis in report order.
var Kinds = []Kind{
	Describe,
	FTest, TTest, Covariance, Correlation, RSquared, Pearson, Regression1D, Regression2D, Regression3D,
	Euclidean, Manhattan, Minkowski, Chebyshev, Cosine, Jaccard,
}

func (k Kind) String() string {
	switch k {
	case Describe:
		return "describe"
	case FTest:
		return "ftest"
	case TTest:
		return "ttest"
	case Covariance:
		return "covariance"
	case Correlation:
		return "correlation"
	case RSquared:
		return "rsquared"
	case Pearson:
		return "pearson"
	case Regression1D:
		return "regression1d"
	case Regression2D:
		return "regression2d"
	case Regression3D:
		return "regression3d"
	case Euclidean:
		return "euclidean"
	case Manhattan:
		return "manhattan"
	case Minkowski:
		return "minkowski"
	case Chebyshev:
		return "chebyshev"
	case Cosine:
		return "cosine"
	case Jaccard:
		return "jaccard"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Title is the section heading used in reports.
func (k Kind) Title() string {
	switch k {
	case Describe:
		return "Descriptive Statistics"
	case FTest:
		return relate.NameFTest
	case TTest:
		return "T-Test"
	case Covariance:
		return relate.NameCovariance
	case Correlation:
		return relate.NameCorrelation
	case RSquared:
		return relate.NameRSquared
	case Pearson:
		return "Pearson Correlation"
	case Regression1D:
		return "Regression 1D"
	case Regression2D:
		return "Regression 2D"
	case Regression3D:
		return "Regression 3D"
	case Euclidean:
		return similarity.NameEuclidean
	case Manhattan:
		return similarity.NameManhattan
	case Minkowski:
		return similarity.NameMinkowski
	case Chebyshev:
		return similarity.NameChebyshev
	case Cosine:
		return similarity.NameCosine
	case Jaccard:
		return similarity.NameJaccard
	}
	return k.String()
}

// Category reports which engine serves k.
func (k Kind) Category() Category {
	switch {
	case k == Describe:
		return Descriptive
	case k >= Euclidean:
		return Similarity
	}
	return Relationship
}

// KindsIn returns the kinds of category c in report order.
func KindsIn(c Category) []Kind {
	var out []Kind
	for _, k := range Kinds {
		if k.Category() == c {
			out = append(out, k)
		}
	}
	return out
}

// Names returns the identifiers of the given kinds.
func Names(kinds []Kind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = k.String()
	}
	return out
}

// ParseKind resolves an analysis identifier. Hyphens, underscores and case
// are ignored, so "r-squared" and "Regression_1D" are accepted.
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("-", "", "_", "", " ", "").Replace(n)
	switch n {
	case "f", "fratio":
		return FTest, nil
	case "t", "students":
		return TTest, nil
	case "cov":
		return Covariance, nil
	case "corr":
		return Correlation, nil
	case "r2":
		return RSquared, nil
	case "l2":
		return Euclidean, nil
	case "l1", "cityblock":
		return Manhattan, nil
	}
	for _, k := range Kinds {
		if k.String() == n {
			return k, nil
		}
	}
	return 0, &dataset.UnknownNameError{Kind: "analysis", Name: name, Known: Names(Kinds)}
}

// ParseKindIn resolves name and requires it to belong to category c.
func ParseKindIn(c Category, name string) (Kind, error) {
	k, err := ParseKind(name)
	if err != nil || k.Category() != c {
		return 0, &dataset.UnknownNameError{Kind: c.String() + " analysis", Name: name, Known: Names(KindsIn(c))}
	}
	return k, nil
}
