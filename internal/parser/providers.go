package parser

import (
	"errors"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

// Provider names accepted as "<provider>:<dataset>" references.
const (
	ProviderSklearn = "sklearn"
	ProviderKaggle  = "kaggle"
	ProviderTFDS    = "tfds"
)

// ProviderFunc fetches a named dataset from an external catalogue.
type ProviderFunc func(name string, opt Options) (*dataset.Dataset, error)

var providers = map[string]ProviderFunc{}

var providerAliases = map[string]string{
	"scikit-learn": ProviderSklearn,
	"tensorflow":   ProviderTFDS,
}

// RegisterProvider registers a provider name with its loader.
func RegisterProvider(name string, f ProviderFunc) { providers[name] = f }

// Providers lists the registered provider names.
func Providers() []string { return sortedKeys(providers) }

func init() {
	RegisterProvider(ProviderSklearn, unavailable(ProviderSklearn, "bundled scikit-learn datasets are not shipped with this build"))
	RegisterProvider(ProviderKaggle, unavailable(ProviderKaggle, "no Kaggle client or credentials configured"))
	RegisterProvider(ProviderTFDS, unavailable(ProviderTFDS, "TensorFlow Datasets is not installed"))
}

func unavailable(source, reason string) ProviderFunc {
	return func(string, Options) (*dataset.Dataset, error) {
		return nil, &dataset.UnavailableError{Source: source, Err: errors.New(reason)}
	}
}

// splitProvider recognizes "sklearn:iris" style references. Windows drive
// letters ("C:\data.csv") are single characters and never match.
func splitProvider(ref string) (provider, name string, ok bool) {
	p, n, found := strings.Cut(ref, ":")
	if !found || len(p) < 2 || n == "" {
		return "", "", false
	}
	p = strings.ToLower(strings.TrimSpace(p))
	if a, isAlias := providerAliases[p]; isAlias {
		p = a
	}
	if _, known := providers[p]; !known {
		return "", "", false
	}
	return p, strings.TrimSpace(n), true
}

func loadProvider(provider, name string, opt Options) (*dataset.Dataset, error) {
	f, ok := providers[provider]
	if !ok {
		return nil, &dataset.UnknownNameError{Kind: "provider", Name: provider, Known: Providers()}
	}
	return f(name, opt)
}
