// Package parser loads tabular files and provider references into datasets
// of continuous numeric columns.
package parser

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

// Options controls how raw cells are read.
type Options struct {
	// Delimiter for CSV. If 0, chosen from the file suffix.
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// XLSX sheet selection; SheetName wins over the 1-based SheetIndex.
	SheetName  string
	SheetIndex int
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
}

// DefaultOptions returns options that auto-detect separators and read the first sheet.
func DefaultOptions() Options {
	return Options{SheetIndex: 1}
}

// Loader reads one file format.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string, opt Options) (*dataset.Dataset, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
	Register(jsonLoader{})
}

// Load resolves ref as a provider reference ("sklearn:iris") or a file path
// and returns its dataset.
func Load(ref string, opt Options) (*dataset.Dataset, error) {
	if p, name, ok := splitProvider(ref); ok {
		return loadProvider(p, name, opt)
	}
	if _, err := os.Stat(ref); err != nil {
		return nil, fmt.Errorf("open %s: %w", ref, err)
	}
	for _, l := range registry {
		if l.CanLoad(ref) {
			return l.Load(ref, opt)
		}
	}
	return nil, &dataset.UnknownNameError{Kind: "file format", Name: ref, Known: []string{".csv", ".tsv", ".xlsx", ".json"}}
}

// table accumulates string cells by column before numeric validation.
type table struct {
	header []string
	cells  [][]string // cells[col][row]
}

func newTable(header []string) *table {
	h := make([]string, len(header))
	for i, s := range header {
		h[i] = strings.TrimSpace(s)
		if h[i] == "" {
			h[i] = fmt.Sprintf("column_%d", i+1)
		}
	}
	return &table{header: h, cells: make([][]string, len(h))}
}

func (t *table) add(row []string) {
	for c := range t.header {
		v := ""
		if c < len(row) {
			v = row[c]
		}
		t.cells[c] = append(t.cells[c], v)
	}
}

// numeric converts the table, rejecting columns that are not continuous numbers.
// Empty cells become NaN.
func (t *table) numeric(opt Options) (*dataset.Dataset, error) {
	if len(t.header) > 0 && len(t.cells[0]) == 0 {
		return nil, dataset.Invalid("dataset", "no rows")
	}
	cols := make([][]float64, len(t.header))
	var bad []string
	for c, name := range t.header {
		vals := make([]float64, len(t.cells[c]))
		seen := 0
		ok := true
		for r, s := range t.cells[c] {
			s = strings.TrimSpace(s)
			if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "na") {
				vals[r] = math.NaN()
				continue
			}
			if isBoolLiteral(s) {
				ok = false
				break
			}
			f, good := parseNumeric(s, opt)
			if !good {
				ok = false
				break
			}
			vals[r] = f
			seen++
		}
		if !ok || seen == 0 {
			bad = append(bad, name)
			continue
		}
		cols[c] = vals
	}
	if len(bad) > 0 {
		return nil, dataset.Invalid("columns", "not continuous numeric: %s", strings.Join(bad, ", "))
	}
	return dataset.New(t.header, cols)
}

func isBoolLiteral(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}

// sortedKeys returns map keys in lexical order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
