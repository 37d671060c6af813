package describe

import (
	"fmt"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

// Table holds every statistic for every column of a dataset.
type Table struct {
	Columns   []string
	Summaries []Summary // aligned with Columns
	// Trim is the trimmed-mean fraction in effect.
	Trim float64
}

// Dataset describes each column of ds.
func Dataset(ds *dataset.Dataset, opt Options) (*Table, error) {
	t := &Table{Columns: ds.Names(), Summaries: make([]Summary, ds.NumCols()), Trim: opt.Trim}
	if t.Trim == 0 {
		t.Trim = DefaultTrim
	}
	for i := range t.Columns {
		sm, err := Column(ds.Column(i), opt)
		if err != nil {
			return nil, fmt.Errorf("describe %q: %w", t.Columns[i], err)
		}
		t.Summaries[i] = sm
	}
	return t, nil
}

// Value returns the statistic s of the named column.
func (t *Table) Value(s Statistic, column string) (float64, error) {
	for i, c := range t.Columns {
		if c == column {
			return t.Summaries[i][s], nil
		}
	}
	return 0, &dataset.UnknownNameError{Kind: "column", Name: column, Known: t.Columns}
}

// Rows returns the table as statistic rows × column values.
func (t *Table) Rows() [][]float64 {
	out := make([][]float64, len(All))
	for r, s := range All {
		row := make([]float64, len(t.Columns))
		for c := range t.Columns {
			row[c] = t.Summaries[c][s]
		}
		out[r] = row
	}
	return out
}
