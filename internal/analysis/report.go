package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/KaramelBytes/datalens-cli/internal/describe"
)

// Grid is a labelled numeric table: one matrix layer, the descriptive
// statistics table, or a regression sweep.
type Grid struct {
	Title     string
	Corner    string
	Columns   []string
	RowLabels []string
	Values    [][]float64
}

// Grids flattens the result into labelled tables.
func (r *Result) Grids() []Grid {
	switch {
	case r.Table != nil:
		labels := make([]string, len(describe.All))
		for i, s := range describe.All {
			labels[i] = s.Label(r.Table.Trim)
		}
		return []Grid{{
			Title:     r.Kind.Title(),
			Corner:    "Statistic",
			Columns:   r.Table.Columns,
			RowLabels: labels,
			Values:    r.Table.Rows(),
		}}
	case r.Sweep != nil:
		s := r.Sweep
		g := Grid{
			Title:   fmt.Sprintf("%s (R², degree %d)", r.Kind.Title(), s.Degree),
			Corner:  "Predictors",
			Columns: s.Responses,
		}
		for _, row := range s.Rows {
			g.RowLabels = append(g.RowLabels, row.Key)
			g.Values = append(g.Values, row.R2)
		}
		return []Grid{g}
	}
	out := make([]Grid, 0, len(r.Matrices))
	for _, m := range r.Matrices {
		out = append(out, matrixGrid(m))
	}
	return out
}

func matrixGrid(m *dataset.Matrix) Grid {
	return Grid{Title: m.Name(), Columns: m.Labels(), RowLabels: m.Labels(), Values: m.Values()}
}

func (g Grid) markdown(b *strings.Builder, precision int) {
	header := append([]string{g.Corner}, g.Columns...)
	rows := make([][]string, len(g.RowLabels))
	for i, label := range g.RowLabels {
		row := make([]string, 0, len(g.Columns)+1)
		row = append(row, safeName(label))
		for _, v := range g.Values[i] {
			row = append(row, FormatNumber(v, precision))
		}
		rows[i] = row
	}
	mdTable(b, header, rows)
}

// Markdown renders g as a single table.
func (g Grid) Markdown(precision int) string {
	var b strings.Builder
	g.markdown(&b, precision)
	return b.String()
}

// Markdown renders one result as headed tables.
func (r *Result) Markdown(precision int) string {
	var b strings.Builder
	grids := r.Grids()
	for i, g := range grids {
		if i > 0 {
			b.WriteString("\n")
		}
		if len(grids) > 1 {
			b.WriteString(fmt.Sprintf("%s:\n", g.Title))
		}
		g.markdown(&b, precision)
	}
	if s := r.Sweep; s != nil && s.Truncated {
		b.WriteString(fmt.Sprintf("\n(evaluated %d of %d predictor sets)\n", s.Evaluated, s.Possible))
	}
	return b.String()
}

// Report collects every analysis of one dataset and its variants.
type Report struct {
	Source    string
	Rows      int
	Columns   []string
	Params    Params
	Precision int
	Results   []*Result
	Notes     []string
}

// NewReport summarizes ds and attaches results.
func NewReport(source string, ds *dataset.Dataset, p Params, results []*Result) *Report {
	r := &Report{
		Source:    source,
		Rows:      ds.NumRows(),
		Columns:   ds.Names(),
		Params:    p,
		Precision: DefaultPrecision,
		Results:   results,
	}
	for _, res := range results {
		if s := res.Sweep; s != nil && s.Truncated {
			r.Notes = append(r.Notes, fmt.Sprintf("%s on %s evaluated %d of %d predictor sets (limits %d/%d/%d)",
				res.Kind.Title(), res.Variant, s.Evaluated, s.Possible, p.Sweep.First, p.Sweep.Second, p.Sweep.Third))
		}
		if res.Kind == Correlation && hasNaN(res.Matrices) {
			r.Notes = append(r.Notes, fmt.Sprintf("correlation on %s has undefined entries (constant columns)", res.Variant))
		}
	}
	return r
}

func hasNaN(ms []*dataset.Matrix) bool {
	for _, m := range ms {
		for _, row := range m.Values() {
			for _, v := range row {
				if math.IsNaN(v) {
					return true
				}
			}
		}
	}
	return false
}

// Markdown renders a compact report suitable for standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Source != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Source))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d (%s)\n", len(r.Columns), strings.Join(r.Columns, ", ")))

	p := r.Params
	b.WriteString("\n[PARAMETERS]\n")
	b.WriteString(fmt.Sprintf("- max_degree: %d\n", p.MaxDegree))
	b.WriteString(fmt.Sprintf("- regression_degree: %d\n", p.Degree))
	b.WriteString(fmt.Sprintf("- minkowski_p: %g\n", p.MinkowskiP))
	b.WriteString(fmt.Sprintf("- jaccard_bins: %d\n", p.Bins))
	b.WriteString(fmt.Sprintf("- trim_fraction: %g\n", p.Trim))
	b.WriteString(fmt.Sprintf("- equal_variance: %t\n", p.EqualVariance))

	for _, res := range r.Results {
		if res == nil {
			continue
		}
		variant := res.Variant
		if variant == "" {
			variant = "original"
		}
		b.WriteString(fmt.Sprintf("\n[%s: %s]\n", strings.ToUpper(variant), strings.ToUpper(res.Kind.Title())))
		b.WriteString(res.Markdown(r.Precision))
	}
	if len(r.Notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range r.Notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}
