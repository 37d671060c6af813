package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/utils"
	"github.com/xuri/excelize/v2"
)

// WriteCSV writes each grid of res as a block: a header row led by the grid
// title, then one row per label. Blocks are separated by an empty record.
func WriteCSV(w io.Writer, res *Result, precision int) error {
	cw := csv.NewWriter(w)
	for i, g := range res.Grids() {
		if i > 0 {
			if err := cw.Write([]string{}); err != nil {
				return err
			}
		}
		if err := cw.Write(append([]string{g.Title}, g.Columns...)); err != nil {
			return err
		}
		for r, label := range g.RowLabels {
			rec := make([]string, 0, len(g.Columns)+1)
			rec = append(rec, label)
			for _, v := range g.Values[r] {
				rec = append(rec, FormatNumber(v, precision))
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonGrid struct {
	Title   string   `json:"title"`
	Corner  string   `json:"corner,omitempty"`
	Columns []string `json:"columns"`
	Rows    []string `json:"rows"`
	// Values holds numbers, null for NaN and "inf"/"-inf" for infinities.
	Values [][]any `json:"values"`
}

type jsonResult struct {
	ID        string     `json:"id"`
	Kind      string     `json:"kind"`
	Variant   string     `json:"variant,omitempty"`
	Grids     []jsonGrid `json:"grids"`
	Evaluated int        `json:"evaluated,omitempty"`
	Possible  int        `json:"possible,omitempty"`
	Truncated bool       `json:"truncated,omitempty"`
}

func jsonValue(v float64) any {
	switch {
	case math.IsNaN(v):
		return nil
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return v
}

func toJSON(res *Result) jsonResult {
	out := jsonResult{ID: res.ID, Kind: res.Kind.String(), Variant: res.Variant}
	if s := res.Sweep; s != nil {
		out.Evaluated, out.Possible, out.Truncated = s.Evaluated, s.Possible, s.Truncated
	}
	for _, g := range res.Grids() {
		jg := jsonGrid{Title: g.Title, Corner: g.Corner, Columns: g.Columns, Rows: g.RowLabels}
		for _, row := range g.Values {
			vals := make([]any, len(row))
			for i, v := range row {
				vals[i] = jsonValue(v)
			}
			jg.Values = append(jg.Values, vals)
		}
		out.Grids = append(out.Grids, jg)
	}
	return out
}

// MarshalJSON encodes results as indented JSON.
func MarshalJSON(results ...*Result) ([]byte, error) {
	if len(results) == 1 {
		return utils.PrettyJSON(toJSON(results[0]))
	}
	all := make([]jsonResult, 0, len(results))
	for _, r := range results {
		all = append(all, toJSON(r))
	}
	return utils.PrettyJSON(all)
}

// WriteXLSX writes one worksheet per grid. Finite values are stored as
// numbers; NaN and infinities as their text form.
func WriteXLSX(path string, results []*Result) error {
	f := excelize.NewFile()
	defer f.Close()

	used := map[string]bool{}
	first := true
	for _, res := range results {
		for _, g := range res.Grids() {
			name := sheetName(res.Variant, g.Title, used)
			if first {
				if err := f.SetSheetName("Sheet1", name); err != nil {
					return fmt.Errorf("rename sheet: %w", err)
				}
				first = false
			} else if _, err := f.NewSheet(name); err != nil {
				return fmt.Errorf("new sheet %q: %w", name, err)
			}
			if err := writeGrid(f, name, g); err != nil {
				return err
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

func writeGrid(f *excelize.File, sheet string, g Grid) error {
	set := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, v)
	}
	if err := set(1, 1, g.Corner); err != nil {
		return err
	}
	for c, name := range g.Columns {
		if err := set(c+2, 1, name); err != nil {
			return err
		}
	}
	for r, label := range g.RowLabels {
		if err := set(1, r+2, label); err != nil {
			return err
		}
		for c, v := range g.Values[r] {
			var cell any = v
			if math.IsNaN(v) || math.IsInf(v, 0) {
				cell = FormatNumber(v, DefaultPrecision)
			}
			if err := set(c+2, r+2, cell); err != nil {
				return err
			}
		}
	}
	return nil
}

var sheetNameReplacer = strings.NewReplacer(
	":", "", "\\", "", "/", "", "?", "", "*", "", "[", "(", "]", ")", "'", "",
)

// sheetName builds a unique worksheet name within Excel's 31 character limit.
func sheetName(variant, title string, used map[string]bool) string {
	base := sheetNameReplacer.Replace(title)
	if variant != "" {
		base = sheetNameReplacer.Replace(variant) + " " + base
	}
	base = truncateRunes(strings.TrimSpace(base), 31)
	name := base
	for i := 2; used[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf(" %d", i)
		name = truncateRunes(base, 31-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
