package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/KaramelBytes/datalens-cli/internal/utils"
	"github.com/xuri/excelize/v2"
)

// WriteDatasetCSV writes ds with a header row and full-precision values.
// NaN cells are left empty so the file loads back unchanged.
func WriteDatasetCSV(w io.Writer, ds *dataset.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Names()); err != nil {
		return err
	}
	rec := make([]string, ds.NumCols())
	for r := 0; r < ds.NumRows(); r++ {
		for c, v := range ds.Row(r) {
			rec[c] = rawNumber(v)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func rawNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// MarshalDatasetJSON encodes ds as an object of column arrays keyed by name
// (keys are written in sorted order). NaN becomes null; infinities are
// written as strings.
func MarshalDatasetJSON(ds *dataset.Dataset) ([]byte, error) {
	cols := make(map[string][]any, ds.NumCols())
	for i, name := range ds.Names() {
		col := ds.Column(i)
		vals := make([]any, len(col))
		for r, v := range col {
			vals[r] = jsonValue(v)
		}
		cols[name] = vals
	}
	return utils.PrettyJSON(cols)
}

// WriteDatasetXLSX writes ds to a single-sheet workbook.
func WriteDatasetXLSX(path, sheet string, ds *dataset.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()
	if sheet == "" {
		sheet = "data"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for c, name := range ds.Names() {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}
	for r := 0; r < ds.NumRows(); r++ {
		for c, v := range ds.Row(r) {
			if math.IsNaN(v) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			var val any = v
			if math.IsInf(v, 0) {
				val = rawNumber(v)
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

// DatasetGrid presents ds as a grid with 1-based row numbers.
func DatasetGrid(title string, ds *dataset.Dataset) Grid {
	g := Grid{Title: title, Corner: "Row", Columns: ds.Names()}
	for r := 0; r < ds.NumRows(); r++ {
		g.RowLabels = append(g.RowLabels, strconv.Itoa(r+1))
		g.Values = append(g.Values, ds.Row(r))
	}
	return g
}
