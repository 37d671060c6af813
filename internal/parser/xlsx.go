package parser

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/xuri/excelize/v2"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Load reads the sheet chosen by opt: by name, else by 1-based index.
func (xlsxLoader) Load(path string, opt Options) (*dataset.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), opt)
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, dataset.Invalid("dataset", "sheet %q is empty", sheet)
	}
	t := newTable(rows[0])
	n := 0
	for _, r := range rows[1:] {
		if blank(r) {
			continue
		}
		t.add(r)
		n++
		if opt.MaxRows > 0 && n >= opt.MaxRows {
			break
		}
	}
	ds, err := t.numeric(opt)
	if err != nil {
		return nil, fmt.Errorf("%s (sheet: %s): %w", path, sheet, err)
	}
	return ds, nil
}

func pickSheet(sheets []string, opt Options) (string, error) {
	if len(sheets) == 0 {
		return "", dataset.Invalid("workbook", "no sheets")
	}
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				return s, nil
			}
		}
		return "", &dataset.UnknownNameError{Kind: "sheet", Name: opt.SheetName, Known: sheets}
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	if idx > len(sheets) {
		return "", dataset.Invalid("sheet index", "%d out of range (workbook has %d sheets)", idx, len(sheets))
	}
	return sheets[idx-1], nil
}
