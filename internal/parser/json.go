package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

type jsonLoader struct{}

func (jsonLoader) CanLoad(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".json")
}

func (jsonLoader) Load(path string, opt Options) (*dataset.Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	ds, err := ReadJSON(b, opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// ReadJSON accepts an array of records ([{"a":1,"b":2},...]) or an object of
// column arrays ({"a":[1,...],"b":[2,...]}). Record keys keep first-seen order;
// column objects are ordered by key.
func ReadJSON(b []byte, opt Options) (*dataset.Dataset, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, dataset.Invalid("dataset", "empty document")
	}
	switch b[0] {
	case '[':
		return readRecords(b, opt)
	case '{':
		return readColumns(b, opt)
	}
	return nil, dataset.Invalid("json", "expected an array of records or an object of columns")
}

func readRecords(b []byte, opt Options) (*dataset.Dataset, error) {
	var recs []map[string]json.RawMessage
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	var order []string
	pos := map[string]int{}
	for _, raw := range splitRecords(b) {
		for _, k := range objectKeys(raw) {
			if _, ok := pos[k]; !ok {
				pos[k] = len(order)
				order = append(order, k)
			}
		}
	}
	if len(order) == 0 {
		return nil, dataset.Invalid("dataset", "no columns")
	}
	t := newTable(order)
	for i, rec := range recs {
		if opt.MaxRows > 0 && i >= opt.MaxRows {
			break
		}
		row := make([]string, len(order))
		for k, v := range rec {
			row[pos[k]] = cell(v)
		}
		t.add(row)
	}
	return t.numeric(opt)
}

func readColumns(b []byte, opt Options) (*dataset.Dataset, error) {
	var cols map[string][]json.RawMessage
	if err := json.Unmarshal(b, &cols); err != nil {
		return nil, fmt.Errorf("decode columns: %w", err)
	}
	names := sortedKeys(cols)
	if len(names) == 0 {
		return nil, dataset.Invalid("dataset", "no columns")
	}
	rows := 0
	for _, n := range names {
		rows = max(rows, len(cols[n]))
	}
	if opt.MaxRows > 0 {
		rows = min(rows, opt.MaxRows)
	}
	t := newTable(names)
	for r := 0; r < rows; r++ {
		row := make([]string, len(names))
		for c, n := range names {
			if r < len(cols[n]) {
				row[c] = cell(cols[n][r])
			}
		}
		t.add(row)
	}
	return t.numeric(opt)
}

// cell renders a JSON scalar the way it would appear in a CSV cell.
func cell(v json.RawMessage) string {
	s := strings.TrimSpace(string(v))
	switch {
	case s == "null":
		return ""
	case strings.HasPrefix(s, `"`):
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
	}
	return s
}

// splitRecords returns each raw object of a JSON array in order.
func splitRecords(b []byte) []json.RawMessage {
	var raws []json.RawMessage
	_ = json.Unmarshal(b, &raws)
	return raws
}

// objectKeys lists the keys of a JSON object in document order.
func objectKeys(raw json.RawMessage) []string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		k, ok := tok.(string)
		if !ok {
			return keys
		}
		keys = append(keys, k)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
	}
	return keys
}
