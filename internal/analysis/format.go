package analysis

import (
	"math"
	"strconv"
	"strings"
)

// DefaultPrecision is the number of decimals shown for result values.
const DefaultPrecision = 4

// FormatNumber renders v with precision decimals, switching to scientific
// notation when 0 < |v| < 1e-4 or |v| > 1e4. NaN and infinities print as
// "nan", "inf" and "-inf".
func FormatNumber(v float64, precision int) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if precision < 0 {
		precision = DefaultPrecision
	}
	if a := math.Abs(v); a != 0 && (a < 1e-4 || a > 1e4) {
		return strconv.FormatFloat(v, 'e', precision, 64)
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

// mdTable renders a Markdown table.
func mdTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| ")
	for i, h := range header {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeVal(h))
	}
	b.WriteString(" |\n|")
	for range header {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString("| ")
		for i := range header {
			if i > 0 {
				b.WriteString(" | ")
			}
			if i < len(row) {
				b.WriteString(safeVal(row[i]))
			}
		}
		b.WriteString(" |\n")
	}
}
