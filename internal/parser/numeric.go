package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var thousandsGrouped = regexp.MustCompile(`^[-+]?\d{1,3}(,\d{3})+$`)

// parseNumeric reads a locale-formatted number. Percent signs are dropped.
// Without an explicit decimal separator, the last of ',' and '.' is taken as
// decimal, except that "1,234" style grouping is read as thousands.
func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, "%", "")
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && opt.DecimalSeparator == 0 && opt.ThousandsSeparator == 0 && !strings.Contains(raw, ",") {
		return f, true
	}
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0 && cpos > dpos:
			dec, thou = ',', '.'
		case cpos >= 0 && dpos >= 0:
			dec, thou = '.', ','
		case thousandsGrouped.MatchString(raw):
			dec = '.'
		case cpos >= 0 && strings.Count(raw, ",") == 1:
			dec = ','
		default:
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
