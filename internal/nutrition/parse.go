package nutrition

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// OunceToMilliliter is the fixed conversion factor applied when a site
// reports serving size in ounces. Downstream consumers only ever see
// metric units.
const OunceToMilliliter = 29.5735

// ParseValue parses a nutrition cell into a float. Empty strings,
// whitespace and the placeholder dash common in Korean nutrition tables
// all parse to "absent", never to zero. NaN and Inf are discarded too.
func ParseValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, false
	}
	// Tables frequently carry thousands separators ("1,200mg")
	s = strings.ReplaceAll(s, ",", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Fall back to the leading numeric run so "354ml" still parses
		m := leadingNumberPattern.FindString(s)
		if m == "" {
			return 0, false
		}
		v, err = strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, false
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

var (
	leadingNumberPattern = regexp.MustCompile(`^[0-9]+(?:\.[0-9]+)?`)
	parenUnitPattern     = regexp.MustCompile(`\(([^)]+)\)`)
)

// UnitFromLabel pulls a unit out of a column or row label, e.g.
// "나트륨(mg)" yields "mg". Returns "" when the label carries none.
func UnitFromLabel(label string) string {
	m := parenUnitPattern.FindStringSubmatch(label)
	if m == nil {
		return ""
	}
	unit := strings.TrimSpace(m[1])
	// Some sites write "(mg/쇼트 기준)" style labels
	if i := strings.IndexAny(unit, "/,"); i >= 0 {
		unit = strings.TrimSpace(unit[:i])
	}
	return unit
}

// NormalizeServing converts a serving size to metric. Ounces become
// milliliters; ml/mL/g pass through with a canonical lowercase unit.
func NormalizeServing(value float64, unit string) (float64, string) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "oz", "floz", "fl oz":
		return value * OunceToMilliliter, "ml"
	case "ml":
		return value, "ml"
	case "g":
		return value, "g"
	case "":
		return value, ""
	default:
		return value, strings.ToLower(strings.TrimSpace(unit))
	}
}
