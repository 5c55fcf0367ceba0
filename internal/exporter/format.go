package exporter

import (
	"math"
	"strconv"
	"strings"
)

// Non-finite tokens in text output
const (
	nanToken    = "nan"
	posInfToken = "inf"
	negInfToken = "-inf"
)

// Decimal exponents outside [minFixedExp, maxFixedExp) switch to
// scientific notation.
const (
	minFixedExp = -4
	maxFixedExp = 16
)

// FormatFloat formats a value for report output as the shortest decimal that
// reads back to the same float64. Whole numbers keep a ".0" suffix (10.0),
// very small or large magnitudes use an exponent (1e-05, 1.5e+16), and
// missing values are written as "nan".
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return nanToken
	case math.IsInf(f, 1):
		return posInfToken
	case math.IsInf(f, -1):
		return negInfToken
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err == nil && f != 0 && (exp < minFixedExp || exp >= maxFixedExp) {
		return sci
	}

	fixed := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(fixed, ".") {
		fixed += ".0"
	}
	return fixed
}

// formatRow renders a table row as CSV cells
func formatRow(row TableRow) []string {
	cells := make([]string, 0, 1+len(row.Values))
	cells = append(cells, row.Label)
	for _, v := range row.Values {
		cells = append(cells, FormatFloat(v))
	}
	return cells
}
