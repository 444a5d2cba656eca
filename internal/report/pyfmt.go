package report

import (
	"strconv"
	"strings"
)

// FormatFloat renders a float the way the historical files carry them:
// shortest round-trip decimal form, with integral values keeping a
// trailing ".0". The files never use exponent notation, so values are
// always rendered in plain decimal.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
