package series

import (
	"math"
	"strconv"
	"strings"
)

// parseNumber parses a provider decimal string. Thousands separators are
// tolerated; anything else that does not parse yields NaN, which then
// propagates through aggregates.
func parseNumber(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// roundHalfUp rounds to the given number of decimals, ties toward +Inf.
func roundHalfUp(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	r := math.Floor(v*p+0.5) / p
	if r == 0 {
		// avoid "-0"
		return 0
	}
	return r
}

func formatFixed(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
