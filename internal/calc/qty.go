package calc

import (
	"strconv"
	"strings"
)

// QtyExpression is a parsed product expression like "5x3x2": the numeric
// product plus a normalized display form ("5×3×2").
type QtyExpression struct {
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

// ParseQtyExpression parses a quantity entered as factors separated by
// 'x', 'X' or '*'. Every factor must be a positive number; one bad factor
// invalidates the whole expression and the caller falls back to the plain
// quantity field.
func ParseQtyExpression(expr string) (QtyExpression, bool) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return QtyExpression{}, false
	}

	parts := strings.FieldsFunc(expr, func(r rune) bool {
		return r == 'x' || r == 'X' || r == '*'
	})

	// FieldsFunc drops empty fields, so "5xx2" would collapse to two
	// factors. Count separators to catch missing factors.
	seps := strings.Count(expr, "x") + strings.Count(expr, "X") + strings.Count(expr, "*")
	if len(parts) != seps+1 {
		return QtyExpression{}, false
	}

	product := 1.0
	display := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		n, err := strconv.ParseFloat(p, 64)
		if err != nil || n <= 0 {
			return QtyExpression{}, false
		}
		product *= n
		display = append(display, p)
	}

	return QtyExpression{Value: product, Display: strings.Join(display, "×")}, true
}
