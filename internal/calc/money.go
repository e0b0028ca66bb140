// Package calc holds the bookkeeping arithmetic used when saving and
// displaying documents: rounding, GST splitting, discounts and quantity
// expressions. Every function is total — bad numeric input is treated as
// zero so a half-filled form never breaks a live calculation. Validation
// happens at the save boundary, not here.
package calc

import "math"

// Num coerces NaN and infinities to 0 so downstream sums stay finite.
func Num(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// roundEpsilon absorbs binary representation error before flooring:
// 1.005*100 is 100.49999999999999 in float64, which would otherwise
// round down.
const roundEpsilon = 1e-9

// Round2 rounds to 2 decimal places, half-up. Applied wherever money is
// summed or displayed so float drift doesn't compound across many lines.
func Round2(x float64) float64 {
	x = Num(x)
	if x < 0 {
		return -math.Floor(-x*100+0.5+roundEpsilon) / 100
	}
	return math.Floor(x*100+0.5+roundEpsilon) / 100
}

// DiscountType selects how a line discount value is interpreted.
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountAmount  DiscountType = "amount"
)

// ApplyLineDiscount computes the net amount for a line after discount.
// The discount is clamped to [0, rawAmount] — it can never push a line
// negative or exceed the line itself. Returns (net, applied discount).
func ApplyLineDiscount(rawAmount float64, kind DiscountType, value float64) (float64, float64) {
	rawAmount = Num(rawAmount)
	value = Num(value)
	if rawAmount < 0 {
		rawAmount = 0
	}

	var discount float64
	switch kind {
	case DiscountPercent:
		discount = rawAmount * value / 100
	case DiscountAmount:
		discount = value
	}

	if discount < 0 {
		discount = 0
	}
	if discount > rawAmount {
		discount = rawAmount
	}

	return Round2(rawAmount - discount), Round2(discount)
}
