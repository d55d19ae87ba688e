package allocation

import "github.com/shopspring/decimal"

// DefaultTolerance is the largest accepted difference between allocated and
// required quantities. It is applied to the raw numbers whatever the unit.
var DefaultTolerance = decimal.RequireFromString("0.0005")

// WithinTolerance reports whether |a-b| <= tol
func WithinTolerance(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}

func normalizeTolerance(tol decimal.Decimal) decimal.Decimal {
	if tol.IsNegative() {
		return DefaultTolerance
	}
	return tol
}
