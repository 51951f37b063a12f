package zakat

import "github.com/shopspring/decimal"

// DecimalPlaces is the default precision for monetary values: everything
// stored in the vault is an integer number of minor units (cents).
const DecimalPlaces = 2

// Scale converts a decimal user amount into integer minor units at the
// default precision. Scale(1.23) == 123.
func Scale(x float64) int64 { return ScaleN(x, DecimalPlaces) }

// ScaleN converts a decimal amount into integer minor units with the given
// number of decimal places. The value is rounded half away from zero to
// that precision first, matching user-entered decimal input.
func ScaleN(x float64, places int32) int64 {
	return decimal.NewFromFloat(x).Round(places).Shift(places).IntPart()
}

// Unscale converts integer minor units back into a decimal amount at the
// default precision. Unscale(Scale(x)) == x for every amount representable
// at that precision.
func Unscale(n int64) float64 { return UnscaleN(n, DecimalPlaces) }

// UnscaleN converts integer minor units back into a decimal amount with the
// given number of decimal places.
func UnscaleN(n int64, places int32) float64 {
	f, _ := decimal.New(n, -places).Float64()
	return f
}
