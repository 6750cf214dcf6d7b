package util

import (
	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

func MinValue[T constraints.Ordered](val0 T, vals ...T) T {
	min := val0
	for _, v := range vals {
		if v < min {
			min = v
		}
	}
	return min
}

func MinDecimal(val0 decimal.Decimal, vals ...decimal.Decimal) decimal.Decimal {
	return decimal.Min(val0, vals...)
}

func MaxDecimal(val0 decimal.Decimal, vals ...decimal.Decimal) decimal.Decimal {
	return decimal.Max(val0, vals...)
}

func SumDecimals(vals ...decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, vals...)
}

// RoundGain rounds to whole pounds in the taxpayer's disfavour:
// losses round away from zero and gains round toward zero.
func RoundGain(gain decimal.Decimal) decimal.Decimal {
	if gain.IsNegative() {
		return gain.RoundUp(0)
	}
	return gain.RoundDown(0)
}

// Apportion returns total * part / whole, or zero if whole is zero.
func Apportion(total, part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return total.Mul(part.Div(whole))
}
