package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// RoundMoney rounds an amount to two decimal places, half away from zero.
// Amounts are carried unrounded through arithmetic and rounded only at
// presentation and persistence boundaries.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatMoney renders an amount with its ISO 4217 currency symbol, e.g.
// "CAD 29.33". Unknown currency codes fall back to the bare amount.
func FormatMoney(d decimal.Decimal, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return RoundMoney(d).StringFixed(2)
	}
	return fmt.Sprintf("%v %s", unit, RoundMoney(d).StringFixed(2))
}
