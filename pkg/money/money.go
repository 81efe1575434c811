// Package money formats exact decimal amounts for display.
package money

import (
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatUSD renders d as a US dollar amount with thousands separators and two
// fractional digits, e.g. 1234.5 -> "$1,234.50". Negative amounts render as
// "-$1,234.50". Amounts with more than two fractional digits are rounded
// half-up first.
func FormatUSD(d decimal.Decimal) string {
	cents := d.Round(2).Shift(2).IntPart()
	return gomoney.New(cents, gomoney.USD).Display()
}

// FormatUSDAbs renders the absolute value of d, for listings where the sign
// is implied by the debit/credit columns.
func FormatUSDAbs(d decimal.Decimal) string {
	return FormatUSD(d.Abs())
}
