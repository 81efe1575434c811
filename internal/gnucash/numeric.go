package gnucash

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TimeLayout is the timestamp format GnuCash stores in post_date and
// enter_date columns (UTC, no zone suffix).
const TimeLayout = "2006-01-02 15:04:05"

// FormatTime renders t in the book timestamp format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a book timestamp.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

// NumericToDecimal converts a GnuCash num/denom fraction to an exact decimal.
// A zero denominator denotes a malformed row and yields zero.
func NumericToDecimal(num, denom int64) decimal.Decimal {
	if denom == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(num).Div(decimal.NewFromInt(denom))
}

// DecimalToNumeric converts d to a num/denom fraction with the given
// denominator (the commodity's fraction, 100 for USD). Fails when d cannot be
// represented exactly at that denominator.
func DecimalToNumeric(d decimal.Decimal, denom int64) (int64, error) {
	if denom <= 0 {
		return 0, fmt.Errorf("invalid denominator %d", denom)
	}
	scaled := d.Mul(decimal.NewFromInt(denom))
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("amount %s is not representable in 1/%d units", d, denom)
	}
	return scaled.IntPart(), nil
}

// Value returns the split's signed value as an exact decimal.
func (s *Split) Value() decimal.Decimal {
	return NumericToDecimal(s.ValueNum, s.ValueDenom)
}
