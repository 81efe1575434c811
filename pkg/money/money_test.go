package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "12.50", want: "$12.50"},
		{name: "thousands separator", in: "1234.5", want: "$1,234.50"},
		{name: "millions", in: "1234567.89", want: "$1,234,567.89"},
		{name: "zero", in: "0", want: "$0.00"},
		{name: "whole dollars", in: "42", want: "$42.00"},
		{name: "negative", in: "-1234.56", want: "-$1,234.56"},
		{name: "rounds half up", in: "4.205", want: "$4.21"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.in)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, FormatUSD(d))
		})
	}
}

func TestFormatUSDAbs(t *testing.T) {
	d := decimal.RequireFromString("-12.50")
	assert.Equal(t, "$12.50", FormatUSDAbs(d))
}
