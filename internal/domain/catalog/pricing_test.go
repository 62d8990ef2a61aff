package catalog

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func TestResolveSellPrice(t *testing.T) {
	tests := []struct {
		name           string
		base           string
		priceOverride  *decimal.Decimal
		markupOverride *decimal.Decimal
		global         string
		want           string
		priced         bool
	}{
		{"global markup", "100", nil, nil, "25", "125", true},
		{"price override wins", "100", decPtr("149"), decPtr("80"), "25", "149", true},
		{"price override kept verbatim", "100", decPtr("149.99"), nil, "25", "149.99", true},
		{"zero price override falls through", "100", decPtr("0"), nil, "25", "125", true},
		{"markup override", "100", nil, decPtr("50"), "25", "150", true},
		{"zero markup override is honoured", "100", nil, decPtr("0"), "25", "100", true},
		{"negative markup override falls through", "100", nil, decPtr("-10"), "25", "125", true},
		{"rounds half up", "1", nil, nil, "50", "2", true},
		{"rounds down below half", "333", nil, nil, "10", "366", true},
		{"rounds fractional base", "99.99", nil, nil, "25", "125", true},
		{"zero global markup", "240", nil, nil, "0", "240", true},
		{"max markup", "10", nil, nil, "500", "60", true},
		{"zero base is unpriced", "0", nil, nil, "25", "0", false},
		{"negative base is unpriced", "-5", nil, decPtr("10"), "25", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, priced := ResolveSellPrice(dec(tt.base), tt.priceOverride, tt.markupOverride, dec(tt.global))
			assert.Equal(t, tt.priced, priced)
			assert.True(t, dec(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestResolveSellPrice_PositiveOverrideAlwaysWins(t *testing.T) {
	override := decPtr("321")
	for _, base := range []string{"1", "50", "999.5", "12000"} {
		for _, markup := range []*decimal.Decimal{nil, decPtr("0"), decPtr("75"), decPtr("500")} {
			for _, global := range []string{"0", "25", "500"} {
				got, priced := ResolveSellPrice(dec(base), override, markup, dec(global))
				assert.True(t, priced)
				assert.True(t, got.Equal(*override))
			}
		}
	}
}

func TestResolveSellPrice_GlobalMarkupFormula(t *testing.T) {
	for _, base := range []int64{1, 7, 99, 100, 1234, 50000} {
		for _, m := range []int64{0, 1, 25, 33, 100, 499, 500} {
			want := decimal.NewFromInt(base).Mul(decimal.NewFromInt(100 + m)).Div(decimal.NewFromInt(100)).Round(0)
			got, priced := ResolveSellPrice(decimal.NewFromInt(base), nil, nil, decimal.NewFromInt(m))
			assert.True(t, priced)
			assert.True(t, want.Equal(got), "base=%d markup=%d", base, m)
		}
	}
}

func TestValidateMarkup(t *testing.T) {
	assert.NoError(t, ValidateMarkup(dec("0")))
	assert.NoError(t, ValidateMarkup(dec("500")))
	assert.NoError(t, ValidateMarkup(dec("37.5")))

	for _, v := range []string{"-5", "-0.01", "500.01", "501"} {
		err := ValidateMarkup(dec(v))
		assert.True(t, errors.Is(err, ErrInvalidMarkup), "value %s", v)
	}
}

func TestValidatePriceOverride(t *testing.T) {
	assert.NoError(t, ValidatePriceOverride(nil))
	assert.NoError(t, ValidatePriceOverride(decPtr("0")))
	assert.NoError(t, ValidatePriceOverride(decPtr("149")))
	assert.ErrorIs(t, ValidatePriceOverride(decPtr("-1")), ErrInvalidPriceOverride)
}
