package trade

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcShipping(t *testing.T) {
	tests := []struct {
		method   ShippingMethod
		subtotal int64
		want     int64
	}{
		{ShippingCourierDoor, 1000, 180},
		{ShippingCourierKiosk, 1000, 180},
		{ShippingPostNet, 1000, 140},
		{ShippingFastway, 1000, 130},
		{ShippingFastway, 4999, 130},
		{ShippingFastway, 5000, 0},
		{ShippingCourierDoor, 9000, 0},
	}
	for _, tt := range tests {
		got, err := CalcShipping(decimal.NewFromInt(tt.subtotal), tt.method)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(tt.want).Equal(got), "%s at %d", tt.method, tt.subtotal)
	}

	_, err := CalcShipping(decimal.NewFromInt(100), "teleport")
	assert.ErrorIs(t, err, ErrInvalidShippingMethod)
}

func TestShippingOptions_ReturnsCopy(t *testing.T) {
	opts := ShippingOptions()
	require.Len(t, opts, 4)
	opts[0].Cost = decimal.Zero

	again := ShippingOptions()
	assert.True(t, decimal.NewFromInt(180).Equal(again[0].Cost))
}
