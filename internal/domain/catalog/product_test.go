package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates priced product with slug", func(t *testing.T) {
		p, err := NewProduct("  Whey Protein 2kg ", "Protein", dec("100"), DefaultGlobalMarkup)
		require.NoError(t, err)

		assert.Equal(t, "Whey Protein 2kg", p.Name)
		assert.Equal(t, "whey-protein-2kg", p.Slug)
		assert.Equal(t, "Protein", p.Category)
		assert.True(t, dec("125").Equal(p.SellPrice))
		assert.False(t, p.HasOverride())
		assert.False(t, p.HasSupplierMapping())
		assert.NotEmpty(t, p.ID)
	})

	t.Run("unpriced product keeps zero sell price", func(t *testing.T) {
		p, err := NewProduct("Sample", "", decimal.Zero, DefaultGlobalMarkup)
		require.NoError(t, err)
		assert.False(t, p.IsPriced())
		assert.True(t, p.SellPrice.IsZero())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct("   ", "x", dec("10"), DefaultGlobalMarkup)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("rejects negative base price", func(t *testing.T) {
		_, err := NewProduct("Creatine", "x", dec("-1"), DefaultGlobalMarkup)
		require.Error(t, err)
	})
}

func TestProduct_OverrideLifecycle(t *testing.T) {
	global := dec("25")
	p, err := NewProduct("Creatine", "Supplements", dec("100"), global)
	require.NoError(t, err)
	require.True(t, dec("125").Equal(p.SellPrice))

	require.NoError(t, p.SetPriceOverride(decPtr("149"), global))
	assert.True(t, dec("149").Equal(p.SellPrice))

	require.NoError(t, p.SetPriceOverride(nil, global))
	assert.True(t, dec("125").Equal(p.SellPrice))

	require.NoError(t, p.SetMarkupOverride(decPtr("40"), global))
	assert.True(t, dec("140").Equal(p.SellPrice))

	require.NoError(t, p.SetMarkupOverride(nil, global))
	assert.True(t, dec("125").Equal(p.SellPrice))
}

func TestProduct_ZeroPriceOverrideIsCleared(t *testing.T) {
	global := dec("25")
	p, err := NewProduct("Creatine", "Supplements", dec("100"), global)
	require.NoError(t, err)

	require.NoError(t, p.SetPriceOverride(decPtr("0"), global))
	assert.Nil(t, p.PriceOverride)
	assert.False(t, p.HasOverride())
	assert.True(t, dec("125").Equal(p.SellPrice))
}

func TestProduct_OverrideValidation(t *testing.T) {
	global := dec("25")
	p, err := NewProduct("Creatine", "Supplements", dec("100"), global)
	require.NoError(t, err)

	assert.ErrorIs(t, p.SetPriceOverride(decPtr("-10"), global), ErrInvalidPriceOverride)
	assert.Nil(t, p.PriceOverride)

	assert.ErrorIs(t, p.SetMarkupOverride(decPtr("501"), global), ErrInvalidMarkup)
	assert.Nil(t, p.MarkupOverride)
	assert.True(t, dec("125").Equal(p.SellPrice))
}

func TestProduct_Reprice(t *testing.T) {
	p, err := NewProduct("BCAA", "Supplements", dec("200"), dec("25"))
	require.NoError(t, err)

	assert.True(t, p.Reprice(dec("50")))
	assert.True(t, dec("300").Equal(p.SellPrice))
	assert.False(t, p.Reprice(dec("50")), "second reprice with same inputs is a no-op")
}

func TestProduct_MapToSupplier(t *testing.T) {
	p, err := NewProduct("BCAA", "Supplements", dec("200"), dec("25"))
	require.NoError(t, err)

	p.MapToSupplier(" 4411 ")
	require.True(t, p.HasSupplierMapping())
	assert.Equal(t, "4411", *p.SupplierProductID)

	p.MapToSupplier("")
	assert.False(t, p.HasSupplierMapping())
}

func TestProduct_ClearingOverrideOnUnpricedProduct(t *testing.T) {
	p, err := NewProduct("Gift Card", "Other", decimal.Zero, dec("25"))
	require.NoError(t, err)

	require.NoError(t, p.SetPriceOverride(decPtr("500"), dec("25")))
	assert.True(t, dec("500").Equal(p.SellPrice))

	require.NoError(t, p.SetPriceOverride(nil, dec("25")))
	assert.True(t, p.SellPrice.IsZero())
}
