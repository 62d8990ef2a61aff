package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/setting"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	products := new(MockProductRepository)
	settings := new(MockSettingRepository)
	svc := NewProductService(products, settings, nil)

	settings.On("Get", ctx, setting.KeyGlobalMarkup).Return(markupSetting("20"), nil)
	products.On("ExistsBySlug", ctx, "whey-isolate").Return(true, nil)
	products.On("ExistsBySlug", ctx, "whey-isolate-2").Return(false, nil)
	products.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	row, err := svc.Create(ctx, CreateProductRequest{
		Name:              "Whey Isolate",
		Category:          "Protein",
		BasePrice:         dec("500"),
		SupplierProductID: "8812",
	})
	require.NoError(t, err)
	assert.True(t, dec("600").Equal(row.SellPrice))
	require.NotNil(t, row.SupplierProductID)
	assert.Equal(t, "8812", *row.SupplierProductID)

	saved := products.Calls[len(products.Calls)-1].Arguments.Get(1).(*catalog.Product)
	assert.Equal(t, "whey-isolate-2", saved.Slug)
}

func TestProductService_SetSoldOut(t *testing.T) {
	ctx := context.Background()
	products := new(MockProductRepository)
	svc := NewProductService(products, new(MockSettingRepository), nil)
	p := newProduct(t, "Whey", "100")

	products.On("FindByID", ctx, p.ID).Return(p, nil)
	products.On("SaveDetails", ctx, p).Return(nil)

	row, err := svc.SetSoldOut(ctx, p.ID, true)
	require.NoError(t, err)
	assert.True(t, row.SoldOut)
	products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_SetSupplierProductID(t *testing.T) {
	ctx := context.Background()
	products := new(MockProductRepository)
	svc := NewProductService(products, new(MockSettingRepository), nil)
	p := newProduct(t, "Whey", "100")

	products.On("FindByID", ctx, p.ID).Return(p, nil)
	products.On("SaveDetails", ctx, p).Return(nil)

	row, err := svc.SetSupplierProductID(ctx, p.ID, "77")
	require.NoError(t, err)
	require.NotNil(t, row.SupplierProductID)
	assert.Equal(t, "77", *row.SupplierProductID)

	row, err = svc.SetSupplierProductID(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Nil(t, row.SupplierProductID)
}

func TestProductService_GetBySlugNotFound(t *testing.T) {
	ctx := context.Background()
	products := new(MockProductRepository)
	svc := NewProductService(products, new(MockSettingRepository), nil)

	products.On("FindBySlug", ctx, "nope").Return(nil, shared.ErrNotFound)
	_, err := svc.GetBySlug(ctx, "nope")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	products.On("FindByID", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
	_, err = svc.SetSoldOut(ctx, uuid.New(), false)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
