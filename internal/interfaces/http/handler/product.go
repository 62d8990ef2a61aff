package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/catalog"
)

// ProductHandler serves the public catalog and admin product maintenance
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListProductsQuery filters the public catalog
type ListProductsQuery struct {
	Category string `form:"category" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// SoldOutRequest flags a product as sold out or back in stock
type SoldOutRequest struct {
	SoldOut *bool `json:"sold_out" binding:"required"`
}

// SupplierMappingRequest maps a product to the supplier's product id.
// An empty id clears the mapping.
type SupplierMappingRequest struct {
	SupplierProductID string `json:"supplier_product_id" binding:"max=100"`
}

// List returns catalog products, sold out ones included
func (h *ProductHandler) List(c *gin.Context) {
	var q ListProductsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	filter := catalog.ProductFilter{
		Filter:   pageFilter(q.Page, q.PageSize),
		Category: q.Category,
	}

	products, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, filter.Page, filter.PageSize, len(products))
}

// GetBySlug returns one product by its URL slug
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	product, err := h.productService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create adds a product and resolves its sell price
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	row, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, row)
}

// SetSoldOut toggles a product's sold out flag
func (h *ProductHandler) SetSoldOut(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req SoldOutRequest
	if !h.BindJSON(c, &req) {
		return
	}
	row, err := h.productService.SetSoldOut(c.Request.Context(), id, *req.SoldOut)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, row)
}

// SetSupplierProductID sets the id used when syncing orders to the supplier
func (h *ProductHandler) SetSupplierProductID(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req SupplierMappingRequest
	if !h.BindJSON(c, &req) {
		return
	}
	row, err := h.productService.SetSupplierProductID(c.Request.Context(), id, req.SupplierProductID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, row)
}
