package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/infrastructure/export"
)

// PricingHandler serves the admin pricing console
type PricingHandler struct {
	BaseHandler
	pricingService *catalogapp.PricingService
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(pricingService *catalogapp.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService}
}

// SetGlobalMarkupRequest sets the store-wide markup percentage
type SetGlobalMarkupRequest struct {
	Markup *decimal.Decimal `json:"markup" binding:"required"`
}

// PriceOverrideRequest sets or clears a product's fixed price. Null clears it.
type PriceOverrideRequest struct {
	Price *decimal.Decimal `json:"price"`
}

// MarkupOverrideRequest sets or clears a product's markup percentage. Null clears it.
type MarkupOverrideRequest struct {
	Markup *decimal.Decimal `json:"markup"`
}

// GetTable returns the global markup and every product's pricing row
func (h *PricingHandler) GetTable(c *gin.Context) {
	table, err := h.pricingService.GetPricingTable(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, table)
}

// SetGlobalMarkup changes the global markup and reprices non-overridden products
func (h *PricingHandler) SetGlobalMarkup(c *gin.Context) {
	var req SetGlobalMarkupRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.pricingService.SetGlobalMarkup(c.Request.Context(), *req.Markup)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SetPriceOverride sets or clears a product's fixed sell price
func (h *PricingHandler) SetPriceOverride(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req PriceOverrideRequest
	if !h.BindJSON(c, &req) {
		return
	}
	row, err := h.pricingService.SetProductPriceOverride(c.Request.Context(), id, req.Price)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, row)
}

// SetMarkupOverride sets or clears a product's markup percentage
func (h *PricingHandler) SetMarkupOverride(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req MarkupOverrideRequest
	if !h.BindJSON(c, &req) {
		return
	}
	row, err := h.pricingService.SetProductMarkupOverride(c.Request.Context(), id, req.Markup)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, row)
}

// Recalculate recomputes every priced product's sell price
func (h *PricingHandler) Recalculate(c *gin.Context) {
	result, err := h.pricingService.RecalcAllPrices(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Export downloads the pricing table as an XLSX workbook
func (h *PricingHandler) Export(c *gin.Context) {
	table, err := h.pricingService.GetPricingTable(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WritePricingXLSX(&buf, table); err != nil {
		h.HandleError(c, err)
		return
	}
	filename := fmt.Sprintf("pricing-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, export.ContentTypeXLSX, buf.Bytes())
}
