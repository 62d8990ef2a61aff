package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// OrderHandler serves checkout, the member's order history and admin order management
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// ListOrdersQuery filters the admin order list
type ListOrdersQuery struct {
	Status     string `form:"status"`
	SyncStatus string `form:"sync_status"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// ShippingOptions lists the shipping methods and their rates
func (h *OrderHandler) ShippingOptions(c *gin.Context) {
	h.Success(c, h.orderService.ShippingOptions())
}

// Checkout places an order for the cart. Guests may check out; a
// signed-in member's order is linked to their account.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req tradeapp.CheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}
	var userID *uuid.UUID
	if id, ok := middleware.GetUserID(c); ok {
		userID = &id
	}
	result, err := h.orderService.Checkout(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// MyOrders lists the signed-in member's orders
func (h *OrderHandler) MyOrders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	orders, err := h.orderService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// List returns orders for the admin console, newest first
func (h *OrderHandler) List(c *gin.Context) {
	var q ListOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	filter := trade.OrderFilter{Filter: pageFilter(q.Page, q.PageSize)}
	if q.Status != "" {
		status, err := trade.ParseOrderStatus(q.Status)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		filter.Status = status
	}
	if q.SyncStatus != "" {
		sync := trade.SupplierSyncStatus(q.SyncStatus)
		if !sync.IsValid() {
			h.HandleError(c, trade.ErrInvalidSyncStatus)
			return
		}
		filter.SyncStatuses = []trade.SupplierSyncStatus{sync}
	}

	orders, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, filter.Page, filter.PageSize, len(orders))
}

// Get returns one order with its lines
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdateStatus moves an order to another business status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdateDetails replaces the customer, address and shipping method
func (h *OrderHandler) UpdateDetails(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdateDetailsRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orderService.UpdateDetails(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdateItems corrects line quantities and prices and recomputes totals
func (h *OrderHandler) UpdateItems(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdateItemsRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orderService.UpdateItems(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
