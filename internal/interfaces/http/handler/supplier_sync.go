package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	integrationapp "github.com/storefront/backend/internal/application/integration"
)

// SupplierSyncHandler pushes paid orders into the supplier's cart and lets
// operators override the sync status by hand
type SupplierSyncHandler struct {
	BaseHandler
	syncService *integrationapp.SupplierSyncService
}

// NewSupplierSyncHandler creates a new SupplierSyncHandler
func NewSupplierSyncHandler(syncService *integrationapp.SupplierSyncService) *SupplierSyncHandler {
	return &SupplierSyncHandler{syncService: syncService}
}

// ListPending returns orders whose sync is pending or failed
func (h *SupplierSyncHandler) ListPending(c *gin.Context) {
	orders, err := h.syncService.ListPendingSync(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// Sync submits every line of the order to the supplier. Per-item failures
// are reported in the body with a 200.
func (h *SupplierSyncHandler) Sync(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	result, err := h.syncService.SyncToSupplier(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// MarkSynced records an order as synced without calling the supplier
func (h *SupplierSyncHandler) MarkSynced(c *gin.Context) {
	h.setStatus(c, h.syncService.MarkSynced)
}

// MarkFailed records an order as failed without calling the supplier
func (h *SupplierSyncHandler) MarkFailed(c *gin.Context) {
	h.setStatus(c, h.syncService.MarkFailed)
}

// Reset puts an order back to pending
func (h *SupplierSyncHandler) Reset(c *gin.Context) {
	h.setStatus(c, h.syncService.Reset)
}

func (h *SupplierSyncHandler) setStatus(
	c *gin.Context,
	fn func(context.Context, uuid.UUID) (*integrationapp.SyncStatusResponse, error),
) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	result, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
