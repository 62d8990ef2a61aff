package handler

import (
	"github.com/gin-gonic/gin"

	settingapp "github.com/storefront/backend/internal/application/setting"
)

// SettingsHandler reads and writes operator settings
type SettingsHandler struct {
	BaseHandler
	settingsService *settingapp.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *settingapp.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get returns every setting with secrets masked
func (h *SettingsHandler) Get(c *gin.Context) {
	values, err := h.settingsService.GetAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, values)
}

// Update writes the given keys. A masked password is left unchanged.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req map[string]string
	if !h.BindJSON(c, &req) {
		return
	}
	if len(req) == 0 {
		h.BadRequest(c, "No settings given")
		return
	}
	result, err := h.settingsService.Update(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
