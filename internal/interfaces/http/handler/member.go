package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/storefront/backend/internal/application/identity"
)

// MemberHandler lets admins review member sign-ups
type MemberHandler struct {
	BaseHandler
	memberService *identityapp.MemberService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService *identityapp.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// List returns every member with order statistics
func (h *MemberHandler) List(c *gin.Context) {
	members, err := h.memberService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, members)
}

// Approve lets a member sign in
func (h *MemberHandler) Approve(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	user, err := h.memberService.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Reject deletes a member and revokes their tokens. Their orders are kept.
func (h *MemberHandler) Reject(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.memberService.Reject(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
