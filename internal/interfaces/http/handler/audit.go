package handler

import (
	appaudit "github.com/campusstore/backend/internal/application/audit"
	"github.com/gin-gonic/gin"
)

// AuditHandler exposes stock audit endpoints
type AuditHandler struct {
	BaseHandler
	service *appaudit.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(service *appaudit.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// Propose handles POST /api/v1/audits
func (h *AuditHandler) Propose(c *gin.Context) {
	var req appaudit.ProposeAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.Propose(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /api/v1/audits/:id
func (h *AuditHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /api/v1/audits
func (h *AuditHandler) List(c *gin.Context) {
	var req appaudit.ListAuditsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Approve handles POST /api/v1/audits/:id/approve
func (h *AuditHandler) Approve(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req appaudit.ReviewAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.Approve(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Reject handles POST /api/v1/audits/:id/reject
func (h *AuditHandler) Reject(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req appaudit.ReviewAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
