package handler

import (
	appidentity "github.com/campusstore/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// IdentityHandler exposes staff and student endpoints
type IdentityHandler struct {
	BaseHandler
	service *appidentity.IdentityService
}

// NewIdentityHandler creates a new IdentityHandler
func NewIdentityHandler(service *appidentity.IdentityService) *IdentityHandler {
	return &IdentityHandler{service: service}
}

// CreateStudent handles POST /api/v1/students
func (h *IdentityHandler) CreateStudent(c *gin.Context) {
	var req appidentity.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.CreateStudent(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetStudent handles GET /api/v1/students/:id
func (h *IdentityHandler) GetStudent(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetStudent(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateStaff handles POST /api/v1/staff
func (h *IdentityHandler) CreateStaff(c *gin.Context) {
	var req appidentity.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.CreateStaff(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetStaff handles GET /api/v1/staff/:id
func (h *IdentityHandler) GetStaff(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetStaff(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AssignStaffCollege handles PUT /api/v1/staff/:id/college
func (h *IdentityHandler) AssignStaffCollege(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req appidentity.AssignCollegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.AssignStaffCollege(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
