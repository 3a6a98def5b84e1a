package handler

import (
	"strconv"

	appcollege "github.com/campusstore/backend/internal/application/college"
	"github.com/gin-gonic/gin"
)

// CollegeHandler exposes college management endpoints
type CollegeHandler struct {
	BaseHandler
	service *appcollege.CollegeService
}

// NewCollegeHandler creates a new CollegeHandler
func NewCollegeHandler(service *appcollege.CollegeService) *CollegeHandler {
	return &CollegeHandler{service: service}
}

// Create handles POST /api/v1/colleges
func (h *CollegeHandler) Create(c *gin.Context) {
	var req appcollege.CreateCollegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /api/v1/colleges/:id
func (h *CollegeHandler) Get(c *gin.Context) {
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

// List handles GET /api/v1/colleges
func (h *CollegeHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.service.List(c.Request.Context(), page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// UpdateCourses handles PUT /api/v1/colleges/:id/courses
func (h *CollegeHandler) UpdateCourses(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req appcollege.UpdateCoursesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.UpdateCourses(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
