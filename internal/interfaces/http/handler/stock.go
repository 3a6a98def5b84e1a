package handler

import (
	"strings"

	appstock "github.com/campusstore/backend/internal/application/stock"
	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockHandler exposes read-only stock availability endpoints
type StockHandler struct {
	BaseHandler
	service *appstock.StockQueryService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(service *appstock.StockQueryService) *StockHandler {
	return &StockHandler{service: service}
}

func parseCatalogKind(c *gin.Context) (catalog.CatalogKind, bool) {
	kind := catalog.CatalogKind(strings.ToUpper(c.DefaultQuery("catalog", string(catalog.CatalogStationery))))
	if !kind.IsValid() {
		return "", false
	}
	return kind, true
}

// Central handles GET /api/v1/stock/central
func (h *StockHandler) Central(c *gin.Context) {
	kind, ok := parseCatalogKind(c)
	if !ok {
		h.BadRequest(c, "Invalid catalog parameter")
		return
	}

	resp, err := h.service.CentralStock(c.Request.Context(), kind)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// College handles GET /api/v1/stock/colleges/:id
func (h *StockHandler) College(c *gin.Context) {
	collegeID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	kind, ok := parseCatalogKind(c)
	if !ok {
		h.BadRequest(c, "Invalid catalog parameter")
		return
	}

	resp, err := h.service.CollegeStock(c.Request.Context(), collegeID, kind)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Availability handles GET /api/v1/stock/products/:id
// An optional college_id query parameter selects a college ledger cell;
// without it the central ledger is read.
func (h *StockHandler) Availability(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var collegeID *uuid.UUID
	if raw := c.Query("college_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid college_id parameter")
			return
		}
		collegeID = &parsed
	}

	resp, err := h.service.Availability(c.Request.Context(), collegeID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
