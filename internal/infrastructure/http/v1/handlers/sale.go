package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/domain/ledger"
	"pharmapos/internal/domain/sales"
	"pharmapos/internal/infrastructure/http/v1/dto"
)

// SaleHandler handles sale endpoints.
type SaleHandler struct {
	*BaseHandler
	service *sales.Service
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(base *BaseHandler, service *sales.Service) *SaleHandler {
	return &SaleHandler{BaseHandler: base, service: service}
}

// Create records a new sale.
// POST /api/v1/sales
func (h *SaleHandler) Create(c *gin.Context) {
	var in sales.CreateInput
	if !h.BindJSON(c, &in) {
		return
	}

	sale, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromSale(sale))
}

// List retrieves sales with optional date range and due filters.
// GET /api/v1/sales?startDate=&endDate=&hasDues=
func (h *SaleHandler) List(c *gin.Context) {
	filter := sales.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if v := c.Query("startDate"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid startDate, expected YYYY-MM-DD"))
			return
		}
		filter.FromDate = &from
	}
	if v := c.Query("endDate"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid endDate, expected YYYY-MM-DD"))
			return
		}
		// Inclusive end of day.
		to = to.Add(24*time.Hour - time.Nanosecond)
		filter.ToDate = &to
	}
	if v := c.Query("hasDues"); v != "" {
		hasDue := v == "true" || v == "1"
		filter.HasDue = &hasDue
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.BaseHandler.List(c, dto.FromSales(list), len(list))
}

// Get retrieves a sale with items and payment history.
// GET /api/v1/sales/:id
func (h *SaleHandler) Get(c *gin.Context) {
	saleID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	sale, err := h.service.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSale(sale))
}

// parseStatusQuery reads an optional ?status= filter.
func parseStatusQuery(c *gin.Context) (*ledger.Status, error) {
	v := c.Query("status")
	if v == "" {
		return nil, nil
	}
	status := ledger.Status(v)
	if !status.Valid() {
		return nil, apperror.NewValidation("invalid status").WithDetail("status", v)
	}
	return &status, nil
}
