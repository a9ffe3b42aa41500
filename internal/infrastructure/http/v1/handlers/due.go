package handlers

import (
	"github.com/gin-gonic/gin"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/domain/sales"
	"pharmapos/internal/infrastructure/http/v1/dto"
)

// DueHandler handles due-tracking and due-payment endpoints.
type DueHandler struct {
	*BaseHandler
	service *sales.Service
}

// NewDueHandler creates a new due handler.
func NewDueHandler(base *BaseHandler, service *sales.Service) *DueHandler {
	return &DueHandler{BaseHandler: base, service: service}
}

// ListDues retrieves sales enrolled in due tracking.
// GET /api/v1/dues?status=
func (h *DueHandler) ListDues(c *gin.Context) {
	status, err := parseStatusQuery(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	dues, err := h.service.ListDues(c.Request.Context(), status)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.BaseHandler.List(c, dto.FromSales(dues), len(dues))
}

// flagDueRequest enrolls a sale in due tracking.
type flagDueRequest struct {
	SaleID id.ID `json:"saleId"`
}

// FlagDue enrolls a sale in the due-payment collection workflow.
// POST /api/v1/dues
func (h *DueHandler) FlagDue(c *gin.Context) {
	var req flagDueRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if id.IsNil(req.SaleID) {
		h.Error(c, apperror.NewValidation("sale ID is required").WithDetail("field", "saleId"))
		return
	}

	sale, err := h.service.FlagDue(c.Request.Context(), req.SaleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSale(sale))
}

// CreateDuePayment records a due payment against a sale.
// POST /api/v1/due-payments
func (h *DueHandler) CreateDuePayment(c *gin.Context) {
	var in sales.PaymentInput
	if !h.BindJSON(c, &in) {
		return
	}

	payment, sale, err := h.service.RecordDuePayment(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, gin.H{
		"payment": payment,
		"sale":    dto.FromSale(sale),
	})
}

// ListDuePayments returns payment history for a sale.
// GET /api/v1/due-payments?saleId=
func (h *DueHandler) ListDuePayments(c *gin.Context) {
	saleID, err := id.Parse(c.Query("saleId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("saleId query parameter is required"))
		return
	}

	payments, err := h.service.ListDuePayments(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.BaseHandler.List(c, payments, len(payments))
}
