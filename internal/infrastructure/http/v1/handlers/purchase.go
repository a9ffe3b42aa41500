package handlers

import (
	"github.com/gin-gonic/gin"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/domain/purchases"
	"pharmapos/internal/infrastructure/http/v1/dto"
)

// PurchaseHandler handles supplier purchase and payment endpoints.
type PurchaseHandler struct {
	*BaseHandler
	service *purchases.Service
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(base *BaseHandler, service *purchases.Service) *PurchaseHandler {
	return &PurchaseHandler{BaseHandler: base, service: service}
}

// Create records a new supplier purchase.
// POST /api/v1/purchases
func (h *PurchaseHandler) Create(c *gin.Context) {
	var in purchases.CreateInput
	if !h.BindJSON(c, &in) {
		return
	}

	purchase, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromPurchase(purchase))
}

// List retrieves purchases with optional filters.
// GET /api/v1/purchases?supplierId=&status=
func (h *PurchaseHandler) List(c *gin.Context) {
	filter := purchases.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if v := c.Query("supplierId"); v != "" {
		supplierID, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid supplierId"))
			return
		}
		filter.SupplierID = &supplierID
	}
	status, err := parseStatusQuery(c)
	if err != nil {
		h.Error(c, err)
		return
	}
	filter.Status = status

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.BaseHandler.List(c, dto.FromPurchases(list), len(list))
}

// Get retrieves a purchase with payment history.
// GET /api/v1/purchases/:id
func (h *PurchaseHandler) Get(c *gin.Context) {
	purchaseID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	purchase, err := h.service.GetByID(c.Request.Context(), purchaseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchase(purchase))
}

// Update overwrites purchase fields and re-derives its balance.
// PUT /api/v1/purchases/:id
func (h *PurchaseHandler) Update(c *gin.Context) {
	purchaseID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var in purchases.UpdateInput
	if !h.BindJSON(c, &in) {
		return
	}

	purchase, err := h.service.Update(c.Request.Context(), purchaseID, in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchase(purchase))
}

// Delete removes a purchase and its payment history.
// DELETE /api/v1/purchases/:id
func (h *PurchaseHandler) Delete(c *gin.Context) {
	purchaseID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), purchaseID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "purchase deleted")
}

// CreatePayment records a payment against a purchase.
// POST /api/v1/payments
func (h *PurchaseHandler) CreatePayment(c *gin.Context) {
	var in purchases.PaymentInput
	if !h.BindJSON(c, &in) {
		return
	}

	payment, purchase, err := h.service.RecordPayment(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, gin.H{
		"payment":  payment,
		"purchase": dto.FromPurchase(purchase),
	})
}

// ListPayments returns payment history for a purchase.
// GET /api/v1/payments?purchaseId=
func (h *PurchaseHandler) ListPayments(c *gin.Context) {
	purchaseID, err := id.Parse(c.Query("purchaseId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("purchaseId query parameter is required"))
		return
	}

	payments, err := h.service.ListPayments(c.Request.Context(), purchaseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.BaseHandler.List(c, payments, len(payments))
}
