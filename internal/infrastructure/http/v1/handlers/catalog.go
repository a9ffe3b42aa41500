package handlers

import (
	"github.com/gin-gonic/gin"

	"pharmapos/internal/domain/catalogs/category"
	"pharmapos/internal/domain/catalogs/shelf"
	"pharmapos/internal/domain/catalogs/supplier"
)

// CategoryHandler handles product category endpoints.
type CategoryHandler struct {
	*BaseHandler
	service *category.Service
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(base *BaseHandler, service *category.Service) *CategoryHandler {
	return &CategoryHandler{BaseHandler: base, service: service}
}

// POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var in category.Input
	if !h.BindJSON(c, &in) {
		return
	}

	cat, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, cat)
}

// GET /api/v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.BaseHandler.List(c, list, len(list))
}

// GET /api/v1/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	categoryID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	cat, err := h.service.GetByID(c.Request.Context(), categoryID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, cat)
}

// PUT /api/v1/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	categoryID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var in category.Input
	if !h.BindJSON(c, &in) {
		return
	}

	cat, err := h.service.Update(c.Request.Context(), categoryID, in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, cat)
}

// DELETE /api/v1/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	categoryID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), categoryID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "category deleted")
}

// ShelfHandler handles storage shelf endpoints.
type ShelfHandler struct {
	*BaseHandler
	service *shelf.Service
}

// NewShelfHandler creates a new shelf handler.
func NewShelfHandler(base *BaseHandler, service *shelf.Service) *ShelfHandler {
	return &ShelfHandler{BaseHandler: base, service: service}
}

// POST /api/v1/shelves
func (h *ShelfHandler) Create(c *gin.Context) {
	var in shelf.Input
	if !h.BindJSON(c, &in) {
		return
	}

	sh, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, sh)
}

// GET /api/v1/shelves
func (h *ShelfHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.BaseHandler.List(c, list, len(list))
}

// GET /api/v1/shelves/:id
func (h *ShelfHandler) Get(c *gin.Context) {
	shelfID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	sh, err := h.service.GetByID(c.Request.Context(), shelfID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, sh)
}

// PUT /api/v1/shelves/:id
func (h *ShelfHandler) Update(c *gin.Context) {
	shelfID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var in shelf.Input
	if !h.BindJSON(c, &in) {
		return
	}

	sh, err := h.service.Update(c.Request.Context(), shelfID, in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, sh)
}

// DELETE /api/v1/shelves/:id
func (h *ShelfHandler) Delete(c *gin.Context) {
	shelfID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), shelfID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "shelf deleted")
}

// SupplierHandler handles supplier endpoints.
type SupplierHandler struct {
	*BaseHandler
	service *supplier.Service
}

// NewSupplierHandler creates a new supplier handler.
func NewSupplierHandler(base *BaseHandler, service *supplier.Service) *SupplierHandler {
	return &SupplierHandler{BaseHandler: base, service: service}
}

// POST /api/v1/suppliers
func (h *SupplierHandler) Create(c *gin.Context) {
	var in supplier.Input
	if !h.BindJSON(c, &in) {
		return
	}

	sup, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, sup)
}

// List returns suppliers with purchase balance summaries for the
// payables overview.
// GET /api/v1/suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	list, err := h.service.ListWithSummary(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.BaseHandler.List(c, list, len(list))
}

// GET /api/v1/suppliers/:id
func (h *SupplierHandler) Get(c *gin.Context) {
	supplierID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	sup, err := h.service.GetByID(c.Request.Context(), supplierID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, sup)
}

// PUT /api/v1/suppliers/:id
func (h *SupplierHandler) Update(c *gin.Context) {
	supplierID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var in supplier.Input
	if !h.BindJSON(c, &in) {
		return
	}

	sup, err := h.service.Update(c.Request.Context(), supplierID, in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, sup)
}

// DELETE /api/v1/suppliers/:id
func (h *SupplierHandler) Delete(c *gin.Context) {
	supplierID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), supplierID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "supplier deleted")
}
