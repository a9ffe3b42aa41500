package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/types"
	"pharmapos/internal/domain/inventory"
)

// ProductHandler handles product endpoints.
type ProductHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *inventory.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service}
}

// productRequest carries create/update fields for a product.
type productRequest struct {
	Name          string      `json:"name"`
	Stock         int         `json:"stock"`
	SellingPrice  types.Money `json:"sellingPrice"`
	PurchasePrice types.Money `json:"purchasePrice"`
	CategoryID    *id.ID      `json:"categoryId"`
	ShelfID       *id.ID      `json:"shelfId"`
	ExpiryDate    *time.Time  `json:"expiryDate"`
}

// Create adds a product to the catalog.
// POST /api/v1/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req productRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product := inventory.NewProduct(req.Name, req.Stock, req.SellingPrice, req.PurchasePrice)
	product.CategoryID = req.CategoryID
	product.ShelfID = req.ShelfID
	product.ExpiryDate = req.ExpiryDate

	if err := h.service.Create(c.Request.Context(), product); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, product)
}

// List retrieves products with optional filters.
// GET /api/v1/products?categoryId=&shelfId=&inStock=
func (h *ProductHandler) List(c *gin.Context) {
	filter := inventory.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if v := c.Query("categoryId"); v != "" {
		categoryID, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid categoryId"))
			return
		}
		filter.CategoryID = &categoryID
	}
	if v := c.Query("shelfId"); v != "" {
		shelfID, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid shelfId"))
			return
		}
		filter.ShelfID = &shelfID
	}
	if v := c.Query("inStock"); v == "true" || v == "1" {
		filter.InStockOnly = true
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.BaseHandler.List(c, list, len(list))
}

// Search finds products by name for the point-of-sale lookup.
// GET /api/v1/products/search?q=
func (h *ProductHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		h.Error(c, apperror.NewValidation("q query parameter is required"))
		return
	}

	list, err := h.service.List(c.Request.Context(), inventory.ListFilter{
		Search: query,
		Limit:  h.ParseIntQuery(c, "limit", 20),
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.BaseHandler.List(c, list, len(list))
}

// Get retrieves a product by ID.
// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, product)
}

// Update overwrites product fields. Stock is managed through sales and
// deliveries, not through this endpoint.
// PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req productRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	product.Name = req.Name
	product.SellingPrice = req.SellingPrice
	product.PurchasePrice = req.PurchasePrice
	product.CategoryID = req.CategoryID
	product.ShelfID = req.ShelfID
	product.ExpiryDate = req.ExpiryDate

	if err := h.service.Update(c.Request.Context(), product); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, product)
}

// Delete removes a product from the catalog.
// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), productID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "product deleted")
}

// receiveStockRequest carries a delivery quantity.
type receiveStockRequest struct {
	Quantity int `json:"quantity"`
}

// ReceiveStock adds delivered quantity to a product.
// POST /api/v1/products/:id/receive
func (h *ProductHandler) ReceiveStock(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req receiveStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.ReceiveStock(c.Request.Context(), productID, req.Quantity); err != nil {
		h.Error(c, err)
		return
	}

	product, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, product)
}
