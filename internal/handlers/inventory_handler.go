package handlers

import (
	"gudang/internal/metrics"
	"gudang/internal/middleware"
	"gudang/internal/repositories"
	"gudang/internal/services"
	"gudang/pkg/pagination"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// InventoryHandler handles HTTP requests for the inventory.
type InventoryHandler struct {
	service  *services.InventoryService
	validate *validator.Validate
	log      *zap.SugaredLogger
	maxLimit int
}

// NewInventoryHandler creates a new InventoryHandler. maxLimit caps the page
// size of the listing.
func NewInventoryHandler(service *services.InventoryService, log *zap.SugaredLogger, maxLimit int) *InventoryHandler {
	return &InventoryHandler{
		service:  service,
		validate: newValidator(),
		log:      log,
		maxLimit: maxLimit,
	}
}

// RegisterRoutes registers the inventory routes, all behind auth.
func (h *InventoryHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/inventory", auth, h.ListInventories)
	router.Get("/inventory/:id", auth, h.GetInventory)
	router.Post("/add-inventory", auth, h.AddInventory)
	router.Patch("/update-inventory", auth, h.UpdateInventory)
	router.Delete("/delete-inventory", auth, h.DeleteInventory)
}

// ProductRequest is the product part of an inventory write.
type ProductRequest struct {
	Name  string   `json:"name" validate:"required,max=255"`
	Price *float64 `json:"price" validate:"required,gte=0,lt=100000000"`
}

// AddInventoryRequest represents the request body for creating an inventory.
type AddInventoryRequest struct {
	Product  *ProductRequest `json:"product" validate:"required"`
	Quantity *int            `json:"quantity" validate:"required,gte=0"`
}

// UpdateInventoryRequest represents the request body for updating an inventory.
type UpdateInventoryRequest struct {
	ProductID *uint           `json:"productId" validate:"required"`
	Product   *ProductRequest `json:"product" validate:"required"`
	Quantity  *int            `json:"quantity" validate:"required,gte=0"`
}

// DeleteInventoryRequest represents the request body for deleting an inventory.
type DeleteInventoryRequest struct {
	ProductID *uint `json:"productId" validate:"required"`
}

// ListInventories returns one page of inventory rows.
// Query: name (substring or product id), sort, page, limit.
func (h *InventoryHandler) ListInventories(c *fiber.Ctx) error {
	params := pagination.Params{
		Page:  c.QueryInt("page", pagination.DefaultPage),
		Limit: c.QueryInt("limit", pagination.DefaultLimit),
	}.Normalize(h.maxLimit)

	rows, total, err := h.service.FindInventories(c.UserContext(), repositories.InventorySearch{
		Page:  params.Page,
		Limit: params.Limit,
		Name:  c.Query("name"),
		Sort:  repositories.SortKey(c.Query("sort")),
	})
	if err != nil {
		return storeError(c, h.log, err, "failed to list inventories")
	}
	return c.JSON(pagination.Paginate(rows, total, params.Page, params.Limit))
}

// GetInventory returns the inventory row of one product.
func (h *InventoryHandler) GetInventory(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Bad Request")
	}
	row, err := h.service.FindInventory(c.UserContext(), id)
	if err != nil {
		return storeError(c, h.log, err, "failed to get inventory")
	}
	return c.JSON(row)
}

// AddInventory creates a product with its stock, owned by the caller.
func (h *InventoryHandler) AddInventory(c *fiber.Ctx) error {
	var req AddInventoryRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	row, err := h.service.CreateInventory(c.UserContext(), services.CreateInventoryInput{
		Name:     req.Product.Name,
		Price:    *req.Product.Price,
		Quantity: *req.Quantity,
	}, middleware.CurrentUserID(c))
	if err != nil {
		metrics.RecordInventoryMutation("create", "failure")
		return storeError(c, h.log, err, "failed to create inventory")
	}
	metrics.RecordInventoryMutation("create", "success")
	return c.JSON(row)
}

// UpdateInventory replaces a product's name, price and quantity.
func (h *InventoryHandler) UpdateInventory(c *fiber.Ctx) error {
	var req UpdateInventoryRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	row, err := h.service.UpdateInventory(c.UserContext(), services.UpdateInventoryInput{
		ProductID: *req.ProductID,
		Name:      req.Product.Name,
		Price:     *req.Product.Price,
		Quantity:  *req.Quantity,
	})
	if err != nil {
		metrics.RecordInventoryMutation("update", "failure")
		return storeError(c, h.log, err, "failed to update inventory")
	}
	metrics.RecordInventoryMutation("update", "success")
	return c.JSON(row)
}

// DeleteInventory deletes a product and its stock and returns the product.
func (h *InventoryHandler) DeleteInventory(c *fiber.Ctx) error {
	var req DeleteInventoryRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	product, err := h.service.DeleteInventory(c.UserContext(), *req.ProductID)
	if err != nil {
		metrics.RecordInventoryMutation("delete", "failure")
		return storeError(c, h.log, err, "failed to delete inventory")
	}
	metrics.RecordInventoryMutation("delete", "success")
	return c.JSON(product)
}
