package handlers

import (
	"gudang/internal/services"
	"gudang/pkg/pagination"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SupplierHandler handles HTTP requests for suppliers.
type SupplierHandler struct {
	service  *services.SupplierService
	validate *validator.Validate
	log      *zap.SugaredLogger
	maxLimit int
}

// NewSupplierHandler creates a new SupplierHandler.
func NewSupplierHandler(service *services.SupplierService, log *zap.SugaredLogger, maxLimit int) *SupplierHandler {
	return &SupplierHandler{
		service:  service,
		validate: newValidator(),
		log:      log,
		maxLimit: maxLimit,
	}
}

// RegisterRoutes registers the supplier routes, all behind auth.
func (h *SupplierHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/suppliers", auth, h.ListSuppliers)
	router.Get("/suppliers/:id", auth, h.GetSupplier)
	router.Post("/suppliers", auth, h.CreateSupplier)
	router.Patch("/suppliers/:id", auth, h.UpdateSupplier)
	router.Delete("/suppliers/:id", auth, h.DeleteSupplier)
}

// SupplierRequest represents the request body for creating or renaming a supplier.
type SupplierRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// ListSuppliers returns one page of suppliers ordered by id.
func (h *SupplierHandler) ListSuppliers(c *fiber.Ctx) error {
	params := pagination.Params{
		Page:  c.QueryInt("page", pagination.DefaultPage),
		Limit: c.QueryInt("limit", pagination.DefaultLimit),
	}.Normalize(h.maxLimit)

	suppliers, total, err := h.service.ListSuppliers(c.UserContext(), params)
	if err != nil {
		return storeError(c, h.log, err, "failed to list suppliers")
	}
	return c.JSON(pagination.Paginate(suppliers, total, params.Page, params.Limit))
}

// GetSupplier returns one supplier.
func (h *SupplierHandler) GetSupplier(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Bad Request")
	}
	supplier, err := h.service.GetSupplier(c.UserContext(), id)
	if err != nil {
		return storeError(c, h.log, err, "failed to get supplier")
	}
	return c.JSON(supplier)
}

// CreateSupplier creates a supplier.
func (h *SupplierHandler) CreateSupplier(c *fiber.Ctx) error {
	var req SupplierRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	supplier, err := h.service.CreateSupplier(c.UserContext(), req.Name)
	if err != nil {
		return storeError(c, h.log, err, "failed to create supplier")
	}
	return c.JSON(supplier)
}

// UpdateSupplier renames a supplier.
func (h *SupplierHandler) UpdateSupplier(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Bad Request")
	}
	var req SupplierRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	supplier, err := h.service.UpdateSupplier(c.UserContext(), id, req.Name)
	if err != nil {
		return storeError(c, h.log, err, "failed to update supplier")
	}
	return c.JSON(supplier)
}

// DeleteSupplier deletes a supplier and detaches it from its products.
func (h *SupplierHandler) DeleteSupplier(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Bad Request")
	}
	supplier, err := h.service.DeleteSupplier(c.UserContext(), id)
	if err != nil {
		return storeError(c, h.log, err, "failed to delete supplier")
	}
	return c.JSON(supplier)
}
