package repositories

import (
	"context"

	"gudang/internal/models"
)

// InventoryRepository defines the interface for the product + inventory aggregate.
type InventoryRepository interface {
	// FindInventories returns one page of rows and the total number of
	// matching rows, read from the same transaction.
	FindInventories(ctx context.Context, search InventorySearch) ([]models.ProductInventory, int64, error)
	FindInventory(ctx context.Context, productID uint) (*models.ProductInventory, error)
	CreateInventory(ctx context.Context, product *models.Product, quantity int) (*models.ProductInventory, error)
	UpdateInventory(ctx context.Context, update InventoryUpdate) (*models.ProductInventory, error)
	DeleteInventory(ctx context.Context, productID uint) (*models.Product, error)
}

// InventoryUpdate carries the new product fields and stock level for a product.
type InventoryUpdate struct {
	ProductID uint
	Name      string
	Price     float64
	Quantity  int
}
