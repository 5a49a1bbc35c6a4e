package repositories

import (
	"context"

	"gudang/internal/models"
)

// SupplierRepository defines the interface for supplier data access.
type SupplierRepository interface {
	GetPage(ctx context.Context, offset, limit int) ([]models.Supplier, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Supplier, error)
	Create(ctx context.Context, supplier *models.Supplier) error
	Update(ctx context.Context, supplier *models.Supplier) error
	Delete(ctx context.Context, id uint) (*models.Supplier, error)
}
