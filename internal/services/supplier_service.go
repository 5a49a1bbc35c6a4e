package services

import (
	"context"

	"gudang/internal/models"
	"gudang/internal/repositories"
	"gudang/pkg/pagination"
)

// SupplierService handles business logic related to suppliers.
type SupplierService struct {
	repo repositories.SupplierRepository
}

// NewSupplierService creates a new SupplierService.
func NewSupplierService(repo repositories.SupplierRepository) *SupplierService {
	return &SupplierService{
		repo: repo,
	}
}

// ListSuppliers returns one page of suppliers and the total count.
func (s *SupplierService) ListSuppliers(ctx context.Context, page pagination.Params) ([]models.Supplier, int64, error) {
	return s.repo.GetPage(ctx, page.Offset(), page.Limit)
}

// GetSupplier retrieves a single supplier by its ID.
func (s *SupplierService) GetSupplier(ctx context.Context, id uint) (*models.Supplier, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateSupplier creates a new supplier.
func (s *SupplierService) CreateSupplier(ctx context.Context, name string) (*models.Supplier, error) {
	supplier := &models.Supplier{Name: name}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// UpdateSupplier renames an existing supplier.
func (s *SupplierService) UpdateSupplier(ctx context.Context, id uint, name string) (*models.Supplier, error) {
	supplier := &models.Supplier{ID: id, Name: name}
	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// DeleteSupplier deletes a supplier by its ID and returns it.
func (s *SupplierService) DeleteSupplier(ctx context.Context, id uint) (*models.Supplier, error) {
	return s.repo.Delete(ctx, id)
}
