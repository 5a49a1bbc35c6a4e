package repositories

import (
	"context"
	"errors"
	"fmt"

	"gudang/internal/models"

	"gorm.io/gorm"
)

// GORMSupplierRepository is a GORM implementation of SupplierRepository.
type GORMSupplierRepository struct {
	db *gorm.DB
}

// NewGORMSupplierRepository creates a new instance of GORMSupplierRepository.
func NewGORMSupplierRepository(db *gorm.DB) *GORMSupplierRepository {
	return &GORMSupplierRepository{
		db: db,
	}
}

// GetPage retrieves one page of suppliers ordered by id, plus the total count.
func (r *GORMSupplierRepository) GetPage(ctx context.Context, offset, limit int) ([]models.Supplier, int64, error) {
	var (
		suppliers []models.Supplier
		total     int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Supplier{}).Count(&total).Error; err != nil {
			return fmt.Errorf("failed to count suppliers: %w", err)
		}
		if err := tx.Order("id ASC").Offset(offset).Limit(limit).Find(&suppliers).Error; err != nil {
			return fmt.Errorf("failed to list suppliers: %w", err)
		}
		return nil
	}, snapshotRead)
	if err != nil {
		return nil, 0, err
	}
	return suppliers, total, nil
}

// GetByID retrieves a single supplier by its ID from the database.
func (r *GORMSupplierRepository) GetByID(ctx context.Context, id uint) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("supplier with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get supplier by ID %d: %w", id, err)
	}
	return &supplier, nil
}

// Create creates a new supplier in the database.
func (r *GORMSupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	if err := r.db.WithContext(ctx).Create(supplier).Error; err != nil {
		return fmt.Errorf("failed to create supplier: %w", err)
	}
	return nil
}

// Update renames an existing supplier.
func (r *GORMSupplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	res := r.db.WithContext(ctx).Model(&models.Supplier{}).Where("id = ?", supplier.ID).Update("name", supplier.Name)
	if res.Error != nil {
		return fmt.Errorf("failed to update supplier: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("supplier with ID %d: %w", supplier.ID, ErrNotFound)
	}
	return nil
}

// Delete detaches the supplier from its products and deletes it.
func (r *GORMSupplierRepository) Delete(ctx context.Context, id uint) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&supplier, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("supplier with ID %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to get supplier %d: %w", id, err)
		}
		if err := tx.Model(&models.Product{}).Where("supplier_id = ?", id).Update("supplier_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach supplier %d: %w", id, err)
		}
		if err := tx.Delete(&models.Supplier{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete supplier %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}
