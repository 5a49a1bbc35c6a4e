package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gudang/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMInventoryRepository is a GORM implementation of InventoryRepository.
type GORMInventoryRepository struct {
	db *gorm.DB
}

// NewGORMInventoryRepository creates a new instance of GORMInventoryRepository.
func NewGORMInventoryRepository(db *gorm.DB) *GORMInventoryRepository {
	return &GORMInventoryRepository{
		db: db,
	}
}

// Listing reads must see one snapshot for both the rows and the count.
var snapshotRead = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// FindInventories runs the filtered, sorted and paginated listing.
func (r *GORMInventoryRepository) FindInventories(ctx context.Context, search InventorySearch) ([]models.ProductInventory, int64, error) {
	var (
		rows  []models.ProductInventory
		total int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := search.filter(tx.Model(&models.ProductInventory{})).Count(&total).Error; err != nil {
			return fmt.Errorf("failed to count inventories: %w", err)
		}
		err := search.filter(tx.Model(&models.ProductInventory{})).
			Preload("Product.Supplier").
			Order(search.Sort.OrderBy()).
			Limit(search.limit()).
			Offset(search.Offset()).
			Find(&rows).Error
		if err != nil {
			return fmt.Errorf("failed to list inventories: %w", err)
		}
		return nil
	}, snapshotRead)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// FindInventory retrieves the joined inventory row for a product.
func (r *GORMInventoryRepository) FindInventory(ctx context.Context, productID uint) (*models.ProductInventory, error) {
	return findInventory(r.db.WithContext(ctx), productID)
}

// CreateInventory creates the product and its inventory row in one transaction.
func (r *GORMInventoryRepository) CreateInventory(ctx context.Context, product *models.Product, quantity int) (*models.ProductInventory, error) {
	var created *models.ProductInventory
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		inventory := models.ProductInventory{ProductID: product.ID, Quantity: quantity}
		if err := tx.Omit(clause.Associations).Create(&inventory).Error; err != nil {
			return fmt.Errorf("failed to create inventory for product %d: %w", product.ID, err)
		}
		var err error
		created, err = findInventory(tx, product.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateInventory updates the product name/price and the stock level together.
func (r *GORMInventoryRepository) UpdateInventory(ctx context.Context, update InventoryUpdate) (*models.ProductInventory, error) {
	var updated *models.ProductInventory
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inventory models.ProductInventory
		if err := tx.First(&inventory, "product_id = ?", update.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("inventory for product %d: %w", update.ProductID, ErrNotFound)
			}
			return fmt.Errorf("failed to get inventory for product %d: %w", update.ProductID, err)
		}
		err := tx.Model(&models.Product{}).
			Where("id = ?", update.ProductID).
			Updates(map[string]interface{}{"name": update.Name, "price": update.Price}).Error
		if err != nil {
			return fmt.Errorf("failed to update product %d: %w", update.ProductID, err)
		}
		if err := tx.Model(&inventory).Update("quantity", update.Quantity).Error; err != nil {
			return fmt.Errorf("failed to update inventory for product %d: %w", update.ProductID, err)
		}
		updated, err = findInventory(tx, update.ProductID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteInventory deletes a product together with its inventory row and
// returns the product as it was before deletion.
func (r *GORMInventoryRepository) DeleteInventory(ctx context.Context, productID uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product with ID %d: %w", productID, ErrNotFound)
			}
			return fmt.Errorf("failed to get product %d: %w", productID, err)
		}
		if err := tx.Where("product_id = ?", productID).Delete(&models.ProductInventory{}).Error; err != nil {
			return fmt.Errorf("failed to delete inventory for product %d: %w", productID, err)
		}
		if err := tx.Delete(&models.Product{}, "id = ?", productID).Error; err != nil {
			return fmt.Errorf("failed to delete product %d: %w", productID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func findInventory(db *gorm.DB, productID uint) (*models.ProductInventory, error) {
	var inventory models.ProductInventory
	if err := db.Preload("Product.Supplier").First(&inventory, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("inventory for product %d: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get inventory for product %d: %w", productID, err)
	}
	return &inventory, nil
}
