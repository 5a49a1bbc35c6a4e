package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gudang/internal/models"
	"gudang/internal/repositories"
)

var _ repositories.SupplierRepository = (*memorySupplierRepository)(nil)

// memorySupplierRepository is an in-memory SupplierRepository for service tests.
type memorySupplierRepository struct {
	suppliers map[uint]models.Supplier
	nextID    uint
	mu        sync.RWMutex
}

// newMemorySupplierRepository creates a new instance of memorySupplierRepository.
func newMemorySupplierRepository() *memorySupplierRepository {
	return &memorySupplierRepository{
		suppliers: make(map[uint]models.Supplier),
		nextID:    1,
	}
}

// GetPage returns suppliers ordered by id.
func (r *memorySupplierRepository) GetPage(_ context.Context, offset, limit int) ([]models.Supplier, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := int64(len(all))
	if offset >= len(all) {
		return []models.Supplier{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// GetByID returns a supplier by its ID.
func (r *memorySupplierRepository) GetByID(_ context.Context, id uint) (*models.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	supplier, ok := r.suppliers[id]
	if !ok {
		return nil, fmt.Errorf("supplier with ID %d: %w", id, repositories.ErrNotFound)
	}
	return &supplier, nil
}

// Create adds a new supplier.
func (r *memorySupplierRepository) Create(_ context.Context, supplier *models.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if supplier.ID == 0 {
		supplier.ID = r.nextID
	}
	if supplier.ID >= r.nextID {
		r.nextID = supplier.ID + 1
	}
	r.suppliers[supplier.ID] = *supplier
	return nil
}

// Update modifies an existing supplier.
func (r *memorySupplierRepository) Update(_ context.Context, supplier *models.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.suppliers[supplier.ID]; !ok {
		return fmt.Errorf("supplier with ID %d: %w", supplier.ID, repositories.ErrNotFound)
	}
	r.suppliers[supplier.ID] = *supplier
	return nil
}

// Delete removes a supplier by its ID.
func (r *memorySupplierRepository) Delete(_ context.Context, id uint) (*models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	supplier, ok := r.suppliers[id]
	if !ok {
		return nil, fmt.Errorf("supplier with ID %d: %w", id, repositories.ErrNotFound)
	}
	delete(r.suppliers, id)
	return &supplier, nil
}
