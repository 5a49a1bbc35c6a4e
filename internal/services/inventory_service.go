package services

import (
	"context"
	"time"

	"gudang/internal/models"
	"gudang/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InventoryService handles business logic for products and their stock.
type InventoryService struct {
	repo   repositories.InventoryRepository
	events EventPublisher
	log    *zap.SugaredLogger
}

// NewInventoryService creates a new InventoryService. events may be nil.
func NewInventoryService(repo repositories.InventoryRepository, events EventPublisher, log *zap.SugaredLogger) *InventoryService {
	return &InventoryService{
		repo:   repo,
		events: events,
		log:    log,
	}
}

// CreateInventoryInput is a new product and its starting stock.
type CreateInventoryInput struct {
	Name     string
	Price    float64
	Quantity int
}

// UpdateInventoryInput replaces a product's name, price and stock.
type UpdateInventoryInput struct {
	ProductID uint
	Name      string
	Price     float64
	Quantity  int
}

// RoundPrice rounds half away from zero to two decimal places, working on the
// shortest decimal form of p so 1.005 becomes 1.01.
func RoundPrice(p float64) float64 {
	return decimal.NewFromFloat(p).Round(2).InexactFloat64()
}

// FindInventories returns one page of the inventory listing and the total count.
func (s *InventoryService) FindInventories(ctx context.Context, search repositories.InventorySearch) ([]models.ProductInventory, int64, error) {
	search.Sort = repositories.ParseSortKey(string(search.Sort))
	return s.repo.FindInventories(ctx, search)
}

// FindInventory returns the inventory row of a product.
func (s *InventoryService) FindInventory(ctx context.Context, productID uint) (*models.ProductInventory, error) {
	return s.repo.FindInventory(ctx, productID)
}

// CreateInventory creates a product owned by creatorID together with its stock.
func (s *InventoryService) CreateInventory(ctx context.Context, input CreateInventoryInput, creatorID string) (*models.ProductInventory, error) {
	product := &models.Product{
		Name:  input.Name,
		Price: RoundPrice(input.Price),
	}
	if creatorID != "" {
		product.UserID = &creatorID
	}
	inventory, err := s.repo.CreateInventory(ctx, product, input.Quantity)
	if err != nil {
		return nil, err
	}
	s.publish(InventoryCreatedEvent, inventory, creatorID)
	return inventory, nil
}

// UpdateInventory updates a product and its stock. It returns
// repositories.ErrNotFound when the product has no inventory row.
func (s *InventoryService) UpdateInventory(ctx context.Context, input UpdateInventoryInput) (*models.ProductInventory, error) {
	inventory, err := s.repo.UpdateInventory(ctx, repositories.InventoryUpdate{
		ProductID: input.ProductID,
		Name:      input.Name,
		Price:     RoundPrice(input.Price),
		Quantity:  input.Quantity,
	})
	if err != nil {
		return nil, err
	}
	s.publish(InventoryUpdatedEvent, inventory, "")
	return inventory, nil
}

// DeleteInventory deletes a product and its stock and returns the deleted product.
func (s *InventoryService) DeleteInventory(ctx context.Context, productID uint) (*models.Product, error) {
	product, err := s.repo.DeleteInventory(ctx, productID)
	if err != nil {
		return nil, err
	}
	publishEvent(s.events, s.log, InventoryEvent{
		Event:      InventoryDeletedEvent,
		ProductID:  product.ID,
		Name:       product.Name,
		Price:      product.Price,
		OccurredAt: time.Now().UTC(),
	})
	return product, nil
}

func (s *InventoryService) publish(event string, inventory *models.ProductInventory, userID string) {
	msg := InventoryEvent{
		Event:      event,
		ProductID:  inventory.ProductID,
		Quantity:   inventory.Quantity,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
	if inventory.Product != nil {
		msg.Name = inventory.Product.Name
		msg.Price = inventory.Product.Price
	}
	publishEvent(s.events, s.log, msg)
}
