// Package seed loads the demo data set: four users, three suppliers and
// three products with stock.
package seed

import (
	"context"
	"errors"
	"fmt"

	"gudang/internal/models"
	"gudang/internal/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoUser is a seeded account with its plaintext password.
type DemoUser struct {
	Username string
	Password string
}

// DemoUsers are the accounts created by Run.
var DemoUsers = []DemoUser{
	{Username: "ahmad", Password: "Password12"},
	{Username: "khairul", Password: "Password12"},
	{Username: "haaziq", Password: "Password123"},
	{Username: "haaziq2", Password: "Password123"},
}

// Result lists what Run created.
type Result struct {
	Users       []models.User
	Suppliers   []models.Supplier
	Inventories []models.ProductInventory
}

// Run seeds the demo data. Users that already exist are skipped and the
// catalog is only created on an empty supplier table, so running it twice
// does not fail.
func Run(ctx context.Context, db *gorm.DB, log *zap.SugaredLogger) (*Result, error) {
	users := repositories.NewGORMUserRepository(db)
	suppliers := repositories.NewGORMSupplierRepository(db)
	inventories := repositories.NewGORMInventoryRepository(db)

	var res Result
	for _, du := range DemoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(du.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %s: %w", du.Username, err)
		}
		user := models.User{Username: du.Username}
		if err := users.CreateWithPassword(ctx, &user, string(hash)); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				log.Infow("seed user exists, skipped", "username", du.Username)
				existing, err := users.GetByUsername(ctx, du.Username)
				if err != nil {
					return nil, err
				}
				res.Users = append(res.Users, *existing)
				continue
			}
			return nil, err
		}
		log.Infow("seeded user", "username", du.Username)
		res.Users = append(res.Users, user)
	}

	var existing int64
	if err := db.WithContext(ctx).Model(&models.Supplier{}).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to count suppliers: %w", err)
	}
	if existing > 0 {
		log.Infow("catalog already present, skipped", "suppliers", existing)
		return &res, nil
	}

	for _, name := range []string{"Supplier1", "Supplier2", "Supplier3"} {
		supplier := models.Supplier{Name: name}
		if err := suppliers.Create(ctx, &supplier); err != nil {
			return nil, err
		}
		res.Suppliers = append(res.Suppliers, supplier)
	}

	products := []struct {
		name     string
		price    float64
		quantity int
	}{
		{name: "Product1", price: 18.99, quantity: 5},
		{name: "Product2", price: 12.85, quantity: 7},
		{name: "Product3", price: 14.60, quantity: 2},
	}
	for i, p := range products {
		product := models.Product{
			Name:       p.name,
			Price:      p.price,
			SupplierID: &res.Suppliers[i].ID,
			UserID:     &res.Users[i].ID,
		}
		inventory, err := inventories.CreateInventory(ctx, &product, p.quantity)
		if err != nil {
			return nil, err
		}
		res.Inventories = append(res.Inventories, *inventory)
	}

	log.Infow("database has been seeded",
		"users", len(res.Users), "suppliers", len(res.Suppliers), "products", len(res.Inventories))
	return &res, nil
}
