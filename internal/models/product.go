package models

import "time"

// Supplier is a vendor a product can optionally be sourced from.
type Supplier struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(255);not null" validate:"required,max=255"`
}

// Product represents an item held in the inventory.
type Product struct {
	ID         uint              `json:"id" gorm:"primaryKey"`
	Name       string            `json:"name" gorm:"type:varchar(255);not null"`
	Price      float64           `json:"price" gorm:"type:decimal(10,2);not null"` // Always two decimal places
	SupplierID *uint             `json:"supplierId"`
	Supplier   *Supplier         `json:"supplier" gorm:"constraint:OnDelete:SET NULL"`
	UserID     *string           `json:"userId" gorm:"type:varchar(36)"`
	Inventory  *ProductInventory `json:"inventory,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// ProductInventory holds the stock level of exactly one product.
type ProductInventory struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	ProductID uint     `json:"productId" gorm:"uniqueIndex;not null"`
	Product   *Product `json:"product,omitempty"`
	Quantity  int      `json:"quantity" gorm:"not null;default:0"`
}
