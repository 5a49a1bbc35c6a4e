package models

import "time"

// Role is an optional label attached to a user. The API exposes it but does
// not enforce anything based on it.
type Role struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;type:varchar(50);not null"`
}

// User represents an account that can log in to the inventory.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null"`
	RoleID    *uint     `json:"roleId"`
	Role      *Role     `json:"role,omitempty"`
	Password  *Password `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Password holds the bcrypt hash for a user. It is never serialized.
type Password struct {
	ID     uint   `json:"-" gorm:"primaryKey"`
	Hash   string `json:"-" gorm:"type:varchar(255);not null"`
	UserID string `json:"-" gorm:"uniqueIndex;type:varchar(36);not null"`
}
