package repositories

import (
	"context"
	"time"

	"gudang/internal/models"
)

// UserRepository defines the interface for user and credential data access.
type UserRepository interface {
	// CreateWithPassword stores the user and its password hash atomically.
	CreateWithPassword(ctx context.Context, user *models.User, hash string) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetPassword returns the stored password row of the given username.
	GetPassword(ctx context.Context, username string) (*models.Password, error)
}

// SessionRepository defines the interface for session data access.
type SessionRepository interface {
	// Upsert replaces whatever session the user owns with a new one.
	Upsert(ctx context.Context, userID, sessionID string, expiresAt time.Time) (*models.Session, error)
	GetByID(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
