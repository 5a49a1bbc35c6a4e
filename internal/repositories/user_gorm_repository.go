package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gudang/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// CreateWithPassword creates the user and its password row in one transaction.
func (r *GORMUserRepository) CreateWithPassword(ctx context.Context, user *models.User, hash string) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check username %s: %w", user.Username, err)
		}
		if count > 0 {
			return fmt.Errorf("username %s: %w", user.Username, ErrDuplicate)
		}
		if err := tx.Omit("Password", "Role").Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("username %s: %w", user.Username, ErrDuplicate)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		if err := tx.Create(&models.Password{UserID: user.ID, Hash: hash}).Error; err != nil {
			return fmt.Errorf("failed to create password for user %s: %w", user.ID, err)
		}
		return nil
	})
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with username %s: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Role").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// GetPassword looks up the password row through the owning user's username.
func (r *GORMUserRepository) GetPassword(ctx context.Context, username string) (*models.Password, error) {
	var password models.Password
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = passwords.user_id").
		Where("users.username = ?", username).
		First(&password).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("password for %s: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get password for %s: %w", username, err)
	}
	return &password, nil
}

// GORMSessionRepository is a GORM implementation of SessionRepository.
type GORMSessionRepository struct {
	db *gorm.DB
}

// NewGORMSessionRepository creates a new instance of GORMSessionRepository.
func NewGORMSessionRepository(db *gorm.DB) *GORMSessionRepository {
	return &GORMSessionRepository{
		db: db,
	}
}

// Upsert stores a fresh session for the user, replacing the current one in a
// single statement so concurrent logins cannot collide on user_id.
func (r *GORMSessionRepository) Upsert(ctx context.Context, userID, sessionID string, expiresAt time.Time) (*models.Session, error) {
	session := models.Session{ID: sessionID, UserID: userID, ExpiresAt: expiresAt}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit("User").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"id", "expires_at"}),
		}).Create(&session).Error
		if err != nil {
			return fmt.Errorf("failed to store session for user %s: %w", userID, err)
		}
		return tx.Preload("User").First(&session, "id = ?", sessionID).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetByID retrieves a session by its token.
func (r *GORMSessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// Delete removes a session by its token.
func (r *GORMSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteByUserID removes the session owned by the user and reports how many rows went away.
func (r *GORMSessionRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete session for user %s: %w", userID, res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteExpired removes every session whose expiry is before now.
func (r *GORMSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
