package models

import "time"

// Session is a server-issued login. Its ID doubles as the bearer token.
// A user owns at most one session at a time.
type Session struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"uniqueIndex;type:varchar(36);not null"`
	User      *User     `json:"user,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null"`
}

// Expired reports whether the session is past its absolute expiry.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
