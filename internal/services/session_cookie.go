package services

import (
	"fmt"
	"time"

	"gudang/internal/models"

	"github.com/dgrijalva/jwt-go"
)

// SessionCookieName is the cookie carrying the signed session for browser clients.
const SessionCookieName = "auth_session"

// SessionSigner signs session ids into tamper-proof cookie values and
// verifies them again.
type SessionSigner struct {
	secret []byte
}

// NewSessionSigner creates a new SessionSigner.
func NewSessionSigner(secret string) *SessionSigner {
	return &SessionSigner{secret: []byte(secret)}
}

// Sign returns the cookie value for session. It expires with the session.
func (s *SessionSigner) Sign(session *models.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Id:        session.ID,
		Subject:   session.UserID,
		ExpiresAt: session.ExpiresAt.Unix(),
		IssuedAt:  time.Now().Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session cookie: %w", err)
	}
	return signed, nil
}

// Verify checks the cookie signature and expiry and returns the session id.
func (s *SessionSigner) Verify(value string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid session cookie: %w", err)
	}
	if !token.Valid || claims.Id == "" {
		return "", fmt.Errorf("invalid session cookie")
	}
	return claims.Id, nil
}
