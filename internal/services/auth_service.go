package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gudang/internal/models"
	"gudang/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSessionTTL is how long a session stays valid after login.
const DefaultSessionTTL = 7 * 24 * time.Hour

// AuthService handles credentials and sessions.
type AuthService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	sessionTTL  time.Duration
	hashCost    int
	now         func() time.Time
	log         *zap.SugaredLogger

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, sessionRepo repositories.SessionRepository, sessionTTL time.Duration, log *zap.SugaredLogger) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		sessionTTL:  sessionTTL,
		hashCost:    bcrypt.DefaultCost,
		now:         func() time.Time { return time.Now().UTC() },
		log:         log,
	}
}

// SetHashCost overrides the bcrypt cost used for new passwords.
func (s *AuthService) SetHashCost(cost int) {
	s.hashCost = cost
}

// ValidateSession resolves a session token to its user. Unknown, expired and
// unreadable sessions all yield ErrUnauthenticated; expired ones are deleted.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	session, err := s.sessionRepo.GetByID(ctx, token)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			s.log.Warnw("session lookup failed", "error", err)
		}
		return nil, ErrUnauthenticated
	}
	if session.Expired(s.now()) {
		if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
			s.log.Warnw("failed to delete expired session", "user_id", session.UserID, "error", err)
		}
		return nil, ErrUnauthenticated
	}
	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		s.log.Warnw("session owner lookup failed", "user_id", session.UserID, "error", err)
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// Login checks the password and issues a fresh session, replacing any
// previous one. Every failure is reported as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Session, error) {
	username = strings.ToLower(username)
	stored, err := s.userRepo.GetPassword(ctx, username)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			s.log.Errorw("password lookup failed", "username", username, "error", err)
		}
		// Spend the same bcrypt time as a real comparison.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	session, err := s.issueSession(ctx, stored.UserID)
	if err != nil {
		s.log.Errorw("failed to issue session", "username", username, "error", err)
		return nil, ErrInvalidCredentials
	}
	return session, nil
}

// Register creates a user with its password and logs it in.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		s.log.Errorw("failed to hash password", "error", err)
		return nil, ErrRegistrationFailed
	}

	user := &models.User{Username: strings.ToLower(username)}
	if err := s.userRepo.CreateWithPassword(ctx, user, string(hash)); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		s.log.Errorw("failed to register user", "username", user.Username, "error", err)
		return nil, ErrRegistrationFailed
	}

	session, err := s.issueSession(ctx, user.ID)
	if err != nil {
		s.log.Errorw("failed to issue session", "username", user.Username, "error", err)
		return nil, ErrRegistrationFailed
	}
	return session, nil
}

// Logout deletes the user's session. Having no session is not an error.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if _, err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to logout user %s: %w", userID, err)
	}
	return nil
}

// PurgeExpiredSessions deletes every expired session and returns how many were removed.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx, s.now())
}

func (s *AuthService) issueSession(ctx context.Context, userID string) (*models.Session, error) {
	return s.sessionRepo.Upsert(ctx, userID, uuid.NewString(), s.now().Add(s.sessionTTL))
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.hashCost)
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}
