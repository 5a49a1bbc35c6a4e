package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gudang/internal/models"
	"gudang/internal/repositories"
	"gudang/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateWithPassword(ctx context.Context, user *models.User, hash string) error {
	args := m.Called(ctx, user, hash)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetPassword(ctx context.Context, username string) (*models.Password, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Password), args.Error(1)
}

// MockSessionRepository is a mock implementation of repositories.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Upsert(ctx context.Context, userID, sessionID string, expiresAt time.Time) (*models.Session, error) {
	args := m.Called(ctx, userID, sessionID, expiresAt)
	if fn, ok := args.Get(0).(func(context.Context, string, string, time.Time) *models.Session); ok {
		return fn(ctx, userID, sessionID, expiresAt), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// upsertEcho makes the session mock return the session it was asked to store.
func upsertEcho(sessions *MockSessionRepository, userID string) *mock.Call {
	return sessions.On("Upsert", mock.Anything, userID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return(func(_ context.Context, userID, sessionID string, expiresAt time.Time) *models.Session {
			return &models.Session{ID: sessionID, UserID: userID, ExpiresAt: expiresAt}
		}, nil)
}

func newAuthService(users *MockUserRepository, sessions *MockSessionRepository) *services.AuthService {
	svc := services.NewAuthService(users, sessions, time.Hour, zap.NewNop().Sugar())
	svc.SetHashCost(bcrypt.MinCost)
	return svc
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("Password12"), bcrypt.MinCost)

	t.Run("Success", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		svc := newAuthService(users, sessions)

		users.On("GetPassword", ctx, "ahmad").Return(&models.Password{UserID: "user-1", Hash: string(hash)}, nil).Once()
		upsertEcho(sessions, "user-1").Once()

		before := time.Now().UTC()
		session, err := svc.Login(ctx, "Ahmad", "Password12")
		require.NoError(t, err)
		assert.Equal(t, "user-1", session.UserID)
		assert.Len(t, session.ID, 36)
		assert.WithinDuration(t, before.Add(time.Hour), session.ExpiresAt, 5*time.Second)
		users.AssertExpectations(t)
		sessions.AssertExpectations(t)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		svc := newAuthService(users, sessions)

		users.On("GetPassword", ctx, "ahmad").Return(&models.Password{UserID: "user-1", Hash: string(hash)}, nil).Once()

		session, err := svc.Login(ctx, "ahmad", "wrong")
		assert.Nil(t, session)
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		sessions.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		svc := newAuthService(users, sessions)

		users.On("GetPassword", ctx, "nobody").Return(nil, repositories.ErrNotFound).Once()

		_, err := svc.Login(ctx, "nobody", "Password12")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		svc := newAuthService(users, sessions)

		users.On("GetPassword", ctx, "ahmad").Return(nil, errors.New("connection refused")).Once()

		_, err := svc.Login(ctx, "ahmad", "Password12")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("SessionFailure", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		svc := newAuthService(users, sessions)

		users.On("GetPassword", ctx, "ahmad").Return(&models.Password{UserID: "user-1", Hash: string(hash)}, nil).Once()
		sessions.On("Upsert", mock.Anything, "user-1", mock.Anything, mock.Anything).Return(nil, errors.New("disk full")).Once()

		_, err := svc.Login(ctx, "ahmad", "Password12")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		svc := newAuthService(users, sessions)

		users.On("CreateWithPassword", ctx, mock.AnythingOfType("*models.User"), mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) {
				user := args.Get(1).(*models.User)
				assert.Equal(t, "newuser", user.Username)
				hash := args.String(2)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("Secret123")))
				user.ID = "user-9"
			}).Return(nil).Once()
		upsertEcho(sessions, "user-9").Once()

		session, err := svc.Register(ctx, "NewUser", "Secret123")
		require.NoError(t, err)
		assert.Equal(t, "user-9", session.UserID)
		users.AssertExpectations(t)
		sessions.AssertExpectations(t)
	})

	t.Run("UsernameTaken", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		svc := newAuthService(users, sessions)

		users.On("CreateWithPassword", ctx, mock.Anything, mock.Anything).
			Return(fmt.Errorf("username ahmad: %w", repositories.ErrDuplicate)).Once()

		_, err := svc.Register(ctx, "ahmad", "Secret123")
		assert.ErrorIs(t, err, services.ErrUsernameTaken)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		svc := newAuthService(users, sessions)

		users.On("CreateWithPassword", ctx, mock.Anything, mock.Anything).Return(errors.New("connection refused")).Once()

		_, err := svc.Register(ctx, "ahmad", "Secret123")
		assert.ErrorIs(t, err, services.ErrRegistrationFailed)
	})
}

func TestAuthService_ValidateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		svc := newAuthService(users, sessions)

		sessions.On("GetByID", ctx, "token").Return(&models.Session{
			ID: "token", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour),
		}, nil).Once()
		users.On("GetByID", ctx, "user-1").Return(&models.User{ID: "user-1", Username: "ahmad"}, nil).Once()

		user, err := svc.ValidateSession(ctx, "token")
		require.NoError(t, err)
		assert.Equal(t, "ahmad", user.Username)
	})

	t.Run("Expired", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		svc := newAuthService(users, sessions)

		sessions.On("GetByID", ctx, "token").Return(&models.Session{
			ID: "token", UserID: "user-1", ExpiresAt: time.Now().Add(-time.Minute),
		}, nil).Once()
		sessions.On("Delete", ctx, "token").Return(nil).Once()

		user, err := svc.ValidateSession(ctx, "token")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, services.ErrUnauthenticated)
		sessions.AssertExpectations(t)
		users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Unknown", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		svc := newAuthService(users, sessions)

		sessions.On("GetByID", ctx, "token").Return(nil, repositories.ErrNotFound).Once()

		_, err := svc.ValidateSession(ctx, "token")
		assert.ErrorIs(t, err, services.ErrUnauthenticated)
	})

	t.Run("StoreFailureFailsClosed", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		svc := newAuthService(users, sessions)

		sessions.On("GetByID", ctx, "token").Return(&models.Session{
			ID: "token", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour),
		}, nil).Once()
		users.On("GetByID", ctx, "user-1").Return(nil, errors.New("connection reset")).Once()

		_, err := svc.ValidateSession(ctx, "token")
		assert.ErrorIs(t, err, services.ErrUnauthenticated)
	})

	t.Run("EmptyToken", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		svc := newAuthService(users, sessions)

		_, err := svc.ValidateSession(ctx, "")
		assert.ErrorIs(t, err, services.ErrUnauthenticated)
		sessions.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	sessions := new(MockSessionRepository)
	svc := newAuthService(users, sessions)

	sessions.On("DeleteByUserID", ctx, "user-1").Return(int64(1), nil).Once()
	assert.NoError(t, svc.Logout(ctx, "user-1"))

	// No session left is still a successful logout.
	sessions.On("DeleteByUserID", ctx, "user-1").Return(int64(0), nil).Once()
	assert.NoError(t, svc.Logout(ctx, "user-1"))

	sessions.On("DeleteByUserID", ctx, "user-2").Return(int64(0), errors.New("connection reset")).Once()
	assert.Error(t, svc.Logout(ctx, "user-2"))
}

func TestAuthService_PurgeExpiredSessions(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	sessions := new(MockSessionRepository)
	svc := newAuthService(users, sessions)

	sessions.On("DeleteExpired", ctx, mock.AnythingOfType("time.Time")).Return(int64(4), nil).Once()

	n, err := svc.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
