package handlers

import (
	"errors"
	"time"

	"gudang/internal/metrics"
	"gudang/internal/middleware"
	"gudang/internal/models"
	"gudang/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService   *services.AuthService
	signer        *services.SessionSigner
	validate      *validator.Validate
	log           *zap.SugaredLogger
	secureCookies bool
	rateLimit     int
}

// AuthHandlerConfig tunes the cookie and throttling behaviour of AuthHandler.
type AuthHandlerConfig struct {
	// SecureCookies marks the session cookie Secure (HTTPS only).
	SecureCookies bool
	// RateLimit is the number of login/register attempts allowed per IP and
	// minute. Zero disables throttling.
	RateLimit int
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, signer *services.SessionSigner, log *zap.SugaredLogger, cfg AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		signer:        signer,
		validate:      newValidator(),
		log:           log,
		secureCookies: cfg.SecureCookies,
		rateLimit:     cfg.RateLimit,
	}
}

// RegisterRoutes registers the authentication routes. auth guards the
// routes that need a logged-in user.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	throttle := h.throttle()
	router.Post("/login", throttle, h.HandleLogin)
	router.Post("/register", throttle, h.HandleRegister)
	router.Post("/logout", auth, h.HandleLogout)
	router.Get("/me", auth, h.HandleMe)
}

func (h *AuthHandler) throttle() fiber.Handler {
	if h.rateLimit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        h.rateLimit,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many requests",
			})
		},
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=100"`
	Password        string `json:"password" validate:"required,min=6,maxbytes=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// HandleLogin checks the credentials and returns a new session.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	session, err := h.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		metrics.RecordAuth("login", "failure")
		// Unknown user, wrong password and store faults look the same to the client.
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Invalid username or password",
		})
	}

	metrics.RecordAuth("login", "success")
	return h.respondSession(c, session)
}

// HandleRegister creates a user and returns its first session.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	session, err := h.authService.Register(c.UserContext(), req.Username, req.Password)
	if err != nil {
		metrics.RecordAuth("register", "failure")
		if errors.Is(err, services.ErrUsernameTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Username is already taken",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create new user",
		})
	}

	metrics.RecordAuth("register", "success")
	return h.respondSession(c, session)
}

// HandleLogout deletes the caller's session.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), middleware.CurrentUserID(c)); err != nil {
		h.log.Errorw("logout failed", "user_id", middleware.CurrentUserID(c), "error", err)
		return internalError(c)
	}
	c.ClearCookie(services.SessionCookieName)
	return c.JSON(fiber.Map{
		"message": "Successfully logout",
	})
}

// HandleMe returns the authenticated user.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

func (h *AuthHandler) respondSession(c *fiber.Ctx, session *models.Session) error {
	if h.signer != nil {
		value, err := h.signer.Sign(session)
		if err != nil {
			h.log.Errorw("failed to sign session cookie", "user_id", session.UserID, "error", err)
			return internalError(c)
		}
		c.Cookie(&fiber.Cookie{
			Name:     services.SessionCookieName,
			Value:    value,
			Path:     "/",
			Expires:  session.ExpiresAt,
			HTTPOnly: true,
			Secure:   h.secureCookies,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return c.JSON(fiber.Map{
		"session": session,
	})
}
