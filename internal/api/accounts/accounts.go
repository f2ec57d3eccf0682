// accounts.go implements HTTP handlers for signup, password login, logout, and
// the current-user endpoint. Sessions are stateless JWTs delivered both in the
// response body and as an HTTP-only cookie so browser clients and API clients
// can authenticate the same way.
package accounts

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/roomreserve/roomreserve/internal/auth"
	"github.com/roomreserve/roomreserve/internal/config"
	"github.com/roomreserve/roomreserve/internal/db/models"
	"github.com/roomreserve/roomreserve/internal/db/repositories"
)

// AccountHandlers handles account and session endpoints
type AccountHandlers struct {
	cfg      *config.Config
	userRepo *repositories.UserRepository
	orgRepo  *repositories.OrganizationRepository
}

// NewAccountHandlers creates a new AccountHandlers instance
func NewAccountHandlers(cfg *config.Config, db *sql.DB) *AccountHandlers {
	return &AccountHandlers{
		cfg:      cfg,
		userRepo: repositories.NewUserRepository(db),
		orgRepo:  repositories.NewOrganizationRepository(db),
	}
}

// signupRequest is the JSON body for POST /api/auth/signup
type signupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// loginRequest is the JSON body for POST /api/auth/login
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// setSessionCookie writes the session JWT as an HTTP-only cookie.
func (h *AccountHandlers) setSessionCookie(c *gin.Context, token string) {
	maxAge := int(h.cfg.Auth.SessionTTL().Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookieName, token, maxAge, "/", h.cfg.Auth.CookieDomain, h.cfg.Auth.CookieSecure, true)
}

// @Summary      Create account
// @Description  Register a new user account with email and password. New accounts always get the "user" role.
// @Tags         Accounts
// @Accept       json
// @Produce      json
// @Param        body  body  signupRequest  true  "Account details"
// @Success      201  {object}  map[string]interface{}  "user: models.User"
// @Failure      400  {object}  map[string]interface{}  "Validation error"
// @Failure      409  {object}  map[string]interface{}  "Email already registered"
// @Router       /api/auth/signup [post]
// SignupHandler registers a new account
// POST /api/auth/signup
func (h *AccountHandlers) SignupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		req.Name = strings.TrimSpace(req.Name)

		if req.Email == "" || !strings.Contains(req.Email, "@") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required", "field": "email"})
			return
		}
		if req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required", "field": "name"})
			return
		}
		if len(req.Password) < auth.MinPasswordLength {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Password must be at least 8 characters",
				"field": "password",
			})
			return
		}

		existing, err := h.userRepo.GetUserByEmail(c.Request.Context(), req.Email)
		if err != nil {
			slog.Error("signup: failed to check existing user", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if existing != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered", "field": "email"})
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			slog.Error("signup: failed to hash password", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		user := &models.User{
			ID:           uuid.New().String(),
			Email:        req.Email,
			Name:         req.Name,
			Role:         models.RoleUser,
			PasswordHash: &hash,
			AuthProvider: "local",
		}
		if err := h.userRepo.CreateUser(c.Request.Context(), user); err != nil {
			slog.Error("signup: failed to create user", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"user": user})
	}
}

// @Summary      Log in
// @Description  Authenticate with email and password. Returns a session token and sets it as an HTTP-only cookie.
// @Tags         Accounts
// @Accept       json
// @Produce      json
// @Param        body  body  loginRequest  true  "Credentials"
// @Success      200  {object}  map[string]interface{}  "token: string, user: models.User"
// @Failure      401  {object}  map[string]interface{}  "Invalid credentials"
// @Router       /api/auth/login [post]
// LoginHandler authenticates a user with email and password
// POST /api/auth/login
func (h *AccountHandlers) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		user, err := h.userRepo.GetUserByEmail(c.Request.Context(), req.Email)
		if err != nil {
			slog.Error("login: failed to look up user", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		// Same response whether the account is missing or the password is wrong.
		if user == nil || user.PasswordHash == nil || !auth.VerifyPassword(req.Password, *user.PasswordHash) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}

		token, err := auth.GenerateJWT(user.ID, user.Email, h.cfg.Auth.SessionTTL())
		if err != nil {
			slog.Error("login: failed to generate session token", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		h.setSessionCookie(c, token)
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

// @Summary      Log out
// @Description  Clear the session cookie. The JWT itself remains valid until expiry; clients should discard it.
// @Tags         Accounts
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "message: Logged out"
// @Router       /api/auth/logout [post]
// LogoutHandler clears the session cookie
// POST /api/auth/logout
func (h *AccountHandlers) LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(auth.SessionCookieName, "", -1, "/", h.cfg.Auth.CookieDomain, h.cfg.Auth.CookieSecure, true)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

// @Summary      Current user
// @Description  Return the authenticated user together with their organization memberships and the organizations themselves.
// @Tags         Accounts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "user: models.UserWithMemberships, organizations: []models.Organization"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Router       /api/auth/me [get]
// MeHandler returns the authenticated user, their memberships, and the
// organizations those memberships point at
// GET /api/auth/me
func (h *AccountHandlers) MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		user, err := h.userRepo.GetUserWithMemberships(c.Request.Context(), userID)
		if err != nil {
			slog.Error("me: failed to load user", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		orgs, err := h.orgRepo.GetUserOrganizations(c.Request.Context(), userID)
		if err != nil {
			slog.Error("me: failed to load organizations", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user, "organizations": orgs})
	}
}
