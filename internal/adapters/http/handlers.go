package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/goaltracker/core/internal/application/services"
	"github.com/goaltracker/core/internal/domain/entities"
	"github.com/goaltracker/core/internal/infrastructure/config"
	"github.com/goaltracker/core/internal/infrastructure/logger"
	"github.com/goaltracker/core/internal/ports"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService *services.AuthService
	jwtConfig   config.JWTConfig
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, jwtConfig config.JWTConfig, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtConfig:   jwtConfig,
		logger:      logger,
	}
}

// Register handles account creation
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, entities.ErrUsernameTaken) {
			return echo.NewHTTPError(http.StatusBadRequest, "Username already exists")
		}
		h.logger.Error("Registration failed", "error", err, "username", req.Username)
		return echo.NewHTTPError(http.StatusInternalServerError, "Registration failed")
	}

	h.setSessionCookie(c, response.Token)
	return c.JSON(http.StatusCreated, response)
}

// Login handles user login
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidCredentials) {
			h.logger.LogSecurityEvent("failed_login", c.RealIP(), map[string]interface{}{
				"username": req.Username,
			})
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		h.logger.Error("Login failed", "error", err, "username", req.Username)
		return echo.NewHTTPError(http.StatusInternalServerError, "Login failed")
	}

	h.setSessionCookie(c, response.Token)
	return c.JSON(http.StatusOK, response)
}

// Me returns the authenticated account
func (h *AuthHandler) Me(c echo.Context) error {
	claims := getClaims(c)

	user, err := h.authService.Me(c.Request().Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Account no longer exists")
		}
		h.logger.Error("Get current user failed", "error", err, "user_id", claims.UserID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load account")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"user": user})
}

// Logout clears the session cookie. The token itself stays valid until
// expiry; logout is purely a client-side forget.
func (h *AuthHandler) Logout(c echo.Context) error {
	cookie := &http.Cookie{
		Name:     h.jwtConfig.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string) {
	cookie := &http.Cookie{
		Name:     h.jwtConfig.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.jwtConfig.ExpiresIn),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	c.SetCookie(cookie)
}

// UserHandler handles account settings requests
type UserHandler struct {
	userService *services.UserService
	logger      *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// ChangePassword handles password changes
func (h *UserHandler) ChangePassword(c echo.Context) error {
	claims := getClaims(c)

	var req ports.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userService.ChangePassword(c.Request().Context(), claims.UserID, req); err != nil {
		if errors.Is(err, entities.ErrWrongPassword) {
			return echo.NewHTTPError(http.StatusBadRequest, "Current password is incorrect")
		}
		h.logger.Error("Password change failed", "error", err, "user_id", claims.UserID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to change password")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Password updated successfully"})
}

// UpdateGrokKey stores or clears the caller's AI API key
func (h *UserHandler) UpdateGrokKey(c echo.Context) error {
	claims := getClaims(c)

	var req ports.UpdateGrokKeyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.userService.UpdateGrokKey(c.Request().Context(), claims.UserID, req); err != nil {
		h.logger.Error("API key update failed", "error", err, "user_id", claims.UserID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update API key")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "API key updated successfully"})
}

// Utility functions and helper types

// claimsKey is the echo context key the auth middleware stores claims under.
const claimsKey = "claims"

func getClaims(c echo.Context) ports.Claims {
	if claims, ok := c.Get(claimsKey).(ports.Claims); ok {
		return claims
	}
	return ports.Claims{}
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
