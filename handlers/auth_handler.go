// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"net/http"
	"stationlog-server/crypto"
	"stationlog-server/middlewares"
	"stationlog-server/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// invalidCredentialsError is the single 401 shape for every login failure.
// Unknown handle and wrong PIN are deliberately indistinguishable.
func invalidCredentialsError() *echo.HTTPError {
	return &echo.HTTPError{
		Code:    http.StatusUnauthorized,
		Message: "Credentials are incorrect, please check your handle and PIN",
	}
}

// RegisterHandler godoc
// @Summary      Register a new user
// @Description  Creates an account, opens a session and sets the session cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        registerRequest  body  RegisterRequest  true  "Register request payload"
// @Success      201 {object} AuthResponse       "Registration successful"
// @Failure      400 {object} echo.HTTPError     "Bad request, invalid handle or credential"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /auth/register [post]
func (h *Handler) RegisterHandler(c echo.Context) error {
	logger := c.Logger()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid register request payload:", err)
		return echo.ErrBadRequest
	}

	handle := normalizeHandle(req.Handle)
	if !validHandle(handle) {
		logger.Error("Handle failed validation.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "handle must be between 3 and 20 characters",
		}
	}
	if !validCredential(req.Credential) {
		logger.Error("Credential failed validation.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "credential must be 4 to 6 digits",
		}
	}

	count := h.DB.Where("handle = ?", handle).First(&models.User{}).RowsAffected
	if count > 0 {
		logger.Error("Handle is already registered.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "This handle is already taken, please try another one.",
		}
	}

	hash, err := crypto.NewCrypto().HashCredential(req.Credential)
	if err != nil {
		logger.Errorf("Failed to hash credential: %v", err)
		return echo.ErrInternalServerError
	}

	user := models.User{Handle: handle, Credential: hash}
	if err := h.DB.Create(&user).Error; err != nil {
		logger.Errorf("Failed to create user: %v", err)
		return echo.ErrInternalServerError
	}

	session, err := h.createSession(user.ID)
	if err != nil {
		logger.Errorf("Failed to create session: %v", err)
		return echo.ErrInternalServerError
	}
	setSessionCookie(c, session)

	h.logEvent(user.ID, models.AuthEvent, "Account registered", nil)

	logger.Infof("User %q registered successfully", handle)
	return c.JSON(http.StatusCreated, AuthResponse{
		Success: true,
		User:    PublicUser{ID: user.ID, Handle: user.Handle},
	})
}

// LoginHandler godoc
// @Summary      Login a user
// @Description  Authenticates a user, opens a session and sets the session cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        loginRequest  body  LoginRequest  true  "Login request payload"
// @Success      200 {object} AuthResponse       "Login successful"
// @Failure      400 {object} echo.HTTPError     "Bad request, missing required fields"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /auth/login [post]
func (h *Handler) LoginHandler(c echo.Context) error {
	logger := c.Logger()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid login request payload:", err)
		return echo.ErrBadRequest
	}

	handle := normalizeHandle(req.Handle)
	if handle == "" || req.Credential == "" {
		logger.Error("Handle and credential are required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "handle and credential fields are required",
		}
	}

	user := models.User{}
	err := h.DB.Where("handle = ?", handle).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("User not found.")
			return invalidCredentialsError()
		}
		logger.Errorf("Failed to find user: %v", err)
		return echo.ErrInternalServerError
	}

	if err := crypto.NewCrypto().VerifyCredential(req.Credential, user.Credential); err != nil {
		logger.Error("Credential verification failed.")
		return invalidCredentialsError()
	}

	session, err := h.createSession(user.ID)
	if err != nil {
		logger.Errorf("Failed to create session: %v", err)
		return echo.ErrInternalServerError
	}
	setSessionCookie(c, session)

	h.logEvent(user.ID, models.AuthEvent, "Logged in", nil)

	return c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		User:    PublicUser{ID: user.ID, Handle: user.Handle},
	})
}

// MeHandler godoc
// @Summary      Identity check
// @Description  Returns the current user when the session cookie resolves.
// @Tags         auth
// @Produce      json
// @Success      200 {object} MeResponse         "Current user"
// @Failure      401 {object} echo.HTTPError     "Unauthenticated"
// @Router       /auth/me [get]
func (h *Handler) MeHandler(c echo.Context) error {
	logger := c.Logger()

	_, user, err := middlewares.ResolveSession(c, h.DB)
	if err != nil {
		if errors.Is(err, middlewares.ErrUnauthenticated) {
			return &echo.HTTPError{
				Code:    http.StatusUnauthorized,
				Message: "Authentication required, please login",
			}
		}
		logger.Error("Failed to resolve session: ", err)
		return echo.ErrInternalServerError
	}

	return c.JSON(http.StatusOK, MeResponse{
		User: PublicUser{ID: user.ID, Handle: user.Handle},
	})
}

// CheckHandleHandler godoc
// @Summary      Handle availability check
// @Description  Reports whether a handle is already registered. UX helper only, not race-safe.
// @Tags         auth
// @Produce      json
// @Param        handle  path  string  true  "Handle to check"
// @Success      200 {object} CheckHandleResponse "Existence flag"
// @Failure      500 {object} echo.HTTPError      "Internal server error"
// @Router       /auth/check/{handle} [get]
func (h *Handler) CheckHandleHandler(c echo.Context) error {
	logger := c.Logger()

	handle := normalizeHandle(c.Param("handle"))

	var count int64
	if err := h.DB.Model(&models.User{}).Where("handle = ?", handle).Count(&count).Error; err != nil {
		logger.Errorf("Failed to check handle: %v", err)
		return echo.ErrInternalServerError
	}

	return c.JSON(http.StatusOK, CheckHandleResponse{Exists: count > 0})
}

// LogoutHandler godoc
// @Summary      Logout
// @Description  Destroys the current session and clears the cookie. Idempotent; succeeds without a session too.
// @Tags         auth
// @Produce      json
// @Success      200 {object} LogoutResponse     "Logout successful"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /auth/logout [post]
func (h *Handler) LogoutHandler(c echo.Context) error {
	logger := c.Logger()

	cookie, err := c.Cookie(middlewares.SessionCookieName)
	if err == nil && cookie.Value != "" {
		session := models.Session{}
		if err := h.DB.Where("token = ?", cookie.Value).First(&session).Error; err == nil {
			if err := h.DB.Delete(&session).Error; err != nil {
				logger.Errorf("Failed to delete session: %v", err)
				return echo.ErrInternalServerError
			}
			h.logEvent(session.UserID, models.AuthEvent, "Logged out", nil)
		}
	}

	clearSessionCookie(c)
	return c.JSON(http.StatusOK, LogoutResponse{Success: true})
}
