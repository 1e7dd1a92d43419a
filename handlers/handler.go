// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"net/http"
	"regexp"
	"stationlog-server/catalog"
	"stationlog-server/commons"
	"stationlog-server/crypto"
	"stationlog-server/middlewares"
	"stationlog-server/models"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const sessionLifetime = 30 * 24 * time.Hour

var credentialPattern = regexp.MustCompile(`^[0-9]{4,6}$`)

// Handler carries the store handle and the station catalog; every endpoint
// hangs off it so nothing reaches for process-wide state.
type Handler struct {
	DB      *gorm.DB
	Catalog *catalog.Catalog
}

func New(conn *gorm.DB, cat *catalog.Catalog) *Handler {
	return &Handler{DB: conn, Catalog: cat}
}

// normalizeHandle lowercases and trims a handle; every lookup and insert goes
// through this, which is what makes handles case-insensitively unique.
func normalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimSpace(handle))
}

func validHandle(handle string) bool {
	n := utf8.RuneCountInString(handle)
	return n >= 3 && n <= 20
}

func validCredential(credential string) bool {
	return credentialPattern.MatchString(credential)
}

func (h *Handler) createSession(userID uint) (*models.Session, error) {
	token, err := crypto.GenerateRandomString("st_", 32, "hex")
	if err != nil {
		return nil, err
	}
	now := time.Now()
	expiresAt := now.Add(sessionLifetime)
	session := models.Session{
		Token:      token,
		LastUsedAt: &now,
		ExpiresAt:  &expiresAt,
		UserID:     userID,
	}
	if err := h.DB.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func setSessionCookie(c echo.Context, session *models.Session) {
	c.SetCookie(&http.Cookie{
		Name:     middlewares.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.IsTLS(),
		MaxAge:   int(time.Until(*session.ExpiresAt).Seconds()),
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middlewares.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.IsTLS(),
		MaxAge:   -1,
	})
}

// logEvent appends to the activity trail. Failures are logged and swallowed;
// the trail is never allowed to fail a request.
func (h *Handler) logEvent(userID uint, category models.EventCategory, description string, stationID *string) {
	eventLog := models.EventLog{
		Category:    category,
		Description: &description,
		StationID:   stationID,
		UserID:      userID,
	}
	if err := h.DB.Create(&eventLog).Error; err != nil {
		commons.Logger.Error("Failed to create event log: ", err)
	}
}
