// SPDX-License-Identifier: GPL-3.0-only

package middlewares

import (
	"errors"
	"net/http"
	"stationlog-server/models"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SessionCookieName carries the opaque session token. The cookie holds the
// token and nothing else.
const SessionCookieName = "session_token"

// ErrUnauthenticated covers every unauthenticated outcome: missing cookie,
// unknown token, expired session. Callers must not distinguish them.
var ErrUnauthenticated = errors.New("no resolvable session")

// ResolveSession resolves the request's session cookie to its session and
// user. Absence and expiry both yield ErrUnauthenticated; any other error is
// a store failure.
func ResolveSession(c echo.Context, conn *gorm.DB) (*models.Session, *models.User, error) {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil, ErrUnauthenticated
	}

	session := models.Session{}
	err = conn.Where("token = ?", cookie.Value).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, nil, err
	}
	if session.Expired() {
		return nil, nil, ErrUnauthenticated
	}

	user := models.User{}
	if err := conn.Where("id = ?", session.UserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUnauthenticated
		}
		return nil, nil, err
	}
	return &session, &user, nil
}

// VerifySessionMiddleware gates a route on a resolvable session. The resolved
// session and user are stashed in the request context for handlers.
func VerifySessionMiddleware(conn *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			logger := c.Logger()

			session, user, err := ResolveSession(c, conn)
			if err != nil {
				if errors.Is(err, ErrUnauthenticated) {
					return &echo.HTTPError{
						Code:    http.StatusUnauthorized,
						Message: "Authentication required, please login",
					}
				}
				logger.Error("Failed to resolve session: ", err)
				return echo.ErrInternalServerError
			}

			now := time.Now()
			session.LastUsedAt = &now
			if err := conn.Save(session).Error; err != nil {
				logger.Error("Failed to update session LastUsedAt: ", err)
			}

			c.Set("session", session)
			c.Set("user", user)
			return next(c)
		}
	}
}

// GetAuthenticatedUser returns the user stashed by VerifySessionMiddleware.
func GetAuthenticatedUser(c echo.Context) (*models.User, error) {
	if user, ok := c.Get("user").(*models.User); ok {
		return user, nil
	}
	return nil, errors.New("no authenticated user found")
}

// GetSession returns the session stashed by VerifySessionMiddleware.
func GetSession(c echo.Context) (*models.Session, bool) {
	session, ok := c.Get("session").(*models.Session)
	return session, ok
}
