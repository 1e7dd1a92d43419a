// SPDX-License-Identifier: GPL-3.0-only

package routes

import (
	"stationlog-server/commons"
	"stationlog-server/handlers"
	"stationlog-server/middlewares"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func RegisterRoutes(e *echo.Echo, h *handlers.Handler, conn *gorm.DB) {
	commons.Logger.Debug("Registering routes")
	auth := middlewares.VerifySessionMiddleware(conn)

	e.GET("/auth/me", h.MeHandler)
	e.POST("/auth/register", h.RegisterHandler)
	e.POST("/auth/login", h.LoginHandler)
	e.GET("/auth/check/:handle", h.CheckHandleHandler)
	e.POST("/auth/logout", h.LogoutHandler)

	e.GET("/api/stations", h.StationsHandler)
	e.GET("/api/visited", h.ListVisitedHandler, auth)
	e.POST("/api/visited/:stationId", h.MarkVisitedHandler, auth)
	e.DELETE("/api/visited/:stationId", h.UnmarkVisitedHandler, auth)
	e.DELETE("/api/visited", h.ClearVisitedHandler, auth)
	e.GET("/api/leaderboard", h.LeaderboardHandler, auth)
	e.GET("/api/activity", h.ActivityHandler, auth)

	e.GET("/", handlers.ServeIndex)
	e.GET("/static/*", handlers.ServeStaticFile)

	commons.Logger.Info("Routes registered successfully")
}
